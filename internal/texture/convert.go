package texture

import (
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/HugoSmits86/nativewebp"

	"edge-geom-extract/internal/postprocess"
)

// Format selects the encoding of converted textures.
type Format string

const (
	FormatOff  Format = "off"
	FormatPNG  Format = "png"
	FormatWebP Format = "webp"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatOff, FormatPNG, FormatWebP:
		return f, nil
	}
	return "", fmt.Errorf("texture: unknown format %q (want off, png or webp)", s)
}

// Ext is the file extension written for f.
func (f Format) Ext() string {
	return "." + string(f)
}

// Fit scales img down so neither edge exceeds maxEdge, keeping the aspect
// ratio. Images already small enough, or maxEdge <= 0, are returned as is.
func Fit(img *image.NRGBA, maxEdge int) *image.NRGBA {
	if maxEdge <= 0 {
		return img
	}
	return postprocess.Downsample(img, maxEdge)
}

// Encode writes img in format f.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatWebP:
		if err := nativewebp.Encode(w, img, nil); err != nil {
			return fmt.Errorf("texture: webp encode: %w", err)
		}
		return nil
	}
	return fmt.Errorf("texture: cannot encode format %q", f)
}
