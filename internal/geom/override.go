package geom

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"edge-geom-extract/internal/binio"
)

// OverridePath names the sidecar index file for mesh n of a geometry file.
func OverridePath(geomPath string, n int) string {
	return fmt.Sprintf("%s.idx.%d", geomPath, n)
}

// ParseOverride decodes a sidecar index file: packed big-endian u16
// triples, one per triangle. A trailing partial triple is ignored.
func ParseOverride(data []byte) []Triangle {
	c := binio.NewCursor(data, 0)
	tris := make([]Triangle, 0, len(data)/6)
	for c.Remaining() >= 6 {
		a, _ := c.U16()
		b, _ := c.U16()
		cc, _ := c.U16()
		tris = append(tris, Triangle{A: uint32(a), B: uint32(b), C: uint32(cc)})
	}
	return tris
}

// LoadOverride reads the sidecar for mesh n and drops triangles that
// reference a vertex at or past vertexCount, returning how many were
// dropped. It returns (nil, 0, nil) when no sidecar exists.
func LoadOverride(geomPath string, n, vertexCount int) ([]Triangle, int, error) {
	path := OverridePath(geomPath, n)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("geom: read %s: %w", path, err)
	}
	tris, dropped := ClipTriangles(ParseOverride(data), vertexCount)
	return tris, dropped, nil
}

// ClipTriangles keeps the triangles whose corners are all below
// vertexCount.
func ClipTriangles(tris []Triangle, vertexCount int) ([]Triangle, int) {
	kept := make([]Triangle, 0, len(tris))
	vc := uint32(max(vertexCount, 0))
	for _, t := range tris {
		if t.A < vc && t.B < vc && t.C < vc {
			kept = append(kept, t)
		}
	}
	return kept, len(tris) - len(kept)
}
