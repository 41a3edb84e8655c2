package texture

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Converter turns texture references into converted image files. It is
// safe for concurrent use. Each output file is written at most once; the
// first source that claims an output name owns it.
type Converter struct {
	Format  Format
	MaxEdge int

	mu    sync.Mutex
	items map[string]*cacheEntry // keyed by output path
}

type cacheEntry struct {
	once sync.Once
	name string // converted file name, relative to the output directory
	err  error
}

// NewConverter creates a converter producing format f.
func NewConverter(f Format, maxEdge int) *Converter {
	return &Converter{
		Format:  f,
		MaxEdge: maxEdge,
		items:   make(map[string]*cacheEntry),
	}
}

// Convert resolves texName through idx and writes the converted image into
// outDir. It returns the output file name relative to outDir.
func (c *Converter) Convert(idx *Index, texName, outDir string) (string, error) {
	src, ok := idx.ResolvePath(texName)
	if !ok {
		return "", fmt.Errorf("texture: %s not found", texName)
	}

	name := c.OutputName(src)
	key := filepath.Join(outDir, name)
	c.mu.Lock()
	entry, exists := c.items[key]
	if !exists {
		entry = &cacheEntry{}
		c.items[key] = entry
	}
	c.mu.Unlock()

	entry.once.Do(func() {
		entry.err = c.convert(src, key)
		if entry.err == nil {
			entry.name = name
		}
	})
	return entry.name, entry.err
}

// OutputName is the converted file name for a source texture.
func (c *Converter) OutputName(src string) string {
	base := filepath.Base(src)
	return strings.TrimSuffix(base, filepath.Ext(base)) + c.Format.Ext()
}

func (c *Converter) convert(src, out string) error {
	img, err := LoadTexture(src)
	if err != nil {
		return err
	}
	img = Fit(img, c.MaxEdge)

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("texture: create %s: %w", out, err)
	}
	err = Encode(f, img, c.Format)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("texture: write %s: %w", out, err)
	}
	return nil
}

// Len returns the number of output files claimed so far.
func (c *Converter) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
