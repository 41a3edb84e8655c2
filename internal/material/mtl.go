package material

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// TextureMapper rewrites a texture file reference, e.g. to point at a
// converted copy. It returns the original name when nothing changes.
type TextureMapper func(texFile string) string

// WriteMTL writes the MTL body for e. It reports whether the entry had
// more textures than the diffuse and normal slots can hold.
func WriteMTL(w io.Writer, e *Entry, mapTex TextureMapper) (extra bool, err error) {
	if mapTex == nil {
		mapTex = func(s string) string { return s }
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "newmtl %s\n", e.Name())
	fmt.Fprintf(bw, "Ka 1.000000 1.000000 1.000000\n")
	fmt.Fprintf(bw, "Kd 1.000000 1.000000 1.000000\n")
	fmt.Fprintf(bw, "Ks 0.000000 0.000000 0.000000\n")
	if len(e.Textures) > 0 {
		fmt.Fprintf(bw, "map_Kd %s\n", mapTex(e.Textures[0].File))
	}
	if len(e.Textures) > 1 {
		fmt.Fprintf(bw, "norm %s\n", mapTex(e.Textures[1].File))
	}
	return len(e.Textures) > 2, bw.Flush()
}

// DumpResult summarizes a DumpAll call.
type DumpResult struct {
	Written  []string
	Warnings []string
}

// DumpAll writes one MTL file per textured entry into dir. Entries without
// textures produce no file.
func DumpAll(t *Table, dir string, mapTex TextureMapper) (DumpResult, error) {
	var res DumpResult
	for i := range t.Entries {
		e := &t.Entries[i]
		if len(e.Textures) == 0 {
			continue
		}
		path := filepath.Join(dir, e.MTLFileName())
		f, err := os.Create(path)
		if err != nil {
			return res, fmt.Errorf("material: create %s: %w", path, err)
		}
		extra, err := WriteMTL(f, e, mapTex)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return res, fmt.Errorf("material: write %s: %w", path, err)
		}
		if extra {
			res.Warnings = append(res.Warnings, fmt.Sprintf("%s: material %d has %d textures, only 2 exported", t.Path, e.ID, len(e.Textures)))
		}
		res.Written = append(res.Written, path)
	}
	return res, nil
}
