// Package material reads *.mat.edge material tables and writes the
// matching Wavefront MTL files.
package material

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"edge-geom-extract/internal/binio"
)

// NameSize is the width of every fixed string in a material file.
const NameSize = 64

// Texture is one (name, file) pair of a material entry.
type Texture struct {
	Name string
	File string
}

// Entry is one material. ID is its position in the table, which is what
// mesh headers refer to.
type Entry struct {
	ID       int
	Textures []Texture
	Source   string // path of the material file
}

// Name is the material name used by usemtl/newmtl.
func (e *Entry) Name() string {
	if len(e.Textures) > 0 {
		return e.Textures[0].Name
	}
	return "NO_TEXTURE"
}

// MTLFileName is "<id>_<material file stem>.mtl".
func (e *Entry) MTLFileName() string {
	base := filepath.Base(filepath.ToSlash(e.Source))
	base = strings.Replace(base, ".mat.edge", "", 1)
	return fmt.Sprintf("%d_%s.mtl", e.ID, base)
}

// Table is a parsed material file.
type Table struct {
	Path    string
	Entries []Entry
}

// Lookup returns the entry for a mesh's material id, or nil when the id is
// out of range.
func (t *Table) Lookup(id int) *Entry {
	if t == nil || id < 0 || id >= len(t.Entries) {
		return nil
	}
	return &t.Entries[id]
}

// Parse decodes a material table.
func Parse(data []byte, source string) (*Table, error) {
	c := binio.NewCursor(data, 0)
	count, err := c.U32()
	if err != nil {
		return nil, fmt.Errorf("material: %s: %w", source, err)
	}
	// Each entry is at least its texture count.
	if int64(count)*4 > int64(c.Remaining()) {
		return nil, fmt.Errorf("material: %s: %w", source,
			&binio.TruncatedInputError{Offset: c.Offset(), Want: int(count) * 4, Have: c.Remaining()})
	}

	t := &Table{Path: source, Entries: make([]Entry, 0, count)}
	for m := 0; m < int(count); m++ {
		texCount, err := c.U32()
		if err != nil {
			return nil, fmt.Errorf("material: %s entry %d: %w", source, m, err)
		}
		if int64(texCount)*2*NameSize > int64(c.Remaining()) {
			return nil, fmt.Errorf("material: %s entry %d: %w", source, m,
				&binio.TruncatedInputError{Offset: c.Offset(), Want: int(texCount) * 2 * NameSize, Have: c.Remaining()})
		}
		e := Entry{ID: m, Source: source, Textures: make([]Texture, texCount)}
		for i := range e.Textures {
			e.Textures[i].Name, _ = c.FixedString(NameSize)
			e.Textures[i].File, _ = c.FixedString(NameSize)
		}
		t.Entries = append(t.Entries, e)
	}
	return t, nil
}

// Load reads and parses a material file.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("material: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// PathFor derives the material file that accompanies a geometry file.
func PathFor(geomPath string) string {
	dir, file := filepath.Split(geomPath)
	return dir + strings.Replace(file, "geom.edge", "mat.edge", 1)
}
