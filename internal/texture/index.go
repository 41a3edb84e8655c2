package texture

import (
	"os"
	"path/filepath"
	"strings"
)

// extPriority ranks decodable extensions; lower wins when two files share
// a stem. TGA keeps its alpha channel, so it beats the rest.
var extPriority = map[string]int{
	".tga":  0,
	".png":  1,
	".bmp":  2,
	".jpg":  3,
	".jpeg": 3,
}

// Index maps lowercase texture stems to filesystem paths.
type Index struct {
	entries map[string]string // stem.lower() → full path
}

// BuildIndex scans dir and its texture subdirectories for decodable images.
func BuildIndex(dir string) *Index {
	idx := &Index{entries: make(map[string]string)}

	searchDirs := []string{dir}
	for _, sub := range []string{"texture", "Texture", "textures", "Textures"} {
		p := filepath.Join(dir, sub)
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			searchDirs = append(searchDirs, p)
		}
	}

	for _, d := range searchDirs {
		entries, err := os.ReadDir(d)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			path := filepath.Join(d, e.Name())
			ext := strings.ToLower(filepath.Ext(path))
			rank, ok := extPriority[ext]
			if !ok {
				continue
			}
			stem := strings.ToLower(strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))

			existing, exists := idx.entries[stem]
			if !exists || rank < extPriority[strings.ToLower(filepath.Ext(existing))] {
				idx.entries[stem] = path
			}
		}
	}

	return idx
}

// ResolvePath returns the filesystem path for a texture reference, or
// ("", false). Directory prefixes and extensions in the reference are
// ignored.
func (idx *Index) ResolvePath(texName string) (string, bool) {
	texName = strings.ReplaceAll(texName, "\\", "/")
	base := filepath.Base(texName)
	stem := strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))

	path, ok := idx.entries[stem]
	return path, ok
}

// Len returns the number of indexed textures.
func (idx *Index) Len() int {
	return len(idx.entries)
}
