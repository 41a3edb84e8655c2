package batch

import (
	"encoding/json"
	"os"
)

// ManifestEntry represents one geometry file in the output manifest.
type ManifestEntry struct {
	Source    string   `json:"source"`
	Meshes    int      `json:"meshes"`
	Vertices  int      `json:"vertices"`
	Triangles int      `json:"triangles"`
	Outputs   []string `json:"outputs,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// WriteManifest writes manifest.json describing every processed file.
func WriteManifest(path string, results []Result) error {
	entries := make([]ManifestEntry, len(results))
	for i, r := range results {
		entries[i] = ManifestEntry{
			Source:    r.Path,
			Meshes:    r.Meshes,
			Vertices:  r.Vertices,
			Triangles: r.Triangles,
			Outputs:   r.Outputs,
			Warnings:  r.Warnings,
			Error:     r.Error,
		}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
