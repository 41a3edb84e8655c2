package config

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"

	"edge-geom-extract/internal/texture"
)

// Export formats.
const (
	FormatOBJ  = "obj"
	FormatGLB  = "glb"
	FormatBoth = "both"
)

// Config holds output paths and export settings.
type Config struct {
	// Paths
	OutputDir string `json:"output_dir"` // empty: next to each input file

	// Export settings
	Format         string `json:"format"`
	Textures       string `json:"textures"`
	TextureMaxEdge int    `json:"texture_max_edge"`
	IndexOverride  bool   `json:"index_override"`
	ParallelMeshes bool   `json:"parallel_meshes"`
	Workers        int    `json:"workers"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.Textures != "" {
		c.Textures = flags.Textures
	}
	if flags.TextureMaxEdge > 0 {
		c.TextureMaxEdge = flags.TextureMaxEdge
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.IndexOverride {
		c.IndexOverride = true
	}
	if flags.ParallelMeshes {
		c.ParallelMeshes = true
	}

	// Defaults
	if c.Format == "" {
		c.Format = FormatOBJ
	}
	if c.Textures == "" {
		c.Textures = string(texture.FormatOff)
	}
	if c.TextureMaxEdge <= 0 {
		c.TextureMaxEdge = 1024
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}

// Validate rejects unknown format names.
func (c *Config) Validate() error {
	switch c.Format {
	case FormatOBJ, FormatGLB, FormatBoth:
	default:
		return fmt.Errorf("config: unknown format %q (want obj, glb or both)", c.Format)
	}
	if _, err := texture.ParseFormat(c.Textures); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// WantsOBJ and WantsGLB report which exporters run.
func (c *Config) WantsOBJ() bool { return c.Format == FormatOBJ || c.Format == FormatBoth }
func (c *Config) WantsGLB() bool { return c.Format == FormatGLB || c.Format == FormatBoth }

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	OutputDir      string
	Format         string
	Textures       string
	TextureMaxEdge int
	Workers        int
	IndexOverride  bool
	ParallelMeshes bool
}
