package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"edge-geom-extract/internal/batch"
	"edge-geom-extract/internal/config"
	"edge-geom-extract/internal/texture"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	outputDir := flag.String("output", "", "Output directory (default: next to each input)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	format := flag.String("format", "", "Export format: obj, glb or both (default: obj)")
	textures := flag.String("textures", "", "Texture conversion: off, png or webp (default: off)")
	texSize := flag.Int("texsize", 0, "Longest edge of converted textures (default: 1024)")
	idx := flag.Bool("idx", false, "Replace triangles with <file>.idx.<n> sidecars when present")
	parallel := flag.Bool("parallel", false, "Decode meshes of one file concurrently")
	decodeOnly := flag.Bool("decode-only", false, "Decode and report, write nothing")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <file.geom.edge | directory>\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	root := flag.Arg(0)

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		OutputDir:      *outputDir,
		Format:         *format,
		Textures:       *textures,
		TextureMaxEdge: *texSize,
		Workers:        *workers,
		IndexOverride:  *idx,
		ParallelMeshes: *parallel,
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	files, err := batch.Collect(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Println("No geometry files found.")
		os.Exit(0)
	}

	texFormat, _ := texture.ParseFormat(cfg.Textures)
	var conv *texture.Converter
	if texFormat != texture.FormatOff {
		conv = texture.NewConverter(texFormat, cfg.TextureMaxEdge)
	}

	out := cfg.OutputDir
	if out == "" {
		out = "(next to input)"
	}
	fmt.Println("Edge geometry extract")
	fmt.Printf("Files: %d, Workers: %d\n", len(files), cfg.Workers)
	fmt.Printf("Format: %s, Textures: %s\n", cfg.Format, cfg.Textures)
	fmt.Printf("Output: %s\n", out)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	batchCfg := batch.Config{
		OutputDir:      cfg.OutputDir,
		OBJ:            cfg.WantsOBJ(),
		GLB:            cfg.WantsGLB(),
		Textures:       conv,
		IndexOverride:  cfg.IndexOverride,
		ParallelMeshes: cfg.ParallelMeshes,
		DecodeOnly:     *decodeOnly,
		Workers:        cfg.Workers,
		Progress:       len(files) > 1,
	}
	results := batch.Run(batchCfg, files)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	meshes, verts, tris := 0, 0, 0
	for _, r := range results {
		meshes += r.Meshes
		verts += r.Vertices
		tris += r.Triangles
		for _, w := range r.Warnings {
			fmt.Fprintf(os.Stderr, "Warning: %s: %s\n", r.Path, w)
		}
	}
	failed := batch.Failed(results)
	fmt.Printf("Decoded: %d/%d files, %d meshes, %d vertices, %d triangles\n",
		len(results)-len(failed), len(results), meshes, verts, tris)
	if conv != nil {
		fmt.Printf("Textures converted: %d\n", conv.Len())
	}

	if len(failed) > 0 {
		fmt.Printf("\nFailed (%d):\n", len(failed))
		limit := min(len(failed), 20)
		for _, r := range failed[:limit] {
			fmt.Printf("  %s: %s\n", r.Path, r.Error)
		}
	}

	// Write manifest
	if cfg.OutputDir != "" && !*decodeOnly {
		manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
		os.MkdirAll(cfg.OutputDir, 0755)
		if err := batch.WriteManifest(manifestPath, results); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
		} else {
			fmt.Printf("Manifest: %s\n", manifestPath)
		}
	}

	if len(failed) > 0 {
		os.Exit(1)
	}
}
