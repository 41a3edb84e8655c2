package batch

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"edge-geom-extract/internal/export"
	"edge-geom-extract/internal/geom"
	"edge-geom-extract/internal/material"
	"edge-geom-extract/internal/texture"
)

// GeomSuffix marks geometry files when walking a directory.
const GeomSuffix = ".geom.edge"

// Config holds all shared resources for a batch run.
type Config struct {
	OutputDir      string // empty: write next to each input
	OBJ            bool
	GLB            bool
	Textures       *texture.Converter // nil: reference textures as stored
	IndexOverride  bool
	ParallelMeshes bool
	DecodeOnly     bool
	Workers        int
	Progress       bool
}

// Result holds the outcome of processing one geometry file.
type Result struct {
	Path      string
	Meshes    int
	Vertices  int
	Triangles int
	Outputs   []string
	Warnings  []string
	Success   bool
	Error     string
}

// Collect returns root itself when it is a file, or every geometry file
// below it when it is a directory.
func Collect(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("batch: stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(strings.ToLower(d.Name()), GeomSuffix) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("batch: walk %s: %w", root, err)
	}
	return files, nil
}

// Run processes all files using a worker pool. A failing file never stops
// the others.
func Run(cfg Config, files []string) []Result {
	total := len(files)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	if cfg.Progress {
		go func() {
			ticker := time.NewTicker(2 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					p := processed.Load()
					if p > 0 {
						elapsed := time.Since(start).Seconds()
						rate := float64(p) / elapsed
						fmt.Printf("  [%d/%d] %.1f files/sec\n", p, total, rate)
					}
				}
			}
		}()
	}

	workers := max(cfg.Workers, 1)
	fileChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range fileChan {
				results[idx] = ProcessFile(cfg, files[idx])
				processed.Add(1)
			}
		}()
	}

	// Send work
	for i := range files {
		fileChan <- i
	}
	close(fileChan)

	wg.Wait()
	close(done)

	return results
}

// ProcessFile decodes and exports one geometry file.
func ProcessFile(cfg Config, path string) Result {
	res := Result{Path: path}
	fail := func(err error) Result {
		res.Error = err.Error()
		return res
	}

	g, err := geom.ParseFile(path, geom.Options{Parallel: cfg.ParallelMeshes})
	if err != nil {
		return fail(err)
	}
	res.Meshes = len(g.Meshes)
	for i := range g.Meshes {
		res.Vertices += len(g.Meshes[i].Vertices)
		res.Triangles += len(g.Meshes[i].Triangles)
	}
	if cfg.DecodeOnly {
		res.Success = true
		return res
	}

	matPath := material.PathFor(path)
	tbl, err := material.Load(matPath)
	if err != nil {
		// Meshes still export, just without mtllib/usemtl.
		res.Warnings = append(res.Warnings, err.Error())
		tbl = nil
	}

	outDir := cfg.OutputDir
	if outDir == "" {
		outDir = filepath.Dir(path)
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fail(err)
	}

	var overrides map[int][]geom.Triangle
	if cfg.IndexOverride {
		overrides = make(map[int][]geom.Triangle)
		for i := range g.Meshes {
			tris, dropped, err := geom.LoadOverride(path, i, len(g.Meshes[i].Vertices))
			if err != nil {
				return fail(err)
			}
			if dropped > 0 {
				res.Warnings = append(res.Warnings, fmt.Sprintf("%s: %d triangles reference missing vertices, dropped", geom.OverridePath(path, i), dropped))
			}
			if tris != nil {
				overrides[i] = tris
			}
		}
	}

	if tbl != nil {
		mapTex := textureMapper(cfg.Textures, filepath.Dir(matPath), outDir, &res)
		dump, err := material.DumpAll(tbl, outDir, mapTex)
		if err != nil {
			return fail(err)
		}
		res.Outputs = append(res.Outputs, dump.Written...)
		res.Warnings = append(res.Warnings, dump.Warnings...)
	}

	if cfg.OBJ {
		paths, err := export.WriteOBJFiles(outDir, path, g, tbl, overrides)
		res.Outputs = append(res.Outputs, paths...)
		if err != nil {
			return fail(err)
		}
	}
	if cfg.GLB {
		out, skipped, err := export.WriteGLB(outDir, path, g, tbl, overrides)
		if err != nil {
			return fail(err)
		}
		res.Outputs = append(res.Outputs, out)
		for _, i := range skipped {
			res.Warnings = append(res.Warnings, fmt.Sprintf("mesh %d has no triangles, left out of %s", i, filepath.Base(out)))
		}
	}

	res.Success = true
	return res
}

// textureMapper converts referenced textures on first use. Textures that
// cannot be converted keep their original reference and add a warning.
func textureMapper(conv *texture.Converter, texDir, outDir string, res *Result) material.TextureMapper {
	if conv == nil || conv.Format == texture.FormatOff {
		return nil
	}
	idx := texture.BuildIndex(texDir)
	return func(texFile string) string {
		name, err := conv.Convert(idx, texFile, outDir)
		if err != nil {
			res.Warnings = append(res.Warnings, err.Error())
			return texFile
		}
		return name
	}
}

// Failed returns the results that did not succeed.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Success {
			out = append(out, r)
		}
	}
	return out
}
