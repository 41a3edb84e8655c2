// Package export writes decoded meshes as Wavefront OBJ text and binary
// glTF.
package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"edge-geom-extract/internal/geom"
	"edge-geom-extract/internal/material"
)

// WriteOBJ writes one mesh. mat may be nil when the mesh's material id has
// no entry in the table. tris replaces the mesh's own triangles when
// non-nil.
func WriteOBJ(w io.Writer, m *geom.MeshModel, mat *material.Entry, tris []geom.Triangle) error {
	if tris == nil {
		tris = m.Triangles
	}
	bw := bufio.NewWriter(w)

	if mat != nil {
		// Untextured entries get no MTL file.
		if len(mat.Textures) > 0 {
			fmt.Fprintf(bw, "mtllib %s\n", mat.MTLFileName())
		}
		fmt.Fprintf(bw, "usemtl %s\n", mat.Name())
	}

	for i := range m.Vertices {
		v := &m.Vertices[i]
		fmt.Fprintf(bw, "#%d", i+1)
		if len(v.DuplicatesOf) > 0 {
			fmt.Fprint(bw, " duplicate of (")
			for _, d := range v.DuplicatesOf {
				fmt.Fprintf(bw, "%d, ", d+1)
			}
			fmt.Fprint(bw, ")")
		}
		fmt.Fprintln(bw)
		if !v.InsideBounds {
			fmt.Fprintln(bw, "# INVALID, outside AABB")
		}
		fmt.Fprintf(bw, "v %f %f %f\n", v.Position[0], v.Position[1], v.Position[2])
		fmt.Fprintf(bw, "vt %f %f\n", v.UV[0], -v.UV[1])
		fmt.Fprintf(bw, "vn %f %f %f\n\n", v.Normal[0], v.Normal[1], v.Normal[2])
	}
	fmt.Fprintln(bw)

	for i, t := range tris {
		a, b, c := t.A+1, t.B+1, t.C+1
		fmt.Fprintf(bw, "f %d/%d/%d %d/%d/%d %d/%d/%d\n", a, a, a, b, b, b, c, c, c)
		if (i+1)%2 == 0 {
			fmt.Fprintln(bw)
		}
	}
	return bw.Flush()
}

// OBJName is the file name for mesh n of a geometry file.
func OBJName(geomPath string, n int) string {
	return fmt.Sprintf("%s%d.obj", filepath.Base(geomPath), n)
}

// WriteOBJFiles writes every mesh of g into dir and returns the paths.
func WriteOBJFiles(dir, geomPath string, g *geom.Geometry, tbl *material.Table, overrides map[int][]geom.Triangle) ([]string, error) {
	paths := make([]string, 0, len(g.Meshes))
	for i := range g.Meshes {
		m := &g.Meshes[i]
		path := filepath.Join(dir, OBJName(geomPath, i))
		f, err := os.Create(path)
		if err != nil {
			return paths, fmt.Errorf("export: create %s: %w", path, err)
		}
		err = WriteOBJ(f, m, tbl.Lookup(m.MaterialID()), overrides[i])
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return paths, fmt.Errorf("export: write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
