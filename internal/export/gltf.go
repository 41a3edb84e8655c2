package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"edge-geom-extract/internal/geom"
	"edge-geom-extract/internal/material"
)

// GLBName is the binary glTF file name for a geometry file.
func GLBName(geomPath string) string {
	return strings.TrimSuffix(filepath.Base(geomPath), ".geom.edge") + ".glb"
}

// BuildGLTF converts every mesh with at least one triangle into a glTF
// mesh with one primitive and one node. Materials are created on demand,
// one per referenced material id. It returns the document and the indices
// of meshes that were skipped for being empty.
func BuildGLTF(g *geom.Geometry, tbl *material.Table, overrides map[int][]geom.Triangle) (*gltf.Document, []int) {
	doc := gltf.NewDocument()
	matIndex := make(map[int]uint32)
	var skipped []int

	for i := range g.Meshes {
		m := &g.Meshes[i]
		tris := m.Triangles
		if o, ok := overrides[i]; ok {
			tris = o
		}
		if len(tris) == 0 || len(m.Vertices) == 0 {
			skipped = append(skipped, i)
			continue
		}

		positions := make([][3]float32, len(m.Vertices))
		normals := make([][3]float32, len(m.Vertices))
		uvs := make([][2]float32, len(m.Vertices))
		for k, v := range m.Vertices {
			positions[k] = v.Position
			normals[k] = v.Normal
			uvs[k] = v.UV
		}
		indices := make([]uint32, 0, 3*len(tris))
		for _, t := range tris {
			indices = append(indices, t.A, t.B, t.C)
		}

		prim := &gltf.Primitive{
			Mode:    gltf.PrimitiveTriangles,
			Indices: gltf.Index(modeler.WriteIndices(doc, indices)),
			Attributes: map[string]uint32{
				gltf.POSITION:   modeler.WritePosition(doc, positions),
				gltf.NORMAL:     modeler.WriteNormal(doc, normals),
				gltf.TEXCOORD_0: modeler.WriteTextureCoord(doc, uvs),
			},
		}

		id := m.MaterialID()
		mi, ok := matIndex[id]
		if !ok {
			name := fmt.Sprintf("material_%d", id)
			if e := tbl.Lookup(id); e != nil {
				name = e.Name()
			}
			mi = uint32(len(doc.Materials))
			doc.Materials = append(doc.Materials, &gltf.Material{Name: name})
			matIndex[id] = mi
		}
		prim.Material = gltf.Index(mi)

		meshName := fmt.Sprintf("mesh_%d", i)
		doc.Meshes = append(doc.Meshes, &gltf.Mesh{Name: meshName, Primitives: []*gltf.Primitive{prim}})
		doc.Nodes = append(doc.Nodes, &gltf.Node{Name: meshName, Mesh: gltf.Index(uint32(len(doc.Meshes) - 1))})
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(len(doc.Nodes)-1))
	}
	return doc, skipped
}

// WriteGLB writes g as a single .glb file into dir.
func WriteGLB(dir, geomPath string, g *geom.Geometry, tbl *material.Table, overrides map[int][]geom.Triangle) (string, []int, error) {
	doc, skipped := BuildGLTF(g, tbl, overrides)
	path := filepath.Join(dir, GLBName(geomPath))
	if err := gltf.SaveBinary(doc, path); err != nil {
		return "", skipped, fmt.Errorf("export: write %s: %w", path, err)
	}
	return path, skipped, nil
}
