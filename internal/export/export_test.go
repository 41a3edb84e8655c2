package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"edge-geom-extract/internal/geom"
	"edge-geom-extract/internal/material"
)

func sampleGeometry() *geom.Geometry {
	verts := []geom.Vertex{
		{ID: 0, Position: [3]float32{0, 0, 0}, UV: [2]float32{0, 0.25}, Normal: [3]float32{0, 0, 1}, InsideBounds: true, DuplicatesOf: []uint32{3}},
		{ID: 1, Position: [3]float32{1, 0, 0}, Normal: [3]float32{0, 0, 1}, InsideBounds: true},
		{ID: 2, Position: [3]float32{1, 1, 0}, Normal: [3]float32{0, 0, 1}, InsideBounds: true},
		{ID: 3, Position: [3]float32{0, 0, 0}, Normal: [3]float32{0, 0, 1}, InsideBounds: false, DuplicatesOf: []uint32{0}},
	}
	return &geom.Geometry{
		Header: geom.ContainerHeader{MeshCount: 2},
		Meshes: []geom.MeshModel{
			{Index: 0, Header: geom.MeshHeader{MaterialID: 0}, Vertices: verts, Triangles: []geom.Triangle{{A: 0, B: 1, C: 2}, {A: 2, B: 1, C: 3}, {A: 0, B: 2, C: 3}}},
			{Index: 1, Header: geom.MeshHeader{MaterialID: 5}, Vertices: verts[:3]},
		},
	}
}

func sampleTable() *material.Table {
	return &material.Table{
		Path: "Box.mat.edge",
		Entries: []material.Entry{
			{ID: 0, Source: "Box.mat.edge", Textures: []material.Texture{{Name: "box", File: "box.tga"}}},
		},
	}
}

func TestWriteOBJ(t *testing.T) {
	g := sampleGeometry()
	var buf bytes.Buffer
	if err := WriteOBJ(&buf, &g.Meshes[0], sampleTable().Lookup(0), nil); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	for _, want := range []string{
		"mtllib 0_Box.mtl\nusemtl box\n",
		"#1 duplicate of (4, )\nv 0.000000 0.000000 0.000000\nvt 0.000000 -0.250000\nvn 0.000000 0.000000 1.000000\n\n",
		"#2\nv 1.000000",
		"#4 duplicate of (1, )\n# INVALID, outside AABB\nv ",
		"f 1/1/1 2/2/2 3/3/3\nf 3/3/3 2/2/2 4/4/4\n\nf 1/1/1 3/3/3 4/4/4\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("OBJ output missing %q\n%s", want, out)
		}
	}
}

func TestWriteOBJWithoutMaterial(t *testing.T) {
	g := sampleGeometry()
	var buf bytes.Buffer
	override := []geom.Triangle{{A: 2, B: 1, C: 0}}
	if err := WriteOBJ(&buf, &g.Meshes[1], nil, override); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Contains(out, "mtllib") {
		t.Error("mtllib written for missing material")
	}
	if !strings.HasSuffix(out, "f 3/3/3 2/2/2 1/1/1\n") {
		t.Errorf("override faces not written:\n%s", out)
	}
}

func TestWriteOBJUntexturedMaterial(t *testing.T) {
	g := sampleGeometry()
	e := &material.Entry{ID: 0, Source: "Box.mat.edge"}
	var buf bytes.Buffer
	if err := WriteOBJ(&buf, &g.Meshes[0], e, nil); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Contains(out, "mtllib") {
		t.Errorf("mtllib points at an MTL file that is never written:\n%s", out)
	}
	if !strings.HasPrefix(out, "usemtl NO_TEXTURE\n") {
		t.Errorf("usemtl missing:\n%s", out)
	}
}

func TestWriteOBJFiles(t *testing.T) {
	dir := t.TempDir()
	paths, err := WriteOBJFiles(dir, "/data/Box.geom.edge", sampleGeometry(), sampleTable(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 2 || filepath.Base(paths[1]) != "Box.geom.edge1.obj" {
		t.Fatalf("paths = %v", paths)
	}
	if _, err := os.Stat(paths[0]); err != nil {
		t.Error(err)
	}
}

func TestWriteGLB(t *testing.T) {
	dir := t.TempDir()
	path, skipped, err := WriteGLB(dir, "Box.geom.edge", sampleGeometry(), sampleTable(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "Box.glb" {
		t.Errorf("path = %s", path)
	}
	if len(skipped) != 1 || skipped[0] != 1 {
		t.Errorf("skipped = %v, want [1]", skipped)
	}

	doc, err := gltf.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Meshes) != 1 || len(doc.Nodes) != 1 || len(doc.Materials) != 1 {
		t.Fatalf("meshes %d nodes %d materials %d", len(doc.Meshes), len(doc.Nodes), len(doc.Materials))
	}
	if doc.Materials[0].Name != "box" {
		t.Errorf("material name = %q", doc.Materials[0].Name)
	}
	prim := doc.Meshes[0].Primitives[0]
	indices, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []uint32{0, 1, 2, 2, 1, 3, 0, 2, 3}
	if len(indices) != len(want) {
		t.Fatalf("indices = %v", indices)
	}
	for i := range want {
		if indices[i] != want[i] {
			t.Fatalf("indices = %v, want %v", indices, want)
		}
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[prim.Attributes[gltf.POSITION]], nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(positions) != 4 || positions[2] != [3]float32{1, 1, 0} {
		t.Errorf("positions = %v", positions)
	}
}

func TestBuildGLTFOverride(t *testing.T) {
	g := sampleGeometry()
	doc, skipped := BuildGLTF(g, nil, map[int][]geom.Triangle{1: {{A: 0, B: 1, C: 2}}})
	if len(skipped) != 0 {
		t.Errorf("skipped = %v", skipped)
	}
	if len(doc.Meshes) != 2 {
		t.Fatalf("got %d meshes", len(doc.Meshes))
	}
	if doc.Materials[1].Name != "material_5" {
		t.Errorf("fallback material name = %q", doc.Materials[1].Name)
	}
}
