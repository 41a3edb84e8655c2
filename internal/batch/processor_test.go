package batch

import (
	"encoding/binary"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"edge-geom-extract/internal/geom/geomtest"
	"edge-geom-extract/internal/texture"
)

func writeFixture(t *testing.T, dir, stem string, withMaterial bool) string {
	t.Helper()
	min, max := geomtest.UnitBox()
	geomPath := filepath.Join(dir, stem+".geom.edge")
	if err := os.WriteFile(geomPath, geomtest.Build(min, max, []geomtest.Mesh{geomtest.Quad(), geomtest.Quad()}), 0644); err != nil {
		t.Fatal(err)
	}
	if !withMaterial {
		return geomPath
	}

	// Three materials so the quad's material id 2 resolves.
	mat := binary.BigEndian.AppendUint32(nil, 3)
	for i := 0; i < 3; i++ {
		mat = binary.BigEndian.AppendUint32(mat, 1)
		name := make([]byte, 64)
		file := make([]byte, 64)
		copy(name, "skin")
		copy(file, "skin.tga")
		mat = append(mat, name...)
		mat = append(mat, file...)
	}
	if err := os.WriteFile(filepath.Join(dir, stem+".mat.edge"), mat, 0644); err != nil {
		t.Fatal(err)
	}

	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	img.SetNRGBA(1, 1, color.NRGBA{255, 255, 255, 255})
	f, err := os.Create(filepath.Join(dir, "skin.png"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return geomPath
}

func TestProcessFile(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	geomPath := writeFixture(t, src, "Box", true)

	// Sidecar replaces mesh 1's triangles in the export.
	if err := os.WriteFile(geomPath+".idx.1", []byte{0, 2, 0, 1, 0, 0}, 0644); err != nil {
		t.Fatal(err)
	}

	cfg := Config{
		OutputDir:     out,
		OBJ:           true,
		GLB:           true,
		Textures:      texture.NewConverter(texture.FormatPNG, 0),
		IndexOverride: true,
	}
	res := ProcessFile(cfg, geomPath)
	if !res.Success {
		t.Fatalf("failed: %s", res.Error)
	}
	if res.Meshes != 2 || res.Vertices != 10 || res.Triangles != 4 {
		t.Errorf("counts = %d meshes, %d vertices, %d triangles", res.Meshes, res.Vertices, res.Triangles)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("warnings = %v", res.Warnings)
	}

	for _, name := range []string{"0_Box.mtl", "2_Box.mtl", "Box.geom.edge0.obj", "Box.geom.edge1.obj", "Box.glb", "skin.png"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("missing output %s: %v", name, err)
		}
	}

	mtl, err := os.ReadFile(filepath.Join(out, "2_Box.mtl"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(mtl), "map_Kd skin.png\n") {
		t.Errorf("mtl does not reference converted texture:\n%s", mtl)
	}

	obj, err := os.ReadFile(filepath.Join(out, "Box.geom.edge1.obj"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(obj), "usemtl skin\n") || !strings.HasSuffix(string(obj), "f 3/3/3 2/2/2 1/1/1\n") {
		t.Errorf("unexpected obj:\n%s", obj)
	}
}

func TestProcessFileWithoutMaterial(t *testing.T) {
	dir := t.TempDir()
	geomPath := writeFixture(t, dir, "Bare", false)
	res := ProcessFile(Config{OBJ: true}, geomPath)
	if !res.Success {
		t.Fatalf("failed: %s", res.Error)
	}
	if len(res.Warnings) != 1 {
		t.Errorf("warnings = %v, want the missing material", res.Warnings)
	}
	if _, err := os.Stat(filepath.Join(dir, "Bare.geom.edge0.obj")); err != nil {
		t.Error(err)
	}
}

func TestProcessFileClipsOverride(t *testing.T) {
	dir := t.TempDir()
	geomPath := writeFixture(t, dir, "Clip", false)
	// The second triple points at vertex 9 of a five-vertex mesh.
	sidecar := []byte{0, 2, 0, 1, 0, 0, 0, 9, 0, 1, 0, 0}
	if err := os.WriteFile(geomPath+".idx.0", sidecar, 0644); err != nil {
		t.Fatal(err)
	}
	res := ProcessFile(Config{OBJ: true, IndexOverride: true}, geomPath)
	if !res.Success {
		t.Fatalf("failed: %s", res.Error)
	}
	if len(res.Warnings) != 2 || !strings.Contains(res.Warnings[1], "1 triangles reference missing vertices") {
		t.Errorf("warnings = %v", res.Warnings)
	}
	obj, err := os.ReadFile(filepath.Join(dir, "Clip.geom.edge0.obj"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(string(obj), "f 3/3/3 2/2/2 1/1/1\n") || strings.Contains(string(obj), " 10/") {
		t.Errorf("unexpected obj:\n%s", obj)
	}
}

func TestRunContinuesPastFailures(t *testing.T) {
	dir := t.TempDir()
	good := writeFixture(t, dir, "Good", false)
	bad := filepath.Join(dir, "Bad.geom.edge")
	if err := os.WriteFile(bad, []byte{0, 0, 0, 9}, 0644); err != nil {
		t.Fatal(err)
	}

	files, err := Collect(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Fatalf("Collect = %v", files)
	}

	results := Run(Config{DecodeOnly: true, Workers: 2}, files)
	failed := Failed(results)
	if len(failed) != 1 || failed[0].Path != bad {
		t.Fatalf("failed = %+v", failed)
	}
	if !strings.Contains(failed[0].Error, "truncated") {
		t.Errorf("error = %q", failed[0].Error)
	}
	for _, r := range results {
		if r.Path == good && (!r.Success || r.Meshes != 2) {
			t.Errorf("good file result = %+v", r)
		}
	}

	manifest := filepath.Join(dir, "manifest.json")
	if err := WriteManifest(manifest, results); err != nil {
		t.Fatal(err)
	}
	var entries []ManifestEntry
	data, err := os.ReadFile(manifest)
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("manifest has %d entries", len(entries))
	}
}

func TestCollectSingleFile(t *testing.T) {
	dir := t.TempDir()
	p := writeFixture(t, dir, "One", false)
	files, err := Collect(p)
	if err != nil || len(files) != 1 || files[0] != p {
		t.Errorf("Collect = %v, %v", files, err)
	}
	if _, err := Collect(filepath.Join(dir, "nope")); err == nil {
		t.Error("Collect of missing path succeeded")
	}
}
