package geom

import (
	"math/rand"
	"slices"
	"testing"
)

func TestMarkDuplicatesSymmetric(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	verts := make([]Vertex, 60)
	for i := range verts {
		// A coarse grid makes coincident positions common.
		verts[i] = Vertex{
			ID:       uint32(i),
			Position: [3]float32{float32(rng.Intn(3)), float32(rng.Intn(3)), float32(rng.Intn(2))},
		}
	}
	MarkDuplicates(verts)

	pairs := 0
	for _, a := range verts {
		for _, id := range a.DuplicatesOf {
			pairs++
			if id == a.ID {
				t.Errorf("vertex %d lists itself", a.ID)
			}
			if !slices.Contains(verts[id].DuplicatesOf, a.ID) {
				t.Errorf("%d lists %d but not the reverse", a.ID, id)
			}
			if verts[id].Position != a.Position {
				t.Errorf("%d and %d are not coincident", a.ID, id)
			}
		}
	}
	if pairs == 0 {
		t.Fatal("fixture produced no duplicates")
	}
}

func TestMarkDuplicatesIgnoresAttributes(t *testing.T) {
	verts := []Vertex{
		{ID: 0, Position: [3]float32{1, 1, 1}, UV: [2]float32{0, 0}, Normal: [3]float32{1, 0, 0}},
		{ID: 1, Position: [3]float32{1, 1, 1.000009}, UV: [2]float32{1, 1}, Normal: [3]float32{0, 1, 0}},
		{ID: 2, Position: [3]float32{1, 1, 1.0001}},
	}
	MarkDuplicates(verts)
	if !slices.Equal(verts[0].DuplicatesOf, []uint32{1}) || !slices.Equal(verts[1].DuplicatesOf, []uint32{0}) {
		t.Errorf("duplicates = %v / %v", verts[0].DuplicatesOf, verts[1].DuplicatesOf)
	}
	if len(verts[2].DuplicatesOf) != 0 {
		t.Errorf("vertex 2 duplicates = %v", verts[2].DuplicatesOf)
	}
}
