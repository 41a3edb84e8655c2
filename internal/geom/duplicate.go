package geom

import "edge-geom-extract/internal/mathutil"

// DuplicateEpsilon is the per-axis tolerance for coincident positions.
const DuplicateEpsilon = 1e-5

// MarkDuplicates records every pair of coincident vertices in both
// vertices' DuplicatesOf lists. Vertices are never merged or reordered.
func MarkDuplicates(verts []Vertex) {
	for i := range verts {
		for j := i + 1; j < len(verts); j++ {
			if mathutil.Near(verts[i].Position, verts[j].Position, DuplicateEpsilon) {
				verts[i].DuplicatesOf = append(verts[i].DuplicatesOf, verts[j].ID)
				verts[j].DuplicatesOf = append(verts[j].DuplicatesOf, verts[i].ID)
			}
		}
	}
}
