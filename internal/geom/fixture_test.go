package geom

import "edge-geom-extract/internal/geom/geomtest"

var unitBox = AABB{Min: [3]float32{0, 0, 0}, Max: [3]float32{1, 1, 1}}

func buildContainer(meshes ...geomtest.Mesh) []byte {
	return geomtest.Build(unitBox.Min, unitBox.Max, meshes)
}
