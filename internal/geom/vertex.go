package geom

import (
	"edge-geom-extract/internal/binio"
	"edge-geom-extract/internal/mathutil"
)

// normalStride is the per-vertex size of the block after the positions:
// three normal bytes followed by three bytes nothing reads yet.
const normalStride = 6

// DecodeVertices reads positions, UVs and normals for one mesh.
func DecodeVertices(data []byte, h MeshHeader, bounds AABB) ([]Vertex, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}
	n := h.VertexCount()
	verts := make([]Vertex, n)

	c := binio.NewCursor(data, 0)
	if err := c.Seek(int(h.VertexBlockAddr)); err != nil {
		return nil, err
	}
	for i := range verts {
		var p [3]float32
		for k := range p {
			f, err := c.F32()
			if err != nil {
				return nil, err
			}
			p[k] = f
		}
		verts[i] = Vertex{
			ID:           uint32(i),
			Position:     p,
			InsideBounds: bounds.Contains(p),
		}
	}

	if uvs := h.UVCount(); uvs > 0 {
		if err := c.Seek(int(h.UVBlockAddr)); err != nil {
			return nil, err
		}
		for i := 0; i < uvs; i++ {
			u, err := c.F16()
			if err != nil {
				return nil, err
			}
			v, err := c.F16()
			if err != nil {
				return nil, err
			}
			verts[i].UV = [2]float32{u, v}
		}
	}

	if err := decodeNormals(data, int(h.VertexBlockEndAddr), verts); err != nil {
		return nil, err
	}
	return verts, nil
}

func decodeNormals(data []byte, addr int, verts []Vertex) error {
	block, err := binio.Slice(data, addr, len(verts)*normalStride)
	if err != nil {
		return err
	}
	c := binio.NewCursor(block, 0)
	for i := range verts {
		var n mathutil.Vec3
		for k := range n {
			f, _ := c.NormU8()
			n[k] = f - 0.5
		}
		// Second triplet: consumed to stay aligned, values unused.
		if _, err := c.Bytes(3); err != nil {
			return err
		}
		verts[i].Normal = n.Normalize()
	}
	return nil
}
