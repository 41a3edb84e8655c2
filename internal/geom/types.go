package geom

// NumOffsets is the length of the opaque offset table in every mesh header.
const NumOffsets = 19

// ContainerHeaderSize and MeshHeaderSize are the packed on-disk record sizes.
const (
	ContainerHeaderSize = 16
	MeshHeaderSize      = 128
	aabbSize            = 6 * 4
)

// AABB is the container-wide bounding box. Min <= Max is not verified.
type AABB struct {
	Min [3]float32
	Max [3]float32
}

// Contains reports whether p lies inside the box, boundary included.
func (b AABB) Contains(p [3]float32) bool {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] || p[i] > b.Max[i] {
			return false
		}
	}
	return true
}

// ContainerHeader is the fixed record at offset 0 of a geometry file plus
// the bounding box stored in its last 24 bytes.
type ContainerHeader struct {
	MeshCount        uint32
	Reserved1        uint32
	Reserved2        uint32
	DeclaredFileSize uint32
	Bounds           AABB
}

// MeshHeader is one 128-byte per-mesh record.
type MeshHeader struct {
	Signature  uint32
	Unknown1   uint16
	Unknown2   uint8
	MaterialID uint8
	Unknown3   uint16
	IndexCount uint16
	Sentinel   uint32 // 0xFFFFFFFF in every observed file

	TriangleRegionAddr uint32
	TriangleRegionSize uint16
	Padding1           uint16

	VertexBlockAddr    uint32
	VertexBlockEndAddr uint32
	VertexBlockByteLen uint16
	Padding2           uint16

	NormalBlockLen uint32
	Unknown4       uint32

	UVBlockAddr    uint32
	UVBlockByteLen uint32

	// Offsets is carried through uninterpreted.
	Offsets [NumOffsets]uint32
}

// VertexCount is the number of f32 position triples in the vertex block.
func (h MeshHeader) VertexCount() int { return int(h.VertexBlockByteLen) / 12 }

// UVCount is the number of half-float pairs in the UV block.
func (h MeshHeader) UVCount() int { return int(h.UVBlockByteLen) / 2 / 2 }

// TriangleCount is the nominal triangle count declared by the header.
func (h MeshHeader) TriangleCount() int { return int(h.IndexCount) / 3 }

// Vertex is one decoded vertex record.
type Vertex struct {
	ID           uint32
	Position     [3]float32
	UV           [2]float32
	Normal       [3]float32
	InsideBounds bool
	DuplicatesOf []uint32 // IDs of coincident vertices in the same mesh
}

// Triangle holds three indices into the owning mesh's vertex list.
type Triangle struct {
	A, B, C uint32
}

// MeshModel is the decoded form of one mesh record.
type MeshModel struct {
	Index     int
	Header    MeshHeader
	Vertices  []Vertex
	Triangles []Triangle
}

// MaterialID returns the foreign key into the material table.
func (m *MeshModel) MaterialID() int { return int(m.Header.MaterialID) }

// Geometry is a fully decoded geometry container.
type Geometry struct {
	Header ContainerHeader
	Meshes []MeshModel
}
