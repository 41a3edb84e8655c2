package geom

import (
	"bytes"

	"github.com/icza/bitio"

	"edge-geom-extract/internal/binio"
)

const (
	regionHeaderSize = 8
	numLanes         = 8
	maxBitWidth      = 16
)

// Face opcodes, two bits each, most significant pair first.
const (
	opShareFirstLast   = 0 // 0x00: reuse corners last-3, last-1
	opShareLastMiddle  = 1 // 0x40: reuse corners last-1, last-2
	opShareMiddleFirst = 2 // 0x80: reuse corners last-2, last-3
	opNewTriangle      = 3 // 0xC0: three fresh corners
)

// RegionHeader is the fixed header at the start of a triangle region.
type RegionHeader struct {
	NumVarBitIndices uint16
	BackRefOffset    uint16
	NumPresenceUnits uint16
	BitWidth         uint8
	Reserved         uint8
}

// PresenceBitCount is the number of bits in the presence bitmap.
func (r RegionHeader) PresenceBitCount() int { return int(r.NumPresenceUnits) * 8 }

// RegionLayout holds the derived offsets inside a triangle region.
type RegionLayout struct {
	PresenceStart int
	PresenceBytes int
	FaceStart     int
	FaceBytes     int
	VarBitStart   int
	TriangleCount int
	VarBitSlots   int // NumVarBitIndices rounded up to a multiple of 32
}

// Layout derives region offsets for a mesh declaring indexCount indices.
func (r RegionHeader) Layout(indexCount int) RegionLayout {
	l := RegionLayout{
		PresenceStart: regionHeaderSize,
		PresenceBytes: (r.PresenceBitCount() + 7) / 8,
		TriangleCount: indexCount / 3,
		VarBitSlots:   (int(r.NumVarBitIndices) + 31) &^ 31,
	}
	l.FaceStart = l.PresenceStart + l.PresenceBytes
	l.FaceBytes = (2*l.TriangleCount + 7) / 8
	l.VarBitStart = l.FaceStart + l.FaceBytes
	return l
}

// IndexStream is the result of decoding one triangle region.
type IndexStream struct {
	Header    RegionHeader
	Layout    RegionLayout
	Indices   []uint16 // vertex-reference stream after the presence merge
	Triangles []Triangle
}

// ParseRegionHeader reads the 8-byte region header.
func ParseRegionHeader(region []byte) (RegionHeader, error) {
	var h RegionHeader
	b, err := binio.Slice(region, 0, regionHeaderSize)
	if err != nil {
		return h, err
	}
	c := binio.NewCursor(b, 0)
	h.NumVarBitIndices, _ = c.U16()
	h.BackRefOffset, _ = c.U16()
	h.NumPresenceUnits, _ = c.U16()
	h.BitWidth, _ = c.U8()
	h.Reserved, _ = c.U8()
	return h, nil
}

// DecodeIndexStream decodes a triangle region into triangles. indexCount is
// the mesh header's index count and vertexCount bounds every emitted index.
//
// Faults in the header, the variable-bit array or the presence bitmap are
// returned as errors. Running out of indices or opcodes while building
// faces only shortens the triangle list.
func DecodeIndexStream(region []byte, indexCount, vertexCount int) (*IndexStream, error) {
	h, err := ParseRegionHeader(region)
	if err != nil {
		return nil, err
	}
	l := h.Layout(indexCount)

	values, err := readVarBitArray(region, l.VarBitStart, h.BitWidth, int(h.NumVarBitIndices))
	if err != nil {
		return nil, err
	}
	resolveBackRefs(values, h.BackRefOffset)

	bitmap, err := binio.Slice(region, l.PresenceStart, l.PresenceBytes)
	if err != nil {
		return nil, err
	}
	indices, err := mergePresence(values, bitmap, h.PresenceBitCount())
	if err != nil {
		return nil, err
	}

	ops, err := binio.Slice(region, l.FaceStart, l.FaceBytes)
	if err != nil {
		return nil, err
	}
	tris, err := buildFaces(indices, ops, l.TriangleCount, vertexCount)
	if err != nil {
		return nil, err
	}

	return &IndexStream{Header: h, Layout: l, Indices: indices, Triangles: tris}, nil
}

// readVarBitArray extracts n fields of width bits packed MSB-first from
// region[start:]. The array is padded to a multiple of 32 slots and laid
// out for a walk from the last slot back to the first. Each slot is an
// independent fixed-width field, so reading the first n slots forward
// yields the same list.
func readVarBitArray(region []byte, start int, width uint8, n int) ([]uint16, error) {
	values := make([]uint16, n)
	if n == 0 {
		return values, nil
	}
	if width > maxBitWidth {
		return nil, malformed("triangle region", "variable bit width %d exceeds %d", width, maxBitWidth)
	}
	if width == 0 {
		return values, nil
	}

	// The padding slots must be present even though they are never kept.
	slots := (n + 31) &^ 31
	b, err := binio.Slice(region, start, (slots*int(width)+7)/8)
	if err != nil {
		return nil, err
	}
	r := bitio.NewReader(bytes.NewReader(b))
	for i := range values {
		values[i] = uint16(r.TryReadBits(width))
	}
	if r.TryError != nil {
		return nil, r.TryError
	}
	return values, nil
}

// resolveBackRefs turns the interleaved delta stream into absolute indices.
// Slot i belongs to lane i%8 and each lane keeps its own running sum.
func resolveBackRefs(values []uint16, backRefOffset uint16) {
	var acc [numLanes]uint16
	for i, v := range values {
		lane := i % numLanes
		acc[lane] = v - backRefOffset + acc[lane]
		values[i] = acc[lane]
	}
}

// mergePresence expands the presence bitmap: a clear bit emits the next
// sequential index, a set bit emits the next explicit value.
func mergePresence(values []uint16, bitmap []byte, bitCount int) ([]uint16, error) {
	out := make([]uint16, 0, bitCount)
	r := bitio.NewReader(bytes.NewReader(bitmap))
	var sequential uint16
	next := 0
	for i := 0; i < bitCount; i++ {
		explicit, err := r.ReadBool()
		if err != nil {
			return nil, err
		}
		if !explicit {
			out = append(out, sequential)
			sequential++
			continue
		}
		if next >= len(values) {
			return nil, malformed("triangle region", "presence bit %d needs explicit value %d of %d", i, next, len(values))
		}
		out = append(out, values[next])
		next++
	}
	return out, nil
}

// buildFaces replays the face opcodes against the index stream. Decoding
// stops early, without error, when the stream runs dry or a corner would
// reference a vertex past vertexCount; an incomplete triangle is dropped.
func buildFaces(indices []uint16, ops []byte, numTris, vertexCount int) ([]Triangle, error) {
	corners := make([]uint32, 0, numTris*3)
	r := bitio.NewReader(bytes.NewReader(ops))
	next := 0

decode:
	for len(corners)/3 < numTris {
		op, err := r.ReadBits(2)
		if err != nil {
			break // opcode region exhausted
		}
		last := len(corners)
		if op != opNewTriangle && last < 3 {
			return nil, malformed("triangle region", "opcode %d at triangle %d references a previous triangle", op, last/3)
		}

		var tri [3]uint32
		switch op {
		case opNewTriangle:
			if next+3 > len(indices) {
				break decode
			}
			tri = [3]uint32{uint32(indices[next]), uint32(indices[next+1]), uint32(indices[next+2])}
			next += 3
		default:
			if next >= len(indices) {
				break decode
			}
			fresh := uint32(indices[next])
			next++
			switch op {
			case opShareFirstLast:
				tri = [3]uint32{corners[last-3], corners[last-1], fresh}
			case opShareLastMiddle:
				tri = [3]uint32{corners[last-1], corners[last-2], fresh}
			case opShareMiddleFirst:
				tri = [3]uint32{corners[last-2], corners[last-3], fresh}
			}
		}

		for _, idx := range tri {
			if int(idx) >= vertexCount {
				break decode
			}
		}
		corners = append(corners, tri[:]...)
	}

	tris := make([]Triangle, len(corners)/3)
	for i := range tris {
		tris[i] = Triangle{A: corners[3*i], B: corners[3*i+1], C: corners[3*i+2]}
	}
	return tris, nil
}
