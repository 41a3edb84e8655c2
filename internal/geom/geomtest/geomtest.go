// Package geomtest encodes synthetic geometry containers for tests.
package geomtest

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/icza/bitio"
	"github.com/x448/float16"
)

const (
	containerHeaderSize = 16
	meshHeaderSize      = 128
	numOffsets          = 19
)

// Region describes a triangle region to encode.
type Region struct {
	BackRef  uint16
	Width    uint8
	Explicit []uint16 // raw variable-bit values, before back-reference resolution
	Presence []byte   // bitmap; its length sets the presence unit count
	Ops      []byte   // face opcode bytes
}

// PackBits packs values MSB-first at width bits each, padded with zero
// slots to a multiple of 32.
func PackBits(values []uint16, width uint8) []byte {
	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)
	slots := (len(values) + 31) &^ 31
	for i := 0; i < slots; i++ {
		var v uint16
		if i < len(values) {
			v = values[i]
		}
		// Writes to a bytes.Buffer cannot fail.
		_ = w.WriteBits(uint64(v), width)
	}
	_ = w.Close()
	return buf.Bytes()
}

// EncodeDeltas converts absolute indices into the 8-lane delta stream.
func EncodeDeltas(abs []uint16, backRef uint16) []uint16 {
	var acc [8]uint16
	out := make([]uint16, len(abs))
	for i, v := range abs {
		lane := i % 8
		out[i] = v - acc[lane] + backRef
		acc[lane] = v
	}
	return out
}

// Encode lays out header, presence bitmap, opcodes and the bit array.
func (r Region) Encode() []byte {
	var b []byte
	b = binary.BigEndian.AppendUint16(b, uint16(len(r.Explicit)))
	b = binary.BigEndian.AppendUint16(b, r.BackRef)
	b = binary.BigEndian.AppendUint16(b, uint16(len(r.Presence)))
	b = append(b, r.Width, 0)
	b = append(b, r.Presence...)
	b = append(b, r.Ops...)
	if len(r.Explicit) > 0 {
		b = append(b, PackBits(r.Explicit, r.Width)...)
	}
	return b
}

// Mesh is the payload of one mesh in a synthetic container.
type Mesh struct {
	MaterialID uint8
	Positions  [][3]float32
	UVs        [][2]float32
	Normals    [][3]uint8
	IndexCount uint16
	Region     []byte
	// BadVertexLen, when set, replaces the declared vertex block length.
	BadVertexLen uint16
}

// Build lays out: container header, mesh headers, per-mesh payloads
// (positions, normal block, uvs, region) and the trailing bounding box.
// Offset slot k of mesh i holds i*100+k.
func Build(min, max [3]float32, meshes []Mesh) []byte {
	payloadStart := containerHeaderSize + meshHeaderSize*len(meshes)

	var headers, payload []byte
	for i, m := range meshes {
		vaddr := uint32(payloadStart + len(payload))
		for _, p := range m.Positions {
			for _, f := range p {
				payload = binary.BigEndian.AppendUint32(payload, math.Float32bits(f))
			}
		}
		vend := uint32(payloadStart + len(payload))
		for k := range m.Positions {
			var n [3]uint8
			if k < len(m.Normals) {
				n = m.Normals[k]
			}
			payload = append(payload, n[0], n[1], n[2], 0xAA, 0xBB, 0xCC)
		}
		uvaddr := uint32(payloadStart + len(payload))
		for _, uv := range m.UVs {
			payload = binary.BigEndian.AppendUint16(payload, float16.Fromfloat32(uv[0]).Bits())
			payload = binary.BigEndian.AppendUint16(payload, float16.Fromfloat32(uv[1]).Bits())
		}
		raddr := uint32(payloadStart + len(payload))
		payload = append(payload, m.Region...)

		vlen := uint16(vend - vaddr)
		if m.BadVertexLen != 0 {
			vlen = m.BadVertexLen
		}

		h := binary.BigEndian.AppendUint32(nil, 0x45444745)
		h = binary.BigEndian.AppendUint16(h, 1)
		h = append(h, 0, m.MaterialID)
		h = binary.BigEndian.AppendUint16(h, 0)
		h = binary.BigEndian.AppendUint16(h, m.IndexCount)
		h = binary.BigEndian.AppendUint32(h, 0xFFFFFFFF)
		h = binary.BigEndian.AppendUint32(h, raddr)
		h = binary.BigEndian.AppendUint16(h, uint16(len(m.Region)))
		h = binary.BigEndian.AppendUint16(h, 0)
		h = binary.BigEndian.AppendUint32(h, vaddr)
		h = binary.BigEndian.AppendUint32(h, vend)
		h = binary.BigEndian.AppendUint16(h, vlen)
		h = binary.BigEndian.AppendUint16(h, 0)
		h = binary.BigEndian.AppendUint32(h, uint32(6*len(m.Positions)))
		h = binary.BigEndian.AppendUint32(h, 0)
		h = binary.BigEndian.AppendUint32(h, uvaddr)
		h = binary.BigEndian.AppendUint32(h, uint32(4*len(m.UVs)))
		for k := 0; k < numOffsets; k++ {
			h = binary.BigEndian.AppendUint32(h, uint32(i*100+k))
		}
		headers = append(headers, h...)
	}

	total := payloadStart + len(payload) + 24
	out := binary.BigEndian.AppendUint32(nil, uint32(len(meshes)))
	out = binary.BigEndian.AppendUint32(out, 7)
	out = binary.BigEndian.AppendUint32(out, 9)
	out = binary.BigEndian.AppendUint32(out, uint32(total))
	out = append(out, headers...)
	out = append(out, payload...)
	for _, f := range []float32{max[0], max[1], max[2], min[0], min[1], min[2]} {
		out = binary.BigEndian.AppendUint32(out, math.Float32bits(f))
	}
	return out
}

// Quad is two triangles over five vertices: vertex 3 repeats vertex 0
// within epsilon and vertex 4 lies outside the unit box.
func Quad() Mesh {
	return Mesh{
		MaterialID: 2,
		Positions: [][3]float32{
			{0, 0, 0},
			{1, 0, 0},
			{1, 1, 0},
			{0, 0, 0.000001},
			{0, 5, 0},
		},
		UVs:        [][2]float32{{0, 0}, {1, 0}, {1, 1}},
		Normals:    [][3]uint8{{255, 128, 128}, {128, 255, 128}, {128, 128, 255}, {0, 128, 128}, {128, 0, 128}},
		IndexCount: 6,
		Region: Region{
			Presence: []byte{0x00},
			Ops:      []byte{0xD0}, // new, then share (last-1, last-2)
		}.Encode(),
	}
}

// UnitBox returns the min and max corners of the unit cube.
func UnitBox() (min, max [3]float32) {
	return [3]float32{0, 0, 0}, [3]float32{1, 1, 1}
}
