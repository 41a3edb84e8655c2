package geom

import "edge-geom-extract/internal/binio"

// ParseContainerHeader reads the 16-byte file header at the cursor and the
// bounding box from the last 24 bytes of data.
func ParseContainerHeader(c *binio.Cursor, data []byte) (ContainerHeader, error) {
	var h ContainerHeader
	var err error
	if h.MeshCount, err = c.U32(); err != nil {
		return h, err
	}
	if h.Reserved1, err = c.U32(); err != nil {
		return h, err
	}
	if h.Reserved2, err = c.U32(); err != nil {
		return h, err
	}
	if h.DeclaredFileSize, err = c.U32(); err != nil {
		return h, err
	}

	// The box trails the file, addressed from the real size rather than
	// the declared one.
	tail, err := binio.Slice(data, len(data)-aabbSize, aabbSize)
	if err != nil {
		return h, err
	}
	bc := binio.NewCursor(tail, 0)
	var f [6]float32
	for i := range f {
		if f[i], err = bc.F32(); err != nil {
			return h, err
		}
	}
	h.Bounds = AABB{
		Max: [3]float32{f[0], f[1], f[2]},
		Min: [3]float32{f[3], f[4], f[5]},
	}
	return h, nil
}

// ParseMeshHeader reads one packed mesh record. The cursor must sit at the
// first byte of the record; it is left at the first byte of the next one.
func ParseMeshHeader(c *binio.Cursor) (MeshHeader, error) {
	var h MeshHeader
	start := c.Offset()
	if c.Remaining() < MeshHeaderSize {
		return h, &binio.TruncatedInputError{Offset: start, Want: MeshHeaderSize, Have: c.Remaining()}
	}

	// Length was checked above, so the reads below cannot fail.
	h.Signature, _ = c.U32()
	h.Unknown1, _ = c.U16()
	h.Unknown2, _ = c.U8()
	h.MaterialID, _ = c.U8()
	h.Unknown3, _ = c.U16()
	h.IndexCount, _ = c.U16()
	h.Sentinel, _ = c.U32()

	h.TriangleRegionAddr, _ = c.U32()
	h.TriangleRegionSize, _ = c.U16()
	h.Padding1, _ = c.U16()

	h.VertexBlockAddr, _ = c.U32()
	h.VertexBlockEndAddr, _ = c.U32()
	h.VertexBlockByteLen, _ = c.U16()
	h.Padding2, _ = c.U16()

	h.NormalBlockLen, _ = c.U32()
	h.Unknown4, _ = c.U32()

	h.UVBlockAddr, _ = c.U32()
	h.UVBlockByteLen, _ = c.U32()

	for i := range h.Offsets {
		h.Offsets[i], _ = c.U32()
	}

	return h, nil
}

// Validate checks the fields that later stages rely on.
func (h MeshHeader) Validate() error {
	if h.VertexBlockEndAddr < h.VertexBlockAddr {
		return malformed("vertex block", "end address %#x before start %#x", h.VertexBlockEndAddr, h.VertexBlockAddr)
	}
	if n := h.VertexBlockEndAddr - h.VertexBlockAddr; n != uint32(h.VertexBlockByteLen) {
		return malformed("vertex block", "span %d bytes, header declares %d", n, h.VertexBlockByteLen)
	}
	if h.UVCount() > h.VertexCount() {
		return malformed("uv block", "%d uv pairs for %d vertices", h.UVCount(), h.VertexCount())
	}
	return nil
}
