package geom

import (
	"fmt"
	"os"
	"sync"

	"edge-geom-extract/internal/binio"
)

// Options tunes a decode pass.
type Options struct {
	// Parallel decodes the meshes of one container concurrently. Results
	// are identical to a sequential pass.
	Parallel bool
}

// ParseFile reads and decodes a geometry file.
func ParseFile(path string, opts Options) (*Geometry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("geom: read %s: %w", path, err)
	}
	g, err := Decode(data, opts)
	if err != nil {
		return nil, fmt.Errorf("geom: decode %s: %w", path, err)
	}
	return g, nil
}

// ParseHeaders reads the container header and every mesh header without
// decoding any mesh payload.
func ParseHeaders(data []byte) (ContainerHeader, []MeshHeader, error) {
	c := binio.NewCursor(data, 0)
	ch, err := ParseContainerHeader(c, data)
	if err != nil {
		return ch, nil, err
	}
	if need := int64(ch.MeshCount) * MeshHeaderSize; need > int64(c.Remaining()) {
		return ch, nil, &binio.TruncatedInputError{Offset: c.Offset(), Want: int(need), Have: c.Remaining()}
	}

	headers := make([]MeshHeader, ch.MeshCount)
	for i := range headers {
		if headers[i], err = ParseMeshHeader(c); err != nil {
			return ch, nil, &MeshError{Index: i, Err: err}
		}
	}
	return ch, headers, nil
}

// Decode decodes every mesh of a geometry container held in data. data is
// only read.
func Decode(data []byte, opts Options) (*Geometry, error) {
	ch, headers, err := ParseHeaders(data)
	if err != nil {
		return nil, err
	}

	g := &Geometry{Header: ch, Meshes: make([]MeshModel, len(headers))}
	errs := make([]error, len(headers))

	if opts.Parallel {
		var wg sync.WaitGroup
		for i := range headers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs[i] = decodeMesh(data, i, headers[i], ch.Bounds, &g.Meshes[i])
			}()
		}
		wg.Wait()
	} else {
		for i := range headers {
			errs[i] = decodeMesh(data, i, headers[i], ch.Bounds, &g.Meshes[i])
		}
	}

	// Report the first failing mesh in container order.
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return g, nil
}

// DecodeMesh assembles one mesh from its header.
func DecodeMesh(data []byte, index int, h MeshHeader, bounds AABB) (*MeshModel, error) {
	var m MeshModel
	if err := decodeMesh(data, index, h, bounds, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func decodeMesh(data []byte, index int, h MeshHeader, bounds AABB, m *MeshModel) error {
	verts, err := DecodeVertices(data, h, bounds)
	if err != nil {
		return &MeshError{Index: index, Err: err}
	}
	MarkDuplicates(verts)

	region, err := binio.Slice(data, int(h.TriangleRegionAddr), int(h.TriangleRegionSize))
	if err != nil {
		return &MeshError{Index: index, Err: err}
	}
	stream, err := DecodeIndexStream(region, int(h.IndexCount), len(verts))
	if err != nil {
		return &MeshError{Index: index, Err: err}
	}

	*m = MeshModel{
		Index:     index,
		Header:    h,
		Vertices:  verts,
		Triangles: stream.Triangles,
	}
	return nil
}
