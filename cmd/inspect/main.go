package main

import (
	"fmt"
	"math"
	"os"

	"gonum.org/v1/gonum/spatial/r3"

	"edge-geom-extract/internal/binio"
	"edge-geom-extract/internal/geom"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "Usage: inspect <file.geom.edge>")
		os.Exit(2)
	}
	path := os.Args[1]
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ch, headers, err := geom.ParseHeaders(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("File: %s (%d bytes, declared %d)\n", path, len(data), ch.DeclaredFileSize)
	fmt.Printf("Meshes: %d, Reserved: 0x%08X 0x%08X\n", ch.MeshCount, ch.Reserved1, ch.Reserved2)
	fmt.Printf("AABB: min(%.3f, %.3f, %.3f) max(%.3f, %.3f, %.3f)\n",
		ch.Bounds.Min[0], ch.Bounds.Min[1], ch.Bounds.Min[2],
		ch.Bounds.Max[0], ch.Bounds.Max[1], ch.Bounds.Max[2])

	failed := 0
	for i, h := range headers {
		fmt.Printf("  Mesh[%d]: sig=0x%08X material=%d indices=%d (nominal tris=%d)\n",
			i, h.Signature, h.MaterialID, h.IndexCount, h.TriangleCount())
		fmt.Printf("    Vertices: @0x%X..0x%X len=%d count=%d, normals len=%d\n",
			h.VertexBlockAddr, h.VertexBlockEndAddr, h.VertexBlockByteLen, h.VertexCount(), h.NormalBlockLen)
		fmt.Printf("    UVs: @0x%X len=%d count=%d\n", h.UVBlockAddr, h.UVBlockByteLen, h.UVCount())
		fmt.Printf("    Region: @0x%X size=%d\n", h.TriangleRegionAddr, h.TriangleRegionSize)

		if region, err := binio.Slice(data, int(h.TriangleRegionAddr), int(h.TriangleRegionSize)); err == nil {
			if rh, err := geom.ParseRegionHeader(region); err == nil {
				l := rh.Layout(int(h.IndexCount))
				fmt.Printf("    Region header: explicit=%d backref=%d presence bits=%d width=%d\n",
					rh.NumVarBitIndices, rh.BackRefOffset, rh.PresenceBitCount(), rh.BitWidth)
				fmt.Printf("    Layout: presence@%d+%d faces@%d+%d varbits@%d (%d slots)\n",
					l.PresenceStart, l.PresenceBytes, l.FaceStart, l.FaceBytes, l.VarBitStart, l.VarBitSlots)
			}
		}

		m, err := geom.DecodeMesh(data, i, h, ch.Bounds)
		if err != nil {
			fmt.Printf("    Error: %v\n", err)
			failed++
			continue
		}

		outside, dups := 0, 0
		lo := r3.Vec{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
		hi := r3.Vec{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
		for _, v := range m.Vertices {
			if !v.InsideBounds {
				outside++
			}
			if len(v.DuplicatesOf) > 0 {
				dups++
			}
			p := vec(v.Position)
			lo = r3.Vec{X: math.Min(lo.X, p.X), Y: math.Min(lo.Y, p.Y), Z: math.Min(lo.Z, p.Z)}
			hi = r3.Vec{X: math.Max(hi.X, p.X), Y: math.Max(hi.Y, p.Y), Z: math.Max(hi.Z, p.Z)}
		}

		area, degenerate := 0.0, 0
		for _, t := range m.Triangles {
			a := vec(m.Vertices[t.A].Position)
			e1 := r3.Sub(vec(m.Vertices[t.B].Position), a)
			e2 := r3.Sub(vec(m.Vertices[t.C].Position), a)
			ta := 0.5 * r3.Norm(r3.Cross(e1, e2))
			if ta == 0 {
				degenerate++
			}
			area += ta
		}

		fmt.Printf("    Decoded: verts=%d tris=%d degenerate=%d outside AABB=%d with duplicates=%d\n",
			len(m.Vertices), len(m.Triangles), degenerate, outside, dups)
		if len(m.Vertices) > 0 {
			size := r3.Sub(hi, lo)
			fmt.Printf("    BBox: X[%.3f, %.3f] Y[%.3f, %.3f] Z[%.3f, %.3f]\n", lo.X, hi.X, lo.Y, hi.Y, lo.Z, hi.Z)
			fmt.Printf("    Size: %.3f x %.3f x %.3f\n", size.X, size.Y, size.Z)
		}
		fmt.Printf("    Surface area: %.3f sq units\n", area)
	}

	if failed > 0 {
		os.Exit(1)
	}
}

func vec(p [3]float32) r3.Vec {
	return r3.Vec{X: float64(p[0]), Y: float64(p[1]), Z: float64(p[2])}
}
