package material

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"edge-geom-extract/internal/binio"
)

func fixed(s string) []byte {
	b := make([]byte, NameSize)
	copy(b, s)
	return b
}

func encodeTable(entries [][]Texture) []byte {
	b := binary.BigEndian.AppendUint32(nil, uint32(len(entries)))
	for _, texs := range entries {
		b = binary.BigEndian.AppendUint32(b, uint32(len(texs)))
		for _, tx := range texs {
			b = append(b, fixed(tx.Name)...)
			b = append(b, fixed(tx.File)...)
		}
	}
	return b
}

func TestParse(t *testing.T) {
	data := encodeTable([][]Texture{
		{{"body", "body_d.tga"}, {"body_n", "body_n.tga"}},
		{},
		{{"lid", "lid.png"}},
	})
	tbl, err := Parse(data, "/x/Teapot_MASTER.mat.edge")
	if err != nil {
		t.Fatal(err)
	}
	if len(tbl.Entries) != 3 {
		t.Fatalf("got %d entries", len(tbl.Entries))
	}
	e := tbl.Lookup(0)
	if e.Name() != "body" || e.Textures[1].File != "body_n.tga" {
		t.Errorf("entry 0 = %+v", e)
	}
	if got := tbl.Lookup(1).Name(); got != "NO_TEXTURE" {
		t.Errorf("empty entry name = %q", got)
	}
	if got := tbl.Lookup(2).MTLFileName(); got != "2_Teapot_MASTER.mtl" {
		t.Errorf("MTLFileName = %q", got)
	}
	if tbl.Lookup(3) != nil || tbl.Lookup(-1) != nil {
		t.Error("out of range lookup returned an entry")
	}
	var nilTable *Table
	if nilTable.Lookup(0) != nil {
		t.Error("nil table lookup returned an entry")
	}
}

func TestParseTruncated(t *testing.T) {
	data := encodeTable([][]Texture{{{"a", "a.tga"}}})
	for _, n := range []int{0, 3, 6, len(data) - 1} {
		_, err := Parse(data[:n], "m.mat.edge")
		var te *binio.TruncatedInputError
		if !errors.As(err, &te) {
			t.Errorf("len %d: err = %v", n, err)
		}
	}
}

func TestWriteMTL(t *testing.T) {
	e := &Entry{ID: 0, Textures: []Texture{{"body", "body_d.tga"}, {"n", "body_n.tga"}, {"s", "spec.tga"}}}
	var buf bytes.Buffer
	extra, err := WriteMTL(&buf, e, func(s string) string { return strings.TrimSuffix(s, ".tga") + ".png" })
	if err != nil {
		t.Fatal(err)
	}
	if !extra {
		t.Error("third texture not reported")
	}
	want := "newmtl body\n" +
		"Ka 1.000000 1.000000 1.000000\n" +
		"Kd 1.000000 1.000000 1.000000\n" +
		"Ks 0.000000 0.000000 0.000000\n" +
		"map_Kd body_d.png\n" +
		"norm body_n.png\n"
	if buf.String() != want {
		t.Errorf("MTL =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestDumpAll(t *testing.T) {
	dir := t.TempDir()
	tbl, err := Parse(encodeTable([][]Texture{{{"a", "a.tga"}}, {}}), filepath.Join(dir, "Box.mat.edge"))
	if err != nil {
		t.Fatal(err)
	}
	res, err := DumpAll(tbl, dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Written) != 1 || len(res.Warnings) != 0 {
		t.Fatalf("result = %+v", res)
	}
	body, err := os.ReadFile(filepath.Join(dir, "0_Box.mtl"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(body), "map_Kd a.tga\n") {
		t.Errorf("mtl body = %q", body)
	}
}

func TestPathFor(t *testing.T) {
	got := PathFor(filepath.Join("stage", "Teapot_MASTER.geom.edge"))
	if want := filepath.Join("stage", "Teapot_MASTER.mat.edge"); got != want {
		t.Errorf("PathFor = %q, want %q", got, want)
	}
}
