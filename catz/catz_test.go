package catz

import (
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestIsGZ(t *testing.T) {
	cases := map[string]bool{
		"a.gpx":          false,
		"a.gpx.gz":       true,
		"master.json.GZ": true,
		"gz":             false,
	}
	for path, want := range cases {
		if got := IsGZ(path); got != want {
			t.Errorf("IsGZ(%q) = %v", path, got)
		}
	}
	if got := TrimGZ("a/b.json.gz"); got != "a/b.json" {
		t.Errorf("TrimGZ: got %s", got)
	}
}

func TestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	data := bytes.Repeat([]byte(`{"type":"Feature"}`+"\n"), 100)

	for _, name := range []string{"plain.ndjson", "nested/zipped.ndjson.gz"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			w, err := CreateWriter(path)
			if err != nil {
				t.Fatal(err)
			}
			if _, err := w.Write(data); err != nil {
				t.Fatal(err)
			}
			if err := w.Close(); err != nil {
				t.Fatal(err)
			}

			r, err := OpenReader(path)
			if err != nil {
				t.Fatal(err)
			}
			defer r.Close()
			got, err := io.ReadAll(r)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(got, data) {
				t.Fatalf("got %d bytes, want %d", len(got), len(data))
			}
		})
	}
}

func TestCreateWriter_GZIsCompressed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.gpx.gz")
	w, err := CreateWriter(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte("<gpx/>")); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	// Closing twice is fine.
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	gzr, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("not gzip: %v", err)
	}
	b, _ := io.ReadAll(gzr)
	if string(b) != "<gpx/>" {
		t.Fatalf("got %q", b)
	}
}

func TestCreateWriter_Truncates(t *testing.T) {
	for _, name := range []string{"t.txt", "t.txt.gz"} {
		path := filepath.Join(t.TempDir(), name)
		for _, s := range []string{"a long first write", "short"} {
			w, err := CreateWriter(path)
			if err != nil {
				t.Fatal(err)
			}
			if _, err := io.WriteString(w, s); err != nil {
				t.Fatal(err)
			}
			if err := w.Close(); err != nil {
				t.Fatal(err)
			}
		}
		r, err := OpenReader(path)
		if err != nil {
			t.Fatal(err)
		}
		b, err := io.ReadAll(r)
		r.Close()
		if err != nil {
			t.Fatal(err)
		}
		if string(b) != "short" {
			t.Fatalf("%s: got %q", name, b)
		}
	}
}

func TestOpenReader_Missing(t *testing.T) {
	if _, err := OpenReader(filepath.Join(t.TempDir(), "nope.gz")); !os.IsNotExist(err) {
		t.Fatalf("got %v", err)
	}
}
