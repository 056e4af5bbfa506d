package dcffile

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"
)

func TestReadPlainText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "PACKAGES")
	want := "Package: A3\nVersion: 1.0.0\n"
	if err := os.WriteFile(path, []byte(want), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != want {
		t.Errorf("Read = %q, want %q", got, want)
	}
}

func TestReadGzip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "PACKAGES.gz")
	want := "Package: A3\nVersion: 1.0.0\n"

	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	if _, err := gw.Write([]byte(want)); err != nil {
		t.Fatal(err)
	}
	if err := gw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != want {
		t.Errorf("Read = %q, want %q", got, want)
	}
}

func TestDecompressPassthrough(t *testing.T) {
	in := []byte("Package: A3\nVersion: 1.0.0\n")
	out, err := Decompress(in)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(out, in) {
		t.Errorf("Decompress = %q, want passthrough %q", out, in)
	}
}
