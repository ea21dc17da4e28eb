package attachment

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

// pngHeader is enough for content sniffing to recognise a PNG.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadSniffsContentType(t *testing.T) {
	dir := t.TempDir()
	// Misleading extension: the content decides.
	path := writeFile(t, dir, "leaf.dat", pngHeader)

	a, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if a.MimeType != "image/png" {
		t.Errorf("expected image/png, got %s", a.MimeType)
	}
	if a.Size != int64(len(pngHeader)) || len(a.Data) != len(pngHeader) {
		t.Errorf("expected %d bytes, got size=%d data=%d", len(pngHeader), a.Size, len(a.Data))
	}
	if a.Name != "leaf.dat" {
		t.Errorf("expected base name, got %s", a.Name)
	}
}

func TestLoadTextFileIsNotAnImage(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "notes.png", []byte("just some text pretending to be a png"))

	a, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := Check(a); ok {
		t.Errorf("expected text content to fail validation, got %s", a.MimeType)
	}
}

func TestLoadExtensionFallback(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "photo.heic", []byte{0x00, 0x01, 0x02, 0x03, 0xff, 0xfe})

	a, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if a.MimeType != "image/heic" {
		t.Errorf("expected image/heic, got %s", a.MimeType)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.jpg")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadAllPreservesOrder(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"c.png", "a.png", "b.png"} {
		paths = append(paths, writeFile(t, dir, name, pngHeader))
	}

	items, err := LoadAll(context.Background(), paths)
	if err != nil {
		t.Fatal(err)
	}
	got := names(items)
	if got[0] != "c.png" || got[1] != "a.png" || got[2] != "b.png" {
		t.Errorf("expected argument order, got %v", got)
	}
}

func TestLoadAllFailsOnMissing(t *testing.T) {
	dir := t.TempDir()
	paths := []string{writeFile(t, dir, "a.png", pngHeader), filepath.Join(dir, "missing.png")}
	if _, err := LoadAll(context.Background(), paths); err == nil {
		t.Error("expected error when a file is missing")
	}
}
