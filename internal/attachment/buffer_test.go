package attachment

import (
	"errors"
	"os"
	"testing"
)

func TestBufferAddAllInvalidLeavesHeldUnchanged(t *testing.T) {
	buf := NewBuffer()
	if _, err := buf.Add(image("a.jpg"), image("b.jpg")); err != nil {
		t.Fatal(err)
	}

	big := &Attachment{Name: "big.jpg", MimeType: "image/jpeg", Size: 11 << 20}
	doc := New("readme.txt", "text/plain", []byte("hello"))
	rejected, err := buf.Add(big, doc)

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(rejected) != 2 {
		t.Errorf("expected 2 rejections, got %d", len(rejected))
	}
	if buf.Len() != 2 {
		t.Errorf("expected held set unchanged (2), got %d", buf.Len())
	}
}

func TestBufferAddWhenFullWarns(t *testing.T) {
	buf := NewBuffer()
	for i := 0; i < MaxCount; i++ {
		if _, err := buf.Add(image(string(rune('a'+i)) + ".jpg")); err != nil {
			t.Fatal(err)
		}
	}
	_, err := buf.Add(image("extra.jpg"))
	if err == nil {
		t.Fatal("expected warning when nothing from the batch fits")
	}
	if buf.Len() != MaxCount {
		t.Errorf("expected %d held, got %d", MaxCount, buf.Len())
	}
}

func TestBufferAddPartialKeepsSurvivors(t *testing.T) {
	buf := NewBuffer()
	rejected, err := buf.Add(image("ok.jpg"), New("x.pdf", "application/pdf", []byte("%PDF")))
	if err != nil {
		t.Fatalf("expected no error for partial acceptance, got %v", err)
	}
	if len(rejected) != 1 {
		t.Errorf("expected 1 rejection, got %d", len(rejected))
	}
	if buf.Len() != 1 || buf.Items()[0].Name != "ok.jpg" {
		t.Errorf("unexpected held set: %v", names(buf.Items()))
	}
}

func TestBufferAddEmptySelection(t *testing.T) {
	buf := NewBuffer()
	rejected, err := buf.Add()
	if err != nil || rejected != nil {
		t.Errorf("expected no-op, got %v %v", rejected, err)
	}
}

func TestBufferRemoveReleasesPreview(t *testing.T) {
	dir := t.TempDir()
	buf := NewBuffer()
	a, b, c := image("a.jpg"), image("b.jpg"), image("c.jpg")
	if _, err := buf.Add(a, b, c); err != nil {
		t.Fatal(err)
	}

	path, err := b.Preview(dir)
	if err != nil {
		t.Fatal(err)
	}

	if err := buf.Remove(1); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected preview %s to be removed", path)
	}
	got := names(buf.Items())
	if len(got) != 2 || got[0] != "a.jpg" || got[1] != "c.jpg" {
		t.Errorf("unexpected remaining items: %v", got)
	}
}

func TestBufferRemoveOutOfRange(t *testing.T) {
	buf := NewBuffer()
	if err := buf.Remove(0); err == nil {
		t.Error("expected error removing from empty buffer")
	}
}

func TestBufferTakeTransfersOwnership(t *testing.T) {
	dir := t.TempDir()
	buf := NewBuffer()
	a := image("a.jpg")
	if _, err := buf.Add(a); err != nil {
		t.Fatal(err)
	}
	path, err := a.Preview(dir)
	if err != nil {
		t.Fatal(err)
	}

	taken := buf.Take()
	if len(taken) != 1 || taken[0] != a {
		t.Fatalf("expected to take a.jpg, got %v", names(taken))
	}
	if buf.Len() != 0 {
		t.Errorf("expected empty buffer after Take, got %d", buf.Len())
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected preview to survive Take: %v", err)
	}
	a.Release()
}

func TestBufferRelease(t *testing.T) {
	dir := t.TempDir()
	buf := NewBuffer()
	a, b := image("a.jpg"), image("b.jpg")
	buf.Add(a, b)
	pa, _ := a.Preview(dir)
	pb, _ := b.Preview(dir)

	if err := buf.Release(); err != nil {
		t.Fatal(err)
	}
	for _, p := range []string{pa, pb} {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("expected %s removed", p)
		}
	}
	if buf.Len() != 0 {
		t.Errorf("expected empty buffer, got %d", buf.Len())
	}
}
