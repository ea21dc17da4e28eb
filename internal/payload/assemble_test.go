package payload

import (
	"reflect"
	"testing"

	"github.com/HMTking/greenify/internal/attachment"
	"github.com/HMTking/greenify/pkg/plantapi"
)

func fields(parts []plantapi.Part) []string {
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = p.Field
	}
	return out
}

func TestBuildFirstTurn(t *testing.T) {
	parts := Build("  Why are my leaves yellow?  ", "", nil)
	if !reflect.DeepEqual(fields(parts), []string{"message"}) {
		t.Fatalf("unexpected fields %v", fields(parts))
	}
	if parts[0].Value != "Why are my leaves yellow?" {
		t.Errorf("expected trimmed text, got %q", parts[0].Value)
	}
}

func TestBuildWithSessionAndImages(t *testing.T) {
	a := attachment.New("a.jpg", "image/jpeg", []byte("aaa"))
	b := attachment.New("b.png", "image/png", []byte("bb"))

	parts := Build("hello", "abc", []*attachment.Attachment{a, b})
	want := []string{"message", "sessionId", "images", "images"}
	if !reflect.DeepEqual(fields(parts), want) {
		t.Fatalf("expected %v, got %v", want, fields(parts))
	}
	if parts[1].Value != "abc" {
		t.Errorf("expected session id abc, got %q", parts[1].Value)
	}
	if parts[2].FileName != "a.jpg" || parts[2].ContentType != "image/jpeg" || string(parts[2].Data) != "aaa" {
		t.Errorf("unexpected first image part %+v", parts[2])
	}
	if parts[3].FileName != "b.png" {
		t.Errorf("expected held order, got %q second", parts[3].FileName)
	}
}

func TestBuildImagesOnly(t *testing.T) {
	a := attachment.New("a.jpg", "image/jpeg", []byte("x"))
	parts := Build("   \n", "", []*attachment.Attachment{a})
	if !reflect.DeepEqual(fields(parts), []string{"images"}) {
		t.Errorf("whitespace text must not produce a message part, got %v", fields(parts))
	}
}

func TestBuildKeepsDuplicates(t *testing.T) {
	a := attachment.New("same.jpg", "image/jpeg", []byte("x"))
	parts := Build("", "s", []*attachment.Attachment{a, a})
	if len(parts) != 3 {
		t.Errorf("expected duplicates to be sent twice, got %d parts", len(parts))
	}
}

func TestBuildDeterministic(t *testing.T) {
	a := attachment.New("a.jpg", "image/jpeg", []byte("x"))
	first := Build("hi", "s", []*attachment.Attachment{a})
	second := Build("hi", "s", []*attachment.Attachment{a})
	if !reflect.DeepEqual(first, second) {
		t.Error("expected identical parts for identical input")
	}
}

func TestDescribe(t *testing.T) {
	a := attachment.New("a.jpg", "image/jpeg", []byte("1234"))
	b := attachment.New("b.jpg", "image/jpeg", []byte("56"))

	if got := Describe(Build("hi", "s", []*attachment.Attachment{a, b})); got != "message,sessionId,images[2]:6B" {
		t.Errorf("unexpected summary %q", got)
	}
	if got := Describe(nil); got != "empty" {
		t.Errorf("unexpected summary %q", got)
	}
}
