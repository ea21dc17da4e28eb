package document

import "testing"

func TestText(t *testing.T) {
	doc := Parse("Tips:\n* Water **often**\n* Avoid direct sun\n\n**Note**: roots rot.")
	want := "Tips:\n\n• Water often\n• Avoid direct sun\n\nNote: roots rot."
	if got := Text(doc); got != want {
		t.Errorf("Text:\n got: %q\nwant: %q", got, want)
	}
}

func TestMarkdown(t *testing.T) {
	doc := Parse("Tips:\n* Water **often**\n\n1. Check drainage")
	want := "### Tips:\n\n- Water **often**\n\n1. Check drainage"
	if got := Markdown(doc); got != want {
		t.Errorf("Markdown:\n got: %q\nwant: %q", got, want)
	}
}

func TestMarshalJSON(t *testing.T) {
	data, err := Parse("Tips:\n* **a**").MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	want := `[{"type":"heading","text":"Tips:"},{"type":"list","items":[[{"type":"emphasis","text":"a"}]]}]`
	if string(data) != want {
		t.Errorf("got %s\nwant %s", data, want)
	}

	empty, err := Parse("").MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(empty) != "[]" {
		t.Errorf("expected [], got %s", empty)
	}
}
