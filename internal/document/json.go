package document

import "encoding/json"

type jsonSpan struct {
	Type SpanKind `json:"type"`
	Text string   `json:"text"`
}

type jsonBlock struct {
	Type  BlockKind    `json:"type"`
	Text  string       `json:"text,omitempty"`
	Spans []jsonSpan   `json:"spans,omitempty"`
	Items [][]jsonSpan `json:"items,omitempty"`
}

// MarshalJSON encodes the document as a list of tagged blocks, e.g.
// {"type":"heading","text":"Tips:"}.
func (d Document) MarshalJSON() ([]byte, error) {
	out := make([]jsonBlock, 0, len(d))
	for _, b := range d {
		jb := jsonBlock{Type: b.Kind()}
		switch b := b.(type) {
		case Paragraph:
			jb.Spans = toJSONSpans(b.Spans)
		case Heading:
			jb.Text = b.Text
		case List:
			jb.Items = make([][]jsonSpan, len(b.Items))
			for i, item := range b.Items {
				jb.Items[i] = toJSONSpans(item)
			}
		case NumberedCallout:
			jb.Spans = toJSONSpans(b.Spans)
		}
		out = append(out, jb)
	}
	return json.Marshal(out)
}

func toJSONSpans(spans []Span) []jsonSpan {
	out := make([]jsonSpan, len(spans))
	for i, s := range spans {
		out[i] = jsonSpan{Type: s.Kind, Text: s.Text}
	}
	return out
}
