// Package document turns the loosely structured text an assistant replies with
// into an ordered list of typed blocks with inline emphasis.
//
// Parsing is a pure projection: the same input always yields an equal
// Document, nothing is cached, and no input makes it fail.
package document

// Document is an ordered sequence of blocks.
type Document []Block

// Block is one of Paragraph, Heading, List or NumberedCallout.
type Block interface {
	Kind() BlockKind
	isBlock()
}

// BlockKind names a block variant; it is also the "type" tag in JSON output.
type BlockKind string

const (
	KindParagraph       BlockKind = "paragraph"
	KindHeading         BlockKind = "heading"
	KindList            BlockKind = "list"
	KindNumberedCallout BlockKind = "numbered_callout"
)

// Paragraph is free text with inline emphasis.
type Paragraph struct {
	Spans []Span
}

// Heading is shown verbatim; emphasis markers are not interpreted.
type Heading struct {
	Text string
}

// List holds one span sequence per bullet item.
type List struct {
	Items [][]Span
}

// NumberedCallout is a group that opens with "1." style numbering.
type NumberedCallout struct {
	Spans []Span
}

func (Paragraph) Kind() BlockKind       { return KindParagraph }
func (Heading) Kind() BlockKind         { return KindHeading }
func (List) Kind() BlockKind            { return KindList }
func (NumberedCallout) Kind() BlockKind { return KindNumberedCallout }

func (Paragraph) isBlock()       {}
func (Heading) isBlock()         {}
func (List) isBlock()            {}
func (NumberedCallout) isBlock() {}

// SpanKind distinguishes plain text from emphasis.
type SpanKind string

const (
	SpanPlain    SpanKind = "plain"
	SpanEmphasis SpanKind = "emphasis"
)

// Span is an inline run of text.
type Span struct {
	Kind SpanKind
	Text string
}

func Plain(text string) Span    { return Span{Kind: SpanPlain, Text: text} }
func Emphasis(text string) Span { return Span{Kind: SpanEmphasis, Text: text} }
