package lyrics

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"golang.org/x/net/html"
)

// FromText splits text on runs of whitespace into untimed words.
func FromText(text string, duration float64) *Sequence {
	fields := strings.Fields(text)
	words := make([]Word, len(fields))
	for i, f := range fields {
		words[i] = Word{Text: f}
	}
	return New(duration, words...)
}

// ImportKind tells which format ParseImport recognised.
type ImportKind string

const (
	ImportText     ImportKind = "text"
	ImportSnapshot ImportKind = "snapshot"
	ImportELRC     ImportKind = "elrc"
	ImportDocument ImportKind = "document"
)

// Import is the result of ParseImport.
type Import struct {
	Sequence *Sequence
	Kind     ImportKind

	// Audio is the audio reference carried by a document payload, if any.
	Audio string

	// Fallback holds the parse error of a structured payload that was
	// imported as free text instead.
	Fallback error
}

// document is the {"text": ..., "audio": ...} payload. The text may contain
// HTML markup.
type document struct {
	Text  string `json:"text"`
	Audio string `json:"audio"`
}

// ParseImport turns a dropped or pasted payload into a sequence. JSON
// documents with a text field, JSON snapshots and ELRC exports are
// recognised; anything else, including structured payloads that fail to
// parse, is split as free text.
func ParseImport(payload string, duration float64) Import {
	trimmed := strings.TrimSpace(payload)
	var fallback error

	switch {
	case strings.HasPrefix(trimmed, "{"):
		var doc document
		err := json.Unmarshal([]byte(trimmed), &doc)
		if err == nil && doc.Text != "" {
			return Import{
				Sequence: FromText(StripHTML(doc.Text), duration),
				Kind:     ImportDocument,
				Audio:    doc.Audio,
			}
		}
		if err == nil {
			err = errors.New("document without text")
		}
		fallback = errors.Join(ErrFormat, err)

	case strings.HasPrefix(trimmed, "["):
		s, err := UnmarshalSnapshot([]byte(trimmed), duration)
		if err == nil {
			return Import{Sequence: s, Kind: ImportSnapshot}
		}
		s, elrcErr := ParseELRC(trimmed, duration)
		if elrcErr == nil {
			return Import{Sequence: s, Kind: ImportELRC}
		}
		fallback = errors.Join(err, elrcErr)
	}

	return Import{Sequence: FromText(payload, duration), Kind: ImportText, Fallback: fallback}
}

// StripHTML returns the text content of an HTML fragment, leaving out the
// contents of script and style elements. Plain text passes through.
func StripHTML(fragment string) string {
	z := html.NewTokenizer(strings.NewReader(fragment))
	var buf bytes.Buffer
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or a tokenizer error; either way the text so far is all
			// there is.
			return buf.String()
		case html.StartTagToken:
			if name, _ := z.TagName(); isRawText(name) {
				skip++
			}
		case html.EndTagToken:
			if name, _ := z.TagName(); isRawText(name) && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				buf.Write(z.Text())
			}
		}
	}
}

func isRawText(tag []byte) bool {
	return string(tag) == "script" || string(tag) == "style"
}
