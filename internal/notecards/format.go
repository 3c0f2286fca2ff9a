package notecards

import (
	"html"
	"math/rand/v2"
	"strings"
)

// Delimiter separates cards in the model response.
const Delimiter = "Note Card "

// Palette is the fixed set of card background colors.
var Palette = []string{
	"#FFCDD2", "#F8BBD0", "#E1BEE7", "#D1C4E9", "#C5CAE9",
	"#BBDEFB", "#B3E5FC", "#B2EBF2", "#B2DFDB", "#C8E6C9",
}

// NoteCard is one formatted card.
type NoteCard struct {
	Index int    `json:"index"` // 1-based output position
	Color string `json:"color"`
	Body  string `json:"body"` // HTML-escaped text with <br> after each ". "
}

// ColorPicker returns a palette index in [0, n).
type ColorPicker func(n int) int

// Formatter splits a model response into cards.
type Formatter struct {
	pick ColorPicker
}

// FormatterOption configures a Formatter.
type FormatterOption func(*Formatter)

// WithColorPicker replaces the random color source.
func WithColorPicker(p ColorPicker) FormatterOption {
	return func(f *Formatter) { f.pick = p }
}

// NewFormatter creates a Formatter drawing colors uniformly at random.
func NewFormatter(opts ...FormatterOption) *Formatter {
	f := &Formatter{pick: rand.IntN}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format splits raw on Delimiter and drops the preamble before the first one.
// Segments empty after trimming are skipped; survivors are numbered by position.
// Colors are drawn independently per card, so repeats are expected.
// Line breaks are a plain ". " substitution, abbreviations and decimals included.
func (f *Formatter) Format(raw string) []NoteCard {
	parts := strings.Split(raw, Delimiter)
	if len(parts) < 2 {
		return nil
	}

	cards := make([]NoteCard, 0, len(parts)-1)
	for _, p := range parts[1:] {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		cards = append(cards, NoteCard{
			Index: len(cards) + 1,
			Color: Palette[f.pick(len(Palette))],
			Body:  strings.ReplaceAll(html.EscapeString(p), ". ", ".<br>"),
		})
	}
	return cards
}
