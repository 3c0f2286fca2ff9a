package notecards

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want VideoID
	}{
		{"watch", "https://www.youtube.com/watch?v=abcdefghijk", "abcdefghijk"},
		{"watch with params", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ"},
		{"short link", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"embed", "https://www.youtube.com/embed/a_B-c1D2e3F", "a_B-c1D2e3F"},
		{"shorts", "https://youtube.com/shorts/abcdefghijk?feature=share", "abcdefghijk"},
		{"v not first param", "https://www.youtube.com/watch?feature=x&v=ZZZZZZZZZZZ", "ZZZZZZZZZZZ"},
		// leftmost candidate wins
		{"first of several", "https://example.com/aaaaaaaaaaa/bbbbbbbbbbb", "aaaaaaaaaaa"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractVideoID(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractVideoIDInvalid(t *testing.T) {
	for _, url := range []string{
		"",
		"not a url",
		"https://www.youtube.com/watch?v=short",
		"https://www.youtube.com/",
		"abcdefghijk", // no v= or / before it
	} {
		_, err := ExtractVideoID(url)
		assert.ErrorIs(t, err, ErrInvalidURL, url)
	}
}

func TestVideoIDURLs(t *testing.T) {
	id := VideoID("abcdefghijk")
	assert.Equal(t, "https://www.youtube.com/embed/abcdefghijk", id.EmbedURL())
	assert.Equal(t, "https://www.youtube.com/watch?v=abcdefghijk", id.WatchURL())
}

func firstColor(int) int { return 0 }

func TestFormat(t *testing.T) {
	f := NewFormatter(WithColorPicker(firstColor))

	cards := f.Format("preamble Note Card 1: A. B. Note Card 2: C.")
	require.Len(t, cards, 2)
	assert.Equal(t, NoteCard{Index: 1, Color: Palette[0], Body: "1: A.<br>B."}, cards[0])
	assert.Equal(t, NoteCard{Index: 2, Color: Palette[0], Body: "2: C."}, cards[1])
}

func TestFormatNoDelimiter(t *testing.T) {
	f := NewFormatter()
	for _, raw := range []string{"", "just some text. More text.", "note card 1: lower case", "Note Card"} {
		assert.Empty(t, f.Format(raw), raw)
	}
}

func TestFormatSkipsEmptySegments(t *testing.T) {
	f := NewFormatter(WithColorPicker(firstColor))
	cards := f.Format("Note Card Note Card   \n Note Card 3: kept")
	require.Len(t, cards, 1)
	assert.Equal(t, 1, cards[0].Index, "numbered by output position")
	assert.Equal(t, "3: kept", cards[0].Body)
}

func TestFormatEscapesHTML(t *testing.T) {
	f := NewFormatter(WithColorPicker(firstColor))
	cards := f.Format(`Note Card 1: <script>alert("x")</script>. Done`)
	require.Len(t, cards, 1)
	assert.NotContains(t, cards[0].Body, "<script>")
	assert.Contains(t, cards[0].Body, "&lt;script&gt;")
	assert.True(t, strings.HasSuffix(cards[0].Body, ".<br>Done"))
}

func TestFormatColorsFromPalette(t *testing.T) {
	var calls int
	f := NewFormatter(WithColorPicker(func(n int) int {
		assert.Equal(t, len(Palette), n)
		calls++
		return calls % n
	}))
	cards := f.Format(strings.Repeat("Note Card x. ", 12))
	require.Len(t, cards, 12)
	assert.Equal(t, 12, calls, "one draw per card")
	for _, c := range cards {
		assert.Contains(t, Palette, c.Color)
	}

	// default picker stays in palette
	for _, c := range NewFormatter().Format(strings.Repeat("Note Card y ", 30)) {
		assert.Contains(t, Palette, c.Color)
	}
}

func TestSelectCount(t *testing.T) {
	tests := []struct {
		words, min, max, want int
	}{
		{1000, 8, 12, 8},
		{3000, 8, 12, 12},
		{1800, 8, 12, 9},
		{0, 8, 12, 8},
		{2399, 8, 12, 11},
		{2400, 8, 12, 12},
		{1000, 5, 10, 5},
		{1399, 5, 10, 6},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_%d_%d", tt.words, tt.min, tt.max), func(t *testing.T) {
			assert.Equal(t, tt.want, SelectCount(tt.words, tt.min, tt.max))
		})
	}
}

func TestTruncate(t *testing.T) {
	cards := []NoteCard{{Index: 1}, {Index: 2}, {Index: 3}}
	assert.Len(t, Truncate(cards, 2), 2)
	assert.Len(t, Truncate(cards, 8), 3, "never pads")
	assert.Empty(t, Truncate(cards, 0))
	assert.Empty(t, Truncate(cards, -1))
	assert.Empty(t, Truncate(nil, 5))
}

func TestVariant(t *testing.T) {
	focused, err := Variant("")
	require.NoError(t, err)
	assert.Equal(t, "focused", focused.Name)
	assert.Equal(t, 8, focused.MinCards)
	assert.Equal(t, 12, focused.MaxCards)

	concise, err := Variant("Concise")
	require.NoError(t, err)
	assert.Equal(t, 5, concise.MinCards)
	assert.Equal(t, 10, concise.MaxCards)

	_, err = Variant("verbose")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "concise, focused")
}

func TestTemplateBuild(t *testing.T) {
	for _, name := range VariantNames() {
		t.Run(name, func(t *testing.T) {
			tmpl, err := Variant(name)
			require.NoError(t, err)

			p := tmpl.Build(`he said "100%" & left`, "go, channels")
			assert.Contains(t, p, `he said "100%" & left`, "transcript passed through verbatim")
			assert.Contains(t, p, "go, channels")
			assert.Contains(t, p, fmt.Sprintf("minimum of %d and a maximum of %d", tmpl.MinCards, tmpl.MaxCards))
			assert.Contains(t, p, `"Note Card <number>:"`)
			assert.NotContains(t, p, "%!", "no format verb errors")
		})
	}
}

func TestTemplateWithBounds(t *testing.T) {
	tmpl, _ := Variant("focused")
	got := tmpl.WithBounds(3, 0)
	assert.Equal(t, 3, got.MinCards)
	assert.Equal(t, 12, got.MaxCards)
	assert.Equal(t, 8, tmpl.MinCards, "original untouched")
	assert.Contains(t, got.Build("t", ""), "minimum of 3 and a maximum of 12")
}

func TestTemplateValidate(t *testing.T) {
	tmpl, _ := Variant("focused")
	assert.NoError(t, tmpl.Validate())
	assert.NoError(t, tmpl.WithBounds(12, 12).Validate())
	assert.ErrorContains(t, tmpl.WithBounds(20, 0).Validate(), "exceeds")
	assert.ErrorContains(t, Template{Name: "x", MaxCards: 3}.Validate(), "at least 1")
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{ErrInvalidURL, "Invalid YouTube URL."},
		{fmt.Errorf("%w: boom", ErrTranscriptUnavailable), "Error extracting transcript."},
		{fmt.Errorf("%w: 503", ErrGenerationFailed), "Failed to generate note cards."},
		{ErrMissingCredential, "API key not found. Please set up your environment variable correctly."},
		{errors.New("other"), "Something went wrong."},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, UserMessage(tt.err))
	}
}

func TestWordCount(t *testing.T) {
	assert.Equal(t, 0, Transcript{}.WordCount())
	assert.Equal(t, 4, Transcript{Text: " one two\tthree\nfour "}.WordCount())
}
