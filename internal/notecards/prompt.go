package notecards

import (
	"fmt"
	"sort"
	"strings"
)

// Template is one prompt variant with its card-count bounds.
// Text is a fmt format: %[1]s transcript, %[2]s keywords, %[3]d min cards, %[4]d max cards.
type Template struct {
	Name     string
	MinCards int
	MaxCards int
	Text     string
}

// Build instantiates the template. Transcript and keywords are interpolated verbatim.
func (t Template) Build(transcript, keywords string) string {
	return fmt.Sprintf(t.Text, transcript, keywords, t.MinCards, t.MaxCards)
}

// WithBounds returns a copy with min/max replaced; zero keeps the variant default.
func (t Template) WithBounds(minCards, maxCards int) Template {
	if minCards > 0 {
		t.MinCards = minCards
	}
	if maxCards > 0 {
		t.MaxCards = maxCards
	}
	return t
}

// Validate reports bounds that cannot produce any card count.
func (t Template) Validate() error {
	if t.MinCards < 1 {
		return fmt.Errorf("variant %s: min cards must be at least 1 (got %d)", t.Name, t.MinCards)
	}
	if t.MinCards > t.MaxCards {
		return fmt.Errorf("variant %s: min cards %d exceeds max cards %d", t.Name, t.MinCards, t.MaxCards)
	}
	return nil
}

const focusedText = `
You are an advanced educational assistant with a deep understanding of content analysis and summarization.
Your task is to create detailed, engaging, and informative note cards from a YouTube video transcript, focusing specifically on the given keywords.

Here is the full transcript of the video:
"%[1]s"

Keywords: %[2]s

Your goal is to produce a set of comprehensive and concise note cards based on this transcript. Each note card should:
1. Highlight the most important concepts, facts, or ideas mentioned in the video.
2. Provide clear and brief explanations for each highlighted concept or fact.
3. Include bullet points, sub-points, and examples where relevant to enhance understanding.
4. Be written in simple, easy-to-understand language that is also engaging and catchy.
5. Focus specifically on the provided keywords to ensure relevance.

Ensure that you generate a minimum of %[3]d and a maximum of %[4]d note cards. Each note card should cover unique content from the transcript, ensuring that the entire video is comprehensively summarized. The note cards should be highly informative, engaging, and directly related to the content of the video.

Start every note card with the heading "Note Card <number>:" on its own line.

Please start by creating the note cards based on the above guidelines.
`

const conciseText = `
You are an educational assistant that summarizes videos.
Create short, informative note cards from the YouTube video transcript below.

Here is the full transcript of the video:
"%[1]s"

Keywords (optional hints): %[2]s

Each note card should:
1. Capture one key concept, fact, or idea from the video.
2. Explain it briefly in simple language.
3. Use bullet points where they help.

Ensure that you generate a minimum of %[3]d and a maximum of %[4]d note cards, each covering unique content from the transcript.

Start every note card with the heading "Note Card <number>:" on its own line.
`

// DefaultVariant is used when no variant is configured.
const DefaultVariant = "focused"

var variants = map[string]Template{
	"focused": {Name: "focused", MinCards: 8, MaxCards: 12, Text: focusedText},
	"concise": {Name: "concise", MinCards: 5, MaxCards: 10, Text: conciseText},
}

// Variant returns the named template. An empty name selects DefaultVariant.
func Variant(name string) (Template, error) {
	if name == "" {
		name = DefaultVariant
	}
	t, ok := variants[strings.ToLower(name)]
	if !ok {
		return Template{}, fmt.Errorf("unknown variant %q (have %s)", name, strings.Join(VariantNames(), ", "))
	}
	return t, nil
}

// VariantNames lists the built-in variants, sorted.
func VariantNames() []string {
	names := make([]string, 0, len(variants))
	for n := range variants {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
