package sources

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/anatolykoptev/go_notecards/internal/engine"
)

// YouTube caption fetching.
// Primary:  scrape watch page ytInitialPlayerResponse → caption XML
// Fallback: ANDROID Innertube /player → captionTracks → caption XML

var (
	errNoCaptions = errors.New("no caption tracks")
	errEmptyText  = errors.New("caption track has no text")
)

// Segment is one timed caption cue. Start and Duration are seconds.
type Segment struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// Captions is the fetched caption track of one video.
type Captions struct {
	VideoID      string
	Title        string
	LanguageCode string
	Segments     []Segment
}

// Text joins non-empty segment texts with a single space.
// Timing gaps are not reflected and no punctuation is reconstructed.
func (c *Captions) Text() string {
	var sb strings.Builder
	for _, s := range c.Segments {
		if s.Text == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// YouTube fetches captions from youtube.com.
type YouTube struct {
	http    *http.Client
	browser *engine.BrowserClient
	langs   []string
	baseURL string
	retry   engine.RetryConfig
}

// Option configures a YouTube provider.
type Option func(*YouTube)

// WithBrowser fetches the watch page through a Chrome-fingerprinted client.
func WithBrowser(bc *engine.BrowserClient) Option {
	return func(y *YouTube) { y.browser = bc }
}

// WithLanguages sets caption language preference, most preferred first.
func WithLanguages(langs []string) Option {
	return func(y *YouTube) {
		if len(langs) > 0 {
			y.langs = langs
		}
	}
}

// WithBaseURL points the provider at another host (tests).
func WithBaseURL(base string) Option {
	return func(y *YouTube) { y.baseURL = strings.TrimRight(base, "/") }
}

// WithRetry replaces the HTTP retry policy.
func WithRetry(rc engine.RetryConfig) Option {
	return func(y *YouTube) { y.retry = rc }
}

// NewYouTube creates a provider using client for plain HTTP requests.
func NewYouTube(client *http.Client, opts ...Option) *YouTube {
	if client == nil {
		client = http.DefaultClient
	}
	y := &YouTube{
		http:    client,
		langs:   []string{"en"},
		baseURL: ytBaseURL,
		retry:   engine.FetchRetryConfig,
	}
	for _, opt := range opts {
		opt(y)
	}
	return y
}

// FetchCaptions returns the best caption track for videoID.
func (y *YouTube) FetchCaptions(ctx context.Context, videoID string) (*Captions, error) {
	engine.IncrTranscriptRequests()

	caps, err := y.fetchCaptions(ctx, videoID)
	if err != nil {
		engine.IncrTranscriptErrors()
		return nil, err
	}
	return caps, nil
}

func (y *YouTube) fetchCaptions(ctx context.Context, videoID string) (*Captions, error) {
	var title string

	tracks, err := y.tracksViaPageScrape(ctx, videoID, &title)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		slog.Warn("youtube: page scrape failed, trying player",
			slog.String("id", videoID), slog.Any("err", err))

		tracks, err = y.tracksViaPlayer(ctx, videoID, &title)
		if err != nil {
			return nil, err
		}
	}

	track, ok := pickBestTrack(tracks, y.langs)
	if !ok {
		return nil, errors.New("all caption tracks require PoToken")
	}

	segs, err := y.fetchTimedText(ctx, track.BaseURL)
	if err != nil {
		return nil, err
	}

	caps := &Captions{VideoID: videoID, Title: title, LanguageCode: track.LanguageCode, Segments: segs}
	if caps.Text() == "" {
		return nil, errEmptyText
	}
	return caps, nil
}

func (y *YouTube) tracksViaPageScrape(ctx context.Context, videoID string, title *string) ([]captionTrack, error) {
	body, err := y.fetchWatchPage(ctx, videoID)
	if err != nil {
		return nil, err
	}
	*title = extractTitle(body)

	player, err := playerFromWatchPage(body)
	if err != nil {
		return nil, err
	}
	return player.tracks()
}

func (y *YouTube) tracksViaPlayer(ctx context.Context, videoID string, title *string) ([]captionTrack, error) {
	player, err := y.postPlayer(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if *title == "" && player.VideoDetails != nil {
		*title = player.VideoDetails.Title
	}
	return player.tracks()
}

// needsPoToken reports whether a caption track URL requires a PoToken (browser-only).
// Tracks with &exp=xpe cannot be fetched server-side.
func needsPoToken(baseURL string) bool {
	return strings.Contains(baseURL, "&exp=xpe")
}

// pickBestTrack selects the best usable caption track for the given language preferences.
// Tracks that require a PoToken are skipped; they only work in a browser.
func pickBestTrack(tracks []captionTrack, langs []string) (captionTrack, bool) {
	usable := make([]captionTrack, 0, len(tracks))
	for _, t := range tracks {
		if !needsPoToken(t.BaseURL) {
			usable = append(usable, t)
		}
	}
	if len(usable) == 0 {
		return captionTrack{}, false
	}
	// 1. Manual track in preferred language
	for _, lang := range langs {
		for _, t := range usable {
			if t.LanguageCode == lang && t.Kind != "asr" {
				return t, true
			}
		}
	}
	// 2. Auto-generated track in preferred language
	for _, lang := range langs {
		for _, t := range usable {
			if t.LanguageCode == lang {
				return t, true
			}
		}
	}
	// 3. Any English track
	for _, t := range usable {
		if strings.HasPrefix(t.LanguageCode, "en") {
			return t, true
		}
	}
	return usable[0], true
}

// fetchTimedText fetches and parses a YouTube timedtext XML caption URL.
func (y *YouTube) fetchTimedText(ctx context.Context, baseURL string) ([]Segment, error) {
	if strings.HasPrefix(baseURL, "/") {
		baseURL = y.baseURL + baseURL
	}
	body, err := y.getBytes(ctx, baseURL, maxTimedTextBytes, map[string]string{
		"User-Agent": engine.UserAgentBot,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch timedtext: %w", err)
	}
	return parseTimedText(body)
}

// parseTimedText decodes either timedtext layout into segments.
// Empty cues are kept as empty-text segments; Captions.Text skips them.
func parseTimedText(body []byte) ([]Segment, error) {
	var tt ytTimedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return nil, fmt.Errorf("parse timedtext XML: %w", err)
	}

	segs := make([]Segment, 0, len(tt.Lines)+len(tt.Paragraphs))
	for _, line := range tt.Lines {
		segs = append(segs, Segment{
			Text:     engine.CleanCaption(line.Text),
			Start:    parseSeconds(line.Start),
			Duration: parseSeconds(line.Dur),
		})
	}
	for _, p := range tt.Paragraphs {
		// innerxml is still entity-encoded once more than chardata
		segs = append(segs, Segment{
			Text:     engine.CleanCaption(html.UnescapeString(p.Inner)),
			Start:    parseMillis(p.T),
			Duration: parseMillis(p.D),
		})
	}
	if len(segs) == 0 {
		return nil, errEmptyText
	}
	return segs, nil
}

func parseSeconds(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func parseMillis(s string) float64 {
	return parseSeconds(s) / 1000
}
