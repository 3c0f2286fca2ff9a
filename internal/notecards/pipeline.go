package notecards

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/anatolykoptev/go_notecards/internal/engine"
)

// Request is one generation request.
type Request struct {
	URL      string `json:"url"`
	Keywords string `json:"keywords,omitempty"`
}

// Result is what a successful request renders.
type Result struct {
	VideoID   VideoID    `json:"video_id"`
	EmbedURL  string     `json:"embed_url"`
	WatchURL  string     `json:"watch_url"`
	Title     string     `json:"title,omitempty"`
	WordCount int        `json:"word_count"`
	Target    int        `json:"target"`   // SelectCount bound
	Produced  int        `json:"produced"` // cards parsed from the response
	Cards     []NoteCard `json:"cards"`
}

var errEmptyTranscript = errors.New("empty transcript")

// Service runs URL → transcript → prompt → model → cards, strictly in order.
type Service struct {
	src   TranscriptSource
	gen   engine.Generator
	tmpl  Template
	cards *Formatter
}

// NewService wires the pipeline. A nil formatter uses NewFormatter().
func NewService(src TranscriptSource, gen engine.Generator, tmpl Template, f *Formatter) *Service {
	if f == nil {
		f = NewFormatter()
	}
	return &Service{src: src, gen: gen, tmpl: tmpl, cards: f}
}

// Template returns the active prompt variant.
func (s *Service) Template() Template { return s.tmpl }

// Generate runs the pipeline. The first failing step ends the request with one error
// wrapping ErrInvalidURL, ErrTranscriptUnavailable or ErrGenerationFailed.
func (s *Service) Generate(ctx context.Context, req Request) (*Result, error) {
	engine.IncrPipelineRequests()
	res, err := s.generate(ctx, req)
	if err != nil {
		engine.IncrPipelineErrors()
		return nil, err
	}
	return res, nil
}

func (s *Service) generate(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	id, err := ExtractVideoID(strings.TrimSpace(req.URL))
	if err != nil {
		return nil, err
	}

	tr, err := s.src.FetchTranscript(ctx, id)
	if err == nil && strings.TrimSpace(tr.Text) == "" {
		err = errEmptyTranscript
	}
	if err != nil {
		slog.Warn("notecards: transcript failed", slog.String("id", string(id)), slog.Any("error", err))
		return nil, fmt.Errorf("%w: %v", ErrTranscriptUnavailable, err)
	}
	words := tr.WordCount()
	slog.Debug("notecards: transcript",
		slog.String("id", string(id)),
		slog.Int("words", words),
		slog.String("preview", engine.TruncateRunes(tr.Text, 120, "…")))

	raw, err := s.gen.Generate(ctx, s.tmpl.Build(tr.Text, req.Keywords))
	if err != nil {
		slog.Warn("notecards: generation failed", slog.String("id", string(id)), slog.Any("error", err))
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	cards := s.cards.Format(raw)
	target := SelectCount(words, s.tmpl.MinCards, s.tmpl.MaxCards)
	shown := Truncate(cards, target)
	engine.AddCards(len(cards), len(shown))

	slog.Info("notecards: generated",
		slog.String("id", string(id)),
		slog.String("variant", s.tmpl.Name),
		slog.Int("words", words),
		slog.Int("produced", len(cards)),
		slog.Int("shown", len(shown)),
		slog.Duration("elapsed", time.Since(start)))

	return &Result{
		VideoID:   id,
		EmbedURL:  id.EmbedURL(),
		WatchURL:  id.WatchURL(),
		Title:     tr.Title,
		WordCount: words,
		Target:    target,
		Produced:  len(cards),
		Cards:     shown,
	}, nil
}
