package notecards

import (
	"context"
	"strings"
	"time"

	"github.com/anatolykoptev/go_notecards/internal/engine/sources"
)

// Transcript is the joined caption text of one video.
type Transcript struct {
	VideoID VideoID
	Title   string
	Text    string
}

// WordCount counts whitespace-separated words.
func (t Transcript) WordCount() int {
	return len(strings.Fields(t.Text))
}

// TranscriptSource fetches the transcript for a video.
type TranscriptSource interface {
	FetchTranscript(ctx context.Context, id VideoID) (Transcript, error)
}

// YouTubeSource adapts the YouTube caption provider with a per-fetch timeout.
type YouTubeSource struct {
	yt      *sources.YouTube
	timeout time.Duration
}

// NewYouTubeSource wraps yt. timeout <= 0 leaves the caller's deadline alone.
func NewYouTubeSource(yt *sources.YouTube, timeout time.Duration) *YouTubeSource {
	return &YouTubeSource{yt: yt, timeout: timeout}
}

// FetchTranscript implements TranscriptSource.
func (s *YouTubeSource) FetchTranscript(ctx context.Context, id VideoID) (Transcript, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	caps, err := s.yt.FetchCaptions(ctx, string(id))
	if err != nil {
		return Transcript{}, err
	}
	return Transcript{VideoID: id, Title: caps.Title, Text: caps.Text()}, nil
}
