package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/anatolykoptev/go_notecards/internal/engine"
	"golang.org/x/net/html"
)

// ytInitialPlayerResponseMarker marks the start of the player response JSON in watch page HTML.
const ytInitialPlayerResponseMarker = "ytInitialPlayerResponse = "

// fetchWatchPage downloads the watch page, through the stealth browser client when configured.
func (y *YouTube) fetchWatchPage(ctx context.Context, videoID string) ([]byte, error) {
	watchURL := y.baseURL + ytWatchPath + videoID

	if y.browser != nil {
		headers := engine.ChromeHeaders()
		headers["accept-language"] = "en-US,en;q=0.9"
		data, status, err := fetchUntilDone(ctx, func() ([]byte, int, error) {
			d, _, code, err := y.browser.Do(http.MethodGet, watchURL, headers, nil)
			return d, code, err
		})
		if err != nil {
			return nil, fmt.Errorf("watch page: %w", err)
		}
		if status != http.StatusOK {
			return nil, fmt.Errorf("watch page: HTTP %d", status)
		}
		return data, nil
	}

	body, err := y.getBytes(ctx, watchURL, maxWatchPageBytes, map[string]string{
		"User-Agent":      engine.UserAgentChrome,
		"Accept-Language": "en-US,en;q=0.9",
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	})
	if err != nil {
		return nil, fmt.Errorf("watch page: %w", err)
	}
	return body, nil
}

type fetchResult struct {
	data   []byte
	status int
	err    error
}

// fetchUntilDone runs a fetch that takes no context and returns as soon as ctx ends.
// An abandoned fetch keeps running until the stealth client timeout.
func fetchUntilDone(ctx context.Context, fetch func() ([]byte, int, error)) ([]byte, int, error) {
	ch := make(chan fetchResult, 1)
	go func() {
		data, status, err := fetch()
		ch <- fetchResult{data: data, status: status, err: err}
	}()
	select {
	case r := <-ch:
		return r.data, r.status, r.err
	case <-ctx.Done():
		return nil, 0, ctx.Err()
	}
}

// playerFromWatchPage extracts ytInitialPlayerResponse from watch page HTML.
func playerFromWatchPage(body []byte) (*innertubePlayerResp, error) {
	idx := bytes.Index(body, []byte(ytInitialPlayerResponseMarker))
	if idx < 0 {
		if bytes.Contains(body, []byte(`class="g-recaptcha"`)) {
			return nil, errors.New("watch page: too many requests (captcha)")
		}
		if bytes.Contains(body, []byte(`action="https://consent.youtube.com/s`)) {
			return nil, errors.New("watch page: consent wall")
		}
		return nil, errors.New("ytInitialPlayerResponse not found in watch page")
	}
	jsonData := extractJSON(body[idx+len(ytInitialPlayerResponseMarker):])
	if jsonData == nil {
		return nil, errors.New("failed to extract ytInitialPlayerResponse JSON")
	}

	var playerResp innertubePlayerResp
	if err := json.Unmarshal(jsonData, &playerResp); err != nil {
		return nil, fmt.Errorf("decode ytInitialPlayerResponse: %w", err)
	}
	return &playerResp, nil
}

// extractJSON returns the balanced JSON object at the start of b, or nil.
func extractJSON(b []byte) []byte {
	if len(b) == 0 || b[0] != '{' {
		return nil
	}
	depth := 0
	inStr := false
	escaped := false
	for i, c := range b {
		if inStr {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inStr = false
			}
			continue
		}
		switch c {
		case '"':
			inStr = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return b[:i+1]
			}
		}
	}
	return nil
}

// extractTitle returns the page <title> without the " - YouTube" suffix, or "".
func extractTitle(body []byte) string {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return ""
	}

	var title string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "title" {
			if n.FirstChild != nil {
				title = n.FirstChild.Data
			}
			return
		}
		for c := n.FirstChild; c != nil && title == ""; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(title), "- YouTube"))
}
