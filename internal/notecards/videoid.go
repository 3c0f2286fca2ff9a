package notecards

import "regexp"

// videoIDRe takes the first 11-character ID that follows "v=" or "/".
// Leftmost match wins when a URL carries several candidates.
var videoIDRe = regexp.MustCompile(`(?:v=|/)([0-9A-Za-z_-]{11}).*`)

// VideoID is an 11-character YouTube video identifier.
type VideoID string

// ExtractVideoID pulls the video ID out of a YouTube URL.
// The ID is not checked against YouTube; a missing video fails at transcript fetch.
func ExtractVideoID(url string) (VideoID, error) {
	m := videoIDRe.FindStringSubmatch(url)
	if m == nil {
		return "", ErrInvalidURL
	}
	return VideoID(m[1]), nil
}

// EmbedURL is the iframe source for the video player.
func (id VideoID) EmbedURL() string {
	return "https://www.youtube.com/embed/" + string(id)
}

// WatchURL is the canonical watch page link.
func (id VideoID) WatchURL() string {
	return "https://www.youtube.com/watch?v=" + string(id)
}
