package sources

// YouTube caption retrieval is split across three files by responsibility:
//   youtube_innertube.go:  Innertube/timedtext wire types, constants, low-level HTTP
//   youtube_page.go:       watch page scraping (ytInitialPlayerResponse, <title>)
//   youtube_transcript.go: track selection, timedtext parsing, the provider itself
