package cardserver

import (
	"context"
	"errors"
	"log/slog"

	"github.com/anatolykoptev/go_notecards/internal/notecards"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NoteCardsInput is the youtube_note_cards tool input.
type NoteCardsInput struct {
	URL      string `json:"url" jsonschema:"YouTube video URL (watch, youtu.be, embed or shorts link)"`
	Keywords string `json:"keywords,omitempty" jsonschema:"Optional comma-separated keywords the cards should focus on"`
}

// CardGenerator runs the note card pipeline.
type CardGenerator interface {
	Generate(ctx context.Context, req notecards.Request) (*notecards.Result, error)
}

const noteCardsDescription = "Turn a YouTube video into study note cards. Fetches the video transcript, asks the model for note cards and returns them numbered with a background color and an HTML body: text is HTML-escaped (&amp;, &lt;, &#39;, &#34;) and sentences are separated by <br>. The number of cards scales with transcript length within the configured bounds."

// RegisterTools registers youtube_note_cards on the given MCP server.
func RegisterTools(server *mcp.Server, gen CardGenerator) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "youtube_note_cards",
		Description: noteCardsDescription,
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input NoteCardsInput) (*mcp.CallToolResult, *notecards.Result, error) {
		return noteCards(ctx, gen, input)
	})
}

func noteCards(ctx context.Context, gen CardGenerator, input NoteCardsInput) (*mcp.CallToolResult, *notecards.Result, error) {
	if input.URL == "" {
		return nil, nil, errors.New("url is required")
	}
	res, err := gen.Generate(ctx, notecards.Request{URL: input.URL, Keywords: input.Keywords})
	if err != nil {
		slog.Debug("youtube_note_cards failed", slog.Any("error", err))
		return nil, nil, errors.New(notecards.UserMessage(err))
	}
	return nil, res, nil
}
