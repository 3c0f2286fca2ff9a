// go_notecards: YouTube video to note cards.
//
// Serves a web UI (form, video embed, rendered cards, JSON API) and an MCP server
// exposing the youtube_note_cards tool. Both run the same pipeline:
// URL → video ID → transcript → prompt → model → cards.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-mcpserver"
	"github.com/anatolykoptev/go_notecards/internal/cardserver"
	"github.com/anatolykoptev/go_notecards/internal/engine"
	"github.com/anatolykoptev/go_notecards/internal/engine/sources"
	"github.com/anatolykoptev/go_notecards/internal/notecards"
	"github.com/anatolykoptev/go_notecards/internal/webui"
	_ "github.com/joho/godotenv/autoload"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var version = "dev"

func main() {
	c := loadConfig()
	if err := c.Validate(); err != nil {
		if errors.Is(err, engine.ErrNoAPIKey) {
			slog.Error(notecards.UserMessage(notecards.ErrMissingCredential), slog.String("env", "LLM_API_KEY"))
		} else {
			slog.Error("invalid configuration", slog.Any("error", err))
		}
		os.Exit(1)
	}

	svc, err := buildService(c)
	if err != nil {
		slog.Error("pipeline init failed", slog.Any("error", err))
		os.Exit(1)
	}

	slog.Info("starting go_notecards",
		slog.String("ui_port", c.UIPort),
		slog.String("mcp_port", c.MCPPort),
		slog.String("variant", svc.Template().Name),
		slog.Int("min_cards", svc.Template().MinCards),
		slog.Int("max_cards", svc.Template().MaxCards),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ui := webui.New(svc, webui.Options{
		Port:        c.UIPort,
		CORSOrigins: c.CORSOrigins,
		// transcript fetch + two generation attempts + backoff
		WriteTimeout: c.TranscriptTimeout + 2*c.LLMTimeout + 30*time.Second,
	})
	go func() {
		if err := ui.ListenAndServe(ctx); err != nil {
			slog.Error("web ui failed", slog.Any("error", err))
		}
	}()

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_notecards",
		Version: version,
	}, nil)
	cardserver.RegisterTools(server, svc)
	slog.Info("tools registered", slog.Int("count", 1))

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "go_notecards",
		Version:      version,
		Port:         c.MCPPort,
		WriteTimeout: 600 * time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("server failed", slog.Any("error", err))
	}
}

func loadConfig() engine.Config {
	return engine.Config{
		// YOUR_API_KEY is the legacy name
		LLMAPIKey:          env.Str("LLM_API_KEY", env.Str("YOUR_API_KEY", "")),
		LLMAPIKeyFallbacks: env.List("LLM_API_KEY_FALLBACKS", ""),
		LLMAPIBase:         env.Str("LLM_API_BASE", "https://generativelanguage.googleapis.com/v1beta/openai"),
		LLMModel:           env.Str("LLM_MODEL", "gemini-2.5-flash"),
		LLMTemperature:     env.Float("LLM_TEMPERATURE", 0.4),
		LLMMaxTokens:       env.Int("LLM_MAX_TOKENS", 8192),
		LLMTimeout:         env.Duration("LLM_TIMEOUT", 90*time.Second),
		TranscriptTimeout:  env.Duration("TRANSCRIPT_TIMEOUT", 20*time.Second),
		TranscriptLangs:    env.List("TRANSCRIPT_LANGS", "en"),
		Variant:            env.Str("NOTECARDS_VARIANT", notecards.DefaultVariant),
		MinCards:           env.Int("NOTECARDS_MIN_CARDS", 0),
		MaxCards:           env.Int("NOTECARDS_MAX_CARDS", 0),
		UIPort:             env.Str("UI_PORT", "8892"),
		MCPPort:            env.Str("MCP_PORT", "8891"),
		CORSOrigins:        env.List("CORS_ORIGINS", ""),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     60 * time.Second,
			},
		},
	}
}

func buildService(c engine.Config) (*notecards.Service, error) {
	tmpl, err := notecards.Variant(c.Variant)
	if err != nil {
		return nil, err
	}
	tmpl = tmpl.WithBounds(c.MinCards, c.MaxCards)
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}

	bc, err := engine.NewBrowserClient(int(c.TranscriptTimeout.Seconds()), env.Str("WEBSHARE_API_KEY", ""))
	if err != nil {
		slog.Warn("stealth client init failed, watch page fetched without it", slog.Any("error", err))
	} else {
		c.BrowserClient = bc
		slog.Info("stealth browser client initialized")
	}

	ytOpts := []sources.Option{sources.WithLanguages(c.TranscriptLangs)}
	if c.BrowserClient != nil {
		ytOpts = append(ytOpts, sources.WithBrowser(c.BrowserClient))
	}
	yt := sources.NewYouTube(c.HTTPClient, ytOpts...)

	gen := engine.NewLLMGenerator(engine.NewLLMCompleter(c), c.LLMTimeout)

	return notecards.NewService(notecards.NewYouTubeSource(yt, c.TranscriptTimeout), gen, tmpl, nil), nil
}
