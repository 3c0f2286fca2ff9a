// Package webui serves the note card form, the rendered cards and a JSON API.
package webui

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/anatolykoptev/go_notecards/internal/engine"
	"github.com/anatolykoptev/go_notecards/internal/notecards"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTmpl = template.Must(template.New("index.html").Funcs(template.FuncMap{
	// Body is escaped by the formatter; only the inserted <br> tags are markup.
	"cardBody": func(s string) template.HTML { return template.HTML(s) },
}).ParseFS(templateFS, "templates/index.html"))

const maxBodyBytes = 64 * 1024

// CardGenerator runs the note card pipeline.
type CardGenerator interface {
	Generate(ctx context.Context, req notecards.Request) (*notecards.Result, error)
}

// Options configures the web server.
type Options struct {
	Port         string
	CORSOrigins  []string      // empty = "*" without credentials
	WriteTimeout time.Duration // must outlast transcript fetch plus generation
}

// Server is the web UI and JSON API.
type Server struct {
	gen   CardGenerator
	opts  Options
	guard *busyGuard
}

// New creates a Server around gen.
func New(gen CardGenerator, opts Options) *Server {
	return &Server{gen: gen, opts: opts, guard: newBusyGuard()}
}

type page struct {
	URL      string
	Keywords string
	EmbedURL string
	Error    string
	Result   *notecards.Result
}

type apiError struct {
	Error string `json:"error"`
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(corsOptions(s.opts.CORSOrigins)))

	r.Get("/", s.handleIndex)
	r.Post("/generate", s.handleGenerate)
	r.Post("/api/notecards", s.handleAPI)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(engine.FormatMetrics()))
	})
	return r
}

// corsOptions allows any origin without cookies, or the listed origins with them.
func corsOptions(origins []string) cors.Options {
	opts := cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	}
	if len(origins) == 0 {
		opts.AllowedOrigins = []string{"*"}
		opts.AllowCredentials = false
	}
	return opts
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.opts.Port,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      s.opts.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("web ui started", slog.String("port", s.opts.Port))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sessionID(w, r)
	s.render(w, http.StatusOK, page{})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		s.render(w, http.StatusBadRequest, page{Error: "Could not read the form."})
		return
	}
	req := notecards.Request{
		URL:      strings.TrimSpace(r.PostForm.Get("url")),
		Keywords: strings.TrimSpace(r.PostForm.Get("keywords")),
	}
	p := page{URL: req.URL, Keywords: req.Keywords}

	// the video stays embedded whenever the link parses, even if generation fails
	if id, err := notecards.ExtractVideoID(req.URL); err == nil {
		p.EmbedURL = id.EmbedURL()
	}

	res, status, err := s.run(w, r, req)
	if err != nil {
		p.Error = userMessage(err)
		s.render(w, status, p)
		return
	}
	p.Result = res
	p.EmbedURL = res.EmbedURL
	s.render(w, http.StatusOK, p)
}

func (s *Server) handleAPI(w http.ResponseWriter, r *http.Request) {
	var req notecards.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "invalid JSON body"})
		return
	}

	res, status, err := s.run(w, r, req)
	if err != nil {
		writeJSON(w, status, apiError{Error: userMessage(err)})
		return
	}
	writeJSON(w, http.StatusOK, res)
}

var errBusy = errors.New("a note card request is already running for this session")

// run executes one generation under the session busy guard.
func (s *Server) run(w http.ResponseWriter, r *http.Request, req notecards.Request) (*notecards.Result, int, error) {
	id := sessionID(w, r)
	if !s.guard.acquire(id) {
		engine.IncrBusyRejections()
		slog.Info("webui: busy session rejected", slog.String("session", id))
		return nil, http.StatusConflict, errBusy
	}
	defer s.guard.release(id)

	res, err := s.gen.Generate(r.Context(), req)
	if err != nil {
		return nil, statusFor(err), err
	}
	return res, http.StatusOK, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, notecards.ErrInvalidURL):
		return http.StatusBadRequest
	case errors.Is(err, notecards.ErrTranscriptUnavailable), errors.Is(err, notecards.ErrGenerationFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func userMessage(err error) string {
	if errors.Is(err, errBusy) {
		return "Note cards are already being generated. Please wait."
	}
	return notecards.UserMessage(err)
}

func (s *Server) render(w http.ResponseWriter, status int, p page) {
	var buf strings.Builder
	if err := pageTmpl.Execute(&buf, p); err != nil {
		slog.Error("webui: render failed", slog.Any("error", err))
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(buf.String()))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
