package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"social_post_generator/generator"
	"social_post_generator/logger"
	"social_post_generator/metrics"
)

//go:embed web/dist web/dist/* web/dist/assets/*
var embeddedStatic embed.FS

// GeneratePath is the generation endpoint.
const GeneratePath = "/api/social/generate"

const (
	maxBodyBytes    = 1 << 20
	internalMessage = "Internal server error"
)

// Generator produces posts for a request; *generator.Agent satisfies it.
type Generator interface {
	Generate(ctx context.Context, req generator.Request) ([]generator.Post, error)
	DefaultCount() int
}

type Server struct {
	gen      Generator
	staticFS http.Handler
}

func New(gen Generator) (*Server, error) {
	if gen == nil {
		return nil, errors.New("generator required")
	}

	sub, err := fs.Sub(embeddedStatic, "web/dist")
	if err != nil {
		return nil, err
	}

	return &Server{
		gen:      gen,
		staticFS: http.FileServer(http.FS(sub)),
	}, nil
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(GeneratePath, s.handleGenerate)
	mux.HandleFunc("/healthz", handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", s.staticHandler())
	return requestIDMiddleware(logMiddleware(recoverMiddleware(mux)))
}

func (s *Server) staticHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upath := r.URL.Path
		if strings.HasPrefix(upath, "/api/") {
			writeJSON(w, http.StatusNotFound, generator.ErrorResponse{Error: "not found"})
			return
		}
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			writeJSON(w, http.StatusMethodNotAllowed, generator.ErrorResponse{Error: "method not allowed"})
			return
		}
		// FileServer serves index.html for "/" and redirects explicit /index.html back to it
		s.staticFS.ServeHTTP(w, r)
	})
}

// --- Handlers ---

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, generator.ErrorResponse{Error: "method not allowed"})
		return
	}
	ctx := r.Context()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.fail(ctx, w, err)
		return
	}
	req, err := generator.DecodeRequest(body, s.gen.DefaultCount())
	if errors.Is(err, generator.ErrTopicRequired) {
		metrics.GenerationTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		writeJSON(w, http.StatusBadRequest, generator.ErrorResponse{Error: generator.ErrTopicRequired.Error()})
		return
	}
	if err != nil {
		s.fail(ctx, w, err)
		return
	}

	posts, err := s.gen.Generate(ctx, req)
	if err != nil {
		s.fail(ctx, w, err)
		return
	}
	if posts == nil {
		posts = []generator.Post{}
	}

	outcome := metrics.OutcomeOK
	if len(posts) == 0 {
		outcome = metrics.OutcomeEmpty
	}
	metrics.GenerationTotal.WithLabelValues(outcome).Inc()
	metrics.PostsPerResponse.Observe(float64(len(posts)))
	logger.Info(ctx, "posts generated", "topic", req.Topic, "platforms", req.Platforms, "posts", len(posts))
	writeJSON(w, http.StatusOK, generator.Response{Posts: posts})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// fail is the single boundary for everything that is not a topic validation failure.
func (s *Server) fail(ctx context.Context, w http.ResponseWriter, err error) {
	metrics.GenerationTotal.WithLabelValues(metrics.OutcomeError).Inc()
	logger.Error(ctx, "error in "+GeneratePath, err)
	writeJSON(w, http.StatusInternalServerError, generator.ErrorResponse{Error: errorMessage(err)})
}

// --- Helpers ---

func errorMessage(err error) string {
	if err == nil {
		return internalMessage
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return internalMessage
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
