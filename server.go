package extrude

import (
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server exposes the extruder over HTTP.
type Server struct {
	queue     *Queue
	startTime time.Time
	version   string
}

// NewServer creates a server with a worker pool of the given size.
func NewServer(version string, workers int) *Server {
	return &Server{
		queue:     NewQueue(workers),
		startTime: time.Now(),
		version:   version,
	}
}

// Router builds the chi router with the full middleware stack.
func (s *Server) Router(timeout time.Duration) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(timeout))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Post("/extrude", s.handleExtrude)
	})

	return r
}

// Close shuts down the worker pool.
func (s *Server) Close() {
	s.queue.Close()
}

type healthResponse struct {
	Status  string `json:"status"`
	Uptime  int    `json:"uptime"`
	Version string `json:"version"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	_ = json.NewEncoder(w).Encode(healthResponse{
		Status:  "healthy",
		Uptime:  int(time.Since(s.startTime).Seconds()),
		Version: s.version,
	})
}

// handleExtrude reads a raw image from the request body, extrudes it with the
// geometry from the query parameters and responds with the sheet as PNG.
func (s *Server) handleExtrude(w http.ResponseWriter, r *http.Request) {
	opts, err := optionsFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	img, _, err := image.Decode(r.Body)
	if err != nil {
		http.Error(w, fmt.Sprintf("undecodable image: %v", err), http.StatusUnsupportedMediaType)

		return
	}

	type result struct {
		out *image.RGBA
		err error
	}

	done := make(chan result, 1)

	s.queue.Work(func() {
		out, err := Extrude(img, opts)

		done <- result{out: out, err: err}
	})

	res := <-done

	if res.err != nil {
		http.Error(w, res.err.Error(), http.StatusBadRequest)

		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)

	_ = png.Encode(w, res.out)
}

func optionsFromQuery(r *http.Request) (Options, error) {
	opts := Defaults()

	query := r.URL.Query()

	for name, field := range map[string]*int{
		"tile-width":  &opts.TileWidth,
		"tile-height": &opts.TileHeight,
		"extrude":     &opts.Extrude,
		"border":      &opts.Border,
		"spacing":     &opts.Spacing,
	} {
		raw := query.Get(name)
		if raw == "" {
			continue
		}

		value, err := strconv.Atoi(raw)
		if err != nil {
			return opts, fmt.Errorf("invalid %s: %s", name, raw)
		}

		*field = value
	}

	return opts, nil
}
