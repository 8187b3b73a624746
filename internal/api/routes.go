// Package api serves the chart agent over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/SanteonNL/clinicalops/internal/agent"
)

const requestIDHeader = "X-Request-ID"

type ChartRouter struct {
	agent *agent.Agent
	// mu serializes rendering and reading of the shared chart files.
	mu  sync.Mutex
	log zerolog.Logger
}

func NewChartRouter(a *agent.Agent, log zerolog.Logger) *ChartRouter {
	return &ChartRouter{
		agent: a,
		log:   log,
	}
}

func (cr *ChartRouter) SetupRoutes() http.Handler {
	r := mux.NewRouter()

	r.Use(cr.requestID)
	r.Use(cr.recoverer)

	r.HandleFunc("/healthz", cr.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/charts", cr.handleQuery).Methods(http.MethodGet)
	r.HandleFunc("/charts/{name}", cr.handleChart).Methods(http.MethodGet)

	return r
}

func (cr *ChartRouter) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"records": cr.agent.Dataset().Len(),
	})
}

func (cr *ChartRouter) handleQuery(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")

	cr.mu.Lock()
	defer cr.mu.Unlock()

	res, err := cr.agent.Run(r.Context(), query)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("query", query).Msg("Failed to answer query")
		respondWithError(w, http.StatusInternalServerError, "failed to render chart")
		return
	}

	w.Header().Set("X-Intent", string(res.Intent))
	w.Header().Set("X-Default-Route", strconv.FormatBool(res.Default))
	cr.servePNG(w, r, res.Path)
}

func (cr *ChartRouter) handleChart(w http.ResponseWriter, r *http.Request) {
	intent, err := agent.ParseIntent(mux.Vars(r)["name"])
	if err != nil {
		respondWithError(w, http.StatusNotFound, err.Error())
		return
	}

	cr.mu.Lock()
	defer cr.mu.Unlock()

	w.Header().Set("X-Intent", string(intent))
	cr.servePNG(w, r, cr.agent.ChartPath(intent))
}

func (cr *ChartRouter) servePNG(w http.ResponseWriter, r *http.Request, path string) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		respondWithError(w, http.StatusNotFound, "chart has not been rendered yet")
		return
	}
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("path", path).Msg("Failed to read chart")
		respondWithError(w, http.StatusInternalServerError, "failed to read chart")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(b)))
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

func (cr *ChartRouter) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		log := cr.log.With().Str("request_id", id).Logger()
		start := time.Now()
		next.ServeHTTP(w, r.WithContext(log.WithContext(r.Context())))
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("Handled request")
	})
}

func (cr *ChartRouter) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				zerolog.Ctx(r.Context()).Error().Interface("panic", rec).Msg("Recovered from panic")
				respondWithError(w, http.StatusInternalServerError, "internal error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func respondWithError(w http.ResponseWriter, status int, message string) {
	respondWithJSON(w, status, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
