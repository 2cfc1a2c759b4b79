// Package server exposes the lattice engine over a local HTTP API.
//
// Lattices are created from a basis and kept in memory under a UUID. Each
// one can then be orthogonalized, size-reduced or LLL-reduced in place.
// Every LLL swap is broadcast on /ws/lll, and run counters are exported on
// /metrics.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/CK6170/lll-go/lattice"
	"github.com/CK6170/lll-go/matrix"
)

var errNotFound = errors.New("not found")

// Options configures a Server.
type Options struct {
	// WebDir, when set, is served as static content under "/".
	WebDir string
	// MaxSwaps caps every LLL run. Zero means lattice.DefaultMaxSwaps.
	MaxSwaps int
	Logger   zerolog.Logger
	// Registry receives the server metrics. Nil means a fresh registry.
	Registry *prometheus.Registry
}

type Server struct {
	router *mux.Router
	log    zerolog.Logger

	maxSwaps int
	store    *LatticeStore
	metrics  *metrics

	wsLLL *WSHub
}

func New(opts Options) *Server {
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	maxSwaps := opts.MaxSwaps
	if maxSwaps <= 0 {
		maxSwaps = lattice.DefaultMaxSwaps
	}
	s := &Server{
		router:   mux.NewRouter(),
		log:      opts.Logger,
		maxSwaps: maxSwaps,
		store:    NewLatticeStore(),
		metrics:  newMetrics(reg),
		wsLLL:    NewWSHub(),
	}

	// API
	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/reduce", s.handleReduce).Methods(http.MethodPost)
	api.HandleFunc("/lattices", s.handleCreate).Methods(http.MethodPost)
	api.HandleFunc("/lattices/{id}", s.handleGet).Methods(http.MethodGet)
	api.HandleFunc("/lattices/{id}", s.handleDelete).Methods(http.MethodDelete)
	api.HandleFunc("/lattices/{id}/lll", s.handleLLL).Methods(http.MethodPost)
	api.HandleFunc("/lattices/{id}/size-reduce", s.handleSizeReduce).Methods(http.MethodPost)
	api.HandleFunc("/lattices/{id}/gram-schmidt", s.handleGramSchmidt).Methods(http.MethodPost)

	// WS
	s.router.HandleFunc("/ws/lll", s.handleWSLLL)

	s.router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	// Static frontend
	if opts.WebDir != "" {
		fs := http.FileServer(http.Dir(opts.WebDir))
		s.router.PathPrefix("/").Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := r.URL.Path
			if p == "/" || strings.HasSuffix(p, ".html") || strings.HasSuffix(p, ".js") || strings.HasSuffix(p, ".css") {
				w.Header().Set("Cache-Control", "no-store")
			}
			fs.ServeHTTP(w, r)
		}))
	}

	return s
}

func (s *Server) Handler() http.Handler { return s.router }

// writeJSON encodes v before writing the status. A value that cannot be
// encoded (NaN, +Inf) is answered with a 500 and an APIError body.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		s.log.Error().Err(err).Msg("encode response")
		status = http.StatusInternalServerError
		b, _ = json.Marshal(APIError{Error: "encode response: " + err.Error()})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(b, '\n'))
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errNotFound):
		status = http.StatusNotFound
	case errors.Is(err, lattice.ErrInvalidDelta),
		errors.Is(err, matrix.ErrDimensionMismatch),
		errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		s.log.Error().Err(err).Msg("request failed")
	}
	s.writeJSON(w, status, APIError{Error: err.Error()})
}

var errBadRequest = errors.New("bad request")

func (s *Server) readJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	b, err := io.ReadAll(io.LimitReader(r.Body, 2<<20))
	if err != nil {
		return err
	}
	if len(b) == 0 {
		return nil
	}
	if err := json.Unmarshal(b, v); err != nil {
		return errors.Join(errBadRequest, err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{OK: true, Lattices: s.store.Len(), Timestamp: time.Now()})
}

// newLattice builds a lattice whose swaps are broadcast under id. Empty and
// linearly dependent bases are refused.
func (s *Server) newLattice(id string, basis [][]float64) (*lattice.Lattice, error) {
	if len(basis) == 0 {
		return nil, errors.Join(errBadRequest, errors.New("basis is empty"))
	}
	l, err := lattice.NewFromRows(basis,
		lattice.WithLogger(s.log.With().Str("lattice", id).Logger()),
		lattice.WithSwapHook(func(e lattice.SwapEvent) {
			if s.wsLLL.Len() == 0 {
				return
			}
			s.wsLLL.Broadcast(WSMessage{Type: eventSwap, Data: SwapEventDTO{
				ID:    id,
				Index: e.Index,
				Swaps: e.Swaps,
				Basis: vectorRows(e.Basis),
			}})
		}),
	)
	if err != nil {
		return nil, err
	}
	if l.IsDegenerate() {
		return nil, fmt.Errorf("%d vectors in dimension %d: %w", l.Dim(), l.AmbientDim(), lattice.ErrDegenerateBasis)
	}
	return l, nil
}

func vectorRows(vs []*matrix.Vector) [][]float64 {
	rows := make([][]float64, len(vs))
	for i, v := range vs {
		rows[i] = v.Values
	}
	return rows
}

func describe(id string, l *lattice.Lattice) LatticeResponse {
	vol, _ := l.Volume()
	return LatticeResponse{
		ID:         id,
		Dim:        l.Dim(),
		AmbientDim: l.AmbientDim(),
		Basis:      l.Rows(),
		Text:       l.String(),
		Volume:     vol,
	}
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := s.readJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	id := newID()
	l, err := s.newLattice(id, req.Basis)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.store.Put(id, l)
	s.metrics.stored.Set(float64(s.store.Len()))
	s.log.Info().Str("lattice", id).Int("n", l.Dim()).Int("d", l.AmbientDim()).Msg("lattice created")
	s.writeJSON(w, http.StatusCreated, describe(id, l))
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var resp LatticeResponse
	err := s.store.With(id, func(l *lattice.Lattice) error {
		resp = describe(id, l)
		return nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !s.store.Delete(id) {
		s.writeError(w, errNotFound)
		return
	}
	s.metrics.stored.Set(float64(s.store.Len()))
	w.WriteHeader(http.StatusNoContent)
}

// runLLL reduces l and records the outcome. A swap-limit stop is not an
// error for the caller; it is reported through Complete.
func (s *Server) runLLL(id string, l *lattice.Lattice, delta *float64, maxSwaps int) (LLLResponse, error) {
	d := lattice.DefaultDelta
	if delta != nil {
		d = *delta
	}
	if maxSwaps <= 0 || maxSwaps > s.maxSwaps {
		maxSwaps = s.maxSwaps
	}
	l.Apply(lattice.WithMaxSwaps(maxSwaps))

	err := l.LLL(d)
	switch {
	case err == nil:
		s.metrics.reductions.WithLabelValues(resultOK).Inc()
	case errors.Is(err, lattice.ErrInvalidDelta):
		s.metrics.reductions.WithLabelValues(resultInvalidDelta).Inc()
		return LLLResponse{}, err
	case errors.Is(err, lattice.ErrDegenerateBasis):
		s.metrics.reductions.WithLabelValues(resultDegenerate).Inc()
		return LLLResponse{}, err
	case errors.Is(err, lattice.ErrSwapLimit):
		s.metrics.reductions.WithLabelValues(resultSwapLimit).Inc()
		s.log.Warn().Str("lattice", id).Int("maxSwaps", maxSwaps).Msg("lll stopped at swap limit")
	default:
		s.metrics.reductions.WithLabelValues(resultError).Inc()
		return LLLResponse{}, err
	}

	st := l.Stats()
	s.metrics.swaps.Observe(float64(st.Swaps))
	resp := LLLResponse{
		ID:         id,
		Delta:      d,
		Basis:      l.Rows(),
		Iterations: st.Iterations,
		Swaps:      st.Swaps,
		Complete:   err == nil,
		Reduced:    l.IsLLLReduced(d),
	}
	s.wsLLL.Broadcast(WSMessage{Type: eventDone, Data: resp})
	return resp, nil
}

func (s *Server) handleLLL(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req LLLRequest
	if err := s.readJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	var resp LLLResponse
	err := s.store.With(id, func(l *lattice.Lattice) error {
		var err error
		resp, err = s.runLLL(id, l, req.Delta, req.MaxSwaps)
		return err
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReduce(w http.ResponseWriter, r *http.Request) {
	var req ReduceRequest
	if err := s.readJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	id := newID()
	l, err := s.newLattice(id, req.Basis)
	if err != nil {
		s.writeError(w, err)
		return
	}
	resp, err := s.runLLL(id, l, req.Delta, req.MaxSwaps)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSizeReduce(w http.ResponseWriter, r *http.Request) {
	s.handleMutation(w, r, (*lattice.Lattice).SizeReduce)
}

func (s *Server) handleGramSchmidt(w http.ResponseWriter, r *http.Request) {
	s.handleMutation(w, r, (*lattice.Lattice).GramSchmidt)
}

func (s *Server) handleMutation(w http.ResponseWriter, r *http.Request, op func(*lattice.Lattice) error) {
	id := mux.Vars(r)["id"]
	var resp LatticeResponse
	err := s.store.With(id, func(l *lattice.Lattice) error {
		if err := op(l); err != nil {
			return err
		}
		resp = describe(id, l)
		return nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}
