package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"

	"github.com/copyleftdev/localsearch/internal/config"
	apperrors "github.com/copyleftdev/localsearch/internal/errors"
	"github.com/copyleftdev/localsearch/internal/logging"
	"github.com/copyleftdev/localsearch/internal/metrics"
	"github.com/copyleftdev/localsearch/internal/optimization"
)

// Logger defines the logging interface used by the server
// This allows us to be flexible with our logging implementation
type Logger interface {
	Debug(msg string, fields ...map[string]interface{})
	Info(msg string, fields ...map[string]interface{})
	Warn(msg string, fields ...map[string]interface{})
	Error(msg string, fields ...map[string]interface{})
	Fatal(msg string, fields ...map[string]interface{})
	WithFields(fields map[string]interface{}) *logging.Logger
}

// Search job statuses.
const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
)

// SearchState represents the state of a search job.
// It is guarded by the server mutex; workers publish progress into it
// instead of letting readers touch the running algorithm.
type SearchState struct {
	ID              string
	Status          string
	Problem         string
	ProblemParams   []string
	Algorithm       string
	AlgorithmParams []string
	StartTime       time.Time
	EndTime         *time.Time
	LastUpdated     time.Time
	Evaluations     int64
	BestScore       float64
	BestSolution    []int
	Stats           *optimization.Stats
	Error           string
	CancelFunc      context.CancelFunc
}

var errSearchNotFound = apperrors.New(http.StatusNotFound, "search not found")

type searchJob struct {
	ctx       context.Context
	state     *SearchState
	algorithm optimization.Algorithm
}

// Server implements the HTTP and JSON-RPC server for the search service.
// It manages search jobs and provides endpoints to start, monitor, and cancel them.
type Server struct {
	cfg      *config.Config
	logger   Logger
	registry *optimization.Registry
	metrics  *metrics.Collector

	searches   map[string]*SearchState
	searchesMu sync.RWMutex // Protects searches and closed
	closed     bool

	queue   chan *searchJob
	workers *pool.Pool
}

// NewServer creates a server and starts cfg.Optimization.WorkerCount workers.
// collector may be nil.
func NewServer(cfg *config.Config, logger Logger, registry *optimization.Registry, collector *metrics.Collector) *Server {
	workers := cfg.Optimization.WorkerCount
	if workers < 1 {
		workers = 1
	}
	queueSize := cfg.Optimization.QueueSize
	if queueSize < 1 {
		queueSize = 1
	}

	s := &Server{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		metrics:  collector,
		searches: make(map[string]*SearchState),
		queue:    make(chan *searchJob, queueSize),
		workers:  pool.New().WithMaxGoroutines(workers),
	}
	for i := 0; i < workers; i++ {
		s.workers.Go(s.work)
	}
	return s
}

func (s *Server) RegisterRoutes(r chi.Router) {
	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/search", s.handleSearch)
		r.Get("/search/{id}", s.handleStatus)
		r.Delete("/search/{id}", s.handleCancel)
		r.Get("/variants", s.handleVariants)
	})

	// JSON-RPC 2.0 endpoint
	r.Post("/rpc", s.handleJSONRPC)
}

// paramList is a list of textual parameters. JSON numbers and booleans are
// accepted and kept in their literal form.
type paramList []string

func (p *paramList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make([]string, len(raw))
	for i, r := range raw {
		var str string
		if err := json.Unmarshal(r, &str); err == nil {
			out[i] = str
			continue
		}
		out[i] = string(r)
	}
	*p = out
	return nil
}

// startRequest describes a search to run. Empty names fall back to the
// configured defaults.
type startRequest struct {
	Problem         string    `json:"problem"`
	ProblemParams   paramList `json:"problem_params"`
	Algorithm       string    `json:"algorithm"`
	AlgorithmParams paramList `json:"algorithm_params"`
}

type idRequest struct {
	ID string `json:"search_id"`
}

// rpcError carries a JSON-RPC error code with the message.
type rpcError struct {
	code int
	err  error
}

func (e *rpcError) Error() string { return e.err.Error() }
func (e *rpcError) Unwrap() error { return e.err }

func invalidParams(format string, args ...interface{}) error {
	return &rpcError{code: -32602, err: fmt.Errorf(format, args...)}
}

// handleJSONRPC handles JSON-RPC 2.0 requests
func (s *Server) handleJSONRPC(w http.ResponseWriter, r *http.Request) {
	var request struct {
		JSONRPC string            `json:"jsonrpc"`
		ID      interface{}       `json:"id"`
		Method  string            `json:"method"`
		Params  []json.RawMessage `json:"params,omitempty"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		s.respondWithError(w, -32700, "Parse error", nil)
		return
	}

	// Validate JSON-RPC 2.0 request
	if request.JSONRPC != "2.0" {
		s.respondWithError(w, -32600, "Invalid Request", request.ID)
		return
	}

	var result interface{}
	var err error

	switch request.Method {
	case "search.start":
		var req startRequest
		if err = decodeFirst(request.Params, &req); err == nil {
			result, err = s.startSearch(req)
		}
	case "search.status":
		var req idRequest
		if err = decodeFirst(request.Params, &req); err == nil {
			result, err = s.searchStatus(req.ID)
		}
	case "search.cancel":
		var req idRequest
		if err = decodeFirst(request.Params, &req); err == nil {
			err = s.cancelSearch(req.ID)
			result = map[string]string{"status": StatusCancelled}
		}
	case "search.variants":
		result = s.variants()
	default:
		s.respondWithError(w, -32601, "Method not found", request.ID)
		return
	}

	if err != nil {
		code := -32000
		var rerr *rpcError
		if errors.As(err, &rerr) {
			code = rerr.code
		}
		s.respondWithError(w, code, err.Error(), request.ID)
		return
	}

	response := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      request.ID,
		"result":  result,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func decodeFirst(params []json.RawMessage, v interface{}) error {
	if len(params) == 0 {
		return invalidParams("missing required parameters")
	}
	if err := json.Unmarshal(params[0], v); err != nil {
		return invalidParams("invalid parameter format: %v", err)
	}
	return nil
}

// startSearch builds the problem and algorithm and queues the search.
// Unknown variant names are rejected before anything is queued.
func (s *Server) startSearch(req startRequest) (interface{}, error) {
	if req.Problem == "" {
		req.Problem = s.cfg.Search.Problem
		if req.ProblemParams == nil {
			req.ProblemParams = s.cfg.Search.ProblemParams
		}
	}
	if req.Algorithm == "" {
		req.Algorithm = s.cfg.Search.Algorithm
		if req.AlgorithmParams == nil {
			req.AlgorithmParams = s.cfg.Search.AlgorithmParams
		}
	}

	problem, err := s.registry.NewProblem(req.Problem, req.ProblemParams)
	if err != nil {
		return nil, s.buildError(err)
	}
	algorithm, err := s.registry.NewAlgorithm(req.Algorithm, req.AlgorithmParams)
	if err != nil {
		return nil, s.buildError(err)
	}
	algorithm.SetProblem(problem)

	ctx, cancel := context.WithCancel(context.Background())
	now := time.Now()
	state := &SearchState{
		ID:              uuid.New().String(),
		Status:          StatusPending,
		Problem:         req.Problem,
		ProblemParams:   req.ProblemParams,
		Algorithm:       req.Algorithm,
		AlgorithmParams: req.AlgorithmParams,
		StartTime:       now,
		LastUpdated:     now,
		CancelFunc:      cancel,
	}

	s.searchesMu.Lock()
	defer s.searchesMu.Unlock()

	if s.closed {
		cancel()
		return nil, apperrors.New(http.StatusServiceUnavailable, "server is shutting down")
	}

	select {
	case s.queue <- &searchJob{ctx: ctx, state: state, algorithm: algorithm}:
	default:
		cancel()
		return nil, apperrors.New(http.StatusServiceUnavailable, "search queue is full")
	}
	s.searches[state.ID] = state

	s.logger.Info("Search queued", map[string]interface{}{
		"search_id": state.ID,
		"problem":   state.Problem,
		"algorithm": state.Algorithm,
	})

	return map[string]interface{}{
		"search_id": state.ID,
		"status":    StatusPending,
	}, nil
}

func (s *Server) buildError(err error) error {
	if errors.Is(err, optimization.ErrUnknownVariant) {
		return &rpcError{code: -32602, err: err}
	}
	return err
}

// searchStatus returns the current status and results of a search job.
func (s *Server) searchStatus(id string) (interface{}, error) {
	if id == "" {
		return nil, invalidParams("search_id is required")
	}

	s.searchesMu.RLock()
	defer s.searchesMu.RUnlock()

	state, exists := s.searches[id]
	if !exists {
		return nil, errSearchNotFound
	}

	response := map[string]interface{}{
		"search_id":        state.ID,
		"status":           state.Status,
		"problem":          state.Problem,
		"problem_params":   state.ProblemParams,
		"algorithm":        state.Algorithm,
		"algorithm_params": state.AlgorithmParams,
		"evaluations":      state.Evaluations,
		"start_time":       state.StartTime.Format(time.RFC3339),
		"last_update":      state.LastUpdated.Format(time.RFC3339),
	}

	if state.EndTime != nil {
		response["end_time"] = state.EndTime.Format(time.RFC3339)
	}
	if state.Evaluations > 0 {
		response["best_score"] = state.BestScore
	}
	if state.BestSolution != nil {
		response["best_solution"] = state.BestSolution
	}
	if state.Error != "" {
		response["error"] = state.Error
	}
	if state.Stats != nil {
		response["stats"] = map[string]interface{}{
			"evaluations": state.Stats.Evaluations,
			"elapsed_ms":  float64(state.Stats.Elapsed.Microseconds()) / 1000.0,
			"iterations":  state.Stats.Iterations,
			"converged":   state.Stats.Converged,
			"history":     state.Stats.History,
		}
	}

	return response, nil
}

// cancelSearch cancels a pending or running search job.
func (s *Server) cancelSearch(id string) error {
	if id == "" {
		return invalidParams("search_id is required")
	}

	s.searchesMu.Lock()
	defer s.searchesMu.Unlock()

	state, exists := s.searches[id]
	if !exists {
		return errSearchNotFound
	}

	switch state.Status {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return apperrors.Errorf(http.StatusBadRequest, "cannot cancel search with status: %s", state.Status)
	}

	if state.CancelFunc != nil {
		state.CancelFunc()
	}

	state.Status = StatusCancelled
	now := time.Now()
	state.EndTime = &now
	state.LastUpdated = now

	s.logger.Info("Search cancelled", map[string]interface{}{
		"search_id": id,
	})

	return nil
}

func (s *Server) variants() map[string][]string {
	return map[string][]string{
		"problems":   s.registry.Problems(),
		"algorithms": s.registry.Algorithms(),
	}
}

// respondWithError sends a JSON-RPC 2.0 error response
func (s *Server) respondWithError(w http.ResponseWriter, code int, message string, id interface{}) {
	s.logger.Error("Request error", map[string]interface{}{
		"status":  code,
		"message": message,
	})

	response := map[string]interface{}{
		"jsonrpc": "2.0",
		"error": map[string]interface{}{
			"code":    code,
			"message": message,
		},
		"id": id,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// work runs queued searches until the queue is closed
func (s *Server) work() {
	for job := range s.queue {
		s.runSearch(job)
	}
}

// runSearch executes one search on the calling worker
func (s *Server) runSearch(job *searchJob) {
	state := job.state

	s.searchesMu.Lock()
	if state.Status != StatusPending {
		s.searchesMu.Unlock()
		return
	}
	state.Status = StatusRunning
	state.LastUpdated = time.Now()
	s.searchesMu.Unlock()

	job.algorithm.SetReporter(optimization.ReporterFunc(func(evaluations int64, bestScore float64) {
		s.searchesMu.Lock()
		state.Evaluations = evaluations
		state.BestScore = bestScore
		state.LastUpdated = time.Now()
		s.searchesMu.Unlock()
	}))

	err := job.algorithm.Search(job.ctx)
	stats := job.algorithm.Stats()
	best := job.algorithm.BestSolution()

	if s.metrics != nil {
		s.metrics.ObserveSearch(state.Problem, state.Algorithm, stats, err)
	}

	s.searchesMu.Lock()
	defer s.searchesMu.Unlock()

	// A cancel request that raced with completion keeps its status.
	if state.Status != StatusCancelled {
		switch metrics.Status(err) {
		case metrics.StatusCompleted:
			state.Status = StatusCompleted
		case metrics.StatusCancelled:
			state.Status = StatusCancelled
		default:
			state.Status = StatusFailed
			state.Error = err.Error()
			s.logger.Error("Search failed", map[string]interface{}{
				"search_id": state.ID,
				"error":     err.Error(),
			})
		}
	}

	state.Evaluations = stats.Evaluations
	state.BestScore = stats.BestScore
	state.Stats = &stats
	if best != nil {
		state.BestSolution = best.Values()
	}

	now := time.Now()
	if state.EndTime == nil {
		state.EndTime = &now
	}
	state.LastUpdated = now
	state.CancelFunc()

	s.logger.Info("Search finished", map[string]interface{}{
		"search_id":   state.ID,
		"status":      state.Status,
		"evaluations": stats.Evaluations,
		"elapsed":     stats.Elapsed.String(),
	})
}

// Close cancels every search, stops accepting new ones and waits for the
// workers to drain the queue.
func (s *Server) Close() error {
	s.searchesMu.Lock()
	if s.closed {
		s.searchesMu.Unlock()
		return nil
	}
	s.closed = true
	for _, state := range s.searches {
		if state.CancelFunc != nil {
			state.CancelFunc()
		}
	}
	close(s.queue)
	s.searchesMu.Unlock()

	s.workers.Wait()
	return nil
}

// handleSearch handles POST /api/v1/search
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperrors.WriteJSON(w, apperrors.Errorf(http.StatusBadRequest, "Invalid request body: %v", err))
		return
	}

	result, err := s.startSearch(req)
	if err != nil {
		apperrors.WriteJSON(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, result)
}

// handleStatus handles GET /api/v1/search/{id}
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	result, err := s.searchStatus(chi.URLParam(r, "id"))
	if err != nil {
		apperrors.WriteJSON(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleCancel handles DELETE /api/v1/search/{id}
func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.cancelSearch(id); err != nil {
		apperrors.WriteJSON(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cancellation requested"})
}

// handleVariants handles GET /api/v1/variants
func (s *Server) handleVariants(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.variants())
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
