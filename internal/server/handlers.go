package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/requirement-resolver/internal/engine"
	"github.com/jonathan/requirement-resolver/internal/store"
	"github.com/jonathan/requirement-resolver/internal/types"
)

// resolveRequest is the payload for POST /resolve and POST /resolve/stream.
type resolveRequest struct {
	Requirements []types.Requirement    `json:"requirements"`
	Document     *types.ResumeDocument  `json:"document"`
	Profiles     []types.ElementProfile `json:"element_profiles"`
}

// resolveResponse wraps the engine result with the recorded run ID.
type resolveResponse struct {
	RunID *uuid.UUID `json:"run_id,omitempty"`
	*types.ResolveResult
}

func (req *resolveRequest) toInput() engine.Input {
	return engine.Input{
		Requirements: req.Requirements,
		Document:     req.Document,
		Profiles:     req.Profiles,
	}
}

// handleResolve runs a full resolution synchronously.
func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	runID := s.recordRunStart(r.Context(), len(req.Requirements))

	result, err := s.resolver.Resolve(r.Context(), req.toInput(), nil)
	s.recordRunEnd(runID, result)
	if err != nil {
		s.resolveError(w, err)
		return
	}

	// A run that produced nothing because of a temporary service failure
	// is retryable wholesale; the payload still carries the tagged report.
	status := http.StatusOK
	if result.TransientFailure {
		status = http.StatusServiceUnavailable
	}
	s.jsonResponse(w, status, resolveResponse{RunID: runID, ResolveResult: result})
}

// handleResolveStream runs a resolution while streaming per-requirement
// progress as Server-Sent Events. The final result event carries the same
// payload POST /resolve returns.
func (s *Server) handleResolveStream(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	runID := s.recordRunStart(r.Context(), len(req.Requirements))

	events := make(chan types.ProgressEvent, len(req.Requirements)+1)
	var result *types.ResolveResult

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		defer close(events)
		var resolveErr error
		result, resolveErr = s.resolver.Resolve(ctx, req.toInput(), func(ev types.ProgressEvent) {
			select {
			case events <- ev:
			case <-ctx.Done():
			}
		})
		return resolveErr
	})

	// The writer loop stays on the handler goroutine; http.ResponseWriter
	// is not safe for concurrent use.
	for ev := range events {
		if err := sse.WriteEvent("progress", ev); err != nil {
			s.logger.Warn("client disconnected during stream", zap.Error(err))
			break
		}
	}

	err = g.Wait()
	s.recordRunEnd(runID, result)
	if err != nil {
		sse.WriteError(s.resolveErrorMessage(err))
		return
	}

	if err := sse.WriteEvent("result", resolveResponse{RunID: runID, ResolveResult: result}); err != nil {
		return
	}
	status := store.StatusForResult(result)
	if runID != nil {
		sse.WriteComplete(runID.String(), status)
	} else {
		sse.WriteComplete("", status)
	}
}

// resolveError maps a resolution failure to its HTTP response.
func (s *Server) resolveError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	s.logger.Error("resolution failed", zap.Error(err), zap.Int("status", status))
	s.errorResponse(w, status, s.resolveErrorMessage(err))
}

func (s *Server) resolveErrorMessage(err error) string {
	var invalid *engine.InvalidInputError
	if errors.As(err, &invalid) {
		return invalid.Error()
	}
	return "failed to generate edits"
}

// recordRunStart creates a run-history row when persistence is enabled.
func (s *Server) recordRunStart(ctx context.Context, requirementCount int) *uuid.UUID {
	if s.runs == nil {
		return nil
	}
	id, err := s.runs.CreateRun(ctx, requirementCount)
	if err != nil {
		s.logger.Warn("failed to record run start", zap.Error(err))
		return nil
	}
	return &id
}

// recordRunEnd persists the terminal status. Uses a background context so
// a cancelled request still gets its row closed out.
func (s *Server) recordRunEnd(runID *uuid.UUID, result *types.ResolveResult) {
	if s.runs == nil || runID == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.runs.CompleteRun(ctx, *runID, result); err != nil {
		s.logger.Warn("failed to record run end", zap.Error(err))
	}
}

// handleListRuns lists recent runs, optionally filtered by status.
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		err := &ErrHistoryDisabled{}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	filters := store.RunFilters{Status: r.URL.Query().Get("status")}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			s.errorResponse(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		filters.Limit = limit
	}

	runs, err := s.runs.ListRuns(r.Context(), filters)
	if err != nil {
		s.logger.Error("failed to list runs", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "failed to list runs")
		return
	}
	if runs == nil {
		runs = []store.Run{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"runs": runs})
}

// handleGetRun returns one run's summary row.
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, ok := s.lookupRun(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, run)
}

// handleGetRunResult returns the stored result payload of a completed run.
func (s *Server) handleGetRunResult(w http.ResponseWriter, r *http.Request) {
	run, ok := s.lookupRun(w, r)
	if !ok {
		return
	}

	result, err := s.runs.GetResult(r.Context(), run.ID)
	if err != nil {
		s.logger.Error("failed to get run result", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "failed to get run result")
		return
	}
	if result == nil {
		s.errorResponse(w, http.StatusNotFound, "run has no stored result")
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// lookupRun parses the {id} path value and loads the run, writing the
// error response itself when either step fails.
func (s *Server) lookupRun(w http.ResponseWriter, r *http.Request) (*store.Run, bool) {
	if s.runs == nil {
		err := &ErrHistoryDisabled{}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return nil, false
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid run ID")
		return nil, false
	}

	run, err := s.runs.GetRun(r.Context(), id)
	if err != nil {
		s.logger.Error("failed to get run", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "failed to get run")
		return nil, false
	}
	if run == nil {
		notFound := &ErrRunNotFound{RunID: id}
		s.errorResponse(w, HTTPStatus(notFound), notFound.Error())
		return nil, false
	}
	return run, true
}
