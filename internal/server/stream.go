package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/jonathan/logo-studio/internal/session"
)

// Stream event names
const (
	EventStage   = "stage"
	EventProfile = "profile"
	EventLogos   = "logos"
	EventError   = "error"
	EventDone    = "done"
)

// StageEvent reports that a stage has started
type StageEvent struct {
	Stage     string `json:"stage"`
	SessionID string `json:"session_id"`
}

// eventWriter writes Server-Sent Events
type eventWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

func newEventWriter(w http.ResponseWriter) (*eventWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	return &eventWriter{w: w, flusher: flusher}, nil
}

func (e *eventWriter) write(event string, data any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(e.w, "event: %s\ndata: %s\n\n", event, jsonData); err != nil {
		return err
	}
	e.flusher.Flush()
	return nil
}

// handleRunStream extracts a profile and generates logos for it in one
// request, reporting each stage as an event. A failed stage ends the stream
// with an error event carrying the same body as the JSON endpoints.
func (s *Server) handleRunStream(w http.ResponseWriter, r *http.Request) {
	var req ExtractRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	events, err := newEventWriter(w)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	sess := session.New(s.stages, s.logger)
	ctx, cancel := s.stageContext(r)
	defer cancel()

	fail := func(err error) {
		s.logger.Warn("streamed run failed", zap.String("session_id", sess.ID), zap.Error(err))
		_ = events.write(EventError, ErrorResponse{Error: err.Error(), Kind: errorKind(err)})
	}

	_ = events.write(EventStage, StageEvent{Stage: "extract", SessionID: sess.ID})
	profile, err := sess.Extract(ctx, req.Transcript)
	if err != nil {
		fail(err)
		return
	}
	_ = events.write(EventProfile, profile)

	_ = events.write(EventStage, StageEvent{Stage: "generate", SessionID: sess.ID})
	set, err := sess.GenerateLogos(ctx)
	if err != nil {
		fail(err)
		return
	}
	_ = events.write(EventLogos, set)
	_ = events.write(EventDone, sess.Status())
}
