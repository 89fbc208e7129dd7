package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/logo-studio/internal/ingestion"
	"github.com/jonathan/logo-studio/internal/llm"
	"github.com/jonathan/logo-studio/internal/pipeline"
	"github.com/jonathan/logo-studio/internal/rendering"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		kind   string
	}{
		{name: "validation", err: &pipeline.ValidationError{Message: pipeline.MsgEmptyTranscript}, status: http.StatusBadRequest, kind: "validation"},
		{name: "upstream with status", err: &llm.UpstreamError{StatusCode: 503}, status: http.StatusServiceUnavailable, kind: "upstream"},
		{name: "upstream without status", err: &llm.UpstreamError{}, status: http.StatusBadGateway, kind: "upstream"},
		{name: "upstream with success status", err: &llm.UpstreamError{StatusCode: 200}, status: http.StatusBadGateway, kind: "upstream"},
		{name: "extraction", err: &llm.ExtractionError{Message: llm.MsgMalformedObject}, status: http.StatusUnprocessableEntity, kind: "extraction"},
		{name: "wrapped extraction", err: fmt.Errorf("stage: %w", &llm.ExtractionError{}), status: http.StatusUnprocessableEntity, kind: "extraction"},
		{name: "file type", err: &ingestion.FileTypeError{Name: "a.txt"}, status: http.StatusUnsupportedMediaType, kind: "validation"},
		{name: "file parse", err: &ingestion.ParseError{Name: "a.json"}, status: http.StatusBadRequest, kind: "validation"},
		{name: "package", err: &rendering.PackageError{Index: 0, Message: "invalid markup"}, status: http.StatusBadRequest, kind: "validation"},
		{name: "unknown", err: errors.New("boom"), status: http.StatusInternalServerError, kind: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, HTTPStatus(tt.err))
			assert.Equal(t, tt.kind, errorKind(tt.err))
		})
	}
}
