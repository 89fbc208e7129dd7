package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/logo-studio/internal/ingestion"
	"github.com/jonathan/logo-studio/internal/llm"
	"github.com/jonathan/logo-studio/internal/pipeline"
	"github.com/jonathan/logo-studio/internal/rendering"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// HTTPStatus returns the appropriate HTTP status code for an error.
// Upstream failures carry the provider's status when it is an error status.
func HTTPStatus(err error) int {
	var upstreamErr *llm.UpstreamError
	var fileTypeErr *ingestion.FileTypeError
	var parseErr *ingestion.ParseError
	var packageErr *rendering.PackageError

	switch {
	case errors.As(err, &upstreamErr):
		if upstreamErr.StatusCode >= 400 && upstreamErr.StatusCode < 600 {
			return upstreamErr.StatusCode
		}
		return http.StatusBadGateway
	case errors.As(err, &fileTypeErr):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &parseErr), errors.As(err, &packageErr):
		return http.StatusBadRequest
	}

	switch pipeline.Kind(err) {
	case pipeline.KindValidation:
		return http.StatusBadRequest
	case pipeline.KindExtraction:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// errorKind names the failure for clients. Input errors outside the stage
// taxonomy are reported as validation failures.
func errorKind(err error) string {
	var fileTypeErr *ingestion.FileTypeError
	var parseErr *ingestion.ParseError
	var packageErr *rendering.PackageError
	if errors.As(err, &fileTypeErr) || errors.As(err, &parseErr) || errors.As(err, &packageErr) {
		return string(pipeline.KindValidation)
	}
	return string(pipeline.Kind(err))
}
