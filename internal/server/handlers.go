package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jonathan/logo-studio/internal/ingestion"
	"github.com/jonathan/logo-studio/internal/pipeline"
	"github.com/jonathan/logo-studio/internal/rendering"
	"github.com/jonathan/logo-studio/internal/schemas"
	"github.com/jonathan/logo-studio/internal/types"
)

// ExtractRequest is the body of POST /api/extract
type ExtractRequest struct {
	Transcript string `json:"transcript" validate:"required"`
}

// GenerateLogosRequest is the body of POST /api/generate-logos. CompanyData
// is the profile as the client holds it; unknown keys are ignored.
type GenerateLogosRequest struct {
	CompanyData map[string]any `json:"companyData" validate:"required"`
}

// EditProfileRequest is the body of POST /api/profile/edit
type EditProfileRequest struct {
	Profile *types.BrandProfile `json:"profile" validate:"required"`
	Edits   types.ProfileEdits  `json:"edits"`
}

// PackageLogoRequest is the body of POST /api/logos/package
type PackageLogoRequest struct {
	Logo  *types.LogoRecord `json:"logo" validate:"required"`
	Index *int              `json:"index" validate:"required,gte=0"`
}

// TranscriptResponse is the body returned by POST /api/transcripts
type TranscriptResponse struct {
	Transcript string `json:"transcript"`
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleExtract turns a transcript into a brand profile
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req ExtractRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	ctx, cancel := s.stageContext(r)
	defer cancel()

	profile, err := s.stages.ExtractProfile(ctx, req.Transcript)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, profile)
}

// handleGenerateLogos generates a logo set for the submitted profile
func (s *Server) handleGenerateLogos(w http.ResponseWriter, r *http.Request) {
	var req GenerateLogosRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	if err := schemas.ValidateObject(schemas.BrandProfileSchema, req.CompanyData); err != nil {
		var schemaErr *schemas.ValidationError
		if errors.As(err, &schemaErr) {
			s.errorResponse(w, &pipeline.ValidationError{Field: "companyData", Message: schemaErr.Summary()})
			return
		}
		s.errorResponse(w, err)
		return
	}
	profile := types.FromExtracted(req.CompanyData)

	ctx, cancel := s.stageContext(r)
	defer cancel()

	set, err := s.stages.GenerateLogos(ctx, &profile)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, set)
}

// handleUploadTranscript reads a transcript from an uploaded JSON file
func (s *Server) handleUploadTranscript(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBodyBytes)
	if err := r.ParseMultipartForm(maxUploadBodyBytes); err != nil {
		s.errorResponse(w, &pipeline.ValidationError{Field: "file", Message: "invalid multipart upload: " + err.Error()})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.errorResponse(w, &pipeline.ValidationError{Field: "file", Message: "file is required"})
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		s.errorResponse(w, &pipeline.ValidationError{Field: "file", Message: "failed to read upload"})
		return
	}

	transcript, err := ingestion.ParseTranscriptFile(header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, TranscriptResponse{Transcript: transcript})
}

// handleEditProfile applies edits to a profile and returns the new snapshot
func (s *Server) handleEditProfile(w http.ResponseWriter, r *http.Request) {
	var req EditProfileRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	s.jsonResponse(w, http.StatusOK, types.ApplyEdits(*req.Profile, req.Edits))
}

// handlePackageLogo returns one logo as a downloadable SVG file
func (s *Server) handlePackageLogo(w http.ResponseWriter, r *http.Request) {
	var req PackageLogoRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	logo := *req.Logo
	if designType, ok := types.ParseDesignType(string(logo.DesignType)); ok {
		logo.DesignType = designType
	} else {
		s.errorResponse(w, &pipeline.ValidationError{Field: "logo.type", Message: fmt.Sprintf("unknown design type %q", logo.DesignType)})
		return
	}

	artifact, err := rendering.Package(logo, *req.Index)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	w.Header().Set("Content-Type", artifact.MIMEType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(artifact.Bytes); err != nil {
		s.logger.Warn("failed to write artifact", zap.Error(err))
	}
}

// decodeRequest decodes and validates a JSON body, writing a 400 on failure
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.errorResponse(w, &pipeline.ValidationError{Message: "invalid request body: " + err.Error()})
		return false
	}

	if err := s.validate.Struct(dst); err != nil {
		s.errorResponse(w, extractValidationErrors(err))
		return false
	}
	return true
}

// extractValidationErrors converts the first validator failure into a
// ValidationError naming the JSON field.
func extractValidationErrors(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		fe := validationErrors[0]
		field := lowerFirst(fe.Field())
		if fe.Tag() == "required" {
			return &pipeline.ValidationError{Field: field, Message: field + " is required"}
		}
		return &pipeline.ValidationError{Field: field, Message: fmt.Sprintf("%s failed %s", field, fe.Tag())}
	}
	return &pipeline.ValidationError{Message: "invalid request"}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("failed to encode JSON response", zap.Error(err))
	}
}

// errorResponse writes err with the status and kind of its taxonomy
func (s *Server) errorResponse(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError && errorKind(err) == string(pipeline.KindUnknown) {
		s.logger.Error("request failed", zap.Error(err))
	}
	s.jsonResponse(w, status, ErrorResponse{Error: err.Error(), Kind: errorKind(err)})
}
