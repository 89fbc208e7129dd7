package pipeline

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/logo-studio/internal/llm"
	"github.com/jonathan/logo-studio/internal/prompts"
	"github.com/jonathan/logo-studio/internal/types"
)

// ExtractProfile turns a transcript into a brand profile with exactly one
// model call. An empty transcript fails before any call is made.
func (p *Pipeline) ExtractProfile(ctx context.Context, transcript string) (*types.BrandProfile, error) {
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return nil, &ValidationError{Field: "transcript", Message: MsgEmptyTranscript}
	}

	var profile types.BrandProfile
	err := p.observe(ctx, StageExtract, func() error {
		raw, err := p.call(ctx, buildExtractionPrompt(transcript), llm.TierStandard)
		if err != nil {
			return err
		}

		obj, err := p.extractor.Extract(raw)
		if err != nil {
			return err
		}

		profile = types.FromExtracted(obj)
		if profile.IsEmpty() {
			p.logger.Warn("extracted profile is empty", zap.Int("transcript_chars", len(transcript)))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &profile, nil
}

func buildExtractionPrompt(transcript string) string {
	template := prompts.MustGet("branding.json", "extract-brand-profile")
	return prompts.Format(template, map[string]string{
		"Transcript": transcript,
	})
}
