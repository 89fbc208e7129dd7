package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/logo-studio/internal/llm"
	"github.com/jonathan/logo-studio/internal/prompts"
	"github.com/jonathan/logo-studio/internal/rendering"
	"github.com/jonathan/logo-studio/internal/schemas"
	"github.com/jonathan/logo-studio/internal/types"
)

// GenerateLogos asks the model for logo designs for profile. The profile is
// copied before use, so later edits by the caller cannot reach the request.
func (p *Pipeline) GenerateLogos(ctx context.Context, profile *types.BrandProfile) (*types.LogoSet, error) {
	if profile == nil {
		return nil, &ValidationError{Field: "profile", Message: MsgMissingProfile}
	}
	snapshot := profile.Clone()

	var set *types.LogoSet
	err := p.observe(ctx, StageGenerate, func() error {
		prompt, err := p.buildLogoPrompt(snapshot)
		if err != nil {
			return err
		}

		raw, err := p.call(ctx, prompt, llm.TierAdvanced)
		if err != nil {
			return err
		}

		obj, err := p.extractor.Extract(raw)
		if err != nil {
			return err
		}

		set, err = decodeLogoSet(obj)
		return err
	})
	if err != nil {
		return nil, err
	}

	return set, nil
}

func (p *Pipeline) buildLogoPrompt(profile types.BrandProfile) (string, error) {
	companyData, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode profile: %w", err)
	}

	template := prompts.MustGet("branding.json", "generate-logos")
	return prompts.Format(template, map[string]string{
		"CompanyData": string(companyData),
		"LogoCount":   strconv.Itoa(p.logoCount),
	}), nil
}

// decodeLogoSet checks the reply shape and the markup of every record.
// A well-formed reply with no records is a ValidationError.
func decodeLogoSet(obj map[string]any) (*types.LogoSet, error) {
	if err := schemas.ValidateObject(schemas.LogoSetSchema, obj); err != nil {
		return nil, &llm.ExtractionError{Message: llm.MsgMalformedObject, Cause: err}
	}

	items, _ := obj["logos"].([]any)
	if len(items) == 0 {
		return nil, &ValidationError{Field: "logos", Message: MsgEmptyLogoSet}
	}

	set := &types.LogoSet{Logos: make([]types.LogoRecord, 0, len(items))}
	for i, item := range items {
		fields, _ := item.(map[string]any)
		typeName, _ := fields["type"].(string)
		markup, _ := fields["svg"].(string)
		rationale, _ := fields["rationale"].(string)

		designType, ok := types.ParseDesignType(typeName)
		if !ok {
			return nil, &llm.ExtractionError{
				Message: llm.MsgMalformedObject,
				Cause:   fmt.Errorf("logos[%d]: unknown design type %q", i, typeName),
			}
		}

		markup = strings.TrimSpace(markup)
		if err := rendering.ValidateMarkup(markup); err != nil {
			return nil, &llm.ExtractionError{
				Message: llm.MsgMalformedObject,
				Cause:   fmt.Errorf("logos[%d].svg: %w", i, err),
			}
		}

		set.Logos = append(set.Logos, types.LogoRecord{
			DesignType: designType,
			Markup:     markup,
			Rationale:  rationale,
		})
	}

	return set, nil
}
