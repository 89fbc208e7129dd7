package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/logo-studio/internal/rendering"
	"github.com/jonathan/logo-studio/internal/schemas"
	"github.com/jonathan/logo-studio/internal/types"
)

// packager produces the artifact of the logo at index
type packager func(index int) (*rendering.Artifact, error)

// setPackager packages logos straight from a set
func setPackager(set *types.LogoSet) packager {
	return func(index int) (*rendering.Artifact, error) {
		logo, _ := set.At(index)
		return rendering.Package(logo, index)
	}
}

// writeArtifacts packages count logos and writes the files to outDir
// concurrently. It returns the written paths in set order.
func writeArtifacts(ctx context.Context, outDir string, count int, pkg packager) ([]string, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	paths := make([]string, count)
	g, gCtx := errgroup.WithContext(ctx)

	for i := range count {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}

			artifact, err := pkg(i)
			if err != nil {
				return err
			}

			path := filepath.Join(outDir, artifact.Filename)
			if err := os.WriteFile(path, artifact.Bytes, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			paths[i] = path
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

// writeJSON writes v as indented JSON to path, or to stdout when path is empty
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// readProfile reads a brand profile JSON file. Missing keys become empty
// values, matching how a model reply is read.
func readProfile(path string) (*types.BrandProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, fmt.Errorf("failed to parse profile JSON: %w", err)
	}
	if err := schemas.ValidateObject(schemas.BrandProfileSchema, obj); err != nil {
		return nil, fmt.Errorf("invalid profile %s: %w", path, err)
	}

	profile := types.FromExtracted(obj)
	return &profile, nil
}
