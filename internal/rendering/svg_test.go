package rendering

import (
	"errors"
	"testing"

	"github.com/jonathan/logo-studio/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const circleSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100"><circle cx="50" cy="50" r="40" fill="#000000"/></svg>`

func TestPackage_FilenameAndMIME(t *testing.T) {
	set := types.LogoSet{Logos: []types.LogoRecord{
		{DesignType: types.DesignWordmark, Markup: circleSVG},
		{DesignType: types.DesignAbstract, Markup: circleSVG},
		{DesignType: types.DesignPictorial, Markup: circleSVG},
		{DesignType: types.DesignWordmark, Markup: circleSVG},
		{DesignType: types.DesignAbstract, Markup: circleSVG},
	}}

	artifact, err := Package(set.Logos[2], 2)
	require.NoError(t, err)
	assert.Equal(t, "logo-3-pictorial.svg", artifact.Filename)
	assert.Equal(t, "image/svg+xml", artifact.MIMEType)
	assert.Equal(t, []byte(circleSVG), artifact.Bytes)
}

func TestPackage_Reproducible(t *testing.T) {
	logo := types.LogoRecord{DesignType: types.DesignWordmark, Markup: circleSVG}

	first, err := Package(logo, 0)
	require.NoError(t, err)
	second, err := Package(logo, 0)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestPackage_UniqueWithinSet(t *testing.T) {
	logo := types.LogoRecord{DesignType: types.DesignWordmark, Markup: circleSVG}
	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		artifact, err := Package(logo, i)
		require.NoError(t, err)
		assert.False(t, seen[artifact.Filename], artifact.Filename)
		seen[artifact.Filename] = true
	}
}

func TestPackage_Errors(t *testing.T) {
	tests := []struct {
		name  string
		logo  types.LogoRecord
		index int
	}{
		{name: "negative index", logo: types.LogoRecord{DesignType: types.DesignWordmark, Markup: circleSVG}, index: -1},
		{name: "missing type", logo: types.LogoRecord{Markup: circleSVG}},
		{name: "broken markup", logo: types.LogoRecord{DesignType: types.DesignAbstract, Markup: "<svg><g></svg>"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Package(tt.logo, tt.index)
			var pkgErr *PackageError
			require.True(t, errors.As(err, &pkgErr))
			assert.Equal(t, tt.index, pkgErr.Index)
		})
	}
}

func TestValidateMarkup(t *testing.T) {
	tests := []struct {
		name    string
		markup  string
		wantErr bool
	}{
		{name: "simple", markup: circleSVG},
		{name: "xml declaration and comment", markup: `<?xml version="1.0"?><!-- logo --><svg><rect width="10" height="10"/></svg>`},
		{name: "self closing root", markup: `<svg/>`},
		{name: "html entity", markup: `<svg><text>A&nbsp;B</text></svg>`},
		{name: "surrounding whitespace", markup: "\n  <svg></svg>\n"},
		{name: "empty", markup: "   ", wantErr: true},
		{name: "unclosed element", markup: `<svg><g></svg>`, wantErr: true},
		{name: "wrong root", markup: `<div><svg/></div>`, wantErr: true},
		{name: "two roots", markup: `<svg/><svg/>`, wantErr: true},
		{name: "stray text", markup: `here: <svg/>`, wantErr: true},
		{name: "plain text", markup: `no markup`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMarkup(tt.markup)
			if tt.wantErr {
				var markupErr *MarkupError
				assert.True(t, errors.As(err, &markupErr))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
