package rendering

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/logo-studio/internal/types"
)

// SVGMIMEType is the MIME type of packaged logo files
const SVGMIMEType = "image/svg+xml"

// Artifact is an in-memory downloadable file
type Artifact struct {
	Filename string
	MIMEType string
	Bytes    []byte
}

// Filename returns the download name of the logo at the 0-based index.
// It is stable for a given set: logo-{index+1}-{design_type}.svg
func Filename(logo types.LogoRecord, index int) string {
	return fmt.Sprintf("logo-%d-%s.svg", index+1, logo.DesignType)
}

// Package converts a logo record into a downloadable SVG artifact.
// It has no side effects beyond allocating the returned bytes.
func Package(logo types.LogoRecord, index int) (*Artifact, error) {
	if index < 0 {
		return nil, &PackageError{Index: index, Message: "index must not be negative"}
	}
	if logo.DesignType == "" {
		return nil, &PackageError{Index: index, Message: "design type is required"}
	}
	if err := ValidateMarkup(logo.Markup); err != nil {
		return nil, &PackageError{Index: index, Message: "invalid markup", Cause: err}
	}

	return &Artifact{
		Filename: Filename(logo, index),
		MIMEType: SVGMIMEType,
		Bytes:    []byte(logo.Markup),
	}, nil
}

// ValidateMarkup checks that markup is well-formed XML whose root element is
// svg. It says nothing about how the image looks.
func ValidateMarkup(markup string) error {
	if strings.TrimSpace(markup) == "" {
		return &MarkupError{Message: "markup is empty"}
	}

	dec := xml.NewDecoder(strings.NewReader(markup))
	dec.Strict = true
	// SVG from models routinely uses HTML entities such as &nbsp;
	dec.Entity = xml.HTMLEntity

	depth := 0
	roots := 0
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return &MarkupError{Message: "not well-formed", Cause: err}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if depth == 0 {
				roots++
				if roots > 1 {
					return &MarkupError{Message: "more than one root element"}
				}
				if !strings.EqualFold(t.Name.Local, "svg") {
					return &MarkupError{Message: fmt.Sprintf("root element is <%s>, want <svg>", t.Name.Local)}
				}
			}
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			if depth == 0 && strings.TrimSpace(string(t)) != "" {
				return &MarkupError{Message: "text outside the root element"}
			}
		}
	}

	if roots == 0 {
		return &MarkupError{Message: "no svg element"}
	}
	return nil
}
