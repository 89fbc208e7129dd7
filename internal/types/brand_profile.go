// Package types provides type definitions for structured data used throughout the logo studio.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"strings"
)

// BrandProfile is the extracted, optionally user-edited description of a company.
// A profile is a snapshot: edits produce a new value and never mutate one
// that has been handed to logo generation.
type BrandProfile struct {
	CompanyName string   `json:"company_name"`
	Industry    string   `json:"industry"`
	Values      []string `json:"values"`
	Tone        string   `json:"tone"`
	Competitors []string `json:"competitors"`
	TargetUsers string   `json:"target_users"`
}

// ProfileEdits holds user revisions. A nil field leaves the current value in
// place; scalar fields overwrite verbatim, list fields replace the whole list.
type ProfileEdits struct {
	CompanyName *string   `json:"company_name,omitempty"`
	Industry    *string   `json:"industry,omitempty"`
	Values      *[]string `json:"values,omitempty"`
	Tone        *string   `json:"tone,omitempty"`
	Competitors *[]string `json:"competitors,omitempty"`
	TargetUsers *string   `json:"target_users,omitempty"`
}

// FromExtracted builds a profile from an object recovered from a model reply.
// Missing or mistyped keys yield empty values; it never fails.
func FromExtracted(obj map[string]any) BrandProfile {
	return BrandProfile{
		CompanyName: scalarField(obj["company_name"]),
		Industry:    scalarField(obj["industry"]),
		Values:      CleanList(listField(obj["values"])),
		Tone:        scalarField(obj["tone"]),
		Competitors: CleanList(listField(obj["competitors"])),
		TargetUsers: scalarField(obj["target_users"]),
	}
}

// ApplyEdits returns a new profile with edits applied. The input profile is
// not modified and the result shares no slices with it.
func ApplyEdits(p BrandProfile, e ProfileEdits) BrandProfile {
	out := p.Clone()

	if e.CompanyName != nil {
		out.CompanyName = *e.CompanyName
	}
	if e.Industry != nil {
		out.Industry = *e.Industry
	}
	if e.Tone != nil {
		out.Tone = *e.Tone
	}
	if e.TargetUsers != nil {
		out.TargetUsers = *e.TargetUsers
	}
	if e.Values != nil {
		out.Values = CleanList(*e.Values)
	}
	if e.Competitors != nil {
		out.Competitors = CleanList(*e.Competitors)
	}

	return out
}

// Clone returns a deep copy of the profile
func (p BrandProfile) Clone() BrandProfile {
	out := p
	out.Values = append([]string{}, p.Values...)
	out.Competitors = append([]string{}, p.Competitors...)
	return out
}

// IsEmpty reports whether no field carries any information
func (p BrandProfile) IsEmpty() bool {
	return p.CompanyName == "" && p.Industry == "" && p.Tone == "" && p.TargetUsers == "" &&
		len(p.Values) == 0 && len(p.Competitors) == 0
}

// CleanList trims every entry, drops blanks and exact duplicates, and keeps
// the order of first occurrence. The result is never nil.
func CleanList(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}

// AppendEntry returns a copy of list with entry added at the end
func AppendEntry(list []string, entry string) []string {
	out := make([]string, 0, len(list)+1)
	out = append(out, list...)
	return append(out, entry)
}

// RemoveEntry returns a copy of list without the entry at index.
// An out-of-range index returns an unchanged copy.
func RemoveEntry(list []string, index int) []string {
	out := make([]string, 0, len(list))
	for i, item := range list {
		if i != index {
			out = append(out, item)
		}
	}
	return out
}

func scalarField(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []any:
		return strings.Join(listField(t), ", ")
	case map[string]any:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

func listField(v any) []string {
	switch t := v.(type) {
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if _, nested := item.(map[string]any); nested {
				continue
			}
			out = append(out, scalarField(item))
		}
		return out
	case string:
		// a single value where a list was asked for
		return []string{t}
	default:
		return nil
	}
}
