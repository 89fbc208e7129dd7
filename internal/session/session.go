// Package session holds the state of one interactive run: the current brand
// profile snapshot and the logo set generated from it.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/logo-studio/internal/pipeline"
	"github.com/jonathan/logo-studio/internal/rendering"
	"github.com/jonathan/logo-studio/internal/types"
)

// ErrSuperseded is returned by a stage call whose result arrived after a
// newer call of the same stage had already been committed. The result is
// discarded and state is left alone.
var ErrSuperseded = errors.New("superseded by a newer request")

// Stages runs the two model-backed stages
type Stages interface {
	ExtractProfile(ctx context.Context, transcript string) (*types.BrandProfile, error)
	GenerateLogos(ctx context.Context, profile *types.BrandProfile) (*types.LogoSet, error)
}

// stageClock orders calls of one stage. Tickets are issued at call time and
// a result commits only when its ticket is newer than the last commit.
type stageClock struct {
	issued    uint64
	committed uint64
	inFlight  int
}

func (c *stageClock) begin() uint64 {
	c.issued++
	c.inFlight++
	return c.issued
}

// end closes a call. A failed call commits nothing, as if it never ran.
func (c *stageClock) end(ticket uint64, failed bool) bool {
	c.inFlight--
	if failed || ticket <= c.committed {
		return false
	}
	c.committed = ticket
	return true
}

// invalidate makes every ticket issued so far stale
func (c *stageClock) invalidate() {
	c.committed = c.issued
}

// Status is a point-in-time view of a session
type Status struct {
	ID              string              `json:"id"`
	Profile         *types.BrandProfile `json:"profile,omitempty"`
	Logos           *types.LogoSet      `json:"logos,omitempty"`
	Extracting      bool                `json:"extracting"`
	GeneratingLogos bool                `json:"generating_logos"`
}

// Session owns the most recent successful profile and logo set. All methods
// are safe for concurrent use; stage calls run without holding the lock.
type Session struct {
	ID string

	stages Stages
	logger *zap.Logger

	mu       sync.Mutex
	profile  *types.BrandProfile
	logos    *types.LogoSet
	extract  stageClock
	generate stageClock
}

// New creates an empty session
func New(stages Stages, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	id := uuid.NewString()
	return &Session{
		ID:     id,
		stages: stages,
		logger: logger.With(zap.String("session_id", id)),
	}
}

// Extract runs extraction on transcript. On success the profile is replaced
// and the logo set, which described the old profile, is discarded along with
// any generation still in flight.
func (s *Session) Extract(ctx context.Context, transcript string) (*types.BrandProfile, error) {
	s.mu.Lock()
	ticket := s.extract.begin()
	s.mu.Unlock()

	profile, err := s.stages.ExtractProfile(ctx, transcript)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.extract.end(ticket, true)
		return nil, err
	}
	if !s.extract.end(ticket, false) {
		s.logger.Debug("extraction result superseded", zap.Uint64("ticket", ticket))
		return nil, ErrSuperseded
	}

	s.profile = profile
	s.logos = nil
	s.generate.invalidate()
	return cloneProfile(profile), nil
}

// GenerateLogos generates logos for the profile current at call time. Edits
// made while the call is outstanding do not affect it.
func (s *Session) GenerateLogos(ctx context.Context) (*types.LogoSet, error) {
	s.mu.Lock()
	if s.profile == nil {
		s.mu.Unlock()
		return nil, &pipeline.ValidationError{Field: "profile", Message: pipeline.MsgMissingProfile}
	}
	snapshot := s.profile.Clone()
	ticket := s.generate.begin()
	s.mu.Unlock()

	set, err := s.stages.GenerateLogos(ctx, &snapshot)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.generate.end(ticket, true)
		return nil, err
	}
	if !s.generate.end(ticket, false) {
		s.logger.Debug("logo generation result superseded", zap.Uint64("ticket", ticket))
		return nil, ErrSuperseded
	}

	s.logos = set
	return cloneLogoSet(set), nil
}

// EditProfile replaces the current profile with a copy that has edits
// applied. The logo set is kept; it was generated from an earlier snapshot.
func (s *Session) EditProfile(edits types.ProfileEdits) (*types.BrandProfile, error) {
	return s.update(func(p types.BrandProfile) types.BrandProfile {
		return types.ApplyEdits(p, edits)
	})
}

// AppendValue adds an entry to the values list
func (s *Session) AppendValue(value string) (*types.BrandProfile, error) {
	return s.update(func(p types.BrandProfile) types.BrandProfile {
		values := types.AppendEntry(p.Values, value)
		return types.ApplyEdits(p, types.ProfileEdits{Values: &values})
	})
}

// RemoveValue drops the values entry at index
func (s *Session) RemoveValue(index int) (*types.BrandProfile, error) {
	return s.update(func(p types.BrandProfile) types.BrandProfile {
		values := types.RemoveEntry(p.Values, index)
		return types.ApplyEdits(p, types.ProfileEdits{Values: &values})
	})
}

// AppendCompetitor adds an entry to the competitors list
func (s *Session) AppendCompetitor(name string) (*types.BrandProfile, error) {
	return s.update(func(p types.BrandProfile) types.BrandProfile {
		competitors := types.AppendEntry(p.Competitors, name)
		return types.ApplyEdits(p, types.ProfileEdits{Competitors: &competitors})
	})
}

// RemoveCompetitor drops the competitors entry at index
func (s *Session) RemoveCompetitor(index int) (*types.BrandProfile, error) {
	return s.update(func(p types.BrandProfile) types.BrandProfile {
		competitors := types.RemoveEntry(p.Competitors, index)
		return types.ApplyEdits(p, types.ProfileEdits{Competitors: &competitors})
	})
}

// Download packages the logo at index of the current set
func (s *Session) Download(index int) (*rendering.Artifact, error) {
	s.mu.Lock()
	logo, ok := s.logos.At(index)
	size := s.logos.Len()
	s.mu.Unlock()

	if size == 0 {
		return nil, &pipeline.ValidationError{Field: "logos", Message: "no logo set"}
	}
	if !ok {
		return nil, &pipeline.ValidationError{
			Field:   "index",
			Message: fmt.Sprintf("index %d out of range [0, %d)", index, size),
		}
	}
	return rendering.Package(logo, index)
}

// Profile returns a copy of the current profile, or nil
func (s *Session) Profile() *types.BrandProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneProfile(s.profile)
}

// Logos returns a copy of the current logo set, or nil
func (s *Session) Logos() *types.LogoSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneLogoSet(s.logos)
}

// Status reports the committed state and which stages are running
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		ID:              s.ID,
		Profile:         cloneProfile(s.profile),
		Logos:           cloneLogoSet(s.logos),
		Extracting:      s.extract.inFlight > 0,
		GeneratingLogos: s.generate.inFlight > 0,
	}
}

func (s *Session) update(fn func(types.BrandProfile) types.BrandProfile) (*types.BrandProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.profile == nil {
		return nil, &pipeline.ValidationError{Field: "profile", Message: pipeline.MsgMissingProfile}
	}

	next := fn(*s.profile)
	s.profile = &next
	return cloneProfile(s.profile), nil
}

func cloneProfile(p *types.BrandProfile) *types.BrandProfile {
	if p == nil {
		return nil
	}
	c := p.Clone()
	return &c
}

func cloneLogoSet(set *types.LogoSet) *types.LogoSet {
	if set == nil {
		return nil
	}
	return &types.LogoSet{Logos: append([]types.LogoRecord{}, set.Logos...)}
}
