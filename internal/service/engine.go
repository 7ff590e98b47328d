package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"lifeos/internal/content"
	"lifeos/internal/logger"
	"lifeos/internal/models"
	"lifeos/internal/repository"
	"lifeos/internal/validation"
)

// Engine applies progression rules to profiles. It holds no session state;
// Login and Resume hand out a Session for the active profile.
type Engine struct {
	profiles *repository.ProfileRepository
	catalog  *content.Catalog
	log      *logger.Logger
	now      func() time.Time
	location *time.Location
}

type Option func(*Engine)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLocation sets the calendar used for day boundaries
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.location = loc
		}
	}
}

// NewEngine creates a new progression engine
func NewEngine(profiles *repository.ProfileRepository, catalog *content.Catalog, log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		profiles: profiles,
		catalog:  catalog,
		log:      log.With("service", "Engine"),
		now:      time.Now,
		location: time.Local,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Catalog() *content.Catalog {
	return e.catalog
}

// Login activates the profile with this exact username, creating it with
// default values on first use. The streak is evaluated on activation.
func (e *Engine) Login(ctx context.Context, username string) (*Session, error) {
	if err := validation.ValidateUsername(username); err != nil {
		return nil, err
	}
	username = validation.NormalizeUsername(username)

	now := e.now()
	p := e.profiles.GetProfile(ctx, username)
	created := p == nil
	if created {
		p = models.NewProfile(username, now.UTC(), e.dateKey(now))
		if err := e.profiles.SaveProfile(ctx, p); err != nil {
			return nil, err
		}
	}

	s := &Session{engine: e, id: uuid.NewString(), profile: p}
	if err := e.profiles.SetActive(ctx, repository.ActiveSession{
		Username:  username,
		SessionID: s.id,
		StartedAt: now.UTC(),
	}); err != nil {
		return nil, err
	}
	e.log.Info("Profile logged in", "username", username, "session_id", s.id, "created", created)

	if _, err := s.UpdateStreak(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Resume restores the session recorded by the last Login. It reports false
// when nobody is logged in or the active profile no longer exists.
func (e *Engine) Resume(ctx context.Context) (*Session, bool, error) {
	active := e.profiles.GetActive(ctx)
	if active == nil {
		return nil, false, nil
	}

	p := e.profiles.GetProfile(ctx, active.Username)
	if p == nil {
		e.log.Warn("Active profile missing, clearing session", "username", active.Username)
		if err := e.profiles.ClearActive(ctx); err != nil {
			return nil, false, err
		}
		return nil, false, nil
	}

	if active.SessionID == "" {
		active.SessionID = uuid.NewString()
		if err := e.profiles.SetActive(ctx, *active); err != nil {
			return nil, false, err
		}
	}
	s := &Session{engine: e, id: active.SessionID, profile: p}
	e.log.Info("Session resumed", "username", p.Username, "session_id", s.id)

	if _, err := s.UpdateStreak(ctx); err != nil {
		return nil, false, err
	}
	return s, true, nil
}

func (e *Engine) dateKey(t time.Time) string {
	return t.In(e.location).Format(time.DateOnly)
}

// calendar returns today's and yesterday's date keys and today's weekday index
func (e *Engine) calendar() (today, yesterday string, weekday int) {
	now := e.now().In(e.location)
	y, m, d := now.Date()
	prev := time.Date(y, m, d-1, 12, 0, 0, 0, e.location)
	return now.Format(time.DateOnly), prev.Format(time.DateOnly), int(now.Weekday())
}

// periodKey names the calendar period containing now: the date for daily
// quests, the Sunday starting the week for weekly ones, the month otherwise.
func (e *Engine) periodKey(period content.QuestPeriod) string {
	now := e.now().In(e.location)
	switch period {
	case content.Weekly:
		y, m, d := now.Date()
		start := time.Date(y, m, d-int(now.Weekday()), 12, 0, 0, 0, e.location)
		return "week-" + start.Format(time.DateOnly)
	case content.Monthly:
		return now.Format("2006-01")
	}
	return now.Format(time.DateOnly)
}

func (e *Engine) habitIDs() []string {
	habits := e.catalog.Habits()
	ids := make([]string, 0, len(habits))
	for _, h := range habits {
		ids = append(ids, h.ID)
	}
	return ids
}

func (e *Engine) lesson(id string) (content.Lesson, error) {
	lesson, ok := e.catalog.Lesson(id)
	if !ok {
		return content.Lesson{}, fmt.Errorf("lesson %q: %w", id, ErrNotFound)
	}
	return lesson, nil
}
