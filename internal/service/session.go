package service

import (
	"context"
	"errors"

	"lifeos/internal/models"
)

// Session is the handle for one logged-in profile. It ends on Logout or when
// a newer Login takes over the active-session pointer; after that every
// operation on it is a no-op.
type Session struct {
	engine  *Engine
	id      string
	profile *models.Profile
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Active() bool {
	return s.profile != nil
}

// Profile returns a copy of the active profile
func (s *Session) Profile() (*models.Profile, bool) {
	if s.profile == nil {
		return nil, false
	}
	return s.profile.Clone(), true
}

func (s *Session) Level() int {
	if s.profile == nil {
		return 0
	}
	return Level(s.profile.XP)
}

func (s *Session) Progress() LevelProgress {
	if s.profile == nil {
		return LevelProgress{}
	}
	return Progress(s.profile.XP)
}

// Logout ends the session. The persisted profile is kept so a later Login
// with the same username restores it.
func (s *Session) Logout(ctx context.Context) error {
	if s.profile == nil {
		return nil
	}
	username := s.profile.Username

	// a newer login owns the pointer; leave it alone
	if active := s.engine.profiles.GetActive(ctx); active != nil && active.SessionID == s.id {
		if err := s.engine.profiles.ClearActive(ctx); err != nil {
			return err
		}
	}
	s.profile = nil
	s.engine.log.Info("Profile logged out", "username", username, "session_id", s.id)
	return nil
}

// live reports whether the session still owns the active-session pointer.
// A session that lost it is ended.
func (s *Session) live(ctx context.Context) bool {
	if s.profile == nil {
		return false
	}
	if active := s.engine.profiles.GetActive(ctx); active == nil || active.SessionID != s.id {
		s.engine.log.Info("Session superseded", "username", s.profile.Username, "session_id", s.id)
		s.profile = nil
		return false
	}
	return true
}

// mutate applies fn to a copy of the profile and persists it when fn reports
// a change. The in-memory profile only changes once the write succeeds.
// It returns ErrNoActiveSession when the session has ended.
func (s *Session) mutate(ctx context.Context, fn func(p *models.Profile) bool) (bool, error) {
	if !s.live(ctx) {
		return false, ErrNoActiveSession
	}
	next := s.profile.Clone()
	if !fn(next) {
		return false, nil
	}
	if err := s.engine.profiles.SaveProfile(ctx, next); err != nil {
		return false, err
	}
	s.profile = next
	return true, nil
}

// ignoreInactive turns an ended session into a silent no-op
func ignoreInactive(err error) error {
	if errors.Is(err, ErrNoActiveSession) {
		return nil
	}
	return err
}

// AddXP adds amount to total XP and to today's weekly slot
func (s *Session) AddXP(ctx context.Context, amount int) error {
	_, _, weekday := s.engine.calendar()
	_, err := s.mutate(ctx, func(p *models.Profile) bool {
		p.XP += amount
		p.WeeklyXP[weekday] += amount
		return true
	})
	return ignoreInactive(err)
}

func (s *Session) AddCoins(ctx context.Context, amount int) error {
	_, err := s.mutate(ctx, func(p *models.Profile) bool {
		p.Coins += amount
		return true
	})
	return ignoreInactive(err)
}

// SpendCoins deducts amount if the balance covers it. It reports false and
// leaves the profile unchanged otherwise.
func (s *Session) SpendCoins(ctx context.Context, amount int) (bool, error) {
	spent, err := s.mutate(ctx, func(p *models.Profile) bool {
		if p.Coins < amount {
			return false
		}
		p.Coins -= amount
		return true
	})
	return spent, ignoreInactive(err)
}

// CompleteLesson credits a lesson once per profile. It reports whether the
// rewards were granted.
func (s *Session) CompleteLesson(ctx context.Context, lessonID string, xp, coins int) (bool, error) {
	_, _, weekday := s.engine.calendar()
	granted, err := s.mutate(ctx, func(p *models.Profile) bool {
		if p.HasCompleted(lessonID) {
			return false
		}
		p.XP += xp
		p.WeeklyXP[weekday] += xp
		p.Coins += coins
		p.CompletedLessons = append(p.CompletedLessons, lessonID)
		return true
	})
	if granted {
		s.engine.log.Debug("Lesson completed", "username", s.profile.Username, "lesson_id", lessonID, "xp", xp, "coins", coins)
	}
	return granted, ignoreInactive(err)
}

// ToggleHabit flips today's check for a habit and returns the new value
func (s *Session) ToggleHabit(ctx context.Context, habitID string) (bool, error) {
	var checked bool
	_, err := s.mutate(ctx, func(p *models.Profile) bool {
		checked = !p.TodayHabits[habitID]
		p.TodayHabits[habitID] = checked
		return true
	})
	return checked, ignoreInactive(err)
}

// AddBadge grants a badge once. It reports whether the badge was new.
func (s *Session) AddBadge(ctx context.Context, badgeID string) (bool, error) {
	granted, err := s.mutate(ctx, func(p *models.Profile) bool {
		if p.HasBadge(badgeID) {
			return false
		}
		p.Badges = append(p.Badges, badgeID)
		return true
	})
	if granted {
		s.engine.log.Info("Badge earned", "username", s.profile.Username, "badge_id", badgeID)
	}
	return granted, ignoreInactive(err)
}
