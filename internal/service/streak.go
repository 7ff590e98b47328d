package service

import (
	"context"
	"errors"
	"slices"

	"lifeos/internal/models"
)

// StreakTransition names the branch UpdateStreak took
type StreakTransition string

const (
	StreakSameDay     StreakTransition = "sameDay"
	StreakConsecutive StreakTransition = "consecutive"
	StreakFrozen      StreakTransition = "frozen"
	StreakBroken      StreakTransition = "broken"
	StreakInactive    StreakTransition = "inactive"
)

// UpdateStreak evaluates the daily streak. Repeated calls on the same calendar
// day are no-ops.
func (s *Session) UpdateStreak(ctx context.Context) (StreakTransition, error) {
	if !s.live(ctx) {
		return StreakInactive, nil
	}
	today, yesterday, _ := s.engine.calendar()
	habitIDs := s.engine.habitIDs()

	transition := StreakSameDay
	_, err := s.mutate(ctx, func(p *models.Profile) bool {
		transition = applyStreak(p, today, yesterday, habitIDs)
		return transition != StreakSameDay
	})
	if errors.Is(err, ErrNoActiveSession) {
		return StreakInactive, nil
	}
	if err != nil {
		return transition, err
	}
	if transition != StreakSameDay {
		s.engine.log.Info("Streak updated",
			"username", s.profile.Username,
			"transition", string(transition),
			"streak", s.profile.Streak,
			"freezes", s.profile.StreakFreezes,
		)
	}
	return transition, nil
}

// applyStreak moves p through the streak state machine. The first evaluation
// on a new day also archives yesterday's habit checks.
func applyStreak(p *models.Profile, today, yesterday string, habitIDs []string) StreakTransition {
	if p.LastActiveDate == today {
		return StreakSameDay
	}
	archiveHabits(p, habitIDs)

	var transition StreakTransition
	switch {
	case p.LastActiveDate == yesterday:
		p.Streak++
		transition = StreakConsecutive
	case p.StreakFreezes > 0:
		p.StreakFreezes--
		p.LastActiveDate = today
		return StreakFrozen
	default:
		p.Streak = 1
		p.WeeklyXP = [7]int{}
		transition = StreakBroken
	}

	p.LongestStreak = max(p.LongestStreak, p.Streak)
	p.LastActiveDate = today
	return transition
}

// archiveHabits appends the current day's checks to each habit's history,
// keeping the most recent models.HabitHistoryDays entries, then clears them.
func archiveHabits(p *models.Profile, habitIDs []string) {
	ids := append([]string(nil), habitIDs...)
	for id := range p.TodayHabits {
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	for _, id := range ids {
		history := append(p.Habits[id], p.TodayHabits[id])
		if len(history) > models.HabitHistoryDays {
			history = history[len(history)-models.HabitHistoryDays:]
		}
		p.Habits[id] = history
	}
	p.TodayHabits = map[string]bool{}
}
