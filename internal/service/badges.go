package service

import (
	"context"

	"lifeos/internal/content"
	"lifeos/internal/models"
)

const communicatorLessons = 5

// badgeContext carries facts about the triggering action that the profile
// alone does not record.
type badgeContext struct {
	acedDialogue bool
}

// EvaluateBadges grants every catalog badge whose condition the profile meets
// and returns the newly earned badge IDs.
func (s *Session) EvaluateBadges(ctx context.Context) ([]string, error) {
	return s.evaluateBadges(ctx, badgeContext{})
}

func (s *Session) evaluateBadges(ctx context.Context, bc badgeContext) ([]string, error) {
	if s.profile == nil {
		return nil, nil
	}

	var earned []string
	_, err := s.mutate(ctx, func(p *models.Profile) bool {
		for _, badge := range s.engine.catalog.Badges() {
			if p.HasBadge(badge.ID) || !s.engine.badgeEarned(p, badge.Condition, bc) {
				continue
			}
			p.Badges = append(p.Badges, badge.ID)
			earned = append(earned, badge.ID)
		}
		return len(earned) > 0
	})
	if err != nil {
		return nil, ignoreInactive(err)
	}
	for _, id := range earned {
		s.engine.log.Info("Badge earned", "username", s.profile.Username, "badge_id", id)
	}
	return earned, nil
}

func (e *Engine) badgeEarned(p *models.Profile, condition content.BadgeCondition, bc badgeContext) bool {
	switch condition {
	case content.ConditionFirstLesson:
		return len(p.CompletedLessons) >= 1
	case content.ConditionComm5:
		return e.completedInCategory(p, "communication") >= communicatorLessons
	case content.ConditionStreak7:
		return p.LongestStreak >= 7
	case content.ConditionStreak30:
		return p.LongestStreak >= 30
	case content.ConditionSavingsGoal:
		return len(p.SavingsGoals) >= 1
	case content.ConditionBudgetDone:
		lessons := e.catalog.LessonsByCategory("budget")
		return len(lessons) > 0 && e.completedInCategory(p, "budget") == len(lessons)
	case content.ConditionLevel10:
		return Level(p.XP) >= 10
	case content.ConditionNegotiateAced:
		return bc.acedDialogue
	}
	return false
}

func (e *Engine) completedInCategory(p *models.Profile, category string) int {
	n := 0
	for _, id := range p.CompletedLessons {
		if lesson, ok := e.catalog.Lesson(id); ok && lesson.Category == category {
			n++
		}
	}
	return n
}
