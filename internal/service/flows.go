package service

import (
	"context"
	"fmt"

	"lifeos/internal/content"
	"lifeos/internal/dialogue"
	"lifeos/internal/models"
	"lifeos/internal/validation"
)

const (
	scenarioXP    = 25
	scenarioCoins = 5
)

// LessonOutcome reports what finishing a lesson earned
type LessonOutcome struct {
	Granted   bool
	XP        int
	Coins     int
	NewBadges []string
}

// ScenarioOutcome reports what finishing a dialogue earned
type ScenarioOutcome struct {
	Confidence int
	XP         int
	Coins      int
	NewBadges  []string
}

// FinishLesson credits a catalog lesson and evaluates badges. Replaying a
// completed lesson earns nothing.
func (s *Session) FinishLesson(ctx context.Context, lessonID string) (LessonOutcome, error) {
	if !s.live(ctx) {
		return LessonOutcome{}, ErrNoActiveSession
	}
	lesson, err := s.engine.lesson(lessonID)
	if err != nil {
		return LessonOutcome{}, err
	}

	granted, err := s.CompleteLesson(ctx, lesson.ID, lesson.XP, lesson.Coins)
	if err != nil {
		return LessonOutcome{}, err
	}
	if !granted {
		return LessonOutcome{}, nil
	}

	badges, err := s.EvaluateBadges(ctx)
	if err != nil {
		return LessonOutcome{}, err
	}
	return LessonOutcome{Granted: true, XP: lesson.XP, Coins: lesson.Coins, NewBadges: badges}, nil
}

// StartScenario returns a walker for a catalog scenario
func (s *Session) StartScenario(scenarioID string) (*dialogue.Walker, error) {
	scenario, ok := s.engine.catalog.Scenario(scenarioID)
	if !ok {
		return nil, fmt.Errorf("scenario %q: %w", scenarioID, ErrNotFound)
	}
	return dialogue.NewWalker(scenario)
}

// FinishScenario awards the dialogue reward for a finished walk. A walk with
// full confidence can earn the negotiator badge.
func (s *Session) FinishScenario(ctx context.Context, result dialogue.Result) (ScenarioOutcome, error) {
	if !s.live(ctx) {
		return ScenarioOutcome{}, ErrNoActiveSession
	}
	if !result.Finished {
		return ScenarioOutcome{}, validation.ValidationError{Field: "result", Message: "dialogue is not finished"}
	}

	_, _, weekday := s.engine.calendar()
	if _, err := s.mutate(ctx, func(p *models.Profile) bool {
		p.XP += scenarioXP
		p.WeeklyXP[weekday] += scenarioXP
		p.Coins += scenarioCoins
		return true
	}); err != nil {
		return ScenarioOutcome{}, err
	}
	s.engine.log.Info("Scenario finished",
		"username", s.profile.Username,
		"scenario_id", result.ScenarioID,
		"confidence", result.Confidence,
	)

	badges, err := s.evaluateBadges(ctx, badgeContext{acedDialogue: result.Confidence == 100})
	if err != nil {
		return ScenarioOutcome{}, err
	}
	return ScenarioOutcome{
		Confidence: result.Confidence,
		XP:         scenarioXP,
		Coins:      scenarioCoins,
		NewBadges:  badges,
	}, nil
}

// ClaimQuest grants a quest's fixed reward once per quest period. Quests with
// a measure are checked against the profile; completion of the others is
// decided by the caller.
func (s *Session) ClaimQuest(ctx context.Context, questID string) (content.Reward, error) {
	if !s.live(ctx) {
		return content.Reward{}, ErrNoActiveSession
	}
	quest, ok := s.engine.catalog.Quest(questID)
	if !ok {
		return content.Reward{}, fmt.Errorf("quest %q: %w", questID, ErrNotFound)
	}

	period := s.engine.periodKey(quest.Period)
	if s.profile.ClaimedQuests[quest.ID] == period {
		return content.Reward{}, ErrAlreadyClaimed
	}
	if progress, measured := s.engine.questProgress(s.profile, quest); measured && progress < quest.Target {
		return content.Reward{}, fmt.Errorf("quest %q at %d of %d: %w", quest.ID, progress, quest.Target, ErrQuestIncomplete)
	}

	_, _, weekday := s.engine.calendar()
	if _, err := s.mutate(ctx, func(p *models.Profile) bool {
		p.XP += quest.Reward.XP
		p.WeeklyXP[weekday] += quest.Reward.XP
		p.Coins += quest.Reward.Coins
		p.ClaimedQuests[quest.ID] = period
		return true
	}); err != nil {
		return content.Reward{}, err
	}
	s.engine.log.Info("Quest claimed", "username", s.profile.Username, "quest_id", quest.ID, "period", period)
	return quest.Reward, nil
}

// questProgress measures a quest against the profile. It reports false for
// quests the profile cannot measure.
func (e *Engine) questProgress(p *models.Profile, quest content.Quest) (int, bool) {
	switch quest.Measure {
	case content.MeasureHabitsToday:
		done := 0
		for _, id := range e.habitIDs() {
			if p.TodayHabits[id] {
				done++
			}
		}
		return done, true
	case content.MeasureWeeklyXP:
		total := 0
		for _, xp := range p.WeeklyXP {
			total += xp
		}
		return total, true
	}
	return 0, false
}
