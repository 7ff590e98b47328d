package service

import (
	"context"
	"fmt"
	"strings"

	"lifeos/internal/content"
	"lifeos/internal/models"
	"lifeos/internal/validation"
)

// Budget split shares
const (
	saveShare   = 0.5
	spendShare  = 0.3
	investShare = 0.2
)

const (
	assessmentXP    = 50
	assessmentCoins = 10
)

// AssessmentResult is the outcome of a skill test
type AssessmentResult struct {
	Overall    int
	Categories map[string]int
}

func (s *Session) SetAvatar(ctx context.Context, avatar string) error {
	if !s.live(ctx) {
		return ErrNoActiveSession
	}
	if err := validation.ValidateAvatar(avatar); err != nil {
		return err
	}
	avatar = strings.TrimSpace(avatar)
	_, err := s.mutate(ctx, func(p *models.Profile) bool {
		p.Avatar = avatar
		return true
	})
	return err
}

// SetBudget stores a 50/30/20 save/spend/invest split of the allowance
func (s *Session) SetBudget(ctx context.Context, allowance int) (models.Budget, error) {
	if !s.live(ctx) {
		return models.Budget{}, ErrNoActiveSession
	}
	if err := validation.ValidateAllowance(allowance); err != nil {
		return models.Budget{}, err
	}

	budget := SplitBudget(allowance)
	_, err := s.mutate(ctx, func(p *models.Profile) bool {
		b := budget
		p.Budget = &b
		return true
	})
	return budget, err
}

// SplitBudget divides an allowance 50/30/20, each share rounded
func SplitBudget(allowance int) models.Budget {
	return models.Budget{
		Allowance: allowance,
		Save:      roundShare(allowance, saveShare),
		Spend:     roundShare(allowance, spendShare),
		Invest:    roundShare(allowance, investShare),
		Fun:       0,
	}
}

func (s *Session) AddSavingsGoal(ctx context.Context, name string, target int) error {
	if !s.live(ctx) {
		return ErrNoActiveSession
	}
	if err := validation.ValidateSavingsGoal(name, target); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	_, err := s.mutate(ctx, func(p *models.Profile) bool {
		p.SavingsGoals = append(p.SavingsGoals, models.SavingsGoal{Name: name, Target: target})
		return true
	})
	return err
}

// AddToSavingsGoal adds amount to the goal at index, never past its target
func (s *Session) AddToSavingsGoal(ctx context.Context, index, amount int) (models.SavingsGoal, error) {
	if !s.live(ctx) {
		return models.SavingsGoal{}, ErrNoActiveSession
	}
	if err := validation.ValidateAmount(amount); err != nil {
		return models.SavingsGoal{}, err
	}
	if index < 0 || index >= len(s.profile.SavingsGoals) {
		return models.SavingsGoal{}, fmt.Errorf("savings goal %d: %w", index, ErrNotFound)
	}

	var goal models.SavingsGoal
	_, err := s.mutate(ctx, func(p *models.Profile) bool {
		g := &p.SavingsGoals[index]
		g.Saved = min(g.Saved+amount, g.Target)
		goal = *g
		return true
	})
	return goal, err
}

// RecordAssessment scores skill-test answers, keyed by question ID with the
// chosen option index, stores the result and awards the completion reward.
// Every question must be answered.
func (s *Session) RecordAssessment(ctx context.Context, answers map[string]int) (AssessmentResult, error) {
	if !s.live(ctx) {
		return AssessmentResult{}, ErrNoActiveSession
	}
	result, err := ScoreAssessment(s.engine.catalog.SkillTest(), answers)
	if err != nil {
		return AssessmentResult{}, err
	}

	_, _, weekday := s.engine.calendar()
	_, err = s.mutate(ctx, func(p *models.Profile) bool {
		overall := result.Overall
		p.AssessmentScore = &overall
		p.AssessmentResults = make(map[string]int, len(result.Categories))
		for category, pct := range result.Categories {
			p.AssessmentResults[category] = pct
		}
		p.XP += assessmentXP
		p.WeeklyXP[weekday] += assessmentXP
		p.Coins += assessmentCoins
		return true
	})
	if err != nil {
		return AssessmentResult{}, err
	}
	s.engine.log.Info("Assessment recorded", "username", s.profile.Username, "score", result.Overall)
	return result, nil
}

// ScoreAssessment computes the overall and per-category percentages of the
// maximum possible score.
func ScoreAssessment(questions []content.SkillQuestion, answers map[string]int) (AssessmentResult, error) {
	if len(questions) == 0 {
		return AssessmentResult{}, validation.ValidationError{Field: "answers", Message: "skill test has no questions"}
	}

	total := 0
	categoryTotals := map[string]int{}
	categoryCounts := map[string]int{}
	for _, q := range questions {
		choice, ok := answers[q.ID]
		if !ok {
			return AssessmentResult{}, validation.ValidationError{Field: "answers", Message: fmt.Sprintf("question %s is unanswered", q.ID)}
		}
		if choice < 0 || choice >= len(q.Options) {
			return AssessmentResult{}, validation.ValidationError{Field: "answers", Message: fmt.Sprintf("question %s has no option %d", q.ID, choice)}
		}
		score := q.Options[choice].Score
		total += score
		categoryTotals[q.Category] += score
		categoryCounts[q.Category]++
	}
	if len(answers) != len(questions) {
		return AssessmentResult{}, validation.ValidationError{Field: "answers", Message: "answers include unknown questions"}
	}

	result := AssessmentResult{
		Overall:    roundPercent(total, len(questions)*content.MaxSkillScore),
		Categories: make(map[string]int, len(categoryTotals)),
	}
	for category, sum := range categoryTotals {
		result.Categories[category] = roundPercent(sum, categoryCounts[category]*content.MaxSkillScore)
	}
	return result, nil
}

// Purchase buys a shop item. Streak freezes are stocked rather than listed as
// owned; other repeatable items are listed once per purchase.
func (s *Session) Purchase(ctx context.Context, itemID string) error {
	if !s.live(ctx) {
		return ErrNoActiveSession
	}
	item, ok := s.engine.catalog.ShopItem(itemID)
	if !ok {
		return fmt.Errorf("shop item %q: %w", itemID, ErrNotFound)
	}
	if !item.Repeatable && s.profile.Owns(item.ID) {
		return ErrAlreadyOwned
	}
	if s.profile.Coins < item.Cost {
		return ErrInsufficientCoins
	}

	_, err := s.mutate(ctx, func(p *models.Profile) bool {
		p.Coins -= item.Cost
		if item.ID == content.ItemStreakFreeze {
			p.StreakFreezes++
		} else {
			p.PurchasedItems = append(p.PurchasedItems, item.ID)
		}
		return true
	})
	if err != nil {
		return err
	}
	s.engine.log.Info("Item purchased", "username", s.profile.Username, "item_id", item.ID, "cost", item.Cost)
	return nil
}
