package content

import (
	"errors"
	"fmt"
)

func (c *Catalog) validate() error {
	var errs []error

	categories := make(map[string]bool, len(c.categories))
	for _, cat := range c.categories {
		categories[cat.ID] = true
	}

	errs = append(errs, uniqueIDs("category", c.categories, func(v Category) string { return v.ID })...)
	errs = append(errs, uniqueIDs("lesson", c.lessons, func(v Lesson) string { return v.ID })...)
	errs = append(errs, uniqueIDs("skill question", c.skillTest, func(v SkillQuestion) string { return v.ID })...)
	errs = append(errs, uniqueIDs("badge", c.badges, func(v Badge) string { return v.ID })...)
	errs = append(errs, uniqueIDs("quest", c.quests, func(v Quest) string { return v.ID })...)
	errs = append(errs, uniqueIDs("habit", c.habits, func(v Habit) string { return v.ID })...)
	errs = append(errs, uniqueIDs("shop item", c.shopItems, func(v ShopItem) string { return v.ID })...)
	errs = append(errs, uniqueIDs("scenario", c.scenarios, func(v Scenario) string { return v.ID })...)

	for _, l := range c.lessons {
		if !categories[l.Category] {
			errs = append(errs, fmt.Errorf("lesson %q: unknown category %q", l.ID, l.Category))
		}
		if !l.Difficulty.Valid() {
			errs = append(errs, fmt.Errorf("lesson %q: unknown difficulty %q", l.ID, l.Difficulty))
		}
		if l.XP < 0 || l.Coins < 0 {
			errs = append(errs, fmt.Errorf("lesson %q: negative reward", l.ID))
		}
		if len(l.Steps) == 0 {
			errs = append(errs, fmt.Errorf("lesson %q: no steps", l.ID))
		}
		for i, step := range l.Steps {
			quiz, ok := step.(QuizStep)
			if !ok {
				continue
			}
			correct := 0
			for _, opt := range quiz.Options {
				if opt.Correct {
					correct++
				}
			}
			if correct != 1 {
				errs = append(errs, fmt.Errorf("lesson %q step %d: quiz has %d correct options, want 1", l.ID, i, correct))
			}
		}
	}

	for _, q := range c.skillTest {
		if !categories[q.Category] {
			errs = append(errs, fmt.Errorf("skill question %q: unknown category %q", q.ID, q.Category))
		}
		if len(q.Options) == 0 {
			errs = append(errs, fmt.Errorf("skill question %q: no options", q.ID))
		}
		for _, opt := range q.Options {
			if opt.Score < 1 || opt.Score > MaxSkillScore {
				errs = append(errs, fmt.Errorf("skill question %q: score %d out of range 1-%d", q.ID, opt.Score, MaxSkillScore))
			}
		}
	}

	for _, b := range c.badges {
		if !b.Condition.Valid() {
			errs = append(errs, fmt.Errorf("badge %q: unknown condition %q", b.ID, b.Condition))
		}
	}

	for _, q := range c.quests {
		if !q.Period.Valid() {
			errs = append(errs, fmt.Errorf("quest %q: unknown period %q", q.ID, q.Period))
		}
		if q.Target <= 0 {
			errs = append(errs, fmt.Errorf("quest %q: target must be positive", q.ID))
		}
		if !q.Measure.Valid() {
			errs = append(errs, fmt.Errorf("quest %q: unknown measure %q", q.ID, q.Measure))
		}
	}

	for _, item := range c.shopItems {
		if item.Cost <= 0 {
			errs = append(errs, fmt.Errorf("shop item %q: cost must be positive", item.ID))
		}
	}

	for _, s := range c.scenarios {
		if len(s.Nodes) == 0 {
			errs = append(errs, fmt.Errorf("scenario %q: no nodes", s.ID))
		}
		for i, node := range s.Nodes {
			prompt, ok := node.(PromptNode)
			if !ok {
				continue
			}
			for j, choice := range prompt.Choices {
				if choice.Next < 0 || choice.Next > len(s.Nodes) {
					errs = append(errs, fmt.Errorf("scenario %q node %d choice %d: next %d out of range", s.ID, i, j, choice.Next))
				}
			}
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid catalog: %w", err)
	}
	return nil
}

func uniqueIDs[T any](kind string, items []T, id func(T) string) []error {
	var errs []error
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		key := id(item)
		if key == "" {
			errs = append(errs, fmt.Errorf("%s with empty id", kind))
			continue
		}
		if seen[key] {
			errs = append(errs, fmt.Errorf("duplicate %s id %q", kind, key))
		}
		seen[key] = true
	}
	return errs
}
