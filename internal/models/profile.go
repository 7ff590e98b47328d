package models

import (
	"maps"
	"slices"
	"time"
)

// DefaultAvatar is given to every new profile
const DefaultAvatar = "😎"

// HabitHistoryDays is how many evaluated days of habit history are kept per habit
const HabitHistoryDays = 7

// Profile is the learner's persisted progression state
type Profile struct {
	Username          string            `json:"username"`
	Avatar            string            `json:"avatar"`
	XP                int               `json:"xp"`
	Coins             int               `json:"coins"`
	Streak            int               `json:"streak"`
	LongestStreak     int               `json:"longestStreak"`
	LastActiveDate    string            `json:"lastActiveDate"`
	StreakFreezes     int               `json:"streakFreezes"`
	CompletedLessons  []string          `json:"completedLessons"`
	Badges            []string          `json:"badges"`
	Habits            map[string][]bool `json:"habits"`
	TodayHabits       map[string]bool   `json:"todayHabits"`
	WeeklyXP          [7]int            `json:"weeklyXP"`
	AssessmentScore   *int              `json:"assessmentScore"`
	AssessmentResults map[string]int    `json:"assessmentResults"`
	SavingsGoals      []SavingsGoal     `json:"savingsGoals"`
	Budget            *Budget           `json:"budget"`
	PurchasedItems    []string          `json:"purchasedItems"`
	ClaimedQuests     map[string]string `json:"claimedQuests"`
	CreatedAt         time.Time         `json:"createdAt"`
}

// Budget is a 50/30/20 split of a weekly allowance
type Budget struct {
	Allowance int `json:"allowance"`
	Spend     int `json:"spend"`
	Save      int `json:"save"`
	Invest    int `json:"invest"`
	Fun       int `json:"fun"`
}

// SavingsGoal tracks progress toward a purchase. Saved never exceeds Target.
type SavingsGoal struct {
	Name   string `json:"name"`
	Target int    `json:"target"`
	Saved  int    `json:"saved"`
}

// Percent returns how much of the goal has been saved, 0-100
func (g SavingsGoal) Percent() int {
	if g.Target <= 0 {
		return 0
	}
	return min(100, g.Saved*100/g.Target)
}

// NewProfile creates a profile with default values, active as of today
func NewProfile(username string, createdAt time.Time, today string) *Profile {
	p := &Profile{
		Username:       username,
		Avatar:         DefaultAvatar,
		LastActiveDate: today,
		CreatedAt:      createdAt,
	}
	p.Normalize()
	return p
}

// Normalize replaces nil collections with empty ones. Records written by
// older versions may lack fields.
func (p *Profile) Normalize() {
	if p.Avatar == "" {
		p.Avatar = DefaultAvatar
	}
	if p.CompletedLessons == nil {
		p.CompletedLessons = []string{}
	}
	if p.Badges == nil {
		p.Badges = []string{}
	}
	if p.Habits == nil {
		p.Habits = map[string][]bool{}
	}
	if p.TodayHabits == nil {
		p.TodayHabits = map[string]bool{}
	}
	if p.SavingsGoals == nil {
		p.SavingsGoals = []SavingsGoal{}
	}
	if p.PurchasedItems == nil {
		p.PurchasedItems = []string{}
	}
	if p.ClaimedQuests == nil {
		p.ClaimedQuests = map[string]string{}
	}
}

// HasCompleted reports whether the lesson is already in CompletedLessons
func (p *Profile) HasCompleted(lessonID string) bool {
	return slices.Contains(p.CompletedLessons, lessonID)
}

// HasBadge reports whether the badge has been earned
func (p *Profile) HasBadge(badgeID string) bool {
	return slices.Contains(p.Badges, badgeID)
}

// Owns reports whether the shop item has been purchased
func (p *Profile) Owns(itemID string) bool {
	return slices.Contains(p.PurchasedItems, itemID)
}

// Clone returns a deep copy that shares no memory with p
func (p *Profile) Clone() *Profile {
	c := *p
	c.CompletedLessons = slices.Clone(p.CompletedLessons)
	c.Badges = slices.Clone(p.Badges)
	c.PurchasedItems = slices.Clone(p.PurchasedItems)
	c.SavingsGoals = slices.Clone(p.SavingsGoals)
	c.TodayHabits = maps.Clone(p.TodayHabits)
	c.AssessmentResults = maps.Clone(p.AssessmentResults)
	c.ClaimedQuests = maps.Clone(p.ClaimedQuests)
	if p.Habits != nil {
		c.Habits = make(map[string][]bool, len(p.Habits))
		for id, history := range p.Habits {
			c.Habits[id] = slices.Clone(history)
		}
	}
	if p.AssessmentScore != nil {
		score := *p.AssessmentScore
		c.AssessmentScore = &score
	}
	if p.Budget != nil {
		budget := *p.Budget
		c.Budget = &budget
	}
	return &c
}
