package service

import (
	"context"
	"errors"
	"reflect"
	"slices"
	"testing"
	"time"

	"lifeos/internal/content"
	"lifeos/internal/dialogue"
	"lifeos/internal/validation"
)

func TestFinishLesson(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	s := env.login(t, "Alex")
	lesson, _ := env.engine.Catalog().Lesson("comm-filler")

	outcome, err := s.FinishLesson(ctx, lesson.ID)
	if err != nil {
		t.Fatalf("FinishLesson() error = %v", err)
	}
	want := LessonOutcome{Granted: true, XP: lesson.XP, Coins: lesson.Coins, NewBadges: []string{"first_lesson"}}
	if !reflect.DeepEqual(outcome, want) {
		t.Errorf("FinishLesson() = %+v, want %+v", outcome, want)
	}

	again, err := s.FinishLesson(ctx, lesson.ID)
	if err != nil {
		t.Fatalf("second FinishLesson() error = %v", err)
	}
	if again.Granted || again.XP != 0 || len(again.NewBadges) != 0 {
		t.Errorf("replay earned %+v", again)
	}
	if got := mustProfile(t, s); got.XP != lesson.XP || got.Coins != lesson.Coins {
		t.Errorf("xp/coins = %d/%d, want %d/%d", got.XP, got.Coins, lesson.XP, lesson.Coins)
	}

	if _, err := s.FinishLesson(ctx, "no-such-lesson"); !errors.Is(err, ErrNotFound) {
		t.Errorf("FinishLesson(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestCategoryBadges(t *testing.T) {
	tests := []struct {
		name     string
		category string
		count    int
		badge    string
	}{
		{
			name:     "five communication lessons",
			category: "communication",
			count:    5,
			badge:    "communicator",
		},
		{
			name:     "every budget lesson",
			category: "budget",
			count:    4,
			badge:    "planner",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			env := newTestEnv(t)
			s := env.login(t, "Alex")
			lessons := env.engine.Catalog().LessonsByCategory(tt.category)
			if len(lessons) < tt.count {
				t.Fatalf("%s has %d lessons, want at least %d", tt.category, len(lessons), tt.count)
			}

			for i, lesson := range lessons[:tt.count] {
				outcome, err := s.FinishLesson(ctx, lesson.ID)
				if err != nil {
					t.Fatalf("FinishLesson(%s) error = %v", lesson.ID, err)
				}
				earned := slices.Contains(outcome.NewBadges, tt.badge)
				if last := i == tt.count-1; earned != last {
					t.Errorf("lesson %d: earned %s = %v, want %v", i+1, tt.badge, earned, last)
				}
			}
			if got := mustProfile(t, s); !slices.Contains(got.Badges, tt.badge) {
				t.Errorf("Badges = %v, missing %s", got.Badges, tt.badge)
			}
		})
	}
}

func TestEvaluateBadges(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	s := env.login(t, "Alex")

	if err := s.AddXP(ctx, 1450); err != nil {
		t.Fatalf("AddXP() error = %v", err)
	}
	earned, err := s.EvaluateBadges(ctx)
	if err != nil {
		t.Fatalf("EvaluateBadges() error = %v", err)
	}
	if !reflect.DeepEqual(earned, []string{"level_10"}) {
		t.Errorf("EvaluateBadges() = %v, want [level_10]", earned)
	}

	if err := s.AddSavingsGoal(ctx, "Bike", 150); err != nil {
		t.Fatalf("AddSavingsGoal() error = %v", err)
	}
	earned, _ = s.EvaluateBadges(ctx)
	if !reflect.DeepEqual(earned, []string{"saver"}) {
		t.Errorf("EvaluateBadges() = %v, want [saver]", earned)
	}

	earned, _ = s.EvaluateBadges(ctx)
	if len(earned) != 0 {
		t.Errorf("EvaluateBadges() regranted %v", earned)
	}
}

func walkScenario(t *testing.T, s *Session, id string, choices ...int) dialogue.Result {
	t.Helper()
	w, err := s.StartScenario(id)
	if err != nil {
		t.Fatalf("StartScenario(%s) error = %v", id, err)
	}
	for _, c := range choices {
		if err := w.Choose(c); err != nil {
			t.Fatalf("Choose(%d) error = %v", c, err)
		}
	}
	return w.Result()
}

func TestFinishScenario(t *testing.T) {
	tests := []struct {
		name          string
		scenario      string
		choices       []int
		wantConf      int
		wantNegotiate bool
	}{
		{
			name:          "aced",
			scenario:      "sc-teacher",
			choices:       []int{1, 0},
			wantConf:      100,
			wantNegotiate: true,
		},
		{
			name:     "partial",
			scenario: "sc-teacher",
			choices:  []int{0, 0, 0},
			wantConf: 50,
		},
		{
			name:     "poor",
			scenario: "sc-parents",
			choices:  []int{2},
			wantConf: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			env := newTestEnv(t)
			s := env.login(t, "Alex")

			result := walkScenario(t, s, tt.scenario, tt.choices...)
			outcome, err := s.FinishScenario(ctx, result)
			if err != nil {
				t.Fatalf("FinishScenario() error = %v", err)
			}
			if outcome.Confidence != tt.wantConf {
				t.Errorf("Confidence = %d, want %d", outcome.Confidence, tt.wantConf)
			}
			if outcome.XP != 25 || outcome.Coins != 5 {
				t.Errorf("reward = %d/%d, want 25/5", outcome.XP, outcome.Coins)
			}
			if got := slices.Contains(outcome.NewBadges, "negotiator"); got != tt.wantNegotiate {
				t.Errorf("negotiator earned = %v, want %v", got, tt.wantNegotiate)
			}
			if got := mustProfile(t, s); got.XP != 25 || got.Coins != 5 {
				t.Errorf("profile xp/coins = %d/%d, want 25/5", got.XP, got.Coins)
			}
		})
	}
}

func TestFinishScenarioRequiresFinishedWalk(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	s := env.login(t, "Alex")

	result := walkScenario(t, s, "sc-teacher", 0)
	var verr validation.ValidationError
	if _, err := s.FinishScenario(ctx, result); !errors.As(err, &verr) {
		t.Fatalf("FinishScenario(unfinished) error = %v, want ValidationError", err)
	}
	if got := mustProfile(t, s); got.XP != 0 {
		t.Errorf("unfinished walk awarded %d xp", got.XP)
	}

	if _, err := s.StartScenario("sc-nowhere"); !errors.Is(err, ErrNotFound) {
		t.Errorf("StartScenario(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestClaimQuest(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	s := env.login(t, "Alex")

	reward, err := s.ClaimQuest(ctx, "dq1")
	if err != nil {
		t.Fatalf("ClaimQuest() error = %v", err)
	}
	if reward != (content.Reward{XP: 30, Coins: 5}) {
		t.Errorf("reward = %+v, want 30/5", reward)
	}
	if got := mustProfile(t, s); got.XP != 30 || got.Coins != 5 {
		t.Errorf("xp/coins = %d/%d, want 30/5", got.XP, got.Coins)
	}
	p, _ := s.Profile()
	if p.WeeklyXP[3] != 30 {
		t.Errorf("WeeklyXP = %v, want 30 on Wednesday", p.WeeklyXP)
	}

	if _, err := s.ClaimQuest(ctx, "zz9"); !errors.Is(err, ErrNotFound) {
		t.Errorf("ClaimQuest(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestClaimQuestOncePerPeriod(t *testing.T) {
	tests := []struct {
		name       string
		quest      string
		setup      func(t *testing.T, s *Session)
		samePeriod int // days to advance while staying in the claimed period
		nextPeriod int // further days to reach the next period
	}{
		{
			name:       "daily",
			quest:      "dq1",
			samePeriod: 0,
			nextPeriod: 1,
		},
		{
			name:  "weekly",
			quest: "wq1",
			setup: func(t *testing.T, s *Session) {
				if err := s.AddXP(context.Background(), 200); err != nil {
					t.Fatalf("AddXP() error = %v", err)
				}
			},
			samePeriod: 3, // Saturday
			nextPeriod: 1, // Sunday
		},
		{
			name:       "monthly",
			quest:      "mq1",
			samePeriod: 20,
			nextPeriod: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			env := newTestEnv(t)
			s := env.login(t, "Alex")
			if tt.setup != nil {
				tt.setup(t, s)
			}
			quest, _ := env.engine.Catalog().Quest(tt.quest)

			if _, err := s.ClaimQuest(ctx, tt.quest); err != nil {
				t.Fatalf("first ClaimQuest() error = %v", err)
			}
			claimed := mustProfile(t, s)

			env.clock.advanceDays(tt.samePeriod)
			if _, err := s.ClaimQuest(ctx, tt.quest); !errors.Is(err, ErrAlreadyClaimed) {
				t.Fatalf("repeat ClaimQuest() error = %v, want ErrAlreadyClaimed", err)
			}
			if got := mustProfile(t, s); got.XP != claimed.XP || got.Coins != claimed.Coins {
				t.Errorf("repeat claim paid out: xp/coins %d/%d, want %d/%d", got.XP, got.Coins, claimed.XP, claimed.Coins)
			}

			env.clock.advanceDays(tt.nextPeriod)
			if _, err := s.ClaimQuest(ctx, tt.quest); err != nil {
				t.Fatalf("next-period ClaimQuest() error = %v", err)
			}
			if got := mustProfile(t, s); got.Coins != claimed.Coins+quest.Reward.Coins {
				t.Errorf("coins = %d, want %d", got.Coins, claimed.Coins+quest.Reward.Coins)
			}
		})
	}
}

func TestClaimQuestChecksMeasuredTarget(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	s := env.login(t, "Alex")

	if _, err := s.ClaimQuest(ctx, "wq1"); !errors.Is(err, ErrQuestIncomplete) {
		t.Errorf("ClaimQuest(wq1) with no xp error = %v, want ErrQuestIncomplete", err)
	}

	for _, id := range []string{"sleep", "study", "water", "exercise", "stretching"} {
		if _, err := s.ToggleHabit(ctx, id); err != nil {
			t.Fatalf("ToggleHabit(%s) error = %v", id, err)
		}
	}
	if _, err := s.ClaimQuest(ctx, "dq2"); !errors.Is(err, ErrQuestIncomplete) {
		t.Fatalf("ClaimQuest(dq2) with 4 catalog habits error = %v, want ErrQuestIncomplete", err)
	}
	if got := mustProfile(t, s); got.XP != 0 {
		t.Errorf("incomplete quest paid %d xp", got.XP)
	}

	if _, err := s.ToggleHabit(ctx, "no-scroll"); err != nil {
		t.Fatalf("ToggleHabit() error = %v", err)
	}
	reward, err := s.ClaimQuest(ctx, "dq2")
	if err != nil {
		t.Fatalf("ClaimQuest(dq2) error = %v", err)
	}
	if reward != (content.Reward{XP: 20, Coins: 3}) {
		t.Errorf("reward = %+v, want 20/3", reward)
	}
}

func TestPeriodKey(t *testing.T) {
	tests := []struct {
		name   string
		now    time.Time
		period content.QuestPeriod
		want   string
	}{
		{
			name:   "daily",
			now:    baseTime,
			period: content.Daily,
			want:   "2026-03-04",
		},
		{
			name:   "weekly from Wednesday",
			now:    baseTime,
			period: content.Weekly,
			want:   "week-2026-03-01",
		},
		{
			name:   "weekly on Sunday",
			now:    time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
			period: content.Weekly,
			want:   "week-2026-03-01",
		},
		{
			name:   "weekly across a year end",
			now:    time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC),
			period: content.Weekly,
			want:   "week-2025-12-28",
		},
		{
			name:   "monthly",
			now:    baseTime,
			period: content.Monthly,
			want:   "2026-03",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.clock.now = tt.now
			if got := env.engine.periodKey(tt.period); got != tt.want {
				t.Errorf("periodKey(%s) = %q, want %q", tt.period, got, tt.want)
			}
		})
	}
}

func TestFlowsRequireSession(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	s := env.login(t, "Alex")
	if err := s.Logout(ctx); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}

	if _, err := s.FinishLesson(ctx, "comm-filler"); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("FinishLesson() error = %v", err)
	}
	if _, err := s.ClaimQuest(ctx, "dq1"); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("ClaimQuest() error = %v", err)
	}
	if err := s.Purchase(ctx, "theme_ocean"); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("Purchase() error = %v", err)
	}
	if _, err := s.SetBudget(ctx, 50); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("SetBudget() error = %v", err)
	}
}
