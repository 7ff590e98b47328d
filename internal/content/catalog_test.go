package content

import (
	"strings"
	"testing"
	"time"
)

func mustLoad(t *testing.T) *Catalog {
	t.Helper()
	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return c
}

func TestLoadEmbeddedCatalog(t *testing.T) {
	c := mustLoad(t)

	tests := []struct {
		name string
		got  int
		want int
	}{
		{"categories", len(c.Categories()), 4},
		{"lessons", len(c.Lessons()), 22},
		{"skill test", len(c.SkillTest()), 10},
		{"badges", len(c.Badges()), 8},
		{"quests", len(c.Quests()), 5},
		{"habits", len(c.Habits()), 5},
		{"shop items", len(c.ShopItems()), 5},
		{"scenarios", len(c.Scenarios()), 3},
		{"level thresholds", len(c.LevelThresholds()), MaxLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %d, want %d", tt.got, tt.want)
			}
		})
	}
}

func TestDefaultIsCached(t *testing.T) {
	a, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	b, _ := Default()
	if a != b {
		t.Error("Default() returned different catalogs")
	}
}

func TestLessonLookup(t *testing.T) {
	c := mustLoad(t)

	lesson, ok := c.Lesson("comm-filler")
	if !ok {
		t.Fatal("Lesson(comm-filler) not found")
	}
	if lesson.XP != 25 || lesson.Coins != 5 {
		t.Errorf("comm-filler rewards = %d xp / %d coins, want 25/5", lesson.XP, lesson.Coins)
	}
	if lesson.Duration != 3*time.Minute {
		t.Errorf("comm-filler duration = %v, want 3m", lesson.Duration)
	}
	if lesson.Difficulty != Beginner {
		t.Errorf("comm-filler difficulty = %q", lesson.Difficulty)
	}

	wantKinds := []string{"learn", "scenario", "quiz", "action"}
	if len(lesson.Steps) != len(wantKinds) {
		t.Fatalf("comm-filler has %d steps, want %d", len(lesson.Steps), len(wantKinds))
	}
	for i, step := range lesson.Steps {
		var kind string
		switch s := step.(type) {
		case LearnStep:
			kind = "learn"
		case ScenarioStep:
			kind = "scenario"
		case QuizStep:
			kind = "quiz"
			if s.CorrectIndex() != 1 {
				t.Errorf("quiz correct index = %d, want 1", s.CorrectIndex())
			}
			if opt, ok := s.Answer(1); !ok || !opt.Correct {
				t.Errorf("Answer(1) = %+v, %v", opt, ok)
			}
			if _, ok := s.Answer(9); ok {
				t.Error("Answer(9) should be out of range")
			}
		case ActionStep:
			kind = "action"
		}
		if kind != wantKinds[i] {
			t.Errorf("step %d kind = %q, want %q", i, kind, wantKinds[i])
		}
		if step.StepTitle() == "" {
			t.Errorf("step %d has no title", i)
		}
	}

	if _, ok := c.Lesson("nope"); ok {
		t.Error("Lesson(nope) should not be found")
	}
}

func TestLessonsByCategory(t *testing.T) {
	c := mustLoad(t)

	tests := []struct {
		category string
		want     int
	}{
		{"communication", 7},
		{"budget", 4},
		{"unknown", 0},
	}
	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			got := c.LessonsByCategory(tt.category)
			if len(got) != tt.want {
				t.Errorf("LessonsByCategory(%q) = %d lessons, want %d", tt.category, len(got), tt.want)
			}
			for _, l := range got {
				if l.Category != tt.category {
					t.Errorf("lesson %q has category %q", l.ID, l.Category)
				}
			}
		})
	}
}

func TestScenarioNodes(t *testing.T) {
	c := mustLoad(t)

	sc, ok := c.Scenario("sc-teacher")
	if !ok {
		t.Fatal("Scenario(sc-teacher) not found")
	}
	first, ok := sc.Nodes[0].(PromptNode)
	if !ok {
		t.Fatalf("node 0 is %T, want PromptNode", sc.Nodes[0])
	}
	if first.Speaker != Narrator {
		t.Errorf("node 0 speaker = %q, want narrator", first.Speaker)
	}
	if first.BestScore() != 3 {
		t.Errorf("node 0 best score = %d, want 3", first.BestScore())
	}
	last := sc.Nodes[len(sc.Nodes)-1]
	if _, ok := last.(EndNode); !ok {
		t.Errorf("last node is %T, want EndNode", last)
	}
	if last.NodeSpeaker() != Teacher {
		t.Errorf("last node speaker = %q", last.NodeSpeaker())
	}
}

func TestShopBadgeQuestLookups(t *testing.T) {
	c := mustLoad(t)

	freeze, ok := c.ShopItem(ItemStreakFreeze)
	if !ok || !freeze.Repeatable || freeze.Cost != 20 {
		t.Errorf("ShopItem(streak_freeze) = %+v, %v", freeze, ok)
	}
	if theme, ok := c.ShopItem("theme_ocean"); !ok || theme.Repeatable {
		t.Errorf("ShopItem(theme_ocean) = %+v, %v", theme, ok)
	}

	badge, ok := c.Badge("communicator")
	if !ok || badge.Condition != ConditionComm5 {
		t.Errorf("Badge(communicator) = %+v, %v", badge, ok)
	}

	quest, ok := c.Quest("mq1")
	if !ok || quest.Period != Monthly || quest.Reward.XP != 200 {
		t.Errorf("Quest(mq1) = %+v, %v", quest, ok)
	}
	if got := len(c.QuestsByPeriod(Daily)); got != 2 {
		t.Errorf("QuestsByPeriod(daily) = %d, want 2", got)
	}

	measures := map[string]QuestMeasure{
		"dq1": "",
		"dq2": MeasureHabitsToday,
		"wq1": MeasureWeeklyXP,
		"mq1": "",
	}
	for id, want := range measures {
		if q, _ := c.Quest(id); q.Measure != want {
			t.Errorf("Quest(%s).Measure = %q, want %q", id, q.Measure, want)
		}
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	c := mustLoad(t)
	lessons := c.Lessons()
	lessons[0].ID = "mutated"
	if c.Lessons()[0].ID == "mutated" {
		t.Error("Lessons() exposes internal slice")
	}
	thresholds := c.LevelThresholds()
	thresholds[0] = -1
	if LevelThresholds()[0] != 100 {
		t.Error("LevelThresholds() exposes internal slice")
	}
}

func TestLevelThresholds(t *testing.T) {
	thresholds := LevelThresholds()
	tests := []struct {
		index int
		want  int
	}{
		{0, 100},
		{1, 250},
		{2, 400},
		{9, 1450},
		{49, 7450},
	}
	for _, tt := range tests {
		if got := thresholds[tt.index]; got != tt.want {
			t.Errorf("threshold[%d] = %d, want %d", tt.index, got, tt.want)
		}
	}
	for i := 1; i < len(thresholds); i++ {
		if thresholds[i] <= thresholds[i-1] {
			t.Fatalf("thresholds not increasing at %d", i)
		}
	}
}

func TestParseRejectsInvalidCatalogs(t *testing.T) {
	const base = `
categories:
- id: communication
  name: Communication
`
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name: "unknown step type",
			yaml: base + `
lessons:
- id: l1
  category: communication
  difficulty: beginner
  steps:
  - type: video
    title: x
`,
			wantErr: "unknown step type",
		},
		{
			name: "quiz with two correct options",
			yaml: base + `
lessons:
- id: l1
  category: communication
  difficulty: beginner
  steps:
  - type: quiz
    title: q
    options:
    - {text: a, correct: true}
    - {text: b, correct: true}
`,
			wantErr: "2 correct options",
		},
		{
			name: "unknown category",
			yaml: base + `
lessons:
- id: l1
  category: cooking
  difficulty: beginner
  steps:
  - type: learn
    title: x
`,
			wantErr: "unknown category",
		},
		{
			name: "unknown quest measure",
			yaml: base + `
quests:
- id: q1
  target: 1
  period: daily
  measure: steps_walked
`,
			wantErr: "unknown measure",
		},
		{
			name: "duplicate lesson",
			yaml: base + `
lessons:
- id: l1
  category: communication
  difficulty: beginner
  steps: [{type: learn, title: x}]
- id: l1
  category: communication
  difficulty: beginner
  steps: [{type: learn, title: y}]
`,
			wantErr: "duplicate lesson",
		},
		{
			name: "choice target out of range",
			yaml: base + `
scenarios:
- id: s1
  nodes:
  - speaker: narrator
    text: hi
    choices:
    - {text: go, score: 1, next: 5}
`,
			wantErr: "out of range",
		},
		{
			name: "unknown speaker",
			yaml: base + `
scenarios:
- id: s1
  nodes:
  - speaker: robot
    text: hi
`,
			wantErr: "unknown speaker",
		},
		{
			name: "unknown badge condition",
			yaml: base + `
badges:
- id: b1
  condition: moon_landing
`,
			wantErr: "unknown condition",
		},
		{
			name:    "malformed yaml",
			yaml:    "lessons: [",
			wantErr: "parse catalog",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("Parse() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Parse() error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestParseAcceptsChoiceEndingScenario(t *testing.T) {
	_, err := Parse([]byte(`
scenarios:
- id: s1
  nodes:
  - speaker: friend
    text: bye?
    choices:
    - {text: bye, score: 2, next: 1}
`))
	if err != nil {
		t.Errorf("Parse() error = %v, a target one past the end should be allowed", err)
	}
}
