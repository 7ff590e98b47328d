package content

import "time"

type Category struct {
	ID    string
	Name  string
	Emoji string
	Color string
}

type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

func (d Difficulty) Valid() bool {
	switch d {
	case Beginner, Intermediate, Advanced:
		return true
	}
	return false
}

type Lesson struct {
	ID         string
	Title      string
	Emoji      string
	Category   string
	Duration   time.Duration
	XP         int
	Coins      int
	Difficulty Difficulty
	Steps      []Step
}

// Step is one screen of a lesson. The concrete types are LearnStep,
// ScenarioStep, QuizStep and ActionStep.
type Step interface {
	StepTitle() string
	isStep()
}

type LearnStep struct {
	Title   string
	Content string
}

type ScenarioStep struct {
	Title   string
	Content string
}

type QuizStep struct {
	Title    string
	Question string
	Options  []QuizOption
}

type QuizOption struct {
	Text     string
	Correct  bool
	Feedback string
}

type ActionStep struct {
	Title   string
	Content string
}

func (s LearnStep) StepTitle() string    { return s.Title }
func (s ScenarioStep) StepTitle() string { return s.Title }
func (s QuizStep) StepTitle() string     { return s.Title }
func (s ActionStep) StepTitle() string   { return s.Title }

func (LearnStep) isStep()    {}
func (ScenarioStep) isStep() {}
func (QuizStep) isStep()     {}
func (ActionStep) isStep()   {}

// CorrectIndex returns the index of the correct option, or -1.
func (s QuizStep) CorrectIndex() int {
	for i, opt := range s.Options {
		if opt.Correct {
			return i
		}
	}
	return -1
}

// Answer reports the option chosen at index i.
func (s QuizStep) Answer(i int) (QuizOption, bool) {
	if i < 0 || i >= len(s.Options) {
		return QuizOption{}, false
	}
	return s.Options[i], true
}

type SkillQuestion struct {
	ID       string
	Question string
	Category string
	Options  []SkillOption
}

type SkillOption struct {
	Text  string
	Score int
}

// MaxSkillScore is the score of the strongest answer to a skill question.
const MaxSkillScore = 4

type BadgeCondition string

const (
	ConditionFirstLesson   BadgeCondition = "lessons_1"
	ConditionComm5         BadgeCondition = "comm_5"
	ConditionStreak7       BadgeCondition = "streak_7"
	ConditionStreak30      BadgeCondition = "streak_30"
	ConditionSavingsGoal   BadgeCondition = "savings_goal"
	ConditionBudgetDone    BadgeCondition = "budget_done"
	ConditionLevel10       BadgeCondition = "level_10"
	ConditionNegotiateAced BadgeCondition = "negotiate"
)

func (c BadgeCondition) Valid() bool {
	switch c {
	case ConditionFirstLesson, ConditionComm5, ConditionStreak7, ConditionStreak30,
		ConditionSavingsGoal, ConditionBudgetDone, ConditionLevel10, ConditionNegotiateAced:
		return true
	}
	return false
}

type Badge struct {
	ID          string
	Name        string
	Emoji       string
	Description string
	Condition   BadgeCondition
}

type QuestPeriod string

const (
	Daily   QuestPeriod = "daily"
	Weekly  QuestPeriod = "weekly"
	Monthly QuestPeriod = "monthly"
)

func (p QuestPeriod) Valid() bool {
	switch p {
	case Daily, Weekly, Monthly:
		return true
	}
	return false
}

type Reward struct {
	XP    int
	Coins int
}

// QuestMeasure names the profile value a quest's target is checked against.
// An empty measure leaves completion to the caller.
type QuestMeasure string

const (
	MeasureHabitsToday QuestMeasure = "habits_today"
	MeasureWeeklyXP    QuestMeasure = "weekly_xp"
)

func (m QuestMeasure) Valid() bool {
	switch m {
	case "", MeasureHabitsToday, MeasureWeeklyXP:
		return true
	}
	return false
}

type Quest struct {
	ID          string
	Title       string
	Emoji       string
	Description string
	Target      int
	Period      QuestPeriod
	Measure     QuestMeasure
	Reward      Reward
}

type Habit struct {
	ID    string
	Emoji string
	Label string
}

type ShopItem struct {
	ID          string
	Name        string
	Emoji       string
	Cost        int
	Description string
	Repeatable  bool
}

// Shop items with special purchase handling.
const (
	ItemStreakFreeze = "streak_freeze"
	ItemXPBoost      = "xp_boost"
)

type Speaker string

const (
	Narrator Speaker = "narrator"
	Teacher  Speaker = "teacher"
	Parent   Speaker = "parent"
	Friend   Speaker = "friend"
)

func (s Speaker) Valid() bool {
	switch s {
	case Narrator, Teacher, Parent, Friend:
		return true
	}
	return false
}

type Scenario struct {
	ID          string
	Title       string
	Emoji       string
	Description string
	Nodes       []Node
}

// Node is a dialogue line. PromptNode offers choices; EndNode closes the scenario.
type Node interface {
	NodeSpeaker() Speaker
	NodeText() string
	isNode()
}

type PromptNode struct {
	Speaker Speaker
	Text    string
	Choices []Choice
}

type EndNode struct {
	Speaker Speaker
	Text    string
}

// Choice moves the dialogue to Next. A Next equal to the node count ends it.
type Choice struct {
	Text  string
	Score int
	Next  int
}

func (n PromptNode) NodeSpeaker() Speaker { return n.Speaker }
func (n PromptNode) NodeText() string     { return n.Text }
func (n EndNode) NodeSpeaker() Speaker    { return n.Speaker }
func (n EndNode) NodeText() string        { return n.Text }

func (PromptNode) isNode() {}
func (EndNode) isNode()    {}

// BestScore returns the highest score among the node's choices.
func (n PromptNode) BestScore() int {
	best := 0
	for i, c := range n.Choices {
		if i == 0 || c.Score > best {
			best = c.Score
		}
	}
	return best
}
