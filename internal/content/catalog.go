// Package content holds the static learning catalog: categories, lessons,
// the skill test, badges, quests, habits, shop items and dialogue scenarios.
package content

import (
	"embed"
	"fmt"
	"slices"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogFS embed.FS

const catalogFile = "catalog.yaml"

type yamlCatalog struct {
	Categories []yamlCategory      `yaml:"categories"`
	Badges     []yamlBadge         `yaml:"badges"`
	Quests     []yamlQuest         `yaml:"quests"`
	Habits     []yamlHabit         `yaml:"habits"`
	ShopItems  []yamlShopItem      `yaml:"shop_items"`
	Lessons    []yamlLesson        `yaml:"lessons"`
	SkillTest  []yamlSkillQuestion `yaml:"skill_test"`
	Scenarios  []yamlScenario      `yaml:"scenarios"`
}

type yamlCategory struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Emoji string `yaml:"emoji"`
	Color string `yaml:"color"`
}

type yamlBadge struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Emoji       string `yaml:"emoji"`
	Description string `yaml:"description"`
	Condition   string `yaml:"condition"`
}

type yamlQuest struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Emoji       string `yaml:"emoji"`
	Description string `yaml:"description"`
	Target      int    `yaml:"target"`
	Period      string `yaml:"period"`
	Measure     string `yaml:"measure"`
	Reward      struct {
		XP    int `yaml:"xp"`
		Coins int `yaml:"coins"`
	} `yaml:"reward"`
}

type yamlHabit struct {
	ID    string `yaml:"id"`
	Emoji string `yaml:"emoji"`
	Label string `yaml:"label"`
}

type yamlShopItem struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Emoji       string `yaml:"emoji"`
	Cost        int    `yaml:"cost"`
	Description string `yaml:"description"`
	Repeatable  bool   `yaml:"repeatable"`
}

type yamlLesson struct {
	ID         string     `yaml:"id"`
	Title      string     `yaml:"title"`
	Emoji      string     `yaml:"emoji"`
	Category   string     `yaml:"category"`
	Duration   string     `yaml:"duration"`
	XP         int        `yaml:"xp"`
	Coins      int        `yaml:"coins"`
	Difficulty string     `yaml:"difficulty"`
	Steps      []yamlStep `yaml:"steps"`
}

type yamlStep struct {
	Type    string `yaml:"type"`
	Title   string `yaml:"title"`
	Content string `yaml:"content"`
	Options []struct {
		Text     string `yaml:"text"`
		Correct  bool   `yaml:"correct"`
		Feedback string `yaml:"feedback"`
	} `yaml:"options"`
}

type yamlSkillQuestion struct {
	ID       string `yaml:"id"`
	Question string `yaml:"question"`
	Category string `yaml:"category"`
	Options  []struct {
		Text  string `yaml:"text"`
		Score int    `yaml:"score"`
	} `yaml:"options"`
}

type yamlScenario struct {
	ID          string     `yaml:"id"`
	Title       string     `yaml:"title"`
	Emoji       string     `yaml:"emoji"`
	Description string     `yaml:"description"`
	Nodes       []yamlNode `yaml:"nodes"`
}

type yamlNode struct {
	Speaker string `yaml:"speaker"`
	Text    string `yaml:"text"`
	Choices []struct {
		Text  string `yaml:"text"`
		Score int    `yaml:"score"`
		Next  int    `yaml:"next"`
	} `yaml:"choices"`
}

// Catalog is read-only after Load returns.
type Catalog struct {
	categories []Category
	lessons    []Lesson
	skillTest  []SkillQuestion
	badges     []Badge
	quests     []Quest
	habits     []Habit
	shopItems  []ShopItem
	scenarios  []Scenario

	lessonIndex   map[string]int
	scenarioIndex map[string]int
	shopIndex     map[string]int
	badgeIndex    map[string]int
	questIndex    map[string]int
}

// Default returns the embedded catalog, parsed once.
var Default = sync.OnceValues(Load)

// Load parses and validates the embedded catalog.
func Load() (*Catalog, error) {
	data, err := catalogFS.ReadFile(catalogFile)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", catalogFile, err)
	}
	return Parse(data)
}

// Parse builds a catalog from YAML and validates it.
func Parse(data []byte) (*Catalog, error) {
	var raw yamlCatalog
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	c := &Catalog{}
	for _, rc := range raw.Categories {
		c.categories = append(c.categories, Category(rc))
	}
	for _, rb := range raw.Badges {
		c.badges = append(c.badges, Badge{
			ID:          rb.ID,
			Name:        rb.Name,
			Emoji:       rb.Emoji,
			Description: rb.Description,
			Condition:   BadgeCondition(rb.Condition),
		})
	}
	for _, rq := range raw.Quests {
		c.quests = append(c.quests, Quest{
			ID:          rq.ID,
			Title:       rq.Title,
			Emoji:       rq.Emoji,
			Description: rq.Description,
			Target:      rq.Target,
			Period:      QuestPeriod(rq.Period),
			Measure:     QuestMeasure(rq.Measure),
			Reward:      Reward{XP: rq.Reward.XP, Coins: rq.Reward.Coins},
		})
	}
	for _, rh := range raw.Habits {
		c.habits = append(c.habits, Habit(rh))
	}
	for _, rs := range raw.ShopItems {
		c.shopItems = append(c.shopItems, ShopItem(rs))
	}
	for _, rl := range raw.Lessons {
		lesson, err := convertLesson(rl)
		if err != nil {
			return nil, err
		}
		c.lessons = append(c.lessons, lesson)
	}
	for _, rq := range raw.SkillTest {
		q := SkillQuestion{ID: rq.ID, Question: rq.Question, Category: rq.Category}
		for _, opt := range rq.Options {
			q.Options = append(q.Options, SkillOption{Text: opt.Text, Score: opt.Score})
		}
		c.skillTest = append(c.skillTest, q)
	}
	for _, rs := range raw.Scenarios {
		scenario, err := convertScenario(rs)
		if err != nil {
			return nil, err
		}
		c.scenarios = append(c.scenarios, scenario)
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	c.buildIndexes()
	return c, nil
}

func convertLesson(rl yamlLesson) (Lesson, error) {
	lesson := Lesson{
		ID:         rl.ID,
		Title:      rl.Title,
		Emoji:      rl.Emoji,
		Category:   rl.Category,
		XP:         rl.XP,
		Coins:      rl.Coins,
		Difficulty: Difficulty(rl.Difficulty),
	}
	if rl.Duration != "" {
		d, err := time.ParseDuration(rl.Duration)
		if err != nil {
			return Lesson{}, fmt.Errorf("lesson %q: invalid duration %q: %w", rl.ID, rl.Duration, err)
		}
		lesson.Duration = d
	}

	for i, rs := range rl.Steps {
		switch rs.Type {
		case "learn":
			lesson.Steps = append(lesson.Steps, LearnStep{Title: rs.Title, Content: rs.Content})
		case "scenario":
			lesson.Steps = append(lesson.Steps, ScenarioStep{Title: rs.Title, Content: rs.Content})
		case "action":
			lesson.Steps = append(lesson.Steps, ActionStep{Title: rs.Title, Content: rs.Content})
		case "quiz":
			quiz := QuizStep{Title: rs.Title, Question: rs.Content}
			for _, opt := range rs.Options {
				quiz.Options = append(quiz.Options, QuizOption{Text: opt.Text, Correct: opt.Correct, Feedback: opt.Feedback})
			}
			lesson.Steps = append(lesson.Steps, quiz)
		default:
			return Lesson{}, fmt.Errorf("lesson %q step %d: unknown step type %q", rl.ID, i, rs.Type)
		}
	}
	return lesson, nil
}

func convertScenario(rs yamlScenario) (Scenario, error) {
	scenario := Scenario{
		ID:          rs.ID,
		Title:       rs.Title,
		Emoji:       rs.Emoji,
		Description: rs.Description,
	}
	for i, rn := range rs.Nodes {
		speaker := Speaker(rn.Speaker)
		if !speaker.Valid() {
			return Scenario{}, fmt.Errorf("scenario %q node %d: unknown speaker %q", rs.ID, i, rn.Speaker)
		}
		if len(rn.Choices) == 0 {
			scenario.Nodes = append(scenario.Nodes, EndNode{Speaker: speaker, Text: rn.Text})
			continue
		}
		prompt := PromptNode{Speaker: speaker, Text: rn.Text}
		for _, ch := range rn.Choices {
			prompt.Choices = append(prompt.Choices, Choice{Text: ch.Text, Score: ch.Score, Next: ch.Next})
		}
		scenario.Nodes = append(scenario.Nodes, prompt)
	}
	return scenario, nil
}

func (c *Catalog) buildIndexes() {
	c.lessonIndex = indexBy(c.lessons, func(l Lesson) string { return l.ID })
	c.scenarioIndex = indexBy(c.scenarios, func(s Scenario) string { return s.ID })
	c.shopIndex = indexBy(c.shopItems, func(s ShopItem) string { return s.ID })
	c.badgeIndex = indexBy(c.badges, func(b Badge) string { return b.ID })
	c.questIndex = indexBy(c.quests, func(q Quest) string { return q.ID })
}

func indexBy[T any](items []T, id func(T) string) map[string]int {
	index := make(map[string]int, len(items))
	for i, item := range items {
		index[id(item)] = i
	}
	return index
}

func lookup[T any](items []T, index map[string]int, id string) (T, bool) {
	i, ok := index[id]
	if !ok {
		var zero T
		return zero, false
	}
	return items[i], true
}

func (c *Catalog) Categories() []Category     { return slices.Clone(c.categories) }
func (c *Catalog) Lessons() []Lesson          { return slices.Clone(c.lessons) }
func (c *Catalog) SkillTest() []SkillQuestion { return slices.Clone(c.skillTest) }
func (c *Catalog) Badges() []Badge            { return slices.Clone(c.badges) }
func (c *Catalog) Quests() []Quest            { return slices.Clone(c.quests) }
func (c *Catalog) Habits() []Habit            { return slices.Clone(c.habits) }
func (c *Catalog) ShopItems() []ShopItem      { return slices.Clone(c.shopItems) }
func (c *Catalog) Scenarios() []Scenario      { return slices.Clone(c.scenarios) }
func (c *Catalog) LevelThresholds() []int     { return LevelThresholds() }

func (c *Catalog) Lesson(id string) (Lesson, bool) {
	return lookup(c.lessons, c.lessonIndex, id)
}

func (c *Catalog) Scenario(id string) (Scenario, bool) {
	return lookup(c.scenarios, c.scenarioIndex, id)
}

func (c *Catalog) ShopItem(id string) (ShopItem, bool) {
	return lookup(c.shopItems, c.shopIndex, id)
}

func (c *Catalog) Badge(id string) (Badge, bool) {
	return lookup(c.badges, c.badgeIndex, id)
}

func (c *Catalog) Quest(id string) (Quest, bool) {
	return lookup(c.quests, c.questIndex, id)
}

// LessonsByCategory returns the lessons of one category in catalog order.
func (c *Catalog) LessonsByCategory(category string) []Lesson {
	var result []Lesson
	for _, l := range c.lessons {
		if l.Category == category {
			result = append(result, l)
		}
	}
	return result
}

func (c *Catalog) QuestsByPeriod(period QuestPeriod) []Quest {
	var result []Quest
	for _, q := range c.quests {
		if q.Period == period {
			result = append(result, q)
		}
	}
	return result
}
