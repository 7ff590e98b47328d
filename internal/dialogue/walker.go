// Package dialogue walks branching conversation scenarios and scores the
// choices taken.
package dialogue

import (
	"errors"
	"fmt"
	"math"

	"lifeos/internal/content"
)

var (
	ErrFinished      = errors.New("dialogue already finished")
	ErrInvalidChoice = errors.New("invalid choice")
	ErrEmptyScenario = errors.New("scenario has no nodes")
)

// Turn is one line of the conversation. Choice is -1 for the closing line.
type Turn struct {
	Speaker    content.Speaker
	Text       string
	Choice     int
	ChoiceText string
	Score      int
	BestScore  int
}

type Result struct {
	ScenarioID string
	Score      int
	Best       int
	Confidence int
	Finished   bool
	Transcript []Turn
}

// Walker tracks a single pass through a scenario. It has no move limit.
type Walker struct {
	scenario   content.Scenario
	current    int
	score      int
	best       int
	finished   bool
	transcript []Turn
}

func NewWalker(scenario content.Scenario) (*Walker, error) {
	if len(scenario.Nodes) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyScenario, scenario.ID)
	}
	w := &Walker{scenario: scenario}
	w.enter(0)
	return w, nil
}

// Current returns the node awaiting a choice, or the closing node once finished.
// It reports false when the walk ended by moving past the last node.
func (w *Walker) Current() (content.Node, bool) {
	if w.current >= len(w.scenario.Nodes) {
		return nil, false
	}
	return w.scenario.Nodes[w.current], true
}

func (w *Walker) Finished() bool {
	return w.finished
}

// Choose takes choice i at the current node.
func (w *Walker) Choose(i int) error {
	if w.finished {
		return ErrFinished
	}
	node, ok := w.scenario.Nodes[w.current].(content.PromptNode)
	if !ok {
		return ErrFinished
	}
	if i < 0 || i >= len(node.Choices) {
		return fmt.Errorf("%w: %d of %d", ErrInvalidChoice, i, len(node.Choices))
	}

	choice := node.Choices[i]
	best := node.BestScore()
	w.score += choice.Score
	w.best += best
	w.transcript = append(w.transcript, Turn{
		Speaker:    node.Speaker,
		Text:       node.Text,
		Choice:     i,
		ChoiceText: choice.Text,
		Score:      choice.Score,
		BestScore:  best,
	})
	w.enter(choice.Next)
	return nil
}

func (w *Walker) enter(index int) {
	w.current = index
	if index < 0 || index >= len(w.scenario.Nodes) {
		w.current = len(w.scenario.Nodes)
		w.finished = true
		return
	}
	if end, ok := w.scenario.Nodes[index].(content.EndNode); ok {
		w.finished = true
		w.transcript = append(w.transcript, Turn{Speaker: end.Speaker, Text: end.Text, Choice: -1})
	}
}

func (w *Walker) Result() Result {
	return Result{
		ScenarioID: w.scenario.ID,
		Score:      w.score,
		Best:       w.best,
		Confidence: Confidence(w.score, w.best),
		Finished:   w.finished,
		Transcript: append([]Turn(nil), w.transcript...),
	}
}

// Confidence is score as a rounded percentage of best, clamped to 0-100.
// A best of zero yields zero.
func Confidence(score, best int) int {
	if best <= 0 {
		return 0
	}
	pct := int(math.Round(float64(score) / float64(best) * 100))
	return max(0, min(100, pct))
}
