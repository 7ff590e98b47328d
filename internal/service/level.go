package service

import (
	"math"

	"lifeos/internal/content"
)

var levelThresholds = content.LevelThresholds()

// LevelProgress describes how far xp has advanced through the current level
type LevelProgress struct {
	Level   int
	Current int
	Needed  int
	Percent int
}

// Level derives the level from total XP: one plus the number of thresholds
// reached, capped at content.MaxLevel.
func Level(xp int) int {
	level := 1
	for _, threshold := range levelThresholds {
		if xp >= threshold {
			level++
		}
	}
	return min(level, content.MaxLevel)
}

// Progress reports XP earned within the current level and the XP the level spans.
// At the top level Current and Needed both equal xp.
func Progress(xp int) LevelProgress {
	level := Level(xp)
	if level >= content.MaxLevel {
		return LevelProgress{Level: level, Current: xp, Needed: xp, Percent: 100}
	}

	prev := 0
	if level > 1 {
		prev = levelThresholds[level-2]
	}
	next := levelThresholds[level-1]
	current := xp - prev
	needed := next - prev
	return LevelProgress{
		Level:   level,
		Current: current,
		Needed:  needed,
		Percent: max(0, min(100, roundPercent(current, needed))),
	}
}

// roundPercent returns part/whole*100 rounded half up
func roundPercent(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}

func roundShare(amount int, share float64) int {
	return int(math.Round(float64(amount) * share))
}
