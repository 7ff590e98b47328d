package content

import "slices"

const MaxLevel = 50

var levelThresholds = buildLevelThresholds()

func buildLevelThresholds() []int {
	thresholds := make([]int, MaxLevel)
	for i := range thresholds {
		thresholds[i] = (i+1)*100 + i*50
	}
	return thresholds
}

// LevelThresholds returns the cumulative XP needed to leave each level.
func LevelThresholds() []int {
	return slices.Clone(levelThresholds)
}
