package actions

import (
	"fmt"
	"io"
	"slices"

	"github.com/japaniel/wkjlpt/pkg/wanikani"
)

var stageNames = []string{
	"Lesson",
	"Apprentice I", "Apprentice II", "Apprentice III", "Apprentice IV",
	"Guru I", "Guru II",
	"Master",
	"Enlightened",
	"Burned",
}

// StageName returns the display name of an SRS stage.
func StageName(stage int) string {
	if stage < 0 || stage >= len(stageNames) {
		return fmt.Sprintf("Stage %d", stage)
	}
	return stageNames[stage]
}

// CountBySRSStage counts assignments per SRS stage.
func CountBySRSStage(assignments []wanikani.Assignment) map[int]int {
	counts := make(map[int]int)
	for _, a := range assignments {
		counts[a.Data.SRSStage]++
	}
	return counts
}

// WriteStageReport prints counts in stage order.
func WriteStageReport(w io.Writer, counts map[int]int) {
	stages := make([]int, 0, len(counts))
	total := 0
	for s, n := range counts {
		stages = append(stages, s)
		total += n
	}
	slices.Sort(stages)
	for _, s := range stages {
		fmt.Fprintf(w, "%-15s %d\n", StageName(s), counts[s])
	}
	fmt.Fprintf(w, "%-15s %d\n", "Total", total)
}
