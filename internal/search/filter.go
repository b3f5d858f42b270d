package search

import (
	"strings"
	"time"

	"github.com/strrl/claude-browse/pkg/models"
)

// DatePreset bounds sessions by last activity
type DatePreset int

const (
	PresetAll DatePreset = iota
	PresetToday
	PresetLast7Days
	PresetLast30Days
)

var presetLabels = []string{"All time", "Today", "Last 7 days", "Last 30 days"}

func (p DatePreset) String() string {
	if p < 0 || int(p) >= len(presetLabels) {
		return "Unknown"
	}
	return presetLabels[p]
}

// Next cycles forward through the presets
func (p DatePreset) Next() DatePreset {
	return DatePreset((int(p) + 1) % len(presetLabels))
}

// Prev cycles backward through the presets
func (p DatePreset) Prev() DatePreset {
	return DatePreset((int(p) + len(presetLabels) - 1) % len(presetLabels))
}

// FilterCriteria is the structured filter; the zero value matches everything
type FilterCriteria struct {
	Date    DatePreset
	Project string
}

// IsZero reports whether no constraint is set
func (c FilterCriteria) IsZero() bool {
	return c.Date == PresetAll && strings.TrimSpace(c.Project) == ""
}

// Matches reports whether s satisfies every constraint of c at time now
func Matches(s models.SessionSummary, c FilterCriteria, now time.Time) bool {
	if !matchesDate(s.LastActive, c.Date, now) {
		return false
	}
	project := strings.TrimSpace(c.Project)
	if project == "" {
		return true
	}
	return containsFold(s.ProjectName, project)
}

func matchesDate(t time.Time, preset DatePreset, now time.Time) bool {
	if preset == PresetAll {
		return true
	}
	y, m, d := now.Date()
	startOfDay := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	endOfDay := startOfDay.AddDate(0, 0, 1)
	if !t.Before(endOfDay) {
		return false
	}

	switch preset {
	case PresetToday:
		return !t.Before(startOfDay)
	case PresetLast7Days:
		return !t.Before(now.AddDate(0, 0, -7))
	case PresetLast30Days:
		return !t.Before(now.AddDate(0, 0, -30))
	}
	return true
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
