package stats

import (
	"sort"

	"github.com/verte-zerg/tuikeys/internal/model"
	"github.com/verte-zerg/tuikeys/internal/sampler"
)

// Bucket splits a status count by whether the shortcut is still in rotation.
type Bucket struct {
	Included int
	Removed  int
}

// Total returns Included+Removed.
func (b Bucket) Total() int {
	return b.Included + b.Removed
}

// StatusCounts counts shortcuts per mastery status.
type StatusCounts struct {
	Mastered   Bucket
	Unmastered Bucket
	NoAnswered Bucket
}

// Total returns the number of counted shortcuts.
func (c StatusCounts) Total() int {
	return c.Mastered.Total() + c.Unmastered.Total() + c.NoAnswered.Total()
}

// ToolRate is the mastered share of a tool's non-removed shortcuts.
type ToolRate struct {
	Name       string
	Rate       int
	Mastered   int
	Total      int
	AllRemoved bool
}

// ShortcutStatus describes one shortcut for the stats tables.
type ShortcutStatus struct {
	Shortcut model.Shortcut
	Answers  int
	Correct  int
	Weight   float64
	Mastered bool
	Removed  bool
}

// Answered reports whether the shortcut has at least one result.
func (s ShortcutStatus) Answered() bool {
	return s.Answers > 0
}

// Accuracy returns the share of correct answers.
func (s ShortcutStatus) Accuracy() float64 {
	if s.Answers == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Answers)
}

// CountsOfEachStatus classifies ids as mastered, unmastered or unanswered and
// splits each bucket by removal. Buckets always sum to len(ids).
func CountsOfEachStatus(ids []string, history model.AnsweredHistory, removed model.IDSet) StatusCounts {
	var counts StatusCounts
	for _, id := range ids {
		var bucket *Bucket
		results := history[id]
		switch {
		case len(results) == 0:
			bucket = &counts.NoAnswered
		case sampler.IsMastered(sampler.Weight(results)):
			bucket = &counts.Mastered
		default:
			bucket = &counts.Unmastered
		}
		if removed.Has(id) {
			bucket.Removed++
		} else {
			bucket.Included++
		}
	}
	return counts
}

// MasteredRateOfEachTool computes floor(100*mastered/nonRemoved) per tool,
// sorted by tool name. A tool with every shortcut removed reports 0 and AllRemoved.
func MasteredRateOfEachTool(tools map[string]model.Tool, history model.AnsweredHistory, removed model.IDSet) []ToolRate {
	rates := make([]ToolRate, 0, len(tools))
	for name, tool := range tools {
		rate := ToolRate{Name: name}
		for _, id := range tool.IDs() {
			if removed.Has(id) {
				continue
			}
			rate.Total++
			if results := history[id]; len(results) > 0 && sampler.IsMastered(sampler.Weight(results)) {
				rate.Mastered++
			}
		}
		if rate.Total == 0 {
			rate.AllRemoved = true
		} else {
			rate.Rate = rate.Mastered * 100 / rate.Total
		}
		rates = append(rates, rate)
	}
	sort.Slice(rates, func(i, j int) bool {
		return rates[i].Name < rates[j].Name
	})
	return rates
}

// ShortcutStatuses builds per-shortcut rows in catalog order.
func ShortcutStatuses(shortcuts []model.Shortcut, history model.AnsweredHistory, removed model.IDSet) []ShortcutStatus {
	out := make([]ShortcutStatus, 0, len(shortcuts))
	for _, sc := range shortcuts {
		results := history[sc.ID]
		status := ShortcutStatus{
			Shortcut: sc,
			Answers:  len(results),
			Weight:   sampler.Weight(results),
			Removed:  removed.Has(sc.ID),
		}
		for _, ok := range results {
			if ok {
				status.Correct++
			}
		}
		status.Mastered = status.Answered() && sampler.IsMastered(status.Weight)
		out = append(out, status)
	}
	return out
}

// WeakestShortcuts returns up to n answered, non-removed shortcuts with the
// highest weight. Ties keep id order.
func WeakestShortcuts(statuses []ShortcutStatus, n int) []ShortcutStatus {
	if n <= 0 {
		return nil
	}
	candidates := make([]ShortcutStatus, 0, len(statuses))
	for _, s := range statuses {
		if s.Answered() && !s.Removed {
			candidates = append(candidates, s)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Weight == candidates[j].Weight {
			return candidates[i].Shortcut.ID < candidates[j].Shortcut.ID
		}
		return candidates[i].Weight > candidates[j].Weight
	})
	if n > len(candidates) {
		n = len(candidates)
	}
	return candidates[:n]
}
