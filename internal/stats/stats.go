// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/tuikeys/internal/keyboard"
	"github.com/verte-zerg/tuikeys/internal/model"
)

const (
	sparkChars  = " .:-=+*#%@"
	barFull     = "#"
	barEmpty    = "."
	colorGreen  = "\x1b[32m"
	colorYellow = "\x1b[33m"
	colorReset  = "\x1b[0m"
)

// RunAccuracy returns correct/(correct+wrong), or 0 for an empty run.
func RunAccuracy(correct, wrong int) float64 {
	den := correct + wrong
	if den <= 0 {
		return 0
	}
	return float64(correct) / float64(den)
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RateBar renders rate (0..100) as a fixed-width bar.
func RateBar(rate, width int) string {
	if width <= 0 {
		return ""
	}
	if rate < 0 {
		rate = 0
	}
	if rate > 100 {
		rate = 100
	}
	filled := rate * width / 100
	return strings.Repeat(barFull, filled) + strings.Repeat(barEmpty, width-filled)
}

// RunAccuracies returns per-run accuracy percentages in run order.
func RunAccuracies(runs []model.Run) []float64 {
	out := make([]float64, len(runs))
	for i, r := range runs {
		out[i] = RunAccuracy(r.Correct, r.Wrong) * 100
	}
	return out
}

// RenderStatus prints the status buckets of the selected shortcuts.
func RenderStatus(w io.Writer, counts StatusCounts) error {
	if _, err := fmt.Fprintln(w, "Status"); err != nil {
		return err
	}
	headers := []string{"Status", "Included", "Removed", "Total"}
	rows := [][]string{
		bucketRow("Mastered", counts.Mastered),
		bucketRow("Unmastered", counts.Unmastered),
		bucketRow("Not answered", counts.NoAnswered),
		{"All", "", "", fmt.Sprintf("%d", counts.Total())},
	}
	return writeTable(w, headers, rows, map[int]bool{1: true, 2: true, 3: true})
}

func bucketRow(name string, b Bucket) []string {
	return []string{
		name,
		fmt.Sprintf("%d", b.Included),
		fmt.Sprintf("%d", b.Removed),
		fmt.Sprintf("%d", b.Total()),
	}
}

// RenderToolRates prints the mastered rate of each tool with a bar sized to totalWidth.
func RenderToolRates(w io.Writer, rates []ToolRate, totalWidth int, useColor bool) error {
	if len(rates) == 0 {
		_, err := fmt.Fprintln(w, "No tools found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Mastered Rate"); err != nil {
		return err
	}
	nameWidth := len("Tool")
	for _, r := range rates {
		if n := displayWidth(r.Name); n > nameWidth {
			nameWidth = n
		}
	}
	// name, rate column ("100%"), count column and separators.
	barWidth := totalWidth - nameWidth - 4 - 12 - 3
	if barWidth < 10 {
		barWidth = 10
	}
	headers := []string{"Tool", "Rate", "Progress", "Mastered"}
	rows := make([][]string, 0, len(rates))
	for _, r := range rates {
		rate := fmt.Sprintf("%d%%", r.Rate)
		bar := RateBar(r.Rate, barWidth)
		count := fmt.Sprintf("%d/%d", r.Mastered, r.Total)
		if r.AllRemoved {
			rate = "-"
			bar = strings.Repeat(barEmpty, barWidth)
			count = "all removed"
		}
		if useColor && !r.AllRemoved {
			color := colorYellow
			if r.Rate == 100 {
				color = colorGreen
			}
			bar = color + bar + colorReset
		}
		rows = append(rows, []string{r.Name, rate, bar, count})
	}
	return writeTable(w, headers, rows, map[int]bool{1: true, 3: true})
}

// RenderShortcutTable prints per-shortcut status rows.
func RenderShortcutTable(w io.Writer, title string, statuses []ShortcutStatus) error {
	if len(statuses) == 0 {
		_, err := fmt.Fprintln(w, "No shortcuts found.")
		return err
	}
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	headers := []string{"ID", "Keys", "Description", "Answers", "Accuracy", "Weight", "Status"}
	rows := make([][]string, 0, len(statuses))
	for _, s := range statuses {
		rows = append(rows, ShortcutRow(s))
	}
	return writeTable(w, headers, rows, map[int]bool{3: true, 4: true, 5: true})
}

// ShortcutRow formats a status as table cells.
func ShortcutRow(s ShortcutStatus) []string {
	keys := make([]string, 0, len(s.Shortcut.KeyCombinations))
	for _, spec := range s.Shortcut.KeyCombinations {
		keys = append(keys, keyboard.FormatSpec(spec))
	}
	keyCell := strings.Join(keys, " | ")
	if !s.Shortcut.IsAvailable {
		keyCell = "(self-graded)"
	}
	accuracy := "-"
	if s.Answered() {
		accuracy = fmt.Sprintf("%.0f%%", s.Accuracy()*100)
	}
	return []string{
		s.Shortcut.ID,
		keyCell,
		s.Shortcut.Description,
		fmt.Sprintf("%d", s.Answers),
		accuracy,
		fmt.Sprintf("%.2f", s.Weight),
		StatusLabel(s),
	}
}

// StatusLabel names the mastery status of s.
func StatusLabel(s ShortcutStatus) string {
	label := "new"
	switch {
	case s.Mastered:
		label = "mastered"
	case s.Answered():
		label = "learning"
	}
	if s.Removed {
		label += " (removed)"
	}
	return label
}

// RenderRunTrend prints a sparkline of run accuracy smoothed over window runs.
func RenderRunTrend(w io.Writer, runs []model.Run, window int) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs recorded.")
		return err
	}
	accs := MovingAverage(RunAccuracies(runs), window)
	var correct, wrong int
	for _, r := range runs {
		correct += r.Correct
		wrong += r.Wrong
	}
	if _, err := fmt.Fprintln(w, "Runs"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Runs: %d  Correct: %d  Wrong: %d  Accuracy: %.2f%%\n",
		len(runs), correct, wrong, RunAccuracy(correct, wrong)*100); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Trend: [%s]\n", Sparkline(accs)); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderReport prints every section of r.
func RenderReport(w io.Writer, r Report, totalWidth int, useColor bool) error {
	if err := RenderStatus(w, r.Counts); err != nil {
		return err
	}
	if err := RenderToolRates(w, r.Rates, totalWidth, useColor); err != nil {
		return err
	}
	if err := RenderRunTrend(w, r.Runs, r.CurveWindow); err != nil {
		return err
	}
	if weakest := WeakestShortcuts(r.Shortcuts, weakestLimit); len(weakest) > 0 {
		return RenderShortcutTable(w, "Weakest Shortcuts", weakest)
	}
	return nil
}

func writeTable(w io.Writer, headers []string, rows [][]string, rightAlign map[int]bool) error {
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
