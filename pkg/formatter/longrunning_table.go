package formatter

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/younsl/lambdactl/internal/models"
)

// PrintLongRunningTable prints the findings of a long-running scan.
func PrintLongRunningTable(out io.Writer, report models.Report) {
	if len(report.LongRunning) == 0 {
		fmt.Fprintf(out, "No instances running longer than %.1f hours.\n", report.ThresholdHours)
		return
	}

	findings := make([]models.Finding, len(report.LongRunning))
	copy(findings, report.LongRunning)

	// Oldest first
	sort.Slice(findings, func(i, j int) bool {
		return findings[i].AgeHours > findings[j].AgeHours
	})

	w := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)

	fmt.Fprintf(w, "Threshold: %.1f hours (as of %s)\n", report.ThresholdHours, report.Now)

	fmt.Fprintln(w, "ID\tNAME\tSTATUS\tIP\tSTARTED AT\tAGE (HOURS)")

	for _, finding := range findings {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%.2f\n",
			finding.ID,
			getInstanceName(finding.Name),
			orDash(finding.Status),
			orDash(finding.IP),
			finding.StartedAt,
			finding.AgeHours,
		)
	}

	fmt.Fprintf(w, "Total:\t%d\n", len(findings))
	w.Flush()
}

// PrintLongRunningSummary displays age-bucket counts for the findings plus
// the instances whose start time could not be resolved.
func PrintLongRunningSummary(out io.Writer, report models.Report) {
	if len(report.LongRunning) == 0 && len(report.UnknownStartTime) == 0 {
		return
	}

	ageRanges := map[string]int{
		"1 day or less": 0,
		"2-7 days":      0,
		"8-30 days":     0,
		"Over 30 days":  0,
	}

	for _, finding := range report.LongRunning {
		days := finding.AgeHours / 24
		switch {
		case days <= 1:
			ageRanges["1 day or less"]++
		case days <= 7:
			ageRanges["2-7 days"]++
		case days <= 30:
			ageRanges["8-30 days"]++
		default:
			ageRanges["Over 30 days"]++
		}
	}

	fmt.Fprintln(out, "\n## Long-Running Instances Summary")

	w := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)

	fmt.Fprintln(w, "AGE\tINSTANCE COUNT")

	keys := []string{"1 day or less", "2-7 days", "8-30 days", "Over 30 days"}
	for _, key := range keys {
		fmt.Fprintf(w, "%s\t%d\n", key, ageRanges[key])
	}

	if n := len(report.UnknownStartTime); n > 0 {
		fmt.Fprintf(w, "Unknown start time\t%d\n", n)
	}

	w.Flush()
}
