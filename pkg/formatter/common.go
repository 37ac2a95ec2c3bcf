package formatter

import (
	"fmt"
	"io"
	"time"
)

// printScanTime prints the scan timestamp and duration header row.
func printScanTime(w io.Writer, scanStartTime time.Time, scanDuration time.Duration) {
	fmt.Fprintf(w, "Scan time: %s (completed in %.2f seconds)\n",
		scanStartTime.Format("2006-01-02 15:04:05"),
		scanDuration.Seconds())
}

// orDash substitutes a dash for empty table cells.
func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
