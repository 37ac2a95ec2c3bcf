package formatter

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/younsl/lambdactl/internal/models"
	"github.com/younsl/lambdactl/pkg/lambda"
)

// PrintInstancesTable prints a formatted table of instances.
func PrintInstancesTable(out io.Writer, instances []models.Instance, scanTime time.Time, scanDuration time.Duration) {
	if len(instances) == 0 {
		fmt.Fprintln(out, "No instances found.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)

	printScanTime(w, scanTime, scanDuration)

	fmt.Fprintln(w, "ID\tNAME\tSTATUS\tIP\tREGION\tTYPE\tSTARTED")

	for _, instance := range instances {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			instance.ID,
			getInstanceName(instance.Name),
			orDash(instance.Status),
			orDash(instance.IP),
			orDash(instance.Region.Name),
			orDash(instance.InstanceType.Name),
			formatStarted(instance),
		)
	}

	fmt.Fprintf(w, "Total:\t%d\n", len(instances))
	w.Flush()
}

// getInstanceName returns a formatted instance name or <unnamed> if empty
func getInstanceName(name string) string {
	if name == "" {
		return "<unnamed>"
	}
	return name
}

// formatStarted renders the started-at tag as a relative time, when the
// instance carries one.
func formatStarted(instance models.Instance) string {
	started := lambda.InferInstanceStartTime(instance, lambda.StartedAtTagKey, nil)
	if started == nil {
		return "Unknown"
	}
	return humanize.Time(*started)
}
