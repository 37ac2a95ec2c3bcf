package formatter

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/younsl/lambdactl/internal/models"
)

// PrintImagesTable prints a formatted table of machine images.
func PrintImagesTable(out io.Writer, images []models.Image, scanTime time.Time, scanDuration time.Duration) {
	if len(images) == 0 {
		fmt.Fprintln(out, "No images found.")
		return
	}

	// Group related images together in the listing.
	sort.Slice(images, func(i, j int) bool {
		if images[i].Family != images[j].Family {
			return images[i].Family < images[j].Family
		}
		return images[i].Name < images[j].Name
	})

	w := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)

	printScanTime(w, scanTime, scanDuration)

	fmt.Fprintln(w, "ID\tNAME\tFAMILY\tVERSION\tARCH\tREGION")

	for _, image := range images {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			image.ID,
			orDash(image.Name),
			orDash(image.Family),
			orDash(image.Version),
			orDash(image.Architecture),
			orDash(image.Region.Name),
		)
	}

	fmt.Fprintf(w, "Total:\t%d\n", len(images))
	w.Flush()
}
