package formatter

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/younsl/lambdactl/internal/models"
)

func sampleReport() models.Report {
	return models.Report{
		ThresholdHours: 24,
		Now:            "2025-12-17T01:00:00Z",
		LongRunning: []models.Finding{
			{ID: "i-1", Name: "trainer", Status: "active", IP: "10.0.0.1",
				StartedAt: "2025-12-16T00:00:00Z", AgeHours: 25.0},
			{ID: "i-2", Name: "", Status: "active", IP: "10.0.0.2",
				StartedAt: "2025-12-10T00:00:00Z", AgeHours: 169.0},
		},
		UnknownStartTime: []models.Instance{{ID: "i-3"}},
	}
}

func TestPrintLongRunningTable(t *testing.T) {
	var buf bytes.Buffer
	PrintLongRunningTable(&buf, sampleReport())
	out := buf.String()

	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "AGE (HOURS)")
	assert.Contains(t, out, "i-1")
	assert.Contains(t, out, "25.00")
	assert.Contains(t, out, "<unnamed>")
	assert.Contains(t, out, "Total:")

	// Sorted oldest first.
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("i-2")), bytes.Index(buf.Bytes(), []byte("i-1")))
}

func TestPrintLongRunningTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	PrintLongRunningTable(&buf, models.Report{ThresholdHours: 24})

	assert.Contains(t, buf.String(), "No instances running longer than 24.0 hours.")
}

func TestPrintLongRunningSummaryCountsBuckets(t *testing.T) {
	var buf bytes.Buffer
	PrintLongRunningSummary(&buf, sampleReport())
	out := buf.String()

	assert.Contains(t, out, "Long-Running Instances Summary")
	assert.Contains(t, out, "1 day or less")
	assert.Contains(t, out, "Unknown start time")
}
