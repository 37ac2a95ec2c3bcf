// Package scan detects long-running instances: instances whose inferred
// start time is older than a caller-supplied threshold. Start times come
// from a started-at instance tag when present, with a best-effort fallback
// that mines the account's audit-event feed.
package scan

import (
	"context"
	"fmt"
	"time"

	"github.com/younsl/lambdactl/internal/models"
	"github.com/younsl/lambdactl/pkg/lambda"
	"github.com/younsl/lambdactl/pkg/utils"
)

// DefaultAuditWindow is how far back the audit-event fallback looks.
const DefaultAuditWindow = 14 * 24 * time.Hour

// Options configure a long-running scan.
type Options struct {
	// ThresholdHours is the age at which an instance counts as long-running.
	ThresholdHours float64

	// TagKey is the instance tag holding an ISO-8601 start time.
	// Defaults to started-at.
	TagKey string

	// Now anchors age computation; zero means time.Now in UTC.
	Now time.Time

	// FallbackAuditEvents enables audit-event inference for instances
	// without a usable start-time tag.
	FallbackAuditEvents bool
	AuditWindow         time.Duration
	AuditResourceType   string
	AuditMaxPages       int
	ActionKeywords      []string
}

func (o *Options) applyDefaults() {
	if o.TagKey == "" {
		o.TagKey = lambda.StartedAtTagKey
	}
	if o.Now.IsZero() {
		o.Now = time.Now().UTC()
	}
	if o.AuditWindow <= 0 {
		o.AuditWindow = DefaultAuditWindow
	}
	if o.AuditResourceType == "" {
		o.AuditResourceType = "instance"
	}
	if len(o.ActionKeywords) == 0 {
		o.ActionKeywords = lambda.DefaultActionKeywords
	}
}

// ClassifyLongRunning buckets instances by age. Instances whose start time
// cannot be resolved from the tag or the audit map land in the unknown
// bucket; the rest are findings iff their age meets the threshold.
func ClassifyLongRunning(instances []models.Instance, auditStartTimes map[string]time.Time, options Options) models.Report {
	options.applyDefaults()

	report := models.Report{
		ThresholdHours:   options.ThresholdHours,
		Now:              utils.FormatUTC(options.Now),
		LongRunning:      []models.Finding{},
		UnknownStartTime: []models.Instance{},
	}

	for _, instance := range instances {
		var auditFallback *time.Time
		if t, ok := auditStartTimes[instance.ID]; ok {
			auditFallback = &t
		}

		startTime := lambda.InferInstanceStartTime(instance, options.TagKey, auditFallback)
		if startTime == nil {
			report.UnknownStartTime = append(report.UnknownStartTime, instance)
			continue
		}

		ageHours := utils.HoursSince(*startTime, options.Now)
		if ageHours >= options.ThresholdHours {
			report.LongRunning = append(report.LongRunning, models.Finding{
				ID:        instance.ID,
				Name:      instance.Name,
				Status:    instance.Status,
				IP:        instance.IP,
				StartedAt: utils.FormatUTC(*startTime),
				AgeHours:  utils.RoundHours(ageHours),
			})
		}
	}
	return report
}

// Run performs a full long-running scan: list instances, optionally mine
// the audit-event feed for start times, classify.
func Run(ctx context.Context, client *lambda.Client, options Options) (models.Report, error) {
	options.applyDefaults()

	instances, err := client.ListInstances(ctx)
	if err != nil {
		return models.Report{}, fmt.Errorf("long-running scan: %w", err)
	}

	instanceIDs := make([]string, 0, len(instances))
	for _, instance := range instances {
		if instance.ID != "" {
			instanceIDs = append(instanceIDs, instance.ID)
		}
	}

	auditStartTimes := map[string]time.Time{}
	if options.FallbackAuditEvents && len(instanceIDs) > 0 {
		events, err := client.CollectAuditEvents(ctx, lambda.AuditEventOptions{
			Start:        utils.FormatUTC(options.Now.Add(-options.AuditWindow)),
			End:          utils.FormatUTC(options.Now),
			ResourceType: options.AuditResourceType,
			MaxPages:     options.AuditMaxPages,
		})
		if err != nil {
			return models.Report{}, fmt.Errorf("long-running scan: %w", err)
		}
		auditStartTimes = lambda.InferStartTimesFromEvents(events, instanceIDs, options.ActionKeywords)
	}

	return ClassifyLongRunning(instances, auditStartTimes, options), nil
}
