package lambda

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/younsl/lambdactl/internal/models"
	"github.com/younsl/lambdactl/pkg/utils"
)

// DefaultAuditMaxPages bounds a single audit-event walk. The feed is paged
// by an opaque token with no documented depth limit, so the walk must
// terminate even against a server that never stops handing out tokens.
const DefaultAuditMaxPages = 25

// DefaultActionKeywords are the audit actions treated as "the instance
// (re)started here". A restart supersedes the original launch as the
// current uptime start.
var DefaultActionKeywords = []string{
	"launch", "launched", "start", "started", "restart", "restarted",
}

// AuditEventOptions filter an audit-event walk. Zero values mean
// "unfiltered"; MaxPages <= 0 means DefaultAuditMaxPages.
type AuditEventOptions struct {
	Start        string
	End          string
	ResourceType string
	MaxPages     int
}

// AuditEventPaginator walks the paged GET /audit-events feed. Usage
// mirrors the aws-sdk-go-v2 paginators:
//
//	p := lambda.NewAuditEventPaginator(client, opts)
//	for p.HasMorePages() {
//		events, err := p.NextPage(ctx)
//		...
//	}
//
// Reaching the page ceiling stops the walk silently; callers scanning very
// deep histories may see a truncated result.
type AuditEventPaginator struct {
	client    *Client
	options   AuditEventOptions
	pageToken string
	pages     int
	done      bool
}

// NewAuditEventPaginator creates a paginator over the audit-event feed.
func NewAuditEventPaginator(client *Client, options AuditEventOptions) *AuditEventPaginator {
	if options.MaxPages <= 0 {
		options.MaxPages = DefaultAuditMaxPages
	}
	return &AuditEventPaginator{client: client, options: options}
}

// HasMorePages reports whether NextPage may yield more events.
func (p *AuditEventPaginator) HasMorePages() bool {
	return !p.done && p.pages < p.options.MaxPages
}

// NextPage fetches the next page of events. Malformed array members are
// skipped; a non-object response or a missing/empty page token ends the
// walk after the current page.
func (p *AuditEventPaginator) NextPage(ctx context.Context) ([]models.AuditEvent, error) {
	if !p.HasMorePages() {
		return nil, fmt.Errorf("no more audit event pages available")
	}
	p.pages++

	query := url.Values{}
	if p.options.Start != "" {
		query.Set("start", p.options.Start)
	}
	if p.options.End != "" {
		query.Set("end", p.options.End)
	}
	if p.options.ResourceType != "" {
		query.Set("resource_type", p.options.ResourceType)
	}
	if p.pageToken != "" {
		query.Set("page_token", p.pageToken)
	}

	payload, err := p.client.Get(ctx, auditEventsPath, query)
	if err != nil {
		p.done = true
		return nil, fmt.Errorf("list audit events: %w", err)
	}

	var page struct {
		Events    []json.RawMessage `json:"events"`
		PageToken any               `json:"page_token"`
	}
	if err := json.Unmarshal(payload, &page); err != nil {
		// Not an object-shaped page; nothing more to walk.
		p.done = true
		return nil, nil
	}

	events := make([]models.AuditEvent, 0, len(page.Events))
	for _, entry := range page.Events {
		var event models.AuditEvent
		if err := json.Unmarshal(entry, &event); err != nil {
			continue
		}
		events = append(events, event)
	}

	// An absent, null or empty token is the no-more-pages sentinel.
	p.pageToken = ""
	if page.PageToken != nil {
		p.pageToken = fmt.Sprint(page.PageToken)
	}
	if p.pageToken == "" {
		p.done = true
	}
	return events, nil
}

// CollectAuditEvents drains a full audit-event walk into a slice.
func (c *Client) CollectAuditEvents(ctx context.Context, options AuditEventOptions) ([]models.AuditEvent, error) {
	paginator := NewAuditEventPaginator(c, options)

	var events []models.AuditEvent
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		events = append(events, page...)
	}
	return events, nil
}

// InferStartTimesFromEvents cross-references instance ids against audit
// events and returns the most recent matching event time per id.
//
// An event qualifies when its lowercased action contains one of the
// keywords (events with an empty action always qualify) and its event_time
// parses. An instance matches when its id appears as a substring of any
// resource LRN, or failing that, of any string-typed additional_details
// value. The latest-wins policy is a best-effort heuristic: the provider
// documents neither audit ordering nor a stable action taxonomy.
func InferStartTimesFromEvents(events []models.AuditEvent, instanceIDs []string, actionKeywords []string) map[string]time.Time {
	ids := make([]string, 0, len(instanceIDs))
	for _, id := range instanceIDs {
		if id != "" {
			ids = append(ids, id)
		}
	}

	keywords := make([]string, 0, len(actionKeywords))
	for _, keyword := range actionKeywords {
		keywords = append(keywords, strings.ToLower(keyword))
	}

	latest := make(map[string]time.Time)
	for _, event := range events {
		action := strings.ToLower(event.Action)
		if action != "" && !containsAny(action, keywords) {
			continue
		}

		eventTime, ok := utils.ParseISO8601(event.EventTime)
		if !ok {
			continue
		}

		for _, id := range ids {
			if !eventMatchesInstance(event, id) {
				continue
			}
			if previous, seen := latest[id]; !seen || eventTime.After(previous) {
				latest[id] = eventTime
			}
		}
	}
	return latest
}

func containsAny(s string, substrings []string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func eventMatchesInstance(event models.AuditEvent, instanceID string) bool {
	for _, lrn := range event.ResourceLRNs {
		if strings.Contains(lrn, instanceID) {
			return true
		}
	}
	for _, value := range event.AdditionalDetails {
		if str, ok := value.(string); ok && strings.Contains(str, instanceID) {
			return true
		}
	}
	return false
}
