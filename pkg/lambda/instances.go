package lambda

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/younsl/lambdactl/internal/models"
	"github.com/younsl/lambdactl/pkg/utils"
)

// Recognized spellings of the start-time tag. Either is accepted when
// looking up the other, so older instances tagged with the underscore
// variant keep working.
const (
	StartedAtTagKey       = "started-at"
	legacyStartedAtTagKey = "started_at"
)

// ListInstances returns all instances visible to the API key. Non-object
// entries in the response are discarded; a non-array payload yields an
// empty slice.
func (c *Client) ListInstances(ctx context.Context) ([]models.Instance, error) {
	payload, err := c.Get(ctx, instancesPath, nil)
	if err != nil {
		return nil, fmt.Errorf("list instances: %w", err)
	}

	entries, dropped := utils.DecodeObjectList(payload)
	if dropped > 0 {
		c.log.Debug().Int("dropped", dropped).Msg("discarded malformed instance entries")
	}

	instances := make([]models.Instance, 0, len(entries))
	for _, entry := range entries {
		var instance models.Instance
		if err := json.Unmarshal(entry, &instance); err != nil {
			continue
		}
		instances = append(instances, instance)
	}
	return instances, nil
}

// FileSystemMount attaches a filesystem at a mount point inside the instance.
type FileSystemMount struct {
	MountPoint   string `json:"mount_point"`
	FileSystemID string `json:"file_system_id"`
}

// FirewallRuleset references a firewall ruleset by id.
type FirewallRuleset struct {
	ID string `json:"id"`
}

// LaunchRequest describes an instance launch. RegionName,
// InstanceTypeName and SSHKeyName are required; everything else is
// omitted from the wire payload when unset.
type LaunchRequest struct {
	RegionName       string
	InstanceTypeName string
	SSHKeyName       string
	Quantity         int

	Name     string
	Hostname string

	// ImageID and ImageFamily are mutually exclusive.
	ImageID     string
	ImageFamily string

	FileSystemNames  []string
	FileSystemMounts []FileSystemMount
	UserData         string
	Tags             []models.Tag
	FirewallRulesets []FirewallRuleset
}

type launchImage struct {
	ID     string `json:"id,omitempty"`
	Family string `json:"family,omitempty"`
}

type launchPayload struct {
	RegionName       string            `json:"region_name"`
	InstanceTypeName string            `json:"instance_type_name"`
	SSHKeyNames      []string          `json:"ssh_key_names"`
	Quantity         int               `json:"quantity"`
	Name             string            `json:"name,omitempty"`
	Hostname         string            `json:"hostname,omitempty"`
	Image            *launchImage      `json:"image,omitempty"`
	FileSystemNames  []string          `json:"file_system_names,omitempty"`
	FileSystemMounts []FileSystemMount `json:"file_system_mounts,omitempty"`
	UserData         string            `json:"user_data,omitempty"`
	Tags             []models.Tag      `json:"tags,omitempty"`
	FirewallRulesets []FirewallRuleset `json:"firewall_rulesets,omitempty"`
}

// Validate rejects malformed launch requests before any network call.
func (r LaunchRequest) Validate() error {
	if r.ImageID != "" && r.ImageFamily != "" {
		return fmt.Errorf("provide only one of image id or image family")
	}
	return nil
}

func (r LaunchRequest) payload() launchPayload {
	quantity := r.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	payload := launchPayload{
		RegionName:       r.RegionName,
		InstanceTypeName: r.InstanceTypeName,
		SSHKeyNames:      []string{r.SSHKeyName},
		Quantity:         quantity,
		Name:             r.Name,
		Hostname:         r.Hostname,
		FileSystemNames:  r.FileSystemNames,
		FileSystemMounts: r.FileSystemMounts,
		UserData:         r.UserData,
		Tags:             r.Tags,
		FirewallRulesets: r.FirewallRulesets,
	}
	if r.ImageID != "" {
		payload.Image = &launchImage{ID: r.ImageID}
	} else if r.ImageFamily != "" {
		payload.Image = &launchImage{Family: r.ImageFamily}
	}
	return payload
}

// LaunchInstances launches one or more on-demand instances.
func (c *Client) LaunchInstances(ctx context.Context, request LaunchRequest) (json.RawMessage, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}
	payload, err := c.Post(ctx, launchPath, request.payload())
	if err != nil {
		return nil, fmt.Errorf("launch instances: %w", err)
	}
	return payload, nil
}

// LaunchRaw posts a caller-supplied launch payload, for launches driven by
// a JSON request file. Non-object payloads are rejected before dispatch.
func (c *Client) LaunchRaw(ctx context.Context, payload map[string]any) (json.RawMessage, error) {
	if payload == nil {
		return nil, fmt.Errorf("launch payload must be a JSON object")
	}
	data, err := c.Post(ctx, launchPath, payload)
	if err != nil {
		return nil, fmt.Errorf("launch instances: %w", err)
	}
	return data, nil
}

// TerminateInstance terminates a single instance by id.
func (c *Client) TerminateInstance(ctx context.Context, instanceID string) (json.RawMessage, error) {
	body := map[string][]string{"instance_ids": {instanceID}}
	payload, err := c.Post(ctx, terminatePath, body)
	if err != nil {
		return nil, fmt.Errorf("terminate instance %s: %w", instanceID, err)
	}
	return payload, nil
}

// InferInstanceStartTime resolves an instance's start time from its tags,
// falling back to an audit-event-derived estimate supplied by the caller.
// When tagKey is one of the recognized start-time spellings, the other
// spelling is checked as a compatibility fallback. A parseable tag value
// always wins over the audit estimate.
func InferInstanceStartTime(instance models.Instance, tagKey string, auditFallback *time.Time) *time.Time {
	value, ok := utils.GetTagValue(instance.Tags, tagKey)
	if !ok || value == "" {
		switch tagKey {
		case StartedAtTagKey:
			value, _ = utils.GetTagValue(instance.Tags, legacyStartedAtTagKey)
		case legacyStartedAtTagKey:
			value, _ = utils.GetTagValue(instance.Tags, StartedAtTagKey)
		}
	}
	if value != "" {
		if parsed, ok := utils.ParseISO8601(value); ok {
			return &parsed
		}
	}
	return auditFallback
}

// EnsureStartedAtTag injects a started-at tag into a raw launch payload
// when no start-time tag spelling is present, so later long-running checks
// do not need the audit-event fallback. Payloads with a non-array "tags"
// member are left untouched.
func EnsureStartedAtTag(payload map[string]any, now time.Time) {
	tags, ok := payload["tags"].([]any)
	if !ok {
		if _, present := payload["tags"]; present {
			return
		}
		tags = []any{}
	}

	for _, entry := range tags {
		tag, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		switch tag["key"] {
		case StartedAtTagKey, legacyStartedAtTagKey:
			return
		}
	}

	payload["tags"] = append(tags, map[string]any{
		"key":   StartedAtTagKey,
		"value": utils.FormatUTC(now.Truncate(time.Second)),
	})
}
