package lambda

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/younsl/lambdactl/internal/models"
	"github.com/younsl/lambdactl/pkg/utils"
)

// ListImages returns the machine images available to the account. Like
// ListInstances, malformed entries are dropped and a non-array payload
// yields an empty slice.
func (c *Client) ListImages(ctx context.Context) ([]models.Image, error) {
	payload, err := c.Get(ctx, imagesPath, nil)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}

	entries, dropped := utils.DecodeObjectList(payload)
	if dropped > 0 {
		c.log.Debug().Int("dropped", dropped).Msg("discarded malformed image entries")
	}

	images := make([]models.Image, 0, len(entries))
	for _, entry := range entries {
		var image models.Image
		if err := json.Unmarshal(entry, &image); err != nil {
			continue
		}
		images = append(images, image)
	}
	return images, nil
}
