package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/younsl/lambdactl/internal/models"
)

func TestGetTagValue(t *testing.T) {
	tags := []models.Tag{
		{Key: "team", Value: "ml"},
		{Key: "started-at", Value: "2025-12-16T00:00:00Z"},
	}

	value, ok := GetTagValue(tags, "started-at")
	assert.True(t, ok)
	assert.Equal(t, "2025-12-16T00:00:00Z", value)

	_, ok = GetTagValue(tags, "missing")
	assert.False(t, ok)

	assert.True(t, HasTag(tags, "team"))
	assert.False(t, HasTag(nil, "team"))

	assert.Equal(t, map[string]string{
		"team":       "ml",
		"started-at": "2025-12-16T00:00:00Z",
	}, GetTagsMap(tags))
}
