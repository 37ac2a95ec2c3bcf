package utils

import "github.com/younsl/lambdactl/internal/models"

// GetTagValue returns the value of a tag with the given key.
func GetTagValue(tags []models.Tag, key string) (string, bool) {
	for _, tag := range tags {
		if tag.Key == key {
			return tag.Value, true
		}
	}
	return "", false
}

// HasTag checks if a resource has a tag with the given key.
func HasTag(tags []models.Tag, key string) bool {
	_, ok := GetTagValue(tags, key)
	return ok
}

// GetTagsMap converts a slice of tags to a map.
func GetTagsMap(tags []models.Tag) map[string]string {
	result := make(map[string]string)
	for _, tag := range tags {
		result[tag.Key] = tag.Value
	}
	return result
}
