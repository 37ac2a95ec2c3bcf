package models

// Image represents a machine image from GET /images.
type Image struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Family       string `json:"family,omitempty"`
	Version      string `json:"version,omitempty"`
	Architecture string `json:"architecture,omitempty"`
	Region       Region `json:"region"`
	CreatedTime  string `json:"created_time,omitempty"`
	UpdatedTime  string `json:"updated_time,omitempty"`
}
