package models

// Tag is a single key/value pair attached to an instance.
type Tag struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Instance represents a Lambda Cloud on-demand instance as returned by
// GET /instances. Fields not needed by the CLI are intentionally omitted;
// the API may return more.
type Instance struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Status   string `json:"status"`
	IP       string `json:"ip"`
	Hostname string `json:"hostname,omitempty"`
	Region   Region `json:"region"`
	Tags     []Tag  `json:"tags,omitempty"`

	InstanceType InstanceType `json:"instance_type"`
}

// Region identifies a Lambda Cloud region.
type Region struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// InstanceType describes the hardware flavor of an instance.
type InstanceType struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	GPUs        int    `json:"gpus,omitempty"`
}
