package models

// Finding is one long-running instance detected by the scan.
type Finding struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Status    string  `json:"status"`
	IP        string  `json:"ip"`
	StartedAt string  `json:"started_at"`
	AgeHours  float64 `json:"age_hours"`
}

// Report is the result of a long-running instance scan.
type Report struct {
	ThresholdHours   float64    `json:"threshold_hours"`
	Now              string     `json:"now"`
	LongRunning      []Finding  `json:"long_running"`
	UnknownStartTime []Instance `json:"unknown_start_time"`
}
