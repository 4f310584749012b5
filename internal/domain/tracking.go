package domain

import "time"

// IngestionStage is the coarse progress marker exposed by the tracker
// for an in-flight ingestion request (§4.5).
type IngestionStage string

const (
	StageProfileFetch      IngestionStage = "profile_fetch"
	StageOrganizationFetch IngestionStage = "organization_fetch"
	StageCompleted         IngestionStage = "completed"
)

// RunStatus is the terminal/non-terminal status of a tracked request.
type RunStatus string

const (
	RunStatusRunning RunStatus = "running"
	RunStatusSuccess RunStatus = "success"
	RunStatusFailed  RunStatus = "failed"
)

// IngestionCounters records the per-request organization enrichment
// counters surfaced at finalize time (§4.5 step 9).
type IngestionCounters struct {
	OrganizationsRequested int `json:"organizations_requested"`
	OrganizationsResolved  int `json:"organizations_resolved"`
	OrganizationsLinked    int `json:"organizations_linked"`
}

// IngestionRecord is a snapshot of one process_profile invocation as held
// by the state tracker (C10).
type IngestionRecord struct {
	RequestID string         `json:"request_id"`
	Status    RunStatus      `json:"status"`
	Stage     IngestionStage `json:"stage"`
	Step      int            `json:"step"`
	TotalSteps int           `json:"total_steps"`

	ProfileID string `json:"profile_id,omitempty"`

	Counters IngestionCounters `json:"counters"`

	ErrorCode    string `json:"error_code,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`

	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}

// IsTerminal reports whether the record has reached a terminal status.
func (r *IngestionRecord) IsTerminal() bool {
	return r.Status == RunStatusSuccess || r.Status == RunStatusFailed
}

// HealthStatus is the classification returned by the Health Validator (C9).
type HealthStatus string

const (
	HealthHealthy   HealthStatus = "healthy"
	HealthDegraded  HealthStatus = "degraded"
	HealthUnhealthy HealthStatus = "unhealthy"
)

// HealthReport is the result of a comprehensive health probe.
type HealthReport struct {
	Status            HealthStatus  `json:"status"`
	ProfileCheckOK     bool          `json:"profile_check_ok"`
	OrganizationCheckOK bool         `json:"organization_check_ok"`
	CompletenessRatio  float64       `json:"completeness_ratio"`
	Latency            time.Duration `json:"latency_ns"`
	Detail             string        `json:"detail,omitempty"`
}
