package models

// MPipelineMetrics summarises what the reconciliation pipeline has applied.
type MPipelineMetrics struct {
	AppliedUpdates    uint64 `json:"applied_updates"`
	DroppedOutOfOrder uint64 `json:"dropped_out_of_order"`
	DroppedAfterStop  uint64 `json:"dropped_after_stop"`
	LastApplied       int64  `json:"last_applied"`
}
