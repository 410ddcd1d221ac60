package audit

import (
	"encoding/json"
	"time"
)

type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionReview Action = "review"
)

const EntityReport = "report"

type Log struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	BranchID    *string         `json:"branchId,omitempty"`
	EntityType  string          `json:"entityType"`
	EntityID    string          `json:"entityId"`
	Action      Action          `json:"action"`
	Description string          `json:"description"`
	Before      json.RawMessage `json:"before,omitempty"`
	After       json.RawMessage `json:"after,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}
