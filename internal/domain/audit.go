package domain

import (
	"context"
	"encoding/json"
	"time"
)

// SystemActor is recorded when a change arrives without a caller name.
const SystemActor = "system"

// Audit resource types.
const (
	AuditResourceSession    = "session"
	AuditResourceAllocation = AggregateTypeAllocation
)

// AuditAction names a session or allocation operation in the audit trail.
type AuditAction string

const (
	AuditActionSessionLoad       AuditAction = "session.load"
	AuditActionSessionReload     AuditAction = "session.reload"
	AuditActionSessionDiscard    AuditAction = "session.discard"
	AuditActionSessionEditLine   AuditAction = "session.edit_line"
	AuditActionSessionAddEntry   AuditAction = "session.add_entry"
	AuditActionSessionRemoveLine AuditAction = "session.remove_lines"
	AuditActionAllocate          AuditAction = "allocation.allocate"
)

// AuditStatus is the outcome of an audited operation.
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailure AuditStatus = "failure"
)

// JSON is a free-form state snapshot.
type JSON map[string]any

// AuditLog is one row of the audit trail.
type AuditLog struct {
	ID           string
	Actor        string
	Action       string
	ResourceType string
	ResourceID   string
	RequestID    string
	BeforeState  JSON
	AfterState   JSON
	Status       string
	ErrorMessage string
	CreatedAt    time.Time
}

// NewAuditLog starts a successful audit row for resource, taking the actor and
// request ID from ctx.
func NewAuditLog(ctx context.Context, id string, action AuditAction, resourceType, resourceID string, at time.Time) *AuditLog {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		actor = SystemActor
	}

	return &AuditLog{
		ID:           id,
		Actor:        actor,
		Action:       string(action),
		ResourceType: resourceType,
		ResourceID:   resourceID,
		RequestID:    RequestIDFromContext(ctx),
		Status:       string(AuditStatusSuccess),
		CreatedAt:    at,
	}
}

// Fail marks the row as a failure caused by err.
func (l *AuditLog) Fail(err error) *AuditLog {
	l.Status = string(AuditStatusFailure)
	if err != nil {
		l.ErrorMessage = err.Error()
	}
	return l
}

// Snapshot flattens v into a JSON object through its json encoding.
// Values that do not encode to an object are stored under "value".
func Snapshot(v any) JSON {
	if v == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return JSON{"snapshot_error": err.Error()}
	}

	var obj JSON
	if err := json.Unmarshal(data, &obj); err != nil {
		var raw any
		_ = json.Unmarshal(data, &raw)
		return JSON{"value": raw}
	}
	return obj
}

// AuditFilter narrows an audit log query. Zero fields do not filter.
type AuditFilter struct {
	Actor        string
	Action       string
	ResourceType string
	ResourceID   string
	StartDate    *time.Time
	EndDate      *time.Time
	Limit        int
	Offset       int
}
