package domain

import (
	"context"
	"time"
)

// Audit actions.
const (
	AuditEventRegistered       = "EVENT_REGISTERED"
	AuditEventDeleted          = "EVENT_DELETED"
	AuditJustificationSent     = "JUSTIFICATION_SUBMITTED"
	AuditJustificationApproved = "JUSTIFICATION_APPROVED"
	AuditJustificationRejected = "JUSTIFICATION_REJECTED"
	AuditWorkerSaved           = "WORKER_SAVED"
	AuditWorkerDeleted         = "WORKER_DELETED"
	AuditBiometricEnrolled     = "BIOMETRIC_ENROLLED"
	AuditBiometricRemoved      = "BIOMETRIC_REMOVED"
	AuditSiteSaved             = "SITE_SAVED"
	AuditSiteDeleted           = "SITE_DELETED"
	AuditCascadeRepaired       = "CASCADE_REPAIRED"
)

// SystemActor is recorded when no authenticated user is attached to the call.
const SystemActor = "SYSTEM"

// AuditEntry is one line of the audit trail.
type AuditEntry struct {
	ID        string    `json:"id" bson:"_id"`
	Action    string    `json:"action" bson:"action"`
	Details   string    `json:"details" bson:"details"`
	Actor     string    `json:"actor" bson:"actor"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

type actorKey struct{}

// WithActor attaches the acting username to ctx.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFrom returns the acting username, or SystemActor.
func ActorFrom(ctx context.Context) string {
	if a, ok := ctx.Value(actorKey{}).(string); ok && a != "" {
		return a
	}
	return SystemActor
}
