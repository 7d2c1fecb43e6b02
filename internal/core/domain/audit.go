package domain

import "time"

// AuditAction names a security-relevant event.
type AuditAction string

const (
	AuditRegister      AuditAction = "register"
	AuditLoginSuccess  AuditAction = "login_success"
	AuditLoginFailure  AuditAction = "login_failure"
	AuditTokenRejected AuditAction = "token_rejected"
	AuditDeactivated   AuditAction = "identity_deactivated"
	AuditActivated     AuditAction = "identity_activated"
)

// AuditEvent is an append-only record of who did what.
type AuditEvent struct {
	ID         string
	Action     AuditAction
	Username   string
	Actor      string
	Reason     string
	RemoteAddr string
	OccurredAt time.Time
}
