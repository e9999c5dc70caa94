package model

type AuditOutcome string

const (
	AuditOutcomeOK    AuditOutcome = "ok"
	AuditOutcomeError AuditOutcome = "error"
)

// AuditEvent records one orchestrated operation. Events are append-only
// and drained to the configured webhook by the notifier.
type AuditEvent struct {
	ID              string       `json:"id"`
	Ts              int64        `json:"ts"` // Unix time (in second) of the operation.
	Requester       string       `json:"requester"`
	Operation       string       `json:"operation"`
	CertificateName string       `json:"certificate_name"`
	Outcome         AuditOutcome `json:"outcome"`
	Detail          string       `json:"detail"`
}
