package storage

import (
	"context"
	"database/sql"

	"github.com/certlane/certlane/pkg/cert_service/model"
)

type StorageContextKey string

const (
	TRANSACTION StorageContextKey = "transaction"
)

type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	Exec(ctx context.Context, sql string, arguments ...any) (Result, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

type Rows interface {
	Close()
	Err() error
	Next() bool
	Scan(dest ...any) error
}

type Row interface {
	Scan(dest ...any) error
}

type Result interface {
	// RowsAffected returns the number of rows affected by an
	// update, insert, or delete. Not every database or database
	// driver may support this.
	RowsAffected() (int64, error)
}

type CreateTxOption func(*sql.TxOptions)

type TransactionInterface interface {
	CreateTx(ctx context.Context, options ...CreateTxOption) (Tx, context.Context, error)
}

func TxOptionWithWrite(write bool) CreateTxOption {
	return func(option *sql.TxOptions) {
		option.ReadOnly = !write
	}
}

func TxOptionWithIsolationLevel(level sql.IsolationLevel) CreateTxOption {
	return func(option *sql.TxOptions) {
		option.Isolation = level
	}
}

type ListAuditEventsRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`

	CertificateNames []string             `json:"certificate_names"`
	Operations       []string             `json:"operations"`
	Outcomes         []model.AuditOutcome `json:"outcomes"`
}

type ListAuditEventsResponse struct {
	Total  int64              `json:"total"`
	Events []model.AuditEvent `json:"events"`
}

// AuditStorage persists the append-only lifecycle audit log. Unpublished
// events form the outbox drained by the notifier.
type AuditStorage interface {
	TransactionInterface

	AddAuditEvent(ctx context.Context, tx Tx, event model.AuditEvent) error
	ListAuditEvents(ctx context.Context, tx Tx, req ListAuditEventsRequest) (ListAuditEventsResponse, error)
	GetUnpublishedAuditEvents(ctx context.Context, tx Tx, batchSize int) ([]model.AuditEvent, error)
	MarkAuditEventsPublished(ctx context.Context, tx Tx, ids []string) error
}
