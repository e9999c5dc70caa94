package lifecycle

import (
	"context"
	"database/sql"

	"github.com/certlane/certlane/pkg/cert_service/model"
	"github.com/certlane/certlane/pkg/cert_service/storage"
	"github.com/certlane/certlane/pkg/util"
	"github.com/sirupsen/logrus"
)

// Auditor records the outcome of orchestrated operations. Recording is
// best-effort: a failed audit write never alters the operation result.
type Auditor interface {
	Record(ctx context.Context, ts int64, requester model.Requester, operation, certificateName string, opErr error)
}

type NopAuditor struct{}

func (NopAuditor) Record(ctx context.Context, ts int64, requester model.Requester, operation, certificateName string, opErr error) {
}

type StorageAuditor struct {
	storage storage.AuditStorage
}

func NewStorageAuditor(auditStorage storage.AuditStorage) *StorageAuditor {
	return &StorageAuditor{storage: auditStorage}
}

func (a *StorageAuditor) Record(ctx context.Context, ts int64, requester model.Requester, operation, certificateName string, opErr error) {
	event := model.AuditEvent{
		ID:              util.NewUUID(),
		Ts:              ts,
		Requester:       requester.Name,
		Operation:       operation,
		CertificateName: certificateName,
		Outcome:         model.AuditOutcomeOK,
	}
	if opErr != nil {
		event.Outcome = model.AuditOutcomeError
		event.Detail = opErr.Error()
	}

	tx, ctx, err := a.storage.CreateTx(ctx, storage.TxOptionWithWrite(true), storage.TxOptionWithIsolationLevel(sql.LevelReadCommitted))
	if err != nil {
		logrus.Errorf("Fail to create audit transaction. %v", err)
		return
	}
	defer tx.Rollback(ctx)

	if err := a.storage.AddAuditEvent(ctx, tx, event); err != nil {
		logrus.Errorf("Fail to record audit event for %s %s. %v", operation, certificateName, err)
		return
	}
	if err := tx.Commit(ctx); err != nil {
		logrus.Errorf("Fail to commit audit event for %s %s. %v", operation, certificateName, err)
	}
}
