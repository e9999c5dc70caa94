package postgres

import (
	"context"

	"github.com/certlane/certlane/pkg/cert_service/model"
	"github.com/certlane/certlane/pkg/cert_service/storage"
)

func (s *_Storage) AddAuditEvent(ctx context.Context, tx storage.Tx, event model.AuditEvent) error {
	const query = `
INSERT INTO audit_event (id, ts, requester, operation, certificate_name, outcome, event, published)
VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE)
`
	_, err := tx.Exec(
		ctx,
		query,
		event.ID,
		event.Ts,
		event.Requester,
		event.Operation,
		event.CertificateName,
		event.Outcome,
		event,
	)
	if err != nil {
		return err
	}
	return nil
}

func (s *_Storage) ListAuditEvents(ctx context.Context, tx storage.Tx, req storage.ListAuditEventsRequest) (storage.ListAuditEventsResponse, error) {
	const query = `
WITH filtered AS (
	SELECT rec_id, "event" FROM audit_event
	WHERE
		(COALESCE(ARRAY_LENGTH($3::TEXT[], 1), 0) = 0 OR certificate_name = ANY($3)) AND
		(COALESCE(ARRAY_LENGTH($4::TEXT[], 1), 0) = 0 OR operation = ANY($4)) AND
		(COALESCE(ARRAY_LENGTH($5::TEXT[], 1), 0) = 0 OR outcome = ANY($5))
)
, paged AS (
	SELECT "event" FROM filtered
	ORDER BY rec_id ASC
	OFFSET $1 LIMIT $2
)
, total AS (
	SELECT COUNT(*) AS total FROM filtered
)
SELECT total, "event" FROM paged FULL JOIN total ON FALSE
`
	rows, err := tx.Query(
		ctx,
		query,
		req.Offset,
		req.Limit,
		req.CertificateNames,
		req.Operations,
		req.Outcomes,
	)
	if err != nil {
		return storage.ListAuditEventsResponse{}, err
	}
	defer rows.Close()

	result := storage.ListAuditEventsResponse{}
	for rows.Next() {
		var total *int64
		var event *model.AuditEvent
		if err := rows.Scan(&total, &event); err != nil {
			return storage.ListAuditEventsResponse{}, err
		}
		if total != nil {
			result.Total = *total
		}
		if event != nil {
			result.Events = append(result.Events, *event)
		}
	}
	if err := rows.Err(); err != nil {
		return storage.ListAuditEventsResponse{}, err
	}

	return result, nil
}

func (s *_Storage) GetUnpublishedAuditEvents(ctx context.Context, tx storage.Tx, batchSize int) ([]model.AuditEvent, error) {
	const query = `SELECT "event" FROM audit_event WHERE NOT published ORDER BY rec_id ASC LIMIT $1`
	rows, err := tx.Query(ctx, query, batchSize)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]model.AuditEvent, 0, batchSize)
	for rows.Next() {
		var event model.AuditEvent
		if err := rows.Scan(&event); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

func (s *_Storage) MarkAuditEventsPublished(ctx context.Context, tx storage.Tx, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	const query = `UPDATE audit_event SET published = TRUE WHERE id = ANY($1)`
	_, err := tx.Exec(ctx, query, ids)
	if err != nil {
		return err
	}
	return nil
}
