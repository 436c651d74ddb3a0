package repository

import (
	"context"
	"database/sql"
	"fmt"

	"sourcing/internal/models"
)

//// Modification requests

func (repo *Repository) AddModificationRequest(ctx context.Context, req models.ModificationRequest) error {
	query := `
	INSERT INTO modification_requests (id, event_id, requested_by, requested_at, requested_fields, summary, note)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	fields, err := marshalColumn(req.RequestedFields)
	if err != nil {
		return fmt.Errorf("repository.Repository.AddModificationRequest: %w", err)
	}
	summary, err := marshalColumn(req.Summary)
	if err != nil {
		return fmt.Errorf("repository.Repository.AddModificationRequest: %w", err)
	}

	_, err = repo.db.ExecContext(ctx, query, req.Id, req.EventId, req.RequestedBy, req.RequestedAt, fields, summary, req.Note)
	if err != nil {
		return fmt.Errorf("repository.Repository.AddModificationRequest: %w", err)
	}

	return nil
}

func (repo *Repository) GetModificationRequests(ctx context.Context, eventId string, limit, offset int) ([]models.ModificationRequest, error) {
	query := `
	SELECT id, event_id, requested_by, requested_at, requested_fields, summary, note
	FROM modification_requests
	WHERE event_id = $1
	ORDER BY requested_at
	LIMIT $2
	OFFSET $3
	`

	var limitParam any
	if limit > 0 {
		limitParam = limit
	}

	rows, err := repo.db.QueryContext(ctx, query, eventId, limitParam, offset)
	if err != nil {
		return nil, fmt.Errorf("repository.Repository.GetModificationRequests: %w", err)
	}
	defer rows.Close()

	var result []models.ModificationRequest
	for rows.Next() {
		var req models.ModificationRequest
		var fields, summary []byte

		err = rows.Scan(&req.Id, &req.EventId, &req.RequestedBy, &req.RequestedAt, &fields, &summary, &req.Note)
		if err != nil {
			return nil, fmt.Errorf("repository.Repository.GetModificationRequests: row scan failed: %w", err)
		}
		if err = unmarshalColumn(fields, &req.RequestedFields); err != nil {
			return nil, fmt.Errorf("repository.Repository.GetModificationRequests: %w", err)
		}
		if err = unmarshalColumn(summary, &req.Summary); err != nil {
			return nil, fmt.Errorf("repository.Repository.GetModificationRequests: %w", err)
		}
		result = append(result, req)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("repository.Repository.GetModificationRequests: %w", rows.Err())
	}

	return result, nil
}

//// Modification snapshots

// SaveSnapshot stores the pre-edit snapshot for an event's active
// modification session. At most one snapshot exists per event.
func (repo *Repository) SaveSnapshot(ctx context.Context, eventId string, snap models.ModificationSnapshot) error {
	query := `
	INSERT INTO modification_snapshots (event_id, snapshot)
	VALUES ($1, $2)
	ON CONFLICT (event_id) DO UPDATE SET snapshot = $2, created_at = now()
	`

	data, err := marshalColumn(snap)
	if err != nil {
		return fmt.Errorf("repository.Repository.SaveSnapshot: %w", err)
	}

	_, err = repo.db.ExecContext(ctx, query, eventId, data)
	if err != nil {
		return fmt.Errorf("repository.Repository.SaveSnapshot: %w", err)
	}

	return nil
}

func (repo *Repository) GetSnapshot(ctx context.Context, eventId string) (models.ModificationSnapshot, bool, error) {
	var snap models.ModificationSnapshot
	var data []byte

	query := `SELECT snapshot FROM modification_snapshots WHERE event_id = $1 LIMIT 1`

	row := repo.db.QueryRowContext(ctx, query, eventId)
	err := row.Scan(&data)
	if err == sql.ErrNoRows {
		return snap, false, nil
	} else if err != nil {
		return snap, false, fmt.Errorf("repository.Repository.GetSnapshot: %w", err)
	}

	if err = unmarshalColumn(data, &snap); err != nil {
		return snap, false, fmt.Errorf("repository.Repository.GetSnapshot: %w", err)
	}

	return snap, true, nil
}

func (repo *Repository) DeleteSnapshot(ctx context.Context, eventId string) error {
	query := `DELETE FROM modification_snapshots WHERE event_id = $1`

	_, err := repo.db.ExecContext(ctx, query, eventId)
	if err != nil {
		return fmt.Errorf("repository.Repository.DeleteSnapshot: %w", err)
	}

	return nil
}
