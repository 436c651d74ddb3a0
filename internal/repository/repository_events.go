package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"sourcing/internal/models"
)

const eventColumns = `
	id,
	title,
	status,
	categories,
	open_at,
	close_at,
	items,
	negotiation_controls,
	suppliers_invited,
	suppliers_selected,
	publish_on_approval,
	quotes,
	award,
	pause_reason_id,
	created_at,
	updated_at`

func (repo *Repository) prepEventsQuery(limit, offset int, eventId string, status models.EventStatus) (query string, queryParams []interface{}) {
	query = `
	SELECT ` + eventColumns + `
	FROM events
	$conditions$
	ORDER BY created_at, id
	LIMIT $1
	OFFSET $2
	`

	queryParams = make([]interface{}, 0, 4)
	conditions := make([]string, 0, 2)

	if limit <= 0 {
		queryParams = append(queryParams, nil)
	} else {
		queryParams = append(queryParams, limit)
	}
	queryParams = append(queryParams, offset)

	if len(eventId) > 0 {
		conditions = append(conditions, "id = $$")
		queryParams = append(queryParams, eventId)
	}

	if len(status) > 0 {
		conditions = append(conditions, "status = $$")
		queryParams = append(queryParams, string(status))
	}

	condStr := ""
	if len(conditions) > 0 {
		for i := 0; i < len(conditions); i++ {
			conditions[i] = strings.Replace(conditions[i], "$$", "$"+strconv.Itoa(i+3), -1)
		}
		condStr = "WHERE " + strings.Join(conditions, " AND ")
	}
	query = strings.Replace(query, "$conditions$", condStr, -1)

	return query, queryParams
}

func (repo *Repository) scanEvent(rows *sql.Rows) (models.ProcurementEvent, error) {
	var event models.ProcurementEvent
	var categories, items, controls, invited, selected, quotes, awardData []byte
	var pauseReason sql.NullString

	err := rows.Scan(&event.Id, &event.Title, &event.Status, &categories, &event.OpenAt, &event.CloseAt,
		&items, &controls, &invited, &selected, &event.PublishOnApproval, &quotes, &awardData,
		&pauseReason, &event.CreatedAt, &event.UpdatedAt)
	if err != nil {
		return event, fmt.Errorf("row scan failed: %w", err)
	}

	if err = unmarshalColumn(categories, &event.Categories); err != nil {
		return event, err
	}
	if err = unmarshalColumn(items, &event.Items); err != nil {
		return event, err
	}
	if err = unmarshalColumn(controls, &event.NegotiationControls); err != nil {
		return event, err
	}
	if err = unmarshalColumn(invited, &event.SuppliersInvited); err != nil {
		return event, err
	}
	if err = unmarshalColumn(selected, &event.SuppliersSelected); err != nil {
		return event, err
	}
	if err = unmarshalColumn(quotes, &event.Quotes); err != nil {
		return event, err
	}
	if len(awardData) > 0 {
		event.Award = &models.AwardRecord{}
		if err = unmarshalColumn(awardData, event.Award); err != nil {
			return event, err
		}
	}
	if pauseReason.Valid {
		event.PauseReasonId = pauseReason.String
	}

	return event, nil
}

func (repo *Repository) GetEvents(ctx context.Context, limit, offset int, status models.EventStatus) ([]models.ProcurementEvent, error) {
	query, queryParams := repo.prepEventsQuery(limit, offset, "", status)

	rows, err := repo.db.QueryContext(ctx, query, queryParams...)
	if err != nil {
		return nil, fmt.Errorf("repository.Repository.GetEvents: %w", err)
	}
	defer rows.Close()

	var result []models.ProcurementEvent
	for rows.Next() {
		event, err := repo.scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("repository.Repository.GetEvents: %w", err)
		}
		result = append(result, event)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("repository.Repository.GetEvents: %w", rows.Err())
	}

	return result, nil
}

func (repo *Repository) GetEventByUUID(ctx context.Context, UUID string) (models.ProcurementEvent, error) {
	var event models.ProcurementEvent
	query, queryParams := repo.prepEventsQuery(1, 0, UUID, "")

	rows, err := repo.db.QueryContext(ctx, query, queryParams...)
	if err != nil {
		return event, fmt.Errorf("repository.Repository.GetEventByUUID: %w", err)
	}
	defer rows.Close()

	if rows.Next() {
		event, err = repo.scanEvent(rows)
		if err != nil {
			return event, fmt.Errorf("repository.Repository.GetEventByUUID: %w", err)
		}
	} else {
		return event, fmt.Errorf("repository.Repository.GetEventByUUID: no event found by UUID %s, %w", UUID, sql.ErrNoRows)
	}

	if rows.Err() != nil {
		return event, fmt.Errorf("repository.Repository.GetEventByUUID: %w", rows.Err())
	}

	return event, nil
}

func (repo *Repository) eventColumnsData(event models.ProcurementEvent) ([]any, error) {
	categories, err := marshalColumn(event.Categories)
	if err != nil {
		return nil, err
	}
	items, err := marshalColumn(event.Items)
	if err != nil {
		return nil, err
	}
	controls, err := marshalColumn(event.NegotiationControls)
	if err != nil {
		return nil, err
	}
	invited, err := marshalColumn(event.SuppliersInvited)
	if err != nil {
		return nil, err
	}
	selected, err := marshalColumn(event.SuppliersSelected)
	if err != nil {
		return nil, err
	}
	quotes, err := marshalColumn(event.Quotes)
	if err != nil {
		return nil, err
	}

	var awardData any
	if event.Award != nil {
		awardData, err = marshalColumn(event.Award)
		if err != nil {
			return nil, err
		}
	}

	var pauseReason any
	if len(event.PauseReasonId) > 0 {
		pauseReason = event.PauseReasonId
	}

	return []any{
		event.Id, event.Title, string(event.Status), categories, event.OpenAt, event.CloseAt,
		items, controls, invited, selected, event.PublishOnApproval, quotes, awardData, pauseReason,
	}, nil
}

func (repo *Repository) AddEvent(ctx context.Context, event models.ProcurementEvent) (models.ProcurementEvent, error) {
	query := `
	INSERT INTO events (
		id, title, status, categories, open_at, close_at, items, negotiation_controls,
		suppliers_invited, suppliers_selected, publish_on_approval, quotes, award, pause_reason_id
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	RETURNING created_at, updated_at
	`

	params, err := repo.eventColumnsData(event)
	if err != nil {
		return event, fmt.Errorf("repository.Repository.AddEvent: %w", err)
	}

	row := repo.db.QueryRowContext(ctx, query, params...)
	err = row.Scan(&event.CreatedAt, &event.UpdatedAt)
	if err != nil {
		return event, fmt.Errorf("repository.Repository.AddEvent: %w", err)
	}

	return event, nil
}

func (repo *Repository) UpdateEvent(ctx context.Context, event models.ProcurementEvent) error {
	query := `
	UPDATE events SET
		title = $2,
		status = $3,
		categories = $4,
		open_at = $5,
		close_at = $6,
		items = $7,
		negotiation_controls = $8,
		suppliers_invited = $9,
		suppliers_selected = $10,
		publish_on_approval = $11,
		quotes = $12,
		award = $13,
		pause_reason_id = $14,
		updated_at = now()
	WHERE id = $1
	`

	params, err := repo.eventColumnsData(event)
	if err != nil {
		return fmt.Errorf("repository.Repository.UpdateEvent: %w", err)
	}

	result, err := repo.db.ExecContext(ctx, query, params...)
	if err != nil {
		return fmt.Errorf("repository.Repository.UpdateEvent: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("repository.Repository.UpdateEvent: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("repository.Repository.UpdateEvent: no event found by UUID %s, %w", event.Id, sql.ErrNoRows)
	}

	return nil
}
