package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"request-board/internal/dto"
	"request-board/internal/entities"
)

const boardEventFields = "id, event_type, request_id, actor_id, payload, created_at"

type BoardEventRepositoryInterface interface {
	Insert(ctx context.Context, tx pgx.Tx, event *entities.BoardEvent) (*entities.BoardEvent, error)
	GetChanges(ctx context.Context, sinceID int64, requestID uuid.NullUUID) (dto.ChangesResponseDTO, error)
	List(ctx context.Context, query dto.BoardEventsQueryDTO) ([]entities.BoardEvent, uint64, error)
}

type boardEventRepository struct {
	storage *pgxpool.Pool
}

func NewBoardEventRepository(storage *pgxpool.Pool) BoardEventRepositoryInterface {
	return &boardEventRepository{storage: storage}
}

func (r *boardEventRepository) Insert(ctx context.Context, tx pgx.Tx, event *entities.BoardEvent) (*entities.BoardEvent, error) {
	query := fmt.Sprintf(`
		INSERT INTO board_events (event_type, request_id, actor_id, payload)
		VALUES ($1, $2, $3, $4)
		RETURNING %s`, boardEventFields)
	var out entities.BoardEvent
	err := tx.QueryRow(ctx, query, event.EventType, event.RequestID, event.ActorID, event.Payload).
		Scan(&out.ID, &out.EventType, &out.RequestID, &out.ActorID, &out.Payload, &out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("не удалось записать событие доски: %w", err)
	}
	return &out, nil
}

// GetChanges - примитив поллинга: сколько событий появилось после курсора
// sinceID и каков новый курсор. Когда новых событий нет, MAX(id) по пустой
// выборке даёт NULL и COALESCE возвращает клиенту его же курсор. Запрос
// только читает, поэтому вызов идемпотентен.
func (r *boardEventRepository) GetChanges(ctx context.Context, sinceID int64, requestID uuid.NullUUID) (dto.ChangesResponseDTO, error) {
	query := `SELECT COALESCE(MAX(id), $1), COUNT(*) FROM board_events WHERE id > $1`
	args := []any{sinceID}
	if requestID.Valid {
		query += ` AND request_id = $2`
		args = append(args, requestID.UUID)
	}

	var resp dto.ChangesResponseDTO
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&resp.LatestID, &resp.NewCount); err != nil {
		return dto.ChangesResponseDTO{}, err
	}
	resp.HasChanges = resp.NewCount > 0
	return resp, nil
}

func (r *boardEventRepository) List(ctx context.Context, q dto.BoardEventsQueryDTO) ([]entities.BoardEvent, uint64, error) {
	where := ""
	args := []any{}
	if q.RequestID.Valid {
		where = "WHERE request_id = $1"
		args = append(args, q.RequestID.UUID)
	}

	var total uint64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM board_events %s`, where)
	if err := r.storage.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.BoardEvent{}, 0, nil
	}

	page := q.Page
	if page == 0 {
		page = 1
	}
	pageSize := q.PageSize
	if pageSize == 0 {
		pageSize = 50
	}

	query := fmt.Sprintf(`SELECT %s FROM board_events %s ORDER BY id DESC OFFSET %d LIMIT %d`,
		boardEventFields, where, (page-1)*pageSize, pageSize)
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	events, err := pgx.CollectRows(rows, pgx.RowToStructByName[entities.BoardEvent])
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}
