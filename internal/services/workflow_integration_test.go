package services

import (
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"request-board/internal/dto"
	"request-board/internal/repositories"
	"request-board/pkg/constants"
	apperrors "request-board/pkg/errors"
)

var testPool *pgxpool.Pool

// TestMain поднимает подключение к тестовой БД, если задан TEST_DATABASE_URL.
// Без него интеграционные тесты пропускаются, а юнит-тесты пакета выполняются
// как обычно.
func TestMain(m *testing.M) {
	if url := os.Getenv("TEST_DATABASE_URL"); url != "" {
		pool, err := pgxpool.New(context.Background(), url)
		if err != nil {
			log.Fatalf("Не удалось подключиться к тестовой БД: %v", err)
		}
		applySchema(pool)
		testPool = pool
	}

	code := m.Run()
	if testPool != nil {
		testPool.Close()
	}
	os.Exit(code)
}

func applySchema(pool *pgxpool.Pool) {
	path, _ := filepath.Abs("../../testdata/schema.sql")
	schema, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Не удалось прочитать schema.sql: %v", err)
	}
	if _, err := pool.Exec(context.Background(), string(schema)); err != nil {
		log.Fatalf("Не удалось применить схему БД: %v", err)
	}
}

func requireDB(t *testing.T) {
	t.Helper()
	if testPool == nil {
		t.Skip("TEST_DATABASE_URL не задан, интеграционный тест пропущен")
	}
}

// stubCache - кеш-заглушка: всегда промах, чтобы тесты ходили в базу.
type stubCache struct{}

func (stubCache) Get(ctx context.Context, key string) (string, error) {
	return "", errors.New("промах кеша")
}

func (stubCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return nil
}

func (stubCache) Del(ctx context.Context, keys ...string) error { return nil }

type workflowEnv struct {
	workflow *WorkflowService
	requests *RequestService
	board    *BoardService

	admin    dto.Actor
	analyst1 dto.Actor
	analyst2 dto.Actor
}

func cleanupTables(t *testing.T) {
	t.Helper()
	_, err := testPool.Exec(context.Background(), `
		TRUNCATE TABLE request_attachments, request_comments, board_events,
			request_status_history, request_assignments, requests,
			request_priorities, request_types, request_status, users, role
		RESTART IDENTITY CASCADE`)
	require.NoError(t, err, "Не удалось очистить таблицы")
}

func seedWorkflowData(t *testing.T) workflowEnv {
	t.Helper()
	ctx := context.Background()

	for _, r := range [][2]string{{constants.RoleAdmin, "Администратор"}, {constants.RoleAnalyst, "Аналитик"}} {
		_, err := testPool.Exec(ctx, `INSERT INTO role (code, name) VALUES ($1, $2)`, r[0], r[1])
		require.NoError(t, err)
	}

	newUser := func(username, roleCode string) dto.Actor {
		var id uuid.UUID
		err := testPool.QueryRow(ctx, `
			INSERT INTO users (username, full_name, email, password_hash, role_code)
			VALUES ($1, $1, $1 || '@test', 'x', $2) RETURNING id`, username, roleCode).Scan(&id)
		require.NoError(t, err)
		return dto.Actor{ID: id, RoleCode: roleCode, Username: username}
	}

	statuses := []struct {
		code     string
		order    int
		terminal bool
	}{
		{constants.StatusUnassigned, 10, false},
		{constants.StatusAssigned, 20, false},
		{constants.StatusInProgress, 30, false},
		{constants.StatusDone, 40, true},
	}
	for _, s := range statuses {
		_, err := testPool.Exec(ctx, `
			INSERT INTO request_status (code, name, sort_order, is_terminal)
			VALUES ($1, $1, $2, $3)`, s.code, s.order, s.terminal)
		require.NoError(t, err)
	}

	_, err := testPool.Exec(ctx, `INSERT INTO request_types (code, name) VALUES ('INCIDENT', 'Инцидент')`)
	require.NoError(t, err)
	_, err = testPool.Exec(ctx, `INSERT INTO request_priorities (code, name, sort_order) VALUES ('HIGH', 'Высокий', 10)`)
	require.NoError(t, err)

	logger := zap.NewNop()
	requestRepo := repositories.NewRequestRepository(testPool)
	assignmentRepo := repositories.NewAssignmentRepository(testPool)
	statusRepo := repositories.NewStatusRepository(testPool, stubCache{})
	historyRepo := repositories.NewStatusHistoryRepository(testPool)
	eventRepo := repositories.NewBoardEventRepository(testPool)
	commentRepo := repositories.NewCommentRepository(testPool)
	attachmentRepo := repositories.NewAttachmentRepository(testPool)
	catalogRepo := repositories.NewCatalogRepository(testPool)

	return workflowEnv{
		workflow: NewWorkflowService(testPool, requestRepo, assignmentRepo, statusRepo,
			historyRepo, eventRepo, commentRepo, attachmentRepo, logger),
		requests: NewRequestService(testPool, requestRepo, statusRepo, historyRepo,
			assignmentRepo, commentRepo, attachmentRepo, catalogRepo, logger),
		board:    NewBoardService(requestRepo, eventRepo, logger),
		admin:    newUser("admin", constants.RoleAdmin),
		analyst1: newUser("analyst1", constants.RoleAnalyst),
		analyst2: newUser("analyst2", constants.RoleAnalyst),
	}
}

func createRequest(t *testing.T, env workflowEnv) uuid.UUID {
	t.Helper()
	created, err := env.requests.Create(context.Background(), dto.CreateRequestDTO{
		Title:        "Не работает печать",
		TypeCode:     "INCIDENT",
		PriorityCode: "HIGH",
	}, env.analyst1)
	require.NoError(t, err)
	return created.ID
}

func changeTo(env workflowEnv, requestID uuid.UUID, code string, actor dto.Actor) error {
	_, err := env.workflow.ChangeStatus(context.Background(), requestID, dto.ChangeStatusDTO{
		StatusCode: &code,
	}, actor)
	return err
}

func TestWorkflowLifecycle(t *testing.T) {
	requireDB(t)
	cleanupTables(t)
	env := seedWorkflowData(t)
	ctx := context.Background()

	requestID := createRequest(t, env)

	// Создание пишет стартовую историю со статусом UNASSIGNED.
	history, err := env.requests.ListHistory(ctx, requestID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.False(t, history[0].FromStatusID.Valid, "стартовая запись не должна иметь from_status")

	// Перевод без назначения невозможен.
	err = changeTo(env, requestID, constants.StatusInProgress, env.analyst1)
	assert.True(t, errors.Is(err, apperrors.ErrConflict), "ожидался ErrConflict, получено: %v", err)

	// Назначать может только администратор.
	_, err = env.workflow.Assign(ctx, requestID, dto.AssignDTO{AssignedTo: env.analyst1.ID}, env.analyst1)
	assert.True(t, errors.Is(err, apperrors.ErrForbidden), "ожидался ErrForbidden, получено: %v", err)

	// Назначение администратором.
	assignment, err := env.workflow.Assign(ctx, requestID, dto.AssignDTO{AssignedTo: env.analyst1.ID}, env.admin)
	require.NoError(t, err)
	assert.Equal(t, env.analyst1.ID, assignment.AssignedTo)

	details, err := env.requests.FindByID(ctx, requestID)
	require.NoError(t, err)
	assert.Equal(t, constants.StatusAssigned, details.StatusCode)
	assert.True(t, details.FirstAssignedAt.Valid, "first_assigned_at должен быть проставлен")

	// Чужая заявка не переводится.
	err = changeTo(env, requestID, constants.StatusInProgress, env.analyst2)
	assert.True(t, errors.Is(err, apperrors.ErrForbidden), "ожидался ErrForbidden, получено: %v", err)

	// Исполнитель берёт в работу и закрывает.
	require.NoError(t, changeTo(env, requestID, constants.StatusInProgress, env.analyst1))

	err = changeTo(env, requestID, constants.StatusUnassigned, env.analyst1)
	assert.True(t, errors.Is(err, apperrors.ErrForbidden), "ожидался ErrForbidden, получено: %v", err)

	require.NoError(t, changeTo(env, requestID, constants.StatusDone, env.analyst1))

	details, err = env.requests.FindByID(ctx, requestID)
	require.NoError(t, err)
	assert.Equal(t, constants.StatusDone, details.StatusCode)
	assert.True(t, details.ClosedAt.Valid, "closed_at должен быть проставлен в терминальном статусе")

	// Терминальный статус - тупик и для перевода, и для назначения.
	err = changeTo(env, requestID, constants.StatusInProgress, env.analyst1)
	assert.True(t, errors.Is(err, apperrors.ErrConflict), "ожидался ErrConflict, получено: %v", err)
	_, err = env.workflow.Assign(ctx, requestID, dto.AssignDTO{AssignedTo: env.analyst2.ID}, env.admin)
	assert.True(t, errors.Is(err, apperrors.ErrConflict), "ожидался ErrConflict, получено: %v", err)

	// Инвариант: closed_at заполнен тогда и только тогда, когда статус терминальный.
	var violations int
	err = testPool.QueryRow(ctx, `
		SELECT COUNT(*) FROM requests r
		JOIN request_status s ON s.id = r.status_id
		WHERE (r.closed_at IS NOT NULL) <> s.is_terminal`).Scan(&violations)
	require.NoError(t, err)
	assert.Zero(t, violations, "closed_at расходится с терминальностью статуса")
}

func TestWorkflowReassignment(t *testing.T) {
	requireDB(t)
	cleanupTables(t)
	env := seedWorkflowData(t)
	ctx := context.Background()

	requestID := createRequest(t, env)

	_, err := env.workflow.Assign(ctx, requestID, dto.AssignDTO{AssignedTo: env.analyst1.ID}, env.admin)
	require.NoError(t, err)

	details, err := env.requests.FindByID(ctx, requestID)
	require.NoError(t, err)
	firstAssignedAt := details.FirstAssignedAt.Time

	_, err = env.workflow.Assign(ctx, requestID, dto.AssignDTO{AssignedTo: env.analyst2.ID}, env.admin)
	require.NoError(t, err)

	// Ровно одно активное назначение, и оно у второго исполнителя.
	var activeCount int
	err = testPool.QueryRow(ctx, `
		SELECT COUNT(*) FROM request_assignments
		WHERE request_id = $1 AND is_active = true AND unassigned_at IS NULL`, requestID).
		Scan(&activeCount)
	require.NoError(t, err)
	assert.Equal(t, 1, activeCount)

	var activeTo uuid.UUID
	err = testPool.QueryRow(ctx, `
		SELECT assigned_to FROM request_assignments
		WHERE request_id = $1 AND is_active = true AND unassigned_at IS NULL`, requestID).
		Scan(&activeTo)
	require.NoError(t, err)
	assert.Equal(t, env.analyst2.ID, activeTo)

	// first_assigned_at не перезаписывается повторным назначением.
	details, err = env.requests.FindByID(ctx, requestID)
	require.NoError(t, err)
	assert.True(t, details.FirstAssignedAt.Time.Equal(firstAssignedAt),
		"first_assigned_at не должен меняться при переназначении")

	// Журнал назначений хранит обе строки, новейшая первой.
	assignments, err := env.requests.ListAssignments(ctx, requestID)
	require.NoError(t, err)
	require.Len(t, assignments, 2)
	assert.Equal(t, env.analyst2.ID, assignments[0].AssignedTo)
	assert.True(t, assignments[1].UnassignedAt.Valid, "старое назначение должно быть закрыто")
}

func TestBoardChangesCursor(t *testing.T) {
	requireDB(t)
	cleanupTables(t)
	env := seedWorkflowData(t)
	ctx := context.Background()

	first := createRequest(t, env)
	second := createRequest(t, env)

	_, err := env.workflow.Assign(ctx, first, dto.AssignDTO{AssignedTo: env.analyst1.ID}, env.admin)
	require.NoError(t, err)
	_, err = env.workflow.Assign(ctx, second, dto.AssignDTO{AssignedTo: env.analyst2.ID}, env.admin)
	require.NoError(t, err)
	require.NoError(t, changeTo(env, first, constants.StatusInProgress, env.analyst1))

	res, err := env.board.GetChanges(ctx, dto.ChangesQueryDTO{SinceID: 0})
	require.NoError(t, err)
	assert.True(t, res.HasChanges)
	assert.EqualValues(t, 3, res.NewCount, "ожидалось три события доски")

	// Повторный вызов с тем же курсором идемпотентен.
	repeat, err := env.board.GetChanges(ctx, dto.ChangesQueryDTO{SinceID: 0})
	require.NoError(t, err)
	assert.Equal(t, res, repeat)

	// Курсор на вершине ленты: изменений нет, курсор не двигается.
	top, err := env.board.GetChanges(ctx, dto.ChangesQueryDTO{SinceID: res.LatestID})
	require.NoError(t, err)
	assert.False(t, top.HasChanges)
	assert.Zero(t, top.NewCount)
	assert.Equal(t, res.LatestID, top.LatestID)

	// Фильтр по заявке видит только её события.
	filtered, err := env.board.GetChanges(ctx, dto.ChangesQueryDTO{
		SinceID:   0,
		RequestID: uuid.NullUUID{UUID: first, Valid: true},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, filtered.NewCount, "у первой заявки два события")
}

func TestWorkflowCommentsAndAttachments(t *testing.T) {
	requireDB(t)
	cleanupTables(t)
	env := seedWorkflowData(t)
	ctx := context.Background()

	requestID := createRequest(t, env)

	comment, err := env.workflow.AddComment(ctx, requestID, dto.AddCommentDTO{Comment: "Уточните кабинет"}, env.analyst2)
	require.NoError(t, err)
	assert.Equal(t, env.analyst2.ID, comment.AuthorID)

	_, err = env.workflow.AddAttachment(ctx, requestID, dto.AddAttachmentDTO{
		FileName: "scan.pdf",
		FileURL:  "/uploads/scan.pdf",
		MimeType: "application/pdf",
	}, env.analyst1)
	require.NoError(t, err)

	// Комментарий и вложение не меняют статус, но порождают события.
	details, err := env.requests.FindByID(ctx, requestID)
	require.NoError(t, err)
	assert.Equal(t, constants.StatusUnassigned, details.StatusCode)

	res, err := env.board.GetChanges(ctx, dto.ChangesQueryDTO{SinceID: 0})
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.NewCount)

	comments, err := env.requests.ListComments(ctx, requestID)
	require.NoError(t, err)
	require.Len(t, comments, 1)

	attachments, err := env.requests.ListAttachments(ctx, requestID)
	require.NoError(t, err)
	require.Len(t, attachments, 1)
	assert.Equal(t, "scan.pdf", attachments[0].FileName)

	// Комментарий к несуществующей заявке отклоняется.
	_, err = env.workflow.AddComment(ctx, uuid.New(), dto.AddCommentDTO{Comment: "x"}, env.analyst1)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound), "ожидался ErrNotFound, получено: %v", err)
}
