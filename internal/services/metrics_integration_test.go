package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"request-board/internal/dto"
	"request-board/internal/repositories"
	"request-board/pkg/constants"
)

func newMetricsForDB() *MetricsService {
	return NewMetricsService(repositories.NewMetricsRepository(testPool), zap.NewNop())
}

// Прогоняет одну заявку через весь маршрут и проверяет согласованность
// отчётов с историей.
func TestMetricsAfterLifecycle(t *testing.T) {
	requireDB(t)
	cleanupTables(t)
	env := seedWorkflowData(t)
	ctx := context.Background()

	metrics := newMetricsForDB()

	requestID := createRequest(t, env)
	_, err := env.workflow.Assign(ctx, requestID, dto.AssignDTO{AssignedTo: env.analyst1.ID}, env.admin)
	require.NoError(t, err)
	require.NoError(t, changeTo(env, requestID, constants.StatusInProgress, env.analyst1))
	require.NoError(t, changeTo(env, requestID, constants.StatusDone, env.analyst1))

	// Вторая заявка остаётся открытой; её автор ни разу не получал назначений.
	created, err := env.requests.Create(ctx, dto.CreateRequestDTO{
		Title:        "Нет доступа к сетевому диску",
		TypeCode:     "INCIDENT",
		PriorityCode: "HIGH",
	}, env.analyst2)
	require.NoError(t, err)
	openOnly := created.ID

	overview, err := metrics.Overview(ctx, dto.MetricsFilterDTO{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, overview.Total)
	assert.EqualValues(t, 1, overview.Open)
	assert.EqualValues(t, 1, overview.Closed)
	assert.True(t, overview.AvgResolutionHours.Valid, "по закрытой заявке должно быть время решения")
	assert.True(t, overview.AvgReactionHours.Valid, "назначенная заявка даёт время реакции")

	// История закрытой заявки: 4 записи дают 4 интервала по статусам.
	statusTime, err := metrics.StatusTime(ctx, dto.MetricsFilterDTO{})
	require.NoError(t, err)
	var totalSamples int64
	for _, row := range statusTime {
		totalSamples += row.Samples
	}
	assert.EqualValues(t, 5, totalSamples, "4 интервала закрытой заявки плюс стартовый интервал открытой")

	workload, err := metrics.Workload(ctx, dto.MetricsFilterDTO{})
	require.NoError(t, err)
	require.NotEmpty(t, workload)
	byUser := map[uuid.UUID]dto.WorkloadRowDTO{}
	for _, row := range workload {
		byUser[row.UserID] = row
	}
	analystRow, ok := byUser[env.analyst1.ID]
	require.True(t, ok, "исполнитель должен попасть в отчёт по нагрузке")
	assert.EqualValues(t, 1, analystRow.ClosedInRange)
	assert.EqualValues(t, 1, analystRow.CreatedInRange)

	// Автор без единого назначения остаётся в отчёте за счёт созданных.
	creatorRow, ok := byUser[env.analyst2.ID]
	require.True(t, ok, "автор без назначений должен попасть в отчёт по нагрузке")
	assert.EqualValues(t, 1, creatorRow.CreatedInRange)
	assert.EqualValues(t, 0, creatorRow.ActiveAssigned)
	assert.EqualValues(t, 0, creatorRow.ClosedInRange)

	distribution, err := metrics.Distribution(ctx, dto.MetricsFilterDTO{})
	require.NoError(t, err)
	require.Len(t, distribution.Open.ByStatus, 1)
	assert.Equal(t, constants.StatusUnassigned, distribution.Open.ByStatus[0].Key)
	require.Len(t, distribution.Open.ByAssignee, 1)
	assert.Equal(t, "UNASSIGNED", distribution.Open.ByAssignee[0].Key)
	assert.Len(t, distribution.Created.ByAssignee, 2, "созданные считаются по автору")
	require.Len(t, distribution.Closed.ByStatus, 1)
	assert.Equal(t, constants.StatusDone, distribution.Closed.ByStatus[0].Key)
	require.Len(t, distribution.Closed.ByAssignee, 1)
	assert.Equal(t, env.analyst1.Username, distribution.Closed.ByAssignee[0].Key)

	// Живой срез по умолчанию видит только открытую заявку.
	times, err := metrics.RequestTimes(ctx, dto.RequestTimesQueryDTO{})
	require.NoError(t, err)
	require.Len(t, times, 1)
	assert.Equal(t, openOnly, times[0].RequestID)

	all, err := metrics.RequestTimes(ctx, dto.RequestTimesQueryDTO{IncludeClosed: true})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// Экспорт распределения отдаёт непустой xlsx.
	buf, err := metrics.ExportDistribution(ctx, dto.MetricsFilterDTO{})
	require.NoError(t, err)
	assert.NotZero(t, buf.Len())
}

// Срезы фильтра сужают каждый отчёт, а не только специализированные
// разбивки.
func TestMetricsFilterScoping(t *testing.T) {
	requireDB(t)
	cleanupTables(t)
	env := seedWorkflowData(t)
	ctx := context.Background()

	metrics := newMetricsForDB()

	requestID := createRequest(t, env)
	_, err := env.workflow.Assign(ctx, requestID, dto.AssignDTO{AssignedTo: env.analyst1.ID}, env.admin)
	require.NoError(t, err)
	require.NoError(t, changeTo(env, requestID, constants.StatusInProgress, env.analyst1))
	require.NoError(t, changeTo(env, requestID, constants.StatusDone, env.analyst1))

	// Срез по исполнителю: закрытая заявка видна только через analyst1.
	stats, err := metrics.TimeStats(ctx, dto.MetricsFilterDTO{AssigneeID: env.analyst1.ID.String()})
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.Samples)
	assert.True(t, stats.MedianCycleHours.Valid, "у закрытой назначенной заявки есть cycle time")

	stranger, err := metrics.TimeStats(ctx, dto.MetricsFilterDTO{AssigneeID: env.analyst2.ID.String()})
	require.NoError(t, err)
	assert.EqualValues(t, 0, stranger.Samples)

	// Срез по несуществующему приоритету обнуляет сводку.
	overview, err := metrics.Overview(ctx, dto.MetricsFilterDTO{PriorityID: uuid.NewString()})
	require.NoError(t, err)
	assert.EqualValues(t, 0, overview.Total)
	assert.EqualValues(t, 0, overview.Open)

	// Нагрузка по одному исполнителю не показывает остальных.
	workload, err := metrics.Workload(ctx, dto.MetricsFilterDTO{AssigneeID: env.analyst1.ID.String()})
	require.NoError(t, err)
	require.Len(t, workload, 1)
	assert.Equal(t, env.analyst1.ID, workload[0].UserID)

	// Пропускная способность с чужим исполнителем - пустые корзины.
	throughput, err := metrics.Throughput(ctx, dto.ThroughputQueryDTO{
		MetricsFilterDTO: dto.MetricsFilterDTO{AssigneeID: env.analyst2.ID.String()},
	})
	require.NoError(t, err)
	for _, bucket := range throughput {
		assert.Zero(t, bucket.Created)
		assert.Zero(t, bucket.Closed)
	}
}

// Запись истории с датой позже закрытия (например, после мягкого удаления
// промежуточных записей) даёт перевёрнутый интервал: он должен
// отбрасываться, а не утягивать перцентили в минус.
func TestStatusTimeSkipsInvertedIntervals(t *testing.T) {
	requireDB(t)
	cleanupTables(t)
	env := seedWorkflowData(t)
	ctx := context.Background()

	metrics := newMetricsForDB()

	requestID := createRequest(t, env)
	_, err := env.workflow.Assign(ctx, requestID, dto.AssignDTO{AssignedTo: env.analyst1.ID}, env.admin)
	require.NoError(t, err)
	require.NoError(t, changeTo(env, requestID, constants.StatusInProgress, env.analyst1))
	require.NoError(t, changeTo(env, requestID, constants.StatusDone, env.analyst1))

	_, err = testPool.Exec(ctx, `
		INSERT INTO request_status_history (request_id, to_status_id, changed_by, changed_at)
		VALUES ($1, (SELECT id FROM request_status WHERE code = $2), $3, NOW() + interval '1 hour')`,
		requestID, constants.StatusDone, env.admin.ID)
	require.NoError(t, err)

	// Окно до завтра, чтобы будущая запись попала в отчёт.
	tomorrow := time.Now().UTC().AddDate(0, 0, 1).Format("2006-01-02")
	rows, err := metrics.StatusTime(ctx, dto.MetricsFilterDTO{DateTo: tomorrow})
	require.NoError(t, err)
	require.NotEmpty(t, rows)

	for _, row := range rows {
		if row.MinHours.Valid {
			assert.GreaterOrEqual(t, row.MinHours.Float64, 0.0,
				"интервал статуса %s не должен быть отрицательным", row.StatusCode)
		}
	}
}
