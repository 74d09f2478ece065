package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"request-board/internal/dto"
	"request-board/internal/repositories"
	"request-board/pkg/constants"
	apperrors "request-board/pkg/errors"
)

// fakeMetricsRepo запоминает аргументы последнего вызова, чтобы проверить,
// что сервис правильно разрешает диапазон, срезы и группировку.
type fakeMetricsRepo struct {
	lastFilter        repositories.MetricsFilter
	lastGroupBy       string
	lastInProgress    string
	lastIncludeClosed bool
}

func (f *fakeMetricsRepo) Overview(ctx context.Context, filter repositories.MetricsFilter) (*dto.OverviewReportDTO, error) {
	f.lastFilter = filter
	return &dto.OverviewReportDTO{}, nil
}

func (f *fakeMetricsRepo) BacklogByStatus(ctx context.Context, filter repositories.MetricsFilter) ([]dto.BacklogRowDTO, error) {
	f.lastFilter = filter
	return nil, nil
}

func (f *fakeMetricsRepo) Throughput(ctx context.Context, filter repositories.MetricsFilter, groupBy string) ([]dto.ThroughputRowDTO, error) {
	f.lastFilter, f.lastGroupBy = filter, groupBy
	return nil, nil
}

func (f *fakeMetricsRepo) TimeStats(ctx context.Context, filter repositories.MetricsFilter) (*dto.TimeStatsReportDTO, error) {
	f.lastFilter = filter
	return &dto.TimeStatsReportDTO{}, nil
}

func (f *fakeMetricsRepo) StatusTime(ctx context.Context, filter repositories.MetricsFilter) ([]dto.StatusTimeRowDTO, error) {
	f.lastFilter = filter
	return nil, nil
}

func (f *fakeMetricsRepo) Workload(ctx context.Context, filter repositories.MetricsFilter) ([]dto.WorkloadRowDTO, error) {
	f.lastFilter = filter
	return nil, nil
}

func (f *fakeMetricsRepo) Distribution(ctx context.Context, filter repositories.MetricsFilter) (*dto.DistributionReportDTO, error) {
	f.lastFilter = filter
	return &dto.DistributionReportDTO{}, nil
}

func (f *fakeMetricsRepo) ProcessTime(ctx context.Context, filter repositories.MetricsFilter, inProgressCode string) (*dto.ProcessTimeReportDTO, error) {
	f.lastFilter, f.lastInProgress = filter, inProgressCode
	return &dto.ProcessTimeReportDTO{}, nil
}

func (f *fakeMetricsRepo) RequestTimes(ctx context.Context, filter repositories.MetricsFilter, includeClosed bool) ([]dto.RequestTimeRowDTO, error) {
	f.lastFilter, f.lastIncludeClosed = filter, includeClosed
	return nil, nil
}

func newMetricsServiceForTest() (*MetricsService, *fakeMetricsRepo) {
	repo := &fakeMetricsRepo{}
	return NewMetricsService(repo, zap.NewNop()), repo
}

func TestMetricsThroughputGroupBy(t *testing.T) {
	ctx := context.Background()

	t.Run("по умолчанию группировка по дням", func(t *testing.T) {
		svc, repo := newMetricsServiceForTest()
		_, err := svc.Throughput(ctx, dto.ThroughputQueryDTO{})
		require.NoError(t, err)
		assert.Equal(t, "day", repo.lastGroupBy)
	})

	t.Run("week и month проходят", func(t *testing.T) {
		svc, repo := newMetricsServiceForTest()
		for _, groupBy := range []string{"week", "month"} {
			_, err := svc.Throughput(ctx, dto.ThroughputQueryDTO{GroupBy: groupBy})
			require.NoError(t, err)
			assert.Equal(t, groupBy, repo.lastGroupBy)
		}
	})

	t.Run("произвольная группировка отклоняется", func(t *testing.T) {
		svc, _ := newMetricsServiceForTest()
		_, err := svc.Throughput(ctx, dto.ThroughputQueryDTO{GroupBy: "hour"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrBadRequest))
	})
}

func TestMetricsRangeResolution(t *testing.T) {
	ctx := context.Background()

	t.Run("пустой фильтр даёт окно в 30 дней", func(t *testing.T) {
		svc, repo := newMetricsServiceForTest()
		_, err := svc.Overview(ctx, dto.MetricsFilterDTO{})
		require.NoError(t, err)
		assert.InDelta(t, 29*24, repo.lastFilter.To.Sub(repo.lastFilter.From).Hours(), 1)
	})

	t.Run("перевёрнутый диапазон отклоняется", func(t *testing.T) {
		svc, _ := newMetricsServiceForTest()
		_, err := svc.Overview(ctx, dto.MetricsFilterDTO{DateFrom: "2025-06-01", DateTo: "2025-05-01"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrBadRequest))
	})
}

// Срезы фильтра должны доходить до репозитория разобранными, а мусор в
// uuid-параметрах - отклоняться до запроса.
func TestMetricsFilterSlices(t *testing.T) {
	ctx := context.Background()

	t.Run("все четыре среза передаются в репозиторий", func(t *testing.T) {
		svc, repo := newMetricsServiceForTest()
		statusID, typeID := uuid.New(), uuid.New()
		priorityID, assigneeID := uuid.New(), uuid.New()

		_, err := svc.TimeStats(ctx, dto.MetricsFilterDTO{
			StatusID:      statusID.String(),
			RequestTypeID: typeID.String(),
			PriorityID:    priorityID.String(),
			AssigneeID:    assigneeID.String(),
		})
		require.NoError(t, err)
		assert.Equal(t, uuid.NullUUID{UUID: statusID, Valid: true}, repo.lastFilter.StatusID)
		assert.Equal(t, uuid.NullUUID{UUID: typeID, Valid: true}, repo.lastFilter.RequestTypeID)
		assert.Equal(t, uuid.NullUUID{UUID: priorityID, Valid: true}, repo.lastFilter.PriorityID)
		assert.Equal(t, uuid.NullUUID{UUID: assigneeID, Valid: true}, repo.lastFilter.AssigneeID)
	})

	t.Run("пустые срезы остаются невалидными NullUUID", func(t *testing.T) {
		svc, repo := newMetricsServiceForTest()
		_, err := svc.Workload(ctx, dto.MetricsFilterDTO{})
		require.NoError(t, err)
		assert.False(t, repo.lastFilter.StatusID.Valid)
		assert.False(t, repo.lastFilter.AssigneeID.Valid)
	})

	t.Run("невалидный uuid отклоняется", func(t *testing.T) {
		svc, _ := newMetricsServiceForTest()
		_, err := svc.Overview(ctx, dto.MetricsFilterDTO{AssigneeID: "не-uuid"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrBadRequest))
	})
}

func TestMetricsProcessTimeDefaultCode(t *testing.T) {
	ctx := context.Background()

	svc, repo := newMetricsServiceForTest()
	_, err := svc.ProcessTime(ctx, dto.ProcessTimeQueryDTO{})
	require.NoError(t, err)
	assert.Equal(t, constants.StatusInProgress, repo.lastInProgress)

	_, err = svc.ProcessTime(ctx, dto.ProcessTimeQueryDTO{InProgressCode: "REVIEW"})
	require.NoError(t, err)
	assert.Equal(t, "REVIEW", repo.lastInProgress)
}
