package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"request-board/internal/dto"
	"request-board/internal/repositories"
	"request-board/pkg/constants"
	apperrors "request-board/pkg/errors"
	"request-board/pkg/utils"
)

// MetricsService - отчёты по журналам доски. Только чтение, только ADMIN
// (проверяется контроллером). Диапазон дат по умолчанию — последние 30 дней,
// срезы по статусу, типу, приоритету и исполнителю необязательны.
type MetricsService struct {
	metricsRepo repositories.MetricsRepositoryInterface
	logger      *zap.Logger
}

func NewMetricsService(metricsRepo repositories.MetricsRepositoryInterface, logger *zap.Logger) *MetricsService {
	return &MetricsService{metricsRepo: metricsRepo, logger: logger}
}

func parseFilterUUID(name, raw string) (uuid.NullUUID, error) {
	if raw == "" {
		return uuid.NullUUID{}, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.NullUUID{}, fmt.Errorf("некорректный параметр %s: %w", name, apperrors.ErrBadRequest)
	}
	return uuid.NullUUID{UUID: id, Valid: true}, nil
}

func (s *MetricsService) resolveFilter(filter dto.MetricsFilterDTO) (repositories.MetricsFilter, error) {
	from, to, err := utils.ResolveRange(filter.DateFrom, filter.DateTo, time.Now().UTC())
	if err != nil {
		return repositories.MetricsFilter{}, err
	}
	resolved := repositories.MetricsFilter{From: from, To: to}
	if resolved.StatusID, err = parseFilterUUID("status_id", filter.StatusID); err != nil {
		return repositories.MetricsFilter{}, err
	}
	if resolved.RequestTypeID, err = parseFilterUUID("request_type_id", filter.RequestTypeID); err != nil {
		return repositories.MetricsFilter{}, err
	}
	if resolved.PriorityID, err = parseFilterUUID("priority_id", filter.PriorityID); err != nil {
		return repositories.MetricsFilter{}, err
	}
	if resolved.AssigneeID, err = parseFilterUUID("assignee_id", filter.AssigneeID); err != nil {
		return repositories.MetricsFilter{}, err
	}
	return resolved, nil
}

func (s *MetricsService) Overview(ctx context.Context, filter dto.MetricsFilterDTO) (*dto.OverviewReportDTO, error) {
	resolved, err := s.resolveFilter(filter)
	if err != nil {
		return nil, err
	}
	return s.metricsRepo.Overview(ctx, resolved)
}

func (s *MetricsService) BacklogByStatus(ctx context.Context, filter dto.MetricsFilterDTO) ([]dto.BacklogRowDTO, error) {
	resolved, err := s.resolveFilter(filter)
	if err != nil {
		return nil, err
	}
	return s.metricsRepo.BacklogByStatus(ctx, resolved)
}

func (s *MetricsService) Throughput(ctx context.Context, query dto.ThroughputQueryDTO) ([]dto.ThroughputRowDTO, error) {
	resolved, err := s.resolveFilter(query.MetricsFilterDTO)
	if err != nil {
		return nil, err
	}
	groupBy := query.GroupBy
	if groupBy == "" {
		groupBy = "day"
	}
	switch groupBy {
	case "day", "week", "month":
	default:
		return nil, fmt.Errorf("недопустимая группировка %q: %w", groupBy, apperrors.ErrBadRequest)
	}
	return s.metricsRepo.Throughput(ctx, resolved, groupBy)
}

func (s *MetricsService) TimeStats(ctx context.Context, filter dto.MetricsFilterDTO) (*dto.TimeStatsReportDTO, error) {
	resolved, err := s.resolveFilter(filter)
	if err != nil {
		return nil, err
	}
	return s.metricsRepo.TimeStats(ctx, resolved)
}

func (s *MetricsService) StatusTime(ctx context.Context, filter dto.MetricsFilterDTO) ([]dto.StatusTimeRowDTO, error) {
	resolved, err := s.resolveFilter(filter)
	if err != nil {
		return nil, err
	}
	return s.metricsRepo.StatusTime(ctx, resolved)
}

func (s *MetricsService) Workload(ctx context.Context, filter dto.MetricsFilterDTO) ([]dto.WorkloadRowDTO, error) {
	resolved, err := s.resolveFilter(filter)
	if err != nil {
		return nil, err
	}
	return s.metricsRepo.Workload(ctx, resolved)
}

func (s *MetricsService) Distribution(ctx context.Context, filter dto.MetricsFilterDTO) (*dto.DistributionReportDTO, error) {
	resolved, err := s.resolveFilter(filter)
	if err != nil {
		return nil, err
	}
	return s.metricsRepo.Distribution(ctx, resolved)
}

func (s *MetricsService) ProcessTime(ctx context.Context, query dto.ProcessTimeQueryDTO) (*dto.ProcessTimeReportDTO, error) {
	resolved, err := s.resolveFilter(query.MetricsFilterDTO)
	if err != nil {
		return nil, err
	}
	code := query.InProgressCode
	if code == "" {
		code = constants.StatusInProgress
	}
	return s.metricsRepo.ProcessTime(ctx, resolved, code)
}

func (s *MetricsService) RequestTimes(ctx context.Context, query dto.RequestTimesQueryDTO) ([]dto.RequestTimeRowDTO, error) {
	resolved, err := s.resolveFilter(query.MetricsFilterDTO)
	if err != nil {
		return nil, err
	}
	return s.metricsRepo.RequestTimes(ctx, resolved, query.IncludeClosed)
}

// ExportDistribution собирает отчёт распределения в xlsx: по листу на срез,
// внутри листа блоки по каждому измерению.
func (s *MetricsService) ExportDistribution(ctx context.Context, filter dto.MetricsFilterDTO) (*bytes.Buffer, error) {
	report, err := s.Distribution(ctx, filter)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("не удалось закрыть xlsx-файл", zap.Error(err))
		}
	}()

	sheets := []struct {
		name  string
		slice dto.DistributionSliceDTO
	}{
		{"Открытые", report.Open},
		{"Созданные", report.Created},
		{"Закрытые", report.Closed},
	}

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet.name); err != nil {
				return nil, fmt.Errorf("не удалось переименовать лист: %w", err)
			}
		} else {
			if _, err := f.NewSheet(sheet.name); err != nil {
				return nil, fmt.Errorf("не удалось создать лист %q: %w", sheet.name, err)
			}
		}
		if err := writeDistributionSheet(f, sheet.name, sheet.slice); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("не удалось сериализовать xlsx: %w", err)
	}
	return buf, nil
}

func writeDistributionSheet(f *excelize.File, sheet string, slice dto.DistributionSliceDTO) error {
	blocks := []struct {
		title string
		rows  []dto.DistributionRowDTO
	}{
		{"По статусам", slice.ByStatus},
		{"По приоритетам", slice.ByPriority},
		{"По типам", slice.ByType},
		{"По исполнителям", slice.ByAssignee},
	}

	line := 1
	for _, block := range blocks {
		cell, _ := excelize.CoordinatesToCellName(1, line)
		if err := f.SetCellValue(sheet, cell, block.title); err != nil {
			return err
		}
		line++
		cell, _ = excelize.CoordinatesToCellName(1, line)
		if err := f.SetSheetRow(sheet, cell, &[]interface{}{"Код", "Название", "Количество"}); err != nil {
			return err
		}
		line++
		for _, row := range block.rows {
			cell, _ = excelize.CoordinatesToCellName(1, line)
			if err := f.SetSheetRow(sheet, cell, &[]interface{}{row.Key, row.Name, row.Count}); err != nil {
				return err
			}
			line++
		}
		// Пустая строка между блоками.
		line++
	}
	return nil
}
