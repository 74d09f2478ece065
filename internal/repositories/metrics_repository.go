package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"request-board/internal/dto"
	"request-board/pkg/constants"
	apperrors "request-board/pkg/errors"
)

// MetricsFilter - окно отчёта и необязательные срезы по справочникам и
// исполнителю. Невалидный NullUUID означает "без фильтра": в SQL это
// ($n::uuid IS NULL OR ...), так что форма запроса не зависит от набора
// заданных срезов.
type MetricsFilter struct {
	From          time.Time
	To            time.Time
	StatusID      uuid.NullUUID
	RequestTypeID uuid.NullUUID
	PriorityID    uuid.NullUUID
	AssigneeID    uuid.NullUUID
}

func (f MetricsFilter) dimensionArgs() []interface{} {
	return []interface{}{f.StatusID, f.RequestTypeID, f.PriorityID, f.AssigneeID}
}

func (f MetricsFilter) rangeArgs() []interface{} {
	return append([]interface{}{f.From, f.To}, f.dimensionArgs()...)
}

// requestFilterSQL строит общие срезы отчёта поверх алиаса r. start -
// номер первого placeholder'а; порядок аргументов всегда статус, тип,
// приоритет, исполнитель (см. dimensionArgs).
func requestFilterSQL(start int) string {
	return fmt.Sprintf(`
			AND ($%[1]d::uuid IS NULL OR r.status_id = $%[1]d)
			AND ($%[2]d::uuid IS NULL OR r.request_type_id = $%[2]d)
			AND ($%[3]d::uuid IS NULL OR r.priority_id = $%[3]d)
			AND ($%[4]d::uuid IS NULL OR EXISTS (
				SELECT 1 FROM request_assignments fa
				WHERE fa.request_id = r.id AND fa.is_active = true AND fa.assigned_to = $%[4]d))`,
		start, start+1, start+2, start+3)
}

// MetricsRepositoryInterface - агрегирующие запросы по журналам доски.
// Все методы только читают; интервалы считаются в часах с округлением
// до сотых прямо в SQL.
type MetricsRepositoryInterface interface {
	Overview(ctx context.Context, filter MetricsFilter) (*dto.OverviewReportDTO, error)
	BacklogByStatus(ctx context.Context, filter MetricsFilter) ([]dto.BacklogRowDTO, error)
	Throughput(ctx context.Context, filter MetricsFilter, groupBy string) ([]dto.ThroughputRowDTO, error)
	TimeStats(ctx context.Context, filter MetricsFilter) (*dto.TimeStatsReportDTO, error)
	StatusTime(ctx context.Context, filter MetricsFilter) ([]dto.StatusTimeRowDTO, error)
	Workload(ctx context.Context, filter MetricsFilter) ([]dto.WorkloadRowDTO, error)
	Distribution(ctx context.Context, filter MetricsFilter) (*dto.DistributionReportDTO, error)
	ProcessTime(ctx context.Context, filter MetricsFilter, inProgressCode string) (*dto.ProcessTimeReportDTO, error)
	RequestTimes(ctx context.Context, filter MetricsFilter, includeClosed bool) ([]dto.RequestTimeRowDTO, error)
}

type metricsRepository struct {
	storage *pgxpool.Pool
}

func NewMetricsRepository(storage *pgxpool.Pool) MetricsRepositoryInterface {
	return &metricsRepository{storage: storage}
}

func (r *metricsRepository) Overview(ctx context.Context, f MetricsFilter) (*dto.OverviewReportDTO, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE r.created_at BETWEEN $1 AND $2) AS total,
			COUNT(*) FILTER (WHERE r.closed_at IS NULL) AS open,
			COUNT(*) FILTER (WHERE r.closed_at BETWEEN $1 AND $2) AS closed,
			COUNT(*) FILTER (WHERE r.closed_at IS NULL AND r.first_assigned_at IS NULL) AS unassigned,
			ROUND((AVG(EXTRACT(EPOCH FROM (r.first_assigned_at - r.created_at)) / 3600.0)
				FILTER (WHERE r.first_assigned_at BETWEEN $1 AND $2))::numeric, 2) AS avg_reaction_hours,
			ROUND((AVG(EXTRACT(EPOCH FROM (r.closed_at - r.created_at)) / 3600.0)
				FILTER (WHERE r.closed_at BETWEEN $1 AND $2))::numeric, 2) AS avg_resolution_hours,
			ROUND((PERCENTILE_CONT(0.5) WITHIN GROUP (ORDER BY EXTRACT(EPOCH FROM (r.closed_at - r.created_at)) / 3600.0)
				FILTER (WHERE r.closed_at BETWEEN $1 AND $2))::numeric, 2) AS median_resolution_hours,
			ROUND((PERCENTILE_CONT(0.9) WITHIN GROUP (ORDER BY EXTRACT(EPOCH FROM (r.closed_at - r.created_at)) / 3600.0)
				FILTER (WHERE r.closed_at BETWEEN $1 AND $2))::numeric, 2) AS p90_resolution_hours
		FROM requests r
		WHERE r.is_active = true` + requestFilterSQL(3)

	var report dto.OverviewReportDTO
	err := r.storage.QueryRow(ctx, query, f.rangeArgs()...).Scan(
		&report.Total, &report.Open, &report.Closed, &report.Unassigned,
		&report.AvgReactionHours, &report.AvgResolutionHours,
		&report.MedianResolutionHours, &report.P90ResolutionHours)
	if err != nil {
		// Агрегат без GROUP BY обязан вернуть строку: её отсутствие —
		// внутренняя ошибка, а не "нет данных".
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("сводный отчёт не вернул строку: %w", err)
		}
		return nil, err
	}
	return &report, nil
}

// BacklogByStatus - срез текущего момента, диапазон дат не применяется.
// Срезы фильтра уходят в условие JOIN, чтобы пустые статусы оставались
// в отчёте с нулём.
func (r *metricsRepository) BacklogByStatus(ctx context.Context, f MetricsFilter) ([]dto.BacklogRowDTO, error) {
	query := `
		SELECT s.code AS status_code, s.name AS status_name,
		       COUNT(r.id) AS count,
		       MIN(r.created_at) AS oldest_at,
		       ROUND((AVG(EXTRACT(EPOCH FROM (NOW() - r.created_at)) / 3600.0))::numeric, 2) AS avg_age_hours
		FROM request_status s
		LEFT JOIN requests r ON r.status_id = s.id AND r.is_active = true` + requestFilterSQL(1) + `
		WHERE s.is_active = true AND s.is_terminal = false
		GROUP BY s.code, s.name, s.sort_order
		ORDER BY s.sort_order`
	rows, err := r.storage.Query(ctx, query, f.dimensionArgs()...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[dto.BacklogRowDTO])
}

// Throughput строит плотный ряд корзин через generate_series: корзины без
// событий приходят нулями, а не пропадают. groupBy уже провалидирован
// сервисом (day|week|month).
func (r *metricsRepository) Throughput(ctx context.Context, f MetricsFilter, groupBy string) ([]dto.ThroughputRowDTO, error) {
	flt := requestFilterSQL(4)
	query := fmt.Sprintf(`
		WITH buckets AS (
			SELECT generate_series(
				date_trunc($3, $1::timestamptz),
				date_trunc($3, $2::timestamptz),
				('1 ' || $3)::interval
			) AS bucket
		)
		SELECT b.bucket,
		       (SELECT COUNT(*) FROM requests r
		        WHERE r.is_active = true AND date_trunc($3, r.created_at) = b.bucket
		          AND r.created_at BETWEEN $1 AND $2%s) AS created,
		       (SELECT COUNT(*) FROM requests r
		        WHERE r.is_active = true AND date_trunc($3, r.closed_at) = b.bucket
		          AND r.closed_at BETWEEN $1 AND $2%s) AS closed
		FROM buckets b
		ORDER BY b.bucket`, flt, flt)
	args := append([]interface{}{f.From, f.To, groupBy}, f.dimensionArgs()...)
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[dto.ThroughputRowDTO])
}

func (r *metricsRepository) TimeStats(ctx context.Context, f MetricsFilter) (*dto.TimeStatsReportDTO, error) {
	query := `
		SELECT COUNT(*) AS samples,
		       ROUND((AVG(EXTRACT(EPOCH FROM (r.closed_at - r.created_at)) / 3600.0))::numeric, 2) AS avg_lead_hours,
		       ROUND((PERCENTILE_CONT(0.5) WITHIN GROUP (ORDER BY EXTRACT(EPOCH FROM (r.closed_at - r.created_at)) / 3600.0))::numeric, 2) AS median_lead_hours,
		       ROUND((PERCENTILE_CONT(0.9) WITHIN GROUP (ORDER BY EXTRACT(EPOCH FROM (r.closed_at - r.created_at)) / 3600.0))::numeric, 2) AS p90_lead_hours,
		       ROUND((AVG(EXTRACT(EPOCH FROM (r.closed_at - r.first_assigned_at)) / 3600.0))::numeric, 2) AS avg_cycle_hours,
		       ROUND((PERCENTILE_CONT(0.5) WITHIN GROUP (ORDER BY EXTRACT(EPOCH FROM (r.closed_at - r.first_assigned_at)) / 3600.0))::numeric, 2) AS median_cycle_hours,
		       ROUND((PERCENTILE_CONT(0.9) WITHIN GROUP (ORDER BY EXTRACT(EPOCH FROM (r.closed_at - r.first_assigned_at)) / 3600.0))::numeric, 2) AS p90_cycle_hours,
		       ROUND((AVG(EXTRACT(EPOCH FROM (r.first_assigned_at - r.created_at)) / 3600.0))::numeric, 2) AS avg_reaction_hours,
		       ROUND((MAX(EXTRACT(EPOCH FROM (r.closed_at - r.created_at)) / 3600.0))::numeric, 2) AS max_lead_hours
		FROM requests r
		WHERE r.is_active = true AND r.closed_at BETWEEN $1 AND $2` + requestFilterSQL(3)

	var report dto.TimeStatsReportDTO
	err := r.storage.QueryRow(ctx, query, f.rangeArgs()...).Scan(
		&report.Samples, &report.AvgLeadHours, &report.MedianLeadHours,
		&report.P90LeadHours, &report.AvgCycleHours, &report.MedianCycleHours,
		&report.P90CycleHours, &report.AvgReactionHours, &report.MaxLeadHours)
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// StatusTime считает, сколько заявки проводят в каждом статусе. Пары
// "вход-выход" строятся оконной LEAD по истории; для последнего статуса
// выходом служит closed_at либо текущий момент. Интервалы с выходом
// раньше входа отбрасываются: после мягкого удаления промежуточной записи
// истории они могут стать отрицательными. Фильтр по статусу сужает сами
// интервалы, а не заявки, поэтому применяется к длительностям.
func (r *metricsRepository) StatusTime(ctx context.Context, f MetricsFilter) ([]dto.StatusTimeRowDTO, error) {
	query := `
		WITH transitions AS (
			SELECT h.to_status_id AS status_id,
			       h.changed_at,
			       LEAD(h.changed_at) OVER (PARTITION BY h.request_id ORDER BY h.changed_at) AS next_changed_at,
			       r.closed_at
			FROM request_status_history h
			JOIN requests r ON r.id = h.request_id
			WHERE h.is_active = true AND r.is_active = true
			  AND h.changed_at BETWEEN $1 AND $2
			  AND ($4::uuid IS NULL OR r.request_type_id = $4)
			  AND ($5::uuid IS NULL OR r.priority_id = $5)
			  AND ($6::uuid IS NULL OR EXISTS (
				SELECT 1 FROM request_assignments fa
				WHERE fa.request_id = r.id AND fa.is_active = true AND fa.assigned_to = $6))
		),
		durations AS (
			SELECT t.status_id,
			       EXTRACT(EPOCH FROM (COALESCE(t.next_changed_at, t.closed_at, NOW()) - t.changed_at)) / 3600.0 AS hours
			FROM transitions t
			WHERE COALESCE(t.next_changed_at, t.closed_at, NOW()) >= t.changed_at
		)
		SELECT s.code AS status_code, s.name AS status_name,
		       COUNT(*) AS samples,
		       ROUND(MIN(d.hours)::numeric, 2) AS min_hours,
		       ROUND(MAX(d.hours)::numeric, 2) AS max_hours,
		       ROUND(AVG(d.hours)::numeric, 2) AS avg_hours,
		       ROUND((PERCENTILE_CONT(0.5) WITHIN GROUP (ORDER BY d.hours))::numeric, 2) AS median_hours,
		       ROUND((PERCENTILE_CONT(0.9) WITHIN GROUP (ORDER BY d.hours))::numeric, 2) AS p90_hours
		FROM durations d
		JOIN request_status s ON s.id = d.status_id
		WHERE ($3::uuid IS NULL OR d.status_id = $3)
		GROUP BY s.code, s.name, s.sort_order
		ORDER BY s.sort_order`
	rows, err := r.storage.Query(ctx, query, f.rangeArgs()...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[dto.StatusTimeRowDTO])
}

// Workload: текущий бэклог на исполнителе плюс активность за период.
// Созданные считаются по автору заявки, закрытые относятся к последнему
// назначению. Активности собираются отдельными CTE и пристыковываются к
// users внешними join'ами, чтобы автор без единого назначения не выпадал
// из отчёта.
func (r *metricsRepository) Workload(ctx context.Context, f MetricsFilter) ([]dto.WorkloadRowDTO, error) {
	query := `
		WITH created AS (
			SELECT r.created_by AS user_id, COUNT(*) AS created_count
			FROM requests r
			WHERE r.is_active = true AND r.created_at BETWEEN $1 AND $2
			  AND ($3::uuid IS NULL OR r.status_id = $3)
			  AND ($4::uuid IS NULL OR r.request_type_id = $4)
			  AND ($5::uuid IS NULL OR r.priority_id = $5)
			GROUP BY r.created_by
		),
		assigned AS (
			SELECT a.assigned_to AS user_id, COUNT(*) AS assigned_count
			FROM request_assignments a
			JOIN requests r ON r.id = a.request_id AND r.is_active = true
			WHERE a.is_active = true AND a.assigned_at BETWEEN $1 AND $2
			  AND ($3::uuid IS NULL OR r.status_id = $3)
			  AND ($4::uuid IS NULL OR r.request_type_id = $4)
			  AND ($5::uuid IS NULL OR r.priority_id = $5)
			GROUP BY a.assigned_to
		),
		closed AS (
			SELECT la.assigned_to AS user_id, COUNT(*) AS closed_count,
			       ROUND((AVG(EXTRACT(EPOCH FROM (r.closed_at - r.created_at)) / 3600.0))::numeric, 2) AS avg_resolution_hours
			FROM requests r
			LEFT JOIN LATERAL (
				SELECT a.assigned_to FROM request_assignments a
				WHERE a.request_id = r.id AND a.is_active = true
				ORDER BY a.assigned_at DESC
				LIMIT 1
			) la ON true
			WHERE r.is_active = true AND r.closed_at BETWEEN $1 AND $2
			  AND ($3::uuid IS NULL OR r.status_id = $3)
			  AND ($4::uuid IS NULL OR r.request_type_id = $4)
			  AND ($5::uuid IS NULL OR r.priority_id = $5)
			GROUP BY la.assigned_to
		),
		active AS (
			SELECT a.assigned_to AS user_id, COUNT(*) AS active_count
			FROM request_assignments a
			JOIN requests r ON r.id = a.request_id AND r.is_active = true
			WHERE a.is_active = true AND a.unassigned_at IS NULL AND r.closed_at IS NULL
			  AND ($3::uuid IS NULL OR r.status_id = $3)
			  AND ($4::uuid IS NULL OR r.request_type_id = $4)
			  AND ($5::uuid IS NULL OR r.priority_id = $5)
			GROUP BY a.assigned_to
		)
		SELECT u.id AS user_id, u.username, u.full_name,
		       COALESCE(act.active_count, 0) AS active_assigned,
		       COALESCE(c.created_count, 0) AS created_in_range,
		       COALESCE(asg.assigned_count, 0) AS assigned_in_range,
		       COALESCE(cl.closed_count, 0) AS closed_in_range,
		       cl.avg_resolution_hours
		FROM users u
		LEFT JOIN created c ON c.user_id = u.id
		LEFT JOIN assigned asg ON asg.user_id = u.id
		LEFT JOIN closed cl ON cl.user_id = u.id
		LEFT JOIN active act ON act.user_id = u.id
		WHERE u.is_active = true
		  AND ($6::uuid IS NULL OR u.id = $6)
		  AND COALESCE(act.active_count, 0) + COALESCE(c.created_count, 0)
		    + COALESCE(asg.assigned_count, 0) + COALESCE(cl.closed_count, 0) > 0
		ORDER BY active_assigned DESC, closed_in_range DESC, u.username`
	args := []interface{}{f.From, f.To, f.StatusID, f.RequestTypeID, f.PriorityID, f.AssigneeID}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[dto.WorkloadRowDTO])
}

// Distribution - три среза: открытые сейчас, созданные за период, закрытые
// за период, каждый разложен по статусу, приоритету, типу и исполнителю.
// Заявки без исполнителя попадают в корзину UNASSIGNED; в срезе созданных
// за исполнителя считается автор заявки.
func (r *metricsRepository) Distribution(ctx context.Context, f MetricsFilter) (*dto.DistributionReportDTO, error) {
	var report dto.DistributionReportDTO
	var err error
	if report.Open, err = r.distributionSlice(ctx, "r.closed_at IS NULL", 1, false, f.dimensionArgs()); err != nil {
		return nil, err
	}
	if report.Created, err = r.distributionSlice(ctx, "r.created_at BETWEEN $1 AND $2", 3, true, f.rangeArgs()); err != nil {
		return nil, err
	}
	if report.Closed, err = r.distributionSlice(ctx, "r.closed_at BETWEEN $1 AND $2", 3, false, f.rangeArgs()); err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *metricsRepository) distributionSlice(ctx context.Context, where string, start int, byCreator bool, args []interface{}) (dto.DistributionSliceDTO, error) {
	var slice dto.DistributionSliceDTO
	targets := []struct {
		dimension string
		dst       *[]dto.DistributionRowDTO
	}{
		{"status", &slice.ByStatus},
		{"priority", &slice.ByPriority},
		{"type", &slice.ByType},
		{"assignee", &slice.ByAssignee},
	}
	for _, t := range targets {
		keyExpr, nameExpr, joinSQL, err := distributionDimension(t.dimension, byCreator)
		if err != nil {
			return dto.DistributionSliceDTO{}, err
		}
		query := fmt.Sprintf(`
			SELECT %s AS key, %s AS name, COUNT(*) AS count
			FROM requests r
			%s
			WHERE r.is_active = true AND %s%s
			GROUP BY key, name
			ORDER BY count DESC, key`, keyExpr, nameExpr, joinSQL, where, requestFilterSQL(start))
		rows, err := r.storage.Query(ctx, query, args...)
		if err != nil {
			return dto.DistributionSliceDTO{}, err
		}
		if *t.dst, err = pgx.CollectRows(rows, pgx.RowToStructByName[dto.DistributionRowDTO]); err != nil {
			return dto.DistributionSliceDTO{}, err
		}
	}
	return slice, nil
}

// distributionDimension отображает измерение в выражения ключа и join.
// Для assignee берётся последнее назначение заявки, активное или уже
// закрытое, чтобы закрытые заявки не теряли исполнителя; byCreator
// переключает это измерение на автора заявки.
func distributionDimension(dimension string, byCreator bool) (keyExpr, nameExpr, joinSQL string, err error) {
	switch dimension {
	case "status":
		return "s.code", "s.name", "JOIN request_status s ON s.id = r.status_id", nil
	case "priority":
		return "p.code", "p.name", "JOIN request_priorities p ON p.id = r.priority_id", nil
	case "type":
		return "t.code", "t.name", "JOIN request_types t ON t.id = r.request_type_id", nil
	case "assignee":
		if byCreator {
			return "u.username", "u.full_name", "JOIN users u ON u.id = r.created_by", nil
		}
		join := `
			LEFT JOIN LATERAL (
				SELECT assigned_to FROM request_assignments
				WHERE request_id = r.id AND is_active = true
				ORDER BY assigned_at DESC
				LIMIT 1
			) la ON true
			LEFT JOIN users u ON u.id = la.assigned_to`
		return "COALESCE(u.username, 'UNASSIGNED')", "COALESCE(u.full_name, 'Не назначено')", join, nil
	default:
		return "", "", "", fmt.Errorf("неизвестное измерение распределения %q: %w", dimension, apperrors.ErrBadRequest)
	}
}

// ProcessTime раскладывает жизненный цикл закрытых заявок на этапы:
// регистрация (создание - первое назначение), обработка (первый вход в
// inProgressCode - закрытие) и полное время.
func (r *metricsRepository) ProcessTime(ctx context.Context, f MetricsFilter, inProgressCode string) (*dto.ProcessTimeReportDTO, error) {
	query := `
		WITH closed AS (
			SELECT r.id, r.created_at, r.first_assigned_at, r.closed_at,
			       (SELECT MIN(h.changed_at)
			        FROM request_status_history h
			        JOIN request_status s ON s.id = h.to_status_id
			        WHERE h.request_id = r.id AND h.is_active = true AND s.code = $3) AS first_in_progress_at
			FROM requests r
			WHERE r.is_active = true AND r.closed_at BETWEEN $1 AND $2` + requestFilterSQL(4) + `
		)
		SELECT COUNT(*) AS samples,
		       ROUND((AVG(EXTRACT(EPOCH FROM (c.first_assigned_at - c.created_at)) / 3600.0))::numeric, 2) AS avg_registration_hours,
		       ROUND((PERCENTILE_CONT(0.5) WITHIN GROUP (ORDER BY EXTRACT(EPOCH FROM (c.first_assigned_at - c.created_at)) / 3600.0))::numeric, 2) AS median_registration_hours,
		       ROUND((AVG(EXTRACT(EPOCH FROM (c.closed_at - c.first_in_progress_at)) / 3600.0))::numeric, 2) AS avg_processing_hours,
		       ROUND((PERCENTILE_CONT(0.5) WITHIN GROUP (ORDER BY EXTRACT(EPOCH FROM (c.closed_at - c.first_in_progress_at)) / 3600.0))::numeric, 2) AS median_processing_hours,
		       ROUND((AVG(EXTRACT(EPOCH FROM (c.closed_at - c.created_at)) / 3600.0))::numeric, 2) AS avg_total_hours,
		       ROUND((PERCENTILE_CONT(0.5) WITHIN GROUP (ORDER BY EXTRACT(EPOCH FROM (c.closed_at - c.created_at)) / 3600.0))::numeric, 2) AS median_total_hours,
		       ROUND((PERCENTILE_CONT(0.9) WITHIN GROUP (ORDER BY EXTRACT(EPOCH FROM (c.closed_at - c.created_at)) / 3600.0))::numeric, 2) AS p90_total_hours
		FROM closed c`

	args := append([]interface{}{f.From, f.To, inProgressCode}, f.dimensionArgs()...)
	var report dto.ProcessTimeReportDTO
	err := r.storage.QueryRow(ctx, query, args...).Scan(
		&report.Samples, &report.AvgRegistrationHours, &report.MedRegistrationHours,
		&report.AvgProcessingHours, &report.MedProcessingHours,
		&report.AvgTotalHours, &report.MedTotalHours, &report.P90TotalHours)
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// RequestTimes - живой срез по каждой заявке: сколько часов она уже провела
// без исполнителя, с исполнителем и в работе, плюс возраст текущего статуса.
// Диапазон дат фильтра не применяется, срезы по справочникам - да.
func (r *metricsRepository) RequestTimes(ctx context.Context, f MetricsFilter, includeClosed bool) ([]dto.RequestTimeRowDTO, error) {
	closedFilter := "AND r.closed_at IS NULL"
	if includeClosed {
		closedFilter = ""
	}
	query := fmt.Sprintf(`
		WITH segments AS (
			SELECT h.request_id,
			       s.code AS status_code,
			       h.changed_at,
			       COALESCE(
			           LEAD(h.changed_at) OVER (PARTITION BY h.request_id ORDER BY h.changed_at),
			           r.closed_at, NOW()
			       ) AS seg_end
			FROM request_status_history h
			JOIN request_status s ON s.id = h.to_status_id
			JOIN requests r ON r.id = h.request_id
			WHERE h.is_active = true AND r.is_active = true
		)
		SELECT r.id AS request_id, r.title, cs.code AS status_code,
		       ROUND((COALESCE(SUM(EXTRACT(EPOCH FROM (sg.seg_end - sg.changed_at)) / 3600.0)
		             FILTER (WHERE sg.status_code = $1), 0))::numeric, 2) AS hours_unassigned,
		       ROUND((COALESCE(SUM(EXTRACT(EPOCH FROM (sg.seg_end - sg.changed_at)) / 3600.0)
		             FILTER (WHERE sg.status_code = $2), 0))::numeric, 2) AS hours_assigned,
		       ROUND((COALESCE(SUM(EXTRACT(EPOCH FROM (sg.seg_end - sg.changed_at)) / 3600.0)
		             FILTER (WHERE sg.status_code = $3), 0))::numeric, 2) AS hours_in_progress,
		       ROUND((EXTRACT(EPOCH FROM (COALESCE(r.closed_at, NOW()) - MAX(sg.changed_at))) / 3600.0)::numeric, 2) AS hours_current_status,
		       ROUND((EXTRACT(EPOCH FROM (COALESCE(r.closed_at, NOW()) - r.created_at)) / 3600.0)::numeric, 2) AS total_age_hours
		FROM requests r
		JOIN request_status cs ON cs.id = r.status_id
		JOIN segments sg ON sg.request_id = r.id
		WHERE r.is_active = true %s%s
		GROUP BY r.id, r.title, cs.code, r.created_at, r.closed_at
		ORDER BY r.created_at`, closedFilter, requestFilterSQL(4))
	args := append([]interface{}{
		constants.StatusUnassigned, constants.StatusAssigned, constants.StatusInProgress},
		f.dimensionArgs()...)
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[dto.RequestTimeRowDTO])
}
