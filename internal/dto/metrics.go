package dto

import (
	"time"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
)

// MetricsFilterDTO — общий фильтр отчётов. Даты в формате YYYY-MM-DD,
// окно по умолчанию — последние 30 дней. Срезы по справочникам и
// исполнителю необязательны: пустая строка означает "без фильтра".
type MetricsFilterDTO struct {
	DateFrom      string `query:"date_from"`
	DateTo        string `query:"date_to"`
	StatusID      string `query:"status_id" validate:"omitempty,uuid"`
	RequestTypeID string `query:"request_type_id" validate:"omitempty,uuid"`
	PriorityID    string `query:"priority_id" validate:"omitempty,uuid"`
	AssigneeID    string `query:"assignee_id" validate:"omitempty,uuid"`
}

type ThroughputQueryDTO struct {
	MetricsFilterDTO
	GroupBy string `query:"group_by" validate:"omitempty,oneof=day week month"`
}

type ProcessTimeQueryDTO struct {
	MetricsFilterDTO
	InProgressCode string `query:"in_progress_code"`
}

type RequestTimesQueryDTO struct {
	MetricsFilterDTO
	IncludeClosed bool `query:"include_closed"`
}

type OverviewReportDTO struct {
	Total                 int64        `json:"total" db:"total"`
	Open                  int64        `json:"open" db:"open"`
	Closed                int64        `json:"closed" db:"closed"`
	Unassigned            int64        `json:"unassigned" db:"unassigned"`
	AvgReactionHours      null.Float64 `json:"avg_reaction_hours" db:"avg_reaction_hours"`
	AvgResolutionHours    null.Float64 `json:"avg_resolution_hours" db:"avg_resolution_hours"`
	MedianResolutionHours null.Float64 `json:"median_resolution_hours" db:"median_resolution_hours"`
	P90ResolutionHours    null.Float64 `json:"p90_resolution_hours" db:"p90_resolution_hours"`
}

type BacklogRowDTO struct {
	StatusCode  string       `json:"status_code" db:"status_code"`
	StatusName  string       `json:"status_name" db:"status_name"`
	Count       int64        `json:"count" db:"count"`
	OldestAt    null.Time    `json:"oldest_at" db:"oldest_at"`
	AvgAgeHours null.Float64 `json:"avg_age_hours" db:"avg_age_hours"`
}

type ThroughputRowDTO struct {
	Bucket  time.Time `json:"bucket" db:"bucket"`
	Created int64     `json:"created" db:"created"`
	Closed  int64     `json:"closed" db:"closed"`
}

// TimeStatsReportDTO: lead — от создания до закрытия, cycle — от первого
// назначения до закрытия, reaction — от создания до первого назначения.
// Часы, округление до сотых.
type TimeStatsReportDTO struct {
	Samples          int64        `json:"samples" db:"samples"`
	AvgLeadHours     null.Float64 `json:"avg_lead_hours" db:"avg_lead_hours"`
	MedianLeadHours  null.Float64 `json:"median_lead_hours" db:"median_lead_hours"`
	P90LeadHours     null.Float64 `json:"p90_lead_hours" db:"p90_lead_hours"`
	AvgCycleHours    null.Float64 `json:"avg_cycle_hours" db:"avg_cycle_hours"`
	MedianCycleHours null.Float64 `json:"median_cycle_hours" db:"median_cycle_hours"`
	P90CycleHours    null.Float64 `json:"p90_cycle_hours" db:"p90_cycle_hours"`
	AvgReactionHours null.Float64 `json:"avg_reaction_hours" db:"avg_reaction_hours"`
	MaxLeadHours     null.Float64 `json:"max_lead_hours" db:"max_lead_hours"`
}

type StatusTimeRowDTO struct {
	StatusCode  string       `json:"status_code" db:"status_code"`
	StatusName  string       `json:"status_name" db:"status_name"`
	Samples     int64        `json:"samples" db:"samples"`
	MinHours    null.Float64 `json:"min_hours" db:"min_hours"`
	MaxHours    null.Float64 `json:"max_hours" db:"max_hours"`
	AvgHours    null.Float64 `json:"avg_hours" db:"avg_hours"`
	MedianHours null.Float64 `json:"median_hours" db:"median_hours"`
	P90Hours    null.Float64 `json:"p90_hours" db:"p90_hours"`
}

type WorkloadRowDTO struct {
	UserID             uuid.UUID    `json:"user_id" db:"user_id"`
	Username           string       `json:"username" db:"username"`
	FullName           string       `json:"full_name" db:"full_name"`
	ActiveAssigned     int64        `json:"active_assigned" db:"active_assigned"`
	CreatedInRange     int64        `json:"created_in_range" db:"created_in_range"`
	AssignedInRange    int64        `json:"assigned_in_range" db:"assigned_in_range"`
	ClosedInRange      int64        `json:"closed_in_range" db:"closed_in_range"`
	AvgResolutionHours null.Float64 `json:"avg_resolution_hours" db:"avg_resolution_hours"`
}

type DistributionRowDTO struct {
	Key   string `json:"key" db:"key"`
	Name  string `json:"name" db:"name"`
	Count int64  `json:"count" db:"count"`
}

// DistributionSliceDTO — один срез (открытые/созданные/закрытые),
// разложенный сразу по всем четырём измерениям.
type DistributionSliceDTO struct {
	ByStatus   []DistributionRowDTO `json:"by_status"`
	ByPriority []DistributionRowDTO `json:"by_priority"`
	ByType     []DistributionRowDTO `json:"by_type"`
	ByAssignee []DistributionRowDTO `json:"by_assignee"`
}

type DistributionReportDTO struct {
	Open    DistributionSliceDTO `json:"open"`
	Created DistributionSliceDTO `json:"created"`
	Closed  DistributionSliceDTO `json:"closed"`
}

type ProcessTimeReportDTO struct {
	Samples              int64        `json:"samples" db:"samples"`
	AvgRegistrationHours null.Float64 `json:"avg_registration_hours" db:"avg_registration_hours"`
	MedRegistrationHours null.Float64 `json:"median_registration_hours" db:"median_registration_hours"`
	AvgProcessingHours   null.Float64 `json:"avg_processing_hours" db:"avg_processing_hours"`
	MedProcessingHours   null.Float64 `json:"median_processing_hours" db:"median_processing_hours"`
	AvgTotalHours        null.Float64 `json:"avg_total_hours" db:"avg_total_hours"`
	MedTotalHours        null.Float64 `json:"median_total_hours" db:"median_total_hours"`
	P90TotalHours        null.Float64 `json:"p90_total_hours" db:"p90_total_hours"`
}

type RequestTimeRowDTO struct {
	RequestID          uuid.UUID    `json:"request_id" db:"request_id"`
	Title              string       `json:"title" db:"title"`
	StatusCode         string       `json:"status_code" db:"status_code"`
	HoursUnassigned    null.Float64 `json:"hours_unassigned" db:"hours_unassigned"`
	HoursAssigned      null.Float64 `json:"hours_assigned" db:"hours_assigned"`
	HoursInProgress    null.Float64 `json:"hours_in_progress" db:"hours_in_progress"`
	HoursCurrentStatus null.Float64 `json:"hours_current_status" db:"hours_current_status"`
	TotalAgeHours      null.Float64 `json:"total_age_hours" db:"total_age_hours"`
}
