package utils

import (
	"fmt"
	"time"

	apperrors "request-board/pkg/errors"
)

// Окно отчётов по умолчанию — последние 30 календарных дней включительно.
const defaultWindowDays = 30

// ResolveRange разбирает границы окна отчёта. Пустые значения дают
// дефолтное окно [now-29d 00:00 .. now].
func ResolveRange(dateFrom, dateTo string, now time.Time) (time.Time, time.Time, error) {
	to := now
	if dateTo != "" {
		parsed, err := time.Parse("2006-01-02", dateTo)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: неверный формат dateTo", apperrors.ErrBadRequest)
		}
		to = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 23, 59, 59, 999_000_000, time.UTC)
	}

	var from time.Time
	if dateFrom != "" {
		parsed, err := time.Parse("2006-01-02", dateFrom)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: неверный формат dateFrom", apperrors.ErrBadRequest)
		}
		from = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
	} else {
		from = to.AddDate(0, 0, -(defaultWindowDays - 1))
	}

	if from.After(to) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: dateFrom позже dateTo", apperrors.ErrBadRequest)
	}
	return from, to, nil
}
