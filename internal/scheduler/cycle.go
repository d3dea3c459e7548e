package scheduler

import (
	"fmt"
	"time"

	"github.com/alexanderramin/studyplan/internal/contract"
	"github.com/alexanderramin/studyplan/internal/domain"
)

// CycleConfig is the repeating study/review pattern in active-day space.
type CycleConfig struct {
	StudyDays  int
	ReviewDays int
}

// ContinuousCycle treats every active day as a study day.
func ContinuousCycle() CycleConfig {
	return CycleConfig{StudyDays: 7, ReviewDays: 0}
}

// Length is the number of active days in one cycle.
func (c CycleConfig) Length() int {
	return c.StudyDays + c.ReviewDays
}

// Validate enforces studyDays >= 1, reviewDays >= 0 and a cycle of at most
// 7 days.
func (c CycleConfig) Validate() error {
	if c.StudyDays < 1 {
		return contract.NewConfigError(contract.ErrInvalidCycle, "study days must be at least 1, got %d", c.StudyDays)
	}
	if c.ReviewDays < 0 {
		return contract.NewConfigError(contract.ErrInvalidCycle, "review days must not be negative, got %d", c.ReviewDays)
	}
	if c.Length() > 7 {
		return contract.NewConfigError(contract.ErrInvalidCycle, "study days %d + review days %d exceed 7", c.StudyDays, c.ReviewDays)
	}
	return nil
}

// ClassifyCycle labels every date in [start, end]. The cycle counter only
// advances on non-excluded dates, so exclusions never shift the pattern of
// the remaining days. Excluded dates keep the current cycle number with a
// cycle day of 0.
func ClassifyCycle(start, end time.Time, cfg CycleConfig, exclusions []domain.Exclusion) ([]domain.DayRecord, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if start.IsZero() || end.IsZero() {
		return nil, contract.NewConfigError(contract.ErrInvalidPeriod, "period bounds are required")
	}
	if end.Before(start) {
		return nil, contract.NewConfigError(contract.ErrEmptyPeriod, "period ends %s before it starts %s", domain.FormatDate(end), domain.FormatDate(start))
	}
	excluded, err := ExclusionIndex(exclusions)
	if err != nil {
		return nil, err
	}

	dates := domain.DatesBetween(start, end)
	records := make([]domain.DayRecord, len(dates))
	counter, cycle := 0, 1
	for i, date := range dates {
		rec := domain.DayRecord{Date: date}
		if ex, ok := excluded[domain.FormatDate(date)]; ok {
			rec.Kind = domain.ExcludedDay{Exclusion: ex, CycleNumber: cycle}
		} else {
			counter++
			if counter > cfg.Length() {
				counter = 1
				cycle++
			}
			if counter <= cfg.StudyDays {
				rec.Kind = domain.StudyDay{CycleDayNumber: counter, CycleNumber: cycle}
			} else {
				rec.Kind = domain.ReviewDay{CycleDayNumber: counter, CycleNumber: cycle}
			}
		}
		rec.WeekNumber = rec.CycleNumber()
		records[i] = rec
	}

	for _, rec := range records {
		if rec.Kind == nil || rec.Type() == "" {
			panic(fmt.Sprintf("scheduler: date %s classified without a day type", domain.FormatDate(rec.Date)))
		}
	}
	return records, nil
}
