package app

import (
	"fmt"
	"time"

	"github.com/alexanderramin/studyplan/internal/domain"
)

type ConfigErrorCode string

const (
	ErrInvalidCycle       ConfigErrorCode = "INVALID_CYCLE"
	ErrEmptyPeriod        ConfigErrorCode = "EMPTY_PERIOD"
	ErrInvalidPeriod      ConfigErrorCode = "INVALID_PERIOD"
	ErrUnknownSubjectType ConfigErrorCode = "UNKNOWN_SUBJECT_TYPE"
	ErrInvalidWeeklyDays  ConfigErrorCode = "INVALID_WEEKLY_DAYS"
	ErrInvalidContent     ConfigErrorCode = "INVALID_CONTENT"
	ErrDuplicateContent   ConfigErrorCode = "DUPLICATE_CONTENT"
	ErrDuplicateExclusion ConfigErrorCode = "DUPLICATE_EXCLUSION"
	ErrInvalidTimeRange   ConfigErrorCode = "INVALID_TIME_RANGE"
	ErrInvalidExclusion   ConfigErrorCode = "INVALID_EXCLUSION"
	ErrInvalidSegment     ConfigErrorCode = "INVALID_SEGMENT"
	ErrInvalidLevel       ConfigErrorCode = "INVALID_STUDENT_LEVEL"
	ErrInvalidPolicy      ConfigErrorCode = "INVALID_POLICY"
	ErrInvalidFactor      ConfigErrorCode = "INVALID_FACTOR"
)

// ConfigError rejects a request before any computation runs.
type ConfigError struct {
	Code    ConfigErrorCode
	Message string
}

func (e *ConfigError) Error() string {
	return string(e.Code) + ": " + e.Message
}

// NewConfigError formats a ConfigError message.
func NewConfigError(code ConfigErrorCode, format string, args ...any) *ConfigError {
	return &ConfigError{Code: code, Message: fmt.Sprintf(format, args...)}
}

type DiagnosticCode string

const (
	DiagInsufficientTime  DiagnosticCode = "INSUFFICIENT_TIME"
	DiagNoStudyDaysInWeek DiagnosticCode = "NO_STUDY_DAYS_IN_WEEK"
	DiagNoAllocation      DiagnosticCode = "NO_ALLOCATION"
	DiagNoStudyDays       DiagnosticCode = "NO_STUDY_DAYS"
	DiagNoPlansGenerated  DiagnosticCode = "NO_PLANS_GENERATED"
	DiagCarryOverUnplaced DiagnosticCode = "CARRY_OVER_UNPLACED"
)

// Diagnostic is a non-fatal infeasibility returned next to a partial plan.
type Diagnostic struct {
	Code         DiagnosticCode
	Date         string
	Weekday      string
	Week         int
	ContentID    string
	RequiredMin  int
	AvailableMin int
	ShortageMin  int
	Message      string
}

// NewShortfallDiagnostic builds the user-facing capacity shortfall entry.
func NewShortfallDiagnostic(date time.Time, week int, contentID string, required, available int) Diagnostic {
	d := Diagnostic{
		Code:         DiagInsufficientTime,
		Date:         domain.FormatDate(date),
		Weekday:      date.Weekday().String(),
		Week:         week,
		ContentID:    contentID,
		RequiredMin:  required,
		AvailableMin: available,
		ShortageMin:  required - available,
	}
	d.Message = fmt.Sprintf("Week %d, %s (%s): needed %d minutes, only %d available",
		week, d.Weekday, d.Date, required, available)
	return d
}

// InfeasibleError aborts a run under the abort shortfall policy.
type InfeasibleError struct {
	Diagnostic Diagnostic
}

func (e *InfeasibleError) Error() string {
	return string(e.Diagnostic.Code) + ": " + e.Diagnostic.Message
}
