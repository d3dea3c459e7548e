package contract

import "github.com/alexanderramin/studyplan/internal/app"

type ConfigErrorCode = app.ConfigErrorCode

const (
	ErrInvalidCycle       ConfigErrorCode = app.ErrInvalidCycle
	ErrEmptyPeriod        ConfigErrorCode = app.ErrEmptyPeriod
	ErrInvalidPeriod      ConfigErrorCode = app.ErrInvalidPeriod
	ErrUnknownSubjectType ConfigErrorCode = app.ErrUnknownSubjectType
	ErrInvalidWeeklyDays  ConfigErrorCode = app.ErrInvalidWeeklyDays
	ErrInvalidContent     ConfigErrorCode = app.ErrInvalidContent
	ErrDuplicateContent   ConfigErrorCode = app.ErrDuplicateContent
	ErrDuplicateExclusion ConfigErrorCode = app.ErrDuplicateExclusion
	ErrInvalidTimeRange   ConfigErrorCode = app.ErrInvalidTimeRange
	ErrInvalidExclusion   ConfigErrorCode = app.ErrInvalidExclusion
	ErrInvalidSegment     ConfigErrorCode = app.ErrInvalidSegment
	ErrInvalidLevel       ConfigErrorCode = app.ErrInvalidLevel
	ErrInvalidPolicy      ConfigErrorCode = app.ErrInvalidPolicy
	ErrInvalidFactor      ConfigErrorCode = app.ErrInvalidFactor
)

type ConfigError = app.ConfigError

func NewConfigError(code ConfigErrorCode, format string, args ...any) *ConfigError {
	return app.NewConfigError(code, format, args...)
}

type DiagnosticCode = app.DiagnosticCode

const (
	DiagInsufficientTime  DiagnosticCode = app.DiagInsufficientTime
	DiagNoStudyDaysInWeek DiagnosticCode = app.DiagNoStudyDaysInWeek
	DiagNoAllocation      DiagnosticCode = app.DiagNoAllocation
	DiagNoStudyDays       DiagnosticCode = app.DiagNoStudyDays
	DiagNoPlansGenerated  DiagnosticCode = app.DiagNoPlansGenerated
	DiagCarryOverUnplaced DiagnosticCode = app.DiagCarryOverUnplaced
)

type Diagnostic = app.Diagnostic

var NewShortfallDiagnostic = app.NewShortfallDiagnostic

type InfeasibleError = app.InfeasibleError
