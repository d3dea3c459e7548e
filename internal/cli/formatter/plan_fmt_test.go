package formatter

import (
	"testing"
	"time"

	"github.com/alexanderramin/studyplan/internal/contract"
	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/stretchr/testify/assert"
)

func samplePlan() *contract.PlanResponse {
	date := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	segs := []domain.TimelineSegment{
		{ContentID: "book", Date: date, Start: domain.MustParseClock("09:00"), End: domain.MustParseClock("09:30"),
			BlockIndex: 1, StartUnit: 0, EndUnit: 10, Kind: domain.SessionStudy, IsPartial: true},
		{ContentID: "book", Date: date, Start: domain.MustParseClock("13:00"), End: domain.MustParseClock("13:10"),
			BlockIndex: 2, StartUnit: 10, EndUnit: 15, Kind: domain.SessionStudy, IsContinued: true},
	}
	return &contract.PlanResponse{
		Days: []contract.DayPlan{
			{Date: "2025-03-03", Weekday: "Monday", DayType: domain.DayStudy, CycleNumber: 1, CycleDayNumber: 1,
				WeekNumber: 1, AvailableMin: 480, ScheduledMin: 40, Segments: segs,
				Ranges: []domain.TimeRange{domain.MustTimeRange("09:00", "12:00")}},
			{Date: "2025-03-04", Weekday: "Tuesday", DayType: domain.DayVacation, WeekNumber: 1},
		},
		Segments: segs,
		Diagnostics: []contract.Diagnostic{
			contract.NewShortfallDiagnostic(date, 1, "book", 90, 60),
		},
		Summary: contract.AvailabilitySummary{
			TotalDays: 2, StudyDays: 1, ExcludedDays: 1,
			ExclusionCounts: map[domain.ExclusionType]int{domain.ExclusionVacation: 1},
			StudyMinutes:    480,
		},
	}
}

func TestFormatDays(t *testing.T) {
	out := stripANSI(FormatDays(samplePlan()))

	assert.Contains(t, out, "2025-03-03 Mon")
	assert.Contains(t, out, "STUDY")
	assert.Contains(t, out, "1/1")
	assert.Contains(t, out, "8h")
	assert.Contains(t, out, "09:00-12:00")
	assert.Contains(t, out, "VACATION")
}

func TestFormatTimeline_UsesTitlesAndFlags(t *testing.T) {
	idx := NewContentIndex([]domain.ContentItem{{ID: "book", Title: "Algebra", Type: domain.ContentBook}})
	out := stripANSI(FormatTimeline(samplePlan(), idx))

	assert.Contains(t, out, "2025-03-03 Monday")
	assert.Contains(t, out, "Algebra")
	assert.Contains(t, out, "p1-10")
	assert.Contains(t, out, "p11-15")
	assert.Contains(t, out, "split")
	assert.Contains(t, out, "cont.")
	assert.NotContains(t, out, "Tuesday")
}

func TestFormatTimeline_Empty(t *testing.T) {
	out := stripANSI(FormatTimeline(&contract.PlanResponse{}, nil))
	assert.Equal(t, "No sessions scheduled.", out)
}

func TestFormatTimeline_FallsBackToContentID(t *testing.T) {
	out := stripANSI(FormatTimeline(samplePlan(), ContentIndex{}))
	assert.Contains(t, out, "book")
}

func TestFormatDiagnostics(t *testing.T) {
	out := stripANSI(FormatDiagnostics(samplePlan().Diagnostics))

	assert.Contains(t, out, "DIAGNOSTICS")
	assert.Contains(t, out, "needed 90 minutes, only 60 available")
	assert.Contains(t, out, "[book]")
	assert.Empty(t, FormatDiagnostics(nil))
}

func TestFormatSummary(t *testing.T) {
	out := stripANSI(FormatSummary(samplePlan()))

	assert.Contains(t, out, "days 2")
	assert.Contains(t, out, "study 1")
	assert.Contains(t, out, "vacation 1")
	assert.Contains(t, out, "scheduled 40m")
}

func TestFormatRows(t *testing.T) {
	rows := []*domain.PlanRow{{
		ID: "row-1", ContentID: "book", PlanDate: time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		StartTime: domain.MustParseClock("10:00"), EndTime: domain.MustParseClock("11:00"),
		PlannedStart: 0, PlannedEnd: 10, CompletedAmount: 4,
		Status: domain.PlanInProgress, Kind: domain.SessionStudy,
	}}
	idx := NewContentIndex([]domain.ContentItem{{ID: "book", Title: "Algebra", Type: domain.ContentBook}})
	out := stripANSI(FormatRows(rows, idx))

	assert.Contains(t, out, "row-1")
	assert.Contains(t, out, "Mon 03-03")
	assert.Contains(t, out, "10:00-11:00")
	assert.Contains(t, out, "4/10")
	assert.Contains(t, out, "In Progress")

	assert.Equal(t, "No plan rows.", stripANSI(FormatRows(nil, idx)))
}

func TestFormatRowProgress_SkipsReviewAndCanceled(t *testing.T) {
	rows := []*domain.PlanRow{
		{ContentID: "book", PlannedEnd: 10, CompletedAmount: 10, Kind: domain.SessionStudy, Status: domain.PlanCompleted},
		{ContentID: "book", PlannedStart: 10, PlannedEnd: 20, Kind: domain.SessionStudy, Status: domain.PlanPending},
		{ContentID: "book", PlannedEnd: 20, Kind: domain.SessionReview, Status: domain.PlanPending},
		{ContentID: "book", PlannedStart: 20, PlannedEnd: 30, Kind: domain.SessionStudy, Status: domain.PlanCanceled},
	}
	out := stripANSI(FormatRowProgress(rows, ContentIndex{}))
	assert.Contains(t, out, "50% (10/20)")
}

func TestFormatReschedule(t *testing.T) {
	res := &contract.RescheduleResponse{
		GroupID:      "g1",
		ReplanFrom:   "2025-03-06",
		Bounds:       []domain.UncompletedBounds{{ContentID: "book", StartUnit: 4, EndUnit: 20, TotalUncompleted: 16}},
		CanceledRows: 2,
		RemovedRows:  5,
		CreatedRows:  4,
	}
	out := stripANSI(FormatReschedule(res, ContentIndex{}, false))
	assert.Contains(t, out, "2025-03-06")
	assert.Contains(t, out, "2 canceled, 5 removed, 4 created")
	assert.Contains(t, out, "16")

	dry := stripANSI(FormatReschedule(res, ContentIndex{}, true))
	assert.Contains(t, dry, "DRY RUN")
	assert.NotContains(t, dry, "canceled")
}
