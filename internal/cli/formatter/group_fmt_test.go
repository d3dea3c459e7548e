package formatter

import (
	"testing"
	"time"

	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/stretchr/testify/assert"
)

func sampleGroup() *domain.PlanGroup {
	lunch := domain.MustTimeRange("12:00", "13:00")
	return &domain.PlanGroup{
		ID:              "12345678-aaaa-bbbb-cccc-1234567890ab",
		Name:            "Spring term",
		PeriodStart:     time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		PeriodEnd:       time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC),
		StudyDays:       6,
		ReviewDays:      1,
		StudentLevel:    domain.LevelMedium,
		ShortfallPolicy: domain.ShortfallReport,
		Lunch:           &lunch,
	}
}

func TestFormatGroupList(t *testing.T) {
	out := stripANSI(FormatGroupList([]*domain.PlanGroup{sampleGroup()}))

	assert.Contains(t, out, "PLAN GROUPS")
	assert.Contains(t, out, "12345678")
	assert.NotContains(t, out, "aaaa-bbbb")
	assert.Contains(t, out, "2025-03-03 → 2025-03-16")
	assert.Contains(t, out, "6+1")
}

func TestFormatGroupDetail(t *testing.T) {
	travel := 20
	data := GroupDetailData{
		Group: sampleGroup(),
		Blocks: []domain.RecurringBlock{
			{DayOfWeek: time.Monday, Range: domain.MustTimeRange("09:00", "12:00")},
		},
		Exclusions: []domain.Exclusion{
			{Date: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), Type: domain.ExclusionDesignatedHoliday, Reason: "school event"},
		},
		Academies: []domain.AcademyConflict{
			{DayOfWeek: time.Wednesday, Range: domain.MustTimeRange("18:00", "19:30"), Label: "Math academy", TravelMinutes: &travel},
		},
		Contents: []domain.ContentItem{
			{ID: "math-book", Title: "Algebra", Type: domain.ContentBook, Subject: "math",
				SubjectType: domain.SubjectWeakness, TotalExtent: 120},
			{ID: "eng", Title: "Reading", Type: domain.ContentLecture, Subject: "english",
				SubjectType: domain.SubjectStrategy, TotalExtent: 10, Priority: 2},
		},
	}
	out := stripANSI(FormatGroupDetail(data))

	assert.Contains(t, out, "Spring term")
	assert.Contains(t, out, "6 study + 1 review")
	assert.Contains(t, out, "12:00-13:00")
	assert.Contains(t, out, "Mon  09:00-12:00")
	assert.Contains(t, out, "Math academy ±20m")
	assert.Contains(t, out, "HOLIDAY school event")
	assert.Contains(t, out, "p1-120")
	assert.Contains(t, out, "strategy 3/wk")
	assert.Contains(t, out, "ep1-10")
}
