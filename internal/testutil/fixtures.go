package testutil

import (
	"time"

	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/google/uuid"
)

// Date parses a YYYY-MM-DD literal and panics on bad input.
func Date(s string) time.Time {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

// Plan group options
type GroupOption func(*domain.PlanGroup)

func WithPeriod(start, end string) GroupOption {
	return func(g *domain.PlanGroup) {
		g.PeriodStart = Date(start)
		g.PeriodEnd = Date(end)
	}
}

func WithCycle(study, review int) GroupOption {
	return func(g *domain.PlanGroup) {
		g.StudyDays = study
		g.ReviewDays = review
	}
}

func WithLevel(l domain.StudentLevel) GroupOption {
	return func(g *domain.PlanGroup) {
		g.StudentLevel = l
	}
}

func WithPolicy(p domain.ShortfallPolicy) GroupOption {
	return func(g *domain.PlanGroup) {
		g.ShortfallPolicy = p
	}
}

func WithStudyHours(start, end domain.Clock) GroupOption {
	return func(g *domain.PlanGroup) {
		g.StudyHours = &domain.TimeRange{Start: start, End: end}
	}
}

func WithSelfStudy(start, end domain.Clock) GroupOption {
	return func(g *domain.PlanGroup) {
		g.SelfStudyEnabled = true
		g.SelfStudyHours = &domain.TimeRange{Start: start, End: end}
	}
}

func WithAdditionalPeriod(ap domain.AdditionalPeriod) GroupOption {
	return func(g *domain.PlanGroup) {
		g.AdditionalPeriod = &ap
	}
}

func WithSubjectAllocation(subject string, t domain.SubjectType, days int) GroupOption {
	return func(g *domain.PlanGroup) {
		g.SubjectAllocations = append(g.SubjectAllocations, domain.SubjectAllocation{
			Subject: subject, SubjectType: t, WeeklyAllocationDays: days,
		})
	}
}

// NewTestPlanGroup returns a one-week 6+1 group starting Monday 2025-03-03.
func NewTestPlanGroup(name string, opts ...GroupOption) *domain.PlanGroup {
	now := time.Now().UTC().Truncate(time.Second)
	g := &domain.PlanGroup{
		ID:              uuid.New().String(),
		Name:            name,
		PeriodStart:     Date("2025-03-03"),
		PeriodEnd:       Date("2025-03-09"),
		StudyDays:       6,
		ReviewDays:      1,
		StudentLevel:    domain.LevelMedium,
		ShortfallPolicy: domain.ShortfallReport,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Content options
type ContentOption func(*domain.ContentItem)

func WithContentType(t domain.ContentType) ContentOption {
	return func(c *domain.ContentItem) {
		c.Type = t
	}
}

func WithSubject(subject string, t domain.SubjectType) ContentOption {
	return func(c *domain.ContentItem) {
		c.Subject = subject
		c.SubjectType = t
	}
}

func WithRange(start, extent int) ContentOption {
	return func(c *domain.ContentItem) {
		c.StartUnit = start
		c.TotalExtent = extent
	}
}

func WithWeeklyDays(n int) ContentOption {
	return func(c *domain.ContentItem) {
		c.WeeklyAllocationDays = n
	}
}

func WithPriority(p int) ContentOption {
	return func(c *domain.ContentItem) {
		c.Priority = p
	}
}

func WithMinutesPerUnit(m float64) ContentOption {
	return func(c *domain.ContentItem) {
		c.MinutesPerUnit = &m
	}
}

func WithEpisodes(minutes ...int) ContentOption {
	return func(c *domain.ContentItem) {
		c.EpisodeMinutes = minutes
	}
}

// NewTestContent returns a 100-page weakness book.
func NewTestContent(id string, opts ...ContentOption) domain.ContentItem {
	c := domain.ContentItem{
		ID:          id,
		Type:        domain.ContentBook,
		Title:       id,
		Subject:     "math",
		SubjectType: domain.SubjectWeakness,
		TotalExtent: 100,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Plan row options
type RowOption func(*domain.PlanRow)

func WithRowDate(d string) RowOption {
	return func(r *domain.PlanRow) {
		r.PlanDate = Date(d)
	}
}

func WithRowTime(start, end domain.Clock) RowOption {
	return func(r *domain.PlanRow) {
		r.StartTime = start
		r.EndTime = end
	}
}

func WithUnitsPlanned(start, end int) RowOption {
	return func(r *domain.PlanRow) {
		r.PlannedStart = start
		r.PlannedEnd = end
	}
}

func WithCompleted(amount int) RowOption {
	return func(r *domain.PlanRow) {
		r.CompletedAmount = amount
	}
}

func WithRowStatus(s domain.PlanStatus) RowOption {
	return func(r *domain.PlanRow) {
		r.Status = s
	}
}

func WithRowKind(k domain.SessionKind) RowOption {
	return func(r *domain.PlanRow) {
		r.Kind = k
	}
}

// NewTestPlanRow returns a pending 10:00-11:00 study row over units [0, 10)
// on 2025-03-03.
func NewTestPlanRow(groupID, contentID string, opts ...RowOption) *domain.PlanRow {
	now := time.Now().UTC().Truncate(time.Second)
	r := &domain.PlanRow{
		ID:           uuid.New().String(),
		GroupID:      groupID,
		ContentID:    contentID,
		PlanDate:     Date("2025-03-03"),
		BlockIndex:   1,
		StartTime:    domain.Clock(10 * 60),
		EndTime:      domain.Clock(11 * 60),
		PlannedStart: 0,
		PlannedEnd:   10,
		Status:       domain.PlanPending,
		Kind:         domain.SessionStudy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}
