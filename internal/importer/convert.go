package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/studyplan/internal/domain"
)

// Defaults fill group settings the file leaves unset.
type Defaults struct {
	StudyDays       int
	ReviewDays      int
	StudentLevel    domain.StudentLevel
	ShortfallPolicy domain.ShortfallPolicy
}

func DefaultDefaults() Defaults {
	return Defaults{
		StudyDays:       6,
		ReviewDays:      1,
		StudentLevel:    domain.LevelMedium,
		ShortfallPolicy: domain.ShortfallReport,
	}
}

// GeneratedGroup is a converted schema ready to persist.
type GeneratedGroup struct {
	Group      *domain.PlanGroup
	Blocks     []domain.RecurringBlock
	Exclusions []domain.Exclusion
	Academies  []domain.AcademyConflict
	Contents   []domain.ContentItem
}

// Convert maps a validated schema to domain values and assigns ids.
func Convert(schema *ImportSchema, defaults Defaults) (*GeneratedGroup, error) {
	now := time.Now().UTC()
	g := schema.Group

	start, err := domain.ParseDate(g.PeriodStart)
	if err != nil {
		return nil, fmt.Errorf("group.period_start: %w", err)
	}
	end, err := domain.ParseDate(g.PeriodEnd)
	if err != nil {
		return nil, fmt.Errorf("group.period_end: %w", err)
	}

	group := &domain.PlanGroup{
		ID:               uuid.New().String(),
		Name:             strings.TrimSpace(g.Name),
		PeriodStart:      start,
		PeriodEnd:        end,
		StudyDays:        domain.IntFromPtrWithDefault(defaults.StudyDays, g.StudyDays),
		ReviewDays:       domain.IntFromPtrWithDefault(defaults.ReviewDays, g.ReviewDays),
		StudentLevel:     domain.StudentLevel(domain.CoalesceStr(g.StudentLevel, string(defaults.StudentLevel))),
		ShortfallPolicy:  domain.ShortfallPolicy(domain.CoalesceStr(g.ShortfallPolicy, string(defaults.ShortfallPolicy))),
		SelfStudyEnabled: g.SelfStudyEnabled,
		HolidaySelfStudy: g.HolidaySelfStudy,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if group.StudyDays+group.ReviewDays > 7 {
		return nil, fmt.Errorf("group: study_days %d + review_days %d exceed 7", group.StudyDays, group.ReviewDays)
	}
	if group.Lunch, err = convertRange("group.lunch", g.Lunch); err != nil {
		return nil, err
	}
	if group.StudyHours, err = convertRange("group.study_hours", g.StudyHours); err != nil {
		return nil, err
	}
	if group.SelfStudyHours, err = convertRange("group.self_study_hours", g.SelfStudyHours); err != nil {
		return nil, err
	}

	for _, sa := range schema.SubjectAllocations {
		group.SubjectAllocations = append(group.SubjectAllocations, domain.SubjectAllocation{
			Subject:              sa.Subject,
			SubjectType:          domain.SubjectType(sa.SubjectType),
			WeeklyAllocationDays: sa.WeeklyAllocationDays,
		})
	}

	if ap := schema.AdditionalPeriod; ap != nil {
		period := &domain.AdditionalPeriod{
			Subjects:             ap.Subjects,
			ReviewOfReviewFactor: ap.ReviewOfReviewFactor,
		}
		for _, d := range []struct {
			field string
			in    string
			out   *time.Time
		}{
			{"additional_period.period_start", ap.PeriodStart, &period.PeriodStart},
			{"additional_period.period_end", ap.PeriodEnd, &period.PeriodEnd},
			{"additional_period.original_start", ap.OriginalStart, &period.OriginalStart},
			{"additional_period.original_end", ap.OriginalEnd, &period.OriginalEnd},
		} {
			if *d.out, err = domain.ParseDate(d.in); err != nil {
				return nil, fmt.Errorf("%s: %w", d.field, err)
			}
		}
		group.AdditionalPeriod = period
	}

	out := &GeneratedGroup{Group: group}

	for i, b := range schema.Blocks {
		day, err := ParseWeekday(b.DayOfWeek)
		if err != nil {
			return nil, fmt.Errorf("blocks[%d]: %w", i, err)
		}
		r, err := domain.NewTimeRange(b.Start, b.End)
		if err != nil {
			return nil, fmt.Errorf("blocks[%d]: %w", i, err)
		}
		out.Blocks = append(out.Blocks, domain.RecurringBlock{ID: uuid.New().String(), DayOfWeek: day, Range: r})
	}

	for i, e := range schema.Exclusions {
		d, err := domain.ParseDate(e.Date)
		if err != nil {
			return nil, fmt.Errorf("exclusions[%d]: %w", i, err)
		}
		out.Exclusions = append(out.Exclusions, domain.Exclusion{
			Date: d, Type: domain.ExclusionType(e.Type), Reason: e.Reason,
		})
	}

	for i, a := range schema.Academies {
		day, err := ParseWeekday(a.DayOfWeek)
		if err != nil {
			return nil, fmt.Errorf("academies[%d]: %w", i, err)
		}
		r, err := domain.NewTimeRange(a.Start, a.End)
		if err != nil {
			return nil, fmt.Errorf("academies[%d]: %w", i, err)
		}
		out.Academies = append(out.Academies, domain.AcademyConflict{
			ID:            uuid.New().String(),
			DayOfWeek:     day,
			Range:         r,
			Label:         a.Label,
			Subject:       a.Subject,
			TravelMinutes: a.TravelMinutes,
		})
	}

	for _, c := range schema.Contents {
		id := c.ID
		if id == "" {
			id = uuid.New().String()
		}
		out.Contents = append(out.Contents, domain.ContentItem{
			ID:                   id,
			Type:                 domain.ContentType(c.Type),
			Title:                c.Title,
			Subject:              c.Subject,
			SubjectType:          domain.SubjectType(c.SubjectType),
			TotalExtent:          c.TotalExtent,
			StartUnit:            c.StartUnit,
			WeeklyAllocationDays: c.WeeklyAllocationDays,
			Priority:             c.Priority,
			MinutesPerUnit:       c.MinutesPerUnit,
			EpisodeMinutes:       c.EpisodeMinutes,
			Difficulty:           c.Difficulty,
			Chapter:              c.Chapter,
		})
	}

	return out, nil
}

func convertRange(field string, r *TimeRangeImport) (*domain.TimeRange, error) {
	if r == nil {
		return nil, nil
	}
	tr, err := domain.NewTimeRange(r.Start, r.End)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	return &tr, nil
}
