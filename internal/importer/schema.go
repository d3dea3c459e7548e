package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ImportSchema is the top-level structure of a plan group definition file.
type ImportSchema struct {
	Group              GroupImport              `json:"group" yaml:"group"`
	Blocks             []BlockImport            `json:"blocks,omitempty" yaml:"blocks,omitempty" validate:"dive"`
	Exclusions         []ExclusionImport        `json:"exclusions,omitempty" yaml:"exclusions,omitempty" validate:"dive"`
	Academies          []AcademyImport          `json:"academies,omitempty" yaml:"academies,omitempty" validate:"dive"`
	Contents           []ContentImport          `json:"contents" yaml:"contents" validate:"required,min=1,dive"`
	SubjectAllocations []SubjectAllocationImport `json:"subject_allocations,omitempty" yaml:"subject_allocations,omitempty" validate:"dive"`
	AdditionalPeriod   *AdditionalPeriodImport   `json:"additional_period,omitempty" yaml:"additional_period,omitempty"`
}

// GroupImport holds the plan group settings. Unset cycle and level fields
// take the configured defaults.
type GroupImport struct {
	Name             string           `json:"name" yaml:"name" validate:"required"`
	PeriodStart      string           `json:"period_start" yaml:"period_start" validate:"required,isodate"`
	PeriodEnd        string           `json:"period_end" yaml:"period_end" validate:"required,isodate"`
	StudyDays        *int             `json:"study_days,omitempty" yaml:"study_days,omitempty" validate:"omitempty,min=1,max=7"`
	ReviewDays       *int             `json:"review_days,omitempty" yaml:"review_days,omitempty" validate:"omitempty,min=0,max=6"`
	StudentLevel     string           `json:"student_level,omitempty" yaml:"student_level,omitempty" validate:"omitempty,oneof=high medium low"`
	ShortfallPolicy  string           `json:"shortfall_policy,omitempty" yaml:"shortfall_policy,omitempty" validate:"omitempty,oneof=report carry_over abort"`
	Lunch            *TimeRangeImport `json:"lunch,omitempty" yaml:"lunch,omitempty"`
	StudyHours       *TimeRangeImport `json:"study_hours,omitempty" yaml:"study_hours,omitempty"`
	SelfStudyHours   *TimeRangeImport `json:"self_study_hours,omitempty" yaml:"self_study_hours,omitempty"`
	SelfStudyEnabled bool             `json:"self_study_enabled,omitempty" yaml:"self_study_enabled,omitempty"`
	HolidaySelfStudy bool             `json:"holiday_self_study,omitempty" yaml:"holiday_self_study,omitempty"`
}

type TimeRangeImport struct {
	Start string `json:"start" yaml:"start" validate:"required,hhmm"`
	End   string `json:"end" yaml:"end" validate:"required,hhmm"`
}

// BlockImport is a weekly free-time block. DayOfWeek accepts a weekday name
// ("monday", "mon") or its number with Sunday as 0.
type BlockImport struct {
	DayOfWeek string `json:"day_of_week" yaml:"day_of_week" validate:"required,weekday"`
	Start     string `json:"start" yaml:"start" validate:"required,hhmm"`
	End       string `json:"end" yaml:"end" validate:"required,hhmm"`
}

type ExclusionImport struct {
	Date   string `json:"date" yaml:"date" validate:"required,isodate"`
	Type   string `json:"type" yaml:"type" validate:"required,oneof=vacation personal_reason designated_holiday other"`
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

type AcademyImport struct {
	DayOfWeek     string `json:"day_of_week" yaml:"day_of_week" validate:"required,weekday"`
	Start         string `json:"start" yaml:"start" validate:"required,hhmm"`
	End           string `json:"end" yaml:"end" validate:"required,hhmm"`
	Label         string `json:"label" yaml:"label" validate:"required"`
	Subject       string `json:"subject,omitempty" yaml:"subject,omitempty"`
	TravelMinutes *int   `json:"travel_minutes,omitempty" yaml:"travel_minutes,omitempty" validate:"omitempty,min=0"`
}

// ContentImport is one piece of material. An empty ID gets a generated one.
type ContentImport struct {
	ID                   string   `json:"id,omitempty" yaml:"id,omitempty"`
	Type                 string   `json:"type" yaml:"type" validate:"required,oneof=book lecture custom"`
	Title                string   `json:"title" yaml:"title" validate:"required"`
	Subject              string   `json:"subject,omitempty" yaml:"subject,omitempty"`
	SubjectType          string   `json:"subject_type,omitempty" yaml:"subject_type,omitempty" validate:"omitempty,oneof=strategy weakness"`
	TotalExtent          int      `json:"total_extent" yaml:"total_extent" validate:"min=0"`
	StartUnit            int      `json:"start_unit,omitempty" yaml:"start_unit,omitempty" validate:"min=0"`
	WeeklyAllocationDays int      `json:"weekly_allocation_days,omitempty" yaml:"weekly_allocation_days,omitempty" validate:"omitempty,min=1,max=7"`
	Priority             int      `json:"priority,omitempty" yaml:"priority,omitempty" validate:"min=0"`
	MinutesPerUnit       *float64 `json:"minutes_per_unit,omitempty" yaml:"minutes_per_unit,omitempty" validate:"omitempty,gt=0"`
	EpisodeMinutes       []int    `json:"episode_minutes,omitempty" yaml:"episode_minutes,omitempty" validate:"omitempty,dive,min=0"`
	Difficulty           *float64 `json:"difficulty,omitempty" yaml:"difficulty,omitempty" validate:"omitempty,gt=0"`
	Chapter              string   `json:"chapter,omitempty" yaml:"chapter,omitempty"`
}

type SubjectAllocationImport struct {
	Subject              string `json:"subject" yaml:"subject" validate:"required"`
	SubjectType          string `json:"subject_type" yaml:"subject_type" validate:"required,oneof=strategy weakness"`
	WeeklyAllocationDays int    `json:"weekly_allocation_days,omitempty" yaml:"weekly_allocation_days,omitempty" validate:"omitempty,min=1,max=7"`
}

type AdditionalPeriodImport struct {
	PeriodStart          string   `json:"period_start" yaml:"period_start" validate:"required,isodate"`
	PeriodEnd            string   `json:"period_end" yaml:"period_end" validate:"required,isodate"`
	OriginalStart        string   `json:"original_start" yaml:"original_start" validate:"required,isodate"`
	OriginalEnd          string   `json:"original_end" yaml:"original_end" validate:"required,isodate"`
	Subjects             []string `json:"subjects,omitempty" yaml:"subjects,omitempty"`
	ReviewOfReviewFactor *float64 `json:"review_of_review_factor,omitempty" yaml:"review_of_review_factor,omitempty" validate:"omitempty,gt=0"`
}

// LoadImportSchema reads a plan group file. .yaml and .yml files are parsed
// as YAML, everything else as JSON.
func LoadImportSchema(path string) (*ImportSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeImportSchema(data, filepath.Ext(path))
}

// DecodeImportSchema parses data in the format named by ext.
func DecodeImportSchema(data []byte, ext string) (*ImportSchema, error) {
	var schema ImportSchema
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &schema); err != nil {
			return nil, fmt.Errorf("parsing import file: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &schema); err != nil {
			return nil, fmt.Errorf("parsing import file: %w", err)
		}
	}
	return &schema, nil
}
