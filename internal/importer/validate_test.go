package importer

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrInt(i int) *int           { return &i }
func ptrFloat(f float64) *float64 { return &f }

func validMinimalSchema() *ImportSchema {
	return &ImportSchema{
		Group: GroupImport{
			Name:        "Test",
			PeriodStart: "2025-03-03",
			PeriodEnd:   "2025-03-09",
		},
		Contents: []ContentImport{
			{ID: "c1", Type: "book", Title: "Book", Subject: "math", SubjectType: "weakness", TotalExtent: 10},
		},
	}
}

func joinErrors(errs []error) string {
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "\n")
}

func TestValidateImportSchema_ValidMinimal(t *testing.T) {
	errs := ValidateImportSchema(validMinimalSchema())
	assert.Empty(t, errs)
}

func TestValidateImportSchema_ValidFullFile(t *testing.T) {
	schema, err := LoadImportSchema("testdata/spring.yaml")
	require.NoError(t, err)
	assert.Empty(t, ValidateImportSchema(schema))
}

func TestValidateImportSchema_MissingFields(t *testing.T) {
	schema := &ImportSchema{}
	errs := ValidateImportSchema(schema)
	msg := joinErrors(errs)
	assert.Contains(t, msg, "group.name is required")
	assert.Contains(t, msg, "group.period_start is required")
	assert.Contains(t, msg, "contents is required")
}

func TestValidateImportSchema_FieldErrorsUseJSONNames(t *testing.T) {
	schema := validMinimalSchema()
	schema.Group.StudentLevel = "expert"
	schema.Group.PeriodEnd = "2025-13-01"
	schema.Contents[0].Type = "podcast"
	schema.Contents[0].MinutesPerUnit = ptrFloat(0)
	schema.Blocks = []BlockImport{{DayOfWeek: "someday", Start: "9am", End: "10:00"}}

	msg := joinErrors(ValidateImportSchema(schema))
	assert.Contains(t, msg, `group.student_level: invalid value "expert"`)
	assert.Contains(t, msg, `group.period_end: invalid date "2025-13-01"`)
	assert.Contains(t, msg, `contents[0].type: invalid value "podcast"`)
	assert.Contains(t, msg, "contents[0].minutes_per_unit must be greater than 0")
	assert.Contains(t, msg, `blocks[0].day_of_week: invalid weekday "someday"`)
	assert.Contains(t, msg, `blocks[0].start: invalid time "9am"`)
}

func TestValidateImportSchema_CrossFieldChecks(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *ImportSchema)
		want   string
	}{
		{
			name: "inverted period",
			mutate: func(s *ImportSchema) {
				s.Group.PeriodStart, s.Group.PeriodEnd = "2025-03-09", "2025-03-03"
			},
			want: "is before period_start",
		},
		{
			name: "cycle over seven days",
			mutate: func(s *ImportSchema) {
				s.Group.StudyDays, s.Group.ReviewDays = ptrInt(6), ptrInt(2)
			},
			want: "exceed 7",
		},
		{
			name: "block ends before start",
			mutate: func(s *ImportSchema) {
				s.Blocks = []BlockImport{{DayOfWeek: "mon", Start: "12:00", End: "10:00"}}
			},
			want: "blocks[0]: end 10:00 must be after start 12:00",
		},
		{
			name: "lunch window inverted",
			mutate: func(s *ImportSchema) {
				s.Group.Lunch = &TimeRangeImport{Start: "13:00", End: "12:00"}
			},
			want: "group.lunch",
		},
		{
			name: "duplicate exclusion",
			mutate: func(s *ImportSchema) {
				s.Exclusions = []ExclusionImport{
					{Date: "2025-03-05", Type: "vacation"},
					{Date: "2025-03-05", Type: "other"},
				}
			},
			want: "exclusions[1]: duplicate date 2025-03-05",
		},
		{
			name: "duplicate content id",
			mutate: func(s *ImportSchema) {
				s.Contents = append(s.Contents, s.Contents[0])
			},
			want: `contents[1]: duplicate id "c1"`,
		},
		{
			name: "additional period overlaps main period",
			mutate: func(s *ImportSchema) {
				s.AdditionalPeriod = &AdditionalPeriodImport{
					PeriodStart: "2025-03-08", PeriodEnd: "2025-03-12",
					OriginalStart: "2025-03-03", OriginalEnd: "2025-03-09",
				}
			},
			want: "must be after group period_end",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schema := validMinimalSchema()
			tt.mutate(schema)
			errs := ValidateImportSchema(schema)
			require.NotEmpty(t, errs)
			assert.Contains(t, joinErrors(errs), tt.want)
		})
	}
}

func TestValidateImportSchema_CollectsAllErrors(t *testing.T) {
	schema := validMinimalSchema()
	schema.Group.Name = ""
	schema.Exclusions = []ExclusionImport{{Date: "2025-03-04", Type: "holiday"}}
	schema.Contents[0].TotalExtent = -1

	errs := ValidateImportSchema(schema)
	assert.GreaterOrEqual(t, len(errs), 3)
}

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		in   string
		want time.Weekday
	}{
		{"monday", time.Monday},
		{"Sat", time.Saturday},
		{" SUNDAY ", time.Sunday},
		{"0", time.Sunday},
		{"6", time.Saturday},
	}
	for _, tt := range tests {
		got, err := ParseWeekday(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseWeekday("7")
	assert.Error(t, err)
	_, err = ParseWeekday("")
	assert.Error(t, err)
}
