package importer

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/alexanderramin/studyplan/internal/domain"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// schemaValidator builds the shared validator. Field names in errors come
// from the JSON tags.
func schemaValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = validate.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
			_, err := domain.ParseClock(fl.Field().String())
			return err == nil
		})
		_ = validate.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
			_, err := domain.ParseDate(fl.Field().String())
			return err == nil
		})
		_ = validate.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
			_, err := ParseWeekday(fl.Field().String())
			return err == nil
		})
	})
	return validate
}

// ValidateImportSchema checks the schema before conversion and returns every
// problem found. Struct tags run first, then the cross-field checks.
func ValidateImportSchema(schema *ImportSchema) []error {
	var errs []error

	if err := schemaValidator().Struct(schema); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return []error{err}
		}
		for _, fe := range verrs {
			errs = append(errs, fieldError(fe))
		}
	}

	errs = append(errs, validateGroup(&schema.Group)...)
	errs = append(errs, validateRanges(schema)...)
	errs = append(errs, validateExclusions(schema.Exclusions)...)
	errs = append(errs, validateContents(schema.Contents)...)
	errs = append(errs, validateAdditional(schema.AdditionalPeriod, schema.Group.PeriodEnd)...)
	return errs
}

func fieldError(fe validator.FieldError) error {
	field := strings.TrimPrefix(fe.Namespace(), "ImportSchema.")
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", field)
	case "oneof":
		return fmt.Errorf("%s: invalid value %q (expected one of: %s)", field, fe.Value(), fe.Param())
	case "hhmm":
		return fmt.Errorf("%s: invalid time %q (expected HH:MM)", field, fe.Value())
	case "isodate":
		return fmt.Errorf("%s: invalid date %q (expected YYYY-MM-DD)", field, fe.Value())
	case "weekday":
		return fmt.Errorf("%s: invalid weekday %q", field, fe.Value())
	case "min":
		return fmt.Errorf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Errorf("%s must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Errorf("%s must be greater than %s", field, fe.Param())
	}
	return fmt.Errorf("%s failed %q validation", field, fe.Tag())
}

func validateGroup(g *GroupImport) []error {
	var errs []error
	if g.StudyDays != nil && g.ReviewDays != nil && *g.StudyDays+*g.ReviewDays > 7 {
		errs = append(errs, fmt.Errorf("group: study_days %d + review_days %d exceed 7", *g.StudyDays, *g.ReviewDays))
	}
	errs = append(errs, validatePeriod("group", g.PeriodStart, g.PeriodEnd)...)
	return errs
}

// validatePeriod only reports ordering; malformed dates are already flagged
// by the struct tags.
func validatePeriod(field, start, end string) []error {
	s, err1 := domain.ParseDate(start)
	e, err2 := domain.ParseDate(end)
	if err1 != nil || err2 != nil {
		return nil
	}
	if e.Before(s) {
		return []error{fmt.Errorf("%s: period_end %s is before period_start %s", field, end, start)}
	}
	return nil
}

func validateRanges(schema *ImportSchema) []error {
	var errs []error
	check := func(field, start, end string) {
		s, err1 := domain.ParseClock(start)
		e, err2 := domain.ParseClock(end)
		if err1 != nil || err2 != nil {
			return
		}
		if e <= s {
			errs = append(errs, fmt.Errorf("%s: end %s must be after start %s", field, end, start))
		}
	}
	for _, w := range []struct {
		field string
		r     *TimeRangeImport
	}{
		{"group.lunch", schema.Group.Lunch},
		{"group.study_hours", schema.Group.StudyHours},
		{"group.self_study_hours", schema.Group.SelfStudyHours},
	} {
		if w.r != nil {
			check(w.field, w.r.Start, w.r.End)
		}
	}
	for i, b := range schema.Blocks {
		check(fmt.Sprintf("blocks[%d]", i), b.Start, b.End)
	}
	for i, a := range schema.Academies {
		check(fmt.Sprintf("academies[%d]", i), a.Start, a.End)
	}
	return errs
}

func validateExclusions(exclusions []ExclusionImport) []error {
	var errs []error
	seen := make(map[string]bool, len(exclusions))
	for i, e := range exclusions {
		d, err := domain.ParseDate(e.Date)
		if err != nil {
			continue
		}
		key := domain.FormatDate(d)
		if seen[key] {
			errs = append(errs, fmt.Errorf("exclusions[%d]: duplicate date %s", i, key))
		}
		seen[key] = true
	}
	return errs
}

func validateContents(contents []ContentImport) []error {
	var errs []error
	seen := make(map[string]bool, len(contents))
	for i, c := range contents {
		if c.ID == "" {
			continue
		}
		if seen[c.ID] {
			errs = append(errs, fmt.Errorf("contents[%d]: duplicate id %q", i, c.ID))
		}
		seen[c.ID] = true
	}
	return errs
}

func validateAdditional(ap *AdditionalPeriodImport, mainEnd string) []error {
	if ap == nil {
		return nil
	}
	var errs []error
	errs = append(errs, validatePeriod("additional_period", ap.PeriodStart, ap.PeriodEnd)...)
	errs = append(errs, validatePeriod("additional_period.original", ap.OriginalStart, ap.OriginalEnd)...)
	start, err1 := domain.ParseDate(ap.PeriodStart)
	end, err2 := domain.ParseDate(mainEnd)
	if err1 == nil && err2 == nil && !start.After(end) {
		errs = append(errs, fmt.Errorf("additional_period: period_start %s must be after group period_end %s", ap.PeriodStart, mainEnd))
	}
	return errs
}

var weekdayNames = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

// ParseWeekday accepts a weekday name or abbreviation in any case, or a
// number from 0 (Sunday) to 6.
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if d, ok := weekdayNames[s]; ok {
		return d, nil
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 && n <= 6 {
		return time.Weekday(n), nil
	}
	return 0, fmt.Errorf("invalid weekday %q", s)
}
