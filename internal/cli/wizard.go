package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/studyplan/internal/cli/formatter"
	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/importer"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var errNotInteractive = errors.New("the wizard needs an interactive terminal; use `studyplan import FILE` instead")

// studyplanHuhTheme returns a huh theme using the formatter palette.
func studyplanHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// wizardAnswers holds raw form input before it becomes an import schema.
type wizardAnswers struct {
	Name        string
	PeriodStart string
	PeriodEnd   string
	StudyDays   string
	ReviewDays  string
	Level       string
	Policy      string
	Contents    []wizardContent
}

type wizardContent struct {
	Title       string
	Type        string
	Subject     string
	SubjectType string
	Extent      string
}

// schema converts the answers. Blank cycle fields keep the configured
// defaults; the importer validates everything else.
func (a wizardAnswers) schema() (*importer.ImportSchema, error) {
	s := &importer.ImportSchema{
		Group: importer.GroupImport{
			Name:            strings.TrimSpace(a.Name),
			PeriodStart:     strings.TrimSpace(a.PeriodStart),
			PeriodEnd:       strings.TrimSpace(a.PeriodEnd),
			StudentLevel:    a.Level,
			ShortfallPolicy: a.Policy,
		},
	}
	var err error
	if s.Group.StudyDays, err = optionalInt("study days", a.StudyDays); err != nil {
		return nil, err
	}
	if s.Group.ReviewDays, err = optionalInt("review days", a.ReviewDays); err != nil {
		return nil, err
	}

	for i, c := range a.Contents {
		extent, err := strconv.Atoi(strings.TrimSpace(c.Extent))
		if err != nil {
			return nil, fmt.Errorf("content %d: invalid extent %q", i+1, c.Extent)
		}
		s.Contents = append(s.Contents, importer.ContentImport{
			Type:        c.Type,
			Title:       strings.TrimSpace(c.Title),
			Subject:     strings.TrimSpace(c.Subject),
			SubjectType: c.SubjectType,
			TotalExtent: extent,
		})
	}
	return s, nil
}

func optionalInt(label, s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", label, s)
	}
	return &n, nil
}

func validateRequired(label string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", label)
		}
		return nil
	}
}

func validateDate(s string) error {
	_, err := domain.ParseDate(s)
	return err
}

// validateIntRange accepts empty or an integer in [lo, hi].
func validateIntRange(lo, hi int) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return nil
		}
		v, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil || v < lo || v > hi {
			return fmt.Errorf("enter a number from %d to %d", lo, hi)
		}
		return nil
	}
}

func validatePositiveInt(s string) error {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v <= 0 {
		return fmt.Errorf("enter a positive number")
	}
	return nil
}

func groupForm(a *wizardAnswers) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Group name").Value(&a.Name).Validate(validateRequired("name")),
			huh.NewInput().Title("Period start (YYYY-MM-DD)").Placeholder("2025-03-03").Value(&a.PeriodStart).Validate(validateDate),
			huh.NewInput().Title("Period end (YYYY-MM-DD)").Placeholder("2025-03-30").Value(&a.PeriodEnd).Validate(validateDate),
		),
		huh.NewGroup(
			huh.NewInput().Title("Study days per cycle").Placeholder("6").Value(&a.StudyDays).Validate(validateIntRange(1, 7)),
			huh.NewInput().Title("Review days per cycle").Placeholder("1").Value(&a.ReviewDays).Validate(validateIntRange(0, 6)),
			huh.NewSelect[string]().
				Title("Student level").
				Options(
					huh.NewOption("Default", ""),
					huh.NewOption("High", string(domain.LevelHigh)),
					huh.NewOption("Medium", string(domain.LevelMedium)),
					huh.NewOption("Low", string(domain.LevelLow)),
				).
				Value(&a.Level),
			huh.NewSelect[string]().
				Title("When a day runs out of time").
				Options(
					huh.NewOption("Default", ""),
					huh.NewOption("Report it", string(domain.ShortfallReport)),
					huh.NewOption("Carry over to the next day", string(domain.ShortfallCarryOver)),
					huh.NewOption("Abort", string(domain.ShortfallAbort)),
				).
				Value(&a.Policy),
		),
	).WithTheme(studyplanHuhTheme()).WithShowHelp(false)
}

func contentForm(c *wizardContent, more *bool) *huh.Form {
	c.Type = string(domain.ContentBook)
	c.SubjectType = string(domain.SubjectWeakness)
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Content title").Value(&c.Title).Validate(validateRequired("title")),
			huh.NewSelect[string]().
				Title("Type").
				Options(
					huh.NewOption("Book (pages)", string(domain.ContentBook)),
					huh.NewOption("Lecture (episodes)", string(domain.ContentLecture)),
					huh.NewOption("Custom (minutes)", string(domain.ContentCustom)),
				).
				Value(&c.Type),
			huh.NewInput().Title("Subject").Placeholder("math").Value(&c.Subject),
			huh.NewSelect[string]().
				Title("Allocation").
				Options(
					huh.NewOption("Weakness (every study day)", string(domain.SubjectWeakness)),
					huh.NewOption("Strategy (3 days a week)", string(domain.SubjectStrategy)),
				).
				Value(&c.SubjectType),
			huh.NewInput().Title("Total units").Placeholder("120").Value(&c.Extent).Validate(validatePositiveInt),
			huh.NewConfirm().Title("Add another content?").Value(more),
		),
	).WithTheme(studyplanHuhTheme()).WithShowHelp(false)
}

func newWizardCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "wizard",
		Short: "Create a plan group interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return errNotInteractive
			}

			var answers wizardAnswers
			if err := groupForm(&answers).Run(); err != nil {
				return err
			}
			for more := true; more; {
				var c wizardContent
				more = false
				if err := contentForm(&c, &more).Run(); err != nil {
					return err
				}
				answers.Contents = append(answers.Contents, c)
			}

			schema, err := answers.schema()
			if err != nil {
				return err
			}
			res, err := app.Imports.ImportGroupFromSchema(cmd.Context(), schema)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatImport(res))
			return nil
		},
	}
}
