package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/spf13/pflag"
)

// resolveGroupID accepts a full ID, a unique ID prefix or an exact name.
func resolveGroupID(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("group ID is required")
	}

	groups, err := app.Groups.List(ctx)
	if err != nil {
		return "", err
	}

	for _, g := range groups {
		if g.ID == input {
			return g.ID, nil
		}
	}

	var matches []string
	for _, g := range groups {
		if strings.HasPrefix(g.ID, input) || strings.EqualFold(g.Name, input) {
			matches = append(matches, g.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("group not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("group %q is ambiguous (%d matches)", input, len(matches))
	}
}

// parsePolicy returns nil for an empty flag so the group's own policy applies.
func parsePolicy(s string) (*domain.ShortfallPolicy, error) {
	if s == "" {
		return nil, nil
	}
	p := domain.ShortfallPolicy(strings.ToLower(s))
	if !p.Valid() {
		return nil, fmt.Errorf("invalid policy %q (expected report, carry_over or abort)", s)
	}
	return &p, nil
}

// policyFlag is a --policy value; unset leaves policy nil.
type policyFlag struct {
	policy *domain.ShortfallPolicy
}

var _ pflag.Value = (*policyFlag)(nil)

func (f *policyFlag) String() string {
	if f.policy == nil {
		return ""
	}
	return string(*f.policy)
}

func (f *policyFlag) Set(s string) error {
	p, err := parsePolicy(s)
	if err != nil {
		return err
	}
	f.policy = p
	return nil
}

func (f *policyFlag) Type() string { return "policy" }

func validateDateFlag(name, value string) error {
	if value == "" {
		return nil
	}
	if _, err := domain.ParseDate(value); err != nil {
		return fmt.Errorf("--%s: %w", name, err)
	}
	return nil
}
