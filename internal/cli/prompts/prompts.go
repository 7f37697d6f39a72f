// Package prompts holds the interactive terminal pickers used by the CLI.
package prompts

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/asteroid-belt/ccm/internal/models"
)

// ErrUserCancelled is returned when a picker is dismissed.
var ErrUserCancelled = errors.New("cancelled by user")

// ErrNoChoices is returned when a picker has nothing to offer.
var ErrNoChoices = errors.New("nothing to choose from")

// runner runs a form. Tests replace it.
var runner = func(f *huh.Form) error { return f.Run() }

func run(f *huh.Form) error {
	err := runner(f)
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrUserCancelled
	}
	return err
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

// BuildPathOptions creates huh options from config path bookmarks. The
// option value is the bookmarked path.
func BuildPathOptions(paths []models.ConfigPath) []huh.Option[string] {
	options := make([]huh.Option[string], 0, len(paths))
	for _, p := range paths {
		label := fmt.Sprintf("%s - %s", p.Name, p.Path)
		if p.Description != nil && *p.Description != "" {
			label = fmt.Sprintf("%s (%s)", label, truncate(*p.Description, 40))
		}
		options = append(options, huh.NewOption(label, p.Path))
	}
	return options
}

// RunPathSelector asks for one of the bookmarked paths.
func RunPathSelector(paths []models.ConfigPath, current string) (string, error) {
	if len(paths) == 0 {
		return "", ErrNoChoices
	}

	selected := current
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Select settings file").
				Description("Enter to confirm, Esc to cancel").
				Options(BuildPathOptions(paths)...).
				Value(&selected),
		),
	)
	if err := run(form); err != nil {
		return "", err
	}
	return selected, nil
}

// BuildAPIKeyOptions creates huh options from API keys. Secrets are masked
// and inactive keys are marked.
func BuildAPIKeyOptions(keys []models.APIKey) []huh.Option[string] {
	options := make([]huh.Option[string], 0, len(keys))
	for i := range keys {
		k := &keys[i]
		label := fmt.Sprintf("%s  %s", k.Name, k.MaskedToken())
		if !k.IsActive {
			label += "  (inactive)"
		}
		options = append(options, huh.NewOption(label, k.ID))
	}
	return options
}

// RunAPIKeySelector asks for one of the keys and returns its id.
func RunAPIKeySelector(keys []models.APIKey) (string, error) {
	if len(keys) == 0 {
		return "", ErrNoChoices
	}

	var selected string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Select API key").
				Options(BuildAPIKeyOptions(keys)...).
				Value(&selected),
		),
	)
	if err := run(form); err != nil {
		return "", err
	}
	return selected, nil
}

// Confirm asks a yes/no question. Dismissing it is ErrUserCancelled.
func Confirm(title string) (bool, error) {
	var ok bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	)
	if err := run(form); err != nil {
		return false, err
	}
	return ok, nil
}
