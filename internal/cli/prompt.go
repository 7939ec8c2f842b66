package cli

import (
	"errors"
	"os"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/stockdesk/stockdesk/internal/tui"
)

// ErrPromptUnavailable is returned when input is required but stdin is not a terminal.
var ErrPromptUnavailable = errors.New("interactive input needed but stdin is not a terminal")

// PromptResult contains the result of a user prompt interaction.
type PromptResult struct {
	// Accepted is true if the user confirmed.
	Accepted bool
	// Cancelled is true if the user aborted the prompt (e.g., Ctrl+C)
	Cancelled bool
}

// confirmFunc asks a yes/no question. Tests replace it.
//
//nolint:gochecknoglobals // Swappable for tests.
var confirmFunc = confirmWithHuh

// credentialsFunc asks for missing login fields. Tests replace it.
//
//nolint:gochecknoglobals // Swappable for tests.
var credentialsFunc = credentialsWithHuh

// Confirm asks a yes/no question, defaulting to no.
// It returns immediately with Accepted=false in non-interactive environments.
func Confirm(title, description string) PromptResult {
	return confirmFunc(title, description)
}

func confirmWithHuh(title, description string) PromptResult {
	if !tui.IsTTY(os.Stdin) {
		return PromptResult{Accepted: false}
	}

	var accepted bool
	err := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Yes").
		Negative("No").
		Value(&accepted).
		Run()
	if err != nil {
		return PromptResult{Cancelled: errors.Is(err, huh.ErrUserAborted)}
	}
	return PromptResult{Accepted: accepted}
}

// credentialsWithHuh prompts for the username and password that are still empty.
func credentialsWithHuh(username, password *string) error {
	if !tui.IsTTY(os.Stdin) {
		return ErrPromptUnavailable
	}

	var fields []huh.Field
	if *username == "" {
		fields = append(fields, huh.NewInput().
			Title("Username").
			Validate(required("username")).
			Value(username))
	}
	if *password == "" {
		fields = append(fields, huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Validate(required("password")).
			Value(password))
	}
	if len(fields) == 0 {
		return nil
	}

	return huh.NewForm(huh.NewGroup(fields...)).Run()
}

func required(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(name + " is required")
		}
		return nil
	}
}
