// Package menu provides the interactive fork management shell.
package menu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/rs/zerolog"

	"github.com/forktend/forktend/github"
	"github.com/forktend/forktend/sync"
)

// Menu choices, in display order.
const (
	ChoiceListForks    = "1"
	ChoiceListBranches = "2"
	ChoiceSyncFork     = "3"
	ChoiceSyncAll      = "4"
	ChoiceExit         = "5"
)

// Menu runs the interactive loop: display the five menu options, dispatch
// the selected one, repeat until the user exits.
type Menu struct {
	client   sync.GitHub
	engine   *sync.Engine
	logger   zerolog.Logger
	reporter sync.Reporter
	prompt   func(title, placeholder string) (string, error)
}

// Option is a function that can be used to configure the menu.
type Option func(*Menu)

// WithLogger sets the logger for the menu.
func WithLogger(logger zerolog.Logger) Option {
	return func(m *Menu) {
		m.logger = logger
	}
}

// WithOutput sets the writer that receives user-facing output lines.
func WithOutput(w io.Writer) Option {
	return func(m *Menu) {
		m.reporter = sync.NewReporter(w)
	}
}

// WithPrompt replaces the interactive text prompt, for tests.
func WithPrompt(prompt func(title, placeholder string) (string, error)) Option {
	return func(m *Menu) {
		m.prompt = prompt
	}
}

// New creates an interactive menu over the given GitHub client and sync engine.
func New(client sync.GitHub, engine *sync.Engine, options ...Option) *Menu {
	m := &Menu{
		client:   client,
		engine:   engine,
		logger:   zerolog.Nop(),
		reporter: sync.NewReporter(nil),
		prompt:   promptInput,
	}
	for _, opt := range options {
		opt(m)
	}

	return m
}

// Run displays the menu until the user exits or the terminal is closed.
func (m *Menu) Run(ctx context.Context) error {
	for {
		choice, err := selectChoice()
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}

			return fmt.Errorf("failed to read menu choice: %w", err)
		}

		if m.Handle(ctx, choice) {
			return nil
		}
	}
}

// Handle dispatches a single menu choice and reports whether the loop
// should exit.
func (m *Menu) Handle(ctx context.Context, choice string) (exit bool) {
	switch choice {
	case ChoiceListForks:
		m.listForks(ctx)
	case ChoiceListBranches:
		m.listBranches(ctx)
	case ChoiceSyncFork:
		m.syncFork(ctx)
	case ChoiceSyncAll:
		if _, err := m.engine.SyncAll(ctx); err != nil {
			m.reporter.Error("Failed to list forks: %v", err)
		}
	case ChoiceExit:
		m.reporter.Success("Exiting GitHub Fork Management.")
		return true
	default:
		m.reporter.Error("Invalid choice.")
	}

	return false
}

func (m *Menu) listForks(ctx context.Context) {
	forks, err := m.client.ListForks(ctx)
	if err != nil {
		m.logger.Error().Err(err).Msg("Failed to list forks")
		m.reporter.Error("Failed to list forks: %v", err)
		return
	}

	if len(forks) == 0 {
		m.reporter.Error("No forks found.")
		return
	}

	for i, fork := range forks {
		m.reporter.Success("%d. %s", i+1, fork.FullName)
	}
}

func (m *Menu) listBranches(ctx context.Context) {
	fullName, err := m.prompt("Enter the full name of the fork", "user/repo")
	if err != nil {
		m.reporter.Error("Failed to read fork name: %v", err)
		return
	}

	branches, err := m.client.ListBranches(ctx, strings.TrimSpace(fullName))
	if err != nil {
		m.logger.Error().Err(err).Str("fork", fullName).Msg("Failed to list branches")
		m.reporter.Error("Failed to list branches: %v", err)
		return
	}

	if len(branches) == 0 {
		m.reporter.Error("No branches found.")
		return
	}

	for _, branch := range branches {
		m.reporter.Success("- %s", branch.Name)
	}
}

func (m *Menu) syncFork(ctx context.Context) {
	forks, err := m.client.ListForks(ctx)
	if err != nil {
		m.logger.Error().Err(err).Msg("Failed to list forks")
		m.reporter.Error("Failed to list forks: %v", err)
		return
	}

	if len(forks) == 0 {
		m.reporter.Error("No forks found.")
		return
	}

	for i, fork := range forks {
		m.reporter.Success("%d. %s", i+1, fork.FullName)
	}

	input, err := m.prompt("Select a fork to sync (enter number)", "1")
	if err != nil {
		m.reporter.Error("Failed to read selection: %v", err)
		return
	}

	fork, err := SelectFork(forks, input)
	if err != nil {
		m.reporter.Error("Invalid selection.")
		return
	}

	m.engine.SyncFork(ctx, fork)
}

// SelectFork resolves a 1-based fork selection entered by the user.
func SelectFork(forks []github.Fork, input string) (github.Fork, error) {
	index, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return github.Fork{}, fmt.Errorf("invalid selection %q: %w", input, err)
	}

	if index < 1 || index > len(forks) {
		return github.Fork{}, fmt.Errorf("invalid selection %d: must be between 1 and %d", index, len(forks))
	}

	return forks[index-1], nil
}

func selectChoice() (string, error) {
	var choice string

	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("GitHub Fork Management Menu").
			Options(
				huh.NewOption("List all forks", ChoiceListForks),
				huh.NewOption("List branches in a fork", ChoiceListBranches),
				huh.NewOption("Sync branches for a specific fork", ChoiceSyncFork),
				huh.NewOption("Sync branches for all forks", ChoiceSyncAll),
				huh.NewOption("Exit", ChoiceExit),
			).
			Value(&choice),
	))
	if err := form.Run(); err != nil {
		return "", err
	}

	return choice, nil
}

func promptInput(title, placeholder string) (string, error) {
	var value string

	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title(title).
			Placeholder(placeholder).
			Value(&value),
	))
	if err := form.Run(); err != nil {
		return "", err
	}

	return value, nil
}
