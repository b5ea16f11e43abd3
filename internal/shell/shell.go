// Package shell runs the interactive menu on top of an ActivityLog.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"ecotrack/internal/core"
	applog "ecotrack/internal/log"
	"ecotrack/internal/services"
)

// Menu choices.
const (
	ChoiceAdd               = "1"
	ChoiceView              = "2"
	ChoiceUpdate            = "3"
	ChoiceDelete            = "4"
	ChoiceSummaryByCategory = "5"
	ChoiceSummaryByDate     = "6"
	ChoiceExit              = "7"
)

const (
	msgNoRecords        = "No records found."
	msgInvalidInput     = "Invalid input."
	msgInvalidSelection = "Invalid selection."
	msgInvalidChoice    = "Invalid choice. Please try again."
	msgGoodbye          = "Thank you for using EcoTrack! Stay sustainable!"
)

// errInputClosed ends the session when stdin runs out.
var errInputClosed = errors.New("input closed")

type Shell struct {
	activities *services.ActivityLog
	in         *bufio.Reader
	out        io.Writer
	logger     *applog.Logger
}

func New(activities *services.ActivityLog, in io.Reader, out io.Writer, logger *applog.Logger) *Shell {
	if logger == nil {
		logger = applog.Discard()
	}
	return &Shell{
		activities: activities,
		in:         bufio.NewReader(in),
		out:        out,
		logger:     logger.WithComponent(applog.ComponentShell),
	}
}

// Run shows the menu until the user exits or input ends. Input mistakes are
// reported inline; storage errors end the session and are returned.
func (s *Shell) Run(ctx context.Context) error {
	for {
		s.printMenu()
		choice, err := s.prompt("Choose an option: ")
		if err != nil {
			return s.finish(err)
		}

		// Compared as typed: " 1" is not a menu option.
		s.logger.DebugContext(ctx, "Menu choice", "choice", choice)

		switch choice {
		case ChoiceAdd:
			err = s.add(ctx)
		case ChoiceView:
			s.logger.DebugContext(ctx, "Listing activities",
				applog.NewFields().WithOperation(applog.OpList).WithCount(s.activities.Len()).ToSlice()...)
			s.view()
		case ChoiceUpdate:
			err = s.update(ctx)
		case ChoiceDelete:
			err = s.delete(ctx)
		case ChoiceSummaryByCategory:
			s.summary(ctx, "Summary by Category", s.activities.SummaryByCategory())
		case ChoiceSummaryByDate:
			s.summary(ctx, "Summary by Date", s.activities.SummaryByDate())
		case ChoiceExit:
			s.println(msgGoodbye)
			return nil
		default:
			s.println(msgInvalidChoice)
		}
		if err != nil {
			return s.finish(err)
		}
	}
}

func (s *Shell) finish(err error) error {
	if errors.Is(err, errInputClosed) {
		s.println()
		return nil
	}
	return err
}

func (s *Shell) printMenu() {
	s.println()
	s.println("=== EcoTrack – Daily Sustainability Logger ===")
	s.println("1. Add Activity")
	s.println("2. View Activities")
	s.println("3. Update Activity")
	s.println("4. Delete Activity")
	s.println("5. Summary by Category")
	s.println("6. Summary by Date")
	s.println("7. Exit")
}

func (s *Shell) add(ctx context.Context) error {
	s.println()
	s.println("--- Add Sustainability Activity ---")

	var in core.NewActivity
	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Enter date (YYYY-MM-DD) [Leave blank for today]: ", &in.Date},
		{fmt.Sprintf("Category (%s/etc): ", strings.Join(core.SuggestedCategories(), "/")), &in.Category},
		{"Description: ", &in.Description},
		{fmt.Sprintf("Impact Level (%s): ", strings.Join(core.ImpactLevels(), "/")), &in.Impact},
	}
	for _, f := range fields {
		v, err := s.prompt(f.prompt)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	if _, err := s.activities.Add(ctx, in); err != nil {
		return err
	}
	s.println("Activity added successfully!")
	return nil
}

// view prints the listing and reports whether there was anything to list.
func (s *Shell) view() bool {
	s.println()
	s.println("--- Sustainability Activities ---")
	if s.activities.Len() == 0 {
		s.println(msgNoRecords)
		return false
	}
	writeActivities(s.out, s.activities.All())
	return true
}

func (s *Shell) update(ctx context.Context) error {
	if !s.view() {
		return nil
	}
	raw, err := s.prompt("\nEnter activity number to update: ")
	if err != nil {
		return err
	}
	idx, current, err := s.activities.Select(raw)
	if err != nil {
		s.reportSelectionError(ctx, applog.OpUpdate, err)
		return nil
	}

	s.println("Leave field blank to keep existing value.")
	desc, err := s.prompt(fmt.Sprintf("New description [%s]: ", current.Description))
	if err != nil {
		return err
	}
	impact, err := s.prompt(fmt.Sprintf("New impact [%s]: ", current.Impact))
	if err != nil {
		return err
	}

	if _, err := s.activities.Update(ctx, idx, desc, impact); err != nil {
		return err
	}
	s.println("Activity updated successfully!")
	return nil
}

func (s *Shell) delete(ctx context.Context) error {
	if !s.view() {
		return nil
	}
	raw, err := s.prompt("\nEnter activity number to delete: ")
	if err != nil {
		return err
	}
	idx, _, err := s.activities.Select(raw)
	if err != nil {
		s.reportSelectionError(ctx, applog.OpDelete, err)
		return nil
	}

	removed, err := s.activities.Delete(ctx, idx)
	if err != nil {
		return err
	}
	s.println("Deleted: " + removed.Description)
	return nil
}

func (s *Shell) summary(ctx context.Context, title string, counts []core.LabelCount) {
	s.logger.DebugContext(ctx, "Summarizing activities",
		applog.NewFields().WithOperation(applog.OpSummary).WithCount(len(counts)).ToSlice()...)
	s.println()
	s.println("--- " + title + " ---")
	if len(counts) == 0 {
		s.println(msgNoRecords)
		return
	}
	writeCounts(s.out, counts)
}

func (s *Shell) reportSelectionError(ctx context.Context, op string, err error) {
	s.logger.DebugContext(ctx, "Rejected activity number",
		applog.NewFields().WithOperation(op).WithErrorType(applog.ErrorTypeValidation).WithError(err).ToSlice()...)
	switch {
	case errors.Is(err, core.ErrInvalidSelection):
		s.println(msgInvalidSelection)
	default:
		s.println(msgInvalidInput)
	}
}

// prompt writes the prompt without a newline and reads one line of any
// length. A last line without a newline still counts.
func (s *Shell) prompt(text string) (string, error) {
	fmt.Fprint(s.out, text)
	line, err := s.in.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read input: %w", err)
		}
		if line == "" {
			return "", errInputClosed
		}
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (s *Shell) println(a ...any) {
	fmt.Fprintln(s.out, a...)
}
