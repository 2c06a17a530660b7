package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/uncodesociety/signup-api/internal/models"
	"github.com/uncodesociety/signup-api/internal/registration"
	"github.com/uncodesociety/signup-api/internal/schedule"
)

var fieldPrompts = []struct {
	field string
	label string
}{
	{registration.FieldFullName, "Full legal name"},
	{registration.FieldAge, "Age"},
	{registration.FieldEmail, "Email"},
}

type sessionConfig struct {
	in           io.Reader
	out          io.Writer
	interactive  bool
	locale       schedule.Locale
	lessons      []models.LessonOccurrence
	notifier     registration.Notifier
	successDelay time.Duration
	afterFunc    registration.AfterFunc
	logger       *zap.Logger
}

// session walks one terminal user through the sign-up workflow.
type session struct {
	wf          *registration.Workflow
	in          *bufio.Reader
	out         io.Writer
	interactive bool
	locale      schedule.Locale
	dismissed   chan struct{}
}

func newSession(cfg sessionConfig) *session {
	s := &session{
		in:          bufio.NewReader(cfg.in),
		out:         cfg.out,
		interactive: cfg.interactive,
		locale:      cfg.locale,
		dismissed:   make(chan struct{}, 1),
	}
	s.wf = registration.NewWorkflow(registration.WorkflowConfig{
		Notifier:     cfg.notifier,
		Lessons:      cfg.lessons,
		SuccessDelay: cfg.successDelay,
		AfterFunc:    cfg.afterFunc,
		Logger:       cfg.logger,
		OnTransition: func(from, to registration.Phase) {
			if from == registration.PhaseSuccess && to == registration.PhaseClosed {
				select {
				case s.dismissed <- struct{}{}:
				default:
				}
			}
		},
	})
	return s
}

// run loops until the user quits, input ends or ctx is cancelled.
func (s *session) run(ctx context.Context) error {
	defer s.wf.Close()

	s.printLessons()
	for {
		s.wf.Open(nil)
		ok, err := s.chooseLesson()
		if err != nil || !ok {
			return err
		}

		again, err := s.register(ctx)
		if err != nil || !again {
			return err
		}
	}
}

func (s *session) printLessons() {
	fmt.Fprintln(s.out, "Upcoming lessons")
	for _, lesson := range s.wf.Lessons() {
		fmt.Fprintf(s.out, "%2d) %s (%s, %s)\n", lesson.ID, lesson.Title, lesson.Subject, lesson.Level)
		fmt.Fprintf(s.out, "    %s | %s | %s | %s | %d/%d spots left\n",
			lesson.DisplayDate(s.locale),
			lesson.DisplayTime(s.locale),
			lesson.DurationLabel,
			lesson.DisplayLocation(s.locale),
			lesson.SpotsLeft,
			lesson.Capacity,
		)
	}
	fmt.Fprintln(s.out)
}

func (s *session) chooseLesson() (bool, error) {
	for {
		line, err := s.ask("Lesson number (q to quit)")
		if err != nil {
			return false, ignoreEOF(err)
		}
		if strings.EqualFold(line, "q") {
			return false, nil
		}
		id, convErr := strconv.Atoi(line)
		if convErr != nil {
			fmt.Fprintln(s.out, "Please enter one of the lesson numbers above.")
			continue
		}
		switch err := s.wf.Select(id); {
		case errors.Is(err, registration.ErrUnknownLesson):
			fmt.Fprintf(s.out, "Unknown lesson %d.\n", id)
		case err != nil:
			return false, err
		default:
			return true, nil
		}
	}
}

// register collects the details, submits them and reports whether the user
// wants to sign up for another lesson.
func (s *session) register(ctx context.Context) (bool, error) {
	lesson := s.wf.State().Lesson
	if lesson != nil {
		fmt.Fprintf(s.out, "\nSign up for %s on %s\n", lesson.Title, lesson.DisplayDate(s.locale))
	}

	pending := map[string]bool{}
	for _, p := range fieldPrompts {
		pending[p.field] = true
	}

	for {
		if err := s.collect(pending); err != nil {
			return false, ignoreEOF(err)
		}

		done, err := s.wf.Submit(ctx)
		if err != nil {
			ve, ok := registration.AsValidationError(err)
			if !ok {
				return false, err
			}
			pending = map[string]bool{}
			for _, fe := range ve.Fields {
				fmt.Fprintf(s.out, "  %s\n", fe.Message)
				pending[fe.Field] = true
			}
			continue
		}

		fmt.Fprintln(s.out, "Submitting...")
		select {
		case <-done:
		case <-ctx.Done():
			return false, ctx.Err()
		}

		state := s.wf.State()
		if state.Phase == registration.PhaseSuccess {
			return s.confirm(ctx, state)
		}

		fmt.Fprintln(s.out, state.SubmitError)
		retry, err := s.yesNo("Try again?", true)
		if err != nil || !retry {
			return false, ignoreEOF(err)
		}
		pending = map[string]bool{}
	}
}

func (s *session) collect(pending map[string]bool) error {
	for _, p := range fieldPrompts {
		if !pending[p.field] {
			continue
		}
		value, err := s.ask(p.label)
		if err != nil {
			return err
		}
		if err := s.wf.SetField(p.field, value); err != nil {
			return err
		}
	}
	return nil
}

func (s *session) confirm(ctx context.Context, state registration.State) (bool, error) {
	fmt.Fprintln(s.out, "Thank you! Your registration has been received.")
	if state.Lesson != nil {
		fmt.Fprintf(s.out, "We look forward to seeing you at %s.\n", state.Lesson.Title)
	}

	select {
	case <-s.dismissed:
	case <-ctx.Done():
		return false, ctx.Err()
	}

	again, err := s.yesNo("Register for another lesson?", false)
	return again, ignoreEOF(err)
}

func (s *session) ask(label string) (string, error) {
	if s.interactive {
		fmt.Fprintf(s.out, "%s: ", label)
	}
	line, err := s.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (s *session) yesNo(question string, def bool) (bool, error) {
	hint := "[y/N]"
	if def {
		hint = "[Y/n]"
	}
	answer, err := s.ask(question + " " + hint)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes", "j", "ja":
		return true, nil
	case "n", "no", "nee":
		return false, nil
	}
	return def, nil
}

func ignoreEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
