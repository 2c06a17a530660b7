package registration

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/uncodesociety/signup-api/internal/models"
)

// DefaultSuccessDelay is how long the success confirmation stays visible.
const DefaultSuccessDelay = 2500 * time.Millisecond

// SubmitFailedMessage is shown for any failed notification attempt.
const SubmitFailedMessage = "Something went wrong. Please try again."

var (
	ErrInvalidTransition  = errors.New("registration: action not allowed in current phase")
	ErrSubmissionInFlight = errors.New("registration: submission already in progress")
	ErrUnknownLesson      = errors.New("registration: unknown lesson")
	ErrUnknownField       = errors.New("registration: unknown field")
)

// Phase is the workflow's single tagged state.
type Phase int

const (
	PhaseClosed Phase = iota
	PhaseLessonPicker
	PhaseDetailsForm
	PhaseSubmitting
	PhaseSuccess
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseClosed:
		return "closed"
	case PhaseLessonPicker:
		return "lesson_picker"
	case PhaseDetailsForm:
		return "details_form"
	case PhaseSubmitting:
		return "submitting"
	case PhaseSuccess:
		return "success"
	case PhaseFailed:
		return "failed"
	}
	return "unknown"
}

// Notifier delivers an accepted registration to the administrator.
type Notifier interface {
	Notify(ctx context.Context, notification models.RegistrationNotification) error
}

// Timer is the handle returned by AfterFunc.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d. time.AfterFunc satisfies it via StdAfterFunc.
type AfterFunc func(d time.Duration, f func()) Timer

// StdAfterFunc wraps time.AfterFunc.
func StdAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// State is a snapshot of the workflow.
type State struct {
	Phase       Phase
	Lesson      *models.LessonOccurrence
	Form        Form
	FieldErrors map[string]string
	SubmitError string
}

// WorkflowConfig wires the workflow's collaborators.
type WorkflowConfig struct {
	Notifier     Notifier
	Lessons      []models.LessonOccurrence
	Validator    *Validator
	SuccessDelay time.Duration
	AfterFunc    AfterFunc
	Logger       *zap.Logger
	// OnTransition runs with the workflow locked and must not call back into it.
	OnTransition func(from, to Phase)
}

// Workflow drives one sign-up session at a time.
type Workflow struct {
	mu sync.Mutex

	notifier     Notifier
	lessons      []models.LessonOccurrence
	validator    *Validator
	successDelay time.Duration
	afterFunc    AfterFunc
	logger       *zap.Logger
	onTransition func(from, to Phase)

	state      State
	generation uint64
	timer      Timer
}

// NewWorkflow constructs a closed workflow.
func NewWorkflow(cfg WorkflowConfig) *Workflow {
	if cfg.Validator == nil {
		cfg.Validator = DefaultValidator()
	}
	if cfg.SuccessDelay <= 0 {
		cfg.SuccessDelay = DefaultSuccessDelay
	}
	if cfg.AfterFunc == nil {
		cfg.AfterFunc = StdAfterFunc
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Workflow{
		notifier:     cfg.Notifier,
		lessons:      cfg.Lessons,
		validator:    cfg.Validator,
		successDelay: cfg.SuccessDelay,
		afterFunc:    cfg.AfterFunc,
		logger:       cfg.Logger,
		onTransition: cfg.OnTransition,
		state:        State{Phase: PhaseClosed},
	}
}

// Lessons returns the occurrences offered by the picker.
func (w *Workflow) Lessons() []models.LessonOccurrence {
	return w.lessons
}

// State returns a copy of the current state.
func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()

	snapshot := w.state
	if w.state.FieldErrors != nil {
		snapshot.FieldErrors = make(map[string]string, len(w.state.FieldErrors))
		for k, v := range w.state.FieldErrors {
			snapshot.FieldErrors[k] = v
		}
	}
	return snapshot
}

// Open starts a fresh session. A nil lesson shows the picker; otherwise the
// details form opens bound to that lesson. Any previous session is discarded.
func (w *Workflow) Open(lesson *models.LessonOccurrence) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.resetLocked()
	if lesson == nil {
		w.transitionLocked(PhaseLessonPicker)
		return
	}
	w.state.Lesson = lesson
	w.transitionLocked(PhaseDetailsForm)
}

// Select binds the lesson with id and moves to the details form.
func (w *Workflow) Select(id int) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state.Phase != PhaseLessonPicker {
		return ErrInvalidTransition
	}
	for i := range w.lessons {
		if w.lessons[i].ID == id {
			w.state.Lesson = &w.lessons[i]
			w.transitionLocked(PhaseDetailsForm)
			return nil
		}
	}
	return ErrUnknownLesson
}

// SetField records user input and clears any error attached to that field.
func (w *Workflow) SetField(field, value string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state.Phase != PhaseDetailsForm {
		return ErrInvalidTransition
	}
	switch field {
	case FieldFullName:
		w.state.Form.FullName = value
	case FieldAge:
		w.state.Form.Age = value
	case FieldEmail:
		w.state.Form.Email = value
	default:
		return ErrUnknownField
	}
	delete(w.state.FieldErrors, field)
	return nil
}

// Submit validates the form and, when valid, issues exactly one notification.
// The returned channel closes once the outcome has been applied. Validation
// failures return a *ValidationError and leave the workflow in the form.
func (w *Workflow) Submit(ctx context.Context) (<-chan struct{}, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch w.state.Phase {
	case PhaseSubmitting:
		return nil, ErrSubmissionInFlight
	case PhaseDetailsForm:
	default:
		return nil, ErrInvalidTransition
	}

	details, err := w.validator.ValidateForm(w.state.Form)
	if err != nil {
		if ve, ok := AsValidationError(err); ok {
			w.state.FieldErrors = ve.Messages()
		}
		return nil, err
	}

	w.state.FieldErrors = nil
	w.state.SubmitError = ""
	w.transitionLocked(PhaseSubmitting)

	lesson := w.state.Lesson
	notification := models.RegistrationNotification{
		FullName: details.FullName,
		Age:      *details.Age,
		Email:    details.Email,
	}
	if lesson != nil {
		notification.LessonTitle = lesson.Title
		notification.LessonLanguage = string(lesson.Subject)
		notification.LessonLevel = string(lesson.Level)
	}

	generation := w.generation
	done := make(chan struct{})
	go func() {
		defer close(done)
		err := w.notify(ctx, notification)
		w.complete(generation, err)
	}()

	return done, nil
}

func (w *Workflow) notify(ctx context.Context, notification models.RegistrationNotification) error {
	if w.notifier == nil {
		return errors.New("registration: no notifier configured")
	}
	return w.notifier.Notify(ctx, notification)
}

func (w *Workflow) complete(generation uint64, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if generation != w.generation || w.state.Phase != PhaseSubmitting {
		w.logger.Debug("discarding stale registration outcome", zap.Uint64("generation", generation))
		return
	}

	if err != nil {
		w.logger.Warn("registration submission failed", zap.Error(err))
		w.transitionLocked(PhaseFailed)
		w.state.SubmitError = SubmitFailedMessage
		w.transitionLocked(PhaseDetailsForm)
		return
	}

	if w.state.Lesson != nil {
		w.logger.Info("registration submitted", zap.String("lesson", w.state.Lesson.Title))
	}
	w.transitionLocked(PhaseSuccess)
	w.timer = w.afterFunc(w.successDelay, func() {
		w.autoClose(generation)
	})
}

func (w *Workflow) autoClose(generation uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if generation != w.generation || w.state.Phase != PhaseSuccess {
		return
	}
	w.timer = nil
	w.resetLocked()
}

// Close dismisses the session from any phase, discarding form data, errors
// and any pending outcome.
func (w *Workflow) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.resetLocked()
}

func (w *Workflow) resetLocked() {
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.generation++
	w.state.Lesson = nil
	w.state.Form = Form{}
	w.state.FieldErrors = nil
	w.state.SubmitError = ""
	w.transitionLocked(PhaseClosed)
}

func (w *Workflow) transitionLocked(to Phase) {
	from := w.state.Phase
	w.state.Phase = to
	if from != to && w.onTransition != nil {
		w.onTransition(from, to)
	}
}
