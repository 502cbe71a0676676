// Package wizard implements a linear multi-step form controller.
//
// A Controller owns one form record of type T and an ordered list of steps.
// Steps never mutate the record directly: every change goes through Apply or
// ApplyFrom. Each step activation gets a Token whose context is cancelled as
// soon as the user navigates away, so work started on behalf of a step can be
// aborted and its late results discarded.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Step is one page of a wizard. Validate gates advancing past the step.
type Step[T any] interface {
	Name() string
	Validate(form T) error
}

// SubmitFunc sends the completed record to wherever it needs to go.
type SubmitFunc[T, R any] func(ctx context.Context, form T) (R, error)

// State is the lifecycle position of a controller.
type State int

const (
	Editing State = iota
	Submitting
	Submitted
)

func (s State) String() string {
	switch s {
	case Editing:
		return "editing"
	case Submitting:
		return "submitting"
	case Submitted:
		return "submitted"
	default:
		return "unknown"
	}
}

var (
	ErrLastStep    = errors.New("already at the last step")
	ErrNotLastStep = errors.New("submit is only available on the last step")
	ErrSubmitting  = errors.New("submission in progress")
	ErrSubmitted   = errors.New("form already submitted")
	ErrStaleToken  = errors.New("token no longer current")
	ErrNoSteps     = errors.New("wizard needs at least one step")
)

// Token identifies one activation of a step. Its context is cancelled when the
// controller moves on.
type Token struct {
	epoch uint64
	ctx   context.Context
}

// Context returns the context bound to the activation.
func (t Token) Context() context.Context {
	if t.ctx == nil {
		return context.Background()
	}
	return t.ctx
}

// Epoch returns the activation counter the token was issued at.
func (t Token) Epoch() uint64 {
	return t.epoch
}

// Controller drives a wizard over a record of type T producing a result R on
// successful submission. It is safe for concurrent use, although a TUI only
// touches it from its event loop.
type Controller[T, R any] struct {
	mu      sync.Mutex
	base    context.Context
	steps   []Step[T]
	submit  SubmitFunc[T, R]
	form    T
	current int
	state   State
	result  R
	lastErr error

	epoch  uint64
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a controller positioned on the first step. Cancelling base
// cancels every token the controller hands out.
func New[T, R any](base context.Context, form T, steps []Step[T], submit SubmitFunc[T, R]) (*Controller[T, R], error) {
	if len(steps) == 0 {
		return nil, ErrNoSteps
	}
	if base == nil {
		base = context.Background()
	}
	c := &Controller[T, R]{
		base:   base,
		steps:  steps,
		submit: submit,
		form:   form,
	}
	c.activate()
	return c, nil
}

// activate cancels the previous token and issues a fresh one.
// Caller must hold c.mu.
func (c *Controller[T, R]) activate() {
	if c.cancel != nil {
		c.cancel()
	}
	c.epoch++
	c.ctx, c.cancel = context.WithCancel(c.base)
}

// Current returns the active step number, starting at 1.
func (c *Controller[T, R]) Current() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current + 1
}

// Len returns the number of steps.
func (c *Controller[T, R]) Len() int {
	return len(c.steps)
}

// StepName returns the name of step n (1-based), or "" when out of range.
func (c *Controller[T, R]) StepName(n int) string {
	if n < 1 || n > len(c.steps) {
		return ""
	}
	return c.steps[n-1].Name()
}

// IsLast reports whether the active step is the final one.
func (c *Controller[T, R]) IsLast() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current == len(c.steps)-1
}

// State returns the lifecycle state.
func (c *Controller[T, R]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Form returns a copy of the record.
func (c *Controller[T, R]) Form() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form
}

// Result returns the value produced by the last successful submission.
func (c *Controller[T, R]) Result() R {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// LastError returns the error of the last failed submission, cleared by the
// next attempt.
func (c *Controller[T, R]) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Token returns the token of the active step.
func (c *Controller[T, R]) Token() Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Token{epoch: c.epoch, ctx: c.ctx}
}

// Accept reports whether tok still belongs to the active step.
func (c *Controller[T, R]) Accept(tok Token) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return tok.epoch == c.epoch
}

// Apply mutates the record. It is rejected while a submission is in flight
// or after a terminal submission.
func (c *Controller[T, R]) Apply(patch func(*T)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.editable(); err != nil {
		return err
	}
	patch(&c.form)
	return nil
}

// ApplyFrom applies patch only when tok is still current. It reports whether
// the patch was applied.
func (c *Controller[T, R]) ApplyFrom(tok Token, patch func(*T)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if tok.epoch != c.epoch || c.editable() != nil {
		return false
	}
	patch(&c.form)
	return true
}

func (c *Controller[T, R]) editable() error {
	switch c.state {
	case Submitting:
		return ErrSubmitting
	case Submitted:
		return ErrSubmitted
	}
	return nil
}

// Validate runs the active step's validation against the current record.
func (c *Controller[T, R]) Validate() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.validateCurrent()
}

func (c *Controller[T, R]) validateCurrent() error {
	step := c.steps[c.current]
	err := step.Validate(c.form)
	if err == nil {
		return nil
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		if verr.Step == "" {
			verr.Step = step.Name()
		}
		return verr
	}
	return &ValidationError{Step: step.Name(), Message: err.Error()}
}

// Advance moves to the next step if the active one validates. On failure the
// step is unchanged and a *ValidationError is returned.
func (c *Controller[T, R]) Advance() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.editable(); err != nil {
		return err
	}
	if c.current == len(c.steps)-1 {
		return ErrLastStep
	}
	if err := c.validateCurrent(); err != nil {
		return err
	}
	c.current++
	c.activate()
	return nil
}

// Retreat moves back one step without validation. It reports whether the
// step changed; the first step and non-editing states are left alone.
func (c *Controller[T, R]) Retreat() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.editable() != nil || c.current == 0 {
		return false
	}
	c.current--
	c.activate()
	return true
}

// Restart returns to the first step keeping the record. It also reopens a
// submitted wizard for editing.
func (c *Controller[T, R]) Restart() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Submitting {
		return ErrSubmitting
	}
	c.state = Editing
	c.current = 0
	c.lastErr = nil
	c.activate()
	return nil
}

// BeginSubmit validates the last step and moves to Submitting. The returned
// token must be handed back to FinishSubmit.
func (c *Controller[T, R]) BeginSubmit() (T, Token, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	if err := c.editable(); err != nil {
		return zero, Token{}, err
	}
	if c.current != len(c.steps)-1 {
		return zero, Token{}, ErrNotLastStep
	}
	if err := c.validateCurrent(); err != nil {
		return zero, Token{}, err
	}
	c.state = Submitting
	c.lastErr = nil
	c.activate()
	return c.form, Token{epoch: c.epoch, ctx: c.ctx}, nil
}

// FinishSubmit records the outcome of a submission started by BeginSubmit.
// A failure returns the wizard to editing the last step with all state kept.
func (c *Controller[T, R]) FinishSubmit(tok Token, result R, err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Submitting || tok.epoch != c.epoch {
		return ErrStaleToken
	}
	c.activate()
	if err != nil {
		c.state = Editing
		c.lastErr = err
		return err
	}
	c.state = Submitted
	c.result = result
	return nil
}

// Submit runs the submit function synchronously. ctx is additionally bound to
// the controller's lifetime.
func (c *Controller[T, R]) Submit(ctx context.Context) (R, error) {
	var zero R
	if c.submit == nil {
		return zero, fmt.Errorf("wizard has no submit function")
	}
	form, tok, err := c.BeginSubmit()
	if err != nil {
		return zero, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(tok.Context(), cancel)
	defer stop()

	result, err := c.submit(ctx, form)
	if ferr := c.FinishSubmit(tok, result, err); ferr != nil {
		return zero, ferr
	}
	return result, nil
}

// Close cancels the active token.
func (c *Controller[T, R]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
	}
}
