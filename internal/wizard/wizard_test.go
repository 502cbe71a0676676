package wizard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type form struct {
	Name  string
	Email string
	Notes string
}

type fieldStep struct {
	name  string
	field func(form) string
}

func (s fieldStep) Name() string { return s.name }

func (s fieldStep) Validate(f form) error {
	if s.field(f) == "" {
		return Required(s.name)
	}
	return nil
}

func testSteps() []Step[form] {
	return []Step[form]{
		fieldStep{name: "name", field: func(f form) string { return f.Name }},
		fieldStep{name: "email", field: func(f form) string { return f.Email }},
		fieldStep{name: "notes", field: func(f form) string { return f.Notes }},
	}
}

func newController(t *testing.T, submit SubmitFunc[form, string]) *Controller[form, string] {
	t.Helper()
	c, err := New(context.Background(), form{}, testSteps(), submit)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func set(c *Controller[form, string], t *testing.T, patch func(*form)) {
	t.Helper()
	require.NoError(t, c.Apply(patch))
}

func TestNew_RequiresSteps(t *testing.T) {
	_, err := New[form, string](context.Background(), form{}, nil, nil)
	require.ErrorIs(t, err, ErrNoSteps)
}

func TestAdvance_RejectsEmptyRequiredField(t *testing.T) {
	c := newController(t, nil)

	err := c.Advance()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "name", verr.Step)
	require.Equal(t, "name", verr.Field)
	require.Equal(t, 1, c.Current())

	set(c, t, func(f *form) { f.Name = "Sita" })
	require.NoError(t, c.Advance())
	require.Equal(t, 2, c.Current())
}

func TestAdvance_PlainErrorBecomesValidationError(t *testing.T) {
	steps := []Step[form]{stepFunc{"only", func(form) error { return errors.New("nope") }}, stepFunc{"end", nil}}
	c, err := New[form, string](context.Background(), form{}, steps, nil)
	require.NoError(t, err)

	err = c.Advance()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "only", verr.Step)
	require.Equal(t, "nope", verr.Message)
}

type stepFunc struct {
	name string
	fn   func(form) error
}

func (s stepFunc) Name() string { return s.name }

func (s stepFunc) Validate(f form) error {
	if s.fn == nil {
		return nil
	}
	return s.fn(f)
}

func TestAdvance_LastStep(t *testing.T) {
	c := newController(t, nil)
	set(c, t, func(f *form) { *f = form{Name: "a", Email: "b", Notes: "c"} })
	require.NoError(t, c.Advance())
	require.NoError(t, c.Advance())
	require.True(t, c.IsLast())
	require.ErrorIs(t, c.Advance(), ErrLastStep)
	require.Equal(t, 3, c.Current())
}

func TestRetreat_ClampsAtFirstStep(t *testing.T) {
	c := newController(t, nil)
	require.False(t, c.Retreat())
	require.Equal(t, 1, c.Current())

	set(c, t, func(f *form) { f.Name = "a" })
	require.NoError(t, c.Advance())
	// Going back does not validate the step being left.
	require.True(t, c.Retreat())
	require.Equal(t, 1, c.Current())
}

func TestToken_StaleAfterNavigation(t *testing.T) {
	c := newController(t, nil)
	set(c, t, func(f *form) { f.Name = "a" })

	tok := c.Token()
	require.True(t, c.Accept(tok))
	require.NoError(t, tok.Context().Err())

	require.NoError(t, c.Advance())
	require.False(t, c.Accept(tok))
	require.ErrorIs(t, tok.Context().Err(), context.Canceled)

	applied := c.ApplyFrom(tok, func(f *form) { f.Name = "late" })
	require.False(t, applied)
	require.Equal(t, "a", c.Form().Name)

	fresh := c.Token()
	require.Greater(t, fresh.Epoch(), tok.Epoch())
	require.True(t, c.ApplyFrom(fresh, func(f *form) { f.Email = "x@y.z" }))
	require.Equal(t, "x@y.z", c.Form().Email)
}

func TestToken_CancelledByBaseContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	c, err := New[form, string](ctx, form{}, testSteps(), nil)
	require.NoError(t, err)

	tok := c.Token()
	cancel()
	<-tok.Context().Done()
}

func TestSubmit_Success(t *testing.T) {
	var calls int
	c := newController(t, func(_ context.Context, f form) (string, error) {
		calls++
		return "ok:" + f.Name, nil
	})
	set(c, t, func(f *form) { *f = form{Name: "a", Email: "b", Notes: "c"} })

	_, err := c.Submit(context.Background())
	require.ErrorIs(t, err, ErrNotLastStep)

	require.NoError(t, c.Advance())
	require.NoError(t, c.Advance())

	res, err := c.Submit(context.Background())
	require.NoError(t, err)
	require.Equal(t, "ok:a", res)
	require.Equal(t, 1, calls)
	require.Equal(t, Submitted, c.State())
	require.Equal(t, "ok:a", c.Result())

	// Submitted is terminal until Restart.
	require.ErrorIs(t, c.Apply(func(f *form) { f.Name = "b" }), ErrSubmitted)
	require.False(t, c.Retreat())
	_, err = c.Submit(context.Background())
	require.ErrorIs(t, err, ErrSubmitted)
	require.Equal(t, 1, calls)
}

func TestSubmit_FailureKeepsState(t *testing.T) {
	boom := errors.New("backend down")
	fail := true
	c := newController(t, func(context.Context, form) (string, error) {
		if fail {
			return "", boom
		}
		return "done", nil
	})
	set(c, t, func(f *form) { *f = form{Name: "a", Email: "b", Notes: "c"} })
	require.NoError(t, c.Advance())
	require.NoError(t, c.Advance())

	_, err := c.Submit(context.Background())
	require.ErrorIs(t, err, boom)
	require.Equal(t, Editing, c.State())
	require.Equal(t, 3, c.Current())
	require.ErrorIs(t, c.LastError(), boom)
	require.Equal(t, form{Name: "a", Email: "b", Notes: "c"}, c.Form())

	fail = false
	res, err := c.Submit(context.Background())
	require.NoError(t, err)
	require.Equal(t, "done", res)
	require.NoError(t, c.LastError())
}

func TestSubmit_ValidatesLastStep(t *testing.T) {
	c := newController(t, func(context.Context, form) (string, error) {
		t.Fatal("submit must not run for an invalid form")
		return "", nil
	})
	set(c, t, func(f *form) { *f = form{Name: "a", Email: "b"} })
	require.NoError(t, c.Advance())
	require.NoError(t, c.Advance())

	_, err := c.Submit(context.Background())
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "notes", verr.Step)
}

func TestBeginSubmit_BlocksNavigation(t *testing.T) {
	c := newController(t, nil)
	set(c, t, func(f *form) { *f = form{Name: "a", Email: "b", Notes: "c"} })
	require.NoError(t, c.Advance())
	require.NoError(t, c.Advance())

	f, tok, err := c.BeginSubmit()
	require.NoError(t, err)
	require.Equal(t, "a", f.Name)
	require.Equal(t, Submitting, c.State())

	require.ErrorIs(t, c.Apply(func(*form) {}), ErrSubmitting)
	require.False(t, c.Retreat())
	require.ErrorIs(t, c.Restart(), ErrSubmitting)
	_, _, err = c.BeginSubmit()
	require.ErrorIs(t, err, ErrSubmitting)

	require.ErrorIs(t, c.FinishSubmit(Token{}, "x", nil), ErrStaleToken)
	require.NoError(t, c.FinishSubmit(tok, "x", nil))
	require.ErrorIs(t, c.FinishSubmit(tok, "y", nil), ErrStaleToken)
	require.Equal(t, "x", c.Result())
}

func TestRestart_KeepsForm(t *testing.T) {
	c := newController(t, func(context.Context, form) (string, error) { return "id", nil })
	set(c, t, func(f *form) { *f = form{Name: "a", Email: "b", Notes: "c"} })
	require.NoError(t, c.Advance())
	require.NoError(t, c.Advance())
	_, err := c.Submit(context.Background())
	require.NoError(t, err)

	require.NoError(t, c.Restart())
	require.Equal(t, Editing, c.State())
	require.Equal(t, 1, c.Current())
	require.Equal(t, form{Name: "a", Email: "b", Notes: "c"}, c.Form())
	require.NoError(t, c.Apply(func(f *form) { f.Name = "edited" }))
}

func TestStepName(t *testing.T) {
	c := newController(t, nil)
	require.Equal(t, 3, c.Len())
	require.Equal(t, "name", c.StepName(1))
	require.Equal(t, "notes", c.StepName(3))
	require.Empty(t, c.StepName(0))
	require.Empty(t, c.StepName(4))
}

func TestValidationError_Message(t *testing.T) {
	tests := []struct {
		err  *ValidationError
		want string
	}{
		{&ValidationError{Message: "bad"}, "bad"},
		{&ValidationError{Field: "phone", Message: "bad"}, "phone: bad"},
		{&ValidationError{Step: "Personal", Field: "phone", Message: "bad"}, "Personal: phone: bad"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, tt.err.Error())
	}
}
