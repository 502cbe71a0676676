package bookingui

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"

	"github.com/mark3labs/handyhire/internal/api"
	"github.com/mark3labs/handyhire/internal/booking"
	"github.com/mark3labs/handyhire/internal/schedule"
	"github.com/mark3labs/handyhire/internal/wizard"
)

func init() {
	lipgloss.Writer.Profile = colorprofile.Ascii
}

var testNow = time.Date(2026, time.March, 10, 10, 30, 0, 0, time.Local)

var (
	ram = api.Provider{
		ID: "p-ram", Name: "Ram Thapa", ServiceType: "Electrician", Experience: 6,
		WorkingFrom: "09:00 AM", WorkingTo: "05:00 PM", RateCharge: 600,
	}
	gita = api.Provider{
		ID: "p-gita", Name: "Gita Rai", ServiceType: "Electrician", Experience: 9,
		WorkingFrom: "10:00 AM", WorkingTo: "06:00 PM", RateCharge: 750,
	}
)

type fakeBackend struct {
	mu           sync.Mutex
	profile      *api.Profile
	profileErr   error
	providers    []api.Provider
	providersErr error
	ratings      map[string]float64
	listCalls    []string
}

func (f *fakeBackend) Profile(context.Context) (*api.Profile, error) {
	return f.profile, f.profileErr
}

func (f *fakeBackend) DisplayProviders(_ context.Context, st string) ([]api.Provider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls = append(f.listCalls, st)
	return f.providers, f.providersErr
}

func (f *fakeBackend) FetchRatings(_ context.Context, ids []string) map[string]float64 {
	out := make(map[string]float64, len(ids))
	for _, id := range ids {
		out[id] = f.ratings[id]
	}
	return out
}

type fakeSubmit struct {
	mu    sync.Mutex
	forms []booking.FormData
	conf  booking.Confirmation
	err   error
}

func (f *fakeSubmit) submit(_ context.Context, form booking.FormData) (booking.Confirmation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forms = append(f.forms, form)
	return f.conf, f.err
}

func newBackend() *fakeBackend {
	return &fakeBackend{
		profile: &api.Profile{
			Name: "Sita Sharma", PhoneNo: "9801234567",
			Municipality: "Godawari", District: "Lalitpur", Province: "Bagmati",
		},
		providers: []api.Provider{ram, gita},
		ratings:   map[string]float64{"p-ram": 4.5},
	}
}

func newModel(t *testing.T, b *fakeBackend, s *fakeSubmit) *Model {
	t.Helper()
	m, err := New(context.Background(), Options{
		Backend: b,
		Submit:  s.submit,
		Now:     func() time.Time { return testNow },
	})
	require.NoError(t, err)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

// collect runs cmd and returns the model's own async results. Timers such as
// spinner ticks and toast expiry are left behind.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	select {
	case msg := <-done:
		if batch, ok := msg.(tea.BatchMsg); ok {
			var out []tea.Msg
			for _, c := range batch {
				out = append(out, collect(c)...)
			}
			return out
		}
		switch msg.(type) {
		case profileMsg, providersMsg, submitDoneMsg:
			return []tea.Msg{msg}
		}
		return nil
	case <-time.After(200 * time.Millisecond):
		return nil
	}
}

func run(m *Model, cmd tea.Cmd) {
	for _, msg := range collect(cmd) {
		_, next := m.Update(msg)
		run(m, next)
	}
}

func press(m *Model, keys ...string) {
	for _, k := range keys {
		var msg tea.KeyPressMsg
		switch k {
		case "enter":
			msg = tea.KeyPressMsg{Code: tea.KeyEnter}
		case "esc":
			msg = tea.KeyPressMsg{Code: tea.KeyEscape}
		case "tab":
			msg = tea.KeyPressMsg{Code: tea.KeyTab}
		case "down":
			msg = tea.KeyPressMsg{Code: tea.KeyDown}
		case "backspace":
			msg = tea.KeyPressMsg{Code: tea.KeyBackspace}
		case "ctrl+n":
			msg = tea.KeyPressMsg{Code: 'n', Mod: tea.ModCtrl}
		case "ctrl+c":
			msg = tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl}
		default:
			r := []rune(k)[0]
			msg = tea.KeyPressMsg{Code: r, Text: k}
		}
		_, cmd := m.Update(msg)
		run(m, cmd)
	}
}

func typeText(m *Model, s string) {
	for _, r := range s {
		press(m, string(r))
	}
}

// toReview drives a fresh model to the review step with Ram at 11 AM today.
func toReview(t *testing.T, m *Model) {
	t.Helper()
	run(m, m.Init())
	press(m, "ctrl+n")
	require.Equal(t, 2, m.Step())
	press(m, "enter") // Electrician
	require.Equal(t, 3, m.Step())
	press(m, "enter") // Ram
	require.Equal(t, 4, m.Step())
	press(m, "tab", "down", "down", "enter")
	require.Equal(t, 5, m.Step())
}

func TestBooking_EndToEnd(t *testing.T) {
	b := newBackend()
	s := &fakeSubmit{conf: booking.Confirmation{BookingID: "B-42", Message: "Order created"}}
	m := newModel(t, b, s)

	toReview(t, m)

	f := m.Form()
	require.Equal(t, "Sita Sharma", f.Name)
	require.Equal(t, "Godawari, Lalitpur, Bagmati", f.Address)
	require.Equal(t, booking.Electrician, f.ServiceType)
	require.Equal(t, "p-ram", f.ProviderID)
	require.InDelta(t, 600, f.RateCharge, 0.001)
	require.Equal(t, schedule.DateOf(testNow), f.BookingDate)
	require.Equal(t, "11:00 AM - 12:00 PM", f.TimeSlot)
	require.Equal(t, []string{"Electrician"}, b.listCalls)

	press(m, "enter")
	require.Len(t, s.forms, 1, "exactly one submission")
	require.Equal(t, "p-ram", s.forms[0].ProviderID)

	conf, ok := m.Confirmation()
	require.True(t, ok)
	require.Equal(t, "B-42", conf.BookingID)

	// The confirmation is terminal: navigation keys do not reopen the wizard.
	press(m, "ctrl+n")
	require.Len(t, s.forms, 1)
	press(m, "enter")
	require.True(t, m.quitting)
	require.False(t, m.Cancelled())
	require.NoError(t, m.Err())
}

func TestBooking_ConfirmedWithoutBookingID(t *testing.T) {
	s := &fakeSubmit{conf: booking.Confirmation{Message: "Order created"}}
	m := newModel(t, newBackend(), s)
	toReview(t, m)

	press(m, "enter")
	_, ok := m.Confirmation()
	require.True(t, ok)
	require.Equal(t, wizard.Submitted, m.ctrl.State())
	require.Contains(t, ansi.Strip(m.render()), "not returned")

	// No path back to the review, so the order cannot be sent twice.
	press(m, "ctrl+s")
	press(m, "esc")
	require.Len(t, s.forms, 1)
}

func TestBooking_PersonalStepRequiresFields(t *testing.T) {
	b := newBackend()
	b.profile, b.profileErr = nil, &api.Error{Status: 500, Message: "profile service down"}
	m := newModel(t, b, &fakeSubmit{})

	run(m, m.Init())
	require.Contains(t, m.toast.Message(), "profile service down")
	require.Empty(t, m.Form().Name)

	press(m, "ctrl+n")
	require.Equal(t, 1, m.Step())
	require.Equal(t, "name is required", m.personal.Field(fieldName).Error())

	typeText(m, "Hari")
	require.Empty(t, m.personal.Field(fieldName).Error())
	press(m, "tab")
	typeText(m, "9800000000")
	press(m, "tab")
	typeText(m, "Patan")

	press(m, "enter")
	require.Equal(t, 2, m.Step())
	f := m.Form()
	require.Equal(t, "Hari", f.Name)
	require.Equal(t, "9800000000", f.Phone)
	require.True(t, f.AddressSelected)
}

func TestBooking_AuthErrorEndsProgram(t *testing.T) {
	b := newBackend()
	b.profile, b.profileErr = nil, &api.Error{Status: 401, Message: "Unauthorized"}
	m := newModel(t, b, &fakeSubmit{})

	run(m, m.Init())
	require.True(t, m.quitting)
	require.ErrorIs(t, m.Err(), api.ErrUnauthorized)
}

func TestBooking_StaleProvidersDropped(t *testing.T) {
	b := newBackend()
	m := newModel(t, b, &fakeSubmit{})
	run(m, m.Init())
	press(m, "ctrl+n")
	require.Equal(t, 2, m.Step())

	// Choose a trade but leave the provider step before the fetch reports back.
	_, pending := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.Equal(t, 3, m.Step())
	press(m, "esc")
	require.Equal(t, 2, m.Step())
	run(m, pending)
	require.Empty(t, m.providersFor)
	require.Empty(t, m.providerList)

	// Picking a different trade refetches for that trade.
	press(m, "down", "enter")
	require.Equal(t, 3, m.Step())
	require.Equal(t, booking.Plumber, m.Form().ServiceType)
	require.Equal(t, booking.Plumber, m.providersFor)
	require.Equal(t, []string{"Electrician", "Plumber"}, b.listCalls)
}

func TestBooking_ProviderFailureAndRetry(t *testing.T) {
	b := newBackend()
	b.providersErr = errors.New("connection refused")
	m := newModel(t, b, &fakeSubmit{})
	run(m, m.Init())
	press(m, "ctrl+n", "enter")

	require.Contains(t, m.stepErr, "retry")
	press(m, "ctrl+n")
	require.Equal(t, 3, m.Step(), "no provider chosen")

	b.providersErr = nil
	press(m, "r")
	require.Empty(t, m.stepErr)
	require.Len(t, m.providerList, 2)
	require.InDelta(t, 4.5, m.ratings["p-ram"], 0.001)
	require.Zero(t, m.ratings["p-gita"])
}

func TestBooking_ScheduleValidation(t *testing.T) {
	m := newModel(t, newBackend(), &fakeSubmit{})
	run(m, m.Init())
	press(m, "ctrl+n", "enter", "enter")
	require.Equal(t, 4, m.Step())

	// 9 AM today has already started at 10:30.
	press(m, "tab", "enter")
	require.Equal(t, 4, m.Step())
	require.Equal(t, schedule.ErrSlotInPast.Error(), m.slotErr)

	// Yesterday is rejected as soon as it is typed.
	press(m, "tab")
	for range len("2026-03-10") {
		press(m, "backspace")
	}
	typeText(m, "2026-03-09")
	require.Equal(t, schedule.ErrDateInPast.Error(), m.dateField.Error())

	// Tomorrow makes the early slot valid again.
	for range len("2026-03-09") {
		press(m, "backspace")
	}
	typeText(m, "2026-03-11")
	require.Empty(t, m.dateField.Error())
	require.Empty(t, m.slotErr)

	press(m, "ctrl+n")
	require.Equal(t, 5, m.Step())
	require.Equal(t, "9:00 AM - 10:00 AM", m.Form().TimeSlot)
}

func TestBooking_SubmitFailureKeepsState(t *testing.T) {
	s := &fakeSubmit{err: &api.Error{Status: 409, Message: "This time slot is already booked"}}
	m := newModel(t, newBackend(), s)
	toReview(t, m)
	before := m.Form()

	press(m, "enter")
	require.Len(t, s.forms, 1)
	require.Equal(t, 5, m.Step())
	require.Equal(t, wizard.Editing, m.ctrl.State())
	require.Equal(t, "This time slot is already booked", m.stepErr)
	require.Equal(t, before, m.Form())
	_, ok := m.Confirmation()
	require.False(t, ok)

	// Resubmission is a fresh user action.
	s.err = nil
	s.conf = booking.Confirmation{BookingID: "B-7"}
	press(m, "enter")
	require.Len(t, s.forms, 2)
	conf, ok := m.Confirmation()
	require.True(t, ok)
	require.Equal(t, "B-7", conf.BookingID)
}

func TestBooking_ReviewRequestPreview(t *testing.T) {
	m := newModel(t, newBackend(), &fakeSubmit{})
	toReview(t, m)
	require.Contains(t, ansi.Strip(m.review.GetContent()), "Ram Thapa")

	press(m, "p")
	require.True(t, m.showRequest)
	body := ansi.Strip(m.review.GetContent())
	require.Contains(t, body, `"providerId"`)
	require.Contains(t, body, `"p-ram"`)
}

func TestBooking_EscOnFirstStepCancels(t *testing.T) {
	m := newModel(t, newBackend(), &fakeSubmit{})
	run(m, m.Init())
	press(m, "esc")
	require.True(t, m.quitting)
	require.True(t, m.Cancelled())
}
