// Package bookingui is the terminal front end of the customer booking flow.
package bookingui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"

	"github.com/mark3labs/handyhire/internal/api"
	"github.com/mark3labs/handyhire/internal/auth"
	"github.com/mark3labs/handyhire/internal/booking"
	"github.com/mark3labs/handyhire/internal/logger"
	"github.com/mark3labs/handyhire/internal/schedule"
	"github.com/mark3labs/handyhire/internal/tui"
	"github.com/mark3labs/handyhire/internal/wizard"
)

// Backend is the part of the API client the booking screens read from.
type Backend interface {
	Profile(ctx context.Context) (*api.Profile, error)
	DisplayProviders(ctx context.Context, serviceType string) ([]api.Provider, error)
	FetchRatings(ctx context.Context, ids []string) map[string]float64
}

// Options configures a booking model.
type Options struct {
	Backend Backend
	Submit  wizard.SubmitFunc[booking.FormData, booking.Confirmation]
	Now     func() time.Time
}

// Async results. Each carries the token of the step activation that started
// it and is dropped when the controller no longer accepts that token.
type (
	profileMsg struct {
		tok     wizard.Token
		profile *api.Profile
		err     error
	}
	providersMsg struct {
		tok         wizard.Token
		serviceType booking.ServiceType
		providers   []api.Provider
		ratings     map[string]float64
		err         error
	}
	submitDoneMsg struct {
		tok  wizard.Token
		conf booking.Confirmation
		err  error
	}
)

// Field keys on the personal step.
const (
	fieldName    = "name"
	fieldPhone   = "phone"
	fieldAddress = "address"
)

// Model is the Bubble Tea model for the booking wizard.
type Model struct {
	ctrl    *wizard.Controller[booking.FormData, booking.Confirmation]
	backend Backend
	submit  wizard.SubmitFunc[booking.FormData, booking.Confirmation]
	now     func() time.Time

	width  int
	height int

	personal  *tui.FieldGroup
	services  *tui.OptionList
	providers *tui.OptionList
	dateField *tui.TextField
	slots     *tui.OptionList
	// slotFocus is true when the slot list, not the date field, has focus.
	slotFocus bool
	review    viewport.Model
	// showRequest swaps the review table for the request body.
	showRequest bool

	spinner tui.Spinner
	toast   *tui.Toast

	profileRequested bool
	loading          bool
	providerList     []api.Provider
	ratings          map[string]float64
	providersFor     booking.ServiceType

	stepErr string
	slotErr string

	quitting  bool
	cancelled bool
	err       error
}

// New builds a booking model. ctx bounds every request the model starts.
func New(ctx context.Context, opts Options) (*Model, error) {
	if opts.Backend == nil {
		return nil, errors.New("booking ui needs a backend")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	m := &Model{
		backend: opts.Backend,
		submit:  opts.Submit,
		now:     now,
		personal: tui.NewFieldGroup(
			tui.NewTextField(fieldName, "Full name", "Sita Sharma"),
			tui.NewTextField(fieldPhone, "Phone", "98XXXXXXXX"),
			tui.NewTextField(fieldAddress, "Address", "Municipality, District, Province"),
		),
		services: tui.NewOptionList([]tui.Option{
			{Value: string(booking.Electrician), Label: string(booking.Electrician), Detail: "wiring, fittings, repairs"},
			{Value: string(booking.Plumber), Label: string(booking.Plumber), Detail: "pipes, taps, drainage"},
		}),
		providers: tui.NewOptionList(nil),
		dateField: tui.NewTextField("date", "Date", "YYYY-MM-DD"),
		slots:     tui.NewOptionList(nil),
		review:    viewport.New(viewport.WithWidth(tui.ModalContentWidth), viewport.WithHeight(12)),
		spinner:   tui.NewSpinner(),
		toast:     tui.NewToast(),
	}
	ctrl, err := wizard.New(ctx, booking.FormData{}, booking.Steps(now), m.submitFunc())
	if err != nil {
		return nil, err
	}
	m.ctrl = ctrl
	return m, nil
}

func (m *Model) submitFunc() wizard.SubmitFunc[booking.FormData, booking.Confirmation] {
	if m.submit != nil {
		return m.submit
	}
	return func(context.Context, booking.FormData) (booking.Confirmation, error) {
		return booking.Confirmation{}, errors.New("booking submission is not configured")
	}
}

// Form returns a copy of the current record.
func (m *Model) Form() booking.FormData { return m.ctrl.Form() }

// Step returns the active step number, starting at 1.
func (m *Model) Step() int { return m.ctrl.Current() }

// Confirmation returns the result of a successful submission.
func (m *Model) Confirmation() (booking.Confirmation, bool) {
	if m.ctrl.State() != wizard.Submitted {
		return booking.Confirmation{}, false
	}
	return m.ctrl.Result(), true
}

// Err returns the error that ended the program, if any.
func (m *Model) Err() error { return m.err }

// Cancelled reports whether the user left without booking.
func (m *Model) Cancelled() bool { return m.cancelled }

// Init starts the first step.
func (m *Model) Init() tea.Cmd {
	return m.enterStep()
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case tea.KeyPressMsg:
		return m, m.handleKey(msg)

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		return m, m.spinner.Update(msg)

	case tui.ToastDismissMsg:
		m.toast.Update(msg)
		return m, nil

	case profileMsg:
		return m, m.handleProfile(msg)

	case providersMsg:
		return m, m.handleProviders(msg)

	case submitDoneMsg:
		return m, m.handleSubmitDone(msg)
	}

	if m.ctrl.Current() == m.ctrl.Len() {
		var cmd tea.Cmd
		m.review, cmd = m.review.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) busy() bool {
	return m.loading || m.ctrl.State() == wizard.Submitting
}

func (m *Model) resize() {
	w := tui.ModalContentWidth
	if m.width > 0 && m.width-8 < w {
		w = max(m.width-8, 20)
	}
	m.personal.SetWidth(w)
	m.dateField.SetWidth(w)
	m.review.SetWidth(w)
	if m.height > 0 {
		m.review.SetHeight(min(max(m.height-18, 5), 16))
	}
	m.refreshReview()
}

func (m *Model) quit(cancelled bool) tea.Cmd {
	m.quitting = true
	m.cancelled = cancelled
	m.ctrl.Close()
	return tea.Quit
}

func (m *Model) fail(err error) tea.Cmd {
	m.err = err
	return m.quit(false)
}

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	k := msg.String()
	if k == "ctrl+c" {
		return m.quit(true)
	}

	switch m.ctrl.State() {
	case wizard.Submitted:
		switch k {
		case "enter", "esc", "q":
			return m.quit(false)
		}
		return nil
	case wizard.Submitting:
		return nil
	}

	switch k {
	case "ctrl+n":
		return m.next()
	case "esc":
		return m.back()
	case "ctrl+s":
		if m.ctrl.IsLast() {
			return m.beginSubmit()
		}
		return nil
	}
	if m.loading {
		return nil
	}

	switch m.ctrl.StepName(m.ctrl.Current()) {
	case booking.StepPersonal:
		return m.keyPersonal(msg)
	case booking.StepService:
		return m.keyService(msg)
	case booking.StepProvider:
		return m.keyProvider(msg)
	case booking.StepSchedule:
		return m.keySchedule(msg)
	case booking.StepReview:
		return m.keyReview(msg)
	}
	return nil
}

// next advances, or submits on the last step.
func (m *Model) next() tea.Cmd {
	if m.ctrl.IsLast() {
		return m.beginSubmit()
	}
	if err := m.ctrl.Advance(); err != nil {
		m.showValidation(err)
		return nil
	}
	return m.enterStep()
}

func (m *Model) back() tea.Cmd {
	if m.ctrl.Current() == 1 {
		return m.quit(true)
	}
	m.ctrl.Retreat()
	return m.enterStep()
}

func (m *Model) showValidation(err error) {
	var verr *wizard.ValidationError
	if !errors.As(err, &verr) {
		m.stepErr = err.Error()
		return
	}
	m.stepErr = verr.Message
	switch verr.Field {
	case fieldName, fieldPhone, fieldAddress:
		m.personal.Field(verr.Field).SetError(verr.Message)
		m.personal.FocusKey(verr.Field)
	case "booking date":
		m.dateField.SetError(verr.Message)
	case "time slot":
		m.slotErr = verr.Message
	}
}

// enterStep prepares the widgets of the step that just became active and
// starts whatever it needs to load.
func (m *Model) enterStep() tea.Cmd {
	m.stepErr = ""
	m.loading = false
	form := m.ctrl.Form()

	m.personal.Blur()
	m.services.Blur()
	m.providers.Blur()
	m.slots.Blur()
	m.dateField.Blur()

	switch m.ctrl.StepName(m.ctrl.Current()) {
	case booking.StepPersonal:
		m.syncPersonal(form)
		if !m.profileRequested {
			m.profileRequested = true
			m.loading = true
			return tea.Batch(m.fetchProfile(m.ctrl.Token()), m.spinner.Tick())
		}
		return m.personal.Focus()

	case booking.StepService:
		m.services.Choose(string(form.ServiceType))
		m.services.Focus()

	case booking.StepProvider:
		if m.providersFor != form.ServiceType {
			m.loading = true
			return tea.Batch(m.fetchProviders(m.ctrl.Token(), form.ServiceType), m.spinner.Tick())
		}
		m.providers.Choose(form.ProviderID)
		m.providers.Focus()

	case booking.StepSchedule:
		return m.enterSchedule(form)

	case booking.StepReview:
		m.showRequest = false
		m.refreshReview()
		m.review.GotoTop()
	}
	return nil
}

func (m *Model) syncPersonal(f booking.FormData) {
	m.personal.Field(fieldName).SetValue(f.Name)
	m.personal.Field(fieldPhone).SetValue(f.Phone)
	m.personal.Field(fieldAddress).SetValue(f.Address)
}

func (m *Model) fetchProfile(tok wizard.Token) tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		p, err := backend.Profile(tok.Context())
		return profileMsg{tok: tok, profile: p, err: err}
	}
}

func (m *Model) handleProfile(msg profileMsg) tea.Cmd {
	if !m.ctrl.Accept(msg.tok) {
		return nil
	}
	m.loading = false
	if msg.err != nil {
		if auth.IsAuthError(msg.err) {
			return m.fail(msg.err)
		}
		logger.Warn("loading profile: %v", msg.err)
		return tea.Batch(
			m.toast.Show("Could not load your profile: "+api.UserMessage(msg.err), tui.ToastError),
			m.personal.Focus(),
		)
	}
	m.ctrl.ApplyFrom(msg.tok, booking.ApplyProfile(*msg.profile))
	m.syncPersonal(m.ctrl.Form())
	return m.personal.Focus()
}

func (m *Model) keyPersonal(msg tea.KeyPressMsg) tea.Cmd {
	if msg.String() == "enter" {
		return m.next()
	}
	cmd, changed := m.personal.Update(msg)
	if changed == "" {
		return cmd
	}
	value := m.personal.Field(changed).Value()
	var patch func(*booking.FormData)
	switch changed {
	case fieldName:
		patch = booking.SetName(value)
	case fieldPhone:
		patch = booking.SetPhone(value)
	case fieldAddress:
		patch = booking.SetAddress(value)
	}
	if patch != nil {
		_ = m.ctrl.Apply(patch)
	}
	m.stepErr = ""
	return cmd
}

func (m *Model) keyService(msg tea.KeyPressMsg) tea.Cmd {
	opt, ok := m.services.Update(msg)
	if !ok {
		return nil
	}
	st, err := booking.ParseServiceType(opt.Value)
	if err != nil {
		m.stepErr = err.Error()
		return nil
	}
	_ = m.ctrl.Apply(booking.SetServiceType(st))
	return m.next()
}

func (m *Model) fetchProviders(tok wizard.Token, st booking.ServiceType) tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		ctx := tok.Context()
		providers, err := backend.DisplayProviders(ctx, string(st))
		if err != nil {
			return providersMsg{tok: tok, serviceType: st, err: err}
		}
		ids := make([]string, len(providers))
		for i, p := range providers {
			ids[i] = p.ID
		}
		ratings := backend.FetchRatings(ctx, ids)
		return providersMsg{tok: tok, serviceType: st, providers: providers, ratings: ratings}
	}
}

func (m *Model) handleProviders(msg providersMsg) tea.Cmd {
	if !m.ctrl.Accept(msg.tok) {
		return nil
	}
	m.loading = false
	if msg.err != nil {
		if auth.IsAuthError(msg.err) {
			return m.fail(msg.err)
		}
		logger.Warn("loading %s providers: %v", msg.serviceType, msg.err)
		m.stepErr = "Could not load providers. Press r to retry."
		return m.toast.Show(api.UserMessage(msg.err), tui.ToastError)
	}

	m.providerList = msg.providers
	m.ratings = msg.ratings
	m.providersFor = msg.serviceType

	opts := make([]tui.Option, len(msg.providers))
	for i, p := range msg.providers {
		opts[i] = tui.Option{Value: p.ID, Label: p.Name, Detail: providerDetail(p, msg.ratings[p.ID])}
	}
	m.providers.SetOptions(opts)
	m.providers.Choose(m.ctrl.Form().ProviderID)
	m.providers.Focus()
	return nil
}

func providerDetail(p api.Provider, rating float64) string {
	stars := "no ratings yet"
	if rating > 0 {
		stars = fmt.Sprintf("★ %.1f", rating)
	}
	return fmt.Sprintf("Rs. %.2f/hr · %d yrs · %s to %s · %s",
		p.RateCharge, p.Experience, p.WorkingFrom, p.WorkingTo, stars)
}

func (m *Model) keyProvider(msg tea.KeyPressMsg) tea.Cmd {
	if msg.String() == "r" {
		m.providersFor = ""
		return m.enterStep()
	}
	opt, ok := m.providers.Update(msg)
	if !ok {
		return nil
	}
	for _, p := range m.providerList {
		if p.ID == opt.Value {
			_ = m.ctrl.Apply(booking.SelectProvider(p))
			return m.next()
		}
	}
	return nil
}

func (m *Model) enterSchedule(f booking.FormData) tea.Cmd {
	var labels []string
	if f.Provider != nil {
		var err error
		labels, err = schedule.GenerateSlots(f.Provider.WorkingFrom, f.Provider.WorkingTo)
		if err != nil {
			logger.Warn("provider %s working hours: %v", f.ProviderID, err)
		}
	}
	opts := make([]tui.Option, len(labels))
	for i, l := range labels {
		opts[i] = tui.Option{Value: l, Label: l}
	}
	m.slots.SetOptions(opts)
	m.slots.Choose(f.TimeSlot)

	if f.BookingDate.IsZero() {
		today := schedule.DateOf(m.now())
		_ = m.ctrl.Apply(booking.SetDate(today))
		f.BookingDate = today
	}
	m.dateField.SetValue(f.BookingDate.String())
	m.dateField.SetError("")
	m.validateSchedule()

	m.slotFocus = false
	return m.dateField.Focus()
}

// validateSchedule shows inline errors for the date and slot as they stand.
func (m *Model) validateSchedule() {
	f := m.ctrl.Form()
	now := m.now()
	m.slotErr = ""
	if m.dateField.Error() == "" && !f.BookingDate.IsZero() {
		if err := schedule.ValidateDate(f.BookingDate, now); err != nil {
			m.dateField.SetError(err.Error())
		}
	}
	if f.TimeSlot != "" && !f.BookingDate.IsZero() {
		if err := schedule.ValidateSlot(f.BookingDate, f.TimeSlot, now); err != nil {
			m.slotErr = err.Error()
		}
	}
}

func (m *Model) keySchedule(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "tab", "shift+tab":
		m.slotFocus = !m.slotFocus
		if m.slotFocus {
			m.dateField.Blur()
			m.slots.Focus()
			return nil
		}
		m.slots.Blur()
		return m.dateField.Focus()
	}

	if m.slotFocus {
		opt, ok := m.slots.Update(msg)
		if !ok {
			return nil
		}
		_ = m.ctrl.Apply(booking.SetSlot(opt.Value))
		m.stepErr = ""
		m.validateSchedule()
		if m.slotErr != "" || m.dateField.Error() != "" {
			return nil
		}
		return m.next()
	}

	if msg.String() == "enter" {
		m.slotFocus = true
		m.dateField.Blur()
		m.slots.Focus()
		return nil
	}
	cmd, changed := m.dateField.Update(msg)
	if !changed {
		return cmd
	}
	d, err := schedule.ParseDate(m.dateField.Value())
	if err != nil {
		_ = m.ctrl.Apply(booking.SetDate(schedule.Date{}))
		m.dateField.SetError("use YYYY-MM-DD")
	} else {
		_ = m.ctrl.Apply(booking.SetDate(d))
		m.dateField.SetError("")
	}
	m.stepErr = ""
	m.validateSchedule()
	return cmd
}

func (m *Model) keyReview(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		return m.beginSubmit()
	case "p":
		m.showRequest = !m.showRequest
		m.refreshReview()
		m.review.GotoTop()
		return nil
	}
	var cmd tea.Cmd
	m.review, cmd = m.review.Update(msg)
	return cmd
}

func (m *Model) beginSubmit() tea.Cmd {
	form, tok, err := m.ctrl.BeginSubmit()
	if err != nil {
		m.showValidation(err)
		return nil
	}
	m.stepErr = ""
	submit := m.submitFunc()
	return tea.Batch(
		func() tea.Msg {
			conf, err := submit(tok.Context(), form)
			return submitDoneMsg{tok: tok, conf: conf, err: err}
		},
		m.spinner.Tick(),
	)
}

func (m *Model) handleSubmitDone(msg submitDoneMsg) tea.Cmd {
	err := m.ctrl.FinishSubmit(msg.tok, msg.conf, msg.err)
	if errors.Is(err, wizard.ErrStaleToken) {
		return nil
	}
	if err != nil {
		if auth.IsAuthError(err) {
			return m.fail(err)
		}
		logger.Warn("booking submission failed: %v", err)
		m.stepErr = api.UserMessage(err)
		return m.toast.Show("Booking failed: "+api.UserMessage(err), tui.ToastError)
	}
	return m.toast.Show("Booking confirmed", tui.ToastSuccess)
}
