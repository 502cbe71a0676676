// Package registerui is the terminal front end of service provider
// registration.
package registerui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"

	"github.com/mark3labs/handyhire/internal/api"
	"github.com/mark3labs/handyhire/internal/auth"
	"github.com/mark3labs/handyhire/internal/logger"
	"github.com/mark3labs/handyhire/internal/registration"
	"github.com/mark3labs/handyhire/internal/tui"
	"github.com/mark3labs/handyhire/internal/wizard"
)

// Backend is the part of the API client the registration screens read from.
type Backend interface {
	Profile(ctx context.Context) (*api.Profile, error)
}

// Options configures a registration model.
type Options struct {
	Backend Backend
	Submit  wizard.SubmitFunc[registration.FormData, registration.Status]
	// PassThreshold is the number of correct answers needed to pass.
	PassThreshold int
	// StartDir is where the certificate picker opens. Defaults to the
	// working directory.
	StartDir string
}

type (
	profileMsg struct {
		tok     wizard.Token
		profile *api.Profile
		err     error
	}
	submitDoneMsg struct {
		tok    wizard.Token
		status registration.Status
		err    error
	}
)

// Field keys match the field names used in validation errors.
const (
	fieldName        = "name"
	fieldEmail       = "email"
	fieldPhone       = "phone"
	fieldAddress     = "address"
	fieldExperience  = "experience"
	fieldHourlyRate  = "hourly rate"
	fieldWorkingFrom = "working from"
	fieldWorkingTo   = "working to"
)

// Model is the Bubble Tea model for the registration wizard.
type Model struct {
	ctrl      *wizard.Controller[registration.FormData, registration.Status]
	backend   Backend
	submit    wizard.SubmitFunc[registration.FormData, registration.Status]
	threshold int
	startDir  string

	width  int
	height int

	personal     *tui.FieldGroup
	services     *tui.OptionList
	professional *tui.FieldGroup
	// listFocus is true while the service type list has focus on the
	// professional step.
	listFocus bool

	questions  []registration.Question
	answers    []*tui.OptionList
	examCursor int

	picker  *tui.FilePicker
	certErr string

	review      viewport.Model
	showRequest bool

	spinner tui.Spinner
	toast   *tui.Toast

	profileRequested bool
	loading          bool
	stepErr          string

	// last is the most recent accepted registration, kept across edits.
	last *registration.Status

	quitting  bool
	cancelled bool
	err       error
}

// New builds a registration model. ctx bounds every request the model starts.
func New(ctx context.Context, opts Options) (*Model, error) {
	if opts.Backend == nil {
		return nil, errors.New("registration ui needs a backend")
	}
	startDir := opts.StartDir
	if startDir == "" {
		if wd, err := os.Getwd(); err == nil {
			startDir = wd
		}
	}
	m := &Model{
		backend:   opts.Backend,
		submit:    opts.Submit,
		threshold: opts.PassThreshold,
		startDir:  startDir,
		personal: tui.NewFieldGroup(
			tui.NewTextField(fieldName, "Full name", "Hari Bahadur"),
			tui.NewTextField(fieldEmail, "Email", "you@example.com"),
			tui.NewTextField(fieldPhone, "Phone", "98XXXXXXXX"),
			tui.NewTextField(fieldAddress, "Address", "Municipality, District, Province"),
		),
		services: tui.NewOptionList([]tui.Option{
			{Value: string(api.Electrician), Label: string(api.Electrician)},
			{Value: string(api.Plumber), Label: string(api.Plumber)},
		}),
		professional: tui.NewFieldGroup(
			tui.NewTextField(fieldExperience, "Experience (years)", "5"),
			tui.NewTextField(fieldHourlyRate, "Hourly rate (Rs.)", "500"),
			tui.NewTextField(fieldWorkingFrom, "Working from", "9:00 AM"),
			tui.NewTextField(fieldWorkingTo, "Working to", "5:00 PM"),
		),
		review:  viewport.New(viewport.WithWidth(tui.ModalContentWidth), viewport.WithHeight(12)),
		spinner: tui.NewSpinner(),
		toast:   tui.NewToast(),
	}
	ctrl, err := wizard.New(ctx, registration.FormData{}, registration.Steps(), m.submitFunc())
	if err != nil {
		return nil, err
	}
	m.ctrl = ctrl
	return m, nil
}

func (m *Model) submitFunc() wizard.SubmitFunc[registration.FormData, registration.Status] {
	if m.submit != nil {
		return m.submit
	}
	return func(context.Context, registration.FormData) (registration.Status, error) {
		return registration.Status{}, errors.New("registration submission is not configured")
	}
}

// Form returns a copy of the current record.
func (m *Model) Form() registration.FormData { return m.ctrl.Form() }

// Step returns the active step number, starting at 1.
func (m *Model) Step() int { return m.ctrl.Current() }

// Status returns the most recent accepted registration, if any.
func (m *Model) Status() (registration.Status, bool) {
	if m.last == nil {
		return registration.Status{}, false
	}
	return *m.last, true
}

// Submitted reports whether the status panel is showing.
func (m *Model) Submitted() bool { return m.ctrl.State() == wizard.Submitted }

// Err returns the error that ended the program, if any.
func (m *Model) Err() error { return m.err }

// Cancelled reports whether the user left the wizard.
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

	case tui.FileSelectedMsg:
		return m, m.handleFileSelected(msg)

	case profileMsg:
		return m, m.handleProfile(msg)

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

func (m *Model) contentWidth() int {
	if m.width > 0 && m.width-8 < tui.ModalContentWidth {
		return max(m.width-8, 20)
	}
	return tui.ModalContentWidth
}

func (m *Model) resize() {
	w := m.contentWidth()
	m.personal.SetWidth(w)
	m.professional.SetWidth(w)
	m.review.SetWidth(w)
	if m.height > 0 {
		h := min(max(m.height-18, 5), 16)
		m.review.SetHeight(h)
		if m.picker != nil {
			m.picker.SetHeight(h)
		}
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
		case "e":
			return m.edit()
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
	case registration.StepPersonal:
		return m.keyPersonal(msg)
	case registration.StepProfessional:
		return m.keyProfessional(msg)
	case registration.StepExam:
		return m.keyExam(msg)
	case registration.StepCertificate:
		return m.picker.Update(msg)
	case registration.StepReview:
		return m.keyReview(msg)
	}
	return nil
}

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

// edit reopens a submitted registration at the first step.
func (m *Model) edit() tea.Cmd {
	if err := m.ctrl.Restart(); err != nil {
		m.stepErr = err.Error()
		return nil
	}
	return m.enterStep()
}

func (m *Model) showValidation(err error) {
	var verr *wizard.ValidationError
	if !errors.As(err, &verr) {
		m.stepErr = err.Error()
		return
	}
	m.stepErr = verr.Message
	if f := m.personal.Field(verr.Field); f != nil {
		f.SetError(verr.Message)
		m.personal.FocusKey(verr.Field)
		return
	}
	if f := m.professional.Field(verr.Field); f != nil {
		f.SetError(verr.Message)
		m.listFocus = false
		m.services.Blur()
		m.professional.FocusKey(verr.Field)
		return
	}
	if verr.Field == "certificate" {
		m.certErr = verr.Message
	}
}

func (m *Model) enterStep() tea.Cmd {
	m.stepErr = ""
	m.loading = false
	form := m.ctrl.Form()

	m.personal.Blur()
	m.services.Blur()
	m.professional.Blur()
	for _, l := range m.answers {
		l.Blur()
	}

	switch m.ctrl.StepName(m.ctrl.Current()) {
	case registration.StepPersonal:
		m.syncPersonal(form)
		if !m.profileRequested {
			m.profileRequested = true
			m.loading = true
			return tea.Batch(m.fetchProfile(m.ctrl.Token()), m.spinner.Tick())
		}
		return m.personal.Focus()

	case registration.StepProfessional:
		m.services.Choose(string(form.ServiceType))
		m.syncProfessional(form)
		m.listFocus = true
		m.services.Focus()

	case registration.StepExam:
		m.loadExam(form)

	case registration.StepCertificate:
		if m.picker == nil {
			dir := m.startDir
			if form.CertificatePath != "" {
				dir = filepath.Dir(form.CertificatePath)
			}
			m.picker = tui.NewFilePicker(dir, registration.CertificateExtensions)
			if m.height > 0 {
				m.picker.SetHeight(min(max(m.height-18, 5), 16))
			}
		}
		if err := m.picker.Err(); err != nil {
			m.stepErr = err.Error()
		}

	case registration.StepReview:
		m.showRequest = false
		m.refreshReview()
		m.review.GotoTop()
	}
	return nil
}

func (m *Model) syncPersonal(f registration.FormData) {
	m.personal.Field(fieldName).SetValue(f.Name)
	m.personal.Field(fieldEmail).SetValue(f.Email)
	m.personal.Field(fieldPhone).SetValue(f.Phone)
	m.personal.Field(fieldAddress).SetValue(f.Address)
}

func (m *Model) syncProfessional(f registration.FormData) {
	// Untouched numeric fields stay empty so placeholders show.
	if f.Experience != 0 || m.professional.Field(fieldExperience).Value() != "" {
		m.professional.Field(fieldExperience).SetValue(strconv.Itoa(f.Experience))
	}
	if f.HourlyRate != 0 {
		m.professional.Field(fieldHourlyRate).SetValue(strconv.FormatFloat(f.HourlyRate, 'f', -1, 64))
	}
	m.professional.Field(fieldWorkingFrom).SetValue(f.WorkingFrom)
	m.professional.Field(fieldWorkingTo).SetValue(f.WorkingTo)
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
	m.ctrl.ApplyFrom(msg.tok, registration.ApplyProfile(*msg.profile))
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
	var patch func(*registration.FormData)
	switch changed {
	case fieldName:
		patch = registration.SetName(value)
	case fieldEmail:
		patch = registration.SetEmail(value)
	case fieldPhone:
		patch = registration.SetPhone(value)
	case fieldAddress:
		patch = registration.SetAddress(value)
	}
	if patch != nil {
		_ = m.ctrl.Apply(patch)
	}
	m.stepErr = ""
	return cmd
}

// professionalOrder is the tab order on the professional step; "" is the
// service type list.
var professionalOrder = []string{"", fieldExperience, fieldHourlyRate, fieldWorkingFrom, fieldWorkingTo}

func (m *Model) professionalFocus() int {
	if m.listFocus {
		return 0
	}
	if f := m.professional.Focused(); f != nil {
		for i, key := range professionalOrder {
			if key == f.Key {
				return i
			}
		}
	}
	return 0
}

func (m *Model) focusProfessional(i int) tea.Cmd {
	i = (i + len(professionalOrder)) % len(professionalOrder)
	if i == 0 {
		m.listFocus = true
		m.professional.Blur()
		m.services.Focus()
		return nil
	}
	m.listFocus = false
	m.services.Blur()
	return m.professional.FocusKey(professionalOrder[i])
}

func (m *Model) keyProfessional(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "tab":
		return m.focusProfessional(m.professionalFocus() + 1)
	case "shift+tab":
		return m.focusProfessional(m.professionalFocus() - 1)
	}

	if m.listFocus {
		opt, ok := m.services.Update(msg)
		if !ok {
			return nil
		}
		st, err := api.ParseServiceType(opt.Value)
		if err != nil {
			m.stepErr = err.Error()
			return nil
		}
		_ = m.ctrl.Apply(registration.SetServiceType(st))
		m.stepErr = ""
		return m.focusProfessional(1)
	}

	if msg.String() == "enter" {
		return m.next()
	}
	cmd, changed := m.professional.Update(msg)
	if changed == "" {
		return cmd
	}
	field := m.professional.Field(changed)
	value := field.Value()
	switch changed {
	case fieldExperience:
		years := 0
		if value != "" {
			n, err := strconv.Atoi(value)
			if err != nil {
				field.SetError("enter a whole number of years")
				n = -1
			}
			years = n
		}
		_ = m.ctrl.Apply(registration.SetExperience(years))
	case fieldHourlyRate:
		rate := 0.0
		if value != "" {
			n, err := strconv.ParseFloat(value, 64)
			if err != nil {
				field.SetError("enter a number")
				n = 0
			}
			rate = n
		}
		_ = m.ctrl.Apply(registration.SetHourlyRate(rate))
	case fieldWorkingFrom, fieldWorkingTo:
		_ = m.ctrl.Apply(registration.SetWorkingHours(
			m.professional.Field(fieldWorkingFrom).Value(),
			m.professional.Field(fieldWorkingTo).Value(),
		))
	}
	m.stepErr = ""
	return cmd
}

// loadExam builds one option list per question of the chosen trade.
func (m *Model) loadExam(f registration.FormData) {
	m.questions = registration.Questions(f.ServiceType)
	m.answers = make([]*tui.OptionList, len(m.questions))
	for i, q := range m.questions {
		opts := make([]tui.Option, len(q.Options))
		for j, o := range q.Options {
			opts[j] = tui.Option{Value: o, Label: o}
		}
		l := tui.NewOptionList(opts)
		if i < len(f.ExamAnswers) {
			l.Choose(f.ExamAnswers[i])
		}
		m.answers[i] = l
	}
	m.examCursor = 0
	for i := range m.questions {
		if i >= len(f.ExamAnswers) || f.ExamAnswers[i] == "" {
			m.examCursor = i
			break
		}
	}
	if len(m.answers) > 0 {
		m.answers[m.examCursor].Focus()
	}
}

func (m *Model) focusQuestion(i int) {
	if len(m.answers) == 0 {
		return
	}
	m.answers[m.examCursor].Blur()
	m.examCursor = (i + len(m.answers)) % len(m.answers)
	m.answers[m.examCursor].Focus()
}

func (m *Model) keyExam(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "tab":
		m.focusQuestion(m.examCursor + 1)
		return nil
	case "shift+tab":
		m.focusQuestion(m.examCursor - 1)
		return nil
	case "s":
		return m.submitExam()
	}
	if len(m.answers) == 0 {
		return nil
	}
	opt, ok := m.answers[m.examCursor].Update(msg)
	if !ok {
		return nil
	}
	_ = m.ctrl.Apply(registration.Answer(m.examCursor, opt.Value))
	m.stepErr = ""
	if m.examCursor < len(m.answers)-1 {
		m.focusQuestion(m.examCursor + 1)
	}
	return nil
}

func (m *Model) submitExam() tea.Cmd {
	f := m.ctrl.Form()
	if !registration.AllAnswered(m.questions, f.ExamAnswers) {
		m.stepErr = "answer every question"
		return nil
	}
	_ = m.ctrl.Apply(registration.SubmitExam(m.threshold))
	f = m.ctrl.Form()
	m.stepErr = ""
	kind := tui.ToastSuccess
	result := "passed"
	if !f.Pass {
		kind = tui.ToastInfo
		result = "not passed"
	}
	return m.toast.Show(fmt.Sprintf("Score %d/%d, %s", f.Score, len(m.questions), result), kind)
}

func (m *Model) handleFileSelected(msg tui.FileSelectedMsg) tea.Cmd {
	if m.ctrl.StepName(m.ctrl.Current()) != registration.StepCertificate {
		return nil
	}
	if err := m.ctrl.Apply(registration.SetCertificate(msg.Path)); err != nil {
		return nil
	}
	m.stepErr = ""
	m.certErr = ""
	if err := registration.CheckCertificate(msg.Path); err != nil {
		var verr *wizard.ValidationError
		if errors.As(err, &verr) {
			m.certErr = verr.Message
		} else {
			m.certErr = err.Error()
		}
		return nil
	}
	return m.toast.Show("Selected "+filepath.Base(msg.Path), tui.ToastInfo)
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
			st, err := submit(tok.Context(), form)
			return submitDoneMsg{tok: tok, status: st, err: err}
		},
		m.spinner.Tick(),
	)
}

func (m *Model) handleSubmitDone(msg submitDoneMsg) tea.Cmd {
	err := m.ctrl.FinishSubmit(msg.tok, msg.status, msg.err)
	if errors.Is(err, wizard.ErrStaleToken) {
		return nil
	}
	if err != nil {
		if auth.IsAuthError(err) {
			return m.fail(err)
		}
		logger.Warn("registration submission failed: %v", err)
		m.stepErr = api.UserMessage(err)
		return m.toast.Show("Registration failed: "+api.UserMessage(err), tui.ToastError)
	}
	st := msg.status
	m.last = &st
	return m.toast.Show("Registration submitted", tui.ToastSuccess)
}
