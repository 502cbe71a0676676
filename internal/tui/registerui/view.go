package registerui

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/mark3labs/handyhire/internal/registration"
	"github.com/mark3labs/handyhire/internal/tui"
	"github.com/mark3labs/handyhire/internal/tui/theme"
	"github.com/mark3labs/handyhire/internal/wizard"
)

const title = "Register as a service provider"

// View renders the active step, or the status panel after submission.
func (m *Model) View() tea.View {
	if m.quitting {
		return tui.Screen(0, 0, "", "")
	}
	return tui.Screen(m.width, m.height, m.render(), m.toast.View(m.width))
}

func (m *Model) render() string {
	if m.Submitted() && m.last != nil {
		return m.renderStatus(*m.last)
	}

	current := m.ctrl.Current()
	names := make([]string, m.ctrl.Len())
	for i := range names {
		names[i] = m.ctrl.StepName(i + 1)
	}

	page := tui.Page{
		Title:   title,
		Stepper: tui.RenderStepper(names, current, tui.ModalContentWidth),
		Body:    m.renderStep(),
		Error:   m.stepErr,
		Buttons: tui.NavButtons(current, len(names), m.busy()),
		Hints:   m.hints(),
	}
	if m.ctrl.State() == wizard.Submitting {
		page.Body += "\n\n" + m.spinner.Loading("Submitting registration…")
	}
	return page.Render(m.width)
}

func (m *Model) renderStep() string {
	s := theme.Current().S()
	f := m.ctrl.Form()

	switch m.ctrl.StepName(m.ctrl.Current()) {
	case registration.StepPersonal:
		if m.loading {
			return m.spinner.Loading("Loading your profile…")
		}
		return m.personal.View()

	case registration.StepProfessional:
		label := s.Label
		if m.listFocus {
			label = s.LabelActive
		}
		return label.Render("Service type") + "\n" + m.services.View() + "\n\n" + m.professional.View()

	case registration.StepExam:
		return m.renderExam(f)

	case registration.StepCertificate:
		var b strings.Builder
		b.WriteString(s.Subtitle.Render("Choose your licence or training certificate (PDF, JPG or PNG, up to 5 MB)"))
		b.WriteString("\n\n")
		b.WriteString(m.picker.View(m.contentWidth()))
		if f.CertificatePath != "" {
			b.WriteString("\n\n")
			b.WriteString(s.Label.Render("Selected  "))
			b.WriteString(s.Value.Render(filepath.Base(f.CertificatePath)))
		}
		if m.certErr != "" {
			b.WriteString("\n")
			b.WriteString(s.FieldError.Render("  " + m.certErr))
		}
		return b.String()

	case registration.StepReview:
		return m.review.View()
	}
	return ""
}

// renderExam shows every prompt with its answer mark and expands the options
// of the focused question only.
func (m *Model) renderExam(f registration.FormData) string {
	s := theme.Current().S()
	var b strings.Builder
	for i, q := range m.questions {
		answer := ""
		if i < len(f.ExamAnswers) {
			answer = f.ExamAnswers[i]
		}
		prompt := fmt.Sprintf("%d. %s", i+1, q.Prompt)
		if i == m.examCursor {
			b.WriteString(s.LabelActive.Render(prompt))
		} else {
			b.WriteString(s.Label.Render(prompt))
		}
		if answer != "" {
			if q.IsCorrect(answer) {
				b.WriteString(" " + s.Success.Render("✓"))
			} else {
				b.WriteString(" " + s.Error.Render("✗"))
			}
		}
		b.WriteString("\n")
		switch {
		case i == m.examCursor:
			b.WriteString(m.answers[i].View())
			b.WriteString("\n")
		case answer != "":
			b.WriteString(s.Muted.Render("   " + answer))
			b.WriteString("\n")
		}
	}
	if f.ExamSubmitted {
		result := s.Success.Render("passed")
		if !f.Pass {
			result = s.Warning.Render("not passed")
		}
		b.WriteString("\n")
		b.WriteString(s.Value.Render(fmt.Sprintf("Score %d/%d ", f.Score, len(m.questions))))
		b.WriteString(result)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) hints() string {
	switch m.ctrl.StepName(m.ctrl.Current()) {
	case registration.StepPersonal:
		return tui.HintForm(true)
	case registration.StepProfessional:
		return tui.HintForm(false)
	case registration.StepExam:
		return tui.RenderHintBar(tui.KeyTab, "next question", tui.KeyEnter, "answer", "s", "submit answers", tui.KeyCtrlN, "next step", tui.KeyEsc, "back")
	case registration.StepCertificate:
		return tui.RenderHintBar(tui.KeyUpDownJK, "move", tui.KeyEnter, "open/select", "backspace", "up a folder", tui.KeyCtrlN, "next step")
	case registration.StepReview:
		return tui.HintReview()
	}
	return ""
}

// refreshReview fills the review viewport with the summary table, plus the
// changes since the last submission when editing, or with the request
// preview.
func (m *Model) refreshReview() {
	f := m.ctrl.Form()
	if m.showRequest {
		m.review.SetContent(tui.Highlight(requestPreview(f), "request.yaml"))
		return
	}
	content := tui.RenderMarkdown(reviewTable(f), m.review.Width())
	if m.last != nil {
		if diff := registration.Changes(m.last.Snapshot, f); diff != "" {
			s := theme.Current().S()
			content += "\n\n" + s.Subtitle.Render("Changes since last submission") + "\n" + tui.RenderDiff(diff)
		}
	}
	m.review.SetContent(content)
}

func reviewTable(f registration.FormData) string {
	cert := ""
	if f.CertificatePath != "" {
		cert = filepath.Base(f.CertificatePath)
	}
	result := "not passed"
	if f.Pass {
		result = "passed"
	}
	return tui.MarkdownTable([2]string{"Field", "Value"}, [][2]string{
		{"Name", f.Name},
		{"Email", f.Email},
		{"Phone", f.Phone},
		{"Address", f.Address},
		{"Service type", string(f.ServiceType)},
		{"Experience", strconv.Itoa(f.Experience) + " years"},
		{"Hourly rate", "Rs. " + strconv.FormatFloat(f.HourlyRate, 'f', 2, 64)},
		{"Working hours", f.WorkingFrom + " to " + f.WorkingTo},
		{"Assessment", fmt.Sprintf("%d/%d, %s", f.Score, len(registration.Questions(f.ServiceType)), result)},
		{"Certificate", cert},
	})
}

// requestPreview lists the multipart fields as they will be sent.
func requestPreview(f registration.FormData) string {
	req := f.Request()
	var b strings.Builder
	for _, field := range req.Fields() {
		fmt.Fprintf(&b, "%s: %q\n", field[0], field[1])
	}
	if req.CertificatePath != "" {
		fmt.Fprintf(&b, "certificate: %q # file\n", filepath.Base(req.CertificatePath))
	}
	return b.String()
}

func (m *Model) renderStatus(st registration.Status) string {
	s := theme.Current().S()
	var b strings.Builder
	b.WriteString(s.Success.Render("✓ Registration submitted"))
	b.WriteString("\n\n")
	if st.Message != "" {
		b.WriteString(s.Value.Render(st.Message))
		b.WriteString("\n\n")
	}
	b.WriteString(s.Label.Render("Submitted     "))
	b.WriteString(s.Value.Render(st.SubmittedAt.Format("2006-01-02 15:04")))
	b.WriteString("\n")
	b.WriteString(s.Label.Render("Verification  "))
	b.WriteString(s.Warning.Render("pending"))
	page := tui.Page{
		Title: title,
		Body:  b.String(),
		Hints: tui.RenderHintBar("e", "edit", tui.KeyEnter, "done"),
	}
	return page.Render(m.width)
}
