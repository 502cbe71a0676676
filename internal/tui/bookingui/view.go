package bookingui

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/mark3labs/handyhire/internal/booking"
	"github.com/mark3labs/handyhire/internal/tui"
	"github.com/mark3labs/handyhire/internal/tui/theme"
	"github.com/mark3labs/handyhire/internal/wizard"
)

const title = "Book a service"

// View renders the active step, or the confirmation once booked.
func (m *Model) View() tea.View {
	if m.quitting {
		return tui.Screen(0, 0, "", "")
	}
	return tui.Screen(m.width, m.height, m.render(), m.toast.View(m.width))
}

func (m *Model) render() string {
	if conf, ok := m.Confirmation(); ok {
		return m.renderConfirmation(conf)
	}

	current := m.ctrl.Current()
	names := make([]string, m.ctrl.Len())
	for i := range names {
		names[i] = m.ctrl.StepName(i + 1)
	}
	submitting := m.ctrl.State() == wizard.Submitting

	page := tui.Page{
		Title:   title,
		Stepper: tui.RenderStepper(names, current, tui.ModalContentWidth),
		Body:    m.renderStep(),
		Error:   m.stepErr,
		Buttons: tui.NavButtons(current, len(names), m.busy()),
		Hints:   m.hints(),
	}
	if submitting {
		page.Body += "\n\n" + m.spinner.Loading("Submitting booking…")
	}
	return page.Render(m.width)
}

func (m *Model) renderStep() string {
	s := theme.Current().S()
	f := m.ctrl.Form()

	switch m.ctrl.StepName(m.ctrl.Current()) {
	case booking.StepPersonal:
		if m.loading {
			return m.spinner.Loading("Loading your profile…")
		}
		return m.personal.View()

	case booking.StepService:
		return s.Subtitle.Render("What do you need help with?") + "\n\n" + m.services.View()

	case booking.StepProvider:
		if m.loading {
			return m.spinner.Loading(fmt.Sprintf("Finding %ss…", strings.ToLower(string(f.ServiceType))))
		}
		return s.Subtitle.Render(fmt.Sprintf("Available %ss", strings.ToLower(string(f.ServiceType)))) +
			"\n\n" + m.providers.View()

	case booking.StepSchedule:
		var b strings.Builder
		if f.Provider != nil {
			b.WriteString(s.Muted.Render(fmt.Sprintf("%s works %s to %s", f.Provider.Name, f.Provider.WorkingFrom, f.Provider.WorkingTo)))
			b.WriteString("\n\n")
		}
		b.WriteString(m.dateField.View())
		b.WriteString("\n\n")
		label := s.Label
		if m.slotFocus {
			label = s.LabelActive
		}
		b.WriteString(label.Render("Time slot"))
		b.WriteString("\n")
		b.WriteString(m.slots.View())
		if m.slotErr != "" {
			b.WriteString("\n")
			b.WriteString(s.FieldError.Render("  " + m.slotErr))
		}
		return b.String()

	case booking.StepReview:
		return m.review.View()
	}
	return ""
}

func (m *Model) hints() string {
	switch m.ctrl.StepName(m.ctrl.Current()) {
	case booking.StepPersonal:
		return tui.HintForm(true)
	case booking.StepService:
		return tui.HintList()
	case booking.StepProvider:
		return tui.RenderHintBar(tui.KeyUpDownJK, "move", tui.KeyEnter, "choose", "r", "reload", tui.KeyEsc, "back")
	case booking.StepSchedule:
		return tui.RenderHintBar(tui.KeyTab, "date/slot", tui.KeyEnter, "choose", tui.KeyCtrlN, "next step", tui.KeyEsc, "back")
	case booking.StepReview:
		return tui.HintReview()
	}
	return ""
}

// refreshReview fills the review viewport with either the summary table or
// the highlighted request body.
func (m *Model) refreshReview() {
	f := m.ctrl.Form()
	if m.showRequest {
		body, err := json.MarshalIndent(f.Order(), "", "  ")
		if err != nil {
			m.review.SetContent(err.Error())
			return
		}
		m.review.SetContent(tui.Highlight(string(body), "order.json"))
		return
	}
	m.review.SetContent(tui.RenderMarkdown(reviewTable(f), m.review.Width()))
}

func reviewTable(f booking.FormData) string {
	return tui.MarkdownTable([2]string{"Field", "Value"}, [][2]string{
		{"Name", f.Name},
		{"Phone", f.Phone},
		{"Address", f.Address},
		{"Service", string(f.ServiceType)},
		{"Provider", f.ProviderName()},
		{"Date", f.BookingDate.String()},
		{"Time slot", f.TimeSlot},
		{"Rate", "Rs. " + strconv.FormatFloat(f.RateCharge, 'f', 2, 64) + " / hour"},
	})
}

func (m *Model) renderConfirmation(c booking.Confirmation) string {
	s := theme.Current().S()
	var b strings.Builder
	b.WriteString(s.Success.Render("✓ Booking confirmed"))
	b.WriteString("\n\n")
	b.WriteString(s.Label.Render("Booking ID  "))
	if c.BookingID != "" {
		b.WriteString(s.Value.Render(c.BookingID))
	} else {
		b.WriteString(s.Warning.Render("not returned, see your bookings on the website"))
	}
	if c.Message != "" {
		b.WriteString("\n\n")
		b.WriteString(s.Muted.Render(c.Message))
	}
	if c.ReceiptPath != "" {
		b.WriteString("\n\n")
		b.WriteString(s.Label.Render("Receipt     "))
		b.WriteString(s.Value.Render(c.ReceiptPath))
	}
	page := tui.Page{
		Title: title,
		Body:  b.String(),
		Hints: tui.RenderHintBar(tui.KeyEnter, "done"),
	}
	return page.Render(m.width)
}
