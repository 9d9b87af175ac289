package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/fleetassist/internal/command"
	"github.com/jask/fleetassist/internal/conversation"
	"github.com/jask/fleetassist/internal/fixture"
	"github.com/jask/fleetassist/internal/workflow"
)

const (
	chatWidth      = 46
	transcriptTail = 8
)

var vehicleNames = map[command.VehicleType]string{
	command.VehicleLight:       "Light commercial vehicles",
	command.VehicleHeavy:       "Heavy trucks",
	command.VehicleSpecialized: "Specialized vehicles",
}

func (a *App) View() string {
	header := a.renderHeader()
	chat := panelStyle.Width(chatWidth).Render(a.renderChat())
	canvas := panelStyle.Render(a.renderCanvas())
	body := lipgloss.JoinHorizontal(lipgloss.Top, chat, canvas)
	out := header + "\n" + body + "\n" + a.renderFooter()
	if a.modal != modalNone {
		out += "\n\n" + a.renderEditModal()
	}
	return out
}

func (a *App) renderHeader() string {
	title := titleStyle.Render("Fleet Assistant — " + a.cfg.UI.CompanyName)
	p := a.engine.Progress()
	if p.Total == 0 {
		return title
	}
	dots := progressDoneStyle.Render(strings.Repeat("●", p.Step)) +
		progressTodoStyle.Render(strings.Repeat("○", p.Total-p.Step))
	return title + "  " + dots + " " + progressCurrentStyle.Render(p.Name)
}

func (a *App) renderChat() string {
	var b strings.Builder

	turns := a.log.Turns()
	if len(turns) > transcriptTail {
		turns = turns[len(turns)-transcriptTail:]
	}
	if len(turns) == 0 {
		b.WriteString(assistantStyle.Render("Hi! What would you like to do today?"))
		b.WriteString("\n")
	}
	bodyWidth := chatWidth - 4
	for _, turn := range turns {
		if turn.Speaker == conversation.SpeakerUser {
			b.WriteString(speakerStyle.Render("You") + "\n")
			b.WriteString(userStyle.Width(bodyWidth).Render(turn.Body) + "\n")
		} else {
			b.WriteString(speakerStyle.Render(a.cfg.UI.AssistantTag) + "\n")
			b.WriteString(assistantStyle.Width(bodyWidth).Render(turn.Body) + "\n")
		}
		if len(turn.Cards) > 0 {
			b.WriteString(renderCards(turn.Cards) + "\n")
		}
	}

	if actions := a.currentActions(); len(actions) > 0 {
		b.WriteString("\n")
		for i, act := range actions {
			b.WriteString(actionStyle.Render(fmt.Sprintf("[%d] %s", i+1, act.Label)) + "\n")
		}
	}
	if a.feedbackOffered() {
		b.WriteString(footerStyle.Render("Was this helpful?  [y] yes  [n] no") + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderCards(cards []conversation.StatusCard) string {
	rendered := make([]string, 0, len(cards))
	for _, c := range cards {
		style := cardOrangeStyle
		if c.Tone == conversation.ToneGreen {
			style = cardGreenStyle
		}
		rendered = append(rendered, style.Render(fmt.Sprintf("%d\n%s", c.Count, c.Label)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (a *App) renderCanvas() string {
	switch a.engine.Canvas().Kind {
	case workflow.CanvasFormPreview:
		return a.renderFormPreview()
	case workflow.CanvasUploadZone:
		return a.renderUploadZone()
	case workflow.CanvasUploadProgress:
		return fmt.Sprintf("Uploading %s...", a.engine.Canvas().FileName)
	case workflow.CanvasAnalyzing:
		return "Analyzing your form..."
	case workflow.CanvasPublishing:
		return "Publishing your inspection form..."
	case workflow.CanvasSuccess:
		return statusReadyStyle.Render("✓") + " Inspection form published"
	case workflow.CanvasRoster:
		return a.renderRoster()
	}
	return footerStyle.Render("Pick a task to get started.")
}

func (a *App) renderFormPreview() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Inspection form preview") + "\n")
	if name, ok := vehicleNames[a.engine.Answers().Vehicle]; ok {
		b.WriteString(footerStyle.Render(name) + "\n")
	}
	layout := "Mark defects only"
	marker := "✗"
	if a.engine.Layout() == command.LayoutSubmitAllItems {
		layout = "Submit all items"
		marker = "[ ]"
	}
	b.WriteString(footerStyle.Render("Layout: "+layout+"  (l to switch)") + "\n\n")
	for _, cat := range a.engine.Categories() {
		b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(colorText).Render(cat.Name) + "\n")
		for _, item := range cat.Items {
			b.WriteString(fmt.Sprintf("  %s %s\n", marker, item))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (a *App) renderUploadZone() string {
	format := "PDF"
	if a.engine.Answers().Format == command.FormatImage {
		format = "image"
	}
	return titleStyle.Render("Upload your form") + "\n\n" +
		fmt.Sprintf("Drop a %s file here.\nPress u to upload a sample file.", format)
}

func (a *App) renderRoster() string {
	var b strings.Builder
	b.WriteString(a.search.View() + "\n")
	b.WriteString(a.table.View() + "\n")

	first, last, total := a.roster.PageBounds()
	if total == 0 {
		query := a.roster.Query()
		line := "No drivers match."
		if hint := a.roster.Suggest(query); hint != "" {
			line = fmt.Sprintf("No drivers match %q. Did you mean %q?", query, hint)
		}
		b.WriteString(footerStyle.Render(line) + "\n")
	} else {
		b.WriteString(footerStyle.Render(fmt.Sprintf("Showing %d-%d of %d · page %d/%d",
			first, last, total, a.roster.CurrentPage(), a.roster.TotalPages())) + "\n")
	}
	b.WriteString("\n" + a.renderSummaryChart())
	return strings.TrimRight(b.String(), "\n")
}

// renderSummaryChart draws the per-bucket totals for the full roster,
// ignoring the active filter.
func (a *App) renderSummaryChart() string {
	c := a.roster.Counts()
	bc := barchart.New(30, 6)
	bc.Push(barchart.BarData{
		Label:  "Ready",
		Values: []barchart.BarValue{{Name: "Ready", Value: float64(c.Ready), Style: statusReadyStyle}},
	})
	bc.Push(barchart.BarData{
		Label:  "AI fix",
		Values: []barchart.BarValue{{Name: "AI fix", Value: float64(c.AiFixable), Style: statusAiFixStyle}},
	})
	bc.Push(barchart.BarData{
		Label:  "Manual",
		Values: []barchart.BarValue{{Name: "Manual", Value: float64(c.ManualFix), Style: statusManualStyle}},
	})
	bc.Draw()
	return bc.View()
}

func (a *App) renderFooter() string {
	var help string
	switch {
	case a.modal != modalNone:
		help = "tab next field · space toggle · enter save · esc cancel"
	case a.searchFocused:
		help = "enter apply · esc cancel"
	case a.engine.Canvas().Kind == workflow.CanvasRoster:
		help = "/ search · a AI fix all · f fix · e edit · ↑/↓ row · ←/→ page · q quit"
	case a.engine.Canvas().Kind == workflow.CanvasFormPreview:
		help = "1-9 choose · l toggle layout · q quit"
	default:
		help = "1-9 choose · q quit"
	}
	out := footerStyle.Render(help)
	if a.errMsg != "" {
		out += "\n" + errorStyle.Render(a.errMsg)
	} else if a.status != "" {
		out += "\n" + statusStyle.Render(a.status)
	}
	if a.cfg.UI.Announce && a.flash != nil && a.flash.Text() != "" {
		out += "\n" + statusStyle.Render(a.flash.Text())
	}
	return out
}

func (a *App) renderEditModal() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Edit driver — "+a.editName) + "\n\n")

	marker := func(field int) string {
		if a.editCursor == field {
			return "▶"
		}
		return " "
	}
	check := func(on bool) string {
		if on {
			return "[x]"
		}
		return "[ ]"
	}

	b.WriteString(fmt.Sprintf("%s Email: %s\n", marker(editFieldEmail), a.editEmail.View()))
	b.WriteString(fmt.Sprintf("%s %s Mobile access\n", marker(editFieldMobile), check(a.editMobile)))
	for i, fleet := range fixture.Fleets {
		field := editFieldFirstFleet + i
		b.WriteString(fmt.Sprintf("%s %s %s\n", marker(field), check(a.editGroups[fleet]), fleet))
	}
	b.WriteString("\n[enter] Save  [esc] Cancel")
	return modalStyle.Render(b.String())
}
