// Package tui renders the assistant: a conversation panel on the left and
// an output canvas on the right. All state lives in the workflow engine and
// the conversation log; this package is a projection plus key handling.
package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jask/fleetassist/internal/command"
	"github.com/jask/fleetassist/internal/config"
	"github.com/jask/fleetassist/internal/conversation"
	"github.com/jask/fleetassist/internal/fixture"
	"github.com/jask/fleetassist/internal/roster"
	"github.com/jask/fleetassist/internal/workflow"
)

// Flash retains the most recent accessibility announcement for the status
// bar. Implements conversation.Announcer.
type Flash struct {
	text string
}

func (f *Flash) Announce(text string) { f.text = text }

// Text returns the last announcement.
func (f *Flash) Text() string { return f.text }

type modalState string

const (
	modalNone       modalState = ""
	modalEditDriver modalState = "editDriver"
)

// Edit modal field order: email, mobile access, then one row per fleet.
const (
	editFieldEmail = iota
	editFieldMobile
	editFieldFirstFleet
)

// App ties the engine, log and roster to the terminal.
type App struct {
	cfg    config.Config
	engine *workflow.Engine
	log    *conversation.Log
	roster *roster.Engine
	flash  *Flash
	keys   keyMap

	width  int
	height int
	status string
	errMsg string

	search        textinput.Model
	searchFocused bool
	table         table.Model
	pageIDs       []string

	modal      modalState
	editID     string
	editName   string
	editCursor int
	editEmail  textinput.Model
	editMobile bool
	editGroups map[string]bool
}

// New wires the app. flash may be nil when announcements are disabled.
func New(cfg config.Config, engine *workflow.Engine, log *conversation.Log, ros *roster.Engine, flash *Flash) *App {
	search := textinput.New()
	search.Placeholder = "Search drivers..."
	search.Prompt = "/ "
	search.CharLimit = 64

	email := textinput.New()
	email.Placeholder = "driver@company.com"
	email.CharLimit = 64

	tbl := table.New(
		table.WithColumns(rosterColumns()),
		table.WithFocused(true),
		table.WithHeight(ros.PageSize()+1),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).Foreground(colorAccent).BorderStyle(lipgloss.NormalBorder()).BorderForeground(colorSurface1).BorderBottom(true)
	styles.Selected = styles.Selected.Foreground(colorMantle).Background(colorLavender)
	tbl.SetStyles(styles)

	return &App{
		cfg:       cfg,
		engine:    engine,
		log:       log,
		roster:    ros,
		flash:     flash,
		keys:      defaultKeyMap(),
		search:    search,
		editEmail: email,
		table:     tbl,
	}
}

func rosterColumns() []table.Column {
	return []table.Column{
		{Title: "ID", Width: 5},
		{Title: "Driver", Width: 20},
		{Title: "Email", Width: 28},
		{Title: "Status", Width: 17},
		{Title: "Issue", Width: 24},
		{Title: "Groups", Width: 16},
	}
}

func (a *App) Init() tea.Cmd {
	return nil
}

// resumeMsg delivers a delayed workflow continuation back to the engine.
type resumeMsg struct {
	tok workflow.Token
}

// schedule turns workflow tokens into timer commands, honoring the
// configured latency scale. A zero delay fires on the next update.
func (a *App) schedule(toks []workflow.Token) tea.Cmd {
	if len(toks) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(toks))
	for _, tok := range toks {
		tok := tok
		d := a.cfg.ScaleDelay(tok.Delay)
		if d <= 0 {
			cmds = append(cmds, func() tea.Msg { return resumeMsg{tok} })
			continue
		}
		cmds = append(cmds, tea.Tick(d, func(time.Time) tea.Msg { return resumeMsg{tok} }))
	}
	return tea.Batch(cmds...)
}

func (a *App) dispatch(op command.Op) tea.Cmd {
	toks, err := a.engine.Dispatch(op)
	if err != nil {
		switch {
		case errors.Is(err, workflow.ErrInvalidTransition):
			a.errMsg = "That option is not available right now."
		case errors.Is(err, roster.ErrNotFound):
			a.errMsg = "Driver not found."
		case errors.Is(err, roster.ErrNotFixable):
			a.errMsg = "That driver does not need an AI fix."
		default:
			a.errMsg = err.Error()
		}
		return nil
	}
	a.errMsg = ""
	a.refreshRoster()
	return a.schedule(toks)
}

// refreshRoster rebuilds the table rows from the engine's current page.
func (a *App) refreshRoster() {
	if a.engine.Canvas().Kind != workflow.CanvasRoster {
		return
	}
	page := a.roster.Page()
	rows := make([]table.Row, 0, len(page))
	a.pageIDs = a.pageIDs[:0]
	for _, d := range page {
		email := d.Email
		if email == "" {
			email = "—"
		}
		issue := d.PrimaryIssue().Text
		if d.EditError != "" {
			issue = d.EditError
		}
		rows = append(rows, table.Row{
			d.DisplayID,
			ansi.Truncate(d.Name, 20, "…"),
			ansi.Truncate(email, 28, "…"),
			d.Status().String(),
			ansi.Truncate(issue, 24, "…"),
			ansi.Truncate(strings.Join(d.VehicleGroups, ", "), 16, "…"),
		})
		a.pageIDs = append(a.pageIDs, d.ID)
	}
	a.table.SetRows(rows)
	if a.table.Cursor() >= len(rows) {
		a.table.SetCursor(0)
	}
}

func (a *App) selectedDriverID() string {
	cur := a.table.Cursor()
	if cur < 0 || cur >= len(a.pageIDs) {
		return ""
	}
	return a.pageIDs[cur]
}

// currentActions are the buttons the user can press right now: the welcome
// menu at idle, otherwise the latest turn that carried actions.
func (a *App) currentActions() []conversation.Action {
	if a.engine.Kind() == workflow.KindNone {
		return a.engine.WelcomeActions()
	}
	turns := a.log.Turns()
	for i := len(turns) - 1; i >= 0; i-- {
		if len(turns[i].Actions) > 0 {
			return turns[i].Actions
		}
	}
	return nil
}

func (a *App) feedbackOffered() bool {
	turn, ok := a.log.Last()
	return ok && turn.FeedbackPrompt
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		return a, nil

	case resumeMsg:
		toks := a.engine.Resume(m.tok)
		a.refreshRoster()
		return a, a.schedule(toks)

	case tea.KeyMsg:
		if a.modal != modalNone {
			return a.handleModalKey(m)
		}
		if a.searchFocused {
			return a.handleSearchKey(m)
		}
		return a.handleKey(m)
	}
	return a, nil
}

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(m, a.keys.Quit) {
		return a, tea.Quit
	}

	// Digits activate the offered action buttons.
	if s := m.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
		actions := a.currentActions()
		idx := int(s[0] - '1')
		if idx < len(actions) {
			return a, a.dispatch(actions[idx].Op)
		}
		return a, nil
	}

	if a.feedbackOffered() {
		switch {
		case key.Matches(m, a.keys.Helpful):
			return a, a.dispatch(command.Feedback(true))
		case key.Matches(m, a.keys.NotHelp):
			return a, a.dispatch(command.Feedback(false))
		}
	}

	switch a.engine.Canvas().Kind {
	case workflow.CanvasRoster:
		return a.handleRosterKey(m)
	case workflow.CanvasFormPreview:
		if key.Matches(m, a.keys.Layout) {
			next := command.LayoutSubmitAllItems
			if a.engine.Layout() == command.LayoutSubmitAllItems {
				next = command.LayoutMarkDefectsOnly
			}
			return a, a.dispatch(command.SwitchLayout(next))
		}
	case workflow.CanvasUploadZone:
		if key.Matches(m, a.keys.Upload) {
			return a, a.dispatch(command.FileUploaded(sampleFileName(a.engine.Answers().Format)))
		}
	}
	return a, nil
}

func sampleFileName(f command.UploadFormat) string {
	if f == command.FormatImage {
		return "inspection-form.jpg"
	}
	return "inspection-form.pdf"
}

func (a *App) handleRosterKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(m, a.keys.Search):
		a.searchFocused = true
		return a, a.search.Focus()
	case key.Matches(m, a.keys.FixAll):
		return a, a.dispatch(command.FixAll())
	case key.Matches(m, a.keys.Fix):
		if id := a.selectedDriverID(); id != "" {
			return a, a.dispatch(command.FixDriver(id))
		}
		return a, nil
	case key.Matches(m, a.keys.Edit):
		if id := a.selectedDriverID(); id != "" {
			a.openEditModal(id)
		}
		return a, nil
	case key.Matches(m, a.keys.PrevPage):
		return a, a.dispatch(command.GoToPage(a.roster.CurrentPage() - 1))
	case key.Matches(m, a.keys.NextPage):
		return a, a.dispatch(command.GoToPage(a.roster.CurrentPage() + 1))
	}
	var cmd tea.Cmd
	a.table, cmd = a.table.Update(m)
	return a, cmd
}

func (a *App) handleSearchKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "esc":
		a.searchFocused = false
		a.search.Blur()
		return a, nil
	case "enter":
		a.searchFocused = false
		a.search.Blur()
		query := strings.TrimSpace(a.search.Value())
		cmd := a.dispatch(command.Search(query))
		if query != "" && len(a.roster.SortedView()) == 0 {
			if hint := a.roster.Suggest(query); hint != "" {
				a.status = fmt.Sprintf("No drivers match %q. Did you mean %q?", query, hint)
			} else {
				a.status = fmt.Sprintf("No drivers match %q.", query)
			}
		} else {
			a.status = ""
		}
		return a, cmd
	}
	var cmd tea.Cmd
	a.search, cmd = a.search.Update(m)
	return a, cmd
}

func (a *App) openEditModal(id string) {
	d, ok := a.roster.Get(id)
	if !ok {
		return
	}
	a.modal = modalEditDriver
	a.editID = d.ID
	a.editName = d.Name
	a.editCursor = editFieldEmail
	a.editEmail.SetValue(d.Email)
	a.editEmail.Focus()
	a.editMobile = d.MobileAccess
	a.editGroups = make(map[string]bool, len(fixture.Fleets))
	for _, g := range d.VehicleGroups {
		a.editGroups[g] = true
	}
}

func (a *App) closeEditModal() {
	a.modal = modalNone
	a.editID = ""
	a.editEmail.Blur()
}

func (a *App) editFieldCount() int {
	return editFieldFirstFleet + len(fixture.Fleets)
}

func (a *App) handleModalKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "esc":
		a.closeEditModal()
		return a, nil
	case "enter":
		var groups []string
		for _, fleet := range fixture.Fleets {
			if a.editGroups[fleet] {
				groups = append(groups, fleet)
			}
		}
		edit := command.DriverEdit{
			Email:         a.editEmail.Value(),
			MobileAccess:  a.editMobile,
			VehicleGroups: groups,
		}
		id := a.editID
		a.closeEditModal()
		return a, a.dispatch(command.SaveDriver(id, edit))
	case "tab", "down":
		a.moveEditCursor(1)
		return a, nil
	case "shift+tab", "up":
		a.moveEditCursor(-1)
		return a, nil
	case " ":
		switch {
		case a.editCursor == editFieldMobile:
			a.editMobile = !a.editMobile
			return a, nil
		case a.editCursor >= editFieldFirstFleet:
			fleet := fixture.Fleets[a.editCursor-editFieldFirstFleet]
			a.editGroups[fleet] = !a.editGroups[fleet]
			return a, nil
		}
	}
	if a.editCursor == editFieldEmail {
		var cmd tea.Cmd
		a.editEmail, cmd = a.editEmail.Update(m)
		return a, cmd
	}
	return a, nil
}

func (a *App) moveEditCursor(delta int) {
	n := a.editFieldCount()
	a.editCursor = (a.editCursor + delta + n) % n
	if a.editCursor == editFieldEmail {
		a.editEmail.Focus()
	} else {
		a.editEmail.Blur()
	}
}
