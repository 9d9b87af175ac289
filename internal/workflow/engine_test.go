package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jask/fleetassist/internal/command"
	"github.com/jask/fleetassist/internal/conversation"
	"github.com/jask/fleetassist/internal/fixture"
	"github.com/jask/fleetassist/internal/roster"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	seed, err := fixture.Drivers()
	require.NoError(t, err)
	return New(conversation.NewLog(nil), roster.NewEngine(10), seed)
}

// drain plays every continuation immediately, in order, the way the host
// scheduler would with latency disabled.
func drain(e *Engine, toks []Token) {
	for len(toks) > 0 {
		next := toks[0]
		toks = append(toks[1:], e.Resume(next)...)
	}
}

// dispatch runs an operation and drains its continuations.
func dispatch(t *testing.T, e *Engine, op command.Op) {
	t.Helper()
	toks, err := e.Dispatch(op)
	require.NoError(t, err)
	drain(e, toks)
}

func bodies(e *Engine) []string {
	turns := e.log.Turns()
	out := make([]string, len(turns))
	for i, turn := range turns {
		out[i] = turn.Body
	}
	return out
}

func lastTurn(t *testing.T, e *Engine) conversation.Turn {
	t.Helper()
	turn, ok := e.log.Last()
	require.True(t, ok)
	return turn
}

func TestWelcomeActions(t *testing.T) {
	e := newTestEngine(t)
	actions := e.WelcomeActions()
	require.Len(t, actions, 2)
	assert.Equal(t, command.KindStartFormSetup, actions[0].Op.Kind)
	assert.Equal(t, command.KindStartDriverTriage, actions[1].Op.Kind)
	assert.Equal(t, KindNone, e.Kind())
}

func TestFormSetupBuildPath(t *testing.T) {
	e := newTestEngine(t)

	dispatch(t, e, command.StartFormSetup())
	assert.Equal(t, KindFormSetup, e.Kind())
	assert.Equal(t, []string{
		"Great! Let's create your first inspection form.",
		"How would you like to create your inspection form?",
	}, bodies(e))
	require.Len(t, lastTurn(t, e).Actions, 2)

	dispatch(t, e, command.ChooseMethod(command.MethodBuildWithAI))
	assert.Equal(t, "What type of vehicles do you need to inspect?", lastTurn(t, e).Body)
	require.Len(t, lastTurn(t, e).Actions, 3)

	dispatch(t, e, command.ChooseVehicleType(command.VehicleHeavy))
	assert.Equal(t, "Do you need to inspect trailers?", lastTurn(t, e).Body)

	dispatch(t, e, command.ChooseTrailer(true))
	assert.Equal(t, "What is your main priority for vehicle inspections?", lastTurn(t, e).Body)

	dispatch(t, e, command.ChoosePriority(command.PrioritySafety))
	assert.Equal(t, FormAnswers{
		Vehicle:  command.VehicleHeavy,
		Trailer:  true,
		Priority: command.PrioritySafety,
	}, e.Answers())
	assert.Equal(t, CanvasFormPreview, e.Canvas().Kind)
	assert.Equal(t, Progress{Step: 3, Total: 4, Name: "Form ready for review"}, e.Progress())
	assert.Equal(t, command.LayoutMarkDefectsOnly, e.Layout())
	assert.Len(t, e.Categories(), 5) // the heavy-truck catalog
	assert.Equal(t,
		"Your custom inspection form is ready! This is how it will look on your drivers' mobile devices.",
		lastTurn(t, e).Body)

	dispatch(t, e, command.ApproveForm())
	assert.Equal(t, CanvasSuccess, e.Canvas().Kind)
	assert.Equal(t, 4, e.Progress().Step)
	last := lastTurn(t, e)
	assert.Equal(t,
		"Success! Your inspection form has been published and is now active. Drivers can start using it immediately.",
		last.Body)
	assert.True(t, last.FeedbackPrompt)
	require.Len(t, last.Actions, 1)
	assert.Equal(t, command.KindNewTask, last.Actions[0].Op.Kind)

	dispatch(t, e, command.NewTask())
	assert.Equal(t, KindNone, e.Kind())
	assert.Equal(t, CanvasNone, e.Canvas().Kind)
}

func TestFormSetupUploadPath(t *testing.T) {
	e := newTestEngine(t)

	dispatch(t, e, command.StartFormSetup())
	dispatch(t, e, command.ChooseMethod(command.MethodUploadExisting))
	assert.Equal(t, "What format is your inspection form?", lastTurn(t, e).Body)

	dispatch(t, e, command.ChooseUploadFormat(command.FormatPDF))
	assert.Equal(t, CanvasUploadZone, e.Canvas().Kind)
	assert.Equal(t, command.FormatPDF, e.Canvas().Format)

	dispatch(t, e, command.FileUploaded("inspection-form.pdf"))
	assert.Contains(t, bodies(e), "Uploading inspection-form.pdf...")
	assert.Contains(t, bodies(e), "Upload complete! Analyzing your form...")
	assert.Contains(t, bodies(e),
		"Analysis complete! I found 16 inspection items across 4 categories. I've converted them into a digital format.")
	assert.Equal(t, CanvasFormPreview, e.Canvas().Kind)
	assert.Len(t, e.Categories(), 4) // converted forms land on the light catalog
}

func TestStepGating(t *testing.T) {
	e := newTestEngine(t)

	// Nothing actionable at idle besides the two entry points.
	_, err := e.Dispatch(command.ChooseTrailer(true))
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// While continuations are pending, everything is rejected.
	toks, err := e.Dispatch(command.StartFormSetup())
	require.NoError(t, err)
	_, err = e.Dispatch(command.ChooseMethod(command.MethodBuildWithAI))
	assert.ErrorIs(t, err, ErrInvalidTransition)
	drain(e, toks)

	// Only the pending question's answer is accepted.
	_, err = e.Dispatch(command.ChooseTrailer(true))
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = e.Dispatch(command.ApproveForm())
	assert.ErrorIs(t, err, ErrInvalidTransition)

	dispatch(t, e, command.ChooseMethod(command.MethodBuildWithAI))

	// Answering the same question twice: the second is stale.
	dispatch(t, e, command.ChooseVehicleType(command.VehicleLight))
	_, err = e.Dispatch(command.ChooseVehicleType(command.VehicleHeavy))
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestStaleTokenDropped(t *testing.T) {
	e := newTestEngine(t)

	toks, err := e.Dispatch(command.StartFormSetup())
	require.NoError(t, err)
	require.NotEmpty(t, toks)

	// The activity is abandoned before the continuation fires.
	e.newTask()

	assert.Empty(t, e.Resume(toks[0]))
	assert.Equal(t, 0, e.log.Len())
}

func TestSwitchLayoutIsViewOnly(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.Dispatch(command.SwitchLayout(command.LayoutSubmitAllItems))
	assert.ErrorIs(t, err, ErrInvalidTransition)

	dispatch(t, e, command.StartFormSetup())
	dispatch(t, e, command.ChooseMethod(command.MethodBuildWithAI))
	dispatch(t, e, command.ChooseVehicleType(command.VehicleLight))
	dispatch(t, e, command.ChooseTrailer(false))
	dispatch(t, e, command.ChoosePriority(command.PriorityCompliance))

	turns := e.log.Len()
	dispatch(t, e, command.SwitchLayout(command.LayoutSubmitAllItems))
	assert.Equal(t, command.LayoutSubmitAllItems, e.Layout())
	assert.Equal(t, turns, e.log.Len()) // no transcript traffic

	// The review step is still live.
	dispatch(t, e, command.ApproveForm())
	assert.Equal(t, CanvasSuccess, e.Canvas().Kind)
}

func TestEditFormOffersApproveOrRestart(t *testing.T) {
	e := newTestEngine(t)

	dispatch(t, e, command.StartFormSetup())
	dispatch(t, e, command.ChooseMethod(command.MethodBuildWithAI))
	dispatch(t, e, command.ChooseVehicleType(command.VehicleLight))
	dispatch(t, e, command.ChooseTrailer(false))
	dispatch(t, e, command.ChoosePriority(command.PriorityMaintenance))

	dispatch(t, e, command.EditForm())
	last := lastTurn(t, e)
	assert.Contains(t, last.Body, "Form editing is coming soon!")
	require.Len(t, last.Actions, 2)

	// Start over resets the transcript and invalidates the old epoch.
	before := e.Epoch()
	dispatch(t, e, command.StartFormSetup())
	assert.Greater(t, e.Epoch(), before)
	assert.Equal(t, "How would you like to create your inspection form?", lastTurn(t, e).Body)
}

func TestTriageIntroSequence(t *testing.T) {
	e := newTestEngine(t)

	dispatch(t, e, command.StartDriverTriage())
	assert.Equal(t, KindDriverTriage, e.Kind())
	assert.Equal(t, CanvasRoster, e.Canvas().Kind)
	assert.Equal(t, Progress{Step: 3, Total: 4, Name: "Analysis complete"}, e.Progress())
	assert.Equal(t, 29, e.roster.Len())

	got := bodies(e)
	require.Len(t, got, 5)
	assert.Equal(t, "Great! Let's get your drivers ready for mobile inspections.", got[0])
	assert.Equal(t, "Analyzing your current driver list...", got[1])
	assert.Equal(t,
		"I've analyzed your current driver list. Here's what needs attention before drivers can start submitting inspections:",
		got[2])
	assert.Equal(t,
		"10 of your drivers can be fixed with my help. If you want to go ahead just click AI FIX ALL DRIVERS",
		got[3])

	summary := e.log.Turns()[2]
	assert.Equal(t, []conversation.StatusCard{
		{Label: "Ready to go", Count: 7, Tone: conversation.ToneGreen},
		{Label: "Can be fixed with AI", Count: 10, Tone: conversation.ToneOrange},
		{Label: "Needs manual fix", Count: 12, Tone: conversation.ToneOrange},
	}, summary.Cards)

	offer := e.log.Turns()[3]
	require.Len(t, offer.Actions, 1)
	assert.Equal(t, "AI FIX ALL DRIVERS (10)", offer.Actions[0].Label)
	assert.Equal(t, command.KindFixAll, offer.Actions[0].Op.Kind)
}

func TestFixAllChain(t *testing.T) {
	e := newTestEngine(t)
	dispatch(t, e, command.StartDriverTriage())

	dispatch(t, e, command.FixAll())
	assert.Equal(t, roster.Counts{AiFixable: 0, ManualFix: 12, Ready: 17}, e.roster.Counts())

	got := bodies(e)
	assert.Contains(t, got, "AI FIX ALL DRIVERS (10)")
	assert.Contains(t, got, "Enabling mobile access for 10 drivers...")
	assert.Contains(t, got, "Done! I've enabled mobile access for 10 drivers. They're now ready to use the mobile app.")
	assert.Contains(t, got, "Great progress! You now have 17 drivers ready for mobile inspections.")

	last := lastTurn(t, e)
	assert.Equal(t,
		"You still have 12 drivers that need manual attention. Click EDIT DRIVERS to fix them, or start a new task when ready.",
		last.Body)
	assert.True(t, last.FeedbackPrompt)
	require.Len(t, last.Actions, 1)
	assert.Equal(t, "Start a new task", last.Actions[0].Label)

	// The AI-fixable card disappears once the bucket is empty.
	var cards []conversation.StatusCard
	for _, turn := range e.log.Turns() {
		if turn.Body == "Great progress! You now have 17 drivers ready for mobile inspections." {
			cards = turn.Cards
		}
	}
	assert.Equal(t, []conversation.StatusCard{
		{Label: "Ready to go", Count: 17, Tone: conversation.ToneGreen},
		{Label: "Needs manual fix", Count: 12, Tone: conversation.ToneOrange},
	}, cards)

	// Idempotent: the second pass has nothing to do.
	dispatch(t, e, command.FixAll())
	assert.Equal(t, "No drivers need AI fixing at this time.", lastTurn(t, e).Body)
	assert.Equal(t, roster.Counts{AiFixable: 0, ManualFix: 12, Ready: 17}, e.roster.Counts())
}

func TestFixDriverChain(t *testing.T) {
	e := newTestEngine(t)
	dispatch(t, e, command.StartDriverTriage())

	dispatch(t, e, command.FixDriver("D002"))
	assert.Equal(t, "Enabled mobile access for Mike Smith. They're now ready to use the mobile app!", lastTurn(t, e).Body)
	assert.Equal(t, roster.Counts{AiFixable: 9, ManualFix: 12, Ready: 8}, e.roster.Counts())

	_, err := e.Dispatch(command.FixDriver("D999"))
	assert.ErrorIs(t, err, roster.ErrNotFound)
	_, err = e.Dispatch(command.FixDriver("D001"))
	assert.ErrorIs(t, err, roster.ErrNotFixable)
	_, err = e.Dispatch(command.FixDriver("D002"))
	assert.ErrorIs(t, err, roster.ErrNotFixable)
}

func TestFixLastDriverShowsSummary(t *testing.T) {
	e := newTestEngine(t)
	dispatch(t, e, command.StartDriverTriage())

	for _, d := range e.roster.SortedView() {
		if d.Status() == roster.StatusAiFixable && d.ID != "D024" {
			require.NoError(t, e.roster.FixOne(d.ID))
		}
	}

	dispatch(t, e, command.FixDriver("D024"))
	got := bodies(e)
	assert.Contains(t, got, "Enabled mobile access for Amanda White. They're now ready to use the mobile app!")
	assert.Contains(t, got, "Great progress! You now have 17 drivers ready for mobile inspections.")
	assert.Contains(t, got,
		"You still have 12 drivers that need manual attention. Click EDIT DRIVERS to fix them, or start a new task when ready.")
}

func TestSaveDriver(t *testing.T) {
	e := newTestEngine(t)
	dispatch(t, e, command.StartDriverTriage())
	turns := e.log.Len()

	dispatch(t, e, command.SaveDriver("D003", command.DriverEdit{
		Email:         "sarah.johnson@company.com",
		MobileAccess:  true,
		VehicleGroups: []string{"Fleet A"},
	}))
	assert.Equal(t, "Updated Sarah Johnson. Changes have been saved.", lastTurn(t, e).Body)
	assert.Equal(t, turns+1, e.log.Len()) // no completion chain while work remains

	// The locked account still needs manual attention.
	d, _ := e.roster.Get("D003")
	assert.Equal(t, roster.StatusManualFixRequired, d.Status())

	_, err := e.Dispatch(command.SaveDriver("D999", command.DriverEdit{Email: "x@y.co"}))
	assert.ErrorIs(t, err, roster.ErrNotFound)
}

func TestTriageCompletionAfterLastEdit(t *testing.T) {
	seed := []roster.Driver{
		{ID: "T1", Name: "Ada One", DisplayID: "#101", Email: "ada.one@company.com",
			MobileAccess: false, VehicleGroups: []string{"Fleet A"}},
		{ID: "T2", Name: "Ben Two", DisplayID: "#102", Email: "",
			MobileAccess: true, VehicleGroups: []string{"Fleet B"}},
		{ID: "T3", Name: "Cal Three", DisplayID: "#103", Email: "cal.three@company.com",
			MobileAccess: true, VehicleGroups: []string{"Fleet C"}},
	}
	e := New(conversation.NewLog(nil), roster.NewEngine(10), seed)

	dispatch(t, e, command.StartDriverTriage())
	dispatch(t, e, command.FixAll())

	dispatch(t, e, command.SaveDriver("T2", command.DriverEdit{
		Email:         "ben.two@company.com",
		MobileAccess:  true,
		VehicleGroups: []string{"Fleet B"},
	}))

	got := bodies(e)
	assert.Contains(t, got, "Updated Ben Two. Changes have been saved.")
	assert.Contains(t, got, "Excellent! All 3 drivers are now ready for mobile inspections.")
	assert.Equal(t, "You can now start training your drivers or proceed with other tasks.", lastTurn(t, e).Body)
	assert.True(t, lastTurn(t, e).FeedbackPrompt)
}

func TestSearchAndPagingDuringTriage(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.Dispatch(command.Search("john"))
	assert.ErrorIs(t, err, ErrInvalidTransition)

	dispatch(t, e, command.StartDriverTriage())

	dispatch(t, e, command.Search("john"))
	assert.Equal(t, "john", e.roster.Query())
	assert.Len(t, e.roster.SortedView(), 2) // John Doe, Sarah Johnson

	dispatch(t, e, command.Search(""))
	dispatch(t, e, command.GoToPage(99))
	assert.Equal(t, 3, e.roster.CurrentPage())
}

func TestNewTaskAbandonsTriage(t *testing.T) {
	e := newTestEngine(t)
	dispatch(t, e, command.StartDriverTriage())
	dispatch(t, e, command.FixAll())

	toks, err := e.Dispatch(command.Feedback(true))
	require.NoError(t, err)

	dispatch(t, e, command.NewTask())
	assert.Equal(t, KindNone, e.Kind())
	assert.Empty(t, e.Resume(toks[0])) // pending thanks is stale now

	// The transcript survives until the next activity starts.
	assert.NotZero(t, e.log.Len())
	dispatch(t, e, command.StartDriverTriage())
	assert.Equal(t, 5, e.log.Len())
}

func TestFeedback(t *testing.T) {
	e := newTestEngine(t)
	dispatch(t, e, command.StartDriverTriage())

	dispatch(t, e, command.Feedback(true))
	got := bodies(e)
	assert.Contains(t, got, "Helpful")
	assert.Equal(t, "Thank you for your feedback! It helps us improve the experience.", lastTurn(t, e).Body)

	dispatch(t, e, command.Feedback(false))
	assert.Contains(t, bodies(e), "Not helpful")
}
