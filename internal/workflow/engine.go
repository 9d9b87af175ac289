// Package workflow drives the two guided activities: building an inspection
// form and triaging driver accounts. The engine owns the ephemeral answers,
// appends scripted turns to the conversation log, and mutates the roster
// engine. Simulated latency never blocks: every pause is returned to the
// host as an epoch-stamped Token which the host schedules and feeds back
// through Resume. Tokens from an abandoned activity carry a stale epoch and
// are dropped.
package workflow

import (
	"errors"
	"time"

	"github.com/jask/fleetassist/internal/command"
	"github.com/jask/fleetassist/internal/conversation"
	"github.com/jask/fleetassist/internal/fixture"
	"github.com/jask/fleetassist/internal/roster"
)

// ErrInvalidTransition marks an operation fired for a step that is no
// longer current. The UI absorbs it; tests assert on it.
var ErrInvalidTransition = errors.New("operation not valid in current step")

// Kind identifies the active activity.
type Kind int

const (
	KindNone Kind = iota
	KindFormSetup
	KindDriverTriage
)

// Progress is the step/total indicator. Total 0 means no progress bar.
type Progress struct {
	Step  int
	Total int
	Name  string
}

// CanvasKind selects what the output canvas is showing.
type CanvasKind int

const (
	CanvasNone CanvasKind = iota
	CanvasUploadZone
	CanvasUploadProgress
	CanvasAnalyzing
	CanvasFormPreview
	CanvasPublishing
	CanvasSuccess
	CanvasRoster
)

// Canvas is the current output-surface state. The renderer reads it; the
// engine never reads anything back.
type Canvas struct {
	Kind     CanvasKind
	Format   command.UploadFormat
	FileName string
}

// FormAnswers are the ephemeral selections collected during form setup.
type FormAnswers struct {
	Vehicle  command.VehicleType
	Trailer  bool
	Priority command.Priority
	Format   command.UploadFormat
}

// Pacing for the scripted beats, matching the original demo.
const (
	beatShort     = 500 * time.Millisecond
	beatLong      = time.Second
	beatFeedback  = 300 * time.Millisecond
	delayFixOne   = 800 * time.Millisecond
	delayFixAll   = 2 * time.Second
	delayAnalysis = 2500 * time.Millisecond
	delayPublish  = 2500 * time.Millisecond
	delayGenerate = 3 * time.Second
	delayConvert  = 3 * time.Second
	delayUpload   = 1500 * time.Millisecond
)

// stage is a resume point inside a scripted sequence.
type stage int

const (
	stageNone stage = iota

	stageSetupGreeting
	stageSetupAskMethod
	stageBuildIntro
	stageAskVehicle
	stageAskTrailer
	stageAskPriority
	stageFormGenerated
	stageUploadIntro
	stageAskUploadFormat
	stageShowUploadZone
	stageUploadComplete
	stageUploadConverted
	stagePublished

	stageTriageGreeting
	stageTriageAnalyzing
	stageTriageSummary
	stageTriageOffer
	stageTriageGuidance
	stageFixAllProgress
	stageFixAllDone
	stageFixOneDone
	stageProgressCards
	stageNextSteps

	stageFeedbackThanks
)

// Token is an opaque delayed continuation. The host schedules it for
// Delay and passes it back to Resume unchanged.
type Token struct {
	Epoch int
	Delay time.Duration

	stage    stage
	driverID string
	count    int
	fileName string
}

// Engine is the workflow state machine. Single logical thread; no locks.
type Engine struct {
	log    *conversation.Log
	roster *roster.Engine
	seed   []roster.Driver

	epoch    int
	kind     Kind
	progress Progress
	canvas   Canvas

	answers    FormAnswers
	layout     command.FormLayout
	categories []fixture.Category

	expect map[command.Kind]bool
}

// New wires the engine to its collaborators. seed is the driver fixture the
// triage activity deep-copies at start.
func New(log *conversation.Log, ros *roster.Engine, seed []roster.Driver) *Engine {
	e := &Engine{log: log, roster: ros, seed: seed}
	e.toIdle()
	return e
}

// Kind returns the active activity.
func (e *Engine) Kind() Kind { return e.kind }

// Epoch returns the current generation counter.
func (e *Engine) Epoch() int { return e.epoch }

// Progress returns the step indicator state.
func (e *Engine) Progress() Progress { return e.progress }

// Canvas returns the output-surface state.
func (e *Engine) Canvas() Canvas { return e.canvas }

// Layout returns the chosen form preview layout.
func (e *Engine) Layout() command.FormLayout { return e.layout }

// Categories returns the active inspection category set, once generated.
func (e *Engine) Categories() []fixture.Category { return e.categories }

// Answers returns the ephemeral form-setup selections.
func (e *Engine) Answers() FormAnswers { return e.answers }

// WelcomeActions are the Idle-state entry cards.
func (e *Engine) WelcomeActions() []conversation.Action {
	return []conversation.Action{
		{Label: "Create an inspection form", Op: command.StartFormSetup()},
		{Label: "Invite and train drivers", Op: command.StartDriverTriage()},
	}
}

func (e *Engine) toIdle() {
	e.kind = KindNone
	e.progress = Progress{}
	e.canvas = Canvas{}
	e.answers = FormAnswers{}
	e.layout = ""
	e.categories = nil
	e.expectOnly(command.KindStartFormSetup, command.KindStartDriverTriage)
}

func (e *Engine) expectOnly(kinds ...command.Kind) {
	e.expect = make(map[command.Kind]bool, len(kinds))
	for _, k := range kinds {
		e.expect[k] = true
	}
}

func (e *Engine) allows(k command.Kind) bool {
	if k == command.KindFeedback {
		return true
	}
	return e.expect[k]
}

func (e *Engine) token(delay time.Duration, s stage) Token {
	return Token{Epoch: e.epoch, Delay: delay, stage: s}
}

// Dispatch routes a user operation through the single switch. It returns
// the continuations to schedule. ErrInvalidTransition and roster outcomes
// are explicit so callers and tests can assert on them; none of them is a
// user-visible failure.
func (e *Engine) Dispatch(op command.Op) ([]Token, error) {
	if !e.allows(op.Kind) {
		return nil, ErrInvalidTransition
	}
	switch op.Kind {
	case command.KindStartFormSetup:
		return e.startFormSetup(), nil
	case command.KindStartDriverTriage:
		return e.startDriverTriage(), nil
	case command.KindNewTask:
		return e.newTask(), nil

	case command.KindChooseMethod:
		return e.chooseMethod(op.Method), nil
	case command.KindChooseVehicleType:
		return e.chooseVehicleType(op.Vehicle), nil
	case command.KindChooseTrailer:
		return e.chooseTrailer(op.Trailer), nil
	case command.KindChoosePriority:
		return e.choosePriority(op.Priority), nil
	case command.KindChooseUploadFormat:
		return e.chooseUploadFormat(op.Format), nil
	case command.KindFileUploaded:
		return e.fileUploaded(op.FileName), nil
	case command.KindSwitchLayout:
		return e.switchLayout(op.Layout), nil
	case command.KindApproveForm:
		return e.approveForm(), nil
	case command.KindEditForm:
		return e.editForm(), nil

	case command.KindFixAll:
		return e.fixAll(), nil
	case command.KindFixDriver:
		return e.fixDriver(op.DriverID)
	case command.KindSaveDriver:
		return e.saveDriver(op.DriverID, op.Edit)
	case command.KindSearch:
		e.roster.ApplyFilter(op.Query)
		return nil, nil
	case command.KindGoToPage:
		e.roster.SetPage(op.Page)
		return nil, nil

	case command.KindFeedback:
		return e.feedback(op.Positive), nil
	}
	return nil, ErrInvalidTransition
}

// Resume fires a delayed continuation. Stale tokens are dropped.
func (e *Engine) Resume(t Token) []Token {
	if t.Epoch != e.epoch {
		return nil
	}
	switch t.stage {
	case stageSetupGreeting,
		stageSetupAskMethod,
		stageBuildIntro,
		stageAskVehicle,
		stageAskTrailer,
		stageAskPriority,
		stageFormGenerated,
		stageUploadIntro,
		stageAskUploadFormat,
		stageShowUploadZone,
		stageUploadComplete,
		stageUploadConverted,
		stagePublished:
		return e.resumeFormSetup(t)

	case stageTriageGreeting,
		stageTriageAnalyzing,
		stageTriageSummary,
		stageTriageOffer,
		stageTriageGuidance,
		stageFixAllProgress,
		stageFixAllDone,
		stageFixOneDone,
		stageProgressCards,
		stageNextSteps:
		return e.resumeTriage(t)

	case stageFeedbackThanks:
		e.log.Append(conversation.SpeakerAssistant,
			"Thank you for your feedback! It helps us improve the experience.")
		return nil
	}
	return nil
}

// newTask returns to the activity menu and invalidates in-flight
// continuations.
func (e *Engine) newTask() []Token {
	e.epoch++
	e.toIdle()
	return nil
}

func (e *Engine) feedback(positive bool) []Token {
	body := "Not helpful"
	if positive {
		body = "Helpful"
	}
	e.log.Append(conversation.SpeakerUser, body)
	return []Token{e.token(beatFeedback, stageFeedbackThanks)}
}
