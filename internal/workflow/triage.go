package workflow

import (
	"fmt"

	"github.com/jask/fleetassist/internal/command"
	"github.com/jask/fleetassist/internal/conversation"
	"github.com/jask/fleetassist/internal/roster"
)

func (e *Engine) startDriverTriage() []Token {
	e.epoch++
	e.log.Reset()
	e.kind = KindDriverTriage
	e.canvas = Canvas{}
	e.answers = FormAnswers{}
	e.layout = ""
	e.categories = nil
	e.roster.Load(e.seed)
	e.progress = Progress{Step: 1, Total: 4, Name: "Analyzing driver list"}
	e.expectOnly()
	return []Token{e.token(beatShort, stageTriageGreeting)}
}

// expectRosterOps marks the table operations legal once the roster is on
// screen; none of them consumes a workflow step.
func (e *Engine) expectRosterOps(extra ...command.Kind) {
	kinds := []command.Kind{
		command.KindSearch,
		command.KindGoToPage,
		command.KindFixDriver,
		command.KindSaveDriver,
	}
	e.expectOnly(append(kinds, extra...)...)
}

func (e *Engine) fixAll() []Token {
	count := e.roster.Counts().AiFixable
	e.log.Append(conversation.SpeakerUser, fmt.Sprintf("AI FIX ALL DRIVERS (%d)", count))
	if count == 0 {
		e.log.Append(conversation.SpeakerAssistant, "No drivers need AI fixing at this time.")
		return nil
	}
	tok := e.token(beatShort, stageFixAllProgress)
	tok.count = count
	return []Token{tok}
}

func (e *Engine) fixDriver(id string) ([]Token, error) {
	d, ok := e.roster.Get(id)
	if !ok {
		return nil, roster.ErrNotFound
	}
	if d.Status() != roster.StatusAiFixable {
		return nil, roster.ErrNotFixable
	}
	tok := e.token(delayFixOne, stageFixOneDone)
	tok.driverID = id
	return []Token{tok}, nil
}

func (e *Engine) saveDriver(id string, edit command.DriverEdit) ([]Token, error) {
	if err := e.roster.Edit(id, edit.Email, edit.MobileAccess, edit.VehicleGroups); err != nil {
		return nil, err
	}
	d, _ := e.roster.Get(id)
	e.log.Append(conversation.SpeakerAssistant,
		fmt.Sprintf("Updated %s. Changes have been saved.", d.Name))
	return e.completionCheck(), nil
}

// completionCheck is the level-triggered terminal test, re-run after every
// roster mutation: once nothing needs manual attention and at least one
// driver is ready, the summary-and-wrap-up chain fires.
func (e *Engine) completionCheck() []Token {
	c := e.roster.Counts()
	if c.ManualFix == 0 && c.Ready > 0 {
		return []Token{e.token(beatShort, stageProgressCards)}
	}
	return nil
}

func (e *Engine) summaryCards(c roster.Counts) []conversation.StatusCard {
	cards := []conversation.StatusCard{
		{Label: "Ready to go", Count: c.Ready, Tone: conversation.ToneGreen},
	}
	if c.AiFixable > 0 {
		cards = append(cards, conversation.StatusCard{
			Label: "Can be fixed with AI", Count: c.AiFixable, Tone: conversation.ToneOrange,
		})
	}
	cards = append(cards, conversation.StatusCard{
		Label: "Needs manual fix", Count: c.ManualFix, Tone: conversation.ToneOrange,
	})
	return cards
}

func (e *Engine) resumeTriage(t Token) []Token {
	switch t.stage {
	case stageTriageGreeting:
		e.log.Append(conversation.SpeakerAssistant,
			"Great! Let's get your drivers ready for mobile inspections.")
		return []Token{e.token(beatLong, stageTriageAnalyzing)}

	case stageTriageAnalyzing:
		e.log.Append(conversation.SpeakerAssistant, "Analyzing your current driver list...")
		e.progress = Progress{Step: 2, Total: 4, Name: "Processing drivers"}
		return []Token{e.token(delayAnalysis, stageTriageSummary)}

	case stageTriageSummary:
		c := e.roster.Counts()
		e.progress = Progress{Step: 3, Total: 4, Name: "Analysis complete"}
		e.canvas = Canvas{Kind: CanvasRoster}
		e.log.Append(conversation.SpeakerAssistant,
			"I've analyzed your current driver list. Here's what needs attention before drivers can start submitting inspections:",
			conversation.WithCards(
				conversation.StatusCard{Label: "Ready to go", Count: c.Ready, Tone: conversation.ToneGreen},
				conversation.StatusCard{Label: "Can be fixed with AI", Count: c.AiFixable, Tone: conversation.ToneOrange},
				conversation.StatusCard{Label: "Needs manual fix", Count: c.ManualFix, Tone: conversation.ToneOrange},
			))
		e.expectRosterOps()
		return []Token{e.token(beatLong, stageTriageOffer)}

	case stageTriageOffer:
		c := e.roster.Counts()
		if c.AiFixable > 0 {
			e.log.Append(conversation.SpeakerAssistant,
				fmt.Sprintf("%d of your drivers can be fixed with my help. If you want to go ahead just click AI FIX ALL DRIVERS", c.AiFixable),
				conversation.WithActions(
					conversation.Action{
						Label: fmt.Sprintf("AI FIX ALL DRIVERS (%d)", c.AiFixable),
						Op:    command.FixAll(),
					},
				))
			e.expectRosterOps(command.KindFixAll)
		}
		return []Token{e.token(beatShort, stageTriageGuidance)}

	case stageTriageGuidance:
		e.log.Append(conversation.SpeakerAssistant,
			"For the others that need manual fix, go ahead and click EDIT DRIVERS. If you have questions or want to do something else, just let me know!")
		return nil

	case stageFixAllProgress:
		e.log.Append(conversation.SpeakerAssistant,
			fmt.Sprintf("Enabling mobile access for %d drivers...", t.count))
		next := e.token(delayFixAll, stageFixAllDone)
		next.count = t.count
		return []Token{next}

	case stageFixAllDone:
		fixed := e.roster.FixAll()
		e.log.Append(conversation.SpeakerAssistant,
			fmt.Sprintf("Done! I've enabled mobile access for %d drivers. They're now ready to use the mobile app.", fixed))
		return []Token{e.token(beatShort, stageProgressCards)}

	case stageFixOneDone:
		if err := e.roster.FixOne(t.driverID); err != nil {
			// The record changed while the fix was pending; drop it.
			return nil
		}
		d, _ := e.roster.Get(t.driverID)
		e.log.Append(conversation.SpeakerAssistant,
			fmt.Sprintf("Enabled mobile access for %s. They're now ready to use the mobile app!", d.Name))
		if e.roster.Counts().AiFixable == 0 {
			return []Token{e.token(beatShort, stageProgressCards)}
		}
		return nil

	case stageProgressCards:
		c := e.roster.Counts()
		body := fmt.Sprintf("Great progress! You now have %d drivers ready for mobile inspections.", c.Ready)
		if c.AiFixable == 0 && c.ManualFix == 0 {
			body = fmt.Sprintf("Excellent! All %d drivers are now ready for mobile inspections.", c.Ready)
		}
		e.log.Append(conversation.SpeakerAssistant, body,
			conversation.WithCards(e.summaryCards(c)...))
		return []Token{e.token(beatShort, stageNextSteps)}

	case stageNextSteps:
		c := e.roster.Counts()
		var body string
		switch {
		case c.ManualFix > 0:
			body = fmt.Sprintf("You still have %d drivers that need manual attention. Click EDIT DRIVERS to fix them, or start a new task when ready.", c.ManualFix)
		case c.AiFixable == 0:
			body = "You can now start training your drivers or proceed with other tasks."
		default:
			body = "All drivers are now ready! You can start a new task when ready."
		}
		e.log.Append(conversation.SpeakerAssistant, body,
			conversation.WithActions(
				conversation.Action{Label: "Start a new task", Op: command.NewTask()},
			),
			conversation.WithFeedbackPrompt(),
		)
		e.expectRosterOps(command.KindFixAll, command.KindNewTask)
		return nil
	}
	return nil
}
