package workflow

import (
	"fmt"

	"github.com/jask/fleetassist/internal/command"
	"github.com/jask/fleetassist/internal/conversation"
	"github.com/jask/fleetassist/internal/fixture"
)

// vehicleLabels are the user-visible answers echoed into the transcript.
var vehicleLabels = map[command.VehicleType]string{
	command.VehicleLight:       "Light commercial vehicles",
	command.VehicleHeavy:       "Heavy Trucks",
	command.VehicleSpecialized: "Specialized vehicles (emergency, construction, special transport)",
}

var priorityLabels = map[command.Priority]string{
	command.PriorityCompliance:  "Compliance focused",
	command.PrioritySafety:      "Safety first",
	command.PriorityMaintenance: "Maintenance & uptime",
}

var formatLabels = map[command.UploadFormat]string{
	command.FormatPDF:   "PDF Document",
	command.FormatImage: "Image (JPG, PNG)",
}

func (e *Engine) startFormSetup() []Token {
	e.epoch++
	e.log.Reset()
	e.kind = KindFormSetup
	e.canvas = Canvas{}
	e.answers = FormAnswers{}
	e.layout = ""
	e.categories = nil
	e.progress = Progress{Step: 1, Total: 4, Name: "Building inspection form"}
	e.expectOnly() // nothing actionable until the first question lands
	return []Token{e.token(beatShort, stageSetupGreeting)}
}

func (e *Engine) chooseMethod(m command.CreationMethod) []Token {
	if m == command.MethodUploadExisting {
		e.log.Append(conversation.SpeakerUser, "I have an existing inspection form I want to use")
		e.expectOnly()
		return []Token{e.token(beatShort, stageUploadIntro)}
	}
	e.log.Append(conversation.SpeakerUser, "Build with AI")
	e.expectOnly()
	return []Token{e.token(beatShort, stageBuildIntro)}
}

func (e *Engine) chooseVehicleType(v command.VehicleType) []Token {
	e.log.Append(conversation.SpeakerUser, vehicleLabels[v])
	e.answers.Vehicle = v
	e.expectOnly()
	return []Token{e.token(beatShort, stageAskTrailer)}
}

func (e *Engine) chooseTrailer(needed bool) []Token {
	body := "No"
	if needed {
		body = "Yes"
	}
	e.log.Append(conversation.SpeakerUser, body)
	e.answers.Trailer = needed
	e.expectOnly()
	return []Token{e.token(beatShort, stageAskPriority)}
}

func (e *Engine) choosePriority(p command.Priority) []Token {
	e.log.Append(conversation.SpeakerUser, priorityLabels[p])
	e.answers.Priority = p
	e.progress = Progress{Step: 2, Total: 4, Name: "Generating inspection form"}
	e.expectOnly()
	return []Token{e.token(delayGenerate, stageFormGenerated)}
}

func (e *Engine) chooseUploadFormat(f command.UploadFormat) []Token {
	e.log.Append(conversation.SpeakerUser, formatLabels[f])
	e.answers.Format = f
	e.expectOnly()
	return []Token{e.token(beatShort, stageShowUploadZone)}
}

func (e *Engine) fileUploaded(name string) []Token {
	e.log.Append(conversation.SpeakerUser, fmt.Sprintf("Uploading %s...", name))
	e.canvas = Canvas{Kind: CanvasUploadProgress, Format: e.answers.Format, FileName: name}
	e.expectOnly()
	tok := e.token(delayUpload, stageUploadComplete)
	tok.fileName = name
	return []Token{tok}
}

// switchLayout is a pure view toggle; it never consumes workflow progress.
func (e *Engine) switchLayout(l command.FormLayout) []Token {
	if len(e.categories) == 0 {
		return nil
	}
	e.layout = l
	return nil
}

func (e *Engine) approveForm() []Token {
	e.progress = Progress{Step: 4, Total: 4, Name: "Publishing inspection form"}
	e.log.Append(conversation.SpeakerAssistant, "Perfect! I'm publishing your inspection form now...")
	e.canvas = Canvas{Kind: CanvasPublishing}
	e.expectOnly()
	return []Token{e.token(delayPublish, stagePublished)}
}

func (e *Engine) editForm() []Token {
	e.log.Append(conversation.SpeakerAssistant,
		"Form editing is coming soon! For now, you can approve the form or start over by selecting a different creation method.",
		conversation.WithActions(
			conversation.Action{Label: "Approve this form", Op: command.ApproveForm()},
			conversation.Action{Label: "Start over", Op: command.StartFormSetup()},
		))
	e.expectOnly(command.KindApproveForm, command.KindStartFormSetup, command.KindSwitchLayout)
	return nil
}

func (e *Engine) resumeFormSetup(t Token) []Token {
	switch t.stage {
	case stageSetupGreeting:
		e.log.Append(conversation.SpeakerAssistant, "Great! Let's create your first inspection form.")
		return []Token{e.token(beatLong, stageSetupAskMethod)}

	case stageSetupAskMethod:
		e.log.Append(conversation.SpeakerAssistant,
			"How would you like to create your inspection form?",
			conversation.WithActions(
				conversation.Action{Label: "Build with AI", Op: command.ChooseMethod(command.MethodBuildWithAI)},
				conversation.Action{Label: "I have an existing inspection form I want to use", Op: command.ChooseMethod(command.MethodUploadExisting)},
			))
		e.expectOnly(command.KindChooseMethod)
		return nil

	case stageBuildIntro:
		e.log.Append(conversation.SpeakerAssistant,
			"Perfect! I'll help you build a custom form. Let me ask you a few questions to create the best inspection form for your needs.")
		return []Token{e.token(beatLong, stageAskVehicle)}

	case stageAskVehicle:
		e.log.Append(conversation.SpeakerAssistant,
			"What type of vehicles do you need to inspect?",
			conversation.WithActions(
				conversation.Action{Label: vehicleLabels[command.VehicleLight], Op: command.ChooseVehicleType(command.VehicleLight)},
				conversation.Action{Label: vehicleLabels[command.VehicleHeavy], Op: command.ChooseVehicleType(command.VehicleHeavy)},
				conversation.Action{Label: vehicleLabels[command.VehicleSpecialized], Op: command.ChooseVehicleType(command.VehicleSpecialized)},
			))
		e.expectOnly(command.KindChooseVehicleType)
		return nil

	case stageAskTrailer:
		e.log.Append(conversation.SpeakerAssistant,
			"Do you need to inspect trailers?",
			conversation.WithActions(
				conversation.Action{Label: "Yes", Op: command.ChooseTrailer(true)},
				conversation.Action{Label: "No", Op: command.ChooseTrailer(false)},
			))
		e.expectOnly(command.KindChooseTrailer)
		return nil

	case stageAskPriority:
		e.log.Append(conversation.SpeakerAssistant,
			"What is your main priority for vehicle inspections?",
			conversation.WithActions(
				conversation.Action{Label: priorityLabels[command.PriorityCompliance], Op: command.ChoosePriority(command.PriorityCompliance)},
				conversation.Action{Label: priorityLabels[command.PrioritySafety], Op: command.ChoosePriority(command.PrioritySafety)},
				conversation.Action{Label: priorityLabels[command.PriorityMaintenance], Op: command.ChoosePriority(command.PriorityMaintenance)},
			))
		e.expectOnly(command.KindChoosePriority)
		return nil

	case stageFormGenerated:
		e.presentForm(fixture.Catalog(string(e.answers.Vehicle)))
		return nil

	case stageUploadIntro:
		e.log.Append(conversation.SpeakerAssistant,
			"Great! You can upload your existing form and I'll convert it to a digital format.")
		return []Token{e.token(beatLong, stageAskUploadFormat)}

	case stageAskUploadFormat:
		e.log.Append(conversation.SpeakerAssistant,
			"What format is your inspection form?",
			conversation.WithActions(
				conversation.Action{Label: formatLabels[command.FormatPDF], Op: command.ChooseUploadFormat(command.FormatPDF)},
				conversation.Action{Label: formatLabels[command.FormatImage], Op: command.ChooseUploadFormat(command.FormatImage)},
			))
		e.expectOnly(command.KindChooseUploadFormat)
		return nil

	case stageShowUploadZone:
		e.canvas = Canvas{Kind: CanvasUploadZone, Format: e.answers.Format}
		e.log.Append(conversation.SpeakerAssistant,
			"Please upload your inspection form. I'll analyze it and convert it to a digital format.")
		e.expectOnly(command.KindFileUploaded)
		return nil

	case stageUploadComplete:
		e.log.Append(conversation.SpeakerAssistant, "Upload complete! Analyzing your form...")
		e.canvas = Canvas{Kind: CanvasAnalyzing, Format: e.answers.Format, FileName: t.fileName}
		e.progress = Progress{Step: 2, Total: 4, Name: "Processing uploaded form"}
		return []Token{e.token(delayConvert, stageUploadConverted)}

	case stageUploadConverted:
		// Uploaded forms convert to the light-vehicle default catalog.
		categories := fixture.Catalog(string(command.VehicleLight))
		e.log.Append(conversation.SpeakerAssistant,
			fmt.Sprintf("Analysis complete! I found %d inspection items across %d categories. I've converted them into a digital format.",
				fixture.ItemCount(categories), len(categories)))
		e.presentForm(categories)
		return nil

	case stagePublished:
		e.canvas = Canvas{Kind: CanvasSuccess}
		e.log.Append(conversation.SpeakerAssistant,
			"Success! Your inspection form has been published and is now active. Drivers can start using it immediately.",
			conversation.WithActions(
				conversation.Action{Label: "Start a new task", Op: command.NewTask()},
			),
			conversation.WithFeedbackPrompt(),
		)
		e.expectOnly(command.KindNewTask)
		return nil
	}
	return nil
}

// presentForm converges both creation paths onto the review step.
func (e *Engine) presentForm(categories []fixture.Category) {
	e.categories = categories
	e.layout = command.LayoutMarkDefectsOnly
	e.progress = Progress{Step: 3, Total: 4, Name: "Form ready for review"}
	e.canvas = Canvas{Kind: CanvasFormPreview}
	e.log.Append(conversation.SpeakerAssistant,
		"Your custom inspection form is ready! This is how it will look on your drivers' mobile devices.",
		conversation.WithActions(
			conversation.Action{Label: "Looks great, continue", Op: command.ApproveForm()},
			conversation.Action{Label: "Edit form", Op: command.EditForm()},
		))
	e.expectOnly(command.KindApproveForm, command.KindEditForm, command.KindSwitchLayout)
}
