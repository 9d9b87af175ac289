// Package conversation is the append-only chat transcript. Rendering is a
// pure projection of this log; turns are never edited or removed except by
// a full reset when a new activity starts.
package conversation

import (
	"time"

	"github.com/google/uuid"

	"github.com/jask/fleetassist/internal/command"
)

// Speaker identifies who authored a turn.
type Speaker int

const (
	SpeakerUser Speaker = iota
	SpeakerAssistant
)

// Action is one offered button: a label paired with the operation it
// triggers. No executable code lives in turn data.
type Action struct {
	Label string
	Op    command.Op
}

// Tone colors a status card badge.
type Tone int

const (
	ToneGreen Tone = iota
	ToneOrange
)

// StatusCard is a per-bucket count badge attached to a summary turn.
type StatusCard struct {
	Label string
	Count int
	Tone  Tone
}

// Turn is one transcript entry.
type Turn struct {
	ID             uuid.UUID
	Speaker        Speaker
	Body           string
	Actions        []Action
	Cards          []StatusCard
	FeedbackPrompt bool
	CreatedAt      time.Time
}

// Announcer receives accessibility announcements for assistant turns.
// Fire-and-forget; implementations must not call back into the log.
type Announcer interface {
	Announce(text string)
}

// NopAnnouncer discards announcements.
type NopAnnouncer struct{}

func (NopAnnouncer) Announce(string) {}

// TurnOption decorates a turn before it is appended.
type TurnOption func(*Turn)

func WithActions(actions ...Action) TurnOption {
	return func(t *Turn) { t.Actions = actions }
}

func WithCards(cards ...StatusCard) TurnOption {
	return func(t *Turn) { t.Cards = cards }
}

func WithFeedbackPrompt() TurnOption {
	return func(t *Turn) { t.FeedbackPrompt = true }
}

// Log is the transcript. Not safe for concurrent use; the whole program
// runs on the single Bubble Tea update loop.
type Log struct {
	turns     []Turn
	announcer Announcer
	now       func() time.Time
}

// NewLog returns an empty transcript. A nil announcer is replaced with
// NopAnnouncer.
func NewLog(a Announcer) *Log {
	if a == nil {
		a = NopAnnouncer{}
	}
	return &Log{announcer: a, now: time.Now}
}

// Append adds a turn and returns it. Assistant turns are announced.
func (l *Log) Append(sp Speaker, body string, opts ...TurnOption) Turn {
	t := Turn{
		ID:        uuid.New(),
		Speaker:   sp,
		Body:      body,
		CreatedAt: l.now(),
	}
	for _, opt := range opts {
		opt(&t)
	}
	l.turns = append(l.turns, t)
	if sp == SpeakerAssistant {
		l.announcer.Announce("AI says: " + body)
	}
	return t
}

// Reset destroys the transcript. Used when switching activities.
func (l *Log) Reset() {
	l.turns = nil
}

// Turns returns a snapshot copy of the transcript.
func (l *Log) Turns() []Turn {
	out := make([]Turn, len(l.turns))
	copy(out, l.turns)
	return out
}

// Len returns the transcript length.
func (l *Log) Len() int { return len(l.turns) }

// Last returns the most recent turn, if any.
func (l *Log) Last() (Turn, bool) {
	if len(l.turns) == 0 {
		return Turn{}, false
	}
	return l.turns[len(l.turns)-1], true
}
