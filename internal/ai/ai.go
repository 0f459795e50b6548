package ai

import (
	"context"
	"errors"
	"fmt"

	"spot-the-bot/internal/game"
)

const (
	RoleSelf  = "assistant"
	RoleOther = "user"
)

// ErrNoReply is returned by responders that are switched off.
var ErrNoReply = errors.New("ai responder is disabled")

// Turn is one line of chat history as seen from the AI slot.
type Turn struct {
	Role string
	Text string
}

type Prompt struct {
	Persona    string
	Theme      string
	Question   string
	Label      string
	Transcript []Turn
}

// Responder produces the AI slot's next chat line. Implementations may be
// slow or fail; callers treat any error as "no reply this turn".
type Responder interface {
	Reply(ctx context.Context, prompt Prompt) (string, error)
}

// BuildPrompt turns the round history into a prompt for the virtual slot.
// Messages the slot wrote itself are attributed to RoleSelf.
func BuildPrompt(persona string, room *game.Room) Prompt {
	label, _ := room.Labels.LabelFor(room.VirtualID)
	transcript := make([]Turn, 0, len(room.Messages))
	for _, msg := range room.Messages {
		role := RoleOther
		if msg.SourceID == room.VirtualID {
			role = RoleSelf
		}
		transcript = append(transcript, Turn{
			Role: role,
			Text: fmt.Sprintf("%s: %s", msg.Label, msg.Text),
		})
	}
	return Prompt{
		Persona:    persona,
		Theme:      room.Theme,
		Question:   room.Question,
		Label:      label,
		Transcript: transcript,
	}
}

// Context renders the short context block sent alongside the persona.
func (p Prompt) Context() string {
	return fmt.Sprintf("You are %s in this chat.\nTheme: %s\nOpening question: %s\n"+
		"Reply with a single short chat message and no name prefix.", p.Label, p.Theme, p.Question)
}
