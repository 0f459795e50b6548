package ai

import (
	"context"
	"strings"
	"sync"

	"spot-the-bot/internal/game"
)

var cannedLines = []string{
	"idk, %s is a tough one honestly",
	"wait who asked that",
	"ok that answer was a little too perfect ngl",
	"lol nice try",
	"hmm i'd have to think about %s more",
	"someone here is being weirdly quiet",
	"why is everyone so formal today",
	"that's literally what i was going to say",
}

// CannedResponder answers from a fixed list; it lets the game run without
// an API key.
type CannedResponder struct {
	mu  sync.Mutex
	rng game.Rand
}

func NewCannedResponder(rng game.Rand) *CannedResponder {
	if rng == nil {
		rng = game.GlobalRand
	}
	return &CannedResponder{rng: rng}
}

func (c *CannedResponder) Reply(ctx context.Context, prompt Prompt) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	c.mu.Lock()
	line := cannedLines[c.rng.IntN(len(cannedLines))]
	c.mu.Unlock()
	if strings.Contains(line, "%s") {
		topic := strings.ToLower(prompt.Theme)
		if topic == "" {
			topic = "this"
		}
		line = strings.Replace(line, "%s", topic, 1)
	}
	return line, nil
}

// Off never replies.
type Off struct{}

func (Off) Reply(context.Context, Prompt) (string, error) {
	return "", ErrNoReply
}
