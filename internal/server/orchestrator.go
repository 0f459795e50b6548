package server

import (
	"context"
	"errors"
	"time"

	"spot-the-bot/internal/ai"
	"spot-the-bot/internal/game"
	"spot-the-bot/internal/metrics"
)

// scheduleAITurn asks the responder for the virtual slot's next line. The
// call runs outside every room lock; the reply is applied in a separate
// transaction once the typing delay has passed.
func (s *Server) scheduleAITurn(code string, round int, prompt ai.Prompt) {
	s.aiMu.Lock()
	defer s.aiMu.Unlock()
	if s.aiClosed {
		return
	}
	s.aiWG.Add(1)
	go func() {
		defer s.aiWG.Done()
		s.runAITurn(code, round, prompt)
	}()
}

func (s *Server) runAITurn(code string, round int, prompt ai.Prompt) {
	ctx, cancel := context.WithTimeout(s.ctx, s.cfg.AIReplyTimeout())
	started := time.Now()
	text, err := s.responder.Reply(ctx, prompt)
	cancel()
	metrics.AIReplyLatency.Observe(time.Since(started).Seconds())
	if err != nil {
		metrics.AIReplies.WithLabelValues("failed").Inc()
		if !errors.Is(err, ai.ErrNoReply) {
			s.log.Warn().Err(err).Str("room", code).Int("round", round).Msg("ai reply failed")
		}
		return
	}

	delay := time.NewTimer(s.cfg.AIReplyDelay())
	defer delay.Stop()
	select {
	case <-s.ctx.Done():
		return
	case <-delay.C:
	}
	s.applyAIReply(code, round, text)
}

// applyAIReply appends the reply for round. It is broadcast live only while
// the round is still playing; later in the same round it is kept for
// history, and for any other round it is dropped.
func (s *Server) applyAIReply(code string, round int, text string) {
	outcome := "delivered"
	_, err := s.updateRoom(s.ctx, code, func(tx *roomTx) error {
		room := tx.Room
		if room.Round != round || !room.InRound() {
			return game.ErrPhaseChanged
		}
		msg, err := room.AppendAIMessage(text, tx.now)
		if err != nil {
			return err
		}
		metrics.MessagesPosted.WithLabelValues("ai").Inc()
		if room.Phase == game.PhasePlaying {
			s.broadcastMessage(room, msg)
			return nil
		}
		outcome = "late"
		tx.Log(logAIReplyLate, EventPayload{Phase: string(room.Phase)})
		return nil
	})
	if err != nil {
		metrics.AIReplies.WithLabelValues("dropped").Inc()
		if !errors.Is(err, game.ErrPhaseChanged) && !errors.Is(err, game.ErrRoomNotFound) {
			s.log.Warn().Err(err).Str("room", code).Int("round", round).Msg("ai reply not applied")
			return
		}
		s.log.Debug().Str("room", code).Int("round", round).Msg("ai reply dropped")
		return
	}
	metrics.AIReplies.WithLabelValues(outcome).Inc()
}
