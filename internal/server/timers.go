package server

import (
	"errors"
	"time"

	"spot-the-bot/internal/game"
)

func stopTimer(timer **time.Timer) {
	if *timer != nil {
		(*timer).Stop()
		*timer = nil
	}
}

func (s *Server) untilDeadline(deadline time.Time) time.Duration {
	delay := deadline.Sub(s.now())
	if delay < 0 {
		return 0
	}
	return delay
}

// scheduleRoundTimer arms the chat timer for the current round. The caller
// holds entry.mu.
func (s *Server) scheduleRoundTimer(entry *roomEntry) {
	room := entry.room
	stopTimer(&entry.roundTimer)
	code, round := room.Code, room.Round
	entry.roundTimer = time.AfterFunc(s.untilDeadline(room.RoundEndsAt), func() {
		s.autoAdvance(code, round, game.PhasePlaying)
	})
}

func (s *Server) scheduleVoteTimer(entry *roomEntry) {
	room := entry.room
	stopTimer(&entry.voteTimer)
	code, round := room.Code, room.Round
	entry.voteTimer = time.AfterFunc(s.untilDeadline(room.VoteEndsAt), func() {
		s.autoAdvance(code, round, game.PhaseVoting)
	})
}

func (s *Server) rearmTimers(entry *roomEntry) {
	switch entry.room.Phase {
	case game.PhasePlaying:
		s.scheduleRoundTimer(entry)
	case game.PhaseVoting:
		s.scheduleVoteTimer(entry)
	}
}

// autoAdvance is the timer callback. A timer that fires after its round or
// phase has moved on does nothing.
func (s *Server) autoAdvance(code string, round int, expected game.Phase) {
	if s.ctx.Err() != nil {
		return
	}
	room, err := s.updateRoom(s.ctx, code, func(tx *roomTx) error {
		if tx.Room.Round != round || tx.Room.Phase != expected {
			return game.ErrPhaseChanged
		}
		switch expected {
		case game.PhasePlaying:
			return s.beginVoting(tx)
		case game.PhaseVoting:
			return s.finishRound(tx, "timeout")
		}
		return game.ErrPhaseChanged
	})
	if err != nil {
		if !errors.Is(err, game.ErrPhaseChanged) && !errors.Is(err, game.ErrRoomNotFound) {
			s.log.Error().Err(err).Str("room", code).Int("round", round).Msg("auto-advance failed")
		}
		return
	}
	s.log.Info().
		Str("room", code).
		Int("round", round).
		Str("from", string(expected)).
		Str("to", string(room.Phase)).
		Msg("game auto-advanced")
}
