package server

import (
	"context"
	"errors"

	"spot-the-bot/internal/ai"
	"spot-the-bot/internal/game"
	"spot-the-bot/internal/metrics"
)

// JoinRoom seats connID in the room's lobby. Joining twice is a success
// that just re-sends the current snapshot to the caller.
func (s *Server) JoinRoom(ctx context.Context, connID, code, nickname string) (*game.Room, error) {
	return s.updateRoom(ctx, code, func(tx *roomTx) error {
		room := tx.Room
		err := room.Join(connID, nickname, tx.now)
		if errors.Is(err, game.ErrAlreadyJoined) {
			tx.Unchanged()
			s.sendSnapshot(room, connID, eventRoomUpdate)
			return nil
		}
		if err != nil {
			return err
		}
		p, _ := room.Participant(connID)
		metrics.Joins.Inc()
		tx.Log(logPlayerJoined, EventPayload{Nickname: p.Nickname, Participants: len(room.Participants)})
		s.log.Info().
			Str("room", room.Code).
			Str("player", p.Nickname).
			Int("players", len(room.Participants)).
			Bool("host", room.IsHost(connID)).
			Msg("player joined")
		s.broadcastSnapshot(room, eventRoomUpdate)
		return nil
	})
}

// LeaveRoom removes connID from the room. The last participant out deletes
// the room.
func (s *Server) LeaveRoom(ctx context.Context, connID, code string) error {
	_, err := s.updateRoom(ctx, code, func(tx *roomTx) error {
		room := tx.Room
		outcome, err := room.Leave(connID)
		if err != nil {
			return err
		}
		tx.Log(logPlayerLeft, EventPayload{
			Nickname:     outcome.Nickname,
			Phase:        string(room.Phase),
			Participants: len(room.Participants),
		})
		event := s.log.Info().
			Str("room", room.Code).
			Str("player", outcome.Nickname).
			Str("phase", string(room.Phase))
		if outcome.NewHostID != "" {
			if host, ok := room.Participant(outcome.NewHostID); ok {
				event = event.Str("new_host", host.Nickname)
			}
		}
		event.Msg("player left")
		if outcome.Empty {
			tx.Delete()
			return nil
		}
		return s.afterDeparture(tx)
	})
	return err
}

// UpdateSettings applies a host's lobby settings. Requests from anyone else,
// or that change nothing, are ignored.
func (s *Server) UpdateSettings(ctx context.Context, connID, code string, settings game.Settings) error {
	_, err := s.updateRoom(ctx, code, func(tx *roomTx) error {
		room := tx.Room
		err := room.UpdateSettings(connID, settings)
		if errors.Is(err, game.ErrNotHost) || errors.Is(err, game.ErrNoChange) {
			tx.Unchanged()
			return nil
		}
		if err != nil {
			return err
		}
		tx.Log(logSettings, EventPayload{
			MaxParticipants:      room.MaxParticipants,
			RoundDurationSeconds: room.RoundDurationSeconds,
		})
		s.log.Info().
			Str("room", room.Code).
			Int("max_participants", room.MaxParticipants).
			Int("round_seconds", room.RoundDurationSeconds).
			Msg("settings updated")
		s.broadcastSnapshot(room, eventRoomUpdate)
		return nil
	})
	return err
}

func (s *Server) StartGame(ctx context.Context, connID, code string) error {
	_, err := s.updateRoom(ctx, code, func(tx *roomTx) error {
		return s.startGame(tx, connID)
	})
	return err
}

// PostMessage records a human chat line and hands the transcript to the AI
// responder. Messages from connections outside the room are dropped.
func (s *Server) PostMessage(ctx context.Context, connID, code, text string) error {
	var (
		prompt  ai.Prompt
		round   int
		trigger bool
	)
	_, err := s.updateRoom(ctx, code, func(tx *roomTx) error {
		room := tx.Room
		if !room.IsParticipant(connID) {
			tx.Unchanged()
			return nil
		}
		msg, err := room.PostMessage(connID, text, tx.now)
		if err != nil {
			return err
		}
		metrics.MessagesPosted.WithLabelValues("human").Inc()
		s.broadcastMessage(room, msg)
		prompt = ai.BuildPrompt(s.persona, room)
		round = room.Round
		trigger = true
		return nil
	})
	if err != nil {
		return err
	}
	if trigger {
		s.scheduleAITurn(game.NormalizeCode(code), round, prompt)
	}
	return nil
}

// CastVote records a ballot against a round slot. The round is tallied as
// soon as every current participant has voted.
func (s *Server) CastVote(ctx context.Context, connID, code, targetSlotID string) error {
	_, err := s.updateRoom(ctx, code, func(tx *roomTx) error {
		room := tx.Room
		allVoted, err := room.CastVote(connID, targetSlotID, tx.now)
		if err != nil {
			return err
		}
		metrics.VotesCast.Inc()
		if allVoted {
			return s.finishRound(tx, "all_voted")
		}
		s.broadcastSnapshot(room, eventRoomUpdate)
		return nil
	})
	return err
}

// MarkReady flags connID for another round. Once everyone is ready the
// room returns to the lobby.
func (s *Server) MarkReady(ctx context.Context, connID, code string) error {
	_, err := s.updateRoom(ctx, code, func(tx *roomTx) error {
		room := tx.Room
		reset, err := room.MarkReady(connID, tx.now)
		if err != nil {
			return err
		}
		if reset {
			s.resetToLobby(tx)
			return nil
		}
		s.broadcastSnapshot(room, eventRoomUpdate)
		return nil
	})
	return err
}
