package server

import (
	"spot-the-bot/internal/game"
	"spot-the-bot/internal/metrics"
)

func (s *Server) startGame(tx *roomTx, requesterID string) error {
	room := tx.Room
	if err := room.StartRound(requesterID, s.catalog, s.rng, tx.now); err != nil {
		return err
	}
	s.scheduleRoundTimer(tx.entry)
	metrics.RoundsStarted.Inc()
	tx.Log(logGameStarted, EventPayload{
		Theme:                room.Theme,
		Question:             room.Question,
		Participants:         len(room.Participants),
		RoundDurationSeconds: room.RoundDurationSeconds,
	})
	s.log.Info().
		Str("room", room.Code).
		Int("round", room.Round).
		Int("players", len(room.Participants)).
		Str("theme", room.Theme).
		Msg("game started")
	s.broadcastSnapshot(room, eventGameStarted)
	return nil
}

func (s *Server) beginVoting(tx *roomTx) error {
	room := tx.Room
	if err := room.BeginVoting(room.Round, s.cfg.VoteDuration(), s.rng, tx.now); err != nil {
		return err
	}
	stopTimer(&tx.entry.roundTimer)
	s.scheduleVoteTimer(tx.entry)
	tx.Log(logVotingStarted, EventPayload{Participants: len(room.Participants)})
	s.broadcastSnapshot(room, eventRoomUpdate)
	return nil
}

// finishRound tallies the current round and reveals the results. reason is
// "all_voted" or "timeout".
func (s *Server) finishRound(tx *roomTx, reason string) error {
	room := tx.Room
	votesCast := 0
	for _, vote := range room.Votes {
		if vote.VoterID != room.VirtualID {
			votesCast++
		}
	}
	if err := room.Finish(room.Round, tx.now); err != nil {
		return err
	}
	tx.entry.stopTimers()
	results := room.Results
	winner := "ai"
	if results.PlayersWin {
		winner = "players"
	}
	metrics.RoundsFinished.WithLabelValues(winner).Inc()
	playersWin := results.PlayersWin
	tx.Log(logGameFinished, EventPayload{
		Reason:             reason,
		VotesCast:          votesCast,
		AIParticipantLabel: results.AIParticipantLabel,
		VotedOutLabel:      results.VotedOutLabel,
		PlayersWin:         &playersWin,
	})
	s.log.Info().
		Str("room", room.Code).
		Int("round", room.Round).
		Str("reason", reason).
		Int("votes", votesCast).
		Bool("players_win", playersWin).
		Msg("game finished")
	s.broadcastResults(room)
	s.broadcastSnapshot(room, eventRoomUpdate)
	return nil
}

func (s *Server) resetToLobby(tx *roomTx) {
	tx.entry.stopTimers()
	tx.Log(logLobbyReset, EventPayload{Participants: len(tx.Room.Participants)})
	s.log.Info().Str("room", tx.Room.Code).Int("round", tx.Room.Round).Msg("room back in lobby")
	s.broadcastSnapshot(tx.Room, eventRoomUpdate)
}

// afterDeparture re-checks the round gates a leaving participant may have
// been holding up.
func (s *Server) afterDeparture(tx *roomTx) error {
	room := tx.Room
	switch room.Phase {
	case game.PhaseVoting:
		if room.AllHumansVoted() {
			return s.finishRound(tx, "all_voted")
		}
	case game.PhaseFinished:
		if room.AllReady() {
			room.ResetToLobby(tx.now)
			s.resetToLobby(tx)
			return nil
		}
	}
	s.broadcastSnapshot(room, eventRoomUpdate)
	return nil
}
