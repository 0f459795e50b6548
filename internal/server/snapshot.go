package server

import (
	"time"

	"spot-the-bot/internal/game"
)

// roomSnapshot is what one participant sees. Connection identifiers never
// appear in it; round slots are addressed by their opaque slot id.
type roomSnapshot struct {
	RoomCode              string        `json:"roomCode"`
	Phase                 game.Phase    `json:"phase"`
	MaxParticipants       int           `json:"maxParticipants"`
	RoundDurationSeconds  int           `json:"roundDurationSeconds"`
	AllowedRoundDurations []int         `json:"allowedRoundDurations"`
	Round                 int           `json:"round"`
	Players               []playerView  `json:"players"`
	You                   *youView      `json:"you,omitempty"`
	Theme                 string        `json:"theme,omitempty"`
	Question              string        `json:"question,omitempty"`
	Slots                 []slotView    `json:"slots,omitempty"`
	Messages              []messageView `json:"messages"`
	VotesCast             int           `json:"votesCast"`
	RoundEndsAt           *time.Time    `json:"roundEndsAt,omitempty"`
	VoteEndsAt            *time.Time    `json:"voteEndsAt,omitempty"`
	Results               *resultsView  `json:"results,omitempty"`
}

type playerView struct {
	Nickname string `json:"nickname"`
	IsHost   bool   `json:"isHost"`
	Ready    bool   `json:"ready"`
	IsYou    bool   `json:"isYou"`
}

type youView struct {
	Nickname string `json:"nickname"`
	IsHost   bool   `json:"isHost"`
	Ready    bool   `json:"ready"`
	Label    string `json:"label,omitempty"`
	SlotID   string `json:"slotId,omitempty"`
	HasVoted bool   `json:"hasVoted"`
}

type slotView struct {
	SlotID string `json:"slotId"`
	Label  string `json:"label"`
	IsYou  bool   `json:"isYou"`
}

type messageView struct {
	ID       string    `json:"id"`
	Label    string    `json:"label"`
	Text     string    `json:"text"`
	SourceID string    `json:"sourceId"`
	Mine     bool      `json:"mine"`
	SentAt   time.Time `json:"sentAt"`
}

type resultsView struct {
	AIParticipantLabel string              `json:"aiParticipantLabel"`
	VotedOutLabel      string              `json:"votedOutLabel"`
	PlayersWin         bool                `json:"playersWin"`
	Breakdown          map[string][]string `json:"breakdown"`
	Roster             map[string]string   `json:"roster,omitempty"`
}

func snapshotFor(room *game.Room, viewerID string) roomSnapshot {
	snap := roomSnapshot{
		RoomCode:              room.Code,
		Phase:                 room.Phase,
		MaxParticipants:       room.MaxParticipants,
		RoundDurationSeconds:  room.RoundDurationSeconds,
		AllowedRoundDurations: game.AllowedRoundDurations,
		Round:                 room.Round,
		Players:               make([]playerView, 0, len(room.Participants)),
		Messages:              make([]messageView, 0, len(room.Messages)),
	}
	for _, p := range room.Participants {
		snap.Players = append(snap.Players, playerView{
			Nickname: p.Nickname,
			IsHost:   room.IsHost(p.ID),
			Ready:    p.Ready,
			IsYou:    p.ID == viewerID,
		})
	}
	if p, ok := room.Participant(viewerID); ok {
		you := &youView{
			Nickname: p.Nickname,
			IsHost:   room.IsHost(p.ID),
			Ready:    p.Ready,
			HasVoted: room.HasVoted(p.ID),
		}
		if slot, ok := room.Labels.ByParticipant(p.ID); ok {
			you.Label = slot.Label
			you.SlotID = slot.SlotID
		}
		snap.You = you
	}
	if !room.InRound() {
		return snap
	}

	snap.Theme = room.Theme
	snap.Question = room.Question
	for _, slot := range room.Labels.Slots {
		snap.Slots = append(snap.Slots, slotView{
			SlotID: slot.SlotID,
			Label:  slot.Label,
			IsYou:  slot.ParticipantID == viewerID,
		})
	}
	for _, msg := range room.Messages {
		snap.Messages = append(snap.Messages, messageFor(room, msg, viewerID))
	}
	for _, vote := range room.Votes {
		if vote.VoterID != room.VirtualID {
			snap.VotesCast++
		}
	}
	if !room.RoundEndsAt.IsZero() && room.Phase == game.PhasePlaying {
		endsAt := room.RoundEndsAt
		snap.RoundEndsAt = &endsAt
	}
	if !room.VoteEndsAt.IsZero() && room.Phase == game.PhaseVoting {
		endsAt := room.VoteEndsAt
		snap.VoteEndsAt = &endsAt
	}
	if room.Phase == game.PhaseFinished {
		snap.Results = resultsFor(room)
	}
	return snap
}

func messageFor(room *game.Room, msg game.Message, viewerID string) messageView {
	view := messageView{
		ID:     msg.ID,
		Label:  msg.Label,
		Text:   msg.Text,
		Mine:   msg.SourceID == viewerID,
		SentAt: msg.SentAt,
	}
	if slot, ok := room.Labels.ByParticipant(msg.SourceID); ok {
		view.SourceID = slot.SlotID
	}
	return view
}

func resultsFor(room *game.Room) *resultsView {
	if room.Results == nil {
		return nil
	}
	return &resultsView{
		AIParticipantLabel: room.Results.AIParticipantLabel,
		VotedOutLabel:      room.Results.VotedOutLabel,
		PlayersWin:         room.Results.PlayersWin,
		Breakdown:          room.Results.Breakdown,
		Roster:             room.Results.Roster,
	}
}

func (s *Server) broadcastSnapshot(room *game.Room, event string) {
	for _, p := range room.Participants {
		s.transport.Send(p.ID, event, snapshotFor(room, p.ID))
	}
}

func (s *Server) sendSnapshot(room *game.Room, connID, event string) {
	s.transport.Send(connID, event, snapshotFor(room, connID))
}

func (s *Server) broadcastMessage(room *game.Room, msg game.Message) {
	for _, p := range room.Participants {
		s.transport.Send(p.ID, eventNewMessage, messageFor(room, msg, p.ID))
	}
}

func (s *Server) broadcastResults(room *game.Room) {
	results := resultsFor(room)
	if results == nil {
		return
	}
	for _, p := range room.Participants {
		s.transport.Send(p.ID, eventGameFinished, results)
	}
}
