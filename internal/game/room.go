package game

import (
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"
)

// maxMessageLength counts characters, not bytes.
const maxMessageLength = 500

func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Join adds a participant to the lobby. The first participant becomes host.
// A connection that is already seated gets ErrAlreadyJoined so reconnect
// races can treat it as success.
func (r *Room) Join(id, nickname string, now time.Time) error {
	if r.IsParticipant(id) {
		return ErrAlreadyJoined
	}
	if r.Phase != PhaseLobby {
		return ErrAlreadyStarted
	}
	if len(r.Participants) >= r.MaxParticipants {
		return ErrRoomFull
	}
	r.Participants = append(r.Participants, Participant{
		ID:       id,
		Nickname: strings.TrimSpace(nickname),
		JoinedAt: now,
	})
	if len(r.Participants) == 1 || !r.IsParticipant(r.HostID) {
		r.HostID = id
	}
	return nil
}

type LeaveOutcome struct {
	Nickname  string
	WasHost   bool
	NewHostID string
	Empty     bool
}

// Leave removes a participant. Host passes to the oldest remaining
// participant by join order.
func (r *Room) Leave(id string) (LeaveOutcome, error) {
	index := slices.IndexFunc(r.Participants, func(p Participant) bool {
		return p.ID == id
	})
	if index < 0 {
		return LeaveOutcome{}, ErrNotParticipant
	}
	outcome := LeaveOutcome{
		Nickname: r.Participants[index].Nickname,
		WasHost:  r.HostID == id,
	}
	r.Participants = slices.Delete(r.Participants, index, index+1)
	if len(r.Participants) == 0 {
		r.HostID = ""
		outcome.Empty = true
		return outcome, nil
	}
	if outcome.WasHost {
		r.HostID = r.Participants[0].ID
		outcome.NewHostID = r.HostID
	}
	return outcome, nil
}

// UpdateSettings applies the valid fields of a host's settings request.
// ErrNoChange means nothing needs persisting or broadcasting.
func (r *Room) UpdateSettings(requesterID string, settings Settings) error {
	if !r.IsHost(requesterID) {
		return ErrNotHost
	}
	changed := false
	if value := settings.MaxParticipants; value != nil && validMaxParticipants(*value) &&
		*value >= len(r.Participants) && *value != r.MaxParticipants {
		r.MaxParticipants = *value
		changed = true
	}
	if value := settings.RoundDurationSeconds; value != nil && validRoundDuration(*value) &&
		*value != r.RoundDurationSeconds {
		r.RoundDurationSeconds = *value
		changed = true
	}
	if !changed {
		return ErrNoChange
	}
	return nil
}

func (r *Room) PostMessage(id, text string, now time.Time) (Message, error) {
	if r.Phase != PhasePlaying {
		return Message{}, ErrWrongPhase
	}
	if !r.IsParticipant(id) {
		return Message{}, ErrNotParticipant
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, ErrEmptyMessage
	}
	return r.appendMessage(id, truncateRunes(text, maxMessageLength), now)
}

// AppendAIMessage records a reply from the virtual AI slot. It is allowed
// in any round phase so late replies still land in history.
func (r *Room) AppendAIMessage(text string, now time.Time) (Message, error) {
	if !r.InRound() || r.VirtualID == "" {
		return Message{}, ErrWrongPhase
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, ErrEmptyMessage
	}
	return r.appendMessage(r.VirtualID, text, now)
}

func truncateRunes(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	return string([]rune(text)[:limit])
}

func (r *Room) appendMessage(sourceID, text string, now time.Time) (Message, error) {
	label, ok := r.Labels.LabelFor(sourceID)
	if !ok {
		return Message{}, ErrNotParticipant
	}
	msg := Message{
		ID:       ulid.Make().String(),
		Label:    label,
		Text:     text,
		SourceID: sourceID,
		SentAt:   now,
	}
	r.Messages = append(r.Messages, msg)
	return msg, nil
}

// CastVote records a human ballot against a round slot. It reports whether
// every current participant has now voted.
func (r *Room) CastVote(voterID, targetSlotID string, now time.Time) (bool, error) {
	if r.Phase != PhaseVoting {
		return false, ErrWrongPhase
	}
	if !r.IsParticipant(voterID) {
		return false, ErrNotParticipant
	}
	if r.HasVoted(voterID) {
		return false, ErrAlreadyVoted
	}
	slot, ok := r.Labels.BySlotID(targetSlotID)
	if !ok {
		return false, ErrInvalidTarget
	}
	if slot.ParticipantID != r.VirtualID && !r.IsParticipant(slot.ParticipantID) {
		return false, ErrInvalidTarget
	}
	r.Votes = append(r.Votes, Vote{
		VoterID:  voterID,
		TargetID: slot.ParticipantID,
		CastAt:   now,
	})
	return r.AllHumansVoted(), nil
}

func (r *Room) HasVoted(voterID string) bool {
	for _, vote := range r.Votes {
		if vote.VoterID == voterID {
			return true
		}
	}
	return false
}

func (r *Room) AllHumansVoted() bool {
	if len(r.Participants) == 0 {
		return false
	}
	for _, p := range r.Participants {
		if !r.HasVoted(p.ID) {
			return false
		}
	}
	return true
}

// MarkReady flags a participant for the next round and resets the room to
// the lobby once everyone is ready.
func (r *Room) MarkReady(id string, now time.Time) (bool, error) {
	if r.Phase != PhaseFinished {
		return false, ErrWrongPhase
	}
	p, ok := r.Participant(id)
	if !ok {
		return false, ErrNotParticipant
	}
	p.Ready = true
	if !r.AllReady() {
		return false, nil
	}
	r.ResetToLobby(now)
	return true, nil
}

func (r *Room) AllReady() bool {
	if len(r.Participants) == 0 {
		return false
	}
	for _, p := range r.Participants {
		if !p.Ready {
			return false
		}
	}
	return true
}
