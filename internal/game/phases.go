package game

import (
	"time"

	"github.com/google/uuid"
)

// VirtualNickname is shown for the AI slot once results are revealed.
const VirtualNickname = "AI"

var phaseTransitions = map[Phase]Phase{
	PhaseLobby:    PhasePlaying,
	PhasePlaying:  PhaseVoting,
	PhaseVoting:   PhaseFinished,
	PhaseFinished: PhaseLobby,
}

func CanTransition(from, to Phase) bool {
	next, ok := phaseTransitions[from]
	return ok && next == to
}

func (r *Room) transition(to Phase, now time.Time) error {
	if !CanTransition(r.Phase, to) {
		return ErrWrongPhase
	}
	r.Phase = to
	r.PhaseStartedAt = now
	return nil
}

// StartRound moves a lobby into play. The virtual AI slot joins the round
// order, the impostor is drawn uniformly from every slot, and all slots are
// shuffled and labelled.
func (r *Room) StartRound(requesterID string, catalog Catalog, rng Rand, now time.Time) error {
	if !r.IsHost(requesterID) {
		return ErrNotHost
	}
	if r.Phase != PhaseLobby {
		return ErrAlreadyStarted
	}
	if len(r.Participants) < MinPlayersToStart {
		return ErrNotEnoughPlayers
	}
	theme, question, err := PickTheme(catalog, rng)
	if err != nil {
		return err
	}

	virtualID := uuid.NewString()
	ids := make([]string, 0, len(r.Participants)+1)
	nicknames := make(map[string]string, len(r.Participants)+1)
	for _, p := range r.Participants {
		ids = append(ids, p.ID)
		nicknames[p.ID] = p.Nickname
	}
	ids = append(ids, virtualID)
	nicknames[virtualID] = VirtualNickname

	labels := NewAnonymizer(ids, rng)
	for i := range labels.Slots {
		labels.Slots[i].Nickname = nicknames[labels.Slots[i].ParticipantID]
	}

	if err := r.transition(PhasePlaying, now); err != nil {
		return err
	}
	r.Round++
	r.Theme = theme
	r.Question = question
	r.VirtualID = virtualID
	r.AIParticipantID = ids[rng.IntN(len(ids))]
	r.Labels = labels
	r.Messages = nil
	r.Votes = nil
	r.Results = nil
	r.RoundEndsAt = now.Add(time.Duration(r.RoundDurationSeconds) * time.Second)
	r.VoteEndsAt = time.Time{}
	for i := range r.Participants {
		r.Participants[i].Ready = false
	}
	return nil
}

// BeginVoting closes the chat for round. The AI slot votes for a random
// current human. ErrPhaseChanged means the round already moved on.
func (r *Room) BeginVoting(round int, voteDuration time.Duration, rng Rand, now time.Time) error {
	if r.Round != round || r.Phase != PhasePlaying {
		return ErrPhaseChanged
	}
	if err := r.transition(PhaseVoting, now); err != nil {
		return err
	}
	r.VoteEndsAt = now.Add(voteDuration)
	if len(r.Participants) > 0 {
		target := r.Participants[rng.IntN(len(r.Participants))]
		r.Votes = append(r.Votes, Vote{
			VoterID:  r.VirtualID,
			TargetID: target.ID,
			CastAt:   now,
		})
	}
	return nil
}

// Finish tallies the round. A second call for the same round is a no-op
// reported as ErrPhaseChanged.
func (r *Room) Finish(round int, now time.Time) error {
	if r.Round != round || r.Phase != PhaseVoting {
		return ErrPhaseChanged
	}
	if err := r.transition(PhaseFinished, now); err != nil {
		return err
	}
	results := Tally(r.Votes, r.Labels, r.AIParticipantID, r.VirtualID)
	results.Roster = make(map[string]string, r.Labels.Len())
	for _, slot := range r.Labels.Slots {
		results.Roster[slot.Label] = slot.Nickname
	}
	r.Results = &results
	r.VoteEndsAt = time.Time{}
	for i := range r.Participants {
		r.Participants[i].Ready = false
	}
	return nil
}

// ResetToLobby clears every round-scoped field.
func (r *Room) ResetToLobby(now time.Time) {
	r.Phase = PhaseLobby
	r.PhaseStartedAt = now
	r.Theme = ""
	r.Question = ""
	r.Messages = nil
	r.Votes = nil
	r.VirtualID = ""
	r.AIParticipantID = ""
	r.Labels = nil
	r.Results = nil
	r.RoundEndsAt = time.Time{}
	r.VoteEndsAt = time.Time{}
	for i := range r.Participants {
		r.Participants[i].Ready = false
	}
}

// Inconsistent reports round state that cannot be continued, e.g. a voting
// room without labels.
func (r *Room) Inconsistent() bool {
	switch r.Phase {
	case PhaseLobby:
		return false
	case PhasePlaying, PhaseVoting:
		return r.Labels.Len() == 0 || r.VirtualID == "" || r.AIParticipantID == "" ||
			!r.hasSlot(r.AIParticipantID)
	case PhaseFinished:
		return r.Labels.Len() == 0 || r.Results == nil
	default:
		return true
	}
}

func (r *Room) hasSlot(id string) bool {
	_, ok := r.Labels.ByParticipant(id)
	return ok
}

// Recover forces an inconsistent room back to the lobby.
func (r *Room) Recover(now time.Time) bool {
	if !r.Inconsistent() {
		return false
	}
	r.ResetToLobby(now)
	return true
}
