package game

import (
	"fmt"

	"github.com/google/uuid"
)

// Slot is one seat in a round: a human participant or the virtual AI.
// SlotID is the opaque per-round handle shown to clients in place of the
// participant identifier.
type Slot struct {
	ParticipantID string `json:"participant_id"`
	SlotID        string `json:"slot_id"`
	Label         string `json:"label"`
	Nickname      string `json:"nickname,omitempty"`
}

// Anonymizer maps participant identifiers to per-round "Player N" labels.
// Slots are kept in label order.
type Anonymizer struct {
	Slots []Slot `json:"slots"`
}

// NewAnonymizer shuffles ids and labels them Player 1..N in shuffled order.
func NewAnonymizer(ids []string, rng Rand) *Anonymizer {
	order := append([]string(nil), ids...)
	Shuffle(rng, len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	slots := make([]Slot, 0, len(order))
	for i, id := range order {
		slots = append(slots, Slot{
			ParticipantID: id,
			SlotID:        uuid.NewString(),
			Label:         fmt.Sprintf("Player %d", i+1),
		})
	}
	return &Anonymizer{Slots: slots}
}

func (a *Anonymizer) Len() int {
	if a == nil {
		return 0
	}
	return len(a.Slots)
}

func (a *Anonymizer) LabelFor(participantID string) (string, bool) {
	slot, ok := a.ByParticipant(participantID)
	if !ok {
		return "", false
	}
	return slot.Label, true
}

func (a *Anonymizer) IDFor(label string) (string, bool) {
	if a == nil {
		return "", false
	}
	for _, slot := range a.Slots {
		if slot.Label == label {
			return slot.ParticipantID, true
		}
	}
	return "", false
}

func (a *Anonymizer) ByParticipant(participantID string) (Slot, bool) {
	if a == nil {
		return Slot{}, false
	}
	for _, slot := range a.Slots {
		if slot.ParticipantID == participantID {
			return slot, true
		}
	}
	return Slot{}, false
}

func (a *Anonymizer) BySlotID(slotID string) (Slot, bool) {
	if a == nil || slotID == "" {
		return Slot{}, false
	}
	for _, slot := range a.Slots {
		if slot.SlotID == slotID {
			return slot, true
		}
	}
	return Slot{}, false
}

func (a *Anonymizer) Clone() *Anonymizer {
	if a == nil {
		return nil
	}
	return &Anonymizer{Slots: append([]Slot(nil), a.Slots...)}
}
