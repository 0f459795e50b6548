package game

import (
	mathrand "math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(seed uint64) Rand {
	return mathrand.New(mathrand.NewPCG(seed, seed+1))
}

func TestNewAnonymizerLabelsEverySlot(t *testing.T) {
	ids := []string{"a", "b", "c", "ai"}
	labels := NewAnonymizer(ids, seeded(1))

	require.Equal(t, 4, labels.Len())
	seenLabels := map[string]bool{}
	seenSlots := map[string]bool{}
	for i, slot := range labels.Slots {
		assert.Equal(t, "Player "+string(rune('1'+i)), slot.Label)
		assert.NotEmpty(t, slot.SlotID)
		seenLabels[slot.Label] = true
		seenSlots[slot.SlotID] = true
	}
	assert.Len(t, seenLabels, 4)
	assert.Len(t, seenSlots, 4)

	for _, id := range ids {
		label, ok := labels.LabelFor(id)
		require.True(t, ok, id)
		back, ok := labels.IDFor(label)
		require.True(t, ok)
		assert.Equal(t, id, back)
	}
}

func TestNewAnonymizerShufflesAcrossRounds(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "ai"}
	rng := seeded(7)
	first, _ := NewAnonymizer(ids, rng).LabelFor("a")
	differs := false
	for i := 0; i < 50 && !differs; i++ {
		label, _ := NewAnonymizer(ids, rng).LabelFor("a")
		differs = label != first
	}
	assert.True(t, differs, "labels should be reshuffled each round")
}

func TestAnonymizerLookupsAreNilSafe(t *testing.T) {
	var labels *Anonymizer

	assert.Zero(t, labels.Len())
	_, ok := labels.LabelFor("a")
	assert.False(t, ok)
	_, ok = labels.BySlotID("x")
	assert.False(t, ok)
	assert.Nil(t, labels.Clone())
}

func TestAnonymizerBySlotID(t *testing.T) {
	labels := NewAnonymizer([]string{"a", "b"}, seeded(3))
	slot := labels.Slots[1]

	got, ok := labels.BySlotID(slot.SlotID)
	require.True(t, ok)
	assert.Equal(t, slot, got)

	_, ok = labels.BySlotID("")
	assert.False(t, ok)
}
