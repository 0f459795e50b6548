package game

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedLabels(ids ...string) *Anonymizer {
	slots := make([]Slot, 0, len(ids))
	for i, id := range ids {
		slots = append(slots, Slot{
			ParticipantID: id,
			SlotID:        "slot-" + id,
			Label:         "Player " + string(rune('1'+i)),
		})
	}
	return &Anonymizer{Slots: slots}
}

func votes(pairs ...string) []Vote {
	out := make([]Vote, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, Vote{VoterID: pairs[i], TargetID: pairs[i+1]})
	}
	return out
}

func TestTallyHalfOfHumansIsNotAWin(t *testing.T) {
	labels := fixedLabels("a", "b", "c", "d", "ai")
	got := Tally(votes(
		"a", "ai",
		"b", "ai",
		"c", "d",
		"d", "c",
	), labels, "ai", "ai")

	assert.Equal(t, "Player 5", got.AIParticipantLabel)
	assert.Equal(t, "Player 5", got.VotedOutLabel)
	assert.False(t, got.PlayersWin)
}

func TestTallyMajorityOfHumansWins(t *testing.T) {
	labels := fixedLabels("a", "b", "c", "d", "ai")
	got := Tally(votes(
		"a", "ai",
		"b", "ai",
		"c", "ai",
		"d", "a",
	), labels, "ai", "ai")

	assert.Equal(t, "Player 5", got.VotedOutLabel)
	assert.True(t, got.PlayersWin)
}

func TestTallyAIBallotDoesNotCountTowardsHumanMajority(t *testing.T) {
	labels := fixedLabels("a", "b", "c", "ai")
	// AI votes for a; humans split 1-1-1, impostor is human "b".
	got := Tally(votes(
		"ai", "a",
		"a", "b",
		"b", "c",
		"c", "a",
	), labels, "b", "ai")

	assert.Equal(t, "Player 2", got.AIParticipantLabel)
	assert.Equal(t, "Player 1", got.VotedOutLabel)
	assert.False(t, got.PlayersWin)
}

func TestTallyTieGoesToFirstToReachMax(t *testing.T) {
	labels := fixedLabels("a", "b", "c", "d", "ai")
	got := Tally(votes(
		"a", "c",
		"b", "d",
		"c", "d",
		"d", "c",
	), labels, "ai", "ai")

	// d reaches 2 before c does.
	assert.Equal(t, "Player 4", got.VotedOutLabel)
	assert.False(t, got.PlayersWin)
}

func TestTallyBreakdownUsesLabelsOnly(t *testing.T) {
	labels := fixedLabels("a", "b", "ai")
	got := Tally(votes(
		"ai", "a",
		"a", "ai",
		"b", "ai",
	), labels, "ai", "ai")

	want := map[string][]string{
		"Player 1": {"Player 3"},
		"Player 3": {"Player 1", "Player 2"},
	}
	if diff := cmp.Diff(want, got.Breakdown); diff != "" {
		t.Fatalf("breakdown mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, got.PlayersWin)
}

func TestTallyWithoutVotes(t *testing.T) {
	labels := fixedLabels("a", "b", "ai")
	got := Tally(nil, labels, "ai", "ai")

	require.NotNil(t, got.Breakdown)
	assert.Empty(t, got.VotedOutLabel)
	assert.False(t, got.PlayersWin)
	assert.Equal(t, "Player 3", got.AIParticipantLabel)
}

func TestTallySkipsUnknownParticipants(t *testing.T) {
	labels := fixedLabels("a", "b", "ai")
	got := Tally(votes(
		"ghost", "ai",
		"a", "ghost",
		"a", "ai",
	), labels, "ai", "ai")

	assert.Equal(t, "Player 3", got.VotedOutLabel)
	assert.Len(t, got.Breakdown, 1)
}
