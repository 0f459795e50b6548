package server

import (
	"encoding/json"
	mathrand "math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spot-the-bot/internal/game"
)

var snapNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func finishedRoom(t *testing.T) *game.Room {
	t.Helper()
	rng := mathrand.New(mathrand.NewPCG(3, 5))
	room := game.NewRoom("ABCD", 5, 60, snapNow)
	require.NoError(t, room.Join("conn-alpha", "Ann", snapNow))
	require.NoError(t, room.Join("conn-bravo", "Bob", snapNow))
	require.NoError(t, room.StartRound("conn-alpha", game.DefaultCatalog(), rng, snapNow))
	_, err := room.PostMessage("conn-bravo", "hey all", snapNow)
	require.NoError(t, err)
	_, err = room.AppendAIMessage("hiya", snapNow)
	require.NoError(t, err)
	require.NoError(t, room.BeginVoting(1, 30*time.Second, rng, snapNow))
	bob, ok := room.Labels.ByParticipant("conn-bravo")
	require.True(t, ok)
	_, err = room.CastVote("conn-alpha", bob.SlotID, snapNow)
	require.NoError(t, err)
	require.NoError(t, room.Finish(1, snapNow))
	return room
}

func TestSnapshotHidesConnectionIdentifiers(t *testing.T) {
	room := finishedRoom(t)

	data, err := json.Marshal(snapshotFor(room, "conn-alpha"))
	require.NoError(t, err)

	assert.NotContains(t, string(data), "conn-alpha")
	assert.NotContains(t, string(data), "conn-bravo")
	assert.NotContains(t, string(data), room.VirtualID)
}

func TestSnapshotIsPerViewer(t *testing.T) {
	room := finishedRoom(t)

	ann := snapshotFor(room, "conn-alpha")
	bob := snapshotFor(room, "conn-bravo")

	require.NotNil(t, ann.You)
	require.NotNil(t, bob.You)
	assert.True(t, ann.You.IsHost)
	assert.False(t, bob.You.IsHost)
	assert.True(t, ann.You.HasVoted)
	assert.False(t, bob.You.HasVoted)
	assert.NotEqual(t, ann.You.SlotID, bob.You.SlotID)

	require.Len(t, bob.Messages, 2)
	assert.True(t, bob.Messages[0].Mine)
	assert.False(t, ann.Messages[0].Mine)
	assert.Equal(t, bob.You.SlotID, bob.Messages[0].SourceID)
	assert.Equal(t, 1, ann.VotesCast)
}

func TestSnapshotCarriesResultsWithRoster(t *testing.T) {
	room := finishedRoom(t)

	snap := snapshotFor(room, "conn-bravo")

	require.NotNil(t, snap.Results)
	assert.Equal(t, game.PhaseFinished, snap.Phase)
	assert.Len(t, snap.Results.Roster, 3)
	assert.Equal(t, "Bob", snap.Results.Roster[snap.You.Label])
	assert.Nil(t, snap.VoteEndsAt)
	assert.Nil(t, snap.RoundEndsAt)
}

func TestLobbySnapshotOmitsRoundFields(t *testing.T) {
	room := game.NewRoom("ABCD", 4, 60, snapNow)
	require.NoError(t, room.Join("conn-alpha", "Ann", snapNow))

	snap := snapshotFor(room, "conn-alpha")
	outsider := snapshotFor(room, "conn-zulu")

	assert.Empty(t, snap.Slots)
	assert.Empty(t, snap.Theme)
	assert.Equal(t, game.AllowedRoundDurations, snap.AllowedRoundDurations)
	assert.Nil(t, outsider.You)
	require.Len(t, outsider.Players, 1)
	assert.False(t, outsider.Players[0].IsYou)
}
