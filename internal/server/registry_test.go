package server

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spot-the-bot/internal/game"
)

func TestCreateRoomUsesConfiguredDefaults(t *testing.T) {
	f := newFixture(t)

	room, err := f.srv.CreateRoom(context.Background(), 0, 0)

	require.NoError(t, err)
	assert.Len(t, room.Code, roomCodeLength)
	assert.True(t, game.IsRoomCode(room.Code))
	assert.Equal(t, game.PhaseLobby, room.Phase)
	assert.Equal(t, f.cfg.DefaultMaxParticipants, room.MaxParticipants)
	assert.Equal(t, f.cfg.DefaultRoundSeconds, room.RoundDurationSeconds)
	assert.Equal(t, 1, f.store.Len())
}

func TestCreateRoomProducesDistinctCodes(t *testing.T) {
	f := newFixture(t)
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		room, err := f.srv.CreateRoom(context.Background(), 3, 60)
		require.NoError(t, err)
		assert.False(t, seen[room.Code], room.Code)
		seen[room.Code] = true
	}
}

func TestRoomLoadedFromStoreOnMiss(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	stored := game.NewRoom("QRST", 4, 60, now)
	require.NoError(t, stored.Join("a", "Ann", now))
	require.NoError(t, store.Create(context.Background(), stored))
	f := newFixture(t, withStore(store))

	_, err := f.srv.JoinRoom(context.Background(), "b", "qrst", "Bob")

	require.NoError(t, err)
	room := f.room(t, "QRST")
	assert.Len(t, room.Participants, 2)
	assert.Equal(t, "a", room.HostID)
	persisted, err := store.Find(context.Background(), "QRST")
	require.NoError(t, err)
	assert.Len(t, persisted.Participants, 2)
}

func TestStaleRoundTimerIsNoOp(t *testing.T) {
	f := newFixture(t)
	code := f.votingRoom(t, "a", "b")
	f.transport.reset()

	f.srv.autoAdvance(code, 1, game.PhasePlaying)

	room := f.room(t, code)
	assert.Equal(t, game.PhaseVoting, room.Phase)
	assert.Zero(t, f.transport.count(eventRoomUpdate))
}

func TestTimerFromEarlierRoundIsNoOp(t *testing.T) {
	f := newFixture(t)
	code := f.votingRoom(t, "a", "b")
	f.srv.autoAdvance(code, 1, game.PhaseVoting)
	require.NoError(t, f.srv.MarkReady(context.Background(), "a", code))
	require.NoError(t, f.srv.MarkReady(context.Background(), "b", code))
	require.NoError(t, f.srv.StartGame(context.Background(), "a", code))

	f.srv.autoAdvance(code, 1, game.PhasePlaying)

	room := f.room(t, code)
	assert.Equal(t, 2, room.Round)
	assert.Equal(t, game.PhasePlaying, room.Phase)
}

func TestVotingTimeoutFinishesRound(t *testing.T) {
	f := newFixture(t)
	code := f.votingRoom(t, "a", "b", "c")
	room := f.room(t, code)
	require.NoError(t, f.srv.CastVote(context.Background(), "a", code, slotFor(t, room, "b")))

	f.srv.autoAdvance(code, 1, game.PhaseVoting)

	room = f.room(t, code)
	assert.Equal(t, game.PhaseFinished, room.Phase)
	require.NotNil(t, room.Results)
	assert.NotEmpty(t, room.Results.AIParticipantLabel)
}

func TestVotingBeginsWithAIBallot(t *testing.T) {
	f := newFixture(t)
	code := f.votingRoom(t, "a", "b")

	room := f.room(t, code)
	require.Len(t, room.Votes, 1)
	assert.Equal(t, room.VirtualID, room.Votes[0].VoterID)
	assert.True(t, room.IsParticipant(room.Votes[0].TargetID))
	assert.False(t, room.VoteEndsAt.IsZero())

	snap := f.transport.lastSnapshot(t, "a")
	assert.Zero(t, snap.VotesCast)
	require.NotNil(t, snap.VoteEndsAt)
}

func TestRoundTimerFiresAtDeadline(t *testing.T) {
	f := newFixture(t)
	code := f.createRoom(t, 5)
	f.join(t, code, "a", "b")
	seconds := 10
	require.NoError(t, f.srv.UpdateSettings(context.Background(), "a", code, game.Settings{RoundDurationSeconds: &seconds}))
	// Deadlines are measured against the injected clock, so moving it
	// forward after the start leaves only a short real wait.
	require.NoError(t, f.srv.StartGame(context.Background(), "a", code))
	entry, ok := f.srv.rooms.get(code)
	require.True(t, ok)
	f.clock.Advance(10 * time.Second)
	entry.mu.Lock()
	f.srv.scheduleRoundTimer(entry)
	entry.mu.Unlock()

	require.Eventually(t, func() bool {
		return f.room(t, code).Phase == game.PhaseVoting
	}, 2*time.Second, 10*time.Millisecond)
}

func TestInconsistentRoomIsRecoveredBeforeNextOperation(t *testing.T) {
	f := newFixture(t)
	code := f.startedRoom(t, "a", "b")
	entry, ok := f.srv.rooms.get(code)
	require.True(t, ok)
	entry.mu.Lock()
	entry.room.Labels = nil
	entry.mu.Unlock()
	f.transport.reset()

	err := f.srv.PostMessage(context.Background(), "a", code, "hello?")

	require.ErrorIs(t, err, game.ErrWrongPhase)
	room := f.room(t, code)
	assert.Equal(t, game.PhaseLobby, room.Phase)
	assert.Len(t, room.Participants, 2)
	assert.Equal(t, 2, f.transport.count(eventRoomUpdate))
	persisted, err := f.store.Find(context.Background(), code)
	require.NoError(t, err)
	assert.Equal(t, game.PhaseLobby, persisted.Phase)
}

func TestSweepIdleRemovesEmptyRoomsPastTTL(t *testing.T) {
	f := newFixture(t)
	empty := f.createRoom(t, 5)
	occupied := f.createRoom(t, 5)
	f.join(t, occupied, "a")

	assert.Zero(t, f.srv.SweepIdle(f.clock.Now()))

	swept := f.srv.SweepIdle(f.clock.Now().Add(f.cfg.EmptyRoomTTL()))

	assert.Equal(t, 1, swept)
	_, err := f.srv.Room(context.Background(), empty)
	require.ErrorIs(t, err, game.ErrRoomNotFound)
	_, err = f.srv.Room(context.Background(), occupied)
	require.NoError(t, err)
}

// pausingStore hands out the stored room on the first Find, then waits for
// release before returning it.
type pausingStore struct {
	RoomStore
	once    sync.Once
	read    chan struct{}
	release chan struct{}
}

func (p *pausingStore) Find(ctx context.Context, code string) (*game.Room, error) {
	room, err := p.RoomStore.Find(ctx, code)
	first := false
	p.once.Do(func() { first = true })
	if first {
		close(p.read)
		<-p.release
	}
	return room, err
}

func TestColdLoadDoesNotResurrectDeletedRoom(t *testing.T) {
	inner := NewMemoryStore()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	stored := game.NewRoom("QRST", 4, 60, now)
	require.NoError(t, stored.Join("a", "Ann", now))
	require.NoError(t, inner.Create(context.Background(), stored))
	store := &pausingStore{RoomStore: inner, read: make(chan struct{}), release: make(chan struct{})}
	f := newFixture(t, withStore(store))

	loaded := make(chan error, 1)
	go func() {
		_, err := f.srv.Room(context.Background(), "QRST")
		loaded <- err
	}()
	<-store.read

	require.NoError(t, f.srv.LeaveRoom(context.Background(), "a", "QRST"))
	close(store.release)

	require.ErrorIs(t, <-loaded, game.ErrRoomNotFound)
	_, ok := f.srv.rooms.get("QRST")
	assert.False(t, ok)
	_, err := inner.Find(context.Background(), "QRST")
	assert.ErrorIs(t, err, game.ErrRoomNotFound)
}
