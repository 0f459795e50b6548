package server

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spot-the-bot/internal/config"
)

func TestValidateNickname(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "  Ann  ", want: "Ann"},
		{in: "Mary   Jane", want: "Mary Jane"},
		{in: strings.Repeat("é", 20), want: strings.Repeat("é", 20)},
		{in: "   ", wantErr: true},
		{in: strings.Repeat("x", 21), wantErr: true},
		{in: "bell\u0007", wantErr: true},
	}
	for _, tc := range cases {
		got, err := validateNickname(tc.in)
		if tc.wantErr {
			assert.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got)
	}
}

func TestValidRoomCode(t *testing.T) {
	assert.True(t, validRoomCode("ABCD"))
	assert.True(t, validRoomCode(" abcd "))
	assert.False(t, validRoomCode("ABC"))
	assert.False(t, validRoomCode("AB0O"))
	assert.False(t, validRoomCode(""))
}

func TestBindEventReportsFieldMessage(t *testing.T) {
	registerValidators()

	var req joinRoomRequest
	err := bindEvent([]byte(`{"roomCode":"ABCD","nickname":"abcdefghijklmnopqrstuvwxyz"}`), &req)
	require.Error(t, err)
	assert.Equal(t, "Nickname must be 1-20 characters", resolveBindError(err, eventMessages, "Invalid message"))

	err = bindEvent(nil, &req)
	assert.ErrorIs(t, err, errEmptyPayload)
}

func TestAllowCreateLimitsPerIP(t *testing.T) {
	cfg := config.Default()
	cfg.CreateRoomsPerMinute = 2
	limits := newRateLimits(cfg)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, limits.allowCreate("10.0.0.1", now))
	assert.True(t, limits.allowCreate("10.0.0.1", now))
	assert.False(t, limits.allowCreate("10.0.0.1", now))
	assert.True(t, limits.allowCreate("10.0.0.2", now))
	assert.True(t, limits.allowCreate("10.0.0.1", now.Add(30*time.Second)))
}

func TestAllowCreateDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.CreateRoomsPerMinute = 0
	limits := newRateLimits(cfg)

	for i := 0; i < 100; i++ {
		require.True(t, limits.allowCreate("10.0.0.1", time.Now()))
	}
}

func TestConnLimiterBurst(t *testing.T) {
	cfg := config.Default()
	cfg.WSEventsPerSecond = 1
	cfg.WSEventBurst = 3
	limiter := newRateLimits(cfg).connLimiter()
	now := time.Now()

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.AllowN(now, 1))
	}
	assert.False(t, limiter.AllowN(now, 1))
}
