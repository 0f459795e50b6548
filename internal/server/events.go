package server

import "encoding/json"

// Inbound websocket events.
const (
	eventJoinRoom       = "joinRoom"
	eventUpdateSettings = "updateGameSettings"
	eventStartGame      = "startGame"
	eventSendMessage    = "sendMessage"
	eventCastVote       = "castVote"
	eventMarkReady      = "markReady"
	eventLeaveRoom      = "leaveRoom"
)

// Outbound websocket events.
const (
	eventConnected    = "connected"
	eventRoomUpdate   = "roomUpdate"
	eventGameStarted  = "gameStarted"
	eventNewMessage   = "newMessage"
	eventGameFinished = "gameFinished"
	eventError        = "error"
)

// Event log types.
const (
	logRoomCreated   = "room_created"
	logPlayerJoined  = "player_joined"
	logPlayerLeft    = "player_left"
	logSettings      = "settings_updated"
	logGameStarted   = "game_started"
	logVotingStarted = "voting_started"
	logGameFinished  = "game_finished"
	logLobbyReset    = "lobby_reset"
	logRoomRecovered = "room_recovered"
	logAIReplyLate   = "ai_reply_late"
)

type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type outbound struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

type roomRequest struct {
	RoomCode string `json:"roomCode" binding:"required,roomcode"`
}

type joinRoomRequest struct {
	RoomCode string `json:"roomCode" binding:"required,roomcode"`
	Nickname string `json:"nickname" binding:"required,nickname"`
}

type settingsRequest struct {
	RoomCode             string `json:"roomCode" binding:"required,roomcode"`
	MaxParticipants      *int   `json:"maxParticipants"`
	RoundDurationSeconds *int   `json:"roundDurationSeconds"`
}

type sendMessageRequest struct {
	RoomCode string `json:"roomCode" binding:"required,roomcode"`
	Text     string `json:"text" binding:"required"`
}

type castVoteRequest struct {
	RoomCode string `json:"roomCode" binding:"required,roomcode"`
	TargetID string `json:"targetId" binding:"required"`
}

type createRoomRequest struct {
	MaxParticipants      int `json:"maxParticipants" binding:"omitempty,min=3,max=5"`
	RoundDurationSeconds int `json:"roundDurationSeconds" binding:"omitempty,roundseconds"`
}

type EventPayload struct {
	Nickname             string `json:"nickname,omitempty"`
	Phase                string `json:"phase,omitempty"`
	Reason               string `json:"reason,omitempty"`
	Theme                string `json:"theme,omitempty"`
	Question             string `json:"question,omitempty"`
	Participants         int    `json:"participants,omitempty"`
	MaxParticipants      int    `json:"max_participants,omitempty"`
	RoundDurationSeconds int    `json:"round_duration_seconds,omitempty"`
	VotesCast            int    `json:"votes_cast,omitempty"`
	AIParticipantLabel   string `json:"ai_participant_label,omitempty"`
	VotedOutLabel        string `json:"voted_out_label,omitempty"`
	PlayersWin           *bool  `json:"players_win,omitempty"`
}
