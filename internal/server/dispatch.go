package server

import (
	"errors"

	"spot-the-bot/internal/game"
	"spot-the-bot/internal/metrics"
)

const genericError = "Something went wrong"

// publicErrors maps rejections to the text shown to the player. Anything
// else is reported as genericError.
var publicErrors = []struct {
	err     error
	message string
}{
	{game.ErrRoomNotFound, "Room not found"},
	{game.ErrAlreadyStarted, "Game already started"},
	{game.ErrRoomFull, "This room is full."},
	{game.ErrNotHost, "Only the host can do that"},
	{game.ErrNotParticipant, "You are not in this room"},
	{game.ErrWrongPhase, "Not allowed right now"},
	{game.ErrNotEnoughPlayers, "Need at least 2 players to start"},
	{game.ErrInvalidTarget, "Unknown vote target"},
	{game.ErrEmptyMessage, "Message is empty"},
}

func (s *Server) dispatch(client *wsClient, env envelope) {
	ctx := s.ctx
	var err error
	switch env.Event {
	case eventJoinRoom:
		var req joinRoomRequest
		if err = s.bindEvent(client, env, &req); err != nil {
			return
		}
		code := game.NormalizeCode(req.RoomCode)
		nickname, _ := validateNickname(req.Nickname)
		if _, err = s.JoinRoom(ctx, client.id, code, nickname); err != nil {
			break
		}
		// The previous room is only left once the new seat is secured.
		if prev := client.currentRoom(); prev != "" && prev != code {
			if leaveErr := s.LeaveRoom(ctx, client.id, prev); leaveErr != nil && !errors.Is(leaveErr, game.ErrRoomNotFound) {
				s.log.Debug().Err(leaveErr).Str("conn", client.id).Str("room", prev).Msg("leave previous room")
			}
		}
		client.setRoom(code)
	case eventLeaveRoom:
		var req roomRequest
		if err = s.bindEvent(client, env, &req); err != nil {
			return
		}
		code := game.NormalizeCode(req.RoomCode)
		err = s.LeaveRoom(ctx, client.id, code)
		if client.currentRoom() == code {
			client.setRoom("")
		}
		if errors.Is(err, game.ErrNotParticipant) {
			err = nil
		}
	case eventUpdateSettings:
		var req settingsRequest
		if err = s.bindEvent(client, env, &req); err != nil {
			return
		}
		err = s.UpdateSettings(ctx, client.id, req.RoomCode, game.Settings{
			MaxParticipants:      req.MaxParticipants,
			RoundDurationSeconds: req.RoundDurationSeconds,
		})
	case eventStartGame:
		var req roomRequest
		if err = s.bindEvent(client, env, &req); err != nil {
			return
		}
		err = s.StartGame(ctx, client.id, req.RoomCode)
	case eventSendMessage:
		var req sendMessageRequest
		if err = s.bindEvent(client, env, &req); err != nil {
			return
		}
		err = s.PostMessage(ctx, client.id, req.RoomCode, req.Text)
	case eventCastVote:
		var req castVoteRequest
		if err = s.bindEvent(client, env, &req); err != nil {
			return
		}
		err = s.CastVote(ctx, client.id, req.RoomCode, req.TargetID)
	case eventMarkReady:
		var req roomRequest
		if err = s.bindEvent(client, env, &req); err != nil {
			return
		}
		err = s.MarkReady(ctx, client.id, req.RoomCode)
	default:
		metrics.Rejections.WithLabelValues("unknown").Inc()
		s.hub.Send(client.id, eventError, "Unknown event")
		return
	}
	s.reply(client, env.Event, err)
}

func (s *Server) bindEvent(client *wsClient, env envelope, req any) error {
	err := bindEvent(env.Data, req)
	if err == nil {
		return nil
	}
	metrics.Rejections.WithLabelValues(env.Event).Inc()
	s.hub.Send(client.id, eventError, resolveBindError(err, eventMessages, "Invalid message"))
	return err
}

// reply reports a rejected operation back to the caller only. Silent
// rejections produce nothing.
func (s *Server) reply(client *wsClient, event string, err error) {
	if err == nil || game.Silent(err) {
		return
	}
	metrics.Rejections.WithLabelValues(event).Inc()
	s.hub.Send(client.id, eventError, publicMessage(err))
	s.log.Debug().Err(err).Str("conn", client.id).Str("event", event).Msg("event rejected")
}

func publicMessage(err error) string {
	for _, known := range publicErrors {
		if errors.Is(err, known.err) {
			return known.message
		}
	}
	return genericError
}
