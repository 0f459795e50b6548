package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type bindMessages map[string]map[string]string

var roomCodeMessages = bindMessages{
	"RoomCode": {"required": "Room code is required", "roomcode": "Room not found"},
	"Code":     {"required": "Room code is required", "roomcode": "Room not found"},
}

var eventMessages = bindMessages{
	"RoomCode": roomCodeMessages["RoomCode"],
	"Nickname": {"required": "Nickname is required", "nickname": "Nickname must be 1-20 characters"},
	"Text":     {"required": "Message is empty"},
	"TargetID": {"required": "Unknown vote target"},
}

var createRoomMessages = bindMessages{
	"MaxParticipants":      {"min": "Rooms hold 3 to 5 players", "max": "Rooms hold 3 to 5 players"},
	"RoundDurationSeconds": {"roundseconds": "Unsupported round duration"},
}

func bindJSON(c *gin.Context, req any, messages bindMessages, fallback string) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		writeError(c, http.StatusBadRequest, resolveBindError(err, messages, fallback))
		return false
	}
	return true
}

func bindURI(c *gin.Context, req any) bool {
	if err := c.ShouldBindUri(req); err != nil {
		writeError(c, http.StatusNotFound, resolveBindError(err, roomCodeMessages, "Room not found"))
		return false
	}
	return true
}

func bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid query")
		return false
	}
	return true
}

// bindEvent decodes and validates a websocket event payload with the same
// validator gin uses for HTTP bodies.
func bindEvent(data []byte, req any) error {
	if err := readJSON(data, req); err != nil {
		return err
	}
	return binding.Validator.ValidateStruct(req)
}

func resolveBindError(err error, messages bindMessages, fallback string) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, verr := range verrs {
			if fieldMsgs, ok := messages[verr.Field()]; ok {
				if msg, ok := fieldMsgs[verr.Tag()]; ok {
					return msg
				}
			}
		}
	}
	if fallback != "" {
		return fallback
	}
	return "invalid request"
}
