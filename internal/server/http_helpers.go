package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

var errEmptyPayload = errors.New("empty payload")

func readJSON(data []byte, dest any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return errEmptyPayload
	}
	return json.NewDecoder(bytes.NewReader(data)).Decode(dest)
}

func writeJSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

func writeError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error": message,
	})
}

func notFound(c *gin.Context) {
	writeError(c, http.StatusNotFound, "Room not found")
}
