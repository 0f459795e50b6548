package server

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/skip2/go-qrcode"

	"spot-the-bot/internal/game"
	"spot-the-bot/internal/metrics"
	"spot-the-bot/internal/web"
)

const defaultQRSize = 256

type roomURI struct {
	Code string `uri:"code" binding:"required,roomcode"`
}

type qrQuery struct {
	Size int `form:"size" binding:"omitempty,min=128,max=1024"`
}

func (s *Server) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	router.GET("/", s.handleHome)
	router.GET("/healthz", s.handleHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/ws", s.handleWebsocket)

	api := router.Group("/api")
	api.POST("/rooms", s.handleCreateRoom)
	api.GET("/rooms/:code", s.handleGetRoom)
	api.GET("/rooms/:code/qr", s.handleRoomQR)
	return router
}

func (s *Server) handleHealth(c *gin.Context) {
	writeJSON(c, http.StatusOK, gin.H{
		"status": "ok",
		"rooms":  s.rooms.len(),
	})
}

func (s *Server) handleCreateRoom(c *gin.Context) {
	if !s.limits.allowCreate(c.ClientIP(), s.now()) {
		metrics.RateLimitHits.WithLabelValues("create_room").Inc()
		writeError(c, http.StatusTooManyRequests, "Too many rooms created, try again shortly")
		return
	}
	var req createRoomRequest
	if c.Request.ContentLength != 0 {
		if !bindJSON(c, &req, createRoomMessages, "invalid room settings") {
			return
		}
	}
	room, err := s.CreateRoom(c.Request.Context(), req.MaxParticipants, req.RoundDurationSeconds)
	if err != nil {
		s.log.Error().Err(err).Msg("create room failed")
		writeError(c, http.StatusInternalServerError, "Could not create room")
		return
	}
	writeJSON(c, http.StatusCreated, gin.H{
		"roomCode":             room.Code,
		"maxParticipants":      room.MaxParticipants,
		"roundDurationSeconds": room.RoundDurationSeconds,
		"joinUrl":              s.joinURL(room.Code),
	})
}

func (s *Server) handleGetRoom(c *gin.Context) {
	var uri roomURI
	if !bindURI(c, &uri) {
		return
	}
	room, err := s.Room(c.Request.Context(), uri.Code)
	if err != nil {
		s.roomLookupError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, roomSummary(room))
}

func (s *Server) handleRoomQR(c *gin.Context) {
	var uri roomURI
	if !bindURI(c, &uri) {
		return
	}
	var query qrQuery
	if !bindQuery(c, &query) {
		return
	}
	room, err := s.Room(c.Request.Context(), uri.Code)
	if err != nil {
		s.roomLookupError(c, err)
		return
	}
	size := query.Size
	if size == 0 {
		size = defaultQRSize
	}
	png, err := qrcode.Encode(s.joinURL(room.Code), qrcode.Medium, size)
	if err != nil {
		s.log.Error().Err(err).Str("room", room.Code).Msg("qr generation failed")
		writeError(c, http.StatusInternalServerError, "qr generation failed")
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func (s *Server) roomLookupError(c *gin.Context, err error) {
	if errors.Is(err, game.ErrRoomNotFound) {
		notFound(c)
		return
	}
	s.log.Error().Err(err).Msg("room lookup failed")
	writeError(c, http.StatusInternalServerError, genericError)
}

func (s *Server) joinURL(code string) string {
	base := strings.TrimRight(s.cfg.PublicURL, "/")
	return base + "/?room=" + url.QueryEscape(code)
}

func roomSummary(room *game.Room) web.RoomSummary {
	return web.RoomSummary{
		Code:                 room.Code,
		Phase:                string(room.Phase),
		Players:              len(room.Participants),
		MaxParticipants:      room.MaxParticipants,
		RoundDurationSeconds: room.RoundDurationSeconds,
		Joinable:             room.Phase == game.PhaseLobby && len(room.Participants) < room.MaxParticipants,
	}
}
