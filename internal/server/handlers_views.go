package server

import (
	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"

	"spot-the-bot/internal/game"
	"spot-the-bot/internal/web"
)

type homeQuery struct {
	Room string `form:"room"`
}

func (s *Server) handleHome(c *gin.Context) {
	var query homeQuery
	_ = c.ShouldBindQuery(&query)
	code := game.NormalizeCode(query.Room)
	if !validRoomCode(code) {
		code = ""
	}
	maxOptions := make([]int, 0, game.MaxParticipants-game.MinParticipants+1)
	for n := game.MinParticipants; n <= game.MaxParticipants; n++ {
		maxOptions = append(maxOptions, n)
	}
	templ.Handler(web.Home(web.HomePage{
		RoomCode:     code,
		RoundOptions: game.AllowedRoundDurations,
		MaxOptions:   maxOptions,
	})).ServeHTTP(c.Writer, c.Request)
}
