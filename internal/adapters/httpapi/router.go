package httpapi

import (
	"context"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"jamroom/internal/adapters/signal"
	"jamroom/internal/app"
	"jamroom/internal/config"
	"jamroom/internal/core"
)

// ClientTokenMiddleware pins a stable opaque id to each browser. The id
// feeds session tracking and the enqueue rate limiter; it grants nothing.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = uuid.NewString()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

func SetupRouter(
	ctx context.Context,
	cfg *config.Config,
	rooms *app.RoomManager,
	hub *app.Hub,
	provider core.SearchProvider,
) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("JamroomSessions", store))
	r.Use(ClientTokenMiddleware())

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})

	log.Info().Str("module", "adapters.httpapi").Str("static", cfg.StaticPath).Msg("router setup")

	roomHandler := &RoomHandler{Rooms: rooms}
	searchHandler := &SearchHandler{Provider: provider}
	wsCtl := signal.NewController(rooms, hub, cfg)

	api := r.Group("/api")
	api.POST("/rooms", roomHandler.CreateRoom)
	api.GET("/rooms/:id", roomHandler.PublicView)
	api.GET("/rooms/:id/admin", roomHandler.AdminView)
	api.GET("/search", searchHandler.Search)
	api.GET("/ws", func(c *gin.Context) {
		wsCtl.HandleWS(ctx, c)
	})

	return r
}
