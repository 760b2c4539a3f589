package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"jamroom/internal/app"
	"jamroom/internal/core"
	"jamroom/internal/domain"
)

const adminTokenHeader = "X-Admin-Token"

type RoomHandler struct {
	Rooms *app.RoomManager
}

// CreateRoom mints a room and hands the caller both the public room id and
// the admin token. The token is returned exactly once, here; the client is
// expected to keep it.
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var req struct {
		HostName string `json:"host_name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "host_name required"})
		return
	}

	svc, token := h.Rooms.Create(req.HostName)
	log.Info().Str("module", "adapters.httpapi").Str("room", string(svc.ID())).Msg("room created via api")
	c.JSON(http.StatusCreated, gin.H{
		"room_id":     svc.ID(),
		"admin_token": token,
	})
}

func (h *RoomHandler) PublicView(c *gin.Context) {
	svc, ok := h.Rooms.Get(domain.RoomID(c.Param("id")))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}
	c.JSON(http.StatusOK, svc.Snapshot())
}

func (h *RoomHandler) AdminView(c *gin.Context) {
	svc, ok := h.Rooms.Get(domain.RoomID(c.Param("id")))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}
	view, err := svc.AdminSnapshot(c.GetHeader(adminTokenHeader))
	if err != nil {
		if errors.Is(err, core.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
		return
	}
	c.JSON(http.StatusOK, view)
}
