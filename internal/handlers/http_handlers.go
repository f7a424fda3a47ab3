package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/logger"

	"powerball/internal/models"
	"powerball/internal/services"
)

// HTTPHandler holds the dependencies for the HTTP handlers.
type HTTPHandler struct {
	game          *services.Game
	hub           *Hub
	adminPassword string
}

// NewHTTPHandler creates a new HTTPHandler.
func NewHTTPHandler(game *services.Game, hub *Hub, adminPassword string) *HTTPHandler {
	return &HTTPHandler{
		game:          game,
		hub:           hub,
		adminPassword: adminPassword,
	}
}

// RegisterRoutes registers all the application routes.
func (h *HTTPHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/api/join", h.Join)
	router.GET("/api/quickpick", h.QuickPick)
	router.GET("/api/state", h.State)
	router.POST("/api/million/ack", h.AckMillionFlash)
	router.POST("/api/admin/remove", h.AdminRemove)
	router.POST("/api/admin/reset", h.AdminReset)
	router.POST("/api/admin/speed", h.AdminSetSpeed)
	router.POST("/api/admin/resume", h.AdminResume)
	router.GET("/ws", h.ServeWS)
}

type joinRequest struct {
	Name      string `json:"name"`
	Numbers   []int  `json:"numbers"`
	Powerball int    `json:"powerball"`
}

type adminRequest struct {
	Password string `json:"password"`
	PlayerID string `json:"player_id"`
	Speed    int    `json:"speed"`
}

// Join handles player registration.
func (h *HTTPHandler) Join(c *gin.Context) {
	var req joinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	playerID, err := h.game.Join(strings.TrimSpace(req.Name), req.Numbers, req.Powerball)
	if err != nil {
		var vErr *models.ValidationError
		switch {
		case errors.Is(err, services.ErrGameFull):
			c.JSON(http.StatusOK, gin.H{"success": false, "error": err.Error()})
		case errors.As(err, &vErr):
			c.JSON(http.StatusOK, gin.H{"success": false, "error": vErr.Message})
		default:
			logger.Errorf("join: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal error"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "player_id": playerID})
}

// QuickPick generates a random valid ticket without touching game state.
func (h *HTTPHandler) QuickPick(c *gin.Context) {
	whites, powerball := models.QuickPick()
	c.JSON(http.StatusOK, gin.H{"numbers": whites, "powerball": powerball})
}

// State returns the current game snapshot.
func (h *HTTPHandler) State(c *gin.Context) {
	c.JSON(http.StatusOK, h.game.Snapshot())
}

// AckMillionFlash lets the display acknowledge the one-shot million-plus
// win effect.
func (h *HTTPHandler) AckMillionFlash(c *gin.Context) {
	h.game.ClearMillionFlash()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// authorized checks the shared admin secret. Mismatch rejects the request.
func (h *HTTPHandler) authorized(c *gin.Context, password string) bool {
	if password != h.adminPassword {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid password"})
		return false
	}
	return true
}

// AdminRemove removes a player (admin only).
func (h *HTTPHandler) AdminRemove(c *gin.Context) {
	var req adminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}
	if !h.authorized(c, req.Password) {
		return
	}
	if !h.game.Remove(req.PlayerID) {
		c.JSON(http.StatusOK, gin.H{"success": false, "error": "Player not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// AdminReset resets the entire game (admin only).
func (h *HTTPHandler) AdminReset(c *gin.Context) {
	var req adminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}
	if !h.authorized(c, req.Password) {
		return
	}
	h.game.Reset()
	logger.Infof("game reset by admin")
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// AdminSetSpeed sets the drawings-per-second rate (admin only).
func (h *HTTPHandler) AdminSetSpeed(c *gin.Context) {
	var req adminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}
	if !h.authorized(c, req.Password) {
		return
	}
	h.game.SetSpeed(req.Speed)
	c.JSON(http.StatusOK, gin.H{"success": true, "speed": h.game.Snapshot().Speed})
}

// AdminResume resumes the game after a jackpot celebration (admin only).
func (h *HTTPHandler) AdminResume(c *gin.Context) {
	var req adminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}
	if !h.authorized(c, req.Password) {
		return
	}
	h.game.ResumeAfterJackpot()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ServeWS upgrades the connection and hands it to the push hub.
func (h *HTTPHandler) ServeWS(c *gin.Context) {
	h.hub.Serve(c.Writer, c.Request)
}
