package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"abena-car-sales/services"
)

// Forwarder relays a single message to the upstream model provider
type Forwarder interface {
	Forward(ctx context.Context, message string) (string, error)
}

// Deps wires a Handler
type Deps struct {
	Inventory      *services.Inventory
	Store          *services.Store
	Conversation   *services.Conversation
	Upstream       Forwarder
	AllowedOrigins []string
	Now            func() time.Time
}

// Handler serves the chat widget, inventory, admin dashboard and proxy APIs
type Handler struct {
	inventory    *services.Inventory
	store        *services.Store
	conversation *services.Conversation
	upstream     Forwarder
	origins      map[string]bool
	allowAll     bool
	upgrader     websocket.Upgrader
	now          func() time.Time
}

// New returns a Handler for deps
func New(deps Deps) *Handler {
	h := &Handler{
		inventory:    deps.Inventory,
		store:        deps.Store,
		conversation: deps.Conversation,
		upstream:     deps.Upstream,
		origins:      make(map[string]bool),
		now:          deps.Now,
	}
	if h.now == nil {
		h.now = time.Now
	}
	for _, o := range deps.AllowedOrigins {
		if o == "*" {
			h.allowAll = true
		}
		h.origins[o] = true
	}
	if len(deps.AllowedOrigins) == 0 {
		h.allowAll = true
	}
	h.upgrader = websocket.Upgrader{CheckOrigin: h.checkOrigin}
	return h
}

// Register mounts every route on router
func (h *Handler) Register(router *gin.Engine) {
	// The proxy answers its own preflight, so the shared CORS middleware
	// skips it.
	router.Use(skipPath("/api/chat", cors.New(h.corsConfig())))
	router.Any("/api/chat", h.Proxy)

	api := router.Group("/api")
	{
		// Chat widget
		api.GET("/conversation", h.GetConversation)
		api.DELETE("/conversation", h.ClearConversation)
		api.POST("/conversation/messages", h.SendMessage)
		api.POST("/conversation/narration", h.SetNarration)

		// Bookings and session
		api.POST("/bookings/confirm", h.ConfirmBooking)
		api.POST("/session", h.StartSession)
		api.PUT("/session/user", h.UpdateUserInfo)

		// Inventory and cards
		api.GET("/cars", h.ListCars)
		api.GET("/cars/compare", h.CompareCars)
		api.GET("/cars/:id", h.GetCar)
		api.GET("/cars/:id/summary", h.GetCarSummary)

		// Admin dashboard
		admin := api.Group("/admin")
		admin.GET("/sessions", h.ListSessions)
		admin.GET("/logs", h.ListLogs)
		admin.GET("/bookings", h.ListBookings)
		admin.GET("/stats", h.GetStats)
		admin.GET("/export/json", h.ExportJSON)
		admin.GET("/export/sessions.csv", h.ExportSessionsCSV)
		admin.GET("/export/bookings.csv", h.ExportBookingsCSV)
	}

	ws := router.Group("/ws")
	{
		ws.GET("/chat", h.ChatSocket)
		ws.GET("/admin", h.AdminSocket)
	}
}

func (h *Handler) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: !h.allowAll,
		MaxAge:           12 * time.Hour,
	}
	if h.allowAll {
		cfg.AllowAllOrigins = true
		return cfg
	}
	for o := range h.origins {
		cfg.AllowOrigins = append(cfg.AllowOrigins, o)
	}
	return cfg
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	if h.allowAll {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true // non-browser clients
	}
	return h.origins[origin]
}

func skipPath(path string, mw gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == path {
			c.Next()
			return
		}
		mw(c)
	}
}
