package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"

	"github.com/yourusername/orion-api/internal/middleware"
	"github.com/yourusername/orion-api/internal/websocket"
	"github.com/yourusername/orion-api/pkg/auth"
)

// WSHandler обрабатывает WebSocket соединения для live-обновлений лидерборда
type WSHandler struct {
	hub        *websocket.Hub
	jwtService *auth.JWTService
	upgrader   gorillaws.Upgrader
}

// NewWSHandler создает новый WebSocket обработчик.
// allowedOrigins должен быть синхронизирован с CORS-конфигурацией в main.go.
func NewWSHandler(hub *websocket.Hub, jwtService *auth.JWTService, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		hub:        hub,
		jwtService: jwtService,
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")

				// Пустой Origin — не браузерный клиент, разрешаем
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if origin == allowed {
						return true
					}
				}

				log.Printf("[WebSocket] Отклонён недоверенный origin: %s", origin)
				return false
			},
		},
	}
}

// HandleConnection обрабатывает входящее WebSocket соединение.
// Токен берется из куки или из query-параметра token.
func (h *WSHandler) HandleConnection(c *gin.Context) {
	token, err := c.Cookie(middleware.AuthCookieName)
	if err != nil || token == "" {
		token = c.Query("token")
	}
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing authentication token"})
		return
	}

	claims, err := h.jwtService.ParseToken(token)
	if err != nil {
		log.Printf("[WebSocket] Недействительный токен: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WebSocket] Ошибка upgrade: %v", err)
		return
	}

	client := websocket.NewClient(h.hub, conn, claims.UserID)
	client.StartPumps()
}
