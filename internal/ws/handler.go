package ws

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The frontend is served from arbitrary dev origins; tighten this
		// when a canonical origin exists.
		return true
	},
}

// Handler upgrades HTTP requests at the chat endpoint into WebSocket
// connections and hands them to the router.
type Handler struct {
	router *Router
}

// NewHandler creates the WebSocket endpoint handler.
func NewHandler(router *Router) *Handler {
	if router == nil {
		log.Fatal("WS_HANDLER_FATAL: Router cannot be nil in NewHandler")
	}
	return &Handler{router: router}
}

// ServeWS upgrades the connection and starts the client's pumps. The
// connection stays anonymous until it sends an identify frame.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		log.Printf("WS_HANDLER_ERROR: Failed to upgrade connection from %s: %v", r.RemoteAddr, err)
		return
	}

	client := newClient(conn, h.router)
	log.Printf("WS_HANDLER: Connection %s established from %s.", client.ID(), r.RemoteAddr)

	go client.WritePump()
	go client.ReadPump()
}
