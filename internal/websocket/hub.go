package websocket

import (
	"encoding/json"
	"log"
)

// Event — сообщение, рассылаемое клиентам
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub управляет активными WebSocket клиентами и рассылкой событий
type Hub struct {
	// Активные клиенты по соединениям
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
}

// NewHub создает новый хаб
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
	}
}

// Run запускает основной цикл хаба. Вызывается в отдельной горутине.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			log.Printf("[WebSocket] Клиент подключен (UserID: %d, Conn: %s), всего: %d",
				client.UserID, client.ConnectionID, len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				log.Printf("[WebSocket] Клиент отключен (UserID: %d, Conn: %s), всего: %d",
					client.UserID, client.ConnectionID, len(h.clients))
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Буфер клиента переполнен, отключаем его
					delete(h.clients, client)
					close(client.send)
					log.Printf("[WebSocket] Клиент %d отключен из-за переполнения буфера", client.UserID)
				}
			}

		case <-h.done:
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			log.Println("[WebSocket] Хаб остановлен")
			return
		}
	}
}

// Close останавливает цикл хаба и отключает всех клиентов
func (h *Hub) Close() {
	close(h.done)
}

// BroadcastEvent сериализует событие и рассылает его всем клиентам
func (h *Hub) BroadcastEvent(eventType string, data interface{}) error {
	message, err := json.Marshal(Event{Type: eventType, Data: data})
	if err != nil {
		return err
	}

	select {
	case h.broadcast <- message:
		return nil
	default:
		log.Printf("[WebSocket] Канал рассылки переполнен, событие %s отброшено", eventType)
		return nil
	}
}
