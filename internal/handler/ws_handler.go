package handler

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/VLVrishank/revdeploy/internal/domain/entity"
	"github.com/VLVrishank/revdeploy/internal/service"
)

// PingEvent — событие жизненного цикла пинга, отправляемое подписчикам
type PingEvent struct {
	Kind string             `json:"kind"` // ping_completed | ping_failed
	Ping *entity.DevicePing `json:"ping"`
}

// PingEventBroadcaster раздаёт события пингов подключённым админ-панелям.
// Панель держит websocket-соединение вместо того, чтобы опрашивать
// GET /api/admin/pings/:id в цикле.
type PingEventBroadcaster struct {
	mu   sync.RWMutex
	subs map[chan PingEvent]struct{}
}

// NewPingEventBroadcaster создаёт новый broadcaster
func NewPingEventBroadcaster() *PingEventBroadcaster {
	return &PingEventBroadcaster{
		subs: make(map[chan PingEvent]struct{}),
	}
}

// Broadcast отправляет событие всем подписчикам. Медленный подписчик
// пропускает событие, а не тормозит остальных.
func (b *PingEventBroadcaster) Broadcast(event PingEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subs {
		select {
		case ch <- event:
		default:
		}
	}
}

// Subscribe возвращает канал событий и функцию отписки
func (b *PingEventBroadcaster) Subscribe() (chan PingEvent, func()) {
	ch := make(chan PingEvent, 16)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	return ch, func() {
		b.mu.Lock()
		delete(b.subs, ch)
		b.mu.Unlock()
	}
}

// Максимальное время жизни watch-соединения: устройства опрашивают очередь
// раз в 10 секунд, дольше минуты ждать бессмысленно
const pingWatchTimeout = 60 * time.Second

// WSHandler обрабатывает websocket-подключения админ-панели
type WSHandler struct {
	pingService *service.PingService
	broadcaster *PingEventBroadcaster
	upgrader    websocket.Upgrader
}

// NewWSHandler создаёт новый websocket-обработчик
func NewWSHandler(pingService *service.PingService, broadcaster *PingEventBroadcaster) *WSHandler {
	return &WSHandler{
		pingService: pingService,
		broadcaster: broadcaster,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Авторизация выполняется JWT-middleware до апгрейда
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// WatchPing стримит статус пинга до терминального состояния или таймаута
// GET /api/admin/pings/:id/watch
func (h *WSHandler) WatchPing(c *gin.Context) {
	pingID := c.Param("id")

	ping, err := h.pingService.GetPing(pingID)
	if err != nil {
		respondError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WSHandler] Ошибка апгрейда соединения: %v", err)
		return
	}
	defer conn.Close()

	// Подписываемся до отправки снапшота, чтобы не потерять событие в зазоре
	events, unsubscribe := h.broadcaster.Subscribe()
	defer unsubscribe()

	conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	if err := conn.WriteJSON(PingEvent{Kind: "ping_snapshot", Ping: ping}); err != nil {
		return
	}
	if ping.IsTerminal() {
		return
	}

	// Читатель нужен только чтобы заметить закрытие соединения
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	timeout := time.NewTimer(pingWatchTimeout)
	defer timeout.Stop()

	for {
		select {
		case <-done:
			return
		case <-timeout.C:
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			conn.WriteJSON(PingEvent{Kind: "ping_watch_timeout", Ping: nil})
			return
		case event := <-events:
			if event.Ping == nil || event.Ping.ID != pingID {
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteJSON(event); err != nil {
				log.Printf("[WSHandler] Ошибка отправки события: %v", err)
				return
			}
			if event.Ping.IsTerminal() {
				return
			}
		}
	}
}
