package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/deyvinz/connect44fx/internal/entity"
	"github.com/deyvinz/connect44fx/internal/usecase"
)

type gameService interface {
	Snapshot() entity.Snapshot
	PrepareNextRound(ctx context.Context) (entity.Snapshot, error)
	StartRound(ctx context.Context) error
	SubmitColumn(ctx context.Context, column int) error
	AddListener(listener func(usecase.Event))
}

type Server struct {
	logger   *slog.Logger
	service  gameService
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

func New(logger *slog.Logger, service gameService) *Server {
	that := &Server{
		logger:  logger.With("component", "websocket"),
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}

	service.AddListener(that.broadcast)

	return that
}

// Start - starts the WebSocket server and shuts it down when ctx ends.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", that.handleWS)

	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) handleWS(writer http.ResponseWriter, req *http.Request) {
	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		that.logger.Error("failed to upgrade connection", "error", err)
		return
	}

	cl := &client{conn: conn, send: make(chan []byte, 32)}

	that.mu.Lock()
	that.clients[cl] = struct{}{}
	that.mu.Unlock()

	that.logger.Info("client connected", "remote", conn.RemoteAddr().String())

	go that.writeLoop(cl)
	that.sendSnapshot(cl)
	that.readLoop(req.Context(), cl)
}

func (that *Server) readLoop(ctx context.Context, cl *client) {
	defer that.drop(cl)

	for {
		_, raw, err := cl.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				that.logger.Info("client read failed", "error", err)
			}
			return
		}

		var message Message
		if err = json.Unmarshal(raw, &message); err != nil {
			that.sendError(cl, "malformed message")
			continue
		}

		that.dispatch(ctx, cl, &message)
	}
}

func (that *Server) writeLoop(cl *client) {
	for payload := range cl.send {
		if err := cl.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}

func (that *Server) drop(cl *client) {
	that.mu.Lock()
	if _, ok := that.clients[cl]; ok {
		delete(that.clients, cl)
		close(cl.send)
	}
	that.mu.Unlock()

	_ = cl.conn.Close()
}

// broadcast fans a match event out to every connected client. Clients that
// cannot keep up lose events rather than stall the match.
func (that *Server) broadcast(event usecase.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		that.logger.Error("failed to marshal event", "error", err)
		return
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	for cl := range that.clients {
		select {
		case cl.send <- payload:
		default:
		}
	}
}
