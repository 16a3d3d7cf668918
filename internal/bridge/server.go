package bridge

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

// Server exposes the bridge over websocket. Each text frame holds one JSON
// Request and is answered with one JSON Response.
type Server struct {
	send     Sender
	log      *log.Logger
	timeout  time.Duration
	upgrader websocket.Upgrader

	http *http.Server
	ln   net.Listener
}

func NewServer(send Sender, logger *log.Logger, timeout time.Duration) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Server{
		send:    send,
		log:     logger,
		timeout: timeout,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade", "remote", r.RemoteAddr, "err", err)
		return
	}
	defer conn.Close()
	s.log.Info("bridge client connected", "remote", r.RemoteAddr)

	for {
		var req Request
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Info("bridge client left", "remote", r.RemoteAddr)
			} else {
				s.log.Warn("bridge read", "remote", r.RemoteAddr, "err", err)
			}
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
		resp, err := Do(ctx, s.send, req)
		cancel()
		if err != nil {
			resp.Error = err.Error()
		}
		s.log.Debug("bridge request", "id", resp.ID, "op", req.Op, "ok", resp.OK)
		if err := conn.WriteJSON(resp); err != nil {
			s.log.Warn("bridge write", "remote", r.RemoteAddr, "err", err)
			return
		}
	}
}

// Listen starts serving on addr in the background and returns the bound
// address, which matters when addr asks for port 0.
func (s *Server) Listen(addr string) (net.Addr, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	mux.Handle("/ws", s)
	s.ln = ln
	s.http = &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("bridge serve", "err", err)
		}
	}()
	s.log.Info("bridge listening", "addr", ln.Addr().String())
	return ln.Addr(), nil
}

func (s *Server) Close() error {
	if s.http == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	return s.http.Shutdown(ctx)
}
