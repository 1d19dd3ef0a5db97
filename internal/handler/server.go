package handler

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"sync"
	"time"

	"clinic-booking/internal/pkg/config"
	"clinic-booking/internal/usecase/commands"
)

// Server accepts client connections and runs one Worker per connection,
// bounded by a fixed-size slot pool. Shutdown stops accepting, unblocks every
// worker so it can send its Stop notification, and waits for them to drain.
type Server struct {
	addr     string
	commands commands.BookingCommands
	logger   *slog.Logger

	listener net.Listener
	cancel   context.CancelFunc
	slots    chan struct{}
	wg       sync.WaitGroup

	mu    sync.Mutex
	conns map[net.Conn]struct{}
}

func NewServer(cfg config.Config, bookingCommands commands.BookingCommands, logger *slog.Logger) *Server {
	return &Server{
		addr:     ":" + cfg.Server.Port,
		commands: bookingCommands,
		logger:   logger,
		slots:    make(chan struct{}, cfg.Server.MaxWorkers),
		conns:    make(map[net.Conn]struct{}),
	}
}

func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.listener = listener

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.logger.Info("Accepting connections", slog.String("addr", s.addr))
	go s.acceptLoop(ctx)
	return nil
}

// Addr returns the bound listen address, useful when the port was ":0".
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

func (s *Server) acceptLoop(ctx context.Context) {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) || ctx.Err() != nil {
				return
			}
			s.logger.Error("Accept failed", slog.String("error", err.Error()))
			return
		}

		select {
		case s.slots <- struct{}{}:
		case <-ctx.Done():
			conn.Close()
			return
		}

		s.track(conn)
		s.wg.Add(1)
		go func() {
			defer func() {
				s.untrack(conn)
				<-s.slots
				s.wg.Done()
			}()
			NewWorker(conn, s.commands, s.logger).Run(ctx)
		}()
	}
}

// Shutdown cancels the workers, wakes any blocked reads so each worker can
// emit its Stop notification, closes the listener, and waits for the workers
// to finish their in-flight message.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}
	if s.listener != nil {
		s.listener.Close()
	}

	s.mu.Lock()
	for conn := range s.conns {
		conn.SetReadDeadline(time.Now())
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		s.logger.Info("All workers drained")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Server) track(conn net.Conn) {
	s.mu.Lock()
	s.conns[conn] = struct{}{}
	s.mu.Unlock()
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
}
