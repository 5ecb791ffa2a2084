package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/freekieb7/coyote/http"
)

const (
	name = "github.com/freekieb7/coyote/server"

	DefaultReadBufferSize  = 4096
	DefaultWriteBufferSize = 4096
	DefaultMaxBodySize     = 2 * 1024 * 1024
	DefaultReadTimeout     = 10 * time.Second
)

var ErrServerClosed = errors.New("server: closed")

type Options struct {
	ReadTimeout time.Duration
	MaxBodySize int64
	Logger      *slog.Logger
}

// Server accepts TCP connections and answers exactly one request per
// connection, each on its own goroutine.
type Server struct {
	router      *http.Router
	readTimeout time.Duration
	maxBodySize int64
	logger      *slog.Logger

	pool *WorkerPool

	tracer   trace.Tracer
	requests metric.Int64Counter
	duration metric.Float64Histogram

	mu       sync.Mutex
	listener net.Listener
	closed   bool
	conns    sync.WaitGroup
}

func New(router *http.Router, opts Options) (*Server, error) {
	s := &Server{
		router:      router,
		readTimeout: opts.ReadTimeout,
		maxBodySize: opts.MaxBodySize,
		logger:      opts.Logger,
		pool:        NewWorkerPool(),
		tracer:      otel.Tracer(name),
	}
	if s.readTimeout == 0 {
		s.readTimeout = DefaultReadTimeout
	}
	if s.maxBodySize == 0 {
		s.maxBodySize = DefaultMaxBodySize
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	meter := otel.Meter(name)

	var err error
	s.requests, err = meter.Int64Counter("server.requests",
		metric.WithDescription("The number of answered requests by status code"),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, fmt.Errorf("server: creating request counter: %w", err)
	}

	s.duration, err = meter.Float64Histogram("server.request.duration",
		metric.WithDescription("Time from reading a request to writing its response"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("server: creating duration histogram: %w", err)
	}

	return s, nil
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listener)
}

// Serve accepts connections on listener until Shutdown is called or ctx is
// done. It returns ErrServerClosed after a shutdown.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		listener.Close()
		return ErrServerClosed
	}
	s.listener = listener
	s.mu.Unlock()

	stop := context.AfterFunc(ctx, func() {
		s.closeListener()
	})
	defer stop()

	s.logger.Info("listening", "addr", listener.Addr().String())

	for {
		conn, err := listener.Accept()
		if err != nil {
			if s.isClosed() || ctx.Err() != nil {
				return ErrServerClosed
			}

			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				s.logger.Warn("accepting connection failed", "error", err)
				continue
			}
			return err
		}

		if !s.track() {
			conn.Close()
			return ErrServerClosed
		}
		go func() {
			defer s.conns.Done()
			s.ServeConn(ctx, conn)
		}()
	}
}

// ServeConn reads one request from conn, dispatches it and writes the
// serialized response. The connection is always closed afterwards.
func (s *Server) ServeConn(ctx context.Context, conn net.Conn) {
	defer func() {
		if err := conn.Close(); err != nil {
			s.logger.Debug("closing connection failed", "error", err)
		}
	}()

	if err := conn.SetReadDeadline(time.Now().Add(s.readTimeout)); err != nil {
		s.logger.Debug("setting read deadline failed", "error", err)
	}

	connCtx := s.pool.Acquire(conn)
	defer s.pool.Release(connCtx)

	br, bw := connCtx.ConnReader, connCtx.ConnWriter

	start := time.Now()

	req, err := ReadRequest(br, s.maxBodySize)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return
		}

		status := http.StatusBadRequest
		if errors.Is(err, ErrBodyTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		s.logger.Warn("reading request failed", "remote", conn.RemoteAddr().String(), "error", err)
		s.write(bw, fallback(http.Version11, status))
		return
	}

	ctx, span := s.tracer.Start(ctx, string(req.Method())+" "+req.Path(),
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("http.request.method", string(req.Method())),
			attribute.String("url.path", req.Path()),
			attribute.String("network.protocol.version", string(req.Version())),
		),
	)
	defer span.End()

	data, status := s.handle(ctx, req)
	span.SetAttributes(attribute.Int("http.response.status_code", status.Code()))
	if status >= http.StatusInternalServerError {
		span.SetStatus(codes.Error, status.Reason())
	}

	s.write(bw, data)

	attrs := metric.WithAttributes(
		attribute.String("http.request.method", string(req.Method())),
		attribute.Int("http.response.status_code", status.Code()),
	)
	s.requests.Add(ctx, 1, attrs)
	s.duration.Record(ctx, time.Since(start).Seconds(), attrs)

	s.logger.InfoContext(ctx, "request served",
		"method", req.Method(),
		"path", req.Path(),
		"status", status.Code(),
	)
}

func (s *Server) handle(ctx context.Context, req *http.Request) ([]byte, http.Status) {
	res := http.PrepareFrom(req)
	s.router.Dispatch(req, res)
	if err := res.AddHeader("Connection", "close"); err != nil {
		s.logger.ErrorContext(ctx, "adding connection header failed", "error", err)
	}

	status, err := res.ResolvedStatus()
	if err != nil {
		s.logger.ErrorContext(ctx, "response not serializable", "method", req.Method(), "path", req.Path(), "error", err)
		trace.SpanFromContext(ctx).RecordError(err)
		return fallback(req.Version(), http.StatusInternalServerError), http.StatusInternalServerError
	}

	build := res.Build
	if req.Method() == http.MethodHead {
		build = res.BuildHead
	}

	data, err := build()
	if err != nil {
		s.logger.ErrorContext(ctx, "building response failed", "error", err)
		return fallback(req.Version(), http.StatusInternalServerError), http.StatusInternalServerError
	}
	return data, status
}

func (s *Server) write(bw *bufio.Writer, data []byte) {
	if _, err := bw.Write(data); err != nil {
		s.logger.Debug("writing response failed", "error", err)
		return
	}
	if err := bw.Flush(); err != nil {
		s.logger.Debug("flushing response failed", "error", err)
	}
}

// Shutdown stops accepting connections and waits for in-flight ones until
// ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	s.closeListener()

	done := make(chan struct{})
	go func() {
		s.conns.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Server) closeListener() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	if s.listener != nil {
		if err := s.listener.Close(); err != nil {
			s.logger.Debug("closing listener failed", "error", err)
		}
	}
}

// track registers an accepted connection unless the server is closed. The
// check and the Add happen under the same lock as closeListener, so Shutdown
// never waits on a counter that can still grow.
func (s *Server) track() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	s.conns.Add(1)
	return true
}

func (s *Server) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.closed
}

// fallback renders a fixed response that cannot fail to serialize.
func fallback(version http.Version, status http.Status) []byte {
	res, err := http.NewResponse(http.ResponseOptions{
		Version: version,
		Status:  status,
		Body:    http.TextBody(status.String()),
		Headers: map[string]string{"Connection": "close"},
	})
	if err != nil {
		panic(err)
	}

	data, err := res.Build()
	if err != nil {
		panic(err)
	}
	return data
}
