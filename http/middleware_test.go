package http

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/freekieb7/coyote/test"
)

func TestRecoverMiddleware(t *testing.T) {
	router := newTestRouter(nil)
	router.Use(RecoverMiddleware(discardLogger()))
	router.Get("/boom", func(req *Request, res *Response) {
		panic("boom")
	})

	res := dispatch(t, router, MethodGet, "/boom")

	status, _ := res.Status()
	test.AssertEqual(t, StatusInternalServerError, status)
	test.AssertEqual(t, "something went wrong", res.Body().String())
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	router := newTestRouter(nil)
	router.Use(LoggingMiddleware(logger))
	router.Get("/", func(req *Request, res *Response) {
		res.SetStatus(StatusAccepted)
	})

	dispatch(t, router, MethodGet, "/")

	test.AssertContains(t, buf.String(), "handled request")
	test.AssertContains(t, buf.String(), "status=202")
	test.AssertContains(t, buf.String(), "path=/")
}
