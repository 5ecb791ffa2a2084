package http

import (
	"log/slog"
	"time"
)

type Middleware func(next HandlerFunc) HandlerFunc

// RecoverMiddleware turns a panicking handler into a 500 response.
func RecoverMiddleware(logger *slog.Logger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(req *Request, res *Response) {
			defer func() {
				if recovered := recover(); recovered != nil {
					logger.Error("handler panicked", "method", req.Method(), "path", req.Path(), "panic", recovered)

					res.SetStatus(StatusInternalServerError)
					res.SetBody(TextBody("something went wrong"))
				}
			}()

			next(req, res)
		}
	}
}

func LoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(req *Request, res *Response) {
			start := time.Now()
			next(req, res)

			status, _ := res.Status()
			logger.Debug("handled request",
				"method", req.Method(),
				"path", req.Path(),
				"status", status.Code(),
				"duration", time.Since(start),
			)
		}
	}
}
