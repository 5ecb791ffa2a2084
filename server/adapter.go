package server

import (
	"io"
	"log/slog"
	nethttp "net/http"
	"strconv"

	"github.com/freekieb7/coyote/http"
)

// Adapter mounts a Router on a net/http server. It translates the incoming
// request into the core model and copies the resolved response back out.
type Adapter struct {
	router      *http.Router
	maxBodySize int64
	logger      *slog.Logger
}

func NewAdapter(router *http.Router, opts Options) *Adapter {
	a := &Adapter{
		router:      router,
		maxBodySize: opts.MaxBodySize,
		logger:      opts.Logger,
	}
	if a.maxBodySize == 0 {
		a.maxBodySize = DefaultMaxBodySize
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	return a
}

func (a *Adapter) ServeHTTP(w nethttp.ResponseWriter, r *nethttp.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, a.maxBodySize+1))
	if err != nil {
		nethttp.Error(w, http.StatusBadRequest.String(), nethttp.StatusBadRequest)
		return
	}
	if int64(len(payload)) > a.maxBodySize {
		nethttp.Error(w, http.StatusRequestEntityTooLarge.String(), nethttp.StatusRequestEntityTooLarge)
		return
	}

	version := http.Version(r.Proto)
	if !version.Valid() {
		version = http.Version11
	}

	var cookies *http.Jar
	if raw := r.Header.Get(http.HeaderCookie); raw != "" {
		cookies = http.ParseJar(raw)
	}

	req, err := http.NewRequest(http.RequestOptions{
		Method:  http.Method(r.Method),
		Path:    r.URL.Path,
		Version: version,
		Query:   firstValues(r.URL.Query()),
		Headers: firstValues(r.Header),
		Cookies: cookies,
		Body:    string(payload),
	})
	if err != nil {
		a.logger.Warn("rejecting request", "error", err)
		nethttp.Error(w, http.StatusBadRequest.String(), nethttp.StatusBadRequest)
		return
	}

	res := http.PrepareFrom(req)
	a.router.Dispatch(req, res)

	status, err := res.ResolvedStatus()
	if err != nil {
		a.logger.ErrorContext(r.Context(), "response not serializable", "method", req.Method(), "path", req.Path(), "error", err)
		nethttp.Error(w, http.StatusInternalServerError.String(), nethttp.StatusInternalServerError)
		return
	}

	header := w.Header()
	res.Headers().Each(func(name, value string) {
		header.Set(name, value)
	})

	body := res.Body()
	if !body.IsEmpty() {
		header.Set(http.HeaderContentType, string(body.ContentType()))
		header.Set(http.HeaderContentLength, strconv.Itoa(body.ContentLength()))
	}

	w.WriteHeader(status.Code())
	if !body.IsEmpty() && req.Method() != http.MethodHead {
		if _, err := io.WriteString(w, body.String()); err != nil {
			a.logger.Debug("writing response body failed", "error", err)
		}
	}
}
