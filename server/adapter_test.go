package server

import (
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/freekieb7/coyote/http"
	"github.com/freekieb7/coyote/test"
)

func TestAdapter(t *testing.T) {
	adapter := NewAdapter(newTestRouter(), Options{Logger: discardLogger()})

	rec := httptest.NewRecorder()
	adapter.ServeHTTP(rec, httptest.NewRequest(nethttp.MethodGet, "/", nil))

	test.AssertEqual(t, nethttp.StatusOK, rec.Code)
	test.AssertEqual(t, "text/plain;charset=utf-8", rec.Header().Get("Content-Type"))
	test.AssertEqual(t, "12", rec.Header().Get("Content-Length"))
	test.AssertEqual(t, "Hello world!", rec.Body.String())
}

func TestAdapterPost(t *testing.T) {
	adapter := NewAdapter(newTestRouter(), Options{Logger: discardLogger()})

	rec := httptest.NewRecorder()
	adapter.ServeHTTP(rec, httptest.NewRequest(nethttp.MethodPost, "/echo", strings.NewReader("ping")))

	test.AssertEqual(t, nethttp.StatusOK, rec.Code)
	test.AssertEqual(t, "ping", rec.Body.String())
}

func TestAdapterRedirectAndCookies(t *testing.T) {
	router := http.NewRouter(http.RouterOptions{Logger: discardLogger()})
	router.Get("/login", func(req *http.Request, res *http.Response) {
		id, _ := req.Cookie("JSESSIONID")
		test.AssertNoError(t, res.AddHeader("X-Session", id))
		test.AssertNoError(t, res.SendRedirect("/index.html"))
	})
	adapter := NewAdapter(router, Options{Logger: discardLogger()})

	r := httptest.NewRequest(nethttp.MethodGet, "/login", nil)
	r.Header.Set("Cookie", "JSESSIONID=abc")
	rec := httptest.NewRecorder()
	adapter.ServeHTTP(rec, r)

	test.AssertEqual(t, nethttp.StatusFound, rec.Code)
	test.AssertEqual(t, "/index.html", rec.Header().Get("Location"))
	test.AssertEqual(t, "abc", rec.Header().Get("X-Session"))
	test.AssertEqual(t, 0, rec.Body.Len())
}

func TestAdapterStatusUnset(t *testing.T) {
	adapter := NewAdapter(newTestRouter(), Options{Logger: discardLogger()})

	rec := httptest.NewRecorder()
	adapter.ServeHTTP(rec, httptest.NewRequest(nethttp.MethodGet, "/unset", nil))

	test.AssertEqual(t, nethttp.StatusInternalServerError, rec.Code)
}

func TestAdapterBodyTooLarge(t *testing.T) {
	adapter := NewAdapter(newTestRouter(), Options{MaxBodySize: 2, Logger: discardLogger()})

	rec := httptest.NewRecorder()
	adapter.ServeHTTP(rec, httptest.NewRequest(nethttp.MethodPost, "/echo", strings.NewReader("ping")))

	test.AssertEqual(t, nethttp.StatusRequestEntityTooLarge, rec.Code)
}

func TestAdapterHead(t *testing.T) {
	adapter := NewAdapter(newTestRouter(), Options{Logger: discardLogger()})

	rec := httptest.NewRecorder()
	adapter.ServeHTTP(rec, httptest.NewRequest(nethttp.MethodHead, "/", nil))

	test.AssertEqual(t, nethttp.StatusOK, rec.Code)
	test.AssertEqual(t, "12", rec.Header().Get("Content-Length"))
	test.AssertEqual(t, 0, rec.Body.Len())
}
