package static

import (
	"io"
	"log/slog"
	"testing"
	"testing/fstest"

	"github.com/freekieb7/coyote/http"
	"github.com/freekieb7/coyote/test"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()

	fsys := fstest.MapFS{
		"www/index.html":     {Data: []byte("<h1>index</h1>")},
		"www/css/styles.css": {Data: []byte("body{}")},
		"www/data.bin":       {Data: []byte{0x00, 0x01}},
		"secret.txt":         {Data: []byte("outside root")},
	}

	resolver, err := NewResolver(fsys, "www", discardLogger())
	test.AssertNoError(t, err)
	return resolver
}

func TestResolverResolve(t *testing.T) {
	resolver := newTestResolver(t)

	body, err := resolver.Resolve("/index.html")
	test.AssertNoError(t, err)

	test.AssertEqual(t, http.ContentTypeTextHTML, body.ContentType())
	test.AssertEqual(t, "<h1>index</h1>", body.String())
	test.AssertEqual(t, 14, body.ContentLength())

	body, err = resolver.Resolve("/css/styles.css")
	test.AssertNoError(t, err)
	test.AssertEqual(t, http.ContentTypeTextCSS, body.ContentType())

	body, err = resolver.Resolve("/data.bin")
	test.AssertNoError(t, err)
	test.AssertEqual(t, http.ContentTypeOctetStream, body.ContentType())
}

func TestResolverNotFound(t *testing.T) {
	resolver := newTestResolver(t)

	for _, path := range []string{
		"/",
		"/missing.html",
		"/css",
		"/../secret.txt",
		"/css/../index.html",
		"//index.html",
	} {
		_, err := resolver.Resolve(path)
		test.AssertErrorIs(t, err, http.ErrResourceNotFound)
	}
}

func TestResolverPaths(t *testing.T) {
	resolver := newTestResolver(t)

	paths := resolver.Paths()
	expected := []string{"/css/styles.css", "/data.bin", "/index.html"}

	test.AssertEqual(t, len(expected), resolver.Len())
	test.AssertEqual(t, len(expected), len(paths))
	for i := range expected {
		test.AssertEqual(t, expected[i], paths[i])
	}
}

func TestNewResolverInvalidRoot(t *testing.T) {
	_, err := NewResolver(fstest.MapFS{}, "../public", discardLogger())
	test.AssertErrorIs(t, err, ErrInvalidRoot)
}

func TestBundle(t *testing.T) {
	resolver, err := NewResolver(Bundle, BundleRoot, discardLogger())
	test.AssertNoError(t, err)

	for _, path := range []string{"/index.html", "/login.html", "/register.html", "/401.html", "/404.html", "/css/styles.css", "/js/scripts.js"} {
		if _, err := resolver.Resolve(path); err != nil {
			t.Errorf("bundle is missing %s: %v", path, err)
		}
	}
}
