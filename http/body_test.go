package http

import (
	"testing"

	"github.com/freekieb7/coyote/test"
)

func TestBodyContentLength(t *testing.T) {
	for _, text := range []string{"", "body", "Hello world!", "안녕하세요", "naïve café"} {
		body := TextBody(text)
		test.AssertEqual(t, len([]byte(text)), body.ContentLength())
		test.AssertEqual(t, ContentTypeTextPlain, body.ContentType())
		test.AssertEqual(t, text, body.String())
	}
}

func TestBodyIsEmpty(t *testing.T) {
	if !NoBody.IsEmpty() {
		t.Error("NoBody should be empty")
	}

	var unset *Body
	if !unset.IsEmpty() {
		t.Error("nil body should be empty")
	}

	if TextBody("").IsEmpty() {
		t.Error("constructed zero-length body should not be empty")
	}
}

func TestBytesBodyCopiesPayload(t *testing.T) {
	payload := []byte("<h1>hi</h1>")
	body := BytesBody(ContentTypeTextHTML, payload)

	payload[1] = 'x'

	test.AssertEqual(t, "<h1>hi</h1>", body.String())
	test.AssertEqual(t, ContentDescriptor{Type: ContentTypeTextHTML, Length: 11}, body.Descriptor())
}

func TestJSONBody(t *testing.T) {
	body, err := JSONBody(map[string]string{"key": "value"})
	test.AssertNoError(t, err)

	test.AssertEqual(t, ContentTypeJSON, body.ContentType())
	test.AssertEqual(t, `{"key":"value"}`, body.String())

	_, err = JSONBody(make(chan int))
	if err == nil {
		t.Error("expected encoding error")
	}
}

func TestBodyEqual(t *testing.T) {
	if !TextBody("a").Equal(TextBody("a")) {
		t.Error("equal bodies reported different")
	}
	if TextBody("a").Equal(NewBody(ContentTypeTextHTML, "a")) {
		t.Error("content type should be compared")
	}
	if NoBody.Equal(TextBody("")) {
		t.Error("empty body equals zero-length body")
	}
}

func TestContentTypeByExtension(t *testing.T) {
	cases := map[string]ContentType{
		"/index.html":      ContentTypeTextHTML,
		"/css/styles.css":  ContentTypeTextCSS,
		"/js/scripts.js":   ContentTypeJavaScript,
		"/favicon.ICO":     ContentTypeIcon,
		"/notes.txt":       ContentTypeTextPlain,
		"/no-extension":    ContentTypeOctetStream,
		"/test.unknownext": ContentTypeOctetStream,
	}

	for path, expected := range cases {
		test.AssertEqual(t, expected, ContentTypeByExtension(path))
	}
}

func TestContentDescriptorLines(t *testing.T) {
	d := ContentDescriptor{Type: ContentTypeTextHTML, Length: 42}
	test.AssertEqual(t, "Content-Type: text/html\r\nContent-Length: 42", d.Lines())
}
