package http

import (
	"mime"
	"path"
	"strconv"
	"strings"
)

type ContentType string

const (
	ContentTypeTextPlain   ContentType = "text/plain;charset=utf-8"
	ContentTypeTextHTML    ContentType = "text/html"
	ContentTypeTextCSS     ContentType = "text/css"
	ContentTypeJavaScript  ContentType = "text/javascript"
	ContentTypeJSON        ContentType = "application/json"
	ContentTypeSVG         ContentType = "image/svg+xml"
	ContentTypeIcon        ContentType = "image/x-icon"
	ContentTypePNG         ContentType = "image/png"
	ContentTypeOctetStream ContentType = "application/octet-stream"
)

var contentTypesByExtension = map[string]ContentType{
	".html": ContentTypeTextHTML,
	".htm":  ContentTypeTextHTML,
	".css":  ContentTypeTextCSS,
	".js":   ContentTypeJavaScript,
	".json": ContentTypeJSON,
	".txt":  ContentTypeTextPlain,
	".svg":  ContentTypeSVG,
	".ico":  ContentTypeIcon,
	".png":  ContentTypePNG,
}

// ContentTypeByExtension infers a content type from the extension of p.
// Unknown extensions fall back to the platform MIME table, then to
// application/octet-stream.
func ContentTypeByExtension(p string) ContentType {
	ext := strings.ToLower(path.Ext(p))
	if ext == "" {
		return ContentTypeOctetStream
	}
	if ct, found := contentTypesByExtension[ext]; found {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ContentType(ct)
	}
	return ContentTypeOctetStream
}

// ContentDescriptor is the content type and byte length of a body payload.
type ContentDescriptor struct {
	Type   ContentType
	Length int
}

func describe(contentType ContentType, payload string) ContentDescriptor {
	return ContentDescriptor{
		Type:   contentType,
		Length: len(payload),
	}
}

// Lines renders the Content-Type and Content-Length header lines.
func (d ContentDescriptor) Lines() string {
	return HeaderContentType + ": " + string(d.Type) + crlf +
		HeaderContentLength + ": " + strconv.Itoa(d.Length)
}
