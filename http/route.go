package http

type HandlerFunc func(req *Request, res *Response)

// Handler exposes optional hooks per method family. POST requests go to
// OnPost, every other method to OnGet. A missing hook is a no-op.
type Handler struct {
	OnGet  HandlerFunc
	OnPost HandlerFunc
}

func (h Handler) hook(req *Request) HandlerFunc {
	if req.IsPost() {
		return h.OnPost
	}
	return h.OnGet
}

// Serve invokes the hook matching the request method.
func (h Handler) Serve(req *Request, res *Response) {
	if hook := h.hook(req); hook != nil {
		hook(req, res)
	}
}

// ResourceResolver maps a request path to a bundled resource body. A missing
// resource is reported as ErrResourceNotFound.
type ResourceResolver interface {
	Resolve(path string) (*Body, error)
}

type route struct {
	path    string
	handler Handler
}
