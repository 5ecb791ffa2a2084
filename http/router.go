package http

import (
	"errors"
	"fmt"
	"log/slog"
)

const DefaultNotFoundPath = "/404.html"

type RouterOptions struct {
	// Resolver serves paths no handler is registered for. Nil means every
	// such path is not found.
	Resolver ResourceResolver
	// NotFoundPath names the resource used as the 404 body.
	NotFoundPath string
	// DefaultStatusOK lets handlers leave the status unset and get 200 OK.
	DefaultStatusOK bool
	Logger          *slog.Logger
}

// Router dispatches a request to the handler registered for its exact path,
// then to the static resources, then to the not-found resource.
type Router struct {
	routes     map[string]*route
	middleware []Middleware

	resolver        ResourceResolver
	notFoundPath    string
	defaultStatusOK bool
	logger          *slog.Logger
}

func NewRouter(opts RouterOptions) *Router {
	router := &Router{
		routes:          make(map[string]*route),
		resolver:        opts.Resolver,
		notFoundPath:    opts.NotFoundPath,
		defaultStatusOK: opts.DefaultStatusOK,
		logger:          opts.Logger,
	}
	if router.notFoundPath == "" {
		router.notFoundPath = DefaultNotFoundPath
	}
	if router.logger == nil {
		router.logger = slog.Default()
	}
	return router
}

// Handle registers handler for path. Registering a second handler for the
// same path merges its hooks into the first; setting the same hook twice
// panics.
func (router *Router) Handle(path string, handler Handler) {
	r, found := router.routes[path]
	if !found {
		router.routes[path] = &route{path: path, handler: handler}
		return
	}

	if handler.OnGet != nil {
		if r.handler.OnGet != nil {
			panic(fmt.Sprintf("http: multiple GET registrations for %s", path))
		}
		r.handler.OnGet = handler.OnGet
	}
	if handler.OnPost != nil {
		if r.handler.OnPost != nil {
			panic(fmt.Sprintf("http: multiple POST registrations for %s", path))
		}
		r.handler.OnPost = handler.OnPost
	}
}

func (router *Router) Get(path string, handler HandlerFunc) {
	router.Handle(path, Handler{OnGet: handler})
}

func (router *Router) Post(path string, handler HandlerFunc) {
	router.Handle(path, Handler{OnPost: handler})
}

// Use appends middleware. The first middleware added is the outermost.
func (router *Router) Use(middleware ...Middleware) {
	router.middleware = append(router.middleware, middleware...)
}

func (router *Router) Lookup(path string) (Handler, bool) {
	r, found := router.routes[path]
	if !found {
		return Handler{}, false
	}
	return r.handler, true
}

func (router *Router) Dispatch(req *Request, res *Response) {
	if r, found := router.routes[req.Path()]; found {
		if router.defaultStatusOK {
			res.DefaultToOK()
		}

		hook := r.handler.hook(req)
		if hook == nil {
			router.logger.Debug("no hook for method", "method", req.Method(), "path", req.Path())
			return
		}
		router.wrap(hook)(req, res)
		return
	}

	body, err := router.resolve(req.Path())
	if err == nil {
		res.SetStatus(StatusOK)
		res.SetBody(body)
		return
	}
	if !errors.Is(err, ErrResourceNotFound) {
		router.logger.Error("resolving static resource failed", "path", req.Path(), "error", err)
	}

	router.notFound(res)
}

func (router *Router) wrap(handler HandlerFunc) HandlerFunc {
	for i := len(router.middleware) - 1; i >= 0; i-- {
		handler = router.middleware[i](handler)
	}
	return handler
}

func (router *Router) resolve(path string) (*Body, error) {
	if router.resolver == nil {
		return nil, ErrResourceNotFound
	}
	return router.resolver.Resolve(path)
}

func (router *Router) notFound(res *Response) {
	res.SetStatus(StatusNotFound)

	body, err := router.resolve(router.notFoundPath)
	if err != nil {
		router.logger.Warn("not found resource unavailable", "path", router.notFoundPath, "error", err)
		body = TextBody(StatusNotFound.String())
	}
	res.SetBody(body)
}
