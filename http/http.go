package http

import (
	"net/http"
	"time"

	"github.com/corpix/stegano/di"
	"github.com/corpix/stegano/errors"
	"github.com/corpix/stegano/log"
)

type (
	Option         func(*Http)
	Handler        = http.Handler
	HandlerFunc    = http.HandlerFunc
	Middleware     = func(Handler) Handler
	Request        = http.Request
	ResponseWriter = http.ResponseWriter
	Response       = http.Response
	Server         = http.Server
	ContextKey     uint8

	Config struct {
		Address           string         `yaml:"address,omitempty"`
		ReadHeaderTimeout *time.Duration `yaml:"read-header-timeout,omitempty"`
		Metrics           *MetricsConfig `yaml:"metrics,omitempty"`
		Trace             *TraceConfig   `yaml:"trace,omitempty"`
	}
	Http struct {
		Config  *Config
		Address string
		Router  *Router
		Handler Handler
	}
)

const (
	MethodGet     = http.MethodGet
	MethodHead    = http.MethodHead
	MethodPost    = http.MethodPost
	MethodPut     = http.MethodPut
	MethodPatch   = http.MethodPatch
	MethodDelete  = http.MethodDelete
	MethodConnect = http.MethodConnect
	MethodOptions = http.MethodOptions
	MethodTrace   = http.MethodTrace

	StatusOK                    = http.StatusOK
	StatusBadRequest            = http.StatusBadRequest
	StatusForbidden             = http.StatusForbidden
	StatusNotFound              = http.StatusNotFound
	StatusRequestEntityTooLarge = http.StatusRequestEntityTooLarge
	StatusInternalServerError   = http.StatusInternalServerError

	HeaderRequestId          = "x-request-id"
	HeaderAuthorization      = "authorization"
	HeaderContentType        = "content-type"
	HeaderContentDisposition = "content-disposition"

	MimeTextHtml = "text/html; charset=utf-8"

	AuthTokenTypeBearer = "bearer"
)

var (
	ErrMissingFile = http.ErrMissingFile

	MaxBytesReader = http.MaxBytesReader
	ServeContent   = http.ServeContent
	FileServer     = http.FileServer
	FS             = http.FS
	StatusText     = http.StatusText
)

func (c *Config) Default() {
	if c.Address == "" {
		c.Address = "127.0.0.1:8080"
	}
	if c.ReadHeaderTimeout == nil {
		dur := 10 * time.Second
		c.ReadHeaderTimeout = &dur
	}
	if c.Metrics == nil {
		c.Metrics = &MetricsConfig{}
	}
	if c.Trace == nil {
		c.Trace = &TraceConfig{}
	}

	//

	c.Trace.Default()
	if c.Metrics.Enable {
		c.Metrics.Default()
		c.Trace.SkipPaths[c.Metrics.Path] = struct{}{}
	}
}

func (c *Config) Validate() error {
	if c.Address == "" {
		return errors.New("address should not be empty")
	}
	return nil
}

//

func WithAddress(addr string) Option {
	return func(h *Http) {
		if addr != "" {
			h.Address = addr
		}
	}
}

func WithRouter(r *Router) Option {
	return func(h *Http) {
		h.Router = r
		if h.Handler == nil {
			h.Handler = r
		}
	}
}

func WithHandler(handler Handler) Option {
	return func(h *Http) { h.Handler = handler }
}

func WithProvide(cont *di.Container) Option {
	return func(h *Http) {
		di.MustProvide(cont, func() *Http { return h })
	}
}

func WithInvoke(cont *di.Container, f di.Function) Option {
	return func(h *Http) { di.MustInvoke(cont, f) }
}

func WithMiddleware(middlewares ...Middleware) Option {
	return func(h *Http) {
		h.Handler = Compose(h.Handler, middlewares...)
	}
}

// Compose wraps h so the first middleware is the outermost one.
func Compose(h Handler, middlewares ...Middleware) Handler {
	for n := len(middlewares) - 1; n >= 0; n-- {
		h = middlewares[n](h)
	}
	return h
}

func (h *Http) ListenAndServe() error {
	if h.Address == "" {
		return errors.New("no address was defined for http server to listen on (use WithAddress Option)")
	}
	if h.Handler == nil {
		return errors.New("no handler assigned to the server (use WithRouter or WithHandler Option)")
	}
	srv := &Server{
		Addr:              h.Address,
		Handler:           h.Handler,
		ReadHeaderTimeout: *h.Config.ReadHeaderTimeout,
		ErrorLog:          log.Std(log.Default),
	}
	log.Info().Str("address", h.Address).Msg("starting http server")
	return srv.ListenAndServe()
}

func New(c *Config, options ...Option) *Http {
	h := &Http{
		Config:  c,
		Address: c.Address,
	}
	for _, option := range options {
		option(h)
	}

	return h
}
