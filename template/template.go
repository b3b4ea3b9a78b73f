package template

import (
	"html/template"

	sprig "github.com/Masterminds/sprig/v3"

	"github.com/corpix/stegano/di"
	"github.com/corpix/stegano/errors"
)

type (
	CSS       = template.CSS
	Error     = template.Error
	ErrorCode = template.ErrorCode
	FuncMap   = template.FuncMap
	HTML      = template.HTML
	HTMLAttr  = template.HTMLAttr
	JS        = template.JS
	JSStr     = template.JSStr
	Srcset    = template.Srcset
	Template  = template.Template
	URL       = template.URL

	Option func(*Template)

	ContextKey string
	// Context is the data passed to templates, keys are reachable as
	// {{ .key }} from the template.
	Context map[string]interface{}
)

var (
	HTMLEscape       = template.HTMLEscape
	HTMLEscapeString = template.HTMLEscapeString
	HTMLEscaper      = template.HTMLEscaper
	IsTrue           = template.IsTrue
	JSEscape         = template.JSEscape
	JSEscapeString   = template.JSEscapeString
	JSEscaper        = template.JSEscaper
	URLQueryEscaper  = template.URLQueryEscaper
	Must             = template.Must
	ParseFS          = template.ParseFS
	ParseFiles       = template.ParseFiles
	ParseGlob        = template.ParseGlob
)

func NewContext() Context { return Context{} }

func (c Context) With(key ContextKey, value interface{}) Context {
	c[string(key)] = value
	return c
}

func (c Context) Get(key ContextKey) (interface{}, bool) {
	v, ok := c[string(key)]
	return v, ok
}

//

func WithProvide(cont *di.Container) Option {
	return func(t *Template) {
		di.MustProvide(cont, func() *Template { return t })
	}
}

func WithInvoke(cont *di.Container, f di.Function) Option {
	return func(t *Template) {
		di.MustInvoke(cont, f)
	}
}

func Parse(name string, data string) (*Template, error) {
	return New(name).Parse(data)
}

// ParseMap parses every entry of templates as a named template
// associated with one root.
func ParseMap(name string, templates map[string]string, options ...Option) (*Template, error) {
	root := New(name)
	for k, v := range templates {
		_, err := root.New(k).Parse(v)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse template %q", k)
		}
	}
	for _, option := range options {
		option(root)
	}
	return root, nil
}

func New(name string, options ...Option) *Template {
	t := template.New(name).Funcs(sprig.FuncMap())
	for _, option := range options {
		option(t)
	}
	return t
}
