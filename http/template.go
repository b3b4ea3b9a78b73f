package http

import (
	"github.com/corpix/stegano/template"
)

const (
	TemplateContextKeyRequest   template.ContextKey = "request"
	TemplateContextKeyRequestId template.ContextKey = "request_id"
)

func NewTemplateContext(r *Request) template.Context {
	return template.NewContext().
		With(TemplateContextKeyRequest, r).
		With(TemplateContextKeyRequestId, RequestIdGet(r))
}
