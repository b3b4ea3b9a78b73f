package web

import (
	"embed"
	"io/fs"

	"github.com/corpix/stegano/template"
)

type TemplateName string

const (
	TemplateNameIndex   TemplateName = "index"
	TemplateNameEncrypt TemplateName = "encrypt"
	TemplateNameDecrypt TemplateName = "decrypt"

	TemplateContextKeyTitle       template.ContextKey = "title"
	TemplateContextKeyError       template.ContextKey = "error"
	TemplateContextKeySuccess     template.ContextKey = "success"
	TemplateContextKeyImageId     template.ContextKey = "image_id"
	TemplateContextKeyOutputImage template.ContextKey = "output_image"
	TemplateContextKeyQr          template.ContextKey = "qr"
	TemplateContextKeyMaxLength   template.ContextKey = "max_length"
	TemplateContextKeyDenied      template.ContextKey = "denied"
	TemplateContextKeyAuthorized  template.ContextKey = "authorized"
	TemplateContextKeyMessage     template.ContextKey = "message"
)

var (
	//go:embed templates/*.html
	templatesFS embed.FS
	//go:embed static
	staticFS embed.FS
)

// Templates returns the embedded page templates keyed by template name.
func Templates() (map[string]string, error) {
	entries, err := fs.Glob(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	templates := make(map[string]string, len(entries))
	for _, entry := range entries {
		buf, err := templatesFS.ReadFile(entry)
		if err != nil {
			return nil, err
		}
		name := entry[len("templates/") : len(entry)-len(".html")]
		templates[name] = string(buf)
	}
	return templates, nil
}

func NewTemplate() (*template.Template, error) {
	templates, err := Templates()
	if err != nil {
		return nil, err
	}
	return template.ParseMap("web", templates)
}
