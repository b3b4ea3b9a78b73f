// Package web serves the encrypt and decrypt forms.
package web

import (
	"encoding/base64"
	"io"
	"mime"
	"mime/multipart"
	"net/url"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/corpix/stegano/codec"
	"github.com/corpix/stegano/errors"
	"github.com/corpix/stegano/http"
	"github.com/corpix/stegano/steg"
	"github.com/corpix/stegano/template"
)

const (
	FormKeyImage    = "image"
	FormKeyMessage  = "message"
	FormKeyPassword = "password"
	FormKeyImageId  = "image_id"

	MessageDenied = "YOU ARE NOT AUTHORIZED!"
)

type (
	Config struct {
		MaxUploadSize int64 `yaml:"max-upload-size"`
		QrCode        *bool `yaml:"qr-code"`
		QrCodeSize    int   `yaml:"qr-code-size"`
	}
	Web struct {
		Config   *Config
		Service  *steg.Service
		Template *template.Template
	}
)

func (c *Config) Default() {
	if c.MaxUploadSize == 0 {
		c.MaxUploadSize = 32 << 20
	}
	if c.QrCode == nil {
		v := true
		c.QrCode = &v
	}
	if c.QrCodeSize == 0 {
		c.QrCodeSize = 256
	}
}

func (c *Config) Validate() error {
	if c.MaxUploadSize <= 0 {
		return errors.New("max-upload-size should be larger than zero")
	}
	if c.QrCodeSize <= 0 {
		return errors.New("qr-code-size should be larger than zero")
	}
	return nil
}

// Message is the text shown to the user for err.
func Message(err error) string {
	switch steg.KindOf(err) {
	case steg.KindInvalidInput:
		if errors.Is(err, steg.ErrFieldsRequired) {
			return "All fields are required."
		}
		return "Invalid image file."
	case steg.KindImageLoadFailed:
		return "Error: Could not open image."
	case steg.KindImageNotFound:
		return "Error: Encrypted image file not found."
	case steg.KindMessageTooLong:
		return "Error: Message too long for the image size."
	case steg.KindInvalidCharacter:
		return "Error: Message contains characters outside of the supported alphabet."
	case steg.KindSaveFailed:
		return "Error: Failed to save encrypted image."
	case steg.KindCredentialNotFound:
		return "Error: Image ID not found."
	default:
		return "Error: Internal error."
	}
}

func Status(err error) int {
	switch steg.KindOf(err) {
	case steg.KindNone:
		return http.StatusOK
	case steg.KindInvalidInput,
		steg.KindImageLoadFailed,
		steg.KindMessageTooLong,
		steg.KindInvalidCharacter:
		return http.StatusBadRequest
	case steg.KindImageNotFound,
		steg.KindCredentialNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

//

func (wb *Web) render(w http.ResponseWriter, r *http.Request, code int, name TemplateName, ctx template.Context) {
	w.Header().Set(http.HeaderContentType, http.MimeTextHtml)
	w.WriteHeader(code)
	err := wb.Template.Lookup(string(name)).Execute(w, ctx)
	if err != nil {
		l := http.RequestLogGet(r)
		l.Error().Err(err).Str("template", string(name)).Msg("failed to render template")
	}
}

func (wb *Web) context(r *http.Request, title string) template.Context {
	return http.NewTemplateContext(r).
		With(TemplateContextKeyTitle, title).
		With(TemplateContextKeyMaxLength, codec.MaxLength)
}

func (wb *Web) renderError(w http.ResponseWriter, r *http.Request, name TemplateName, ctx template.Context, err error) {
	l := http.RequestLogGet(r)
	l.Warn().Err(err).Str("kind", steg.KindOf(err).String()).Msg("request failed")

	wb.render(w, r, Status(err), name, ctx.With(TemplateContextKeyError, Message(err)))
}

// upload opens the multipart file field, a missing field is not an error,
// the service rejects it as an invalid image.
func (wb *Web) upload(r *http.Request) (multipart.File, string, error) {
	file, header, err := r.FormFile(FormKeyImage)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, "", nil
		}
		return nil, "", errors.Mark(errors.Wrap(err, "failed to read upload"), steg.ErrInvalidImage)
	}
	return file, header.Filename, nil
}

func (wb *Web) parse(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, wb.Config.MaxUploadSize)
	err := r.ParseMultipartForm(wb.Config.MaxUploadSize)
	if err != nil {
		return errors.Mark(errors.Wrap(err, "failed to parse form"), steg.ErrInvalidImage)
	}
	return nil
}

func (wb *Web) qr(id string) (template.URL, error) {
	png, err := qrcode.Encode(id, qrcode.Medium, wb.Config.QrCodeSize)
	if err != nil {
		return "", err
	}
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png)), nil
}

//

func (wb *Web) Index(w http.ResponseWriter, r *http.Request) {
	wb.render(w, r, http.StatusOK, TemplateNameIndex, wb.context(r, "stegano"))
}

func (wb *Web) EncryptForm(w http.ResponseWriter, r *http.Request) {
	wb.render(w, r, http.StatusOK, TemplateNameEncrypt, wb.context(r, "Encrypt"))
}

func (wb *Web) Encrypt(w http.ResponseWriter, r *http.Request) {
	ctx := wb.context(r, "Encrypt")

	err := wb.parse(w, r)
	if err != nil {
		wb.renderError(w, r, TemplateNameEncrypt, ctx, err)
		return
	}
	file, filename, err := wb.upload(r)
	if err != nil {
		wb.renderError(w, r, TemplateNameEncrypt, ctx, err)
		return
	}
	req := &steg.EncryptRequest{
		Filename: filename,
		Message:  r.FormValue(FormKeyMessage),
		Password: r.FormValue(FormKeyPassword),
	}
	if file != nil {
		defer file.Close()
		req.Image = file
	}

	res, err := wb.Service.Encrypt(req)
	if err != nil {
		wb.renderError(w, r, TemplateNameEncrypt, ctx, err)
		return
	}

	ctx = ctx.
		With(TemplateContextKeySuccess, true).
		With(TemplateContextKeyImageId, res.ImageID).
		With(TemplateContextKeyOutputImage, url.PathEscape(res.OutputName))
	if *wb.Config.QrCode {
		qr, err := wb.qr(res.ImageID)
		if err != nil {
			l := http.RequestLogGet(r)
			l.Warn().Err(err).Msg("failed to generate qr code")
		} else {
			ctx = ctx.With(TemplateContextKeyQr, qr)
		}
	}
	wb.render(w, r, http.StatusOK, TemplateNameEncrypt, ctx)
}

func (wb *Web) DecryptForm(w http.ResponseWriter, r *http.Request) {
	ctx := wb.context(r, "Decrypt").
		With(TemplateContextKeyImageId, r.URL.Query().Get(FormKeyImageId))
	wb.render(w, r, http.StatusOK, TemplateNameDecrypt, ctx)
}

func (wb *Web) Decrypt(w http.ResponseWriter, r *http.Request) {
	ctx := wb.context(r, "Decrypt")

	err := wb.parse(w, r)
	if err != nil {
		wb.renderError(w, r, TemplateNameDecrypt, ctx, err)
		return
	}
	file, filename, err := wb.upload(r)
	if err != nil {
		wb.renderError(w, r, TemplateNameDecrypt, ctx, err)
		return
	}
	req := &steg.DecryptRequest{
		Filename: filename,
		Password: r.FormValue(FormKeyPassword),
		ImageID:  r.FormValue(FormKeyImageId),
	}
	if file != nil {
		defer file.Close()
		req.Image = file
	}
	ctx = ctx.With(TemplateContextKeyImageId, req.ImageID)

	res, err := wb.Service.Decrypt(req)
	if err != nil {
		wb.renderError(w, r, TemplateNameDecrypt, ctx, err)
		return
	}

	message, ok := res.Message()
	if !ok {
		wb.render(w, r, http.StatusForbidden, TemplateNameDecrypt, ctx.With(TemplateContextKeyDenied, true))
		return
	}
	wb.render(w, r, http.StatusOK, TemplateNameDecrypt, ctx.
		With(TemplateContextKeyAuthorized, true).
		With(TemplateContextKeyMessage, message),
	)
}

func (wb *Web) Download(w http.ResponseWriter, r *http.Request) {
	name := http.GetURLVars(r)["filename"]
	f, info, err := wb.Service.Images.Open(name)
	if err != nil {
		code := Status(err)
		l := http.RequestLogGet(r)
		l.Warn().Err(err).Str("filename", name).Msg("download failed")
		w.WriteHeader(code)
		_, _ = io.WriteString(w, http.StatusText(code))
		return
	}
	defer f.Close()

	w.Header().Set(http.HeaderContentDisposition, mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	http.ServeContent(w, r, name, info.ModTime(), f)
}

//

func (wb *Web) Register(r *http.Router) {
	r.HandleFunc("/", wb.Index).Methods(http.MethodGet)
	r.HandleFunc("/encrypt", wb.EncryptForm).Methods(http.MethodGet)
	r.HandleFunc("/encrypt", wb.Encrypt).Methods(http.MethodPost)
	r.HandleFunc("/decrypt", wb.DecryptForm).Methods(http.MethodGet)
	r.HandleFunc("/decrypt", wb.Decrypt).Methods(http.MethodPost)
	r.HandleFunc("/download/{filename}", wb.Download).Methods(http.MethodGet)
	r.PathPrefix("/static/").
		Handler(http.FileServer(http.FS(staticFS))).
		Methods(http.MethodGet)
}

func New(c *Config, svc *steg.Service, t *template.Template) *Web {
	return &Web{
		Config:   c,
		Service:  svc,
		Template: t,
	}
}
