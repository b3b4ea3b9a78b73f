package steg

import (
	"github.com/corpix/stegano/codec"
	"github.com/corpix/stegano/credential"
	"github.com/corpix/stegano/errors"
	"github.com/corpix/stegano/imagestore"
)

type Kind uint8

const (
	KindNone Kind = iota
	KindInvalidInput
	KindImageLoadFailed
	KindImageNotFound
	KindMessageTooLong
	KindInvalidCharacter
	KindSaveFailed
	KindCredentialNotFound
	KindInternal
)

var (
	ErrInvalidImage       = errors.New("invalid image file")
	ErrFieldsRequired     = errors.New("all fields are required")
	ErrCredentialNotFound = credential.ErrNotFound
	ErrCredentialStore    = errors.New("credential store failure")
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindInvalidInput:
		return "invalid-input"
	case KindImageLoadFailed:
		return "image-load-failed"
	case KindImageNotFound:
		return "image-not-found"
	case KindMessageTooLong:
		return "message-too-long"
	case KindInvalidCharacter:
		return "invalid-character"
	case KindSaveFailed:
		return "save-failed"
	case KindCredentialNotFound:
		return "credential-not-found"
	default:
		return "internal"
	}
}

// KindOf classifies err for display.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.IsAny(err, ErrInvalidImage, ErrFieldsRequired, imagestore.ErrInvalidName):
		return KindInvalidInput
	case errors.Is(err, imagestore.ErrImageNotFound):
		return KindImageNotFound
	case errors.Is(err, codec.ErrImageLoadFailed):
		return KindImageLoadFailed
	case errors.Is(err, codec.ErrMessageTooLong):
		return KindMessageTooLong
	case errors.Is(err, codec.ErrInvalidCharacter):
		return KindInvalidCharacter
	case errors.Is(err, imagestore.ErrSaveFailed):
		return KindSaveFailed
	case errors.Is(err, ErrCredentialNotFound):
		return KindCredentialNotFound
	default:
		return KindInternal
	}
}
