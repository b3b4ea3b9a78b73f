package config

import (
	"github.com/corpix/revip"
)

type (
	Config            = revip.Config
	Defaultable       = revip.Defaultable
	ErrFileNotFound   = revip.ErrFileNotFound
	ErrMarshal        = revip.ErrMarshal
	ErrPathNotFound   = revip.ErrPathNotFound
	ErrPostprocess    = revip.ErrPostprocess
	ErrUnexpectedKind = revip.ErrUnexpectedKind
	ErrUnmarshal      = revip.ErrUnmarshal
	Expandable        = revip.Expandable
	Marshaler         = revip.Marshaler
	Option            = revip.Option
	Container         = revip.Container
	Unmarshaler       = revip.Unmarshaler
	Validatable       = revip.Validatable
)

//

const (
	PathDelimiter = revip.PathDelimiter
)

var (
	FromFile       = revip.FromFile
	FromReader     = revip.FromReader
	Load           = revip.Load
	New            = revip.New
	Postprocess    = revip.Postprocess
	ToFile         = revip.ToFile
	ToWriter       = revip.ToWriter
	WithDefaults   = revip.WithDefaults
	WithExpansion  = revip.WithExpansion
	WithValidation = revip.WithValidation

	JsonMarshaler   = revip.JsonMarshaler
	JsonUnmarshaler = revip.JsonUnmarshaler
	YamlMarshaler   = revip.YamlMarshaler
	YamlUnmarshaler = revip.YamlUnmarshaler
)

// FromFiles builds a load source per path, later paths override earlier ones.
func FromFiles(paths []string, unmarshaler Unmarshaler) []Option {
	sources := make([]Option, len(paths))
	for n, path := range paths {
		sources[n] = FromFile(path, unmarshaler)
	}
	return sources
}
