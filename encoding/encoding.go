package encoding

import (
	"encoding/json"

	msgpack "github.com/vmihailenco/msgpack/v5"
)

type (
	// EncodeDecoder transforms serialized bytes, stages are stacked on top of a Codec.
	EncodeDecoder interface {
		Encode([]byte) ([]byte, error)
		Decode([]byte) ([]byte, error)
	}
	// Codec serializes values, it satisfies gokv encoding.Codec.
	Codec interface {
		Marshal(v interface{}) ([]byte, error)
		Unmarshal(buf []byte, v interface{}) error
	}

	CodecJson    struct{}
	CodecMsgpack struct{}
	CodecStaged  struct {
		Codec  Codec
		Stages []EncodeDecoder
	}
)

var (
	_ Codec = CodecJson{}
	_ Codec = CodecMsgpack{}
	_ Codec = &CodecStaged{}
)

func (CodecJson) Marshal(v interface{}) ([]byte, error)    { return json.Marshal(v) }
func (CodecJson) Unmarshal(buf []byte, v interface{}) error { return json.Unmarshal(buf, v) }

func (CodecMsgpack) Marshal(v interface{}) ([]byte, error)    { return msgpack.Marshal(v) }
func (CodecMsgpack) Unmarshal(buf []byte, v interface{}) error { return msgpack.Unmarshal(buf, v) }

//

func (c *CodecStaged) Marshal(v interface{}) ([]byte, error) {
	buf, err := c.Codec.Marshal(v)
	if err != nil {
		return nil, err
	}
	for _, stage := range c.Stages {
		buf, err = stage.Encode(buf)
		if err != nil {
			return nil, err
		}
	}
	return buf, nil
}

func (c *CodecStaged) Unmarshal(buf []byte, v interface{}) error {
	var err error
	for n := len(c.Stages) - 1; n >= 0; n-- {
		buf, err = c.Stages[n].Decode(buf)
		if err != nil {
			return err
		}
	}
	return c.Codec.Unmarshal(buf, v)
}

// NewCodecStaged wraps codec with stages applied in order on marshal
// and in reverse order on unmarshal.
func NewCodecStaged(codec Codec, stages ...EncodeDecoder) Codec {
	if len(stages) == 0 {
		return codec
	}
	return &CodecStaged{
		Codec:  codec,
		Stages: stages,
	}
}
