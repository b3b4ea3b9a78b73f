package encoding

import (
	"github.com/klauspost/compress/zstd"
)

type EncodeDecoderZstd struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

var _ EncodeDecoder = &EncodeDecoderZstd{}

//

func (e *EncodeDecoderZstd) Encode(buf []byte) ([]byte, error) {
	return e.encoder.EncodeAll(buf, nil), nil
}

func (e *EncodeDecoderZstd) Decode(buf []byte) ([]byte, error) {
	return e.decoder.DecodeAll(buf, nil)
}

func NewEncodeDecoderZstd() (*EncodeDecoderZstd, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	return &EncodeDecoderZstd{
		encoder: enc,
		decoder: dec,
	}, nil
}
