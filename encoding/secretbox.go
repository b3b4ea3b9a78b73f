package encoding

import (
	"crypto/rand"
	"io"

	"golang.org/x/crypto/nacl/secretbox"

	"github.com/corpix/stegano/errors"
)

const (
	SecretBoxKeySize   = 32
	SecretBoxNonceSize = 24
)

type (
	SecretBoxKey   = [SecretBoxKeySize]byte
	SecretBoxNonce = [SecretBoxNonceSize]byte

	// EncodeDecoderSecretBox seals buffers with a random nonce prepended.
	EncodeDecoderSecretBox struct {
		rand io.Reader
		key  *SecretBoxKey
	}
)

var (
	_ EncodeDecoder = &EncodeDecoderSecretBox{}

	ErrSecretBoxOpen = errors.New("failed to open secretbox, key mismatch or corrupted data")
)

func (e *EncodeDecoderSecretBox) Encode(buf []byte) ([]byte, error) {
	var nonce SecretBoxNonce
	_, err := io.ReadFull(e.rand, nonce[:])
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate secretbox nonce")
	}
	return secretbox.Seal(nonce[:], buf, &nonce, e.key), nil
}

func (e *EncodeDecoderSecretBox) Decode(buf []byte) ([]byte, error) {
	if len(buf) < SecretBoxNonceSize+secretbox.Overhead {
		return nil, ErrSecretBoxOpen
	}
	var nonce SecretBoxNonce
	copy(nonce[:], buf[:SecretBoxNonceSize])

	res, ok := secretbox.Open(nil, buf[SecretBoxNonceSize:], &nonce, e.key)
	if !ok {
		return nil, ErrSecretBoxOpen
	}
	return res, nil
}

func NewEncodeDecoderSecretBox(key *SecretBoxKey) *EncodeDecoderSecretBox {
	return &EncodeDecoderSecretBox{
		rand: rand.Reader,
		key:  key,
	}
}
