package steg

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corpix/stegano/codec"
	"github.com/corpix/stegano/credential"
	"github.com/corpix/stegano/errors"
	"github.com/corpix/stegano/imagestore"
)

func newService(t *testing.T) *Service {
	ic := &imagestore.Config{Directory: filepath.Join(t.TempDir(), "uploads")}
	ic.Default()
	images, err := imagestore.New(ic)
	require.NoError(t, err)

	cc := &credential.Config{Type: string(credential.StoreTypeMemory)}
	cc.Default()
	credentials, err := credential.New(cc)
	require.NoError(t, err)
	t.Cleanup(func() { credentials.Close() })

	return New(images, credentials)
}

func pngBytes(t *testing.T, width, height int) []byte {
	src := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			src.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	buf := bytes.NewBuffer(nil)
	require.NoError(t, png.Encode(buf, src))
	return buf.Bytes()
}

func encrypt(t *testing.T, s *Service, message, password string) *EncryptResult {
	res, err := s.Encrypt(&EncryptRequest{
		Image:    bytes.NewReader(pngBytes(t, 10, 10)),
		Filename: "test.png",
		Message:  message,
		Password: password,
	})
	require.NoError(t, err)
	return res
}

func encrypted(t *testing.T, s *Service, res *EncryptResult) []byte {
	f, _, err := s.Images.Open(res.OutputName)
	require.NoError(t, err)
	defer f.Close()
	buf := bytes.NewBuffer(nil)
	_, err = buf.ReadFrom(f)
	require.NoError(t, err)
	return buf.Bytes()
}

func TestEncryptDecrypt(t *testing.T) {
	s := newService(t)
	res := encrypt(t, s, "hi", "pw")

	assert.True(t, credential.ValidID(res.ImageID))
	assert.Equal(t, imagestore.EncodedPrefix+res.UploadName, res.OutputName)

	img, err := s.Images.Load(res.OutputName)
	require.NoError(t, err)
	assert.Equal(t, [codec.Channels]uint8{2, 0, 0}, img.Pixel(0, 0))
	assert.Equal(t, uint8('h'), img.At(0, 1, 0))
	assert.Equal(t, uint8('i'), img.At(0, 2, 1))

	result, err := s.Decrypt(&DecryptRequest{
		Image:    bytes.NewReader(encrypted(t, s, res)),
		Filename: "encrypted_test.png",
		Password: "pw",
		ImageID:  res.ImageID,
	})
	require.NoError(t, err)
	msg, ok := result.Message()
	assert.True(t, ok)
	assert.Equal(t, "hi", msg)

	result, err = s.DecryptStored(res.ImageID, "pw")
	require.NoError(t, err)
	msg, _ = result.Message()
	assert.Equal(t, "hi", msg)
}

func TestDecryptWrongPassword(t *testing.T) {
	s := newService(t)
	res := encrypt(t, s, "hi", "pw")

	result, err := s.Decrypt(&DecryptRequest{
		Image:    bytes.NewReader(encrypted(t, s, res)),
		Filename: "encrypted_test.png",
		Password: "xx",
		ImageID:  res.ImageID,
	})
	require.NoError(t, err)
	assert.False(t, result.Authorized())
	_, ok := result.Message()
	assert.False(t, ok)
}

func TestPasswordsArePerImage(t *testing.T) {
	s := newService(t)
	first := encrypt(t, s, "first", "one")
	second := encrypt(t, s, "second", "two")

	result, err := s.DecryptStored(first.ImageID, "two")
	require.NoError(t, err)
	assert.False(t, result.Authorized())

	result, err = s.DecryptStored(second.ImageID, "two")
	require.NoError(t, err)
	msg, _ := result.Message()
	assert.Equal(t, "second", msg)
}

func TestEncryptErrors(t *testing.T) {
	s := newService(t)

	samples := []struct {
		name string
		req  *EncryptRequest
		kind Kind
	}{
		{
			"no image",
			&EncryptRequest{Filename: "a.png", Message: "m", Password: "p"},
			KindInvalidInput,
		},
		{
			"bad extension",
			&EncryptRequest{Image: strings.NewReader("x"), Filename: "a.txt", Message: "m", Password: "p"},
			KindInvalidInput,
		},
		{
			"no password",
			&EncryptRequest{Image: strings.NewReader("x"), Filename: "a.png", Message: "m"},
			KindInvalidInput,
		},
		{
			"not an image",
			&EncryptRequest{Image: strings.NewReader("fake image data"), Filename: "a.png", Message: "m", Password: "p"},
			KindImageLoadFailed,
		},
		{
			"too long",
			&EncryptRequest{Image: bytes.NewReader(pngBytes(t, 2, 2)), Filename: "a.png", Message: "hello", Password: "p"},
			KindMessageTooLong,
		},
		{
			"outside alphabet",
			&EncryptRequest{Image: bytes.NewReader(pngBytes(t, 4, 4)), Filename: "a.png", Message: "€", Password: "p"},
			KindInvalidCharacter,
		},
	}
	for _, sample := range samples {
		t.Run(sample.name, func(t *testing.T) {
			_, err := s.Encrypt(sample.req)
			require.Error(t, err)
			assert.Equal(t, sample.kind, KindOf(err), "%+v", err)
		})
	}
}

func TestDecryptErrors(t *testing.T) {
	s := newService(t)
	res := encrypt(t, s, "hi", "pw")

	_, err := s.Decrypt(&DecryptRequest{
		Image:    bytes.NewReader(encrypted(t, s, res)),
		Filename: "x.png",
		Password: "pw",
		ImageID:  credential.NewID(),
	})
	assert.Equal(t, KindCredentialNotFound, KindOf(err))

	_, err = s.Decrypt(&DecryptRequest{
		Image:    strings.NewReader("fake image data"),
		Filename: "x.png",
		Password: "pw",
		ImageID:  res.ImageID,
	})
	assert.Equal(t, KindImageLoadFailed, KindOf(err))

	_, err = s.Decrypt(&DecryptRequest{
		Image:    strings.NewReader("x"),
		Filename: "x.png",
		ImageID:  res.ImageID,
	})
	assert.True(t, errors.Is(err, ErrFieldsRequired))
}

func TestEncryptDecryptFile(t *testing.T) {
	s := newService(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "in.png")
	output := filepath.Join(dir, "out.png")
	require.NoError(t, imagestore.Save(input, codec.NewImage(6, 6)))

	res, err := s.EncryptFile(input, output, "file", "pw")
	require.NoError(t, err)

	result, err := s.DecryptFile(output, res.ImageID, "pw")
	require.NoError(t, err)
	msg, _ := result.Message()
	assert.Equal(t, "file", msg)

	_, err = s.DecryptFile(filepath.Join(dir, "missing.png"), res.ImageID, "pw")
	assert.Equal(t, KindImageNotFound, KindOf(err))
}

func TestEncryptFileDecryptStored(t *testing.T) {
	s := newService(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "in.png")
	output := filepath.Join(dir, "out.png")
	require.NoError(t, imagestore.Save(input, codec.NewImage(6, 6)))

	// a same named file in the store must not be picked up
	require.NoError(t, s.Images.Save("out.png", codec.NewImage(6, 6)))

	res, err := s.EncryptFile(input, output, "file", "pw")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.StoredName, imagestore.EncodedPrefix))

	result, err := s.DecryptStored(res.ImageID, "pw")
	require.NoError(t, err)
	msg, ok := result.Message()
	assert.True(t, ok)
	assert.Equal(t, "file", msg)
}

type failingCredentials struct{ credential.Store }

func (failingCredentials) Put(*credential.Record) error { return errors.New("store is down") }

func stored(t *testing.T, s *Service) []string {
	entries, err := os.ReadDir(s.Images.Config.Directory)
	require.NoError(t, err)
	names := make([]string, len(entries))
	for n, entry := range entries {
		names[n] = entry.Name()
	}
	return names
}

func TestEncryptFailureRemovesImages(t *testing.T) {
	s := newService(t)

	_, err := s.Encrypt(&EncryptRequest{
		Image:    bytes.NewReader(pngBytes(t, 2, 2)),
		Filename: "a.png",
		Message:  "hello",
		Password: "p",
	})
	assert.Equal(t, KindMessageTooLong, KindOf(err))
	assert.Empty(t, stored(t, s))

	_, err = s.Encrypt(&EncryptRequest{
		Image:    strings.NewReader("fake image data"),
		Filename: "a.png",
		Message:  "m",
		Password: "p",
	})
	assert.Equal(t, KindImageLoadFailed, KindOf(err))
	assert.Empty(t, stored(t, s))

	s.Credentials = failingCredentials{}
	_, err = s.Encrypt(&EncryptRequest{
		Image:    bytes.NewReader(pngBytes(t, 10, 10)),
		Filename: "a.png",
		Message:  "m",
		Password: "p",
	})
	assert.True(t, errors.Is(err, ErrCredentialStore))
	assert.Empty(t, stored(t, s))

	dir := t.TempDir()
	input := filepath.Join(dir, "in.png")
	require.NoError(t, imagestore.Save(input, codec.NewImage(6, 6)))
	_, err = s.EncryptFile(input, filepath.Join(dir, "out.png"), "m", "p")
	assert.True(t, errors.Is(err, ErrCredentialStore))
	assert.Empty(t, stored(t, s))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNone, KindOf(nil))
	assert.Equal(t, KindSaveFailed, KindOf(errors.Wrap(imagestore.ErrSaveFailed, "disk")))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, "credential-not-found", KindCredentialNotFound.String())
}
