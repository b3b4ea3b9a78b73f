package imagestore

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"github.com/corpix/stegano/codec"
	"github.com/corpix/stegano/errors"
)

func newStore(t *testing.T) *Store {
	c := &Config{Directory: filepath.Join(t.TempDir(), "uploads")}
	c.Default()
	s, err := New(c)
	require.NoError(t, err)
	return s
}

func TestAllowedFile(t *testing.T) {
	assert.True(t, AllowedFile("test.jpg"))
	assert.True(t, AllowedFile("test.PNG"))
	assert.True(t, AllowedFile("a.b.jpeg"))
	assert.True(t, AllowedFile("scan.bmp"))
	assert.False(t, AllowedFile("test.txt"))
	assert.False(t, AllowedFile("png"))
	assert.False(t, AllowedFile(""))
}

func TestNewName(t *testing.T) {
	upload, encoded := NewName()
	assert.True(t, strings.HasSuffix(upload, ".png"))
	assert.Equal(t, EncodedPrefix+upload, encoded)

	other, _ := NewName()
	assert.NotEqual(t, upload, other)
}

func TestRasterChannelOrder(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(1, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	img := FromImage(src)
	assert.Equal(t, 1, img.Height)
	assert.Equal(t, 2, img.Width)
	assert.Equal(t, [codec.Channels]uint8{30, 20, 10}, img.Pixel(0, 1))

	back := ToImage(img)
	assert.Equal(t, color.NRGBA{R: 10, G: 20, B: 30, A: 255}, back.NRGBAAt(1, 0))
}

func TestSaveLoadKeepsPayload(t *testing.T) {
	s := newStore(t)

	img := codec.NewImage(8, 8)
	_, err := codec.Encode(img, "over png")
	require.NoError(t, err)
	require.NoError(t, s.Save("encrypted_x.png", img))

	loaded, err := s.Load("encrypted_x.png")
	require.NoError(t, err)
	assert.Equal(t, img, loaded)

	msg, err := codec.Extract(loaded)
	require.NoError(t, err)
	assert.Equal(t, "over png", msg)
}

func TestDecodeFormats(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 3))
	for n := 3; n < len(src.Pix); n += 4 {
		src.Pix[n] = 255
	}

	buf := bytes.NewBuffer(nil)
	require.NoError(t, bmp.Encode(buf, src))
	img, format, err := Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, "bmp", format)
	assert.Equal(t, 3, img.Height)
	assert.Equal(t, 4, img.Width)

	buf.Reset()
	require.NoError(t, jpeg.Encode(buf, src, nil))
	_, format, err = Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

func TestDecodeGarbage(t *testing.T) {
	_, _, err := Decode(strings.NewReader("fake image data"))
	assert.True(t, errors.Is(err, ErrImageLoadFailed))
}

func TestLoadMissing(t *testing.T) {
	s := newStore(t)
	_, err := s.Load("nope.png")
	assert.True(t, errors.Is(err, ErrImageNotFound))

	_, _, err = s.Open("nope.png")
	assert.True(t, errors.Is(err, ErrImageNotFound))
}

func TestOpen(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Put("raw.png", strings.NewReader("bytes")))

	f, info, err := s.Open("raw.png")
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, int64(5), info.Size())

	dir, _ := s.Path("dir.png")
	require.NoError(t, os.Mkdir(dir, 0o750))
	_, _, err = s.Open("dir.png")
	assert.True(t, errors.Is(err, ErrImageNotFound))
}

func TestRemove(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Put("a.png", strings.NewReader("a")))
	require.NoError(t, s.Put("b.png", strings.NewReader("b")))

	require.NoError(t, s.Remove("a.png", "b.png", "gone.png"))
	for _, name := range []string{"a.png", "b.png"} {
		_, _, err := s.Open(name)
		assert.True(t, errors.Is(err, ErrImageNotFound), name)
	}

	assert.True(t, errors.Is(s.Remove("../x.png"), ErrInvalidName))
}

func TestPathRejectsTraversal(t *testing.T) {
	s := newStore(t)
	for _, name := range []string{"", ".", "..", "../etc/passwd", "a/b.png", `a\b.png`} {
		_, err := s.Path(name)
		assert.True(t, errors.Is(err, ErrInvalidName), "%q", name)
	}

	path, err := s.Path("ok.png")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.Config.Directory, "ok.png"), path)
}

func TestPut(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Put("raw.png", strings.NewReader("bytes")))

	path, _ := s.Path("raw.png")
	buf, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "bytes", string(buf))
}
