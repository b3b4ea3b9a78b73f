package codec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corpix/stegano/errors"
)

func filled(height, width int, v uint8) *Image {
	img := NewImage(height, width)
	for n := range img.Pix {
		img.Pix[n] = v
	}
	return img
}

func TestEncodeDecodeScenario(t *testing.T) {
	img := filled(10, 10, 200)

	out, err := Encode(img, "hi")
	require.NoError(t, err)
	assert.Same(t, img, out)

	assert.Equal(t, [Channels]uint8{2, 0, 0}, img.Pixel(0, 0))
	assert.Equal(t, [Channels]uint8{'h', 200, 200}, img.Pixel(0, 1))
	assert.Equal(t, [Channels]uint8{200, 'i', 200}, img.Pixel(0, 2))

	res, err := Decode(img, "pw", "pw")
	require.NoError(t, err)
	msg, ok := res.Message()
	assert.True(t, ok)
	assert.Equal(t, "hi", msg)

	res, err = Decode(img, "xx", "pw")
	require.NoError(t, err)
	assert.False(t, res.Authorized())
	assert.Equal(t, StatusDenied, res.Status())
	msg, ok = res.Message()
	assert.False(t, ok)
	assert.Empty(t, msg)
}

func TestEncodeRoundTrip(t *testing.T) {
	all := make([]rune, 0, AlphabetSize)
	for r := rune(0); r < AlphabetSize; r++ {
		all = append(all, r)
	}

	samples := []struct {
		height, width int
		message       string
	}{
		{10, 10, ""},
		{10, 10, "a"},
		{10, 10, "hello world"},
		{3, 7, "wraps rows"},
		{16, 16, string(all[:MaxLength])},
		{2, 200, "café þ"},
	}
	for _, sample := range samples {
		t.Run(sample.message, func(t *testing.T) {
			img, err := Encode(filled(sample.height, sample.width, 17), sample.message)
			require.NoError(t, err)

			res, err := Decode(img, "secret", "secret")
			require.NoError(t, err)
			msg, ok := res.Message()
			require.True(t, ok)
			assert.Equal(t, sample.message, msg)
		})
	}
}

func TestEncodeCapacity(t *testing.T) {
	img := NewImage(4, 5)
	assert.Equal(t, 20, Capacity(img))

	_, err := Encode(img, strings.Repeat("x", 20))
	assert.NoError(t, err)

	img = filled(4, 5, 9)
	_, err = Encode(img, strings.Repeat("x", 21))
	assert.True(t, errors.Is(err, ErrMessageTooLong))
	assert.Equal(t, filled(4, 5, 9), img, "failed encode must not touch the image")
}

func TestEncodeCapacityCountsCharacters(t *testing.T) {
	img := NewImage(1, 4)
	// four characters, eight bytes in utf-8
	_, err := Encode(img, "éééé")
	assert.NoError(t, err)
}

func TestEncodeHeader(t *testing.T) {
	img := filled(20, 20, 99)
	_, err := Encode(img, "abc")
	require.NoError(t, err)
	assert.Equal(t, [Channels]uint8{3, 0, 0}, img.Pixel(0, 0))

	img = filled(20, 20, 99)
	_, err = Encode(img, strings.Repeat("z", 300))
	require.NoError(t, err)
	assert.Equal(t, [Channels]uint8{MaxLength, 0, 0}, img.Pixel(0, 0))

	msg, err := Extract(img)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("z", MaxLength), msg)
}

func TestEncodeChannelCycling(t *testing.T) {
	img := NewImage(2, 3)
	_, err := Encode(img, "abcd")
	require.NoError(t, err)

	assert.Equal(t, [Channels]uint8{'a', 0, 0}, img.Pixel(0, 1))
	assert.Equal(t, [Channels]uint8{0, 'b', 0}, img.Pixel(0, 2))
	// channel counter does not reset on the row boundary
	assert.Equal(t, [Channels]uint8{0, 0, 'c'}, img.Pixel(1, 0))
	assert.Equal(t, [Channels]uint8{'d', 0, 0}, img.Pixel(1, 1))
}

func TestEncodeInvalidCharacter(t *testing.T) {
	for _, message := range []string{"ÿ", "snow ☃", "\xff\xfe"} {
		img := filled(5, 5, 1)
		_, err := Encode(img, message)
		assert.True(t, errors.Is(err, ErrInvalidCharacter), "%q", message)
		assert.Equal(t, filled(5, 5, 1), img)
	}
}

func TestEncodeEmptyImage(t *testing.T) {
	for _, img := range []*Image{nil, {}, {Height: 2, Width: 2, Pix: make([]uint8, 3)}} {
		_, err := Encode(img, "x")
		assert.True(t, errors.Is(err, ErrImageLoadFailed))

		res, err := Decode(img, "a", "a")
		assert.True(t, errors.Is(err, ErrImageLoadFailed))
		assert.False(t, res.Authorized())
	}
}

func TestExtractReplacement(t *testing.T) {
	img := NewImage(2, 2)
	img.Set(0, 0, 0, 2)
	img.Set(0, 1, 0, 255)
	img.Set(1, 0, 1, 'k')

	msg, err := Extract(img)
	require.NoError(t, err)
	assert.Equal(t, "?k", msg)
}

func TestExtractOutsideRaster(t *testing.T) {
	img := NewImage(1, 3)
	_, err := Encode(img, "abc")
	require.NoError(t, err)

	msg, err := Extract(img)
	require.NoError(t, err)
	assert.Equal(t, "ab?", msg)
}

func TestAlphabet(t *testing.T) {
	code, ok := Code('A')
	assert.True(t, ok)
	assert.Equal(t, uint8(65), code)

	_, ok = Code(AlphabetSize)
	assert.False(t, ok)
	_, ok = Code(-1)
	assert.False(t, ok)

	r, ok := Char(254)
	assert.True(t, ok)
	assert.Equal(t, rune(254), r)

	r, ok = Char(255)
	assert.False(t, ok)
	assert.Equal(t, Replacement, r)
}

func TestEncodeCloneKeepsSource(t *testing.T) {
	src := filled(4, 4, 7)
	out, err := Encode(src.Clone(), "ok")
	require.NoError(t, err)

	assert.Equal(t, [Channels]uint8{7, 7, 7}, src.Pixel(0, 0))
	assert.Equal(t, [Channels]uint8{2, 0, 0}, out.Pixel(0, 0))

	msg, err := Extract(out)
	require.NoError(t, err)
	assert.Equal(t, "ok", msg)
}
