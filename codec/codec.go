// Package codec hides short single byte alphabet messages inside raw raster
// channel values.
//
// Pixel (0,0) is the header cell: channel 0 holds the message length
// (capped at MaxLength), channels 1 and 2 are zeroed. Character i is stored
// as a whole byte at flat pixel offset i+1 in channel i mod 3, the channel
// counter runs continuously across rows.
package codec

import (
	"strings"

	"github.com/corpix/stegano/errors"
)

// MaxLength is the largest length the header cell records.
const MaxLength = 254

var (
	ErrImageLoadFailed = errors.New("could not open image")
	ErrMessageTooLong  = errors.New("message too long for the image size")
)

// Capacity reports how many characters Encode accepts for img.
// It is the pixel count, a loose bound which ignores the header cell.
func Capacity(img *Image) int {
	if img.Empty() {
		return 0
	}
	return img.Height * img.Width
}

// Encode writes message into img in place and returns it.
// img is left untouched when an error is returned.
func Encode(img *Image, message string) (*Image, error) {
	if img.Empty() {
		return nil, ErrImageLoadFailed
	}

	codes, err := Codes(message)
	if err != nil {
		return nil, err
	}
	if len(codes) > Capacity(img) {
		return nil, errors.Wrapf(
			ErrMessageTooLong,
			"message has %d characters, image fits %d",
			len(codes), Capacity(img),
		)
	}

	length := len(codes)
	if length > MaxLength {
		length = MaxLength
	}
	img.Set(0, 0, 0, uint8(length))
	img.Set(0, 0, 1, 0)
	img.Set(0, 0, 2, 0)

	for n, code := range codes {
		y, x, ok := img.cell(n + 1)
		if !ok {
			// last character of a message filling every pixel has no cell
			break
		}
		img.Set(y, x, n%Channels, code)
	}

	return img, nil
}

// Extract reads the message stored in img without authorization.
func Extract(img *Image) (string, error) {
	if img.Empty() {
		return "", ErrImageLoadFailed
	}

	var (
		length = int(img.At(0, 0, 0))
		buf    strings.Builder
	)
	buf.Grow(length)

	for n := 0; n < length; n++ {
		y, x, ok := img.cell(n + 1)
		if !ok {
			buf.WriteRune(Replacement)
			continue
		}
		r, _ := Char(img.At(y, x, n%Channels))
		buf.WriteRune(r)
	}

	return buf.String(), nil
}

// Decode extracts the message from img when supplied matches stored exactly.
func Decode(img *Image, supplied string, stored string) (Result, error) {
	if img.Empty() {
		return Denied(), ErrImageLoadFailed
	}
	if supplied != stored {
		return Denied(), nil
	}

	message, err := Extract(img)
	if err != nil {
		return Denied(), err
	}
	return Authorized(message), nil
}
