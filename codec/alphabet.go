package codec

import (
	"github.com/corpix/stegano/errors"
)

const (
	// AlphabetSize is the number of byte values a message character may take,
	// codes are 0..AlphabetSize-1.
	AlphabetSize = 255
	// Replacement is produced for stored values outside of the alphabet.
	Replacement = '?'
)

var ErrInvalidCharacter = errors.New("message contains a character outside of the single byte alphabet")

func Code(r rune) (uint8, bool) {
	if r < 0 || r >= AlphabetSize {
		return 0, false
	}
	return uint8(r), true
}

func Char(v uint8) (rune, bool) {
	if v >= AlphabetSize {
		return Replacement, false
	}
	return rune(v), true
}

// Codes converts message into alphabet codes, failing on the first
// character which has no code.
func Codes(message string) ([]uint8, error) {
	codes := make([]uint8, 0, len(message))
	n := 0
	for _, r := range message {
		code, ok := Code(r)
		if !ok {
			return nil, errors.Wrapf(ErrInvalidCharacter, "character %q at position %d", r, n)
		}
		codes = append(codes, code)
		n++
	}
	return codes, nil
}
