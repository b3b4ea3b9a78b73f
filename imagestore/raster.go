package imagestore

import (
	"image"
	"image/color"
	"io"

	// decoders for image.Decode
	_ "image/jpeg"
	"image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/corpix/stegano/codec"
	"github.com/corpix/stegano/errors"
)

// FromImage copies src into a blue, green, red raster, alpha is dropped.
func FromImage(src image.Image) *codec.Image {
	var (
		b   = src.Bounds()
		img = codec.NewImage(b.Dy(), b.Dx())
	)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			c := color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			img.Set(y, x, 0, c.B)
			img.Set(y, x, 1, c.G)
			img.Set(y, x, 2, c.R)
		}
	}
	return img
}

// ToImage converts raster into an opaque image.
func ToImage(img *codec.Image) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			px := img.Pixel(y, x)
			dst.SetNRGBA(x, y, color.NRGBA{R: px[2], G: px[1], B: px[0], A: 255})
		}
	}
	return dst
}

// Decode reads any registered format (png, jpeg, bmp, webp).
func Decode(r io.Reader) (*codec.Image, string, error) {
	src, format, err := image.Decode(r)
	if err != nil {
		return nil, "", errors.Mark(errors.Wrap(err, "failed to decode image"), ErrImageLoadFailed)
	}
	img := FromImage(src)
	if img.Empty() {
		return nil, format, errors.Wrap(ErrImageLoadFailed, "image has no pixels")
	}
	return img, format, nil
}

// Encode always writes png, lossy formats would destroy the payload.
func Encode(w io.Writer, img *codec.Image) error {
	err := png.Encode(w, ToImage(img))
	if err != nil {
		return errors.Mark(errors.Wrap(err, "failed to encode png"), ErrSaveFailed)
	}
	return nil
}
