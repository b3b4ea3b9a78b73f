package codec

// Channels is the number of 8 bit channels per pixel.
const Channels = 3

// Image is an 8 bit per channel raster stored row-major,
// channels of a pixel are kept in blue, green, red order.
type Image struct {
	Height int
	Width  int
	Pix    []uint8
}

func (img *Image) Empty() bool {
	return img == nil ||
		img.Height <= 0 ||
		img.Width <= 0 ||
		len(img.Pix) < img.Height*img.Width*Channels
}

func (img *Image) offset(y, x, c int) int {
	return (y*img.Width+x)*Channels + c
}

func (img *Image) At(y, x, c int) uint8 {
	return img.Pix[img.offset(y, x, c)]
}

func (img *Image) Set(y, x, c int, v uint8) {
	img.Pix[img.offset(y, x, c)] = v
}

func (img *Image) Pixel(y, x int) [Channels]uint8 {
	var px [Channels]uint8
	copy(px[:], img.Pix[img.offset(y, x, 0):])
	return px
}

// cell maps a row-major flat pixel offset to its coordinates.
func (img *Image) cell(offset int) (y int, x int, ok bool) {
	y, x = offset/img.Width, offset%img.Width
	return y, x, y < img.Height
}

func (img *Image) Clone() *Image {
	pix := make([]uint8, len(img.Pix))
	copy(pix, img.Pix)
	return &Image{
		Height: img.Height,
		Width:  img.Width,
		Pix:    pix,
	}
}

func NewImage(height, width int) *Image {
	return &Image{
		Height: height,
		Width:  width,
		Pix:    make([]uint8, height*width*Channels),
	}
}
