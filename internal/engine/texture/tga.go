package texture

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"io"
)

// TGA image type constants.
const (
	TGATypeUncompressed = 2  // Uncompressed true-color
	TGATypeRLE          = 10 // RLE compressed true-color
)

const tgaHeaderSize = 18

func init() {
	// TGA has no magic number. Match the common header prefix of
	// true-color files without an ID field or color map.
	image.RegisterFormat("tga", "\x00\x00\x02", readTGA, readTGAConfig)
	image.RegisterFormat("tga", "\x00\x00\x0a", readTGA, readTGAConfig)
}

type tgaHeader struct {
	idLength    int
	imageType   byte
	width       int
	height      int
	bpp         int
	topToBottom bool
}

func parseTGAHeader(h []byte) (tgaHeader, error) {
	if len(h) < tgaHeaderSize {
		return tgaHeader{}, fmt.Errorf("TGA data too short")
	}
	hdr := tgaHeader{
		idLength:    int(h[0]),
		imageType:   h[2],
		width:       int(h[12]) | int(h[13])<<8,
		height:      int(h[14]) | int(h[15])<<8,
		bpp:         int(h[16]),
		topToBottom: h[17]&0x20 != 0,
	}

	if h[1] != 0 {
		return hdr, fmt.Errorf("color-mapped TGA not supported")
	}
	if hdr.imageType != TGATypeUncompressed && hdr.imageType != TGATypeRLE {
		return hdr, fmt.Errorf("unsupported TGA type %d (only uncompressed/RLE true-color supported)", hdr.imageType)
	}
	if hdr.bpp != 24 && hdr.bpp != 32 {
		return hdr, fmt.Errorf("unsupported TGA bit depth %d (only 24/32 supported)", hdr.bpp)
	}
	return hdr, nil
}

func readTGAConfig(r io.Reader) (image.Config, error) {
	h := make([]byte, tgaHeaderSize)
	if _, err := io.ReadFull(r, h); err != nil {
		return image.Config{}, err
	}
	hdr, err := parseTGAHeader(h)
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{ColorModel: color.NRGBAModel, Width: hdr.width, Height: hdr.height}, nil
}

func readTGA(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(bufio.NewReader(r))
	if err != nil {
		return nil, err
	}
	return DecodeTGA(data)
}

// DecodeTGA decodes uncompressed (type 2) and RLE (type 10) true-color TGA data.
func DecodeTGA(data []byte) (*image.NRGBA, error) {
	hdr, err := parseTGAHeader(data)
	if err != nil {
		return nil, err
	}

	offset := tgaHeaderSize + hdr.idLength
	if offset > len(data) {
		return nil, fmt.Errorf("TGA data truncated")
	}
	pixels := data[offset:]

	img := image.NewNRGBA(image.Rect(0, 0, hdr.width, hdr.height))
	bytesPerPixel := hdr.bpp / 8
	total := hdr.width * hdr.height

	put := func(idx int, px []byte) {
		x := idx % hdr.width
		y := idx / hdr.width
		if !hdr.topToBottom {
			y = hdr.height - 1 - y
		}
		a := uint8(255)
		if bytesPerPixel == 4 {
			a = px[3]
		}
		o := img.PixOffset(x, y)
		img.Pix[o] = px[2]
		img.Pix[o+1] = px[1]
		img.Pix[o+2] = px[0]
		img.Pix[o+3] = a
	}

	if hdr.imageType == TGATypeUncompressed {
		if len(pixels) < total*bytesPerPixel {
			return nil, fmt.Errorf("TGA pixel data truncated")
		}
		for i := range total {
			put(i, pixels[i*bytesPerPixel:])
		}
		return img, nil
	}

	// RLE: each packet header holds a repeat flag and a count of 1-128
	idx, pos := 0, 0
	for idx < total && pos < len(pixels) {
		packet := pixels[pos]
		pos++
		count := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			if pos+bytesPerPixel > len(pixels) {
				break
			}
			px := pixels[pos : pos+bytesPerPixel]
			pos += bytesPerPixel
			for i := 0; i < count && idx < total; i++ {
				put(idx, px)
				idx++
			}
			continue
		}

		for i := 0; i < count && idx < total; i++ {
			if pos+bytesPerPixel > len(pixels) {
				break
			}
			put(idx, pixels[pos:pos+bytesPerPixel])
			pos += bytesPerPixel
			idx++
		}
	}

	return img, nil
}
