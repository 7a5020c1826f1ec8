package clipboard

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/png"
)

// Device-independent bitmap codec. The clipboard's CF_DIB payload is a
// BITMAPINFOHEADER followed by pixel rows; it is exactly a BMP file
// with the 14-byte file header stripped. Stored blobs are PNG, so both
// directions normalize through a 32-bit RGBA image.

const (
	dibHeaderSize  = 40
	biRGB          = 0
	dibBitsPerPx32 = 32
	dibBitsPerPx24 = 24
)

// pngToDIB decodes PNG bytes and re-encodes them as a 32bpp bottom-up
// uncompressed DIB ready for SetClipboardData(CF_DIB).
func pngToDIB(data []byte) ([]byte, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode png: %w", err)
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	out := make([]byte, dibHeaderSize+w*h*4)
	binary.LittleEndian.PutUint32(out[0:], dibHeaderSize)
	binary.LittleEndian.PutUint32(out[4:], uint32(w))
	binary.LittleEndian.PutUint32(out[8:], uint32(h)) // positive: bottom-up
	binary.LittleEndian.PutUint16(out[12:], 1)        // planes
	binary.LittleEndian.PutUint16(out[14:], dibBitsPerPx32)
	binary.LittleEndian.PutUint32(out[16:], biRGB)
	binary.LittleEndian.PutUint32(out[20:], uint32(w*h*4))

	for y := 0; y < h; y++ {
		row := out[dibHeaderSize+(h-1-y)*w*4:]
		for x := 0; x < w; x++ {
			r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			row[x*4+0] = byte(b >> 8)
			row[x*4+1] = byte(g >> 8)
			row[x*4+2] = byte(r >> 8)
			row[x*4+3] = byte(a >> 8)
		}
	}
	return out, nil
}

// dibToPNG converts an uncompressed 32bpp or 24bpp CF_DIB payload to
// PNG bytes plus pixel dimensions.
func dibToPNG(dib []byte) (*Image, error) {
	if len(dib) < dibHeaderSize {
		return nil, fmt.Errorf("dib payload too short: %d bytes", len(dib))
	}
	headerSize := binary.LittleEndian.Uint32(dib[0:])
	w := int(int32(binary.LittleEndian.Uint32(dib[4:])))
	rawH := int(int32(binary.LittleEndian.Uint32(dib[8:])))
	bitCount := int(binary.LittleEndian.Uint16(dib[14:]))
	compression := binary.LittleEndian.Uint32(dib[16:])

	if headerSize < dibHeaderSize || w <= 0 || rawH == 0 {
		return nil, fmt.Errorf("unsupported dib header (size=%d, %dx%d)", headerSize, w, rawH)
	}
	// The declared header size comes from another process; never let it
	// slice past the payload.
	if int64(headerSize) > int64(len(dib)) {
		return nil, fmt.Errorf("dib header size %d exceeds payload of %d bytes", headerSize, len(dib))
	}
	if compression != biRGB || (bitCount != dibBitsPerPx32 && bitCount != dibBitsPerPx24) {
		return nil, fmt.Errorf("unsupported dib encoding (compression=%d, bpp=%d)", compression, bitCount)
	}

	// Negative height means top-down row order.
	h := rawH
	topDown := false
	if h < 0 {
		h = -h
		topDown = true
	}

	bytesPerPx := bitCount / 8
	stride := (w*bytesPerPx + 3) &^ 3
	pixels := dib[headerSize:]
	if len(pixels) < stride*h {
		return nil, fmt.Errorf("dib pixel data truncated: have %d, need %d", len(pixels), stride*h)
	}

	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	opaque := bitCount == dibBitsPerPx24
	if !opaque {
		// Many producers publish 32bpp DIBs with the alpha channel
		// zeroed; treat an all-zero channel as fully opaque.
		opaque = true
		for y := 0; y < h && opaque; y++ {
			row := pixels[y*stride:]
			for x := 0; x < w; x++ {
				if row[x*4+3] != 0 {
					opaque = false
					break
				}
			}
		}
	}

	for y := 0; y < h; y++ {
		srcY := h - 1 - y
		if topDown {
			srcY = y
		}
		row := pixels[srcY*stride:]
		for x := 0; x < w; x++ {
			px := row[x*bytesPerPx:]
			i := rgba.PixOffset(x, y)
			rgba.Pix[i+0] = px[2]
			rgba.Pix[i+1] = px[1]
			rgba.Pix[i+2] = px[0]
			if bitCount == dibBitsPerPx32 && !opaque {
				rgba.Pix[i+3] = px[3]
			} else {
				rgba.Pix[i+3] = 0xff
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, rgba); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return &Image{PNG: buf.Bytes(), Width: w, Height: h}, nil
}
