package assets

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"

	_ "image/gif"
	_ "image/jpeg"

	"golang.org/x/image/draw"
)

// IconPixels is the edge length, in pixels, icons are rescaled to before embedding.
const IconPixels = 128

// Icon is a decoded icon re-encoded as PNG, ready for embedding.
type Icon struct {
	Name string
	PNG  []byte
}

// LoadIcon resolves ref and returns it as a square PNG. Any failure is reported as
// not found; the caller renders text only.
func (r *Resolver) LoadIcon(ref string) (Icon, bool) {
	path, ok := r.Resolve(ref)
	if !ok {
		return Icon{}, false
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		r.log.Warn("icon unreadable", "path", path, "error", err)
		return Icon{}, false
	}
	data, err := toSquarePNG(raw, IconPixels)
	if err != nil {
		r.log.Warn("icon could not be decoded", "path", path, "error", err)
		return Icon{}, false
	}
	return Icon{Name: path, PNG: data}, true
}

// toSquarePNG fits the decoded image inside a size x size transparent square,
// preserving aspect ratio.
func toSquarePNG(raw []byte, size int) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	b := src.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("decode image: empty bounds")
	}

	w, h := size, size
	if b.Dx() > b.Dy() {
		h = max(1, size*b.Dy()/b.Dx())
	} else if b.Dy() > b.Dx() {
		w = max(1, size*b.Dx()/b.Dy())
	}
	x0 := (size - w) / 2
	y0 := (size - h) / 2

	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, image.Rect(x0, y0, x0+w, y0+h), src, b, draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
