package tiles

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/andyrewlee/marquee/internal/ui/compositor"
)

const halfBlock = '▀'

// LoadImage decodes the image at path and renders it with Image.
func LoadImage(path string, w, h int) (*compositor.Canvas, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return Image(img, w, h), nil
}

// Image scales img to w×2h pixels and packs each vertical pixel pair into one
// half-block cell: the upper pixel as foreground, the lower as background.
func Image(img image.Image, w, h int) *compositor.Canvas {
	tile := compositor.NewCanvas(w, h)
	w, h = tile.Width, tile.Height

	dst := image.NewRGBA(image.Rect(0, 0, w, h*2))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			top := opaque(dst.RGBAAt(x, 2*y))
			bottom := opaque(dst.RGBAAt(x, 2*y+1))
			tile.SetCell(x, y, compositor.Cell{
				Rune:  halfBlock,
				Width: 1,
				Style: compositor.Style{Fg: top, Bg: bottom},
			})
		}
	}
	return tile
}

// opaque forces full alpha.
func opaque(c color.RGBA) color.RGBA {
	c.A = 0xff
	return c
}
