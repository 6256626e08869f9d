package extrude

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/nfnt/resize"
	"github.com/oliamb/cutter"
)

// Options describe the tile grid of the source image and the geometry of the
// extruded sheet. The zero value is not usable, start from Defaults.
type Options struct {
	TileWidth  int
	TileHeight int
	Extrude    int // size of the duplicated edge ring
	Border     int // empty border around the whole sheet
	Spacing    int // additional empty pixels between tiles
}

// Defaults returns the options for a plain 16x16 tileset.
func Defaults() Options {
	return Options{
		TileWidth:  16,
		TileHeight: 16,
		Extrude:    1,
		Border:     1,
		Spacing:    0,
	}
}

func (o Options) validate() error {
	if o.TileWidth < 1 || o.TileHeight < 1 {
		return fmt.Errorf("tile size has to be at least 1x1, got %dx%d", o.TileWidth, o.TileHeight)
	}

	if o.Extrude < 1 {
		return fmt.Errorf("extrusion size has to be at least 1, got %d", o.Extrude)
	}

	if o.Extrude > o.TileWidth || o.Extrude > o.TileHeight {
		return fmt.Errorf("extrusion size %d exceeds tile size %dx%d", o.Extrude, o.TileWidth, o.TileHeight)
	}

	if o.Border < 0 || o.Spacing < 0 {
		return fmt.Errorf("border and spacing cannot be negative, got %d and %d", o.Border, o.Spacing)
	}

	return nil
}

// step is the distance between tile origins in the output.
func (o Options) step() int {
	return o.TileWidth + 2*o.Extrude + o.Spacing
}

func (o Options) stepY() int {
	return o.TileHeight + 2*o.Extrude + o.Spacing
}

// SheetSize returns the dimensions of the extruded sheet for a cols x rows
// grid. The last tile carries no trailing spacing.
func (o Options) SheetSize(cols, rows int) (int, int) {
	w := 2*o.Border + cols*o.step() - o.Spacing
	h := 2*o.Border + rows*o.stepY() - o.Spacing

	return w, h
}

// GridError reports a source image that does not tessellate into the tile grid.
type GridError struct {
	Width      int
	Height     int
	TileWidth  int
	TileHeight int
}

func (e *GridError) Error() string {
	return fmt.Sprintf("input is not a tight %dx%d grid: %dx%d", e.TileWidth, e.TileHeight, e.Width, e.Height)
}

// Extrude copies every tile of the source image into a freshly allocated,
// fully transparent sheet and surrounds it with a duplicated ring of its own
// edge and corner pixels. The source is not modified.
func Extrude(src image.Image, opts Options) (*image.RGBA, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	if w%opts.TileWidth != 0 || h%opts.TileHeight != 0 {
		return nil, &GridError{
			Width:      w,
			Height:     h,
			TileWidth:  opts.TileWidth,
			TileHeight: opts.TileHeight,
		}
	}

	cols := w / opts.TileWidth
	rows := h / opts.TileHeight

	flat := flatten(src)

	outW, outH := opts.SheetSize(cols, rows)
	out := image.NewRGBA(image.Rect(0, 0, outW, outH))

	for cy := 0; cy < rows; cy++ {
		for cx := 0; cx < cols; cx++ {
			if err := copyTile(out, flat, cx, cy, opts); err != nil {
				return nil, err
			}
		}
	}

	return out, nil
}

// flatten redraws the source into an origin-anchored RGBA so tile coordinates
// can be used directly.
func flatten(img image.Image) *image.RGBA {
	b := img.Bounds()

	if rgba, ok := img.(*image.RGBA); ok && b.Min.X == 0 && b.Min.Y == 0 {
		return rgba
	}

	flat := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))

	draw.Draw(flat, flat.Bounds(), img, b.Min, draw.Src)

	return flat
}

func copyTile(out *image.RGBA, src *image.RGBA, cx, cy int, opts Options) error {
	tw := opts.TileWidth
	th := opts.TileHeight
	e := opts.Extrude

	sx := cx * tw
	sy := cy * th

	tile, err := cutter.Crop(src, cutter.Config{
		Width:  tw,
		Height: th,
		Anchor: image.Point{X: sx, Y: sy},
		Mode:   cutter.TopLeft,
	})

	if err != nil {
		return err
	}

	dx := opts.Border + cx*opts.step() + e
	dy := opts.Border + cy*opts.stepY() + e

	draw.Draw(out, image.Rect(dx, dy, dx+tw, dy+th), tile, tile.Bounds().Min, draw.Src)

	// Extrude the edges, nearest-neighbor keeps the boundary pixels exact.
	left, err := edgeStrip(src, sx, sy, 1, th, e, th)
	if err != nil {
		return err
	}

	right, err := edgeStrip(src, sx+tw-1, sy, 1, th, e, th)
	if err != nil {
		return err
	}

	top, err := edgeStrip(src, sx, sy, tw, 1, tw, e)
	if err != nil {
		return err
	}

	bottom, err := edgeStrip(src, sx, sy+th-1, tw, 1, tw, e)
	if err != nil {
		return err
	}

	draw.Draw(out, image.Rect(dx-e, dy, dx, dy+th), left, left.Bounds().Min, draw.Src)
	draw.Draw(out, image.Rect(dx+tw, dy, dx+tw+e, dy+th), right, right.Bounds().Min, draw.Src)
	draw.Draw(out, image.Rect(dx, dy-e, dx+tw, dy), top, top.Bounds().Min, draw.Src)
	draw.Draw(out, image.Rect(dx, dy+th, dx+tw, dy+th+e), bottom, bottom.Bounds().Min, draw.Src)

	// Corners are flat fills of the tile's corner pixels.
	tl := src.RGBAAt(sx, sy)
	tr := src.RGBAAt(sx+tw-1, sy)
	bl := src.RGBAAt(sx, sy+th-1)
	br := src.RGBAAt(sx+tw-1, sy+th-1)

	draw.Draw(out, image.Rect(dx-e, dy-e, dx, dy), image.NewUniform(tl), image.Point{}, draw.Src)
	draw.Draw(out, image.Rect(dx+tw, dy-e, dx+tw+e, dy), image.NewUniform(tr), image.Point{}, draw.Src)
	draw.Draw(out, image.Rect(dx-e, dy+th, dx, dy+th+e), image.NewUniform(bl), image.Point{}, draw.Src)
	draw.Draw(out, image.Rect(dx+tw, dy+th, dx+tw+e, dy+th+e), image.NewUniform(br), image.Point{}, draw.Src)

	return nil
}

// edgeStrip crops a 1 pixel boundary strip and replicates it to the extrusion
// size.
func edgeStrip(src image.Image, x, y, w, h, outW, outH int) (image.Image, error) {
	strip, err := cutter.Crop(src, cutter.Config{
		Width:  w,
		Height: h,
		Anchor: image.Point{X: x, Y: y},
		Mode:   cutter.TopLeft,
	})

	if err != nil {
		return nil, err
	}

	return resize.Resize(uint(outW), uint(outH), strip, resize.NearestNeighbor), nil
}
