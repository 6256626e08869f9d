package extrude

import (
	"fmt"
	"image"
	"time"

	"github.com/briandowns/spinner"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Extruder runs the whole pipeline for a single tileset file: load, extrude,
// write the result next to the source.
type Extruder struct {
	source image.Image
	path   string
	opts   Options

	Verbose bool
}

// NewExtruder loads the tileset at source and validates the geometry options.
func NewExtruder(source string, opts Options) (*Extruder, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	img, err := LoadImage(source)
	if err != nil {
		return nil, err
	}

	return &Extruder{
		source: img,
		path:   source,
		opts:   opts,
	}, nil
}

// Run extrudes the tileset and writes the output file, returning its path.
func (e *Extruder) Run() (string, error) {
	var s *spinner.Spinner

	if e.Verbose {
		b := e.source.Bounds()

		cols := b.Dx() / e.opts.TileWidth
		rows := b.Dy() / e.opts.TileHeight

		p := message.NewPrinter(language.English)
		p.Printf("Extruding %d tiles (%dx%d grid)\n", cols*rows, cols, rows)

		s = spinner.New([]string{"-", "/", "|", "\\"}, 250*time.Millisecond)
		s.HideCursor = true

		s.Start()
	}

	start := time.Now()

	out, err := Extrude(e.source, e.opts)

	if s != nil {
		s.Stop()
	}

	if err != nil {
		return "", err
	}

	if e.Verbose {
		fmt.Printf("Total time extruding: %s\n", time.Since(start).String())
	}

	dest := OutputPath(e.path)

	if err := SaveImage(dest, out); err != nil {
		return "", err
	}

	return dest, nil
}
