package extrude

import (
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/webp"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// SupportedFormat reports whether the file extension maps to a codec that can
// both decode and encode.
func SupportedFormat(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".gif", ".jpg", ".jpeg", ".bmp", ".tiff", ".webp":
		return true
	}

	return false
}

// LoadImage decodes the image at path. Importing this package registers all
// supported decoders with image.Decode.
func LoadImage(path string) (image.Image, error) {
	if !SupportedFormat(path) {
		return nil, fmt.Errorf("unsupported image format %s", filepath.Ext(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	defer f.Close()

	img, _, err := image.Decode(f)

	return img, err
}

// SaveImage encodes the image with the codec matching the file extension.
func SaveImage(path string, img image.Image) error {
	if !SupportedFormat(path) {
		return fmt.Errorf("unsupported image format %s", filepath.Ext(path))
	}

	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	defer out.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".gif":
		return gif.Encode(out, img, nil)
	case ".jpg", ".jpeg":
		return jpeg.Encode(out, img, &jpeg.Options{Quality: 90})
	case ".bmp":
		return bmp.Encode(out, img)
	case ".tiff":
		return tiff.Encode(out, img, nil)
	case ".webp":
		return webp.Encode(out, img, webp.Options{
			Lossless: true,
			Quality:  90,
		})
	default:
		return png.Encode(out, img)
	}
}

// OutputPath derives the destination filename for an extruded sheet.
func OutputPath(in string) string {
	ext := filepath.Ext(in)

	return strings.TrimSuffix(in, ext) + "-extruded" + ext
}
