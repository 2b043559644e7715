package raster

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"

	"golang.org/x/image/tiff"

	"github.com/banshee-data/watertemp/internal/monitoring"
)

// TIFFReader decodes GeoTIFF bands with the pure-Go TIFF decoder. Geo tags
// are ignored; only the pixel grid is used.
type TIFFReader struct {
	Source Source
}

// ReadBand reads path from the Source and decodes it into a Band.
func (r *TIFFReader) ReadBand(ctx context.Context, path string) (*Band, error) {
	data, err := ReadAll(ctx, r.Source, path)
	if err != nil {
		return nil, err
	}

	img, err := tiff.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, &ReadError{Path: path, Err: errors.New("invalid TIFF dimensions")}
	}

	band, err := NewBand(path, b.Dx(), b.Dy(), samplesFromImage(img))
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	monitoring.Logf("decoded %s (%T)", band, img)
	return band, nil
}

// samplesFromImage flattens img into row-major digital numbers. 16-bit gray
// is copied verbatim and 8-bit gray is widened without rescaling, so DNs
// keep their sensor meaning. Anything else goes through color.Gray16Model.
func samplesFromImage(img image.Image) []uint16 {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := make([]uint16, w*h)

	switch im := img.(type) {
	case *image.Gray16:
		for y := 0; y < h; y++ {
			off := im.PixOffset(b.Min.X, b.Min.Y+y)
			row := im.Pix[off : off+2*w]
			for x := 0; x < w; x++ {
				out[y*w+x] = uint16(row[2*x])<<8 | uint16(row[2*x+1])
			}
		}
	case *image.Gray:
		for y := 0; y < h; y++ {
			off := im.PixOffset(b.Min.X, b.Min.Y+y)
			row := im.Pix[off : off+w]
			for x := 0; x < w; x++ {
				out[y*w+x] = uint16(row[x])
			}
		}
	default:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				c := color.Gray16Model.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray16)
				out[y*w+x] = c.Y
			}
		}
	}
	return out
}
