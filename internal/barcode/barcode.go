// Package barcode renders Code128 labels for product codes.
package barcode

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/pkg/errors"
)

const (
	LabelWidth  = 300
	LabelHeight = 100
	MaxQuantity = 100
	gap         = 10
)

// Label renders one barcode for code.
func Label(code string) (image.Image, error) {
	if code == "" {
		return nil, errors.New("code is required")
	}
	bc, err := code128.Encode(code)
	if err != nil {
		return nil, errors.Wrap(err, "encode code128")
	}
	width := LabelWidth
	if w := bc.Bounds().Dx(); w > width {
		width = w
	}
	scaled, err := barcode.Scale(bc, width, LabelHeight)
	if err != nil {
		return nil, errors.Wrap(err, "scale barcode")
	}
	return scaled, nil
}

// Sheet tiles quantity copies of the label into a grid with columns labels
// per row, for printing a batch of stickers.
func Sheet(code string, quantity, columns int) (image.Image, error) {
	if quantity < 1 || quantity > MaxQuantity {
		return nil, errors.Errorf("quantity must be between 1 and %d", MaxQuantity)
	}
	if columns < 1 {
		columns = 1
	}
	if columns > quantity {
		columns = quantity
	}
	label, err := Label(code)
	if err != nil {
		return nil, err
	}
	lw, lh := label.Bounds().Dx(), label.Bounds().Dy()
	rows := (quantity + columns - 1) / columns

	sheet := image.NewRGBA(image.Rect(0, 0, columns*(lw+gap)+gap, rows*(lh+gap)+gap))
	draw.Draw(sheet, sheet.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	for i := 0; i < quantity; i++ {
		x := gap + (i%columns)*(lw+gap)
		y := gap + (i/columns)*(lh+gap)
		draw.Draw(sheet, image.Rect(x, y, x+lw, y+lh), label, label.Bounds().Min, draw.Src)
	}
	return sheet, nil
}

func WritePNG(w io.Writer, img image.Image) error {
	return errors.Wrap(png.Encode(w, img), "encode png")
}
