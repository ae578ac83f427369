// Package geometry places an image on a page keeping its aspect ratio.
package geometry

import (
	"fmt"
	"math"

	"github.com/akarakai/imgpdf/pkg/model"
)

// DPI used for converting pixels to mm
const dpi = 96.0

// MMPerPixel is the physical size of one pixel at 96 DPI.
const MMPerPixel = 25.4 / dpi

// PixelsToMM converts a pixel count to millimetres.
func PixelsToMM(px float64) float64 {
	return px * MMPerPixel
}

// Fit returns the largest rectangle with the image's aspect ratio that fits
// inside the layout margins, centered on the full page. Images smaller than
// the printable area are scaled up.
func Fit(pixelWidth, pixelHeight float64, layout model.PageLayout) (model.Placement, error) {
	if !(pixelWidth > 0) || !(pixelHeight > 0) || math.IsInf(pixelWidth, 0) || math.IsInf(pixelHeight, 0) {
		return model.Placement{}, fmt.Errorf("%w: image is %vx%v pixels", model.ErrInvalidGeometry, pixelWidth, pixelHeight)
	}
	maxWidth := layout.UsableWidth()
	maxHeight := layout.UsableHeight()
	if layout.Margin < 0 || !(maxWidth > 0) || !(maxHeight > 0) {
		return model.Placement{}, fmt.Errorf("%w: page %vx%v with margin %v has no printable area",
			model.ErrInvalidGeometry, layout.Width, layout.Height, layout.Margin)
	}

	imgWidth := PixelsToMM(pixelWidth)
	imgHeight := PixelsToMM(pixelHeight)

	ratio := math.Min(maxWidth/imgWidth, maxHeight/imgHeight)
	w := imgWidth * ratio
	h := imgHeight * ratio

	return model.Placement{
		X:      (layout.Width - w) / 2,
		Y:      (layout.Height - h) / 2,
		Width:  w,
		Height: h,
	}, nil
}
