// Package assembler writes an ordered list of images into a PDF, one page per image.
package assembler

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"codeberg.org/go-pdf/fpdf"
	"github.com/akarakai/imgpdf/pkg/geometry"
	"github.com/akarakai/imgpdf/pkg/logger"
	"github.com/akarakai/imgpdf/pkg/model"
	"golang.org/x/image/draw"
)

const (
	DefaultJPEGQuality = 90
	creator            = "imgpdf"
)

type Assembler struct {
	Layout      model.PageLayout
	JPEGQuality int
	Title       string
}

func New(layout model.PageLayout, jpegQuality int) *Assembler {
	if jpegQuality <= 0 || jpegQuality > 100 {
		jpegQuality = DefaultJPEGQuality
	}
	return &Assembler{
		Layout:      layout,
		JPEGQuality: jpegQuality,
	}
}

// Assemble builds the document. Pages follow the order of records exactly.
// The first failing record aborts the whole document.
func (a *Assembler) Assemble(records []model.ImageRecord) (*model.AssembledDocument, error) {
	if len(records) == 0 {
		return nil, model.ErrEmptyDocument
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: a.Layout.Width, Ht: a.Layout.Height},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator(creator, false)
	if a.Title != "" {
		pdf.SetTitle(a.Title, true)
	}

	doc := &model.AssembledDocument{Pages: make([]model.Page, 0, len(records))}
	for i, rec := range records {
		placement, err := geometry.Fit(float64(rec.PixelWidth), float64(rec.PixelHeight), a.Layout)
		if err != nil {
			return nil, fmt.Errorf("image %d (%s): %w", i+1, rec.ID, err)
		}

		data, err := a.embeddable(rec)
		if err != nil {
			return nil, fmt.Errorf("%w: image %d (%s): %v", model.ErrEncodingFailure, i+1, rec.ID, err)
		}

		pdf.AddPage()

		alias := fmt.Sprintf("img%d", i)
		options := fpdf.ImageOptions{
			ImageType: "JPG",
			ReadDpi:   false,
		}
		pdf.RegisterImageOptionsReader(alias, options, bytes.NewReader(data))
		if err := pdf.Error(); err != nil {
			return nil, fmt.Errorf("%w: image %d (%s): %v", model.ErrEncodingFailure, i+1, rec.ID, err)
		}
		pdf.ImageOptions(alias, placement.X, placement.Y, placement.Width, placement.Height, false, options, 0, "")

		doc.Pages = append(doc.Pages, model.Page{RecordID: rec.ID, Placement: placement})
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: failed to generate PDF: %v", model.ErrEncodingFailure, err)
	}
	doc.Bytes = buf.Bytes()

	logger.Log.Debugw("document assembled", "pages", len(doc.Pages), "sizeBytes", len(doc.Bytes))
	return doc, nil
}

// embeddable returns JPEG bytes for the record. JPEG sources are embedded as
// they are; everything else is flattened onto white and re-encoded.
func (a *Assembler) embeddable(rec model.ImageRecord) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(rec.Data))
	if err != nil {
		return nil, err
	}
	if format == "jpeg" {
		return rec.Data, nil
	}

	b := img.Bounds()
	flat := image.NewRGBA(b)
	draw.Draw(flat, b, image.White, image.Point{}, draw.Src)
	draw.Draw(flat, b, img, b.Min, draw.Over)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, flat, &jpeg.Options{Quality: a.JPEGQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
