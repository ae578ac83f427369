// Package intake turns raw files into image records.
package intake

import (
	"bytes"
	"fmt"
	"image"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/akarakai/imgpdf/pkg/model"
)

// Candidate is a file offered for the list, before decoding.
// ContentType is the declared media type; it is never sniffed here.
type Candidate struct {
	Name        string
	ContentType string
	Data        []byte
}

// Decode validates the declared type and reads the image header.
// Pixel data is decoded later, when the image is embedded.
func Decode(c Candidate) (*model.ImageRecord, error) {
	if !IsImageType(c.ContentType) {
		return nil, fmt.Errorf("%w: %s is %q", model.ErrUnsupportedType, c.Name, c.ContentType)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(c.Data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", model.ErrDecode, c.Name, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: %s has size %dx%d", model.ErrDecode, c.Name, cfg.Width, cfg.Height)
	}

	return &model.ImageRecord{
		ID:          c.Name,
		PixelWidth:  cfg.Width,
		PixelHeight: cfg.Height,
		ByteSize:    int64(len(c.Data)),
		Format:      format,
		Data:        c.Data,
	}, nil
}

// IsImageType reports whether a declared media type is image/*.
func IsImageType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return strings.HasPrefix(mediaType, "image/")
}

// CandidateFromFile reads a file from disk. The declared type comes from the
// extension and falls back to sniffing the content when the extension is unknown.
func CandidateFromFile(path string) (Candidate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Candidate{}, err
	}
	return Candidate{
		Name:        filepath.Base(path),
		ContentType: DeclaredType(path, data),
		Data:        data,
	}, nil
}

func DeclaredType(name string, data []byte) string {
	if ct := typeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return http.DetectContentType(data)
}

// the system mime table is not always populated, keep the usual image types here
var imageExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".webp": "image/webp",
}

func typeByExtension(ext string) string {
	ext = strings.ToLower(ext)
	if ext == "" {
		return ""
	}
	if ct, ok := imageExtensions[ext]; ok {
		return ct
	}
	return mime.TypeByExtension(ext)
}
