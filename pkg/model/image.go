package model

import (
	"math"
	"strconv"
	"time"
)

// ImageRecord is one selected image. ID is the file name and is unique
// inside an OrderedImageList.
type ImageRecord struct {
	ID          string
	PixelWidth  int
	PixelHeight int
	ByteSize    int64  // encoded size, for display only
	Format      string // decoder name: jpeg, png, gif, bmp, tiff, webp
	Data        []byte // encoded bytes, owned by the record
}

// Placement is where an image is drawn on a page, in mm from the top-left corner.
type Placement struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

type Page struct {
	RecordID  string
	Placement Placement
}

// AssembledDocument lives for a single export only
type AssembledDocument struct {
	Pages []Page
	Bytes []byte
}

// ChatID identifies a Telegram chat, each chat owns one session.
type ChatID int64

type Outcome string

const (
	OutcomeSaved      Outcome = "saved"
	OutcomeDownloaded Outcome = "downloaded"
	OutcomeCancelled  Outcome = "cancelled"
)

// Export is a row of the export history
type Export struct {
	ID        int64
	SessionID string
	Source    string // cli, shell, telegram
	FileName  string
	Location  string
	PageCount int
	ByteSize  int64
	Outcome   Outcome
	CreatedAt time.Time
}

var byteUnits = []string{"Bytes", "KB", "MB", "GB"}

// FormatByteSize renders n with base 1024 and at most two decimals, e.g. "1.5 KB".
func FormatByteSize(n int64) string {
	if n <= 0 {
		return "0 Bytes"
	}
	i := int(math.Floor(math.Log(float64(n)) / math.Log(1024)))
	if i >= len(byteUnits) {
		i = len(byteUnits) - 1
	}
	v := float64(n) / math.Pow(1024, float64(i))
	v = math.Round(v*100) / 100
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + byteUnits[i]
}
