// Package downloader fetches remote images so they can be added to a list.
package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/akarakai/imgpdf/pkg/intake"
	"github.com/akarakai/imgpdf/pkg/logger"
)

// ErrTooLarge is returned when the body is bigger than MaxBytes.
var ErrTooLarge = errors.New("file too large")

type Downloader struct {
	Client   *http.Client
	MaxBytes int64 // 0 means no limit
}

func New(maxBytes int64) *Downloader {
	return &Downloader{
		Client:   &http.Client{Timeout: 60 * time.Second},
		MaxBytes: maxBytes,
	}
}

// IsURL reports whether s looks like an http(s) address rather than a path.
func IsURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Fetch downloads src. The declared type is the Content-Type header, or
// the one guessed from the name when the server does not send a useful one.
func (d *Downloader) Fetch(ctx context.Context, src string) (intake.Candidate, error) {
	name := nameFromURL(src)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return intake.Candidate{}, fmt.Errorf("invalid image url: %w", stripURL(err))
	}
	resp, err := d.Client.Do(req)
	if err != nil {
		return intake.Candidate{}, fmt.Errorf("error fetching %s: %w", name, stripURL(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return intake.Candidate{}, fmt.Errorf("error fetching image: %s", resp.Status)
	}
	if d.MaxBytes > 0 && resp.ContentLength > d.MaxBytes {
		return intake.Candidate{}, fmt.Errorf("%w: %d bytes", ErrTooLarge, resp.ContentLength)
	}

	var body io.Reader = resp.Body
	if d.MaxBytes > 0 {
		body = io.LimitReader(resp.Body, d.MaxBytes+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return intake.Candidate{}, fmt.Errorf("failed to read image: %w", err)
	}
	if d.MaxBytes > 0 && int64(len(data)) > d.MaxBytes {
		return intake.Candidate{}, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, d.MaxBytes)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" || strings.HasPrefix(contentType, "application/octet-stream") {
		contentType = intake.DeclaredType(name, data)
	}
	logger.Log.Debugw("image fetched", "name", name, "size", len(data), "type", contentType)

	return intake.Candidate{Name: name, ContentType: contentType, Data: data}, nil
}

// stripURL drops the address from a *url.Error: bot file links carry the
// API token in their path.
func stripURL(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return uerr.Err
	}
	return err
}

func nameFromURL(src string) string {
	u, err := url.Parse(src)
	if err != nil {
		return "image"
	}
	name := path.Base(u.Path)
	if name == "/" || name == "." || name == "" {
		return u.Host
	}
	return name
}
