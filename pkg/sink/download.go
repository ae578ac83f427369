package sink

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const maxNameAttempts = 1000

// DownloadSaver drops the file into a downloads directory without asking.
// Existing files are never overwritten: "a.pdf" becomes "a (1).pdf", "a (2).pdf", ...
type DownloadSaver struct {
	Dir string
}

func (s DownloadSaver) Save(_ context.Context, data []byte, suggestedName string) (string, error) {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return "", fmt.Errorf("could not create download directory: %w", err)
	}

	ext := filepath.Ext(suggestedName)
	base := strings.TrimSuffix(filepath.Base(suggestedName), ext)

	for i := 0; i < maxNameAttempts; i++ {
		name := base + ext
		if i > 0 {
			name = fmt.Sprintf("%s (%d)%s", base, i, ext)
		}
		path := filepath.Join(s.Dir, name)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", err
		}
		if _, err := f.Write(data); err != nil {
			f.Close()
			_ = os.Remove(path)
			return "", err
		}
		if err := f.Close(); err != nil {
			return "", err
		}
		return path, nil
	}
	return "", fmt.Errorf("too many files named %s in %s", suggestedName, s.Dir)
}

// DefaultDownloadDir is ~/Downloads when it exists, the working directory otherwise.
func DefaultDownloadDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		dir := filepath.Join(home, "Downloads")
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	return "."
}
