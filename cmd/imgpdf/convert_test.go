package main

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/akarakai/imgpdf/pkg/config"
	"github.com/akarakai/imgpdf/pkg/logger"
	"github.com/akarakai/imgpdf/pkg/model"
	"go.uber.org/zap"
)

func init() { logger.Log = zap.NewNop().Sugar() }

func writeJPEG(t *testing.T, dir, name string) string {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 64, 48)), nil); err != nil {
		t.Fatalf("jpeg.Encode: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func testConfig(t *testing.T) *config.Config {
	cfg := config.Default()
	cfg.DownloadDir = t.TempDir()
	return cfg
}

func TestRunConvertToPath(t *testing.T) {
	dir := t.TempDir()
	a := writeJPEG(t, dir, "a.jpg")
	b := writeJPEG(t, dir, "b.jpg")
	notes := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(notes, []byte("hello"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	out := filepath.Join(dir, "album.pdf")

	var w bytes.Buffer
	err := runConvert(context.Background(), &w, testConfig(t), nil, convertOptions{out: out}, []string{a, notes, b, filepath.Join(dir, "missing.png")})
	if err != nil {
		t.Fatalf("runConvert: %v\n%s", err, w.String())
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("pdf not written: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) || bytes.Count(data, []byte("<</Type /Page\n")) != 2 {
		t.Errorf("unexpected pdf of %d bytes", len(data))
	}
	output := w.String()
	if !strings.Contains(output, "skipped notes.txt") || !strings.Contains(output, "skipped "+filepath.Join(dir, "missing.png")) {
		t.Errorf("rejected files not reported: %s", output)
	}
	if !strings.Contains(output, "PDF saved successfully: "+out) {
		t.Errorf("output = %s", output)
	}
}

func TestRunConvertDownloads(t *testing.T) {
	cfg := testConfig(t)
	a := writeJPEG(t, t.TempDir(), "a.jpg")

	var w bytes.Buffer
	if err := runConvert(context.Background(), &w, cfg, nil, convertOptions{noPrompt: true}, []string{a}); err != nil {
		t.Fatalf("runConvert: %v", err)
	}
	entries, err := os.ReadDir(cfg.DownloadDir)
	if err != nil || len(entries) != 1 || !strings.HasPrefix(entries[0].Name(), "converted_images_") {
		t.Errorf("download dir = %v, %v", entries, err)
	}
	if !strings.Contains(w.String(), "PDF downloaded: ") {
		t.Errorf("output = %s", w.String())
	}
}

func TestRunConvertNothingToConvert(t *testing.T) {
	cfg := testConfig(t)
	notes := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(notes, []byte("hello"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	var w bytes.Buffer
	err := runConvert(context.Background(), &w, cfg, nil, convertOptions{noPrompt: true}, []string{notes})
	if err == nil || err.Error() != "Select at least one image before converting." {
		t.Errorf("err = %v", err)
	}
	if entries, _ := os.ReadDir(cfg.DownloadDir); len(entries) != 0 {
		t.Errorf("something was written: %v", entries)
	}
}

func TestPrintExports(t *testing.T) {
	var w bytes.Buffer
	if err := printExports(&w, nil); err != nil || w.String() != "No exports yet.\n" {
		t.Errorf("empty: %q %v", w.String(), err)
	}

	w.Reset()
	err := printExports(&w, []model.Export{{
		Source:    "cli",
		Outcome:   model.OutcomeSaved,
		PageCount: 3,
		ByteSize:  1536,
		Location:  "/tmp/album.pdf",
		CreatedAt: time.Now(),
	}})
	if err != nil {
		t.Fatalf("printExports: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(w.String()), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "DATE") || !strings.Contains(lines[1], "1.5 KB") || !strings.HasSuffix(lines[1], "/tmp/album.pdf") {
		t.Errorf("table = %q", lines)
	}
}

func TestRootCommandWiring(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"convert", "shell", "bot", "history"} {
		if c, _, err := root.Find([]string{name}); err != nil || c.Name() != name {
			t.Errorf("subcommand %s not registered", name)
		}
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("missing --config flag")
	}
}
