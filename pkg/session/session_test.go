package session

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/akarakai/imgpdf/pkg/assembler"
	"github.com/akarakai/imgpdf/pkg/intake"
	"github.com/akarakai/imgpdf/pkg/logger"
	"github.com/akarakai/imgpdf/pkg/model"
	"github.com/akarakai/imgpdf/pkg/repository"
	"github.com/akarakai/imgpdf/pkg/sink"
	"go.uber.org/zap"
)

// keep logger safe in tests
func init() { logger.Log = zap.NewNop().Sugar() }

type recordingSaver struct {
	data  []byte
	name  string
	err   error
	calls int
}

func (r *recordingSaver) Save(_ context.Context, data []byte, name string) (string, error) {
	r.calls++
	r.data = data
	r.name = name
	if r.err != nil {
		return "", r.err
	}
	return "/downloads/" + name, nil
}

type memoryHistory struct {
	exports []model.Export
}

func (m *memoryHistory) SaveExport(e *model.Export) error {
	e.ID = int64(len(m.exports) + 1)
	m.exports = append(m.exports, *e)
	return nil
}

func (m *memoryHistory) FindRecentExports(int) ([]model.Export, error) { return m.exports, nil }

func (m *memoryHistory) FindExportsOfSession(string) ([]model.Export, error) { return m.exports, nil }

var _ repository.ExportRepo = (*memoryHistory)(nil)

func pngCandidate(t *testing.T, name string, w, h int) intake.Candidate {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return intake.Candidate{Name: name, ContentType: "image/png", Data: buf.Bytes()}
}

func newSession(history repository.ExportRepo) *Session {
	s := New(SourceCLI, assembler.New(model.A4, 0), history)
	s.now = func() time.Time { return time.UnixMilli(1750000000000) }
	return s
}

func ids(recs []model.ImageRecord) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.ID
	}
	return out
}

func TestExport(t *testing.T) {
	history := &memoryHistory{}
	s := newSession(history)

	candidates := []intake.Candidate{
		pngCandidate(t, "a.png", 100, 50),
		{Name: "b.txt", ContentType: "text/plain", Data: []byte("hello")},
		pngCandidate(t, "c.png", 50, 100),
	}
	var rejected int
	for _, c := range candidates {
		if _, _, err := s.Images.Add(c); err != nil {
			if !errors.Is(err, model.ErrUnsupportedType) {
				t.Fatalf("Add(%s): %v", c.Name, err)
			}
			rejected++
		}
	}
	if rejected != 1 {
		t.Fatalf("rejected %d candidates, want 1", rejected)
	}

	saver := &recordingSaver{}
	report, err := s.Export(context.Background(), sink.Persister{Fallback: saver})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	if report.PageCount != 2 || report.FileName != "converted_images_1750000000000.pdf" {
		t.Errorf("unexpected report %+v", report)
	}
	if report.Delivery.Outcome != model.OutcomeDownloaded || saver.name != report.FileName {
		t.Errorf("delivery = %+v, saved as %s", report.Delivery, saver.name)
	}
	if !bytes.HasPrefix(saver.data, []byte("%PDF-")) {
		t.Error("saver did not receive a PDF")
	}
	if len(history.exports) != 1 || history.exports[0].SessionID != s.ID || history.exports[0].PageCount != 2 {
		t.Errorf("history = %+v", history.exports)
	}
	if got := ids(s.Images.Snapshot()); !reflect.DeepEqual(got, []string{"a.png", "c.png"}) {
		t.Errorf("list changed to %v", got)
	}
	if msg := SuccessMessage(report); !strings.Contains(msg, report.FileName) {
		t.Errorf("success message = %q", msg)
	}
}

func TestExportEmpty(t *testing.T) {
	s := newSession(nil)
	saver := &recordingSaver{}
	report, err := s.Export(context.Background(), sink.Persister{Fallback: saver})
	if !errors.Is(err, model.ErrEmptyDocument) {
		t.Errorf("err = %v, want ErrEmptyDocument", err)
	}
	if report != nil || saver.calls != 0 {
		t.Errorf("empty export produced output: %+v, %d saves", report, saver.calls)
	}
	if UserMessage(err) != "Select at least one image before converting." {
		t.Errorf("message = %q", UserMessage(err))
	}
}

func TestExportFailuresKeepTheList(t *testing.T) {
	t.Run("encoding failure", func(t *testing.T) {
		history := &memoryHistory{}
		s := newSession(history)
		good := pngCandidate(t, "good.png", 10, 10)
		broken := intake.Candidate{Name: "broken.png", ContentType: "image/png", Data: good.Data[:33]}
		for _, c := range []intake.Candidate{good, broken} {
			if _, _, err := s.Images.Add(c); err != nil {
				t.Fatalf("Add(%s): %v", c.Name, err)
			}
		}

		saver := &recordingSaver{}
		_, err := s.Export(context.Background(), sink.Persister{Fallback: saver})
		if !errors.Is(err, model.ErrEncodingFailure) {
			t.Fatalf("err = %v, want ErrEncodingFailure", err)
		}
		if saver.calls != 0 || len(history.exports) != 0 {
			t.Error("failed export was persisted")
		}
		if s.Images.Len() != 2 {
			t.Errorf("list has %d images, want 2", s.Images.Len())
		}

		// removing the bad image makes the export work
		if _, err := s.Images.RemoveAt(1); err != nil {
			t.Fatalf("RemoveAt: %v", err)
		}
		if _, err := s.Export(context.Background(), sink.Persister{Fallback: saver}); err != nil {
			t.Errorf("retry failed: %v", err)
		}
	})

	t.Run("persistence failure", func(t *testing.T) {
		s := newSession(nil)
		if _, _, err := s.Images.Add(pngCandidate(t, "a.png", 5, 5)); err != nil {
			t.Fatalf("Add: %v", err)
		}
		saver := &recordingSaver{err: errors.New("read-only file system")}
		_, err := s.Export(context.Background(), sink.Persister{Fallback: saver})
		if !errors.Is(err, model.ErrPersistenceFailure) {
			t.Errorf("err = %v, want ErrPersistenceFailure", err)
		}
		if s.Images.Len() != 1 {
			t.Errorf("list has %d images, want 1", s.Images.Len())
		}
	})

	t.Run("cancel is not recorded", func(t *testing.T) {
		history := &memoryHistory{}
		s := newSession(history)
		if _, _, err := s.Images.Add(pngCandidate(t, "a.png", 5, 5)); err != nil {
			t.Fatalf("Add: %v", err)
		}
		directed := &recordingSaver{err: sink.ErrSaveCancelled}
		report, err := s.Export(context.Background(), sink.Persister{Directed: directed, Fallback: &recordingSaver{}})
		if err != nil {
			t.Fatalf("Export: %v", err)
		}
		if report.Delivery.Outcome != model.OutcomeCancelled || SuccessMessage(report) != "" {
			t.Errorf("report = %+v", report)
		}
		if len(history.exports) != 0 {
			t.Errorf("cancelled export recorded: %+v", history.exports)
		}
	})
}

func TestExportWithSqliteHistory(t *testing.T) {
	db, err := repository.NewSqlite3Database(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("NewSqlite3Database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	s := newSession(db.GetExportRepo())
	if _, _, err := s.Images.Add(pngCandidate(t, "a.png", 5, 5)); err != nil {
		t.Fatalf("Add: %v", err)
	}
	dir := t.TempDir()
	report, err := s.Export(context.Background(), sink.Persister{Fallback: sink.DownloadSaver{Dir: dir}})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	exports, err := db.GetExportRepo().FindExportsOfSession(s.ID)
	if err != nil {
		t.Fatalf("FindExportsOfSession: %v", err)
	}
	if len(exports) != 1 || exports[0].Location != report.Delivery.Location || exports[0].Source != SourceCLI {
		t.Errorf("exports = %+v", exports)
	}
}

func TestUserMessage(t *testing.T) {
	cases := map[error]string{
		model.ErrEncodingFailure: "One of the selected images could not be processed. Remove it and try again.",
		model.ErrUnsupportedType: "Only image files can be added.",
		model.ErrIndexOutOfRange: "There is no image at that position.",
		errors.New("unexpected"): "Something went wrong while creating the PDF. Please try again.",
	}
	for err, want := range cases {
		if got := UserMessage(err); got != want {
			t.Errorf("UserMessage(%v) = %q, want %q", err, got, want)
		}
	}
	if UserMessage(nil) != "" {
		t.Error("nil error should have no message")
	}
}
