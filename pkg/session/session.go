// Package session owns one user's image list and runs exports from it.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/akarakai/imgpdf/pkg/assembler"
	"github.com/akarakai/imgpdf/pkg/logger"
	"github.com/akarakai/imgpdf/pkg/model"
	"github.com/akarakai/imgpdf/pkg/repository"
	"github.com/akarakai/imgpdf/pkg/sink"
	"github.com/akarakai/imgpdf/pkg/store"
	"github.com/google/uuid"
)

const (
	SourceCLI      = "cli"
	SourceShell    = "shell"
	SourceTelegram = "telegram"
)

type Session struct {
	ID        string
	Source    string
	Images    *store.OrderedImageList
	assembler *assembler.Assembler
	history   repository.ExportRepo
	now       func() time.Time
}

// New creates an empty session. history may be nil.
func New(source string, asm *assembler.Assembler, history repository.ExportRepo) *Session {
	return &Session{
		ID:        uuid.New().String(),
		Source:    source,
		Images:    store.New(),
		assembler: asm,
		history:   history,
		now:       time.Now,
	}
}

type Report struct {
	Delivery  sink.Delivery
	FileName  string
	PageCount int
	ByteSize  int
}

// Export assembles the current list and hands it to the persister. The list
// is only read: on any failure the user can fix it and export again.
func (s *Session) Export(ctx context.Context, persister sink.Persister) (*Report, error) {
	snapshot := s.Images.Snapshot()
	if len(snapshot) == 0 {
		return nil, model.ErrEmptyDocument
	}

	logger.Log.Infow("export started", "session", s.ID, "images", len(snapshot))
	doc, err := s.assembler.Assemble(snapshot)
	if err != nil {
		logger.Log.Errorw("error when constructing the pdf", "session", s.ID, "err", err)
		return nil, err
	}

	name := sink.SuggestedFileName(s.now())
	delivery, err := persister.Persist(ctx, doc.Bytes, name)
	if err != nil {
		logger.Log.Errorw("could not deliver the pdf", "session", s.ID, "err", err)
		return nil, err
	}

	report := &Report{
		Delivery:  delivery,
		FileName:  name,
		PageCount: len(doc.Pages),
		ByteSize:  len(doc.Bytes),
	}
	if delivery.Outcome != model.OutcomeCancelled {
		s.record(report)
	}
	return report, nil
}

func (s *Session) record(r *Report) {
	if s.history == nil {
		return
	}
	e := &model.Export{
		SessionID: s.ID,
		Source:    s.Source,
		FileName:  r.FileName,
		Location:  r.Delivery.Location,
		PageCount: r.PageCount,
		ByteSize:  int64(r.ByteSize),
		Outcome:   r.Delivery.Outcome,
		CreatedAt: s.now().UTC(),
	}
	// the document is already delivered, a history failure is only logged
	if err := s.history.SaveExport(e); err != nil {
		logger.Log.Warnw("could not record the export", "session", s.ID, "err", err)
	}
}

// UserMessage turns an error from Add or Export into a message for the user.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, model.ErrEmptyDocument):
		return "Select at least one image before converting."
	case errors.Is(err, model.ErrEncodingFailure), errors.Is(err, model.ErrInvalidGeometry):
		return "One of the selected images could not be processed. Remove it and try again."
	case errors.Is(err, model.ErrPersistenceFailure):
		return "The PDF could not be saved. Please try again."
	case errors.Is(err, model.ErrUnsupportedType):
		return "Only image files can be added."
	case errors.Is(err, model.ErrDecode):
		return "The file could not be read as an image."
	case errors.Is(err, model.ErrIndexOutOfRange):
		return "There is no image at that position."
	default:
		return "Something went wrong while creating the PDF. Please try again."
	}
}

// SuccessMessage is shown after a delivered export; empty for a cancelled one.
func SuccessMessage(r *Report) string {
	switch r.Delivery.Outcome {
	case model.OutcomeSaved:
		return "PDF saved successfully: " + r.Delivery.Location
	case model.OutcomeDownloaded:
		return "PDF downloaded: " + r.Delivery.Location
	default:
		return ""
	}
}
