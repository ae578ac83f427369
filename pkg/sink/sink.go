// Package sink delivers an assembled document: first through a save
// destination chosen by the user, then as a plain download.
package sink

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/akarakai/imgpdf/pkg/logger"
	"github.com/akarakai/imgpdf/pkg/model"
)

var (
	// ErrSaveCancelled means the user dismissed the save prompt.
	ErrSaveCancelled = errors.New("save cancelled")
	// ErrDirectedSaveUnavailable means there is no way to ask the user for a destination.
	ErrDirectedSaveUnavailable = errors.New("directed save unavailable")
)

// Saver writes data somewhere and returns where it ended up.
type Saver interface {
	Save(ctx context.Context, data []byte, suggestedName string) (string, error)
}

type Delivery struct {
	Outcome  model.Outcome
	Location string
}

// Persister tries Directed first and falls back to Fallback. Either may be nil.
type Persister struct {
	Directed Saver
	Fallback Saver
}

// Persist returns a cancelled Delivery and a nil error when the user
// dismisses the prompt; the fallback is not tried in that case.
func (p Persister) Persist(ctx context.Context, data []byte, suggestedName string) (Delivery, error) {
	if p.Directed != nil {
		loc, err := p.Directed.Save(ctx, data, suggestedName)
		switch {
		case err == nil:
			logger.Log.Infow("document saved", "location", loc)
			return Delivery{Outcome: model.OutcomeSaved, Location: loc}, nil
		case errors.Is(err, ErrSaveCancelled):
			logger.Log.Infow("save cancelled by the user", "name", suggestedName)
			return Delivery{Outcome: model.OutcomeCancelled}, nil
		case errors.Is(err, ErrDirectedSaveUnavailable):
			logger.Log.Debugw("directed save unavailable, downloading", "name", suggestedName)
		default:
			logger.Log.Errorw("directed save failed, downloading instead", "err", err)
		}
	}

	if p.Fallback == nil {
		return Delivery{}, fmt.Errorf("%w: no download destination", model.ErrPersistenceFailure)
	}
	loc, err := p.Fallback.Save(ctx, data, suggestedName)
	if err != nil {
		return Delivery{}, fmt.Errorf("%w: %v", model.ErrPersistenceFailure, err)
	}
	logger.Log.Infow("document downloaded", "location", loc)
	return Delivery{Outcome: model.OutcomeDownloaded, Location: loc}, nil
}

// SuggestedFileName is unique per export: converted_images_<unix millis>.pdf
func SuggestedFileName(t time.Time) string {
	return fmt.Sprintf("converted_images_%d.pdf", t.UnixMilli())
}
