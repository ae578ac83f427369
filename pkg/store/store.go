// Package store keeps the user-ordered list of images that becomes the page
// order of the exported document.
package store

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/akarakai/imgpdf/pkg/intake"
	"github.com/akarakai/imgpdf/pkg/logger"
	"github.com/akarakai/imgpdf/pkg/model"
	"golang.org/x/sync/errgroup"
)

// DecodeFunc turns a candidate into a record. intake.Decode is the default.
type DecodeFunc func(intake.Candidate) (*model.ImageRecord, error)

// OrderedImageList is safe for concurrent use. Decoding runs outside the lock,
// so concurrent Adds of different files append in completion order.
type OrderedImageList struct {
	mu      sync.Mutex
	records []model.ImageRecord
	pending map[string]struct{} // ids being decoded right now
	decode  DecodeFunc
}

func New() *OrderedImageList {
	return NewWithDecoder(intake.Decode)
}

func NewWithDecoder(decode DecodeFunc) *OrderedImageList {
	return &OrderedImageList{
		pending: make(map[string]struct{}),
		decode:  decode,
	}
}

// Add decodes the candidate and appends it. If a record with the same id is
// already present the call is a no-op returning its position and added=false.
// A candidate already being decoded by another Add is a no-op with position -1.
func (l *OrderedImageList) Add(c intake.Candidate) (pos int, added bool, err error) {
	l.mu.Lock()
	if i := l.indexOf(c.Name); i >= 0 {
		l.mu.Unlock()
		logger.Log.Debugw("image already in the list", "name", c.Name, "position", i)
		return i, false, nil
	}
	if _, busy := l.pending[c.Name]; busy {
		l.mu.Unlock()
		return -1, false, nil
	}
	l.pending[c.Name] = struct{}{}
	l.mu.Unlock()

	rec, err := l.decode(c)

	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.pending, c.Name)
	if err != nil {
		return -1, false, err
	}
	// an AddAll may have appended the same id while we were decoding
	if i := l.indexOf(c.Name); i >= 0 {
		return i, false, nil
	}
	l.records = append(l.records, *rec)
	logger.Log.Debugw("image added", "name", rec.ID, "width", rec.PixelWidth, "height", rec.PixelHeight)
	return len(l.records) - 1, true, nil
}

// AddResult is the outcome of one candidate in AddAll.
type AddResult struct {
	Name     string
	Position int
	Added    bool
	Err      error
}

// AddAll decodes the candidates concurrently and appends them in submission
// order. A failing candidate does not stop the others. Like Add, a candidate
// already being decoded by an Add is skipped with position -1.
func (l *OrderedImageList) AddAll(ctx context.Context, candidates []intake.Candidate) []AddResult {
	results := make([]AddResult, len(candidates))
	decoded := make([]*model.ImageRecord, len(candidates))
	busy := make([]bool, len(candidates))

	l.mu.Lock()
	for i, c := range candidates {
		_, busy[i] = l.pending[c.Name]
	}
	l.mu.Unlock()

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, c := range candidates {
		results[i].Name = c.Name
		if busy[i] {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			rec, err := l.decode(c)
			if err != nil {
				results[i].Err = err
				return nil
			}
			decoded[i] = rec
			return nil
		})
	}
	_ = g.Wait()

	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range candidates {
		if results[i].Err != nil || busy[i] {
			results[i].Position = -1
			continue
		}
		if j := l.indexOf(results[i].Name); j >= 0 {
			results[i].Position = j
			continue
		}
		l.records = append(l.records, *decoded[i])
		results[i].Position = len(l.records) - 1
		results[i].Added = true
	}
	return results
}

// RemoveAt removes the record at pos, shifting later records left.
func (l *OrderedImageList) RemoveAt(pos int) (model.ImageRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.checkIndex(pos); err != nil {
		return model.ImageRecord{}, err
	}
	rec := l.records[pos]
	l.records = append(l.records[:pos], l.records[pos+1:]...)
	return rec, nil
}

// MoveTo relocates the record at from so that it ends up at to.
// MoveTo(0, 2) on [A B C D] gives [B C A D].
func (l *OrderedImageList) MoveTo(from, to int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.checkIndex(from); err != nil {
		return err
	}
	if err := l.checkIndex(to); err != nil {
		return err
	}
	if from == to {
		return nil
	}
	rec := l.records[from]
	if from < to {
		copy(l.records[from:to], l.records[from+1:to+1])
	} else {
		copy(l.records[to+1:from+1], l.records[to:from])
	}
	l.records[to] = rec
	return nil
}

func (l *OrderedImageList) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = nil
}

// Snapshot returns a copy of the current order. Later mutations of the list
// are not visible through it.
func (l *OrderedImageList) Snapshot() []model.ImageRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.ImageRecord, len(l.records))
	copy(out, l.records)
	return out
}

func (l *OrderedImageList) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

func (l *OrderedImageList) indexOf(id string) int {
	for i, r := range l.records {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func (l *OrderedImageList) checkIndex(pos int) error {
	if pos < 0 || pos >= len(l.records) {
		return fmt.Errorf("%w: position %d, list has %d images", model.ErrIndexOutOfRange, pos, len(l.records))
	}
	return nil
}
