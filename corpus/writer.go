package corpus

import (
	"context"
	"errors"
	"fmt"

	"xdao.co/cryptodiff/cidutil"
	"xdao.co/cryptodiff/operation"
	"xdao.co/cryptodiff/storage"
)

// Writer persists envelopes to a corpus store under their hex sha1 name.
type Writer struct {
	store storage.CAS
}

// NewWriter returns a Writer over store.
func NewWriter(store storage.CAS) *Writer {
	return &Writer{store: store}
}

// WriteBytes stores b and returns its name. Writing identical bytes again
// returns the same name and leaves the store unchanged.
func (w *Writer) WriteBytes(b []byte) (string, error) {
	if w == nil || w.store == nil {
		return "", errors.New("corpus: writer has no store")
	}
	id, err := w.store.Put(b)
	if err != nil {
		return "", fmt.Errorf("corpus: write %s: %w", cidutil.Filename(b), err)
	}
	name, err := cidutil.FilenameOf(id)
	if err != nil {
		return "", fmt.Errorf("corpus: store returned %s: %w", id, err)
	}
	return name, nil
}

// Write encodes env and stores it.
func (w *Writer) Write(env operation.Envelope) (string, error) {
	return w.WriteBytes(env.Encode())
}

// Written records where a case was stored.
type Written struct {
	Case Case
	Name string
}

// Import writes every case. A failed write is logged and collected; it
// does not stop the remaining writes. The returned error joins every
// failure and is nil when all writes succeeded.
func (w *Writer) Import(ctx context.Context, cases []Case) ([]Written, error) {
	out := make([]Written, 0, len(cases))
	var errs []error
	for _, c := range cases {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		name, err := w.Write(c.Envelope())
		if err != nil {
			log.Errorf("Import %s: %v", c.Name, err)
			errs = append(errs, fmt.Errorf("%s: %w", c.Name, err))
			continue
		}
		log.Debugf("Import %s -> %s", c.Name, name)
		out = append(out, Written{Case: c, Name: name})
	}
	log.Infof("Imported %d of %d cases", len(out), len(cases))
	return out, errors.Join(errs...)
}
