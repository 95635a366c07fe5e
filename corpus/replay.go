package corpus

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"xdao.co/cryptodiff/cidutil"
	"xdao.co/cryptodiff/differ"
	"xdao.co/cryptodiff/operation"
	"xdao.co/cryptodiff/storage"
)

// ReplayOptions tunes Replay.
type ReplayOptions struct {
	// Parallel bounds the number of entries compared at once. Zero means
	// GOMAXPROCS.
	Parallel int
}

// Entry is the outcome of replaying one stored envelope. Exactly one of
// Verdict and Err is set.
type Entry struct {
	Name    string
	Verdict *differ.Verdict
	// Err is a fetch failure or an *operation.Error for an envelope that
	// does not decode.
	Err error
}

// Report summarizes a replay. Entries are in store order.
type Report struct {
	Entries      []Entry
	Agree        int
	Disagree     int
	Inconclusive int
	Rejected     int
	Failed       int
}

// NamedFinding is a disagreement together with the entry that produced it.
type NamedFinding struct {
	Name string
	*differ.Finding
}

// Findings returns every disagreement in entry order.
func (r *Report) Findings() []NamedFinding {
	var out []NamedFinding
	for _, e := range r.Entries {
		if f := e.Verdict.Finding(); f != nil {
			out = append(out, NamedFinding{Name: e.Name, Finding: f})
		}
	}
	return out
}

// Check decodes an untrusted envelope and compares it. Malformed input is
// reported as an *operation.Error and never reaches a module.
func Check(ctx context.Context, ex *differ.Executor, b []byte) (*differ.Verdict, error) {
	env, err := operation.DecodeEnvelope(b)
	if err != nil {
		return nil, err
	}
	return ex.Compare(ctx, env)
}

// Replay compares every entry of store. Entries are independent: a fetch
// failure or undecodable envelope is recorded on its entry and the replay
// continues. The returned error is non-nil only when the store cannot be
// listed, ctx ends, or the executor reports a strict-mode fault.
func Replay(ctx context.Context, store storage.CAS, ex *differ.Executor, opts ReplayOptions) (*Report, error) {
	ids, err := storage.List(store)
	if err != nil {
		return nil, fmt.Errorf("corpus: list: %w", err)
	}
	limit := opts.Parallel
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	entries := make([]Entry, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, id := range ids {
		name, err := cidutil.FilenameOf(id)
		if err != nil {
			name = id.String()
		}
		entries[i].Name = name
		g.Go(func() error {
			b, err := store.Get(id)
			if err != nil {
				log.Warnf("Replay %s: %v", name, err)
				entries[i].Err = err
				return nil
			}
			v, err := Check(gctx, ex, b)
			if v == nil && err != nil && operation.IsDecodeFailure(err) {
				log.Debugf("Replay %s: rejected: %v", name, err)
				entries[i].Err = err
				return nil
			}
			entries[i].Verdict = v
			if err != nil {
				return fmt.Errorf("corpus: replay %s: %w", name, err)
			}
			return nil
		})
	}
	err = g.Wait()

	r := &Report{Entries: entries}
	for _, e := range entries {
		switch {
		case e.Verdict != nil:
			switch e.Verdict.State {
			case differ.StateAgree:
				r.Agree++
			case differ.StateDisagree:
				r.Disagree++
			default:
				r.Inconclusive++
			}
		case operation.IsDecodeFailure(e.Err):
			r.Rejected++
		case e.Err != nil:
			r.Failed++
		}
	}
	log.Infof("Replayed %d entries: %d agree, %d disagree, %d inconclusive, %d rejected, %d failed",
		len(entries), r.Agree, r.Disagree, r.Inconclusive, r.Rejected, r.Failed)
	return r, err
}
