// Package casconfig opens the corpus store described by a JSON document,
// the form --store-config takes in cryptodiff and corpusd.
//
//	{
//	  "write_policy": "all",
//	  "prefer": "mirror",
//	  "backends": [
//	    {"name": "localfs"},
//	    {"name": "localfs", "id": "mirror", "config": {"dir": "/srv/corpus"}},
//	    {"name": "grpc", "config": {"target": "corpus.internal:7777"}}
//	  ]
//	}
//
// Backend options are the ones "cryptodiff stores" lists. A localfs backend
// without a dir uses DefaultDir, matching the command-line default.
package casconfig

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"xdao.co/cryptodiff/storage"
	"xdao.co/cryptodiff/storage/casregistry"
)

// DefaultDir is the corpus directory a localfs backend opens when its
// config names none.
const DefaultDir = "corpus"

// Write policies.
const (
	// WriteFirst writes to the first backend only; reads fall back in order.
	WriteFirst = "first"
	// WriteAll writes every entry to every backend and requires them to
	// agree on its CID.
	WriteAll = "all"
)

// defaults are the options filled in for a backend whose config leaves them
// out.
var defaults = map[string]map[string]string{
	"localfs": {"dir": DefaultDir},
}

// Config is a corpus store built from one or more registered backends.
type Config struct {
	WritePolicy string `json:"write_policy,omitempty"`
	// Prefer names the backend, by ID or name, moved to the front of the
	// list so it takes the writes under WriteFirst.
	Prefer   string          `json:"prefer,omitempty"`
	Backends []BackendConfig `json:"backends"`
}

type BackendConfig struct {
	// Name is the casregistry backend to open.
	Name string `json:"name"`
	// ID tells apart backends sharing a Name. It defaults to Name.
	ID     string            `json:"id,omitempty"`
	Config map[string]string `json:"config,omitempty"`
}

func (b BackendConfig) id() string {
	if b.ID != "" {
		return b.ID
	}
	return b.Name
}

// options returns b's config with the backend defaults filled in.
func (b BackendConfig) options() map[string]string {
	out := make(map[string]string, len(b.Config)+len(defaults[b.Name]))
	for k, v := range defaults[b.Name] {
		out[k] = v
	}
	for k, v := range b.Config {
		out[k] = v
	}
	return out
}

// Parse decodes a config document. Unknown fields are an error so a
// misspelt key does not silently select a default.
func Parse(b []byte) (Config, error) {
	var cfg Config
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("casconfig: %w", err)
	}
	return cfg, cfg.Validate()
}

func LoadFile(path string) (Config, error) {
	if path == "" {
		return Config{}, errors.New("casconfig: empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg, err := Parse(b)
	if err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the structure of c without consulting the registry.
func (c Config) Validate() error {
	if len(c.Backends) == 0 {
		return errors.New("casconfig: at least one backend is required")
	}
	seen := make(map[string]bool, len(c.Backends))
	for _, b := range c.Backends {
		if b.Name == "" {
			return errors.New("casconfig: backend name is required")
		}
		if seen[b.id()] {
			return fmt.Errorf("casconfig: duplicate backend id %q", b.id())
		}
		seen[b.id()] = true
	}
	if c.Prefer != "" && c.preferred() < 0 {
		return fmt.Errorf("casconfig: preferred backend %q not found in config", c.Prefer)
	}
	switch c.WritePolicy {
	case "", WriteFirst, WriteAll:
		return nil
	default:
		return fmt.Errorf("casconfig: invalid write_policy %q", c.WritePolicy)
	}
}

// Check validates c and confirms every backend is linked into this binary
// for usage and accepts the options it is given. Nothing is opened.
func (c Config) Check(usage casregistry.Usage) error {
	if err := c.Validate(); err != nil {
		return err
	}
	for _, b := range c.Backends {
		be, err := casregistry.Lookup(b.Name, usage)
		if err != nil {
			return fmt.Errorf("casconfig: backend %s: %w (available: %s)",
				b.id(), err, strings.Join(casregistry.Names(usage), ", "))
		}
		known := map[string]bool{}
		for _, o := range be.Options() {
			known[o.Name] = true
		}
		for k := range b.Config {
			if !known[k] {
				return fmt.Errorf("casconfig: backend %s: unknown option %q", b.id(), k)
			}
		}
	}
	return nil
}

func (c Config) preferred() int {
	for i, b := range c.Backends {
		if b.Name == c.Prefer || b.ID == c.Prefer {
			return i
		}
	}
	return -1
}

// ordered returns the backends with the preferred one first.
func (c Config) ordered() []BackendConfig {
	out := append([]BackendConfig(nil), c.Backends...)
	if c.Prefer == "" {
		return out
	}
	if i := c.preferred(); i > 0 {
		b := out[i]
		copy(out[1:i+1], out[:i])
		out[0] = b
	}
	return out
}

// Open checks c for usage and opens its backends. A single backend is
// returned as is; several are combined per WritePolicy. The returned close
// function is never nil.
func (c Config) Open(usage casregistry.Usage) (storage.CAS, func() error, error) {
	if err := c.Check(usage); err != nil {
		return nil, nil, err
	}

	var closers []func() error
	closeAll := func() error {
		var firstErr error
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	}

	backends := c.ordered()
	named := make([]storage.NamedCAS, 0, len(backends))
	for _, b := range backends {
		cas, closeFn, err := casregistry.OpenWithConfig(b.Name, usage, b.options())
		if err != nil {
			_ = closeAll()
			return nil, nil, fmt.Errorf("casconfig: backend %s: %w", b.id(), err)
		}
		named = append(named, storage.NamedCAS{Name: b.id(), CAS: cas})
		if closeFn != nil {
			closers = append(closers, closeFn)
		}
	}

	if len(named) == 1 {
		return named[0].CAS, closeAll, nil
	}
	if c.WritePolicy == WriteAll {
		return storage.ReplicatingCAS{Backends: named}, closeAll, nil
	}
	adapters := make([]storage.CAS, 0, len(named))
	for _, n := range named {
		adapters = append(adapters, n.CAS)
	}
	return storage.MultiCAS{Adapters: adapters}, closeAll, nil
}
