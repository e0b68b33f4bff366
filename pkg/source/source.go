// Package source loads bean records.
//
// A [Loader] returns the ordered record sequence the graph is built from.
// [File] reads a JSON array from disk; the mongo and redis subpackages read
// the same records from a MongoDB collection or a Redis key and register
// themselves with [Register] so that [Open] can construct them from
// configuration:
//
//	import (
//	    "github.com/matzehuels/beanchain/pkg/source"
//	    _ "github.com/matzehuels/beanchain/pkg/source/mongo"
//	    _ "github.com/matzehuels/beanchain/pkg/source/redis"
//	)
//
//	loader, err := source.Open(cfg.Source)
//	records, err := loader.Load(ctx)
//	entries := source.Entries(records, cfg.Classifier())
package source

import (
	"context"
	"encoding/json"
	"io"
	"slices"
	"sync"

	"github.com/matzehuels/beanchain/pkg/bean"
	"github.com/matzehuels/beanchain/pkg/config"
	"github.com/matzehuels/beanchain/pkg/errors"
)

// Loader loads the ordered sequence of bean records.
type Loader interface {
	Load(ctx context.Context) ([]bean.Record, error)
}

// Factory constructs a Loader from source configuration.
type Factory func(cfg config.Source) (Loader, error)

var (
	factoriesMu sync.RWMutex
	factories   = map[string]Factory{
		config.SourceFile: func(cfg config.Source) (Loader, error) {
			return &File{Path: cfg.Path}, nil
		},
	}
)

// Register makes a loader factory available under kind.
// It panics if kind is registered twice or f is nil.
func Register(kind string, f Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	if f == nil {
		panic("source: Register factory is nil")
	}
	if _, dup := factories[kind]; dup {
		panic("source: Register called twice for " + kind)
	}
	factories[kind] = f
}

// Kinds returns the registered source kinds in sorted order.
func Kinds() []string {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	kinds := make([]string, 0, len(factories))
	for k := range factories {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}

// Open returns the loader for cfg.Kind.
func Open(cfg config.Source) (Loader, error) {
	factoriesMu.RLock()
	f, ok := factories[cfg.Kind]
	factoriesMu.RUnlock()
	if !ok {
		return nil, errors.New(errors.ErrCodeUnsupported, "source kind %q is not available (registered: %v)", cfg.Kind, Kinds())
	}
	return f(cfg)
}

// Decode reads a JSON array of bean records from r.
//
// Only r as a whole must be a JSON array. Elements that are not objects are
// skipped and malformed fields are decoded leniently, so bad records never
// reject the rest of the data.
func Decode(r io.Reader) ([]bean.Record, error) {
	var raw []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSource, err, "decode bean records")
	}
	records := make([]bean.Record, 0, len(raw))
	for _, msg := range raw {
		var rec bean.Record
		if err := json.Unmarshal(msg, &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// Entries normalizes records with c, dropping records without a name.
// Record order is preserved.
func Entries(records []bean.Record, c bean.Classifier) []bean.Entry {
	entries := make([]bean.Entry, 0, len(records))
	for _, r := range records {
		if e, ok := c.Normalize(r); ok {
			entries = append(entries, e)
		}
	}
	return entries
}
