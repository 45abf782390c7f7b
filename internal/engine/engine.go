package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gibbs-bakehouse/stampcard/internal/loyalty"
	"github.com/gibbs-bakehouse/stampcard/internal/schema"
	"github.com/gibbs-bakehouse/stampcard/internal/store"
)

// KV is the key-value provider the document is persisted in.
// Get must return store.ErrNotFound (possibly wrapped) for a missing key.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

// Engine is the single writer for the loyalty document.
//
// Thread-safety: all methods are safe for concurrent use. Mutations are
// serialized by an internal mutex and each one is persisted before it
// returns.
type Engine struct {
	mu     sync.Mutex
	kv     KV
	schema *schema.Validator
	clock  loyalty.Clock
	ids    loyalty.IDGenerator
	logger *slog.Logger
	doc    *loyalty.Document
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the wall clock.
func WithClock(c loyalty.Clock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithIDGenerator replaces the UUIDv7 id generator.
func WithIDGenerator(g loyalty.IDGenerator) Option {
	return func(e *Engine) {
		e.ids = g
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// New loads the document from kv and returns a ready engine.
//
// A missing, unparsable or ill-shaped document is replaced by the default
// document, which is then written back. A read error from kv itself is
// returned, so a transient store failure never overwrites real data.
func New(ctx context.Context, kv KV, opts ...Option) (*Engine, error) {
	v, err := schema.New()
	if err != nil {
		return nil, err
	}

	e := &Engine{
		kv:     kv,
		schema: v,
		clock:  SystemClock{},
		ids:    UUIDv7Generator{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}

	doc, reason, err := e.load(ctx)
	if err != nil {
		return nil, err
	}
	if doc != nil {
		e.doc = doc
		e.logger.Debug("document loaded",
			"customers", len(doc.Customers),
			"activity", len(doc.Activity),
			"specials", len(doc.Specials),
		)
		return e, nil
	}

	e.logger.Warn("using default document", "reason", reason)
	e.doc = loyalty.DefaultDocument(e.env())
	if err := e.save(ctx); err != nil {
		e.logger.Error("save default document", "error", err)
	}
	return e, nil
}

// load returns the stored document, or nil and the reason it is unusable.
func (e *Engine) load(ctx context.Context) (*loyalty.Document, string, error) {
	data, err := e.kv.Get(ctx, loyalty.StorageKey)
	if errors.Is(err, store.ErrNotFound) {
		return nil, "no stored document", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("load document: %w", err)
	}

	if err := e.schema.Validate(data); err != nil {
		return nil, err.Error(), nil
	}

	doc, err := loyalty.Decode(data)
	if err != nil {
		return nil, err.Error(), nil
	}
	return doc, "", nil
}

// save writes the live document. Caller must hold e.mu (or own e exclusively).
func (e *Engine) save(ctx context.Context) error {
	data, err := loyalty.Encode(e.doc)
	if err != nil {
		return err
	}
	if err := e.kv.Put(ctx, loyalty.StorageKey, data); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

func (e *Engine) env() loyalty.Env {
	return loyalty.Env{Clock: e.clock, IDs: e.ids}
}

// mutate applies fn to a copy of the document and commits it.
//
// An error from fn discards the copy and is returned as is. errNoChange
// discards the copy and returns nil. After a commit, a failed write is
// logged and returned as *SaveError; the committed change stays live.
func (e *Engine) mutate(ctx context.Context, op string, fn func(doc *loyalty.Document, env loyalty.Env) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.doc.Clone()
	if err := fn(next, e.env()); err != nil {
		if errors.Is(err, errNoChange) {
			return nil
		}
		e.logger.Debug("mutation rejected", "op", op, "error", err)
		return err
	}

	e.doc = next
	e.logger.Debug("mutation applied", "op", op)

	if err := e.save(ctx); err != nil {
		e.logger.Error("document not saved; change kept in memory",
			"op", op,
			"error", err,
		)
		return &SaveError{Op: op, Err: err}
	}
	return nil
}

// read runs fn against the live document under the lock.
func (e *Engine) read(fn func(doc *loyalty.Document)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.doc)
}

// Document returns a copy of the live document.
func (e *Engine) Document() *loyalty.Document {
	var out *loyalty.Document
	e.read(func(doc *loyalty.Document) { out = doc.Clone() })
	return out
}

// Now returns the engine clock's current time.
func (e *Engine) Now() time.Time {
	return e.clock.Now()
}
