// Package memory is the in-process record store. With a path it doubles as
// the file backend, snapshotting every mutation to a JSON document.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/biohealth/ponto/internal/core/domain"
)

const defaultAuditRetention = 100

// state is everything the store holds. It is also the on-disk snapshot.
type state struct {
	Events  []*domain.ClockEvent `json:"events"`
	Workers []*domain.Worker     `json:"workers"`
	Sites   []*domain.Site       `json:"sites"`
	Users   []*domain.User       `json:"users"`
	Audit   []*domain.AuditEntry `json:"audit"`
}

func (s *state) clone() *state {
	c := &state{
		Events:  make([]*domain.ClockEvent, len(s.Events)),
		Workers: make([]*domain.Worker, len(s.Workers)),
		Sites:   make([]*domain.Site, len(s.Sites)),
		Users:   make([]*domain.User, len(s.Users)),
		Audit:   make([]*domain.AuditEntry, len(s.Audit)),
	}
	for i, e := range s.Events {
		c.Events[i] = e.Clone()
	}
	for i, w := range s.Workers {
		c.Workers[i] = w.Clone()
	}
	for i, site := range s.Sites {
		c.Sites[i] = site.Clone()
	}
	for i, u := range s.Users {
		c.Users[i] = cloneUser(u)
	}
	for i, a := range s.Audit {
		entry := *a
		c.Audit[i] = &entry
	}
	return c
}

// Store is a mutex-guarded record store. Every read returns copies.
type Store struct {
	mu        sync.Mutex
	data      *state
	retention int
	file      *snapshotFile
}

// Option configures a Store.
type Option func(*Store)

// WithAuditRetention caps the number of audit entries kept.
func WithAuditRetention(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.retention = n
		}
	}
}

// New returns an empty in-memory store.
func New(opts ...Option) *Store {
	s := &Store{data: &state{}, retention: defaultAuditRetention}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open returns a store backed by the JSON snapshot at path. A missing file
// starts an empty store.
func Open(path string, opts ...Option) (*Store, error) {
	s := New(opts...)
	f, err := newSnapshotFile(path)
	if err != nil {
		return nil, err
	}
	loaded, err := f.load()
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", path, err)
	}
	if loaded != nil {
		s.data = loaded
	}
	s.file = f
	return s, nil
}

// Ping reports whether the store can serve requests.
func (s *Store) Ping(_ context.Context) error {
	return nil
}

// Close flushes the snapshot when the store is file-backed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushLocked()
}

type txKey struct{}

// RunInTx runs fn holding the store lock. Repository calls made with the ctx
// given to fn join the transaction; if fn fails every change is rolled back.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.data.clone()
	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		s.data = before
		return err
	}
	return s.flushLocked()
}

func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

// read runs fn with the state locked unless ctx already holds the lock.
func (s *Store) read(ctx context.Context, fn func(d *state)) {
	if !s.inTx(ctx) {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	fn(s.data)
}

// write is read followed by a snapshot flush outside of transactions.
func (s *Store) write(ctx context.Context, fn func(d *state) error) error {
	if s.inTx(ctx) {
		return fn(s.data)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(s.data); err != nil {
		return err
	}
	return s.flushLocked()
}

func (s *Store) flushLocked() error {
	if s.file == nil {
		return nil
	}
	return s.file.save(s.data)
}

// Events returns the clock event repository.
func (s *Store) Events() *EventRepository { return &EventRepository{store: s} }

// Workers returns the worker repository.
func (s *Store) Workers() *WorkerRepository { return &WorkerRepository{store: s} }

// Sites returns the site repository.
func (s *Store) Sites() *SiteRepository { return &SiteRepository{store: s} }

// Users returns the login account repository.
func (s *Store) Users() *UserRepository { return &UserRepository{store: s} }

// Audit returns the audit trail repository.
func (s *Store) Audit() *AuditRepository { return &AuditRepository{store: s} }

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	c := *u
	c.Permissions = append([]string(nil), u.Permissions...)
	return &c
}
