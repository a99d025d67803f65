package sales

import (
	"errors"
	"sync"
)

// ErrNotFound is returned when a draft with the given ID is not found.
var ErrNotFound = errors.New("draft not found")

// ErrEmptyID is returned when trying to store a draft with an empty ID.
var ErrEmptyID = errors.New("empty draft ID")

// Storage keeps the drafts being composed. Drafts never outlive the process.
type Storage interface {
	Set(d *Draft) error
	Read(id string) (*Draft, error)
	Update(id string, fn func(d *Draft) error) (*Draft, error)
	Delete(id string) error
	GetAll() ([]*Draft, error)
}

// LocalStorage provides an in-memory implementation for storing drafts.
type LocalStorage struct {
	mu sync.Mutex
	m  map[string]*Draft
}

// NewLocalStorage instantiates a new LocalStorage with an empty map.
func NewLocalStorage() *LocalStorage {
	return &LocalStorage{
		m: map[string]*Draft{},
	}
}

// Set stores a copy of the draft.
// Returns ErrEmptyID if the draft has an empty ID.
func (l *LocalStorage) Set(d *Draft) error {
	if d.SaleID == "" {
		return ErrEmptyID
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.m[d.SaleID] = d.Clone()
	return nil
}

// Read retrieves a copy of a draft by ID.
// Returns ErrNotFound if the draft is not found.
func (l *LocalStorage) Read(id string) (*Draft, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, ok := l.m[id]
	if !ok {
		return nil, ErrNotFound
	}
	return d.Clone(), nil
}

// Update runs fn on a working copy of the draft and stores it only when fn
// succeeds, so a failed edit never leaves a half-applied draft behind.
func (l *LocalStorage) Update(id string, fn func(d *Draft) error) (*Draft, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, ok := l.m[id]
	if !ok {
		return nil, ErrNotFound
	}
	work := d.Clone()
	if err := fn(work); err != nil {
		return nil, err
	}
	l.m[id] = work
	return work.Clone(), nil
}

func (l *LocalStorage) Delete(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.m[id]; !ok {
		return ErrNotFound
	}
	delete(l.m, id)
	return nil
}

// GetAll retrieves copies of all drafts.
func (l *LocalStorage) GetAll() ([]*Draft, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	drafts := make([]*Draft, 0, len(l.m))
	for _, d := range l.m {
		drafts = append(drafts, d.Clone())
	}
	return drafts, nil
}
