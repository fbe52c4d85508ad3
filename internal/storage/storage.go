package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"wedding-registry/internal/models"
)

var (
	// ErrAlreadyExists is returned by Insert when the name is taken
	ErrAlreadyExists = errors.New("guest already exists")
	// ErrNotFound is returned when no guest has the requested name
	ErrNotFound = errors.New("guest not found")
)

// Registry stores guests keyed by their exact, case-sensitive name.
// Implementations never hand out values that alias their own copies.
type Registry interface {
	Insert(ctx context.Context, guest models.Guest) (models.Guest, error)
	Replace(ctx context.Context, guest models.Guest) (models.Guest, error)
	Get(ctx context.Context, name string) (models.Guest, error)
	List(ctx context.Context) ([]models.Guest, error)
	Reset(ctx context.Context) error
}

// Storage is the in-memory Registry
type Storage struct {
	mu     sync.RWMutex
	guests map[string]models.Guest
}

// NewStorage creates a new, empty storage instance
func NewStorage() *Storage {
	return &Storage{
		guests: make(map[string]models.Guest),
	}
}

// Insert stores a guest whose name is not yet registered
func (s *Storage) Insert(_ context.Context, guest models.Guest) (models.Guest, error) {
	if err := guest.Validate(); err != nil {
		return models.Guest{}, fmt.Errorf("failed to insert guest '%s': %w", guest.Name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.guests[guest.Name]; exists {
		return models.Guest{}, fmt.Errorf("insert '%s': %w", guest.Name, ErrAlreadyExists)
	}
	s.guests[guest.Name] = guest.Clone()
	return guest.Clone(), nil
}

// Replace swaps the stored guest with the same name for the given one
func (s *Storage) Replace(_ context.Context, guest models.Guest) (models.Guest, error) {
	if err := guest.Validate(); err != nil {
		return models.Guest{}, fmt.Errorf("failed to replace guest '%s': %w", guest.Name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.guests[guest.Name]; !exists {
		return models.Guest{}, fmt.Errorf("replace '%s': %w", guest.Name, ErrNotFound)
	}
	delete(s.guests, guest.Name)
	s.guests[guest.Name] = guest.Clone()
	return guest.Clone(), nil
}

// Get retrieves a guest by name
func (s *Storage) Get(_ context.Context, name string) (models.Guest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.guests[name]
	if !ok {
		return models.Guest{}, fmt.Errorf("get '%s': %w", name, ErrNotFound)
	}
	return g.Clone(), nil
}

// List returns all guests in alphabetical order
func (s *Storage) List(_ context.Context) ([]models.Guest, error) {
	s.mu.RLock()
	guests := make([]models.Guest, 0, len(s.guests))
	for _, g := range s.guests {
		guests = append(guests, g.Clone())
	}
	s.mu.RUnlock()

	SortByName(guests)
	return guests, nil
}

// Reset drops every guest. Only tests should need this.
func (s *Storage) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.guests = make(map[string]models.Guest)
	return nil
}
