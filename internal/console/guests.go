package console

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"wedding-registry/internal/client"
	"wedding-registry/internal/models"
	"wedding-registry/internal/storage"
)

// Guests is what the console needs from a registry. *client.Client
// satisfies it for a remote server; Local serves an in-process one.
type Guests interface {
	Save(ctx context.Context, name string, side models.Side, family bool) (models.Guest, error)
	Update(ctx context.Context, guest models.Guest) (models.Guest, error)
	Load(ctx context.Context, name string) (models.Guest, error)
	List(ctx context.Context) ([]models.Guest, error)
	Stats(ctx context.Context) (models.GuestStatistics, error)
}

var _ Guests = (*client.Client)(nil)

// Local adapts a storage.Registry to Guests. Domain failures carry the same
// reasons the HTTP API replies with.
type Local struct {
	registry storage.Registry
}

// NewLocal wraps registry for in-process use
func NewLocal(registry storage.Registry) *Local {
	return &Local{registry: registry}
}

func (l *Local) Save(ctx context.Context, name string, side models.Side, family bool) (models.Guest, error) {
	g, err := l.registry.Insert(ctx, models.Guest{Name: name, Side: side, Family: family})
	if errors.Is(err, storage.ErrAlreadyExists) {
		return models.Guest{}, &rejection{reason: storage.AlreadyEnteredMessage(name), err: err}
	}
	return g, err
}

func (l *Local) Update(ctx context.Context, guest models.Guest) (models.Guest, error) {
	g, err := l.registry.Replace(ctx, guest)
	if errors.Is(err, storage.ErrNotFound) {
		return models.Guest{}, &rejection{reason: storage.MustExistMessage(guest.Name), err: err}
	}
	return g, err
}

func (l *Local) Load(ctx context.Context, name string) (models.Guest, error) {
	g, err := l.registry.Get(ctx, name)
	if errors.Is(err, storage.ErrNotFound) {
		return models.Guest{}, &rejection{reason: storage.NoGuestMessage(name), err: err}
	}
	return g, err
}

func (l *Local) List(ctx context.Context) ([]models.Guest, error) {
	return l.registry.List(ctx)
}

func (l *Local) Stats(ctx context.Context) (models.GuestStatistics, error) {
	guests, err := l.registry.List(ctx)
	if err != nil {
		return models.GuestStatistics{}, err
	}
	return models.ComputeStatistics(guests), nil
}

// rejection shows the operator-facing reason and unwraps to the store sentinel
type rejection struct {
	reason string
	err    error
}

func (r *rejection) Error() string { return r.reason }
func (r *rejection) Unwrap() error { return r.err }

// isRejection reports whether err is a refusal the operator can act on, as
// opposed to a failure worth logging
func isRejection(err error) bool {
	var (
		rej *rejection
		req *client.RequestError
	)
	switch {
	case errors.As(err, &rej), errors.Is(err, models.ErrInvalidGuest):
		return true
	case errors.As(err, &req):
		return req.Status == http.StatusBadRequest
	}
	return false
}

func describe(err error) string {
	if isRejection(err) {
		return err.Error()
	}
	return fmt.Sprintf("Error talking to the registry: %v", err)
}
