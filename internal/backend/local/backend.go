// Package local implements the service.Service interface on top of the
// key-value store, the session container and the task list container.
package local

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"todo/internal/config"
	"todo/internal/kvstore"
	"todo/internal/service"
	"todo/internal/session"
	"todo/internal/tasklist"
)

// Backend implements service.Service against a local store.
type Backend struct {
	store   kvstore.Store
	session *session.Session
	tasks   *tasklist.List
	log     logrus.FieldLogger

	// hydrateErr is reported by task operations; session operations ignore it
	// so that logout still resets a corrupt store.
	hydrateErr error
}

// New opens the configured store, restores the session and hydrates the list.
func New(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*Backend, error) {
	if cfg.Store.Driver == kvstore.DriverSQLite {
		if err := cfg.EnsureDir(); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	store, err := kvstore.Open(ctx, cfg.Store.Driver, cfg.StoreDSN())
	if err != nil {
		return nil, err
	}

	b, err := NewWithStore(ctx, store, cfg, log)
	if err != nil {
		store.Close()
		return nil, err
	}
	return b, nil
}

// NewWithStore builds a backend over an already opened store (for testing).
func NewWithStore(ctx context.Context, store kvstore.Store, cfg *config.Config, log logrus.FieldLogger) (*Backend, error) {
	log = log.WithField("driver", cfg.Store.Driver)

	b := &Backend{
		store:   store,
		session: session.New(store, cfg.Session.TTL, log),
		tasks:   tasklist.New(store, session.TasksKey, log),
		log:     log,
	}

	if err := b.session.Restore(ctx); err != nil {
		return nil, err
	}
	if err := b.tasks.Hydrate(ctx); err != nil {
		log.WithError(err).Debug("task list not loaded")
		b.hydrateErr = err
	}
	return b, nil
}

// LoggedIn implements service.Service.
func (b *Backend) LoggedIn() bool {
	return b.session.LoggedIn()
}

// Login implements service.Service.
func (b *Backend) Login(ctx context.Context, username, password string) (bool, error) {
	return b.session.Login(ctx, username, password)
}

// Logout implements service.Service.
func (b *Backend) Logout(ctx context.Context) error {
	if err := b.session.Logout(ctx); err != nil {
		return err
	}
	b.tasks.Forget()
	b.hydrateErr = nil
	return nil
}

// Tasks implements service.Service.
func (b *Backend) Tasks(ctx context.Context) ([]service.Task, error) {
	if b.hydrateErr != nil {
		return nil, b.hydrateErr
	}
	return b.tasks.Tasks(), nil
}

// AddTask implements service.Service.
func (b *Backend) AddTask(ctx context.Context, d service.Draft) (service.Task, error) {
	if b.hydrateErr != nil {
		return service.Task{}, b.hydrateErr
	}
	return b.tasks.Add(ctx, d)
}

// UpdateTask implements service.Service.
func (b *Backend) UpdateTask(ctx context.Context, id string, p service.Patch) error {
	if b.hydrateErr != nil {
		return b.hydrateErr
	}
	return b.tasks.Update(ctx, id, p)
}

// DeleteTask implements service.Service.
func (b *Backend) DeleteTask(ctx context.Context, id string) error {
	if b.hydrateErr != nil {
		return b.hydrateErr
	}
	return b.tasks.Delete(ctx, id)
}

// ToggleComplete implements service.Service.
func (b *Backend) ToggleComplete(ctx context.Context, id string) error {
	if b.hydrateErr != nil {
		return b.hydrateErr
	}
	return b.tasks.ToggleComplete(ctx, id)
}

// Close implements service.Service.
func (b *Backend) Close() error {
	return b.store.Close()
}
