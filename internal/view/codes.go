package view

import (
	"context"
	"sync"

	"github.com/richgang/fxpulse/internal/core"
	"go.uber.org/zap"
)

// CodesBackend is the owner-only access-code slice of the API surface.
type CodesBackend interface {
	ListAccessCodes(ctx context.Context) ([]core.AccessCode, error)
	CreateAccessCode(ctx context.Context, name string) (*core.AccessCode, error)
	RevokeAccessCode(ctx context.Context, id string) error
}

// Codes is the owner's access-code management view. Mutations pass
// straight through to the backend; a failed list keeps the last-good
// listing.
type Codes struct {
	backend CodesBackend
	logger  *zap.Logger

	mu    sync.RWMutex
	codes []core.AccessCode
}

// NewCodes creates the access-code view.
func NewCodes(backend CodesBackend, logger *zap.Logger) *Codes {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Codes{backend: backend, logger: logger}
}

// Refresh reloads the code listing. On failure the previous listing
// is kept and the error returned for the caller to surface.
func (c *Codes) Refresh(ctx context.Context) ([]core.AccessCode, error) {
	codes, err := c.backend.ListAccessCodes(ctx)
	if err != nil {
		c.logger.Warn("access-code list failed", zap.Error(err))
		c.mu.RLock()
		defer c.mu.RUnlock()
		return c.codes, err
	}

	c.mu.Lock()
	c.codes = codes
	c.mu.Unlock()
	return codes, nil
}

// Create creates a named code and refreshes the cached listing.
func (c *Codes) Create(ctx context.Context, name string) (*core.AccessCode, error) {
	created, err := c.backend.CreateAccessCode(ctx, name)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.codes = append(c.codes, *created)
	c.mu.Unlock()
	return created, nil
}

// Revoke deactivates a code by id and drops it from the cache.
func (c *Codes) Revoke(ctx context.Context, id string) error {
	if err := c.backend.RevokeAccessCode(ctx, id); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.codes[:0]
	for _, code := range c.codes {
		if code.ID != id {
			kept = append(kept, code)
		}
	}
	c.codes = kept
	return nil
}
