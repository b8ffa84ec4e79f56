package services

import (
	"context"
	"errors"

	"github.com/luowen/postpilot/internal/models"
)

// ErrItemNotFound is returned by the deploy pipeline when a due queue entry
// references a catalog item that no longer exists. The scheduler treats it
// as a per-account failure, not a run-level fault.
var ErrItemNotFound = errors.New("catalog item not found")

// Rewriter produces account-voiced copy for a catalog item.
type Rewriter interface {
	Rewrite(ctx context.Context, acct *models.Account, item *models.CatalogItem) (string, error)
}

// Renderer turns rewritten copy into a promotional image.
type Renderer interface {
	Render(ctx context.Context, text string) ([]byte, error)
}

// Uploader pushes rendered media to the hosting service and returns its
// public URL.
type Uploader interface {
	Upload(ctx context.Context, data []byte) (string, error)
}
