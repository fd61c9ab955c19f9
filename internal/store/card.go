package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-srs/internal/domain"
)

// CardStore reads the shared card catalog. Nothing in this service writes it.
type CardStore interface {
	// GetByID returns ErrCardNotFound for an unknown id. The review
	// transaction uses it to reject ratings for cards outside the catalog.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	WithTx(tx *sql.Tx) CardStore
}
