package ports

import (
	"context"

	"github.com/ItsCharrs/logipro/internal/core/domain"
)

// SessionAuditor persists session transitions.
type SessionAuditor interface {
	Record(ctx context.Context, ev *domain.SessionEvent) error
}
