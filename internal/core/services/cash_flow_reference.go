package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/SscSPs/boutique_treasury/internal/core/domain"
)

// referenceAttempts bounds how many references are drawn for one write.
const referenceAttempts = 3

// retryOnReferenceCollision reruns write while it fails with
// domain.ErrReferenceTaken. write must draw a fresh reference and open its own
// unit of work on every call; the failed one has already rolled back.
func (s *cashFlowService) retryOnReferenceCollision(ctx context.Context, write func() error) error {
	var err error
	for attempt := 1; attempt <= referenceAttempts; attempt++ {
		err = write()
		if !errors.Is(err, domain.ErrReferenceTaken) {
			return err
		}
		s.LogDebug(ctx, "Cash flow reference already taken, drawing another", slog.Int("attempt", attempt))
	}
	return err
}
