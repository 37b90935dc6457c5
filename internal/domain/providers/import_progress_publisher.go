package providers

import (
	"context"

	"github.com/zatekoja/volunteerconnect/backend/internal/domain/entities"
)

// ImportProgressPublisher broadcasts import progress to interested clients.
type ImportProgressPublisher interface {
	PublishProgress(ctx context.Context, progress *entities.ImportProgress) error
}

// ImportProgressSubscriber streams progress events until ctx is done. The
// returned channel is closed when the subscription ends.
type ImportProgressSubscriber interface {
	Subscribe(ctx context.Context) (<-chan *entities.ImportProgress, error)
}
