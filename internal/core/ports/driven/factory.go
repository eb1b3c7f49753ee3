package driven

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// ConnectorFactory builds a Connector for a stored source. The source's
// Type selects the implementation; ErrUnsupportedType is returned for
// types nothing is registered under.
type ConnectorFactory interface {
	Create(ctx context.Context, source domain.Source) (Connector, error)
}
