package marketdata

import (
	"context"
	"encoding/json"

	"github.com/quantrisk/var-engine/internal/kafka"
	"github.com/quantrisk/var-engine/pkg/models"
	"github.com/quantrisk/var-engine/pkg/utils/logger"
)

// Ingestor feeds price bars from a Kafka topic into the store.
type Ingestor struct {
	store    *Store
	consumer *kafka.Consumer
	log      *logger.Logger
}

// NewIngestor creates an ingestor reading from the given consumer.
func NewIngestor(store *Store, consumer *kafka.Consumer) *Ingestor {
	return &Ingestor{
		store:    store,
		consumer: consumer,
		log:      logger.GetLogger("marketdata.ingestor"),
	}
}

// Run consumes price-bar messages until the context is canceled.
// Messages that fail to decode or validate are logged and dropped;
// ingestion is best-effort and the engine only sees stored bars.
func (i *Ingestor) Run(ctx context.Context) error {
	return i.consumer.Run(ctx, func(_ context.Context, _, value []byte) error {
		var bar models.PriceBar
		if err := json.Unmarshal(value, &bar); err != nil {
			return err
		}
		return i.store.Add(bar)
	})
}
