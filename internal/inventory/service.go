package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ayursutra/panchakarma-platform/pkg/logging"
)

// Alerter notifies administrators about stock events.
type Alerter interface {
	SendLowStockAlert(ctx context.Context, itemName string, stockLevel int, unit string) error
}

// Service layers threshold alerting over the store.
type Service struct {
	store   *Store
	alerter Alerter
	logger  *logging.Logger
}

// NewService creates an inventory service.
func NewService(store *Store, alerter Alerter, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{store: store, alerter: alerter, logger: logger}
}

// List returns all items, seeding the starter stock on an empty table.
func (s *Service) List(ctx context.Context) ([]Item, error) {
	seeded, err := s.store.SeedInitialInventory(ctx)
	if err != nil {
		return nil, err
	}
	if seeded {
		s.logger.Info("inventory: seeded starter stock")
	}
	return s.store.ListAll(ctx)
}

// Add registers a new item.
func (s *Service) Add(ctx context.Context, item *Item) error {
	return s.store.Add(ctx, item)
}

// Consume deducts stock and fires a low-stock alert when the deduction
// crosses the item's threshold. Alert failures are logged, not returned.
func (s *Service) Consume(ctx context.Context, id uuid.UUID, amount int) (*Item, error) {
	item, err := s.store.Consume(ctx, id, amount)
	if err != nil {
		return nil, err
	}
	if item.LowStock() && item.StockLevel+amount > item.LowStockThreshold {
		s.logger.Warn("inventory: stock below threshold",
			"item", item.Name, "level", item.StockLevel, "threshold", item.LowStockThreshold)
		if s.alerter != nil {
			if err := s.alerter.SendLowStockAlert(ctx, item.Name, item.StockLevel, item.Unit); err != nil {
				s.logger.Error("inventory: low stock alert failed", "item", item.Name, "error", err)
			}
		}
	}
	return item, nil
}

// Restock adds stock and stamps the restock time.
func (s *Service) Restock(ctx context.Context, id uuid.UUID, amount int) (*Item, error) {
	item, err := s.store.Restock(ctx, id, amount)
	if err != nil {
		return nil, err
	}
	s.logger.Info("inventory: restocked", "item", item.Name, "level", item.StockLevel)
	return item, nil
}

// LowStockItems filters the current stock down to items at or below threshold.
func (s *Service) LowStockItems(ctx context.Context) ([]Item, error) {
	all, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("inventory: low stock scan: %w", err)
	}
	var low []Item
	for _, item := range all {
		if item.LowStock() {
			low = append(low, item)
		}
	}
	return low, nil
}
