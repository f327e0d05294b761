package inventory

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Item types stocked by the centers.
const (
	TypeOil        = "Oil"
	TypeMedicine   = "Medicine"
	TypeConsumable = "Consumable"
)

var (
	// ErrNotFound is returned when an item does not exist.
	ErrNotFound = errors.New("inventory: item not found")

	ErrInvalidName   = errors.New("inventory: name required")
	ErrInvalidType   = errors.New("inventory: unknown item type")
	ErrInvalidAmount = errors.New("inventory: amount must be positive")
)

// Item is a stocked oil, medicine, or consumable.
type Item struct {
	ID                uuid.UUID  `json:"id"`
	Name              string     `json:"name"`
	Type              string     `json:"type"`
	StockLevel        int        `json:"stock_level"`
	Unit              string     `json:"unit"`
	LowStockThreshold int        `json:"low_stock_threshold"`
	LastRestocked     *time.Time `json:"last_restocked,omitempty"`
}

// LowStock reports whether the item has fallen to or below its threshold.
func (i *Item) LowStock() bool {
	return i.StockLevel <= i.LowStockThreshold
}

// Validate checks a new item before insert.
func (i *Item) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return ErrInvalidName
	}
	switch i.Type {
	case TypeOil, TypeMedicine, TypeConsumable:
		return nil
	default:
		return ErrInvalidType
	}
}
