package domain

import "time"

// ProductCategory groups catalog entries.
type ProductCategory string

const (
	CategoryTractor   ProductCategory = "TRACTOR"
	CategoryHarvester ProductCategory = "HARVESTER"
	CategoryImplement ProductCategory = "IMPLEMENT"
	CategorySparePart ProductCategory = "SPARE_PART"
)

// Product is one machinery catalog entry with its list price in whole
// currency units and a best-effort stock level.
type Product struct {
	ID         string
	Code       string
	Name       string
	Category   ProductCategory
	Price      int64
	StockLevel int
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
