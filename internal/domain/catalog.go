package domain

// StockStatus is the storefront availability flag. Active and OutOfStock are
// derived from stock quantity; Inactive is an administrator override that the
// repair job must never touch.
type StockStatus string

const (
	StockStatusActive     StockStatus = "ACTIVE"
	StockStatusOutOfStock StockStatus = "OUT_OF_STOCK"
	StockStatusInactive   StockStatus = "INACTIVE"
)

// Product is a storefront catalog entry whose status mirrors the summed
// stock of its variants.
type Product struct {
	ID     string
	Name   string
	Status StockStatus
}

// ProductVariant is a sellable option of a product with its own stock count.
type ProductVariant struct {
	ID            string
	ProductID     string
	Status        StockStatus
	StockQuantity int
}
