package domain

// InventoryItem is one tracked ice cream flavour.
type InventoryItem struct {
	ID          int64  `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Stock       int    `db:"stock" json:"stock"`
	MaxStock    int    `db:"max_stock" json:"max_stock"`
	TargetStock int    `db:"target_stock" json:"target_stock"`
}

// StockLevels is the replaceable part of an item.
type StockLevels struct {
	Stock       int
	MaxStock    int
	TargetStock int
}

// Apply returns a copy of the item carrying the given levels.
func (i InventoryItem) Apply(levels StockLevels) InventoryItem {
	i.Stock = levels.Stock
	i.MaxStock = levels.MaxStock
	i.TargetStock = levels.TargetStock
	return i
}

// SeedItemNames lists the flavours inserted on first run, in insertion order.
var SeedItemNames = []string{
	"Strawberry Cheesecake",
	"Rainbow",
	"Honey Cotton Candy",
	"Cookies & Cream",
}
