package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/criollos/pos-backend/models"
)

// Schema maps logical names to the physical names present in the connected
// database, for the places that issue raw SQL. Deployments migrated from
// older POS releases carry variant names (stock vs stock_actual, sale_items
// vs sale_details), so the mapping is probed once at startup and injected,
// instead of re-discovering it per request. Columns only ever touched
// through the gorm models are not mapped, just checked for existence.
type Schema struct {
	ProductStockCol string
	SaleItemsTable  string
}

// ResolveSchema probes the store for the structure this codebase can work
// with. It returns an error when structure required by the sale pipeline is
// missing; callers must refuse to settle orders in that case.
func ResolveSchema(db *gorm.DB) (*Schema, error) {
	m := db.Migrator()

	for _, table := range []string{"orders", "products", "sales"} {
		if !m.HasTable(table) {
			return nil, fmt.Errorf("required table %q is missing", table)
		}
	}

	saleItemsTable := firstTable(db, "sale_items", "sale_details", "sale_lines")
	if saleItemsTable == "" {
		return nil, fmt.Errorf("no sale line table found (sale_items/sale_details/sale_lines)")
	}

	for _, col := range []string{"user_id", "total"} {
		if !m.HasColumn(&models.Sale{}, col) {
			return nil, fmt.Errorf("sales table is missing required column %q", col)
		}
	}

	stockCol := firstColumn(db, &models.Product{}, "stock", "stock_quantity", "stock_actual")
	priceCol := firstColumn(db, &models.Product{}, "price", "sale_price")
	if stockCol == "" || priceCol == "" {
		return nil, fmt.Errorf("products table is missing price/stock columns")
	}

	return &Schema{
		ProductStockCol: stockCol,
		SaleItemsTable:  saleItemsTable,
	}, nil
}

func firstTable(db *gorm.DB, candidates ...string) string {
	for _, name := range candidates {
		if db.Migrator().HasTable(name) {
			return name
		}
	}
	return ""
}

func firstColumn(db *gorm.DB, model interface{}, candidates ...string) string {
	for _, name := range candidates {
		if db.Migrator().HasColumn(model, name) {
			return name
		}
	}
	return ""
}
