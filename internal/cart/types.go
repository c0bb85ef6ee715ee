package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Placeholder art used when a menu item carries no image of its own.
const defaultItemImage = "https://via.placeholder.com/600x400/e92c40/ffffff?text=Food+Heaven"

// Line is the snapshot of one menu item taken when it entered the cart.
// Later catalog edits never alter the stored name, price, or image.
type Line struct {
	ItemID    uuid.UUID       `json:"item_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	ImageURL  string          `json:"image_url"`
}

// LineTotal returns unit price times quantity.
func (l Line) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// State is the authoritative cart for one owner. Every line holds a
// strictly positive quantity; a line at zero is deleted, never stored.
type State struct {
	Lines []Line `json:"lines"`
}

// TotalItems sums the quantities across all lines.
func (s State) TotalItems() int {
	total := 0
	for _, line := range s.Lines {
		total += line.Quantity
	}
	return total
}

// TotalPrice sums the line totals across all lines.
func (s State) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, line := range s.Lines {
		total = total.Add(line.LineTotal())
	}
	return total
}

// ItemQuantity returns the quantity of the given item, zero when absent.
func (s State) ItemQuantity(itemID uuid.UUID) int {
	for _, line := range s.Lines {
		if line.ItemID == itemID {
			return line.Quantity
		}
	}
	return 0
}

func (s State) lineIndex(itemID uuid.UUID) int {
	for i, line := range s.Lines {
		if line.ItemID == itemID {
			return i
		}
	}
	return -1
}

// CartDTO is the transport shape: the lines plus their aggregates.
type CartDTO struct {
	Lines      []Line          `json:"lines"`
	TotalItems int             `json:"total_items"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

func toDTO(state State) *CartDTO {
	lines := state.Lines
	if lines == nil {
		lines = []Line{}
	}
	return &CartDTO{
		Lines:      lines,
		TotalItems: state.TotalItems(),
		TotalPrice: state.TotalPrice(),
	}
}
