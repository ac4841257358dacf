package ordering

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Assey1152/orders/internal/domain/ordering"
)

// ItemInput is one basket line to add: which listing and how many
type ItemInput struct {
	ListingID uuid.UUID `json:"listing_id"`
	Quantity  int       `json:"quantity"`
}

// ItemUpdate changes the quantity of an existing basket line
type ItemUpdate struct {
	ItemID   uuid.UUID `json:"item_id"`
	Quantity int       `json:"quantity"`
}

// OrderItemView is one line of an order as seen by the buyer
type OrderItemView struct {
	ID        uuid.UUID       `json:"id"`
	ListingID uuid.UUID       `json:"listing_id"`
	Product   string          `json:"product"`
	Category  string          `json:"category"`
	Shop      string          `json:"shop"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Sum       decimal.Decimal `json:"sum"`
}

// OrderView is an order with its lines and the live total
type OrderView struct {
	ID        uuid.UUID           `json:"id"`
	State     ordering.OrderState `json:"state"`
	ContactID *uuid.UUID          `json:"contact_id,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
	Items     []OrderItemView     `json:"items"`
	TotalSum  decimal.Decimal     `json:"total_sum"`
}

// NewOrderView projects an order with preloaded listings
func NewOrderView(order *ordering.Order) OrderView {
	view := OrderView{
		ID:        order.ID,
		State:     order.State,
		ContactID: order.ContactID,
		CreatedAt: order.CreatedAt,
		Items:     make([]OrderItemView, 0, len(order.Items)),
		TotalSum:  order.TotalSum(),
	}
	for i := range order.Items {
		view.Items = append(view.Items, newOrderItemView(&order.Items[i]))
	}
	return view
}

func newOrderItemView(item *ordering.OrderItem) OrderItemView {
	view := OrderItemView{
		ID:        item.ID,
		ListingID: item.ListingID,
		Quantity:  item.Quantity,
	}
	if item.Listing != nil {
		view.Price = item.Listing.Price
		view.Sum = item.Listing.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		if item.Listing.Product != nil {
			view.Product = item.Listing.Product.Name
			if item.Listing.Product.Category != nil {
				view.Category = item.Listing.Product.Category.Name
			}
		}
		if item.Listing.Shop != nil {
			view.Shop = item.Listing.Shop.Name
		}
	}
	return view
}
