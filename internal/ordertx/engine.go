// Package ordertx creates orders atomically. It is the only
// multi-statement transactional unit in the system: either the order row
// and every one of its item rows are committed together, or nothing is.
package ordertx

import (
	"errors"
	"time"

	"github.com/EduardoAE22/komerciohub/internal/model"
	"github.com/EduardoAE22/komerciohub/internal/ownership"
	"github.com/EduardoAE22/komerciohub/prometheus"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LineInput is one requested order line. Quantity defaults to 1 when
// absent or not positive. Duplicate product ids stay separate lines.
type LineInput struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// CreateInput is the full order-creation request.
type CreateInput struct {
	MerchantID uint
	BranchID   *uint
	CustomerID *uint
	Items      []LineInput
	Notes      string
	CreatedBy  uint
}

// CreatedItem is an inserted order item re-read from the database,
// joined with the product name for the response payload.
type CreatedItem struct {
	ID          uint            `json:"id"`
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Result is a committed order with its items ordered by item id.
type Result struct {
	Order model.Order
	Items []CreatedItem
}

// Engine runs the order-creation transaction and the pay transition.
type Engine struct {
	db *gorm.DB
}

func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db}
}

// Create validates the request against catalog state and commits the
// order with its items in one transaction. Validation of branch,
// customer and products happens inside the open transaction, so a row
// deactivated after authorization still fails the whole attempt.
func (e *Engine) Create(input CreateInput) (*Result, error) {
	if input.MerchantID == 0 {
		return nil, validationErr("missing_merchant", "merchant_id is required")
	}
	if len(input.Items) == 0 {
		return nil, validationErr("missing_items", "items is required and must have at least 1 product")
	}

	allowed, err := ownership.Authorize(e.db, input.CreatedBy, input.MerchantID)
	if err != nil {
		return nil, internalErr("checking merchant access failed", err)
	}
	if !allowed {
		return nil, forbiddenErr("you do not have access to this merchant")
	}

	defer prometheus.TrackDBOperation("transaction")(time.Now())

	var result Result
	txErr := e.db.Transaction(func(tx *gorm.DB) error {
		if input.BranchID != nil {
			var count int64
			if err := tx.Model(&model.Branch{}).
				Where("id = ? AND merchant_id = ?", *input.BranchID, input.MerchantID).
				Scopes(model.ActiveOnly).
				Count(&count).Error; err != nil {
				return internalErr("checking branch failed", err)
			}
			if count == 0 {
				return validationErr("invalid_branch", "branch is not valid for this merchant")
			}
		}

		if input.CustomerID != nil {
			var count int64
			if err := tx.Model(&model.Customer{}).
				Where("id = ? AND merchant_id = ?", *input.CustomerID, input.MerchantID).
				Scopes(model.ActiveOnly).
				Count(&count).Error; err != nil {
				return internalErr("checking customer failed", err)
			}
			if count == 0 {
				return validationErr("invalid_customer", "customer is not valid for this merchant")
			}
		}

		// Resolve every distinct requested product. A partial match is a
		// rejection, never a silent drop.
		distinct := make([]uint, 0, len(input.Items))
		seen := make(map[uint]bool, len(input.Items))
		for _, item := range input.Items {
			if !seen[item.ProductID] {
				seen[item.ProductID] = true
				distinct = append(distinct, item.ProductID)
			}
		}

		var products []model.Product
		if err := tx.Where("id IN ? AND merchant_id = ?", distinct, input.MerchantID).
			Scopes(model.ActiveOnly).
			Find(&products).Error; err != nil {
			return internalErr("loading products failed", err)
		}
		if len(products) < len(distinct) {
			return validationErr("invalid_product", "a product does not exist, is not active or does not belong to this merchant")
		}

		productByID := make(map[uint]model.Product, len(products))
		for _, p := range products {
			productByID[p.ID] = p
		}

		// Snapshot prices and compute the total. These values are never
		// revisited, even if the product price changes later.
		totalAmount := decimal.Zero
		items := make([]model.OrderItem, 0, len(input.Items))
		for _, line := range input.Items {
			quantity := line.Quantity
			if quantity <= 0 {
				quantity = 1
			}
			product := productByID[line.ProductID]
			lineTotal := product.Price.Mul(decimal.NewFromInt(int64(quantity)))
			totalAmount = totalAmount.Add(lineTotal)

			items = append(items, model.OrderItem{
				ProductID:  line.ProductID,
				Quantity:   quantity,
				UnitPrice:  product.Price,
				TotalPrice: lineTotal,
			})
		}

		order := model.Order{
			MerchantID:  input.MerchantID,
			BranchID:    input.BranchID,
			CustomerID:  input.CustomerID,
			CreatedBy:   input.CreatedBy,
			TotalAmount: totalAmount,
			Status:      model.OrderStatusPending,
			Notes:       input.Notes,
			IsActive:    true,
		}
		if err := tx.Create(&order).Error; err != nil {
			return internalErr("inserting order failed", err)
		}

		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return internalErr("inserting order items failed", err)
		}

		// Re-read the inserted items for the response payload.
		var created []CreatedItem
		if err := tx.Table("order_items").
			Select("order_items.id, order_items.product_id, products.name AS product_name, order_items.quantity, order_items.unit_price, order_items.total_price, order_items.created_at").
			Joins("JOIN products ON products.id = order_items.product_id").
			Where("order_items.order_id = ?", order.ID).
			Order("order_items.id").
			Scan(&created).Error; err != nil {
			return internalErr("reading order items failed", err)
		}

		result.Order = order
		result.Items = created
		return nil
	})
	if txErr != nil {
		var engineErr *Error
		if errors.As(txErr, &engineErr) {
			return nil, engineErr
		}
		return nil, internalErr("order transaction failed", txErr)
	}

	return &result, nil
}

// Pay marks an order as paid. Paying an already paid order is a no-op
// that succeeds without touching updated_at. There is no transition out
// of paid.
func (e *Engine) Pay(userID, orderID uint) (*model.Order, error) {
	var row struct {
		ID      uint
		Status  string
		OwnerID uint
	}
	res := e.db.Table("orders").
		Select("orders.id, orders.status, merchants.owner_id").
		Joins("JOIN merchants ON merchants.id = orders.merchant_id").
		Where("orders.id = ?", orderID).
		Limit(1).
		Scan(&row)
	if res.Error != nil {
		return nil, internalErr("loading order failed", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, notFoundErr("order not found")
	}
	if row.OwnerID != userID {
		return nil, forbiddenErr("you do not have access to this order")
	}

	var order model.Order
	if row.Status == model.OrderStatusPaid {
		if err := e.db.First(&order, orderID).Error; err != nil {
			return nil, internalErr("loading order failed", err)
		}
		return &order, nil
	}

	if err := e.db.Model(&model.Order{}).
		Where("id = ?", orderID).
		Update("status", model.OrderStatusPaid).Error; err != nil {
		return nil, internalErr("updating order failed", err)
	}
	if err := e.db.First(&order, orderID).Error; err != nil {
		return nil, internalErr("loading order failed", err)
	}
	return &order, nil
}
