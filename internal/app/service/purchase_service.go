package service

import (
	"errors"

	"github.com/ikkim/udonggeum-variants/internal/app/model"
	"github.com/ikkim/udonggeum-variants/internal/app/repository"
	"github.com/ikkim/udonggeum-variants/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Availability is the result of a successful stock check. UnitPrice is the
// stored price; the client never supplies one.
type Availability struct {
	ProductID      uint            `json:"product_id"`
	VariantID      *uint           `json:"variant_id,omitempty"`
	SKU            string          `json:"sku,omitempty"`
	Quantity       int             `json:"quantity"`
	AvailableStock int             `json:"available_stock"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type PurchaseService interface {
	CheckAvailability(productID uint, variantID *uint, quantity int) (*Availability, error)
	BuyNow(userID, productID uint, variantID *uint, quantity int) (*model.Order, error)
}

type purchaseService struct {
	db          *gorm.DB
	productRepo repository.ProductRepository
	variantRepo repository.VariantRepository
	orderRepo   repository.OrderRepository
}

func NewPurchaseService(
	db *gorm.DB,
	productRepo repository.ProductRepository,
	variantRepo repository.VariantRepository,
	orderRepo repository.OrderRepository,
) PurchaseService {
	return &purchaseService{
		db:          db,
		productRepo: productRepo,
		variantRepo: variantRepo,
		orderRepo:   orderRepo,
	}
}

// CheckAvailability validates a quantity against freshly read stock.
// Products without variants are their own sellable unit.
func (s *purchaseService) CheckAvailability(productID uint, variantID *uint, quantity int) (*Availability, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if !product.IsActive {
		return nil, ErrProductInactive
	}

	availability := &Availability{ProductID: productID, Quantity: quantity}

	if variantID == nil {
		if product.HasVariants {
			return nil, ErrVariantRequired
		}
		availability.AvailableStock = product.StockQuantity
		availability.UnitPrice = product.Price
	} else {
		v, err := s.variantRepo.FindByID(*variantID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrVariantNotFound
			}
			return nil, err
		}
		if v.ProductID != productID {
			return nil, ErrVariantNotFound
		}
		if !v.IsActive {
			return nil, ErrVariantInactive
		}
		availability.VariantID = &v.ID
		availability.SKU = v.SKU
		availability.AvailableStock = v.StockQuantity
		availability.UnitPrice = v.Price
	}

	if availability.AvailableStock <= 0 {
		return nil, ErrOutOfStock
	}
	if quantity > availability.AvailableStock {
		logger.Warn("Requested quantity exceeds stock", map[string]interface{}{
			"product_id": productID,
			"variant_id": variantID,
			"quantity":   quantity,
			"stock":      availability.AvailableStock,
		})
		return nil, ErrInsufficientStock
	}

	availability.Subtotal = availability.UnitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	return availability, nil
}

// BuyNow re-checks availability, then decrements stock with a guarded
// UPDATE and records the order in the same transaction. When two buyers
// race for the last unit exactly one UPDATE matches.
func (s *purchaseService) BuyNow(userID, productID uint, variantID *uint, quantity int) (*model.Order, error) {
	availability, err := s.CheckAvailability(productID, variantID, quantity)
	if err != nil {
		return nil, err
	}

	order := &model.Order{
		UserID:      userID,
		TotalAmount: availability.Subtotal,
		Status:      model.OrderStatusPending,
		OrderItems: []model.OrderItem{{
			ProductID:   productID,
			VariantID:   availability.VariantID,
			Quantity:    quantity,
			UnitPrice:   availability.UnitPrice,
			SKUSnapshot: availability.SKU,
		}},
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	var applied bool
	if availability.VariantID != nil {
		applied, err = s.variantRepo.WithTx(tx).DecrementStock(*availability.VariantID, quantity)
	} else {
		applied, err = s.productRepo.WithTx(tx).DecrementStock(productID, quantity)
	}
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if !applied {
		tx.Rollback()
		logger.Warn("Stock changed before purchase completed", map[string]interface{}{
			"product_id": productID,
			"variant_id": variantID,
			"quantity":   quantity,
		})
		return nil, ErrInsufficientStock
	}

	if err := s.orderRepo.WithTx(tx).Create(order); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit purchase", err, map[string]interface{}{
			"product_id": productID,
			"variant_id": variantID,
		})
		return nil, err
	}

	logger.Info("Purchase completed", map[string]interface{}{
		"order_id":   order.ID,
		"user_id":    userID,
		"product_id": productID,
		"variant_id": variantID,
		"quantity":   quantity,
		"total":      order.TotalAmount.String(),
	})
	return order, nil
}
