package usecase

import (
	"context"
	"fmt"
	"time"

	"lushlocks-backend/internal/domain"
	"lushlocks-backend/pkg/logger"
	"lushlocks-backend/pkg/mailer"
	"lushlocks-backend/pkg/utils"
)

// OrderUsecase owns the checkout transaction and the admin order surface.
type OrderUsecase struct {
	orderRepo    domain.OrderRepository
	cartRepo     domain.CartRepository
	userRepo     domain.UserRepository
	settingsRepo domain.SettingsRepository
	discounts    *DiscountUsecase
	pricing      *PricingEngine
	totals       *TotalCalculator
	txManager    domain.TransactionManager
	mail         mailer.Mailer
	shippingFlat float64
}

func NewOrderUsecase(
	orderRepo domain.OrderRepository,
	cartRepo domain.CartRepository,
	userRepo domain.UserRepository,
	settingsRepo domain.SettingsRepository,
	discounts *DiscountUsecase,
	pricing *PricingEngine,
	totals *TotalCalculator,
	txManager domain.TransactionManager,
	mail mailer.Mailer,
	shippingFlat float64,
) *OrderUsecase {
	return &OrderUsecase{
		orderRepo:    orderRepo,
		cartRepo:     cartRepo,
		userRepo:     userRepo,
		settingsRepo: settingsRepo,
		discounts:    discounts,
		pricing:      pricing,
		totals:       totals,
		txManager:    txManager,
		mail:         mail,
		shippingFlat: shippingFlat,
	}
}

type CheckoutRequest struct {
	ShippingAddressID string `json:"shippingAddressId" validate:"required"`
	ShippingRateKey   string `json:"shippingRateKey"`
	DiscountCode      string `json:"discountCode"`
	CustomerNotes     string `json:"customerNotes" validate:"max=1000"`
}

// Checkout runs the order creation transaction: address ownership check,
// re-pricing from authoritative rows, per-day order number allocation, order
// plus item snapshots, discount usage increment, and cart clear. All steps
// commit or roll back together. Stock is NOT decremented here; that happens
// only when the gateway confirms payment.
func (uc *OrderUsecase) Checkout(ctx context.Context, p *domain.Principal, req CheckoutRequest) (*domain.Order, error) {
	if !p.IsCustomer() {
		return nil, domain.Authf("sign in to place an order")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	var order *domain.Order
	err := uc.txManager.Do(ctx, func(ctx context.Context) error {
		addr, err := uc.userRepo.GetAddress(ctx, req.ShippingAddressID, p.UserID)
		if err != nil {
			return err
		}

		cart, err := uc.cartRepo.GetByOwner(ctx, domain.CartOwner{UserID: p.UserID})
		if err != nil {
			return err
		}
		if cart == nil || len(cart.Items) == 0 {
			return domain.Validationf("cart is empty")
		}

		requests := make([]LineRequest, 0, len(cart.Items))
		for _, it := range cart.Items {
			requests = append(requests, LineRequest{VariantID: it.VariantID, Quantity: it.Quantity})
		}
		lines, subtotal, err := uc.pricing.PriceLines(ctx, requests)
		if err != nil {
			return err
		}

		var discountAmount float64
		var discountCode *string
		if req.DiscountCode != "" {
			discount, amount, err := uc.discounts.Evaluate(ctx, req.DiscountCode, subtotal)
			if err != nil {
				return err
			}
			// The conditional increment re-checks the limit under the
			// transaction, so the last remaining use cannot be double-spent
			// by concurrent checkouts.
			if discount.UsageLimit != nil {
				ok, err := uc.discounts.discountRepo.IncrementUsage(ctx, discount.ID)
				if err != nil {
					return err
				}
				if !ok {
					return domain.Validationf("discount code usage limit reached")
				}
			} else {
				if _, err := uc.discounts.discountRepo.IncrementUsage(ctx, discount.ID); err != nil {
					return err
				}
			}
			discountAmount = amount
			discountCode = &discount.Code
		}

		shippingCost, err := uc.shippingCost(ctx, req.ShippingRateKey)
		if err != nil {
			return err
		}
		totals, err := uc.totals.Calculate(subtotal, discountAmount, shippingCost)
		if err != nil {
			return err
		}

		seq, err := uc.orderRepo.NextOrderSequence(ctx, time.Now())
		if err != nil {
			return err
		}

		order = &domain.Order{
			OrderNumber:     fmt.Sprintf("ORD-%s-%04d", time.Now().Format("20060102"), seq),
			UserID:          p.UserID,
			Subtotal:        totals.Subtotal,
			DiscountAmount:  totals.DiscountAmount,
			Tax:             totals.Tax,
			ShippingCost:    totals.ShippingCost,
			Total:           totals.Total,
			DiscountCode:    discountCode,
			Status:          domain.OrderStatusPending,
			PaymentStatus:   domain.OrderPaymentPending,
			ShippingAddress: addressSnapshot(addr),
			CustomerNotes:   req.CustomerNotes,
		}
		for _, line := range lines {
			order.Items = append(order.Items, domain.OrderItem{
				VariantID:    line.Variant.ID,
				ProductName:  line.Variant.ProductName,
				Texture:      line.Variant.Texture,
				Length:       line.Variant.Length,
				Color:        line.Variant.Color,
				Quantity:     line.Quantity,
				UnitPrice:    line.UnitPrice,
				LineSubtotal: line.LineSubtotal,
			})
		}

		if err := uc.orderRepo.Create(ctx, order); err != nil {
			return err
		}
		return uc.cartRepo.Clear(ctx, cart.ID)
	})
	if err != nil {
		return nil, err
	}

	uc.sendConfirmation(ctx, p.Email, order)
	return order, nil
}

func (uc *OrderUsecase) shippingCost(ctx context.Context, rateKey string) (float64, error) {
	if rateKey == "" {
		return uc.shippingFlat, nil
	}
	rate, err := uc.settingsRepo.GetShippingRateByKey(ctx, rateKey)
	if err != nil {
		return 0, err
	}
	if !rate.IsActive {
		return 0, domain.Validationf("shipping option is not available")
	}
	return rate.Cost, nil
}

// addressSnapshot freezes the delivery address into the order so later edits
// to the saved address never rewrite history.
func addressSnapshot(addr *domain.Address) domain.JSONB {
	return domain.JSONB{
		"firstName":  addr.FirstName,
		"lastName":   addr.LastName,
		"phone":      addr.Phone,
		"street":     addr.Street,
		"suburb":     addr.Suburb,
		"city":       addr.City,
		"province":   addr.Province,
		"postalCode": addr.PostalCode,
	}
}

// sendConfirmation is best-effort; a mail failure never fails the checkout.
func (uc *OrderUsecase) sendConfirmation(ctx context.Context, email string, order *domain.Order) {
	if uc.mail == nil || email == "" {
		return
	}
	err := uc.mail.Send(ctx, &mailer.Email{
		To:      email,
		Subject: "Order confirmation " + order.OrderNumber,
		Text: fmt.Sprintf(
			"Thank you for your order!\n\nOrder number: %s\nTotal: R%.2f\n\nWe will notify you once your payment is confirmed.",
			order.OrderNumber, order.Total),
	})
	if err != nil {
		logger.Warn().Err(err).Str("order_number", order.OrderNumber).Msg("order confirmation email failed")
	}
}

func (uc *OrderUsecase) GetMyOrders(ctx context.Context, p *domain.Principal) ([]domain.Order, error) {
	if !p.IsCustomer() {
		return nil, domain.Authf("sign in to view orders")
	}
	return uc.orderRepo.GetByUserID(ctx, p.UserID)
}

// GetOrder enforces ownership for customers; admins may fetch any order.
func (uc *OrderUsecase) GetOrder(ctx context.Context, p *domain.Principal, id string) (*domain.Order, error) {
	order, err := uc.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsAdmin() && order.UserID != p.UserID {
		return nil, domain.NotFoundf("order not found")
	}
	return order, nil
}

func (uc *OrderUsecase) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, int64, error) {
	return uc.orderRepo.GetAll(ctx, filter)
}

// validTransitions encodes the admin-driven order lifecycle. Payment-driven
// transitions (pending → processing on paid) bypass this via the notification
// handler.
var validTransitions = map[string][]string{
	domain.OrderStatusPending:    {domain.OrderStatusProcessing, domain.OrderStatusCancelled},
	domain.OrderStatusProcessing: {domain.OrderStatusShipped, domain.OrderStatusCancelled},
	domain.OrderStatusShipped:    {domain.OrderStatusDelivered},
	domain.OrderStatusDelivered:  {},
	domain.OrderStatusCancelled:  {},
}

type UpdateOrderStatusRequest struct {
	Status string  `json:"status" validate:"required"`
	Reason *string `json:"reason"`
}

// UpdateStatus applies an admin transition and appends to the status history
// inside one transaction.
func (uc *OrderUsecase) UpdateStatus(ctx context.Context, adminID, orderID string, req UpdateOrderStatusRequest) (*domain.Order, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	err := uc.txManager.Do(ctx, func(ctx context.Context) error {
		order, err := uc.orderRepo.GetByID(ctx, orderID)
		if err != nil {
			return err
		}

		allowed := false
		for _, next := range validTransitions[order.Status] {
			if next == req.Status {
				allowed = true
				break
			}
		}
		if !allowed {
			return domain.Validationf("cannot move order from '%s' to '%s'", order.Status, req.Status)
		}

		if err := uc.orderRepo.UpdateStatus(ctx, orderID, req.Status, time.Now()); err != nil {
			return err
		}
		prev := order.Status
		return uc.orderRepo.CreateHistory(ctx, &domain.OrderHistory{
			OrderID:        orderID,
			PreviousStatus: &prev,
			NewStatus:      req.Status,
			Reason:         req.Reason,
			CreatedBy:      &adminID,
		})
	})
	if err != nil {
		return nil, err
	}
	return uc.orderRepo.GetByID(ctx, orderID)
}

func (uc *OrderUsecase) GetHistory(ctx context.Context, orderID string) ([]domain.OrderHistory, error) {
	if _, err := uc.orderRepo.GetByID(ctx, orderID); err != nil {
		return nil, err
	}
	return uc.orderRepo.GetHistory(ctx, orderID)
}
