package usecase

import (
	"context"
	"fmt"

	"lushlocks-backend/internal/domain"
	"lushlocks-backend/internal/infrastructure/payfast"
	"lushlocks-backend/pkg/logger"
	"lushlocks-backend/pkg/mailer"
	"lushlocks-backend/pkg/utils"
)

// PaymentUsecase builds outbound PayFast requests and processes the inbound
// ITN callbacks that confirm or fail them.
type PaymentUsecase struct {
	paymentRepo domain.PaymentRepository
	orderRepo   domain.OrderRepository
	productRepo domain.ProductRepository
	userRepo    domain.UserRepository
	gateway     *payfast.Client
	txManager   domain.TransactionManager
	mail        mailer.Mailer
	production  bool
}

func NewPaymentUsecase(
	paymentRepo domain.PaymentRepository,
	orderRepo domain.OrderRepository,
	productRepo domain.ProductRepository,
	userRepo domain.UserRepository,
	gateway *payfast.Client,
	txManager domain.TransactionManager,
	mail mailer.Mailer,
	production bool,
) *PaymentUsecase {
	return &PaymentUsecase{
		paymentRepo: paymentRepo,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		gateway:     gateway,
		txManager:   txManager,
		mail:        mail,
		production:  production,
	}
}

// InitiateResult carries everything the storefront needs to redirect the
// buyer to the gateway: the submission URL and the signed form fields.
type InitiateResult struct {
	PayFastURL  string            `json:"payfastUrl"`
	PaymentData map[string]string `json:"paymentData"`
}

// Initiate creates a pending payment row for the order and returns the
// signed parameter set.
func (uc *PaymentUsecase) Initiate(ctx context.Context, p *domain.Principal, orderID string) (*InitiateResult, error) {
	if !uc.gateway.Configured() {
		return nil, domain.Gatewayf("payment gateway is not configured")
	}

	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !p.IsAdmin() && order.UserID != p.UserID {
		return nil, domain.NotFoundf("order not found")
	}

	completed, err := uc.paymentRepo.GetCompletedByOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	if completed != nil {
		return nil, domain.Conflictf("order is already paid")
	}

	payer, err := uc.userRepo.GetByID(ctx, order.UserID)
	if err != nil {
		return nil, err
	}

	fields, err := uc.gateway.BuildPaymentData(order, payer)
	if err != nil {
		return nil, err
	}

	payment := &domain.Payment{
		OrderID:  order.ID,
		Provider: "payfast",
		Status:   domain.PaymentStatusPending,
		Amount:   order.Total,
	}
	if err := uc.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	data := make(map[string]string, len(fields))
	for _, f := range fields {
		data[f.Key] = f.Value
	}
	return &InitiateResult{
		PayFastURL:  uc.gateway.ProcessURL(),
		PaymentData: data,
	}, nil
}

// HandleNotification processes one ITN post. Verification order is fixed:
// source, signature, order lookup, amount, then idempotency; only after all
// of these does any state change. The caller always acknowledges the gateway
// with 200 regardless of the error returned here.
func (uc *PaymentUsecase) HandleNotification(ctx context.Context, body []byte, remoteIP string) error {
	n, err := payfast.ParseNotification(body)
	if err != nil {
		return err
	}

	// Source check only binds in production; sandbox and local runs post
	// from arbitrary addresses.
	if uc.production {
		if err := uc.gateway.VerifySource(ctx, remoteIP); err != nil {
			return err
		}
	}
	if !uc.gateway.VerifySignature(n) {
		return domain.Gatewayf("notification signature mismatch")
	}

	order, err := uc.orderRepo.GetByID(ctx, n.OrderID())
	if err != nil {
		return err
	}

	amount, err := n.AmountGross()
	if err != nil {
		return err
	}
	if !utils.MoneyEquals(amount, order.Total) {
		return domain.Gatewayf("notification amount %.2f does not match order total %.2f", amount, order.Total)
	}

	gatewayID := n.GatewayPaymentID()

	// Idempotency: a completed payment for this order+gateway transaction
	// means this notification was already processed. Acknowledge without
	// repeating side effects.
	if existing, err := uc.paymentRepo.GetByOrderAndGatewayID(ctx, order.ID, gatewayID); err != nil {
		return err
	} else if existing != nil && existing.Status == domain.PaymentStatusCompleted {
		logger.Info().Str("order_number", order.OrderNumber).Str("pf_payment_id", gatewayID).
			Msg("duplicate payment notification ignored")
		return nil
	}
	if completed, err := uc.paymentRepo.GetCompletedByOrder(ctx, order.ID); err != nil {
		return err
	} else if completed != nil {
		logger.Info().Str("order_number", order.OrderNumber).
			Msg("order already has a completed payment; notification ignored")
		return nil
	}

	payment, err := uc.paymentRepo.GetLatestPendingByOrder(ctx, order.ID)
	if err != nil {
		return err
	}
	if payment == nil {
		payment = &domain.Payment{
			OrderID:  order.ID,
			Provider: "payfast",
			Status:   domain.PaymentStatusPending,
			Amount:   order.Total,
		}
		if err := uc.paymentRepo.Create(ctx, payment); err != nil {
			return err
		}
	}

	if !n.Complete() {
		return uc.markFailed(ctx, order, payment, gatewayID, n.Get("payment_status"))
	}
	if err := uc.confirm(ctx, order, payment, gatewayID); err != nil {
		return err
	}

	uc.sendReceipt(ctx, order)
	return nil
}

// confirm applies the single point where inventory is actually consumed:
// payment completed, order paid and processing, stock decremented per item,
// all in one transaction.
func (uc *PaymentUsecase) confirm(ctx context.Context, order *domain.Order, payment *domain.Payment, gatewayID string) error {
	return uc.txManager.Do(ctx, func(ctx context.Context) error {
		if err := uc.paymentRepo.UpdateStatus(ctx, payment.ID, domain.PaymentStatusCompleted, &gatewayID); err != nil {
			return err
		}
		now := timeNow()
		if err := uc.orderRepo.UpdatePaymentStatus(ctx, order.ID, domain.OrderPaymentPaid, &now); err != nil {
			return err
		}
		if err := uc.orderRepo.UpdateStatus(ctx, order.ID, domain.OrderStatusProcessing, now); err != nil {
			return err
		}
		for _, item := range order.Items {
			if err := uc.productRepo.AdjustStock(ctx, item.VariantID, -item.Quantity, "order_paid", order.ID); err != nil {
				return err
			}
		}
		prev := order.Status
		return uc.orderRepo.CreateHistory(ctx, &domain.OrderHistory{
			OrderID:        order.ID,
			PreviousStatus: &prev,
			NewStatus:      domain.OrderStatusProcessing,
		})
	})
}

func (uc *PaymentUsecase) markFailed(ctx context.Context, order *domain.Order, payment *domain.Payment, gatewayID, gatewayStatus string) error {
	logger.Info().Str("order_number", order.OrderNumber).Str("gateway_status", gatewayStatus).
		Msg("payment not completed")
	return uc.txManager.Do(ctx, func(ctx context.Context) error {
		if err := uc.paymentRepo.UpdateStatus(ctx, payment.ID, domain.PaymentStatusFailed, &gatewayID); err != nil {
			return err
		}
		return uc.orderRepo.UpdatePaymentStatus(ctx, order.ID, domain.OrderPaymentFailed, nil)
	})
}

// sendReceipt is best-effort; the payment is already committed.
func (uc *PaymentUsecase) sendReceipt(ctx context.Context, order *domain.Order) {
	if uc.mail == nil {
		return
	}
	payer, err := uc.userRepo.GetByID(ctx, order.UserID)
	if err != nil {
		logger.Warn().Err(err).Str("order_number", order.OrderNumber).Msg("receipt email skipped")
		return
	}
	err = uc.mail.Send(ctx, &mailer.Email{
		To:      payer.Email,
		Subject: "Payment received for " + order.OrderNumber,
		Text: fmt.Sprintf(
			"We received your payment of R%.2f for order %s. It is now being prepared for shipment.",
			order.Total, order.OrderNumber),
	})
	if err != nil {
		logger.Warn().Err(err).Str("order_number", order.OrderNumber).Msg("receipt email failed")
	}
}

func (uc *PaymentUsecase) ListByOrder(ctx context.Context, p *domain.Principal, orderID string) ([]domain.Payment, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !p.IsAdmin() && order.UserID != p.UserID {
		return nil, domain.NotFoundf("order not found")
	}
	return uc.paymentRepo.ListByOrder(ctx, orderID)
}
