package usecase

import (
	"context"

	"lushlocks-backend/internal/domain"
	"lushlocks-backend/pkg/utils"
)

// ReturnUsecase handles customer return requests and the admin review flow.
type ReturnUsecase struct {
	returnRepo  domain.ReturnRepository
	orderRepo   domain.OrderRepository
	productRepo domain.ProductRepository
	txManager   domain.TransactionManager
}

func NewReturnUsecase(
	returnRepo domain.ReturnRepository,
	orderRepo domain.OrderRepository,
	productRepo domain.ProductRepository,
	txManager domain.TransactionManager,
) *ReturnUsecase {
	return &ReturnUsecase{
		returnRepo:  returnRepo,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		txManager:   txManager,
	}
}

type ReturnItemRequest struct {
	OrderItemID string `json:"orderItemId" validate:"required"`
	Quantity    int    `json:"quantity" validate:"required,gt=0"`
}

type CreateReturnRequest struct {
	OrderID string              `json:"orderId" validate:"required"`
	Reason  string              `json:"reason" validate:"required,max=1000"`
	Items   []ReturnItemRequest `json:"items" validate:"required,min=1,dive"`
}

// Request opens a return on a delivered order. At most one non-terminal
// return may exist per order.
func (uc *ReturnUsecase) Request(ctx context.Context, p *domain.Principal, req CreateReturnRequest) (*domain.Return, error) {
	if !p.IsCustomer() {
		return nil, domain.Authf("sign in to request a return")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	order, err := uc.orderRepo.GetByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != p.UserID {
		return nil, domain.NotFoundf("order not found")
	}
	if order.Status != domain.OrderStatusDelivered {
		return nil, domain.Validationf("only delivered orders can be returned")
	}

	active, err := uc.returnRepo.GetActiveByOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, domain.Conflictf("a return is already open for this order")
	}

	// Each requested line must reference an item of this order and not
	// exceed its purchased quantity.
	byID := make(map[string]domain.OrderItem, len(order.Items))
	for _, it := range order.Items {
		byID[it.ID] = it
	}
	ret := &domain.Return{
		OrderID: order.ID,
		UserID:  p.UserID,
		Reason:  req.Reason,
		Status:  domain.ReturnStatusRequested,
	}
	for _, item := range req.Items {
		orderItem, ok := byID[item.OrderItemID]
		if !ok {
			return nil, domain.Validationf("item does not belong to this order")
		}
		if item.Quantity > orderItem.Quantity {
			return nil, domain.Validationf("cannot return more of %s than was ordered", orderItem.ProductName)
		}
		ret.Items = append(ret.Items, domain.ReturnItem{
			OrderItemID: item.OrderItemID,
			Quantity:    item.Quantity,
		})
	}

	if err := uc.returnRepo.Create(ctx, ret); err != nil {
		return nil, err
	}
	return ret, nil
}

func (uc *ReturnUsecase) MyReturns(ctx context.Context, p *domain.Principal) ([]domain.Return, error) {
	if !p.IsCustomer() {
		return nil, domain.Authf("sign in to view returns")
	}
	return uc.returnRepo.GetByUserID(ctx, p.UserID)
}

func (uc *ReturnUsecase) List(ctx context.Context, filter domain.ReturnFilter) ([]domain.Return, int64, error) {
	return uc.returnRepo.List(ctx, filter)
}

func (uc *ReturnUsecase) Get(ctx context.Context, id string) (*domain.Return, error) {
	return uc.returnRepo.GetByID(ctx, id)
}

// Review approves or rejects a requested return.
func (uc *ReturnUsecase) Review(ctx context.Context, id string, approve bool) (*domain.Return, error) {
	ret, err := uc.returnRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ret.Status != domain.ReturnStatusRequested {
		return nil, domain.Validationf("return is not awaiting review")
	}

	status := domain.ReturnStatusRejected
	if approve {
		status = domain.ReturnStatusApproved
	}
	if err := uc.returnRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	ret.Status = status
	return ret, nil
}

type RefundRequest struct {
	Amount  float64 `json:"amount" validate:"required,gt=0"`
	Restock bool    `json:"restock"`
}

// Refund closes an approved return: records the refund amount (capped at the
// order total) and optionally restocks the returned quantities. Runs in one
// transaction so a partial restock can never accompany a recorded refund.
func (uc *ReturnUsecase) Refund(ctx context.Context, id string, req RefundRequest) (*domain.Return, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	ret, err := uc.returnRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ret.Status != domain.ReturnStatusApproved {
		return nil, domain.Validationf("only approved returns can be refunded")
	}

	order, err := uc.orderRepo.GetByID(ctx, ret.OrderID)
	if err != nil {
		return nil, err
	}
	if req.Amount > order.Total {
		return nil, domain.Validationf("refund amount cannot exceed the order total of %.2f", order.Total)
	}

	err = uc.txManager.Do(ctx, func(ctx context.Context) error {
		if err := uc.returnRepo.SetRefund(ctx, id, req.Amount); err != nil {
			return err
		}
		if err := uc.orderRepo.UpdatePaymentStatus(ctx, order.ID, domain.OrderPaymentRefunded, nil); err != nil {
			return err
		}
		if !req.Restock {
			return nil
		}
		itemsByID := make(map[string]domain.OrderItem, len(order.Items))
		for _, it := range order.Items {
			itemsByID[it.ID] = it
		}
		for _, retItem := range ret.Items {
			orderItem, ok := itemsByID[retItem.OrderItemID]
			if !ok {
				continue
			}
			if err := uc.productRepo.AdjustStock(ctx, orderItem.VariantID, retItem.Quantity, "return_restock", ret.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ret.Status = domain.ReturnStatusRefunded
	ret.RefundAmount = req.Amount
	return ret, nil
}
