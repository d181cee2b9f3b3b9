package usecase

import (
	"context"
	"testing"

	"lushlocks-backend/internal/domain"
)

func deliveredOrder() *domain.Order {
	return &domain.Order{
		ID:            "o1",
		UserID:        "user-1",
		Status:        domain.OrderStatusDelivered,
		PaymentStatus: domain.OrderPaymentPaid,
		Total:         719.98,
		Items: []domain.OrderItem{
			{ID: "oi1", VariantID: "v1", ProductName: "Brazilian Body Wave", Quantity: 2, UnitPrice: 299.99},
			{ID: "oi2", VariantID: "v2", ProductName: "Peruvian Straight", Quantity: 1, UnitPrice: 119.99},
		},
	}
}

func newReturnFixture(order *domain.Order, existing ...*domain.Return) (*ReturnUsecase, *fakeReturnRepo, *fakeProductRepo) {
	returnRepo := newFakeReturnRepo(existing...)
	orderRepo := newFakeOrderRepo(order)
	productRepo := newFakeProductRepo(
		variantDetail("v1", 299.99, 8),
		variantDetail("v2", 119.99, 5),
	)
	uc := NewReturnUsecase(returnRepo, orderRepo, productRepo, &fakeTx{})
	return uc, returnRepo, productRepo
}

func TestReturnRequest(t *testing.T) {
	t.Parallel()

	uc, returnRepo, _ := newReturnFixture(deliveredOrder())

	ret, err := uc.Request(context.Background(), customer(), CreateReturnRequest{
		OrderID: "o1",
		Reason:  "wrong shade delivered",
		Items:   []ReturnItemRequest{{OrderItemID: "oi1", Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("Request() error = %v", err)
	}
	if ret.Status != domain.ReturnStatusRequested {
		t.Errorf("Status = %s, want requested", ret.Status)
	}
	if len(ret.Items) != 1 || ret.Items[0].Quantity != 1 {
		t.Errorf("Items = %+v, want one line of quantity 1", ret.Items)
	}
	if _, ok := returnRepo.returns[ret.ID]; !ok {
		t.Error("return was not persisted")
	}
}

func TestReturnRequestRejections(t *testing.T) {
	t.Parallel()

	undelivered := deliveredOrder()
	undelivered.Status = domain.OrderStatusShipped

	tests := []struct {
		name      string
		order     *domain.Order
		existing  []*domain.Return
		principal *domain.Principal
		req       CreateReturnRequest
		wantKind  domain.ErrorKind
	}{
		{
			name:      "guests cannot open returns",
			order:     deliveredOrder(),
			principal: guest(),
			req: CreateReturnRequest{
				OrderID: "o1", Reason: "r",
				Items: []ReturnItemRequest{{OrderItemID: "oi1", Quantity: 1}},
			},
			wantKind: domain.ErrKindAuth,
		},
		{
			name:      "someone else's order reads as missing",
			order:     deliveredOrder(),
			principal: &domain.Principal{Kind: domain.PrincipalCustomer, UserID: "user-2"},
			req: CreateReturnRequest{
				OrderID: "o1", Reason: "r",
				Items: []ReturnItemRequest{{OrderItemID: "oi1", Quantity: 1}},
			},
			wantKind: domain.ErrKindNotFound,
		},
		{
			name:      "order not yet delivered",
			order:     undelivered,
			principal: customer(),
			req: CreateReturnRequest{
				OrderID: "o1", Reason: "r",
				Items: []ReturnItemRequest{{OrderItemID: "oi1", Quantity: 1}},
			},
			wantKind: domain.ErrKindValidation,
		},
		{
			name:  "a return is already open",
			order: deliveredOrder(),
			existing: []*domain.Return{
				{ID: "r0", OrderID: "o1", UserID: "user-1", Status: domain.ReturnStatusRequested},
			},
			principal: customer(),
			req: CreateReturnRequest{
				OrderID: "o1", Reason: "r",
				Items: []ReturnItemRequest{{OrderItemID: "oi1", Quantity: 1}},
			},
			wantKind: domain.ErrKindConflict,
		},
		{
			name:      "item from another order",
			order:     deliveredOrder(),
			principal: customer(),
			req: CreateReturnRequest{
				OrderID: "o1", Reason: "r",
				Items: []ReturnItemRequest{{OrderItemID: "oi9", Quantity: 1}},
			},
			wantKind: domain.ErrKindValidation,
		},
		{
			name:      "more than was ordered",
			order:     deliveredOrder(),
			principal: customer(),
			req: CreateReturnRequest{
				OrderID: "o1", Reason: "r",
				Items: []ReturnItemRequest{{OrderItemID: "oi1", Quantity: 3}},
			},
			wantKind: domain.ErrKindValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			uc, _, _ := newReturnFixture(tt.order, tt.existing...)

			_, err := uc.Request(context.Background(), tt.principal, tt.req)
			if err == nil {
				t.Fatal("Request() expected error")
			}
			if got := domain.KindOf(err); got != tt.wantKind {
				t.Errorf("KindOf(err) = %v, want %v", got, tt.wantKind)
			}
		})
	}
}

func TestReturnReview(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		status     string
		approve    bool
		wantStatus string
		wantErr    bool
	}{
		{name: "approve", status: domain.ReturnStatusRequested, approve: true, wantStatus: domain.ReturnStatusApproved},
		{name: "reject", status: domain.ReturnStatusRequested, approve: false, wantStatus: domain.ReturnStatusRejected},
		{name: "already approved", status: domain.ReturnStatusApproved, approve: true, wantErr: true},
		{name: "already refunded", status: domain.ReturnStatusRefunded, approve: false, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			existing := &domain.Return{ID: "r1", OrderID: "o1", UserID: "user-1", Status: tt.status}
			uc, returnRepo, _ := newReturnFixture(deliveredOrder(), existing)

			ret, err := uc.Review(context.Background(), "r1", tt.approve)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Review() expected error")
				}
				if got := domain.KindOf(err); got != domain.ErrKindValidation {
					t.Errorf("KindOf(err) = %v, want validation", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Review() error = %v", err)
			}
			if ret.Status != tt.wantStatus {
				t.Errorf("Status = %s, want %s", ret.Status, tt.wantStatus)
			}
			if returnRepo.returns["r1"].Status != tt.wantStatus {
				t.Errorf("persisted status = %s, want %s", returnRepo.returns["r1"].Status, tt.wantStatus)
			}
		})
	}
}

func TestReturnRefundWithRestock(t *testing.T) {
	t.Parallel()

	approved := &domain.Return{
		ID: "r1", OrderID: "o1", UserID: "user-1",
		Status: domain.ReturnStatusApproved,
		Items: []domain.ReturnItem{
			{OrderItemID: "oi1", Quantity: 2},
			{OrderItemID: "oi2", Quantity: 1},
		},
	}
	uc, returnRepo, productRepo := newReturnFixture(deliveredOrder(), approved)

	ret, err := uc.Refund(context.Background(), "r1", RefundRequest{Amount: 719.98, Restock: true})
	if err != nil {
		t.Fatalf("Refund() error = %v", err)
	}
	if ret.Status != domain.ReturnStatusRefunded {
		t.Errorf("Status = %s, want refunded", ret.Status)
	}
	if got := returnRepo.returns["r1"].RefundAmount; got != 719.98 {
		t.Errorf("RefundAmount = %v, want 719.98", got)
	}

	if len(productRepo.adjustments) != 2 {
		t.Fatalf("adjustments = %+v, want one per returned line", productRepo.adjustments)
	}
	for _, adj := range productRepo.adjustments {
		if adj.reason != "return_restock" || adj.refID != "r1" {
			t.Errorf("adjustment = %+v, want reason return_restock ref r1", adj)
		}
	}
	if got := productRepo.variants["v1"].Stock; got != 10 {
		t.Errorf("v1 stock = %d, want 10 after restock", got)
	}
	if got := productRepo.variants["v2"].Stock; got != 6 {
		t.Errorf("v2 stock = %d, want 6 after restock", got)
	}
}

func TestReturnRefundWithoutRestock(t *testing.T) {
	t.Parallel()

	approved := &domain.Return{
		ID: "r1", OrderID: "o1", UserID: "user-1",
		Status: domain.ReturnStatusApproved,
		Items:  []domain.ReturnItem{{OrderItemID: "oi1", Quantity: 2}},
	}
	uc, _, productRepo := newReturnFixture(deliveredOrder(), approved)

	if _, err := uc.Refund(context.Background(), "r1", RefundRequest{Amount: 100.00}); err != nil {
		t.Fatalf("Refund() error = %v", err)
	}
	if len(productRepo.adjustments) != 0 {
		t.Errorf("adjustments = %+v, want none without restock", productRepo.adjustments)
	}
}

func TestReturnRefundRejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		status   string
		req      RefundRequest
		wantKind domain.ErrorKind
	}{
		{
			name:     "not yet approved",
			status:   domain.ReturnStatusRequested,
			req:      RefundRequest{Amount: 50},
			wantKind: domain.ErrKindValidation,
		},
		{
			name:     "amount above the order total",
			status:   domain.ReturnStatusApproved,
			req:      RefundRequest{Amount: 800.00},
			wantKind: domain.ErrKindValidation,
		},
		{
			name:     "zero amount",
			status:   domain.ReturnStatusApproved,
			req:      RefundRequest{Amount: 0},
			wantKind: domain.ErrKindValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			existing := &domain.Return{ID: "r1", OrderID: "o1", UserID: "user-1", Status: tt.status}
			uc, returnRepo, productRepo := newReturnFixture(deliveredOrder(), existing)

			_, err := uc.Refund(context.Background(), "r1", tt.req)
			if err == nil {
				t.Fatal("Refund() expected error")
			}
			if got := domain.KindOf(err); got != tt.wantKind {
				t.Errorf("KindOf(err) = %v, want %v", got, tt.wantKind)
			}
			if returnRepo.returns["r1"].Status == domain.ReturnStatusRefunded {
				t.Error("return must not be marked refunded on failure")
			}
			if len(productRepo.adjustments) != 0 {
				t.Errorf("adjustments = %+v, want none on failure", productRepo.adjustments)
			}
		})
	}
}
