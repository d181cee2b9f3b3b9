package usecase

import (
	"context"
	"regexp"
	"testing"

	"lushlocks-backend/internal/domain"
)

func newCheckoutFixture(t *testing.T) (*OrderUsecase, *fakeOrderRepo, *fakeCartRepo, *fakeProductRepo, *fakeDiscountRepo) {
	t.Helper()

	productRepo := newFakeProductRepo(variantDetail("v1", 299.99, 10))
	discountRepo := newFakeDiscountRepo(
		&domain.Discount{ID: "d1", Code: "SAVE10", Type: domain.DiscountTypePercentage, Value: 10, UsageLimit: intptr(100), IsActive: true},
	)
	orderRepo := newFakeOrderRepo()
	cartRepo := &fakeCartRepo{cart: &domain.Cart{
		ID:    "cart-1",
		Items: []domain.CartItem{{VariantID: "v1", Quantity: 2}},
	}}
	userRepo := newFakeUserRepo(&domain.User{ID: "user-1", Email: "jo@example.com"})
	userRepo.addresses["addr-1"] = &domain.Address{
		ID: "addr-1", UserID: "user-1",
		FirstName: "Jo", LastName: "M", Street: "1 Main Rd", City: "Cape Town",
		Province: "Western Cape", PostalCode: "8001",
	}
	settingsRepo := &fakeSettingsRepo{rates: map[string]*domain.ShippingRate{
		"national": {ID: 1, Key: "national", Label: "Courier", Cost: 99.00, IsActive: true},
		"retired":  {ID: 2, Key: "retired", Label: "Old", Cost: 10.00, IsActive: false},
	}}

	uc := NewOrderUsecase(
		orderRepo,
		cartRepo,
		userRepo,
		settingsRepo,
		NewDiscountUsecase(discountRepo),
		NewPricingEngine(productRepo, 100),
		NewTotalCalculator(0.15),
		&fakeTx{},
		nil,
		0,
	)
	return uc, orderRepo, cartRepo, productRepo, discountRepo
}

func customer() *domain.Principal {
	return &domain.Principal{Kind: domain.PrincipalCustomer, UserID: "user-1", Email: "jo@example.com"}
}

func TestCheckout(t *testing.T) {
	t.Parallel()

	uc, _, cartRepo, productRepo, discountRepo := newCheckoutFixture(t)

	order, err := uc.Checkout(context.Background(), customer(), CheckoutRequest{
		ShippingAddressID: "addr-1",
		ShippingRateKey:   "national",
		DiscountCode:      "save10",
	})
	if err != nil {
		t.Fatalf("Checkout() error = %v", err)
	}

	if !regexp.MustCompile(`^ORD-\d{8}-0001$`).MatchString(order.OrderNumber) {
		t.Errorf("OrderNumber = %q, want ORD-YYYYMMDD-0001", order.OrderNumber)
	}
	if order.Subtotal != 599.98 {
		t.Errorf("Subtotal = %v, want 599.98", order.Subtotal)
	}
	if order.DiscountAmount != 60.00 {
		t.Errorf("DiscountAmount = %v, want 60.00", order.DiscountAmount)
	}
	if order.Tax != 81.00 {
		t.Errorf("Tax = %v, want 81.00", order.Tax)
	}
	if order.ShippingCost != 99.00 {
		t.Errorf("ShippingCost = %v, want 99.00", order.ShippingCost)
	}
	if order.Total != 719.98 {
		t.Errorf("Total = %v, want 719.98", order.Total)
	}
	if order.Status != domain.OrderStatusPending || order.PaymentStatus != domain.OrderPaymentPending {
		t.Errorf("status = %s/%s, want pending/pending", order.Status, order.PaymentStatus)
	}

	if len(order.Items) != 1 {
		t.Fatalf("len(Items) = %d, want 1", len(order.Items))
	}
	item := order.Items[0]
	if item.VariantID != "v1" || item.Quantity != 2 || item.UnitPrice != 299.99 || item.LineSubtotal != 599.98 {
		t.Errorf("item snapshot = %+v", item)
	}

	if !cartRepo.cleared {
		t.Error("cart was not cleared after checkout")
	}
	if got := discountRepo.increments["d1"]; got != 1 {
		t.Errorf("discount usage incremented %d times, want 1", got)
	}
	// Inventory is only consumed when the gateway confirms payment.
	if len(productRepo.adjustments) != 0 {
		t.Errorf("stock adjusted at checkout: %+v", productRepo.adjustments)
	}
	if order.ShippingAddress["city"] != "Cape Town" {
		t.Errorf("address snapshot missing city: %+v", order.ShippingAddress)
	}
}

func TestCheckoutRejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		mutate    func(cart *fakeCartRepo)
		principal *domain.Principal
		req       CheckoutRequest
		wantKind  domain.ErrorKind
	}{
		{
			name:      "guest cannot checkout",
			principal: &domain.Principal{Kind: domain.PrincipalGuest, SessionToken: "s"},
			req:       CheckoutRequest{ShippingAddressID: "addr-1"},
			wantKind:  domain.ErrKindAuth,
		},
		{
			name:      "missing address id",
			principal: customer(),
			req:       CheckoutRequest{},
			wantKind:  domain.ErrKindValidation,
		},
		{
			name:      "address owned by someone else",
			principal: &domain.Principal{Kind: domain.PrincipalCustomer, UserID: "user-2"},
			req:       CheckoutRequest{ShippingAddressID: "addr-1"},
			wantKind:  domain.ErrKindNotFound,
		},
		{
			name:      "empty cart",
			mutate:    func(cart *fakeCartRepo) { cart.cart.Items = nil },
			principal: customer(),
			req:       CheckoutRequest{ShippingAddressID: "addr-1"},
			wantKind:  domain.ErrKindValidation,
		},
		{
			name:      "inactive shipping rate",
			principal: customer(),
			req:       CheckoutRequest{ShippingAddressID: "addr-1", ShippingRateKey: "retired"},
			wantKind:  domain.ErrKindValidation,
		},
		{
			name:      "unknown discount code",
			principal: customer(),
			req:       CheckoutRequest{ShippingAddressID: "addr-1", DiscountCode: "NOPE"},
			wantKind:  domain.ErrKindNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			uc, orderRepo, cartRepo, _, _ := newCheckoutFixture(t)
			if tt.mutate != nil {
				tt.mutate(cartRepo)
			}
			_, err := uc.Checkout(context.Background(), tt.principal, tt.req)
			if err == nil {
				t.Fatal("Checkout() expected error")
			}
			if got := domain.KindOf(err); got != tt.wantKind {
				t.Errorf("KindOf(err) = %v, want %v", got, tt.wantKind)
			}
			if len(orderRepo.orders) != 0 {
				t.Error("order was created despite checkout failure")
			}
		})
	}
}

func TestCheckoutUsageLimitDoubleSpend(t *testing.T) {
	t.Parallel()

	uc, _, cartRepo, _, discountRepo := newCheckoutFixture(t)
	discountRepo.byCode["SAVE10"].UsageLimit = intptr(1)

	if _, err := uc.Checkout(context.Background(), customer(), CheckoutRequest{
		ShippingAddressID: "addr-1",
		DiscountCode:      "SAVE10",
	}); err != nil {
		t.Fatalf("first Checkout() error = %v", err)
	}

	cartRepo.cart.Items = []domain.CartItem{{VariantID: "v1", Quantity: 1}}
	_, err := uc.Checkout(context.Background(), customer(), CheckoutRequest{
		ShippingAddressID: "addr-1",
		DiscountCode:      "SAVE10",
	})
	if err == nil {
		t.Fatal("second Checkout() expected usage limit error")
	}
	if got := domain.KindOf(err); got != domain.ErrKindValidation {
		t.Errorf("KindOf(err) = %v, want validation", got)
	}
	if got := discountRepo.increments["d1"]; got != 1 {
		t.Errorf("discount usage incremented %d times, want 1", got)
	}
}

func TestUpdateOrderStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		from    string
		to      string
		wantErr bool
	}{
		{name: "pending to processing", from: domain.OrderStatusPending, to: domain.OrderStatusProcessing},
		{name: "pending to cancelled", from: domain.OrderStatusPending, to: domain.OrderStatusCancelled},
		{name: "processing to shipped", from: domain.OrderStatusProcessing, to: domain.OrderStatusShipped},
		{name: "shipped to delivered", from: domain.OrderStatusShipped, to: domain.OrderStatusDelivered},
		{name: "pending cannot ship", from: domain.OrderStatusPending, to: domain.OrderStatusShipped, wantErr: true},
		{name: "delivered is terminal", from: domain.OrderStatusDelivered, to: domain.OrderStatusProcessing, wantErr: true},
		{name: "cancelled is terminal", from: domain.OrderStatusCancelled, to: domain.OrderStatusProcessing, wantErr: true},
		{name: "no backwards moves", from: domain.OrderStatusShipped, to: domain.OrderStatusProcessing, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			orderRepo := newFakeOrderRepo(&domain.Order{ID: "o1", UserID: "user-1", Status: tt.from})
			uc := NewOrderUsecase(orderRepo, nil, nil, nil, nil, nil, nil, &fakeTx{}, nil, 0)

			order, err := uc.UpdateStatus(context.Background(), "admin-1", "o1", UpdateOrderStatusRequest{Status: tt.to})
			if tt.wantErr {
				if err == nil {
					t.Fatalf("UpdateStatus(%s -> %s) expected error", tt.from, tt.to)
				}
				if got := domain.KindOf(err); got != domain.ErrKindValidation {
					t.Errorf("KindOf(err) = %v, want validation", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("UpdateStatus() error = %v", err)
			}
			if order.Status != tt.to {
				t.Errorf("Status = %s, want %s", order.Status, tt.to)
			}
			if len(orderRepo.history) != 1 {
				t.Fatalf("len(history) = %d, want 1", len(orderRepo.history))
			}
			h := orderRepo.history[0]
			if h.PreviousStatus == nil || *h.PreviousStatus != tt.from || h.NewStatus != tt.to {
				t.Errorf("history = %+v", h)
			}
			if h.CreatedBy == nil || *h.CreatedBy != "admin-1" {
				t.Errorf("history CreatedBy = %v, want admin-1", h.CreatedBy)
			}
		})
	}
}

func TestGetOrderOwnership(t *testing.T) {
	t.Parallel()

	orderRepo := newFakeOrderRepo(&domain.Order{ID: "o1", UserID: "user-1"})
	uc := NewOrderUsecase(orderRepo, nil, nil, nil, nil, nil, nil, &fakeTx{}, nil, 0)

	if _, err := uc.GetOrder(context.Background(), customer(), "o1"); err != nil {
		t.Errorf("owner GetOrder() error = %v", err)
	}
	if _, err := uc.GetOrder(context.Background(), &domain.Principal{Kind: domain.PrincipalCustomer, UserID: "user-2"}, "o1"); err == nil {
		t.Error("stranger GetOrder() expected error")
	} else if domain.KindOf(err) != domain.ErrKindNotFound {
		t.Errorf("KindOf(err) = %v, want not_found", domain.KindOf(err))
	}
	if _, err := uc.GetOrder(context.Background(), &domain.Principal{Kind: domain.PrincipalAdmin, UserID: "admin-1"}, "o1"); err != nil {
		t.Errorf("admin GetOrder() error = %v", err)
	}
}
