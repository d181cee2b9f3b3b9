package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lushlocks-backend/internal/domain"
)

var errNotImplemented = errors.New("not implemented in fake")

// fakeTx runs the unit directly; rollback behavior is asserted through state,
// not through a real database.
type fakeTx struct {
	calls int
}

func (f *fakeTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

// --- product repository ---

type stockAdjustment struct {
	variantID string
	delta     int
	reason    string
	refID     string
}

type fakeProductRepo struct {
	variants    map[string]domain.VariantDetail
	products    map[string]*domain.Product
	adjustments []stockAdjustment
	adjustErr   error
}

func newFakeProductRepo(variants ...domain.VariantDetail) *fakeProductRepo {
	r := &fakeProductRepo{variants: make(map[string]domain.VariantDetail)}
	for _, v := range variants {
		r.variants[v.ID] = v
	}
	return r
}

func (r *fakeProductRepo) GetVariantDetails(ctx context.Context, ids []string) ([]domain.VariantDetail, error) {
	var out []domain.VariantDetail
	for _, id := range ids {
		if v, ok := r.variants[id]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) GetVariantDetail(ctx context.Context, id string) (*domain.VariantDetail, error) {
	if v, ok := r.variants[id]; ok {
		return &v, nil
	}
	return nil, domain.NotFoundf("product variant not found")
}

func (r *fakeProductRepo) AdjustStock(ctx context.Context, variantID string, delta int, reason string, refID string) error {
	if r.adjustErr != nil {
		return r.adjustErr
	}
	v, ok := r.variants[variantID]
	if !ok || v.Stock+delta < 0 {
		return domain.Stockf("insufficient stock")
	}
	v.Stock += delta
	r.variants[variantID] = v
	r.adjustments = append(r.adjustments, stockAdjustment{variantID, delta, reason, refID})
	return nil
}

func (r *fakeProductRepo) Create(ctx context.Context, p *domain.Product) error    { return errNotImplemented }
func (r *fakeProductRepo) Update(ctx context.Context, p *domain.Product) error    { return errNotImplemented }
func (r *fakeProductRepo) Delete(ctx context.Context, id string) error            { return errNotImplemented }
func (r *fakeProductRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	if p, ok := r.products[id]; ok {
		return p, nil
	}
	return nil, domain.NotFoundf("product not found")
}
func (r *fakeProductRepo) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return nil, errNotImplemented
}
func (r *fakeProductRepo) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int64, error) {
	return nil, 0, errNotImplemented
}
func (r *fakeProductRepo) CreateVariant(ctx context.Context, v *domain.Variant) error {
	return errNotImplemented
}
func (r *fakeProductRepo) UpdateVariant(ctx context.Context, v *domain.Variant) error {
	return errNotImplemented
}
func (r *fakeProductRepo) DeleteVariant(ctx context.Context, id string) error { return errNotImplemented }
func (r *fakeProductRepo) GetInventoryLogs(ctx context.Context, variantID string, limit, offset int) ([]domain.InventoryLog, error) {
	return nil, errNotImplemented
}

// --- discount repository ---

type fakeDiscountRepo struct {
	byCode     map[string]*domain.Discount
	increments map[string]int
}

func newFakeDiscountRepo(discounts ...*domain.Discount) *fakeDiscountRepo {
	r := &fakeDiscountRepo{
		byCode:     make(map[string]*domain.Discount),
		increments: make(map[string]int),
	}
	for _, d := range discounts {
		r.byCode[d.Code] = d
	}
	return r
}

func (r *fakeDiscountRepo) GetByCode(ctx context.Context, code string) (*domain.Discount, error) {
	if d, ok := r.byCode[code]; ok {
		return d, nil
	}
	return nil, domain.NotFoundf("discount code not found")
}

func (r *fakeDiscountRepo) IncrementUsage(ctx context.Context, id string) (bool, error) {
	for _, d := range r.byCode {
		if d.ID == id {
			if d.UsageLimit != nil && d.UsedCount >= *d.UsageLimit {
				return false, nil
			}
			d.UsedCount++
			r.increments[id]++
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeDiscountRepo) Create(ctx context.Context, d *domain.Discount) error { return errNotImplemented }
func (r *fakeDiscountRepo) Update(ctx context.Context, d *domain.Discount) error { return errNotImplemented }
func (r *fakeDiscountRepo) Delete(ctx context.Context, id string) error          { return errNotImplemented }
func (r *fakeDiscountRepo) GetByID(ctx context.Context, id string) (*domain.Discount, error) {
	return nil, errNotImplemented
}
func (r *fakeDiscountRepo) List(ctx context.Context, limit, offset int) ([]domain.Discount, int64, error) {
	return nil, 0, errNotImplemented
}

// --- order repository ---

type fakeOrderRepo struct {
	orders    map[string]*domain.Order
	seq       int
	history   []domain.OrderHistory
	purchases map[string]bool // userID + "|" + productID

	statusUpdates  []string
	paymentUpdates []string
}

func newFakeOrderRepo(orders ...*domain.Order) *fakeOrderRepo {
	r := &fakeOrderRepo{orders: make(map[string]*domain.Order)}
	for _, o := range orders {
		r.orders[o.ID] = o
	}
	return r
}

func (r *fakeOrderRepo) Create(ctx context.Context, order *domain.Order) error {
	if order.ID == "" {
		order.ID = fmt.Sprintf("order-%d", len(r.orders)+1)
	}
	r.orders[order.ID] = order
	return nil
}

func (r *fakeOrderRepo) NextOrderSequence(ctx context.Context, day time.Time) (int, error) {
	r.seq++
	return r.seq, nil
}

func (r *fakeOrderRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	if o, ok := r.orders[id]; ok {
		return o, nil
	}
	return nil, domain.NotFoundf("order not found")
}

func (r *fakeOrderRepo) UpdateStatus(ctx context.Context, id, status string, at time.Time) error {
	o, ok := r.orders[id]
	if !ok {
		return domain.NotFoundf("order not found")
	}
	o.Status = status
	r.statusUpdates = append(r.statusUpdates, status)
	return nil
}

func (r *fakeOrderRepo) UpdatePaymentStatus(ctx context.Context, id, paymentStatus string, paidAt *time.Time) error {
	o, ok := r.orders[id]
	if !ok {
		return domain.NotFoundf("order not found")
	}
	o.PaymentStatus = paymentStatus
	if paidAt != nil {
		o.PaidAt = paidAt
	}
	r.paymentUpdates = append(r.paymentUpdates, paymentStatus)
	return nil
}

func (r *fakeOrderRepo) CreateHistory(ctx context.Context, h *domain.OrderHistory) error {
	r.history = append(r.history, *h)
	return nil
}

func (r *fakeOrderRepo) GetHistory(ctx context.Context, orderID string) ([]domain.OrderHistory, error) {
	var out []domain.OrderHistory
	for _, h := range r.history {
		if h.OrderID == orderID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) GetByOrderNumber(ctx context.Context, number string) (*domain.Order, error) {
	return nil, errNotImplemented
}
func (r *fakeOrderRepo) GetByUserID(ctx context.Context, userID string) ([]domain.Order, error) {
	return nil, errNotImplemented
}
func (r *fakeOrderRepo) GetAll(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, int64, error) {
	return nil, 0, errNotImplemented
}
func (r *fakeOrderRepo) HasPurchasedProduct(ctx context.Context, userID, productID string) (bool, error) {
	return r.purchases[userID+"|"+productID], nil
}

// --- payment repository ---

type fakePaymentRepo struct {
	payments []*domain.Payment
}

func (r *fakePaymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	if p.ID == "" {
		p.ID = fmt.Sprintf("payment-%d", len(r.payments)+1)
	}
	r.payments = append(r.payments, p)
	return nil
}

func (r *fakePaymentRepo) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	for _, p := range r.payments {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, domain.NotFoundf("payment not found")
}

func (r *fakePaymentRepo) GetCompletedByOrder(ctx context.Context, orderID string) (*domain.Payment, error) {
	for _, p := range r.payments {
		if p.OrderID == orderID && p.Status == domain.PaymentStatusCompleted {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakePaymentRepo) GetByOrderAndGatewayID(ctx context.Context, orderID, gatewayPaymentID string) (*domain.Payment, error) {
	for _, p := range r.payments {
		if p.OrderID == orderID && p.GatewayPaymentID != nil && *p.GatewayPaymentID == gatewayPaymentID {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakePaymentRepo) GetLatestPendingByOrder(ctx context.Context, orderID string) (*domain.Payment, error) {
	for i := len(r.payments) - 1; i >= 0; i-- {
		if r.payments[i].OrderID == orderID && r.payments[i].Status == domain.PaymentStatusPending {
			return r.payments[i], nil
		}
	}
	return nil, nil
}

func (r *fakePaymentRepo) UpdateStatus(ctx context.Context, id, status string, gatewayPaymentID *string) error {
	for _, p := range r.payments {
		if p.ID == id {
			p.Status = status
			if gatewayPaymentID != nil {
				p.GatewayPaymentID = gatewayPaymentID
			}
			return nil
		}
	}
	return domain.NotFoundf("payment not found")
}

func (r *fakePaymentRepo) ListByOrder(ctx context.Context, orderID string) ([]domain.Payment, error) {
	var out []domain.Payment
	for _, p := range r.payments {
		if p.OrderID == orderID {
			out = append(out, *p)
		}
	}
	return out, nil
}

// --- user repository ---

type fakeUserRepo struct {
	users     map[string]*domain.User
	addresses map[string]*domain.Address
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	r := &fakeUserRepo{
		users:     make(map[string]*domain.User),
		addresses: make(map[string]*domain.Address),
	}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, domain.NotFoundf("user not found")
}

func (r *fakeUserRepo) GetAddress(ctx context.Context, id, userID string) (*domain.Address, error) {
	if a, ok := r.addresses[id]; ok && a.UserID == userID {
		return a, nil
	}
	return nil, domain.NotFoundf("address not found")
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) error { return errNotImplemented }
func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return nil, errNotImplemented
}
func (r *fakeUserRepo) GetAll(ctx context.Context, limit, offset int) ([]*domain.User, int64, error) {
	return nil, 0, errNotImplemented
}
func (r *fakeUserRepo) UpdateProfile(ctx context.Context, id, firstName, lastName, phone string) (*domain.User, error) {
	return nil, errNotImplemented
}
func (r *fakeUserRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return errNotImplemented
}
func (r *fakeUserRepo) AddAddress(ctx context.Context, addr *domain.Address) error {
	return errNotImplemented
}
func (r *fakeUserRepo) UpdateAddress(ctx context.Context, addr *domain.Address) error {
	return errNotImplemented
}
func (r *fakeUserRepo) GetAddresses(ctx context.Context, userID string) ([]domain.Address, error) {
	return nil, errNotImplemented
}
func (r *fakeUserRepo) DeleteAddress(ctx context.Context, id, userID string) error {
	return errNotImplemented
}
func (r *fakeUserRepo) SaveRefreshToken(ctx context.Context, token *domain.RefreshToken) error {
	return errNotImplemented
}
func (r *fakeUserRepo) GetRefreshToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	return nil, errNotImplemented
}
func (r *fakeUserRepo) RevokeRefreshToken(ctx context.Context, token string) error {
	return errNotImplemented
}

// --- cart repository ---

type fakeCartRepo struct {
	cart    *domain.Cart
	cleared bool
}

func (r *fakeCartRepo) GetByOwner(ctx context.Context, owner domain.CartOwner) (*domain.Cart, error) {
	return r.cart, nil
}

func (r *fakeCartRepo) GetItems(ctx context.Context, cartID string) ([]domain.CartItem, error) {
	if r.cart == nil {
		return nil, nil
	}
	return r.cart.Items, nil
}

func (r *fakeCartRepo) Create(ctx context.Context, cart *domain.Cart) error {
	cart.ID = "cart-1"
	r.cart = cart
	return nil
}

func (r *fakeCartRepo) AddItem(ctx context.Context, cartID, variantID string, quantity int) error {
	for i := range r.cart.Items {
		if r.cart.Items[i].VariantID == variantID {
			r.cart.Items[i].Quantity += quantity
			return nil
		}
	}
	r.cart.Items = append(r.cart.Items, domain.CartItem{CartID: cartID, VariantID: variantID, Quantity: quantity})
	return nil
}

func (r *fakeCartRepo) SetItemQuantity(ctx context.Context, cartID, variantID string, quantity int) error {
	for i := range r.cart.Items {
		if r.cart.Items[i].VariantID == variantID {
			r.cart.Items[i].Quantity = quantity
			return nil
		}
	}
	return domain.NotFoundf("item not in cart")
}

func (r *fakeCartRepo) RemoveItem(ctx context.Context, cartID, variantID string) error {
	for i := range r.cart.Items {
		if r.cart.Items[i].VariantID == variantID {
			r.cart.Items = append(r.cart.Items[:i], r.cart.Items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeCartRepo) Clear(ctx context.Context, cartID string) error {
	r.cleared = true
	if r.cart != nil {
		r.cart.Items = nil
	}
	return nil
}

// --- return repository ---

type fakeReturnRepo struct {
	returns map[string]*domain.Return
}

func newFakeReturnRepo(returns ...*domain.Return) *fakeReturnRepo {
	r := &fakeReturnRepo{returns: make(map[string]*domain.Return)}
	for _, ret := range returns {
		r.returns[ret.ID] = ret
	}
	return r
}

func (r *fakeReturnRepo) Create(ctx context.Context, ret *domain.Return) error {
	if ret.ID == "" {
		ret.ID = fmt.Sprintf("return-%d", len(r.returns)+1)
	}
	r.returns[ret.ID] = ret
	return nil
}

func (r *fakeReturnRepo) GetByID(ctx context.Context, id string) (*domain.Return, error) {
	if ret, ok := r.returns[id]; ok {
		return ret, nil
	}
	return nil, domain.NotFoundf("return not found")
}

func (r *fakeReturnRepo) GetActiveByOrder(ctx context.Context, orderID string) (*domain.Return, error) {
	for _, ret := range r.returns {
		if ret.OrderID != orderID {
			continue
		}
		if ret.Status == domain.ReturnStatusRequested || ret.Status == domain.ReturnStatusApproved {
			return ret, nil
		}
	}
	return nil, nil
}

func (r *fakeReturnRepo) GetByUserID(ctx context.Context, userID string) ([]domain.Return, error) {
	var out []domain.Return
	for _, ret := range r.returns {
		if ret.UserID == userID {
			out = append(out, *ret)
		}
	}
	return out, nil
}

func (r *fakeReturnRepo) List(ctx context.Context, filter domain.ReturnFilter) ([]domain.Return, int64, error) {
	return nil, 0, errNotImplemented
}

func (r *fakeReturnRepo) UpdateStatus(ctx context.Context, id, status string) error {
	ret, ok := r.returns[id]
	if !ok {
		return domain.NotFoundf("return not found")
	}
	ret.Status = status
	return nil
}

func (r *fakeReturnRepo) SetRefund(ctx context.Context, id string, amount float64) error {
	ret, ok := r.returns[id]
	if !ok {
		return domain.NotFoundf("return not found")
	}
	ret.Status = domain.ReturnStatusRefunded
	ret.RefundAmount = amount
	return nil
}

// --- review repository ---

type fakeReviewRepo struct {
	reviews []*domain.Review
}

func (r *fakeReviewRepo) Create(ctx context.Context, review *domain.Review) error {
	if review.ID == "" {
		review.ID = fmt.Sprintf("review-%d", len(r.reviews)+1)
	}
	r.reviews = append(r.reviews, review)
	return nil
}

func (r *fakeReviewRepo) ExistsForUserAndProduct(ctx context.Context, userID, productID string) (bool, error) {
	for _, rev := range r.reviews {
		if rev.UserID == userID && rev.ProductID == productID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeReviewRepo) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]domain.Review, int64, error) {
	return nil, 0, errNotImplemented
}

func (r *fakeReviewRepo) List(ctx context.Context, limit, offset int) ([]domain.Review, int64, error) {
	return nil, 0, errNotImplemented
}

func (r *fakeReviewRepo) Delete(ctx context.Context, id string) error {
	for i, rev := range r.reviews {
		if rev.ID == id {
			r.reviews = append(r.reviews[:i], r.reviews[i+1:]...)
			return nil
		}
	}
	return domain.NotFoundf("review not found")
}

// --- settings repository ---

type fakeSettingsRepo struct {
	rates map[string]*domain.ShippingRate
}

func (r *fakeSettingsRepo) GetShippingRateByKey(ctx context.Context, key string) (*domain.ShippingRate, error) {
	if rate, ok := r.rates[key]; ok {
		return rate, nil
	}
	return nil, domain.NotFoundf("shipping rate not found")
}

func (r *fakeSettingsRepo) GetActiveShippingRates(ctx context.Context) ([]domain.ShippingRate, error) {
	return nil, errNotImplemented
}
func (r *fakeSettingsRepo) GetAllShippingRates(ctx context.Context) ([]domain.ShippingRate, error) {
	return nil, errNotImplemented
}
func (r *fakeSettingsRepo) CreateShippingRate(ctx context.Context, rate *domain.ShippingRate) (*domain.ShippingRate, error) {
	return nil, errNotImplemented
}
func (r *fakeSettingsRepo) UpdateShippingRate(ctx context.Context, rate *domain.ShippingRate) (*domain.ShippingRate, error) {
	return nil, errNotImplemented
}
func (r *fakeSettingsRepo) DeleteShippingRate(ctx context.Context, id int32) error {
	return errNotImplemented
}

// variantDetail builds a purchasable variant for tests.
func variantDetail(id string, price float64, stock int) domain.VariantDetail {
	return domain.VariantDetail{
		Variant: domain.Variant{
			ID:       id,
			SKU:      "SKU-" + id,
			Price:    price,
			Stock:    stock,
			IsActive: true,
		},
		ProductName:   "Product " + id,
		ProductActive: true,
	}
}
