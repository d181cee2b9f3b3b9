package payfast

import (
	"context"
	"strings"
	"testing"

	"lushlocks-backend/internal/domain"
)

func testClient() *Client {
	return New(Config{
		MerchantID:  "10000100",
		MerchantKey: "46f0cd694581a",
		Passphrase:  "jt7NOE43FZPn",
		ProcessURL:  "https://sandbox.payfast.co.za/eng/process",
		ReturnURL:   "https://shop.example/checkout/success",
		CancelURL:   "https://shop.example/checkout/cancelled",
		NotifyURL:   "https://api.example/api/v1/payments/payfast/notify",
		Sandbox:     true,
	})
}

func encode(fields []Field) []byte {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f.Key+"="+strings.ReplaceAll(f.Value, " ", "+"))
	}
	return []byte(strings.Join(parts, "&"))
}

func TestSignatureSkipsEmptyFields(t *testing.T) {
	t.Parallel()

	with := Signature([]Field{{"a", "1"}, {"b", ""}, {"c", "2"}}, "")
	without := Signature([]Field{{"a", "1"}, {"c", "2"}}, "")
	if with != without {
		t.Error("empty fields must not contribute to the signature")
	}
}

func TestSignatureDependsOnOrderAndPassphrase(t *testing.T) {
	t.Parallel()

	fields := []Field{{"a", "1"}, {"b", "2"}}
	reversed := []Field{{"b", "2"}, {"a", "1"}}

	if Signature(fields, "") == Signature(reversed, "") {
		t.Error("field order must affect the signature")
	}
	if Signature(fields, "") == Signature(fields, "secret") {
		t.Error("passphrase must affect the signature")
	}
	if Signature(fields, "") != Signature(fields, "") {
		t.Error("signature must be deterministic")
	}
	if len(Signature(fields, "")) != 32 {
		t.Errorf("signature length = %d, want 32 hex chars", len(Signature(fields, "")))
	}
}

func TestBuildPaymentData(t *testing.T) {
	t.Parallel()

	c := testClient()
	order := &domain.Order{ID: "o1", OrderNumber: "ORD-20260831-0001", Total: 719.98}
	payer := &domain.User{FirstName: "Jo", LastName: "M", Email: "jo@example.com"}

	fields, err := c.BuildPaymentData(order, payer)
	if err != nil {
		t.Fatalf("BuildPaymentData() error = %v", err)
	}

	wantOrder := []string{
		"merchant_id", "merchant_key", "return_url", "cancel_url", "notify_url",
		"name_first", "name_last", "email_address", "m_payment_id", "amount",
		"item_name", "signature",
	}
	if len(fields) != len(wantOrder) {
		t.Fatalf("len(fields) = %d, want %d", len(fields), len(wantOrder))
	}
	for i, key := range wantOrder {
		if fields[i].Key != key {
			t.Errorf("fields[%d].Key = %s, want %s", i, fields[i].Key, key)
		}
	}

	byKey := make(map[string]string)
	for _, f := range fields {
		byKey[f.Key] = f.Value
	}
	if byKey["amount"] != "719.98" {
		t.Errorf("amount = %q, want 719.98", byKey["amount"])
	}
	if byKey["item_name"] != "Order ORD-20260831-0001" {
		t.Errorf("item_name = %q", byKey["item_name"])
	}
	if byKey["m_payment_id"] != "o1" {
		t.Errorf("m_payment_id = %q, want o1", byKey["m_payment_id"])
	}

	// The trailing signature must cover exactly the preceding fields.
	if got := Signature(fields[:len(fields)-1], c.cfg.Passphrase); got != byKey["signature"] {
		t.Errorf("signature = %s, want %s", byKey["signature"], got)
	}
}

func TestBuildPaymentDataUnconfigured(t *testing.T) {
	t.Parallel()

	c := New(Config{})
	_, err := c.BuildPaymentData(&domain.Order{}, &domain.User{})
	if err == nil {
		t.Fatal("BuildPaymentData() expected error without credentials")
	}
}

func TestParseNotification(t *testing.T) {
	t.Parallel()

	body := []byte("m_payment_id=o1&pf_payment_id=PF123&payment_status=COMPLETE&amount_gross=719.98&item_name=Order+ORD-20260831-0001")
	n, err := ParseNotification(body)
	if err != nil {
		t.Fatalf("ParseNotification() error = %v", err)
	}

	if n.OrderID() != "o1" {
		t.Errorf("OrderID() = %q, want o1", n.OrderID())
	}
	if n.GatewayPaymentID() != "PF123" {
		t.Errorf("GatewayPaymentID() = %q, want PF123", n.GatewayPaymentID())
	}
	if !n.Complete() {
		t.Error("Complete() = false, want true")
	}
	amount, err := n.AmountGross()
	if err != nil {
		t.Fatalf("AmountGross() error = %v", err)
	}
	if amount != 719.98 {
		t.Errorf("AmountGross() = %v, want 719.98", amount)
	}
	if got := n.Get("item_name"); got != "Order ORD-20260831-0001" {
		t.Errorf("Get(item_name) = %q, space not decoded", got)
	}
}

func TestParseNotificationErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "empty body", body: ""},
		{name: "broken percent escape", body: "a=%zz"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := ParseNotification([]byte(tt.body)); err == nil {
				t.Fatal("ParseNotification() expected error")
			}
		})
	}
}

func TestVerifySignature(t *testing.T) {
	t.Parallel()

	c := testClient()

	fields := []Field{
		{"m_payment_id", "o1"},
		{"pf_payment_id", "PF123"},
		{"payment_status", "COMPLETE"},
		{"amount_gross", "719.98"},
		{"item_name", "Order ORD-20260831-0001"},
	}
	signed := append(fields, Field{"signature", Signature(fields, c.cfg.Passphrase)})

	n, err := ParseNotification(encode(signed))
	if err != nil {
		t.Fatalf("ParseNotification() error = %v", err)
	}
	if !c.VerifySignature(n) {
		t.Error("VerifySignature() = false for a correctly signed body")
	}

	tampered := make([]Field, len(signed))
	copy(tampered, signed)
	tampered[3].Value = "1.00"
	n, err = ParseNotification(encode(tampered))
	if err != nil {
		t.Fatalf("ParseNotification() error = %v", err)
	}
	if c.VerifySignature(n) {
		t.Error("VerifySignature() = true for a tampered amount")
	}

	unsigned, err := ParseNotification(encode(fields))
	if err != nil {
		t.Fatalf("ParseNotification() error = %v", err)
	}
	if c.VerifySignature(unsigned) {
		t.Error("VerifySignature() = true with no signature field")
	}

	wrongPass := New(Config{MerchantID: "m", MerchantKey: "k", Passphrase: "other"})
	n, err = ParseNotification(encode(signed))
	if err != nil {
		t.Fatalf("ParseNotification() error = %v", err)
	}
	if wrongPass.VerifySignature(n) {
		t.Error("VerifySignature() = true under a different passphrase")
	}
}

func TestVerifySource(t *testing.T) {
	t.Parallel()

	c := testClient()
	c.resolveHost = func(ctx context.Context, host string) ([]string, error) {
		if host == "sandbox.payfast.co.za" {
			return []string{"197.97.145.144"}, nil
		}
		return nil, context.DeadlineExceeded
	}

	if err := c.VerifySource(context.Background(), "197.97.145.144"); err != nil {
		t.Errorf("VerifySource() error = %v for a gateway address", err)
	}
	if err := c.VerifySource(context.Background(), "203.0.113.9"); err == nil {
		t.Error("VerifySource() accepted an unknown address")
	}
}
