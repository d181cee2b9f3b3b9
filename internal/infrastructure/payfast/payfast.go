// Package payfast integrates the PayFast payment gateway: signed outbound
// payment requests and verification of the asynchronous ITN callbacks it
// posts back.
package payfast

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"lushlocks-backend/internal/domain"
)

// Field is an ordered key/value pair. PayFast signs the parameter string in
// the order the fields appear, so a map is not usable here.
type Field struct {
	Key   string
	Value string
}

type Config struct {
	MerchantID  string
	MerchantKey string
	Passphrase  string
	ProcessURL  string
	ReturnURL   string
	CancelURL   string
	NotifyURL   string
	Sandbox     bool
}

type Client struct {
	cfg Config

	// resolveHost is swappable in tests; production uses the default resolver.
	resolveHost func(ctx context.Context, host string) ([]string, error)
}

func New(cfg Config) *Client {
	return &Client{
		cfg: cfg,
		resolveHost: func(ctx context.Context, host string) ([]string, error) {
			return net.DefaultResolver.LookupHost(ctx, host)
		},
	}
}

// Configured reports whether merchant credentials are present.
func (c *Client) Configured() bool {
	return c.cfg.MerchantID != "" && c.cfg.MerchantKey != ""
}

func (c *Client) ProcessURL() string {
	return c.cfg.ProcessURL
}

// Signature builds the PayFast parameter string and hashes it with MD5. The
// digest choice is the gateway's protocol, reproduced bit-for-bit: each
// non-empty field is URL-encoded as key=value (spaces as '+', uppercase hex),
// joined with '&' in field order, with the passphrase appended last when set.
func Signature(fields []Field, passphrase string) string {
	var sb strings.Builder
	for _, f := range fields {
		if f.Value == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(f.Key)
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(f.Value))
	}
	if passphrase != "" {
		sb.WriteString("&passphrase=")
		sb.WriteString(url.QueryEscape(passphrase))
	}
	sum := md5.Sum([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}

// BuildPaymentData assembles the signed parameter set for a gateway redirect.
// Field order follows the PayFast form specification and must not be changed.
func (c *Client) BuildPaymentData(order *domain.Order, payer *domain.User) ([]Field, error) {
	if !c.Configured() {
		return nil, domain.Gatewayf("payment gateway is not configured")
	}

	fields := []Field{
		{"merchant_id", c.cfg.MerchantID},
		{"merchant_key", c.cfg.MerchantKey},
		{"return_url", c.cfg.ReturnURL},
		{"cancel_url", c.cfg.CancelURL},
		{"notify_url", c.cfg.NotifyURL},
		{"name_first", payer.FirstName},
		{"name_last", payer.LastName},
		{"email_address", payer.Email},
		{"m_payment_id", order.ID},
		{"amount", fmt.Sprintf("%.2f", order.Total)},
		{"item_name", "Order " + order.OrderNumber},
	}
	fields = append(fields, Field{"signature", Signature(fields, c.cfg.Passphrase)})
	return fields, nil
}

// Notification is a parsed ITN post. Field order is preserved from the raw
// body because the signature is computed over fields in received order.
type Notification struct {
	fields []Field
	values map[string]string
}

// ParseNotification decodes a form-encoded ITN body without losing field
// order, which url.Values would.
func ParseNotification(body []byte) (*Notification, error) {
	n := &Notification{values: make(map[string]string)}
	for _, pair := range strings.Split(string(body), "&") {
		if pair == "" {
			continue
		}
		key, rawVal, _ := strings.Cut(pair, "=")
		val, err := url.QueryUnescape(rawVal)
		if err != nil {
			return nil, domain.Gatewayf("malformed notification body")
		}
		key, err = url.QueryUnescape(key)
		if err != nil {
			return nil, domain.Gatewayf("malformed notification body")
		}
		n.fields = append(n.fields, Field{Key: key, Value: val})
		n.values[key] = val
	}
	if len(n.fields) == 0 {
		return nil, domain.Gatewayf("empty notification body")
	}
	return n, nil
}

func (n *Notification) Get(key string) string {
	return n.values[key]
}

// OrderID is the merchant payment reference we set outbound (m_payment_id).
func (n *Notification) OrderID() string {
	return n.values["m_payment_id"]
}

// GatewayPaymentID is PayFast's transaction identifier (pf_payment_id).
func (n *Notification) GatewayPaymentID() string {
	return n.values["pf_payment_id"]
}

// Complete reports whether the gateway settled the payment.
func (n *Notification) Complete() bool {
	return n.values["payment_status"] == "COMPLETE"
}

func (n *Notification) AmountGross() (float64, error) {
	amount, err := strconv.ParseFloat(n.values["amount_gross"], 64)
	if err != nil {
		return 0, domain.Gatewayf("invalid amount_gross")
	}
	return amount, nil
}

// VerifySignature recomputes the signature over every received field except
// the signature itself, in received order, and compares.
func (c *Client) VerifySignature(n *Notification) bool {
	received := n.values["signature"]
	if received == "" {
		return false
	}
	signable := make([]Field, 0, len(n.fields))
	for _, f := range n.fields {
		if f.Key == "signature" {
			continue
		}
		signable = append(signable, f)
	}
	return Signature(signable, c.cfg.Passphrase) == received
}

// payfastHosts are the gateway servers ITN posts legitimately come from.
var payfastHosts = []string{
	"www.payfast.co.za",
	"w1w.payfast.co.za",
	"w2w.payfast.co.za",
	"sandbox.payfast.co.za",
}

// VerifySource checks the caller's IP against the gateway's published hosts.
// Resolution is bounded; callers skip this check outside production.
func (c *Client) VerifySource(ctx context.Context, remoteIP string) error {
	lookupCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	for _, host := range payfastHosts {
		addrs, err := c.resolveHost(lookupCtx, host)
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			if addr == remoteIP {
				return nil
			}
		}
	}
	return domain.Gatewayf("notification from untrusted source")
}
