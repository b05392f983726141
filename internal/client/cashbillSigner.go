package client

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"gameshop/internal/model"
)

// Signer computes the request and notification signatures CashBill expects.
type Signer struct {
	secret string
}

func NewSigner(secret string) *Signer {
	return &Signer{secret: secret}
}

// PaymentSign signs a payment creation request. Field order is fixed by CashBill.
func (s *Signer) PaymentSign(req *model.CashbillPaymentRequest) string {
	var b strings.Builder
	b.WriteString(req.Title)
	b.WriteString(req.Amount.Value.String())
	b.WriteString(req.Amount.CurrencyCode)
	b.WriteString(req.ReturnURL)
	b.WriteString(req.Description)
	b.WriteString(req.NegativeReturnURL)
	b.WriteString(req.AdditionalData)
	b.WriteString(req.PaymentChannel)
	b.WriteString(req.LanguageCode)
	b.WriteString(req.Referer)

	if pd := req.PersonalData; pd != nil {
		for _, v := range []string{
			pd.FirstName, pd.Surname, pd.Email, pd.Country, pd.City,
			pd.Postcode, pd.Street, pd.House, pd.Flat, pd.IP,
		} {
			b.WriteString(v)
		}
	}

	for _, opt := range req.Options {
		b.WriteString(opt.Name)
		b.WriteString(opt.Value)
	}

	b.WriteString(s.secret)
	return sha1Hex(b.String())
}

// Sign signs the concatenation of parts followed by the secret. Used for
// reads (id) and return URL updates (id, returnUrl, negativeReturnUrl).
func (s *Signer) Sign(parts ...string) string {
	return sha1Hex(strings.Join(parts, "") + s.secret)
}

// VerifyNotification checks md5(cmd+args+secret) against sign. Empty inputs never verify.
func (s *Signer) VerifyNotification(cmd, args, sign string) bool {
	if cmd == "" || args == "" || sign == "" || s.secret == "" {
		return false
	}
	sum := md5.Sum([]byte(cmd + args + s.secret))
	expected := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(expected), []byte(sign)) == 1
}

// NotificationSign produces the signature CashBill would attach to a notification.
func (s *Signer) NotificationSign(cmd, args string) string {
	sum := md5.Sum([]byte(cmd + args + s.secret))
	return hex.EncodeToString(sum[:])
}

func sha1Hex(v string) string {
	sum := sha1.Sum([]byte(v))
	return hex.EncodeToString(sum[:])
}
