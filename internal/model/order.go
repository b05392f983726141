package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// LineItem is a snapshot of a catalog product at purchase time.
type LineItem struct {
	ProductID uint            `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	ImageURL  string          `json:"image_url"`
}

type CustomerData struct {
	FirstName string `json:"firstName"`
	Surname   string `json:"surname"`
	Email     string `json:"email"`
	Country   string `json:"country,omitempty"`
	City      string `json:"city,omitempty"`
	Postcode  string `json:"postcode,omitempty"`
	Street    string `json:"street,omitempty"`
	House     string `json:"house,omitempty"`
	Flat      string `json:"flat,omitempty"`
}

// Order is a purchase attempt. CashbillOrderID stays nil until CashBill accepts
// the transaction; Amount is fixed at creation.
type Order struct {
	ID                uint                             `gorm:"primaryKey" json:"id"`
	CashbillOrderID   *string                          `gorm:"size:64;uniqueIndex" json:"cashbill_order_id"`
	Status            PaymentStatus                    `gorm:"size:32;index;not null;default:PreStart" json:"status"`
	Amount            decimal.Decimal                  `gorm:"type:decimal(10,2);not null" json:"amount"`
	Currency          string                           `gorm:"size:3;not null" json:"currency"`
	Title             string                           `gorm:"size:255;not null" json:"title"`
	Description       string                           `gorm:"type:text" json:"description"`
	Products          datatypes.JSONType[[]LineItem]   `gorm:"not null" json:"products"`
	CustomerData      datatypes.JSONType[CustomerData] `json:"customer_data"`
	PaymentChannel    *string                          `gorm:"size:64" json:"payment_channel"`
	AdditionalData    string                           `gorm:"type:text" json:"additional_data"`
	ReturnURL         string                           `gorm:"size:255" json:"return_url"`
	NegativeReturnURL *string                          `gorm:"size:255" json:"negative_return_url"`
	RedirectURL       *string                          `gorm:"size:255" json:"redirect_url"`
	PaidAt            *time.Time                       `json:"paid_at"`
	CreatedAt         time.Time                        `json:"created_at"`
	UpdatedAt         time.Time                        `json:"updated_at"`
}

func (o *Order) IsPaid() bool    { return o.Status.IsPaid() }
func (o *Order) IsFailed() bool  { return o.Status.IsFailed() }
func (o *Order) IsPending() bool { return o.Status.IsPending() }

func (o *Order) RemoteID() string {
	if o.CashbillOrderID == nil {
		return ""
	}
	return *o.CashbillOrderID
}

// PaidOrder is the projection analytics buckets over.
type PaidOrder struct {
	PaidAt time.Time
	Amount decimal.Decimal
}

type PaidTotals struct {
	OrdersCount int64
	Revenue     decimal.Decimal
}
