package dto

import (
	"gameshop/internal/model"
	"time"

	"github.com/shopspring/decimal"
)

// Response is the envelope every JSON endpoint answers with.
type Response struct {
	Success bool              `json:"success"`
	Data    interface{}       `json:"data,omitempty"`
	Meta    interface{}       `json:"meta,omitempty"`
	Message string            `json:"message,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func OK(data interface{}) *Response {
	return &Response{Success: true, Data: data}
}

type Item struct {
	ID       uint `json:"id" validate:"required"`
	Quantity int  `json:"quantity" validate:"required,min=1"`
}

type CustomerData struct {
	FirstName string `json:"firstName" validate:"required,max=255"`
	Surname   string `json:"surname" validate:"required,max=255"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Country   string `json:"country" validate:"omitempty,max=100"`
	City      string `json:"city" validate:"omitempty,max=100"`
	Postcode  string `json:"postcode" validate:"omitempty,max=20"`
	Street    string `json:"street" validate:"omitempty,max=255"`
	House     string `json:"house" validate:"omitempty,max=50"`
	Flat      string `json:"flat" validate:"omitempty,max=50"`
}

type PayRequest struct {
	Products          []*Item      `json:"products" validate:"required,min=1,dive,required"`
	CustomerData      CustomerData `json:"customer_data"`
	ReturnURL         string       `json:"return_url" validate:"required,url,max=255"`
	NegativeReturnURL string       `json:"negative_return_url" validate:"omitempty,url,max=255"`
	PaymentChannel    string       `json:"payment_channel" validate:"omitempty,max=64"`
	LanguageCode      string       `json:"language_code" validate:"omitempty,oneof=PL EN"`
}

type PayResponse struct {
	OrderID         uint             `json:"order_id"`
	CashbillOrderID string           `json:"cashbill_order_id"`
	RedirectURL     string           `json:"redirect_url"`
	TotalAmount     decimal.Decimal  `json:"total_amount"`
	Products        []model.LineItem `json:"products"`
}

type UpdateReturnURLsRequest struct {
	ReturnURL         string `json:"return_url" validate:"required,url,max=255"`
	NegativeReturnURL string `json:"negative_return_url" validate:"omitempty,url,max=255"`
}

type ChannelsQuery struct {
	LanguageCode string `query:"language" validate:"omitempty,oneof=PL EN"`
}

// OrderView is an order as shown to the buyer and to admins.
type OrderView struct {
	OrderID           uint                `json:"order_id"`
	CashbillOrderID   *string             `json:"cashbill_order_id"`
	Status            model.PaymentStatus `json:"status"`
	StatusName        string              `json:"status_name"`
	Amount            decimal.Decimal     `json:"amount"`
	Currency          string              `json:"currency"`
	Title             string              `json:"title"`
	Products          []model.LineItem    `json:"products"`
	CustomerData      model.CustomerData  `json:"customer_data"`
	PaymentChannel    *string             `json:"payment_channel"`
	RedirectURL       *string             `json:"redirect_url"`
	ReturnURL         string              `json:"return_url"`
	NegativeReturnURL *string             `json:"negative_return_url"`
	IsPaid            bool                `json:"is_paid"`
	IsFailed          bool                `json:"is_failed"`
	IsPending         bool                `json:"is_pending"`
	PaidAt            *time.Time          `json:"paid_at"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

func NewOrderView(o *model.Order) *OrderView {
	return &OrderView{
		OrderID:           o.ID,
		CashbillOrderID:   o.CashbillOrderID,
		Status:            o.Status,
		StatusName:        o.Status.Name(),
		Amount:            o.Amount,
		Currency:          o.Currency,
		Title:             o.Title,
		Products:          o.Products.Data(),
		CustomerData:      o.CustomerData.Data(),
		PaymentChannel:    o.PaymentChannel,
		RedirectURL:       o.RedirectURL,
		ReturnURL:         o.ReturnURL,
		NegativeReturnURL: o.NegativeReturnURL,
		IsPaid:            o.IsPaid(),
		IsFailed:          o.IsFailed(),
		IsPending:         o.IsPending(),
		PaidAt:            o.PaidAt,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
}

type PageQuery struct {
	Page    int `query:"page" validate:"omitempty,min=1"`
	PerPage int `query:"per_page" validate:"omitempty,min=1,max=100"`
}

type PageMeta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	LastPage    int   `json:"last_page"`
}

func NewPageMeta(page, perPage int, total int64) PageMeta {
	last := int((total + int64(perPage) - 1) / int64(perPage))
	if last < 1 {
		last = 1
	}
	return PageMeta{CurrentPage: page, PerPage: perPage, Total: total, LastPage: last}
}

type OrderPage struct {
	Orders []*OrderView `json:"orders"`
	Meta   PageMeta     `json:"meta"`
}

type ProductQuery struct {
	Category  string `query:"category" validate:"omitempty,oneof=ranks keys bundles"`
	Featured  bool   `query:"featured"`
	Popular   bool   `query:"popular"`
	BestOffer bool   `query:"best_offer"`
}

type ProductRequest struct {
	Name          string                `json:"name" validate:"required,max=255"`
	Price         decimal.Decimal       `json:"price"`
	OriginalPrice decimal.NullDecimal   `json:"original_price"`
	ImageURL      string                `json:"image_url" validate:"omitempty,max=512"`
	Duration      string                `json:"duration" validate:"omitempty,max=64"`
	ShortDesc     string                `json:"short_desc"`
	Description   string                `json:"description"`
	Features      []string              `json:"features"`
	Contents      []string              `json:"contents"`
	Color         string                `json:"color" validate:"omitempty,max=32"`
	Category      model.ProductCategory `json:"category" validate:"required,oneof=ranks keys bundles"`
	Discount      *int                  `json:"discount" validate:"omitempty,min=0,max=100"`
	Featured      bool                  `json:"featured"`
	Popular       bool                  `json:"popular"`
	BestOffer     bool                  `json:"best_offer"`
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      *model.User `json:"user"`
}

type UpdateRoleRequest struct {
	Role model.Role `json:"role" validate:"required,oneof=admin user unchecked"`
}

type UserPage struct {
	Users []*model.User `json:"users"`
	Meta  PageMeta      `json:"meta"`
}

type DailyStat struct {
	Date          string  `json:"date"`
	FormattedDate string  `json:"formatted_date"`
	OrdersCount   int64   `json:"orders_count"`
	Revenue       float64 `json:"revenue"`
}

type MonthlyStat struct {
	Year          int     `json:"year"`
	Month         int     `json:"month"`
	FormattedDate string  `json:"formatted_date"`
	OrdersCount   int64   `json:"orders_count"`
	Revenue       float64 `json:"revenue"`
}

// MonthlyGrowth compares the current month with the previous one, in percent.
type MonthlyGrowth struct {
	Orders  float64 `json:"orders"`
	Revenue float64 `json:"revenue"`
}

type MonthlyStats struct {
	Data   []MonthlyStat `json:"data"`
	Growth MonthlyGrowth `json:"growth"`
}

type YearlyStat struct {
	Year        int     `json:"year"`
	OrdersCount int64   `json:"orders_count"`
	Revenue     float64 `json:"revenue"`
}

type OverallStats struct {
	TotalRevenue      float64 `json:"total_revenue"`
	TotalOrders       int64   `json:"total_orders"`
	AverageOrderValue float64 `json:"average_order_value"`
	TodayRevenue      float64 `json:"today_revenue"`
	TodayOrders       int64   `json:"today_orders"`
	MonthRevenue      float64 `json:"month_revenue"`
	MonthOrders       int64   `json:"month_orders"`
}

type AnalyticsReport struct {
	DailyStats   []DailyStat   `json:"daily_stats"`
	MonthlyStats *MonthlyStats `json:"monthly_stats"`
	YearlyStats  []YearlyStat  `json:"yearly_stats"`
	OverallStats *OverallStats `json:"overall_stats"`
}

type AnalyticsQuery struct {
	Period string `query:"period" validate:"omitempty,oneof=daily monthly yearly overall"`
}
