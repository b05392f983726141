package model

import "encoding/json"

type CashbillAmount struct {
	Value        json.Number `json:"value"`
	CurrencyCode string      `json:"currencyCode"`
}

type CashbillPersonalData struct {
	FirstName string `json:"firstName,omitempty"`
	Surname   string `json:"surname,omitempty"`
	Email     string `json:"email,omitempty"`
	Country   string `json:"country,omitempty"`
	City      string `json:"city,omitempty"`
	Postcode  string `json:"postcode,omitempty"`
	Street    string `json:"street,omitempty"`
	House     string `json:"house,omitempty"`
	Flat      string `json:"flat,omitempty"`
	IP        string `json:"ip,omitempty"`
}

type CashbillOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// CashbillPaymentRequest is the body of POST /payment/{shopId}.
type CashbillPaymentRequest struct {
	Title             string                `json:"title"`
	Amount            CashbillAmount        `json:"amount"`
	Description       string                `json:"description,omitempty"`
	AdditionalData    string                `json:"additionalData,omitempty"`
	ReturnURL         string                `json:"returnUrl,omitempty"`
	NegativeReturnURL string                `json:"negativeReturnUrl,omitempty"`
	PaymentChannel    string                `json:"paymentChannel,omitempty"`
	LanguageCode      string                `json:"languageCode,omitempty"`
	Referer           string                `json:"referer,omitempty"`
	PersonalData      *CashbillPersonalData `json:"personalData,omitempty"`
	Options           []CashbillOption      `json:"options,omitempty"`
	Sign              string                `json:"sign"`
}

type CashbillPaymentCreated struct {
	ID          string `json:"id"`
	RedirectURL string `json:"redirectUrl"`
}

// CashbillPayment is the subset of GET /payment/{shopId}/{id} the shop reads.
type CashbillPayment struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	Status         string         `json:"status"`
	PaymentChannel string         `json:"paymentChannel"`
	Description    string         `json:"description"`
	AdditionalData string         `json:"additionalData"`
	Amount         CashbillAmount `json:"amount"`
}

type CashbillError struct {
	ErrorMessage string `json:"errorMessage"`
}
