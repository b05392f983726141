package model

// PaymentStatus mirrors the transaction status reported by CashBill.
type PaymentStatus string

const (
	StatusPreStart              PaymentStatus = "PreStart"
	StatusStart                 PaymentStatus = "Start"
	StatusPositiveAuthorization PaymentStatus = "PositiveAuthorization"
	StatusPositiveFinish        PaymentStatus = "PositiveFinish"
	StatusNegativeFinish        PaymentStatus = "NegativeFinish"
	StatusFraud                 PaymentStatus = "Fraud"
	StatusAbort                 PaymentStatus = "Abort"

	// StatusUnknown stands in for any value CashBill reports that is not listed above.
	StatusUnknown PaymentStatus = "Unknown"
)

var statusNames = map[PaymentStatus]string{
	StatusPreStart:              "Awaiting payment",
	StatusStart:                 "Payment started",
	StatusPositiveAuthorization: "Payment authorized",
	StatusPositiveFinish:        "Paid",
	StatusNegativeFinish:        "Payment failed",
	StatusFraud:                 "Rejected as fraud",
	StatusAbort:                 "Aborted",
}

func ParsePaymentStatus(raw string) PaymentStatus {
	s := PaymentStatus(raw)
	if _, ok := statusNames[s]; ok {
		return s
	}
	return StatusUnknown
}

func (s PaymentStatus) Known() bool {
	_, ok := statusNames[s]
	return ok
}

func (s PaymentStatus) IsPaid() bool {
	return s == StatusPositiveFinish
}

func (s PaymentStatus) IsFailed() bool {
	switch s {
	case StatusNegativeFinish, StatusFraud, StatusAbort:
		return true
	}
	return false
}

// IsPending is true for in-flight states and for anything unrecognized, so an
// unexpected value is never reported as paid or failed.
func (s PaymentStatus) IsPending() bool {
	switch s {
	case StatusPreStart, StatusStart, StatusPositiveAuthorization:
		return true
	}
	return !s.Known()
}

func (s PaymentStatus) Name() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "Unknown"
}
