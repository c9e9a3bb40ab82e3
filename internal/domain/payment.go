package domain

import "time"

// PaymentSession is a redirect target for an external checkout. The client
// never talks to the payment provider directly.
type PaymentSession struct {
	TransactionID string  `json:"transactionId"`
	CheckoutURL   string  `json:"checkoutUrl"`
	PaymentID     string  `json:"paymentId"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
}

type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
	TransactionFailed    TransactionStatus = "failed"
)

type Transaction struct {
	ID        string            `json:"id"`
	GuideID   string            `json:"guideId"`
	Amount    float64           `json:"amount"`
	Currency  string            `json:"currency"`
	Status    TransactionStatus `json:"status"`
	CreatedAt time.Time         `json:"createdAt"`
}
