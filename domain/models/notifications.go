package models

import "time"

// SSE event names ตามที่ notification service ส่งมา
const (
	EventConnected           = "connected"
	EventVideoStatusUpdate   = "video_status_update"
	EventPaymentStatusUpdate = "payment_status_update"
)

// VideoStatusUpdate patches exactly one content record: status plus, while
// PROCESSING, a progress percentage. OccurredAt is decoded when the backend
// sends it; events without it can only be ordered by arrival.
type VideoStatusUpdate struct {
	UserID             string        `json:"userId,omitempty"`
	ContentID          string        `json:"contentId"`
	Status             ContentStatus `json:"status"`
	ProgressPercentage *float64      `json:"progressPercentage,omitempty"`
	OccurredAt         *time.Time    `json:"occurredAt,omitempty"`
}

// TransactionStatus - สถานะ payment transaction
type TransactionStatus string

const (
	TransactionCompleted TransactionStatus = "COMPLETED"
	TransactionPending   TransactionStatus = "PENDING"
	TransactionFailed    TransactionStatus = "FAILED"
	TransactionRefunded  TransactionStatus = "REFUNDED"
	TransactionDisputed  TransactionStatus = "DISPUTED"
)

// PaymentStatusUpdate - สถานะของ transaction หนึ่งรายการ (amount เป็น cents)
type PaymentStatusUpdate struct {
	UserID        string            `json:"userId,omitempty"`
	TransactionID string            `json:"transactionId"`
	AmountPaid    int               `json:"amountPaid"`
	Status        TransactionStatus `json:"status"`
}
