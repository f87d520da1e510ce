package ports

import "github.com/pedrops164/ShortsCreator/domain/models"

// NotificationSource is the one-way push channel of the session. Subscribers
// get every event the source happens to deliver, but the Latest* registers
// are changing external values, not queues: two quick events for different
// ids leave only the newer one visible, so consumers must match by id.
type NotificationSource interface {
	// Connected reports whether the underlying channel is currently up.
	Connected() bool

	// OnVideoStatus registers a callback invoked from the stream's reader
	// goroutine for every decoded video_status_update.
	OnVideoStatus(fn func(models.VideoStatusUpdate))
	// OnPaymentStatus registers a callback for payment_status_update events.
	OnPaymentStatus(fn func(models.PaymentStatusUpdate))

	LatestVideoStatus() (models.VideoStatusUpdate, bool)
	LatestPaymentStatus() (models.PaymentStatusUpdate, bool)
}
