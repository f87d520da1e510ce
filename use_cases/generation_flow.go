package use_cases

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/pedrops164/ShortsCreator/domain/models"
	"github.com/pedrops164/ShortsCreator/domain/ports"
	"github.com/pedrops164/ShortsCreator/infrastructure/gateway"
)

// FlowState is where the generation confirmation dialog currently is.
type FlowState string

const (
	FlowClosed       FlowState = "CLOSED"
	FlowPriceLoading FlowState = "PRICE_LOADING"
	// FlowAwaiting - ราคาโหลดแล้ว รอผู้ใช้ยืนยัน
	FlowAwaiting   FlowState = "AWAITING_CONFIRMATION"
	FlowSubmitting FlowState = "SUBMITTING"
	FlowSucceeded  FlowState = "SUCCEEDED"
)

var (
	// ErrFlowBusy - มี request ค้างอยู่ (โหลดราคา หรือ submit)
	ErrFlowBusy = errors.New("generation flow has a request in flight")
	// ErrNotConfirmable - ยังยืนยันไม่ได้ (ราคายังไม่มา หรือ dialog ปิดแล้ว)
	ErrNotConfirmable = errors.New("generation cannot be confirmed in this state")
)

// GenerationFlow drives the confirm-before-charge dialog for one draft at a
// time. Opening it fetches the authoritative price; confirming submits the
// draft for generation. A failed submit keeps the dialog open on the loaded
// price so the user can retry or cancel; only an explicit Cancel or a
// success closes it.
//
// Not goroutine safe for concurrent Open/Confirm of different drafts; the
// in-flight guard only protects against double-clicks on the same dialog.
type GenerationFlow struct {
	gateway ports.ContentGateway
	logger  *slog.Logger

	mu        sync.Mutex
	state     FlowState
	contentID string
	price     *models.PriceQuote
	lastErr   error
	inFlight  bool
	// generation bumps on every Open/Cancel so stale responses are dropped
	generation uint64

	// OnStateChange fires after every transition, outside the lock.
	OnStateChange func(FlowState)
}

func NewGenerationFlow(gw ports.ContentGateway) *GenerationFlow {
	return &GenerationFlow{
		gateway: gw,
		state:   FlowClosed,
		logger:  slog.Default().With("component", "generation_flow"),
	}
}

func (f *GenerationFlow) State() FlowState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *GenerationFlow) ContentID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.contentID
}

// Price returns the loaded authoritative quote, nil before it arrives.
func (f *GenerationFlow) Price() *models.PriceQuote {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.price
}

// LastError is the failure that bounced the flow back to awaiting, nil
// otherwise. API errors keep their errorCode and message verbatim.
func (f *GenerationFlow) LastError() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

// CanConfirm is the enabled-state of the confirm control: only true with a
// dialog open, a price loaded and nothing in flight.
func (f *GenerationFlow) CanConfirm() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state == FlowAwaiting && f.price != nil && !f.inFlight
}

// Open starts the flow for a draft: transitions to PriceLoading and fetches
// the quote. Opening while a request is pending returns ErrFlowBusy;
// re-opening a settled dialog resets it.
func (f *GenerationFlow) Open(ctx context.Context, contentID string) error {
	f.mu.Lock()
	if f.inFlight {
		f.mu.Unlock()
		return ErrFlowBusy
	}
	f.generation++
	gen := f.generation
	f.contentID = contentID
	f.price = nil
	f.lastErr = nil
	f.inFlight = true
	f.mu.Unlock()
	f.transition(FlowPriceLoading)

	price, err := f.gateway.GetPrice(ctx, contentID)

	f.mu.Lock()
	f.inFlight = false
	if f.generation != gen {
		// dialog was cancelled or reopened while the price was loading
		f.mu.Unlock()
		return nil
	}
	if err != nil {
		f.contentID = ""
		f.mu.Unlock()
		f.transition(FlowClosed)
		f.logger.WarnContext(ctx, "Price fetch failed", "content_id", contentID, "error", err)
		return err
	}
	f.price = price
	f.mu.Unlock()
	f.transition(FlowAwaiting)
	return nil
}

// Confirm submits the draft for generation. On success the flow settles in
// Succeeded and the draft is owned by the backend pipeline from here on. On
// failure the flow returns to AwaitingConfirmation with the error retained,
// so the same dialog supports retry.
func (f *GenerationFlow) Confirm(ctx context.Context) error {
	f.mu.Lock()
	if f.state != FlowAwaiting || f.price == nil {
		f.mu.Unlock()
		return ErrNotConfirmable
	}
	if f.inFlight {
		f.mu.Unlock()
		return ErrFlowBusy
	}
	gen := f.generation
	contentID := f.contentID
	f.inFlight = true
	f.lastErr = nil
	f.mu.Unlock()
	f.transition(FlowSubmitting)

	err := f.gateway.RequestGeneration(ctx, contentID)

	f.mu.Lock()
	f.inFlight = false
	if f.generation != gen {
		f.mu.Unlock()
		return nil
	}
	if err != nil {
		f.lastErr = err
		f.mu.Unlock()
		f.transition(FlowAwaiting)
		if apiErr, ok := gateway.AsAPIError(err); ok {
			f.logger.WarnContext(ctx, "Generation rejected",
				"content_id", contentID, "error_code", apiErr.ErrorCode, "message", apiErr.Message)
		} else {
			f.logger.WarnContext(ctx, "Generation request failed", "content_id", contentID, "error", err)
		}
		return err
	}
	f.mu.Unlock()
	f.transition(FlowSucceeded)
	f.logger.InfoContext(ctx, "Generation submitted", "content_id", contentID)
	return nil
}

// Cancel closes the dialog from any state. A response still in flight is
// dropped when it lands.
func (f *GenerationFlow) Cancel() {
	f.mu.Lock()
	f.generation++
	f.contentID = ""
	f.price = nil
	f.lastErr = nil
	f.inFlight = false
	f.mu.Unlock()
	f.transition(FlowClosed)
}

func (f *GenerationFlow) transition(next FlowState) {
	f.mu.Lock()
	f.state = next
	cb := f.OnStateChange
	f.mu.Unlock()
	if cb != nil {
		cb(next)
	}
}
