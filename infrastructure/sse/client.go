// Package sse connects to the gateway's server-sent-event endpoint and
// fans incoming notifications out to registered handlers.
package sse

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pedrops164/ShortsCreator/domain/models"
	"github.com/pedrops164/ShortsCreator/domain/ports"
)

const defaultRetryDelay = 3 * time.Second

// Stream implements ports.NotificationSource over a single long-lived GET
// with automatic reconnect. Handlers run on the stream goroutine; keep them
// fast and dispatch to your own loop if needed.
type Stream struct {
	url        string
	tokens     ports.TokenSource
	httpClient *http.Client
	logger     *slog.Logger

	running    atomic.Bool
	cancel     context.CancelFunc
	done       chan struct{}
	retryDelay time.Duration

	mu              sync.RWMutex
	connected       bool
	videoHandlers   []func(models.VideoStatusUpdate)
	paymentHandlers []func(models.PaymentStatusUpdate)
	lastVideo       *models.VideoStatusUpdate
	lastPayment     *models.PaymentStatusUpdate
}

var _ ports.NotificationSource = (*Stream)(nil)

func NewStream(url string, tokens ports.TokenSource) *Stream {
	return &Stream{
		url:    url,
		tokens: tokens,
		httpClient: &http.Client{
			// No overall timeout: the stream stays open indefinitely.
			Timeout: 0,
		},
		logger:     slog.Default().With("component", "sse_stream"),
		retryDelay: defaultRetryDelay,
	}
}

// SetRetryDelay overrides the reconnect delay; a server retry: directive
// still takes precedence once seen. No effect after Start.
func (s *Stream) SetRetryDelay(d time.Duration) {
	if d > 0 {
		s.retryDelay = d
	}
}

// Start opens the stream in the background. Calling Start on a running
// stream is a no-op.
func (s *Stream) Start(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return nil
	}
	if !s.tokens.Authenticated() {
		s.running.Store(false)
		return fmt.Errorf("cannot open notification stream: not authenticated")
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.run(runCtx)
	return nil
}

// Stop closes the stream and waits for the reader goroutine to exit.
func (s *Stream) Stop() {
	if !s.running.CompareAndSwap(true, false) {
		return
	}
	s.cancel()
	<-s.done
}

func (s *Stream) Connected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected
}

func (s *Stream) OnVideoStatus(fn func(models.VideoStatusUpdate)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.videoHandlers = append(s.videoHandlers, fn)
}

func (s *Stream) OnPaymentStatus(fn func(models.PaymentStatusUpdate)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paymentHandlers = append(s.paymentHandlers, fn)
}

// LatestVideoStatus returns the most recent video update seen on this
// connection, so late subscribers can catch up.
func (s *Stream) LatestVideoStatus() (models.VideoStatusUpdate, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastVideo == nil {
		return models.VideoStatusUpdate{}, false
	}
	return *s.lastVideo, true
}

func (s *Stream) LatestPaymentStatus() (models.PaymentStatusUpdate, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastPayment == nil {
		return models.PaymentStatusUpdate{}, false
	}
	return *s.lastPayment, true
}

func (s *Stream) run(ctx context.Context) {
	defer close(s.done)

	for {
		if err := s.connectOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			s.logger.WarnContext(ctx, "Notification stream disconnected", "error", err)
		}
		s.setConnected(false)

		select {
		case <-ctx.Done():
			return
		case <-time.After(s.retryDelay):
		}
	}
}

func (s *Stream) connectOnce(ctx context.Context) error {
	token, err := s.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("failed to get token: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("stream request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		s.tokens.Invalidate()
		return fmt.Errorf("stream rejected: %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("stream rejected: %d", resp.StatusCode)
	}

	s.logger.InfoContext(ctx, "Notification stream open", "url", s.url)
	return s.readEvents(ctx, resp.Body)
}

// readEvents parses the text/event-stream framing: accumulate event/data
// fields until a blank line, then dispatch.
func (s *Stream) readEvents(ctx context.Context, body io.Reader) error {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var eventName string
	var data strings.Builder

	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case line == "":
			if data.Len() > 0 || eventName != "" {
				s.dispatch(ctx, eventName, data.String())
			}
			eventName = ""
			data.Reset()
		case strings.HasPrefix(line, ":"):
			// keep-alive comment
		case strings.HasPrefix(line, "event:"):
			eventName = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			if data.Len() > 0 {
				data.WriteByte('\n')
			}
			data.WriteString(strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		case strings.HasPrefix(line, "retry:"):
			if ms, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "retry:"))); err == nil && ms > 0 {
				s.retryDelay = time.Duration(ms) * time.Millisecond
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("stream read failed: %w", err)
	}
	return io.EOF
}

func (s *Stream) dispatch(ctx context.Context, event, data string) {
	switch event {
	case models.EventConnected:
		s.setConnected(true)
		s.logger.InfoContext(ctx, "Notification stream confirmed", "payload", data)

	case models.EventVideoStatusUpdate:
		var update models.VideoStatusUpdate
		if err := json.Unmarshal([]byte(data), &update); err != nil {
			s.logger.WarnContext(ctx, "Dropping malformed video status event", "error", err)
			return
		}
		s.mu.Lock()
		s.lastVideo = &update
		handlers := make([]func(models.VideoStatusUpdate), len(s.videoHandlers))
		copy(handlers, s.videoHandlers)
		s.mu.Unlock()
		for _, fn := range handlers {
			fn(update)
		}

	case models.EventPaymentStatusUpdate:
		var update models.PaymentStatusUpdate
		if err := json.Unmarshal([]byte(data), &update); err != nil {
			s.logger.WarnContext(ctx, "Dropping malformed payment status event", "error", err)
			return
		}
		s.mu.Lock()
		s.lastPayment = &update
		handlers := make([]func(models.PaymentStatusUpdate), len(s.paymentHandlers))
		copy(handlers, s.paymentHandlers)
		s.mu.Unlock()
		for _, fn := range handlers {
			fn(update)
		}

	default:
		s.logger.DebugContext(ctx, "Ignoring unknown event", "event", event)
	}
}

func (s *Stream) setConnected(v bool) {
	s.mu.Lock()
	s.connected = v
	s.mu.Unlock()
}
