package container

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pedrops164/ShortsCreator/config"
	"github.com/pedrops164/ShortsCreator/domain/ports"
	"github.com/pedrops164/ShortsCreator/infrastructure/auth"
	"github.com/pedrops164/ShortsCreator/infrastructure/gateway"
	"github.com/pedrops164/ShortsCreator/infrastructure/sse"
	"github.com/pedrops164/ShortsCreator/use_cases"
)

// Container - Dependency Injection Container
type Container struct {
	Config *config.Config

	// Ports (Interfaces)
	Tokens        ports.TokenSource
	Gateway       ports.ContentGateway
	Notifications ports.NotificationSource

	// Use Cases
	Drafts *use_cases.DraftWorkflow
	Flow   *use_cases.GenerationFlow
	List   *use_cases.ContentList

	stream *sse.Stream
	logger *slog.Logger
}

func NewContainer(cfg *config.Config) (*Container, error) {
	c := &Container{
		Config: cfg,
		logger: slog.Default().With("component", "container"),
	}

	// ─────────────────────────────────────────────────────────────────────
	// 1. Infrastructure Layer
	// ─────────────────────────────────────────────────────────────────────

	// Token source: direct token wins, otherwise email/password login
	switch {
	case cfg.Auth.Token != "":
		c.Tokens = auth.NewStaticTokenSource(cfg.Auth.Token)
		c.logger.Info("Using static token")
	case cfg.Auth.Email != "" && cfg.Auth.Password != "":
		c.Tokens = auth.NewPasswordTokenSource(cfg.Auth.LoginURL, cfg.Auth.Email, cfg.Auth.Password)
		c.logger.Info("Using password login", "login_url", cfg.Auth.LoginURL)
	default:
		return nil, fmt.Errorf("no credentials configured: set AUTH_TOKEN or AUTH_EMAIL/AUTH_PASSWORD")
	}

	// Gateway client
	gw := gateway.NewClient(cfg.Gateway.URL, c.Tokens)
	gw.SetTimeout(cfg.Gateway.Timeout)
	c.Gateway = gw
	c.logger.Info("Gateway client created", "url", cfg.Gateway.URL)

	// Notification stream
	c.stream = sse.NewStream(cfg.Stream.URL, c.Tokens)
	c.stream.SetRetryDelay(cfg.Stream.RetryDelay)
	c.Notifications = c.stream
	c.logger.Info("Notification stream created", "url", cfg.Stream.URL)

	// ─────────────────────────────────────────────────────────────────────
	// 2. Use Cases Layer
	// ─────────────────────────────────────────────────────────────────────

	c.Drafts = use_cases.NewDraftWorkflow(c.Gateway)
	c.Flow = use_cases.NewGenerationFlow(c.Gateway)
	c.List = use_cases.NewContentList(c.Gateway, nil)
	if cfg.List.PageSize > 0 {
		c.List.SetPageSize(cfg.List.PageSize)
	}
	c.List.Attach(c.Notifications)

	c.logger.Info("Container initialized successfully")
	return c, nil
}

// Start เปิด notification stream (ต้อง login ได้ก่อน)
func (c *Container) Start(ctx context.Context) error {
	c.logger.Info("Starting container services...")

	// Prime the token source so Authenticated() holds before connecting
	if _, err := c.Tokens.Token(ctx); err != nil {
		return fmt.Errorf("failed to authenticate: %w", err)
	}
	if err := c.stream.Start(ctx); err != nil {
		return fmt.Errorf("failed to start notification stream: %w", err)
	}
	return nil
}

// Stop หยุด services ทั้งหมด (graceful shutdown)
func (c *Container) Stop() {
	c.logger.Info("Stopping container services...")
	c.stream.Stop()
	c.logger.Info("Notification stream stopped")
}
