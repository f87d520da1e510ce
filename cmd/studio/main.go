// Command studio is a terminal client over the studio core: list your
// content, watch generation progress live, and download finished videos.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gosimple/slug"

	"github.com/pedrops164/ShortsCreator/config"
	"github.com/pedrops164/ShortsCreator/container"
	"github.com/pedrops164/ShortsCreator/domain/models"
	"github.com/pedrops164/ShortsCreator/pkg/logger"
	"github.com/pedrops164/ShortsCreator/pricing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	if err := logger.Init(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		FilePath:   cfg.Log.File,
		MaxSize:    cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAgeDays,
		Compress:   true,
	}); err != nil {
		fmt.Fprintln(os.Stderr, "failed to init logger:", err)
		os.Exit(1)
	}

	c, err := container.NewContainer(cfg)
	if err != nil {
		slog.Error("Failed to create container", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		slog.Info("Received shutdown signal", "signal", sig)
		cancel()
	}()

	args := os.Args[1:]
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	var runErr error
	switch args[0] {
	case "list":
		runErr = runList(ctx, c, args[1:])
	case "watch":
		runErr = runWatch(ctx, c)
	case "download":
		if len(args) < 2 {
			usage()
			os.Exit(2)
		}
		runErr = runDownload(ctx, c, args[1])
	default:
		usage()
		os.Exit(2)
	}
	if runErr != nil && ctx.Err() == nil {
		slog.Error("Command failed", "error", runErr)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage:
  studio list [status...]   list content (statuses: DRAFT PROCESSING COMPLETED FAILED)
  studio watch              follow generation progress live
  studio download <id>      download a completed video`)
}

// runList prints one page at a time over the full fetched set.
func runList(ctx context.Context, c *container.Container, args []string) error {
	var statuses []models.ContentStatus
	for _, a := range args {
		statuses = append(statuses, models.ContentStatus(strings.ToUpper(a)))
	}
	c.List.SetStatuses(statuses)

	if err := c.List.Refresh(ctx); err != nil {
		return err
	}

	for page := 1; page <= c.List.TotalPages(); page++ {
		c.List.SetPage(page)
		for _, item := range c.List.Page() {
			line := fmt.Sprintf("%-36s  %-11s  %s", item.ID, item.Status, item.Title())
			if p, ok := c.List.Progress(item.ID); ok {
				line += fmt.Sprintf("  (%.0f%%)", p)
			}
			fmt.Println(line)
		}
	}
	fmt.Printf("%d item(s)\n", len(c.List.Items()))
	return nil
}

// runWatch attaches to the notification stream and prints updates until
// interrupted.
func runWatch(ctx context.Context, c *container.Container) error {
	if err := c.Start(ctx); err != nil {
		return err
	}
	defer c.Stop()

	c.Notifications.OnVideoStatus(func(u models.VideoStatusUpdate) {
		line := fmt.Sprintf("%s -> %s", u.ContentID, u.Status)
		if u.ProgressPercentage != nil {
			line += fmt.Sprintf(" (%.0f%%)", *u.ProgressPercentage)
		}
		fmt.Println(line)
	})
	c.Notifications.OnPaymentStatus(func(u models.PaymentStatusUpdate) {
		fmt.Printf("payment %s: %s %s\n", u.TransactionID, u.Status, pricing.FormatCents(u.AmountPaid, "USD"))
	})

	if err := c.List.Refresh(ctx); err != nil {
		slog.Warn("Initial list refresh failed", "error", err)
	}

	fmt.Println("watching... (ctrl-c to stop)")
	<-ctx.Done()
	return nil
}

// runDownload resolves the pre-signed URL and streams it to a file named
// after the content's title.
func runDownload(ctx context.Context, c *container.Container, id string) error {
	record, err := c.Gateway.GetContent(ctx, id)
	if err != nil {
		return err
	}
	if record.Status != models.StatusCompleted {
		return fmt.Errorf("content %s is %s, only COMPLETED videos can be downloaded", id, record.Status)
	}

	url, err := c.Gateway.GetDownloadURL(ctx, id)
	if err != nil {
		return err
	}

	filename := slug.Make(record.Title()) + ".mp4"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed: %d", resp.StatusCode)
	}

	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	n, err := io.Copy(f, resp.Body)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	fmt.Printf("saved %s (%d bytes)\n", filename, n)
	return nil
}
