// Command mockgateway is an in-memory stand-in for the studio backend:
// the full draft REST surface plus the SSE notification stream, with a
// simulated generation pipeline so client work needs no real infrastructure.
package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/valyala/fasthttp"

	"github.com/pedrops164/ShortsCreator/domain/models"
	"github.com/pedrops164/ShortsCreator/pkg/logger"
	"github.com/pedrops164/ShortsCreator/pricing"
	"github.com/pedrops164/ShortsCreator/templates"
)

const devUserID = "dev-user"

var jwtSecret = []byte(getEnv("MOCK_JWT_SECRET", "dev-secret"))

type server struct {
	store *store
	hub   *hub
}

func main() {
	if err := logger.Init(logger.Config{Level: getEnv("LOG_LEVEL", "info"), Format: "text"}); err != nil {
		fmt.Fprintln(os.Stderr, "failed to init logger:", err)
		os.Exit(1)
	}

	s := &server{store: newStore(), hub: newHub()}

	app := fiber.New(fiber.Config{
		AppName:      "mock-gateway",
		ErrorHandler: errorHandler,
	})

	api := app.Group("/api/v1")
	api.Post("/auth/login", s.handleLogin)

	authed := api.Use(s.requireAuth)
	authed.Get("/content", s.handleListContent)
	authed.Post("/content/drafts", s.handleCreateDraft)
	authed.Get("/content/:id", s.handleGetContent)
	authed.Put("/content/:id", s.handleUpdateDraft)
	authed.Delete("/content/:id", s.handleDeleteContent)
	authed.Get("/content/:id/price", s.handleGetPrice)
	authed.Post("/content/:id/generate", s.handleGenerate)
	authed.Get("/content/:id/download-url", s.handleDownloadURL)
	authed.Get("/assets", s.handleListAssets)
	authed.Get("/presets/characters", s.handleListPresets)
	authed.Post("/generate/text", s.handleGenerateText)
	authed.Get("/notifications", s.handleNotifications)

	addr := getEnv("MOCK_GATEWAY_ADDR", ":8080")
	slog.Info("Mock gateway listening", "addr", addr)
	if err := app.Listen(addr); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"errorCode": "INTERNAL_ERROR",
		"message":   err.Error(),
	})
}

// --- auth ---

func (s *server) handleLogin(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil || req.Email == "" {
		return apiError(c, fiber.StatusBadRequest, "INVALID_CREDENTIALS", "email and password are required")
	}

	exp := time.Now().Add(24 * time.Hour)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   devUserID,
		"email": req.Email,
		"exp":   exp.Unix(),
	})
	signed, err := token.SignedString(jwtSecret)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"token": signed, "expiresAt": exp.Unix()})
}

func (s *server) requireAuth(c *fiber.Ctx) error {
	header := c.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return apiError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token")
	}
	raw := strings.TrimPrefix(header, "Bearer ")
	_, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return jwtSecret, nil
	})
	if err != nil {
		return apiError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "invalid token")
	}
	return c.Next()
}

// --- content ---

func (s *server) handleListContent(c *fiber.Ctx) error {
	var statuses []models.ContentStatus
	if q := c.Query("statuses"); q != "" {
		for _, part := range strings.Split(q, ",") {
			statuses = append(statuses, models.ContentStatus(part))
		}
	}
	return c.JSON(s.store.list(statuses))
}

func (s *server) handleGetContent(c *fiber.Ctx) error {
	content, ok := s.store.get(c.Params("id"))
	if !ok {
		return apiError(c, fiber.StatusNotFound, "CONTENT_NOT_FOUND", "content not found")
	}
	return c.JSON(content)
}

func (s *server) handleCreateDraft(c *fiber.Ctx) error {
	var req struct {
		TemplateID     string          `json:"templateId"`
		TemplateParams json.RawMessage `json:"templateParams"`
	}
	if err := c.BodyParser(&req); err != nil {
		return apiError(c, fiber.StatusBadRequest, "INVALID_REQUEST", "malformed body")
	}
	if _, ok := templates.ByID(req.TemplateID); !ok {
		return apiError(c, fiber.StatusBadRequest, "UNKNOWN_TEMPLATE", "unknown template id: "+req.TemplateID)
	}
	if msg, ok := validateRawParams(req.TemplateID, req.TemplateParams); !ok {
		return apiError(c, fiber.StatusBadRequest, "VALIDATION_FAILED", msg)
	}
	content := s.store.create(req.TemplateID, req.TemplateParams)
	slog.Info("Draft created", "content_id", content.ID, "template", req.TemplateID)
	return c.Status(fiber.StatusCreated).JSON(content)
}

func (s *server) handleUpdateDraft(c *fiber.Ctx) error {
	id := c.Params("id")
	existing, ok := s.store.get(id)
	if !ok {
		return apiError(c, fiber.StatusNotFound, "CONTENT_NOT_FOUND", "content not found")
	}
	if existing.Status != models.StatusDraft {
		return apiError(c, fiber.StatusConflict, "CONTENT_NOT_EDITABLE",
			fmt.Sprintf("content in status %s cannot be edited", existing.Status))
	}

	params := c.Body()
	if msg, ok := validateRawParams(existing.TemplateID, params); !ok {
		return apiError(c, fiber.StatusBadRequest, "VALIDATION_FAILED", msg)
	}
	updated, _ := s.store.updateParams(id, append([]byte(nil), params...))
	return c.JSON(updated)
}

func (s *server) handleDeleteContent(c *fiber.Ctx) error {
	if !s.store.delete(c.Params("id")) {
		return apiError(c, fiber.StatusNotFound, "CONTENT_NOT_FOUND", "content not found")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *server) handleGetPrice(c *fiber.Ctx) error {
	content, ok := s.store.get(c.Params("id"))
	if !ok {
		return apiError(c, fiber.StatusNotFound, "CONTENT_NOT_FOUND", "content not found")
	}
	params := models.NewParamsForTemplate(content.TemplateID)
	if params == nil || len(content.RawParams) == 0 {
		return apiError(c, fiber.StatusBadRequest, "PRICE_UNAVAILABLE", "draft has no priceable params")
	}
	if err := json.Unmarshal(content.RawParams, params); err != nil {
		return apiError(c, fiber.StatusBadRequest, "PRICE_UNAVAILABLE", "draft params are unreadable")
	}
	return c.JSON(models.PriceQuote{
		FinalPrice: pricing.EstimateForParams(params),
		Currency:   "USD",
	})
}

func (s *server) handleGenerate(c *fiber.Ctx) error {
	id := c.Params("id")
	content, ok := s.store.get(id)
	if !ok {
		return apiError(c, fiber.StatusNotFound, "CONTENT_NOT_FOUND", "content not found")
	}
	if content.Status != models.StatusDraft {
		return apiError(c, fiber.StatusConflict, "ALREADY_PROCESSING",
			fmt.Sprintf("content is already %s", content.Status))
	}

	go s.simulateGeneration(id)
	return c.SendStatus(fiber.StatusAccepted)
}

// simulateGeneration walks a draft through the processing pipeline, pushing
// the same notification sequence the real backend does.
func (s *server) simulateGeneration(id string) {
	steps := []float64{0, 25, 50, 75}
	for _, p := range steps {
		progress := p
		if _, ok := s.store.setStatus(id, models.StatusProcessing, &progress); !ok {
			return // deleted mid-flight
		}
		s.pushVideoStatus(id, models.StatusProcessing, &progress)
		time.Sleep(2 * time.Second)
	}

	if _, ok := s.store.setStatus(id, models.StatusCompleted, nil); !ok {
		return
	}
	s.pushVideoStatus(id, models.StatusCompleted, nil)

	s.hub.broadcast(models.EventPaymentStatusUpdate, models.PaymentStatusUpdate{
		UserID:        devUserID,
		TransactionID: "txn-" + id,
		AmountPaid:    7,
		Status:        models.TransactionCompleted,
	})
	slog.Info("Simulated generation complete", "content_id", id)
}

func (s *server) pushVideoStatus(id string, status models.ContentStatus, progress *float64) {
	now := time.Now().UTC()
	s.hub.broadcast(models.EventVideoStatusUpdate, models.VideoStatusUpdate{
		UserID:             devUserID,
		ContentID:          id,
		Status:             status,
		ProgressPercentage: progress,
		OccurredAt:         &now,
	})
}

func (s *server) handleDownloadURL(c *fiber.Ctx) error {
	content, ok := s.store.get(c.Params("id"))
	if !ok {
		return apiError(c, fiber.StatusNotFound, "CONTENT_NOT_FOUND", "content not found")
	}
	if content.Status != models.StatusCompleted || content.OutputAssets == nil {
		return apiError(c, fiber.StatusConflict, "VIDEO_NOT_READY", "video is not ready for download")
	}
	url := fmt.Sprintf("%s/files/%s?expires=%d",
		c.BaseURL(), content.OutputAssets.VideoKey, time.Now().Add(15*time.Minute).Unix())
	return c.JSON(fiber.Map{"url": url})
}

// --- catalog ---

func (s *server) handleListAssets(c *fiber.Ctx) error {
	assetType := models.AssetType(c.Query("type"))
	var out []models.Asset
	switch assetType {
	case models.AssetVideo:
		for _, id := range templates.KnownBackgroundVideos {
			out = append(out, models.Asset{ID: id, AssetID: id, Type: models.AssetVideo, Name: id})
		}
	case models.AssetVoice:
		for _, id := range templates.KnownVoices {
			out = append(out, models.Asset{ID: id, AssetID: id, Type: models.AssetVoice, Name: id})
		}
	default:
		return apiError(c, fiber.StatusBadRequest, "UNKNOWN_ASSET_TYPE", "unknown asset type: "+string(assetType))
	}
	return c.JSON(out)
}

func (s *server) handleListPresets(c *fiber.Ctx) error {
	return c.JSON(templates.DefaultPresets())
}

func (s *server) handleGenerateText(c *fiber.Ctx) error {
	var req models.GenerateTextRequest
	if err := c.BodyParser(&req); err != nil {
		return apiError(c, fiber.StatusBadRequest, "INVALID_REQUEST", "malformed body")
	}

	out := models.GeneratedContent{GenerationType: req.GenerationType}
	switch req.GenerationType {
	case models.GenerateRedditPostDescription:
		out.Content.Text = "So this happened to me last week and I still can't believe it..."
	case models.GenerateRedditComment:
		out.Content.Comments = []string{"NTA, you did the right thing.", "This is wild, updateme!"}
	case models.GenerateCharacterDialogue:
		out.Content.Dialogue = []models.GeneratedDialogueLine{
			{Character: "peter", Line: "Okay so basically it works like this."},
			{Character: "stewie", Line: "That is the worst explanation I have ever heard."},
		}
	default:
		return apiError(c, fiber.StatusBadRequest, "UNKNOWN_GENERATION_TYPE",
			"unknown generation type: "+string(req.GenerationType))
	}
	return c.JSON(out)
}

// --- notifications ---

func (s *server) handleNotifications(c *fiber.Ctx) error {
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	ch := s.hub.subscribe()

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer s.hub.unsubscribe(ch)

		fmt.Fprintf(w, "event: %s\ndata: {\"userId\":%q}\n\n", models.EventConnected, devUserID)
		if err := w.Flush(); err != nil {
			return
		}

		keepalive := time.NewTicker(25 * time.Second)
		defer keepalive.Stop()

		for {
			select {
			case ev := <-ch:
				fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.name, ev.data)
			case <-keepalive.C:
				fmt.Fprint(w, ": keepalive\n\n")
			}
			if err := w.Flush(); err != nil {
				// client went away
				return
			}
		}
	}))
	return nil
}

// --- helpers ---

func apiError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"errorCode": code,
		"message":   message,
	})
}

// validateRawParams decodes into the typed params and runs the shared
// validator, returning the first failure message.
func validateRawParams(templateID string, raw json.RawMessage) (string, bool) {
	params := models.NewParamsForTemplate(templateID)
	if params == nil {
		return "", true // unknown templates are stored as-is
	}
	if len(raw) == 0 {
		return "missing templateParams", false
	}
	if err := json.Unmarshal(raw, params); err != nil {
		return "malformed templateParams", false
	}
	if errs := templates.Validate(params); len(errs) > 0 {
		for field, msg := range errs {
			return field + ": " + msg, false
		}
	}
	return "", true
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
