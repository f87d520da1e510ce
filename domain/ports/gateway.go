package ports

import (
	"context"

	"github.com/pedrops164/ShortsCreator/domain/models"
)

// ContentGateway is the full REST surface of the authenticated API gateway.
// Implementations must surface the three-way error taxonomy: auth errors,
// structured API errors (errorCode + message preserved verbatim) and plain
// transport errors.
type ContentGateway interface {
	// ListContent ดึง content ที่ status ตรงกับ filter (comma-joined ฝั่ง wire)
	ListContent(ctx context.Context, statuses []models.ContentStatus) ([]models.Content, error)
	GetContent(ctx context.Context, id string) (*models.Content, error)

	// CreateDraft is used exactly once per logical draft; absence of an id is
	// the sole discriminant between create and update.
	CreateDraft(ctx context.Context, templateID string, params models.TemplateParams) (*models.Content, error)
	UpdateDraft(ctx context.Context, id string, params models.TemplateParams) (*models.Content, error)
	DeleteContent(ctx context.Context, id string) error

	GetPrice(ctx context.Context, id string) (*models.PriceQuote, error)
	RequestGeneration(ctx context.Context, id string) error
	GetDownloadURL(ctx context.Context, id string) (string, error)

	ListAssets(ctx context.Context, assetType models.AssetType) ([]models.Asset, error)
	ListCharacterPresets(ctx context.Context) ([]models.CharacterPreset, error)

	// GenerateText - AI assist; billable ฝั่ง backend
	GenerateText(ctx context.Context, req models.GenerateTextRequest) (*models.GeneratedContent, error)
}
