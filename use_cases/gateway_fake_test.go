package use_cases

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pedrops164/ShortsCreator/domain/models"
	"github.com/pedrops164/ShortsCreator/domain/ports"
)

// fakeGateway is an in-memory ports.ContentGateway for workflow tests. Any
// err* field short-circuits the matching call.
type fakeGateway struct {
	mu      sync.Mutex
	content map[string]*models.Content

	price    *models.PriceQuote
	errList  error
	errGet   error
	errSave  error
	errDel   error
	errPrice error
	errGen   error

	createCalls int
	updateCalls int
	genCalls    int

	// blockSave holds Save requests until released, for in-flight tests.
	blockSave chan struct{}
}

var _ ports.ContentGateway = (*fakeGateway)(nil)

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		content: make(map[string]*models.Content),
		price:   &models.PriceQuote{FinalPrice: 15, Currency: "USD"},
	}
}

func (f *fakeGateway) seed(items ...models.Content) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range items {
		c := items[i]
		f.content[c.ID] = &c
	}
}

func (f *fakeGateway) ListContent(ctx context.Context, statuses []models.ContentStatus) ([]models.Content, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.errList != nil {
		return nil, f.errList
	}
	want := make(map[models.ContentStatus]bool)
	for _, s := range statuses {
		want[s] = true
	}
	var out []models.Content
	for _, c := range f.content {
		if len(want) == 0 || want[c.Status] {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeGateway) GetContent(ctx context.Context, id string) (*models.Content, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.errGet != nil {
		return nil, f.errGet
	}
	c, ok := f.content[id]
	if !ok {
		return nil, errors.New("content not found")
	}
	copy := *c
	return &copy, nil
}

func (f *fakeGateway) CreateDraft(ctx context.Context, templateID string, params models.TemplateParams) (*models.Content, error) {
	if f.blockSave != nil {
		<-f.blockSave
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.errSave != nil {
		return nil, f.errSave
	}
	c := &models.Content{
		ID:             uuid.NewString(),
		TemplateID:     templateID,
		Status:         models.StatusDraft,
		CreatedAt:      time.Now(),
		LastModifiedAt: time.Now(),
		Params:         params.Clone(),
	}
	f.content[c.ID] = c
	copy := *c
	return &copy, nil
}

func (f *fakeGateway) UpdateDraft(ctx context.Context, id string, params models.TemplateParams) (*models.Content, error) {
	if f.blockSave != nil {
		<-f.blockSave
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	if f.errSave != nil {
		return nil, f.errSave
	}
	c := f.content[id]
	c.Params = params.Clone()
	c.LastModifiedAt = time.Now()
	copy := *c
	return &copy, nil
}

func (f *fakeGateway) DeleteContent(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.errDel != nil {
		return f.errDel
	}
	delete(f.content, id)
	return nil
}

func (f *fakeGateway) GetPrice(ctx context.Context, id string) (*models.PriceQuote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.errPrice != nil {
		return nil, f.errPrice
	}
	return f.price, nil
}

func (f *fakeGateway) RequestGeneration(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.genCalls++
	return f.errGen
}

func (f *fakeGateway) GetDownloadURL(ctx context.Context, id string) (string, error) {
	return "https://files.example.com/" + id + ".mp4", nil
}

func (f *fakeGateway) ListAssets(ctx context.Context, assetType models.AssetType) ([]models.Asset, error) {
	return nil, nil
}

func (f *fakeGateway) ListCharacterPresets(ctx context.Context) ([]models.CharacterPreset, error) {
	return nil, nil
}

func (f *fakeGateway) GenerateText(ctx context.Context, req models.GenerateTextRequest) (*models.GeneratedContent, error) {
	out := &models.GeneratedContent{GenerationType: req.GenerationType}
	out.Content.Text = "generated"
	return out, nil
}
