package main

import (
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pedrops164/ShortsCreator/domain/models"
)

// store is the in-memory content table behind the dev gateway. Good enough
// for exercising the client end to end; everything is lost on restart.
type store struct {
	mu      sync.RWMutex
	content map[string]*models.Content
}

func newStore() *store {
	return &store{content: make(map[string]*models.Content)}
}

func (s *store) list(statuses []models.ContentStatus) []models.Content {
	s.mu.RLock()
	defer s.mu.RUnlock()

	want := make(map[models.ContentStatus]bool, len(statuses))
	for _, st := range statuses {
		want[st] = true
	}

	out := make([]models.Content, 0, len(s.content))
	for _, c := range s.content {
		if len(want) > 0 && !want[c.Status] {
			continue
		}
		out = append(out, *c)
	}
	// newest first, like the real backend
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastModifiedAt.After(out[j].LastModifiedAt)
	})
	return out
}

func (s *store) get(id string) (*models.Content, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.content[id]
	if !ok {
		return nil, false
	}
	copy := *c
	return &copy, true
}

func (s *store) create(templateID string, params json.RawMessage) *models.Content {
	now := time.Now().UTC()
	c := &models.Content{
		ID:             uuid.NewString(),
		UserID:         devUserID,
		TemplateID:     templateID,
		Status:         models.StatusDraft,
		CreatedAt:      now,
		LastModifiedAt: now,
		RawParams:      params,
	}
	switch templateID {
	case models.TemplateRedditStory:
		c.ContentType = models.TypeRedditStory
	case models.TemplateCharacterExplains:
		c.ContentType = models.TypeCharacterExplains
	}

	s.mu.Lock()
	s.content[c.ID] = c
	s.mu.Unlock()
	return c
}

func (s *store) updateParams(id string, params json.RawMessage) (*models.Content, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.content[id]
	if !ok {
		return nil, false
	}
	c.RawParams = params
	c.Params = nil
	c.LastModifiedAt = time.Now().UTC()
	copy := *c
	return &copy, true
}

func (s *store) setStatus(id string, status models.ContentStatus, progress *float64) (*models.Content, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.content[id]
	if !ok {
		return nil, false
	}
	c.Status = status
	c.ProgressPercentage = progress
	c.LastModifiedAt = time.Now().UTC()
	if status == models.StatusCompleted {
		c.OutputAssets = &models.OutputAssets{
			VideoKey:     "videos/" + id + ".mp4",
			ThumbnailKey: "thumbnails/" + id + ".jpg",
		}
	}
	copy := *c
	return &copy, true
}

func (s *store) delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.content[id]; !ok {
		return false
	}
	delete(s.content, id)
	return true
}
