package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// ContentStatus - สถานะของ content ฝั่ง backend
type ContentStatus string

const (
	StatusDraft      ContentStatus = "DRAFT"
	StatusProcessing ContentStatus = "PROCESSING"
	StatusCompleted  ContentStatus = "COMPLETED"
	StatusFailed     ContentStatus = "FAILED"
)

// Terminal reports whether no further status changes are expected.
func (s ContentStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

type ContentType string

const (
	TypeRedditStory       ContentType = "REDDIT_STORY"
	TypeCharacterExplains ContentType = "CHARACTER_EXPLAINS"
)

// Template ids ที่ client รู้จัก (ตรงกับ editor registry)
const (
	TemplateRedditStory       = "reddit_story_v1"
	TemplateCharacterExplains = "character_explains_v1"
)

// OutputAssets - ผลลัพธ์ของ generation ที่เสร็จแล้ว (opaque ต่อ editor)
type OutputAssets struct {
	VideoKey     string `json:"videoKey,omitempty"`
	ThumbnailKey string `json:"thumbnailKey,omitempty"`
}

// Content is one draft / generated video record as held by the backend.
// TemplateParams is decoded into the typed struct selected by TemplateId;
// for template ids this client does not know, Params stays nil and the raw
// payload is preserved in RawParams so updates never lose data.
type Content struct {
	ID                 string        `json:"id"`
	UserID             string        `json:"userId,omitempty"`
	TemplateID         string        `json:"templateId"`
	ContentType        ContentType   `json:"contentType,omitempty"`
	Status             ContentStatus `json:"status"`
	ProgressPercentage *float64      `json:"progressPercentage,omitempty"`
	CreatedAt          time.Time     `json:"createdAt"`
	LastModifiedAt     time.Time     `json:"lastModifiedAt"`
	OutputAssets       *OutputAssets `json:"outputAssets,omitempty"`
	ErrorMessage       string        `json:"errorMessage,omitempty"`

	Params    TemplateParams  `json:"-"`
	RawParams json.RawMessage `json:"-"`
}

// contentJSON mirrors Content on the wire with templateParams left raw.
type contentJSON struct {
	ID                 string          `json:"id"`
	UserID             string          `json:"userId,omitempty"`
	TemplateID         string          `json:"templateId"`
	ContentType        ContentType     `json:"contentType,omitempty"`
	Status             ContentStatus   `json:"status"`
	ProgressPercentage *float64        `json:"progressPercentage,omitempty"`
	CreatedAt          time.Time       `json:"createdAt"`
	LastModifiedAt     time.Time       `json:"lastModifiedAt"`
	OutputAssets       *OutputAssets   `json:"outputAssets,omitempty"`
	ErrorMessage       string          `json:"errorMessage,omitempty"`
	TemplateParams     json.RawMessage `json:"templateParams,omitempty"`
}

func (c *Content) UnmarshalJSON(data []byte) error {
	var w contentJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	c.ID = w.ID
	c.UserID = w.UserID
	c.TemplateID = w.TemplateID
	c.ContentType = w.ContentType
	c.Status = w.Status
	c.ProgressPercentage = w.ProgressPercentage
	c.CreatedAt = w.CreatedAt
	c.LastModifiedAt = w.LastModifiedAt
	c.OutputAssets = w.OutputAssets
	c.ErrorMessage = w.ErrorMessage
	c.RawParams = w.TemplateParams
	c.Params = nil

	if len(w.TemplateParams) == 0 {
		return nil
	}
	params := NewParamsForTemplate(w.TemplateID)
	if params == nil {
		// Unknown template: keep raw payload, list pages can still render it.
		return nil
	}
	if err := json.Unmarshal(w.TemplateParams, params); err != nil {
		return fmt.Errorf("decode %s params: %w", w.TemplateID, err)
	}
	c.Params = params
	return nil
}

func (c Content) MarshalJSON() ([]byte, error) {
	w := contentJSON{
		ID:                 c.ID,
		UserID:             c.UserID,
		TemplateID:         c.TemplateID,
		ContentType:        c.ContentType,
		Status:             c.Status,
		ProgressPercentage: c.ProgressPercentage,
		CreatedAt:          c.CreatedAt,
		LastModifiedAt:     c.LastModifiedAt,
		OutputAssets:       c.OutputAssets,
		ErrorMessage:       c.ErrorMessage,
	}
	if c.Params != nil {
		raw, err := json.Marshal(c.Params)
		if err != nil {
			return nil, err
		}
		w.TemplateParams = raw
	} else {
		w.TemplateParams = c.RawParams
	}
	return json.Marshal(w)
}

// Title derives the display title the same way the content pages do.
func (c *Content) Title() string {
	switch p := c.Params.(type) {
	case *RedditStoryParams:
		if p.PostTitle != "" {
			return p.PostTitle
		}
		return "Untitled Reddit Story"
	case *CharacterExplainsParams:
		if p.TopicTitle != "" {
			return p.TopicTitle
		}
		return "Untitled Character Explains"
	default:
		return "Untitled"
	}
}

// ContentCreationRequest - payload ของ POST /content/drafts
type ContentCreationRequest struct {
	TemplateID     string         `json:"templateId"`
	TemplateParams TemplateParams `json:"templateParams"`
}
