package models

import "unicode/utf8"

// TemplateParams is the user-editable payload of one draft. Each template id
// maps to exactly one concrete type; that binding is fixed at creation time.
type TemplateParams interface {
	// TemplateID คืน template id ที่ params ชุดนี้สังกัด
	TemplateID() string
	// NarrationLength is the total rune count of all narrated text, the
	// input to the approximate price estimate.
	NarrationLength() int
	// Clone returns a deep copy, so a working copy never aliases the
	// persisted snapshot.
	Clone() TemplateParams
}

// NewParamsForTemplate returns a zero params struct for a known template id,
// or nil. The template set is a compile-time registry, like the frontend's
// editor map.
func NewParamsForTemplate(templateID string) TemplateParams {
	switch templateID {
	case TemplateRedditStory:
		return &RedditStoryParams{}
	case TemplateCharacterExplains:
		return &CharacterExplainsParams{}
	default:
		return nil
	}
}

// SubtitlePosition - ตำแหน่ง subtitle บนวิดีโอ
type SubtitlePosition string

const (
	SubtitleTop    SubtitlePosition = "top"
	SubtitleCenter SubtitlePosition = "center"
	SubtitleBottom SubtitlePosition = "bottom"
)

// SubtitleOptions - font/color มีผลเฉพาะเมื่อ Show เป็น true; ค่าที่ค้างอยู่
// ตอนซ่อน subtitle จะไม่ถูกตรวจ (ตรวจใน templates.ValidateWithPresets)
type SubtitleOptions struct {
	Show     bool             `json:"show"`
	Color    string           `json:"color"`
	Font     string           `json:"font"`
	Position SubtitlePosition `json:"position" validate:"omitempty,oneof=top center bottom"`
}

// RedditComment - คอมเมนต์ที่จะถูกอ่านต่อจากโพสต์หลัก
type RedditComment struct {
	Author string `json:"author,omitempty"`
	Text   string `json:"text" validate:"required"`
}

// DialogueLine - หนึ่ง turn ของบทสนทนา; CharacterID ต้องอยู่ใน preset ที่เลือก
type DialogueLine struct {
	CharacterID string `json:"characterId" validate:"required"`
	Text        string `json:"text" validate:"required"`
}

// RedditStoryParams - templateParams ของ reddit_story_v1
type RedditStoryParams struct {
	Username        string          `json:"username" validate:"required_trimmed,min=3"`
	Subreddit       string          `json:"subreddit" validate:"required_trimmed"`
	PostTitle       string          `json:"postTitle" validate:"required_trimmed,min=5"`
	PostDescription string          `json:"postDescription" validate:"required_trimmed,min=10"`
	Comments        []RedditComment `json:"comments" validate:"dive"`
	BackgroundVideoID string        `json:"backgroundVideoId" validate:"required"`
	BackgroundMusicID string        `json:"backgroundMusicId"`
	AvatarImageURL    string        `json:"avatarImageUrl,omitempty"`
	AspectRatio       string        `json:"aspectRatio,omitempty"`
	Subtitles         SubtitleOptions `json:"subtitles"`
	VoiceSelection    string          `json:"voiceSelection" validate:"required"`
	Theme             string          `json:"theme" validate:"omitempty,oneof=dark light"`
}

func (p *RedditStoryParams) TemplateID() string { return TemplateRedditStory }

// NarrationLength นับตัวอักษรของ title + description + ทุกคอมเมนต์
func (p *RedditStoryParams) NarrationLength() int {
	n := utf8.RuneCountInString(p.PostTitle) + utf8.RuneCountInString(p.PostDescription)
	for _, c := range p.Comments {
		n += utf8.RuneCountInString(c.Text)
	}
	return n
}

func (p *RedditStoryParams) Clone() TemplateParams {
	cp := *p
	// keep nil-ness so structural comparison against a snapshot holds
	if p.Comments != nil {
		cp.Comments = make([]RedditComment, len(p.Comments))
		copy(cp.Comments, p.Comments)
	}
	return &cp
}

// CharacterExplainsParams - templateParams ของ character_explains_v1
type CharacterExplainsParams struct {
	CharacterPresetID string          `json:"characterPresetId" validate:"required"`
	TopicTitle        string          `json:"topicTitle" validate:"required_trimmed,min=3"`
	Dialogue          []DialogueLine  `json:"dialogue" validate:"min=1,dive"`
	BackgroundVideoID string          `json:"backgroundVideoId" validate:"required"`
	BackgroundMusicID string          `json:"backgroundMusicId,omitempty"`
	AspectRatio       string          `json:"aspectRatio,omitempty"`
	Subtitles         SubtitleOptions `json:"subtitles"`
}

func (p *CharacterExplainsParams) TemplateID() string { return TemplateCharacterExplains }

// NarrationLength นับเฉพาะ dialogue text
func (p *CharacterExplainsParams) NarrationLength() int {
	n := 0
	for _, d := range p.Dialogue {
		n += utf8.RuneCountInString(d.Text)
	}
	return n
}

func (p *CharacterExplainsParams) Clone() TemplateParams {
	cp := *p
	if p.Dialogue != nil {
		cp.Dialogue = make([]DialogueLine, len(p.Dialogue))
		copy(cp.Dialogue, p.Dialogue)
	}
	return &cp
}
