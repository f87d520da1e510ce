// Package editor owns the in-memory params of one editing session: dirty
// tracking against the last persisted snapshot, the live price estimate and
// the validate-and-extract operation the host drives saves with.
//
// A Session is not goroutine safe; like the form state it replaces it is
// meant to be driven from a single event loop.
package editor

import (
	"errors"
	"reflect"
	"strings"

	"github.com/pedrops164/ShortsCreator/domain/models"
	"github.com/pedrops164/ShortsCreator/pricing"
	"github.com/pedrops164/ShortsCreator/templates"
)

var (
	// ErrUnknownTemplate - เปิด editor กับ template id ที่ build นี้ไม่รู้จัก
	ErrUnknownTemplate = errors.New("editor: unknown template id")
	// ErrReadOnly - record ที่ COMPLETED แล้วแก้ไขไม่ได้
	ErrReadOnly = errors.New("editor: content is read-only")
	// ErrWrongTemplate - เรียก operation ของ template อื่น
	ErrWrongTemplate = errors.New("editor: operation does not apply to this template")
	// ErrUnknownPreset ...
	ErrUnknownPreset = errors.New("editor: unknown character preset")
	// ErrUnknownSpeaker ...
	ErrUnknownSpeaker = errors.New("editor: speaker not in selected preset")
)

// Session is the editor state machine for one draft. It starts Clean; edits
// flip it Dirty; MarkSaved returns it to Clean with the snapshot replaced by
// the server's response (the server, not the local edit, is the source of
// truth for the persisted state).
type Session struct {
	descriptor *templates.Descriptor
	record     *models.Content // nil until first save

	params   models.TemplateParams // working copy
	snapshot models.TemplateParams // last persisted state

	presets       []models.CharacterPreset
	activeSpeaker int

	dirty    bool
	estimate int

	// OnDirtyChange fires when the dirty flag transitions.
	OnDirtyChange func(dirty bool)
	// OnEstimateChange fires when the approximate price (cents) changes.
	OnEstimateChange func(cents int)
}

// NewSession starts a session on a fresh, never-persisted draft seeded with
// the template's defaults.
func NewSession(templateID string) (*Session, error) {
	d, ok := templates.ByID(templateID)
	if !ok {
		return nil, ErrUnknownTemplate
	}
	s := &Session{
		descriptor: d,
		params:     d.NewParams(),
		snapshot:   d.NewParams(),
		presets:    templates.DefaultPresets(),
	}
	s.estimate = pricing.EstimateForParams(s.params)
	s.resetActiveSpeaker()
	return s, nil
}

// ResumeSession starts a session on a loaded record. Loaded params are
// overlaid on the template defaults so partially-saved drafts come back
// fully formed.
func ResumeSession(record *models.Content) (*Session, error) {
	d, ok := templates.ByID(record.TemplateID)
	if !ok || record.Params == nil {
		return nil, ErrUnknownTemplate
	}
	params := mergeDefaults(d, record.Params)
	s := &Session{
		descriptor: d,
		record:     record,
		params:     params,
		snapshot:   params.Clone(),
		presets:    templates.DefaultPresets(),
	}
	s.estimate = pricing.EstimateForParams(s.params)
	s.resetActiveSpeaker()
	return s, nil
}

func (s *Session) Template() *templates.Descriptor { return s.descriptor }

// DraftID is empty until the first save assigns one.
func (s *Session) DraftID() string {
	if s.record == nil {
		return ""
	}
	return s.record.ID
}

func (s *Session) Record() *models.Content { return s.record }

// ReadOnly - draft ที่ generate เสร็จแล้วเปิดดูได้อย่างเดียว
func (s *Session) ReadOnly() bool {
	return s.record != nil && s.record.Status == models.StatusCompleted
}

func (s *Session) Dirty() bool    { return s.dirty }
func (s *Session) Estimate() int  { return s.estimate }
func (s *Session) Params() models.TemplateParams { return s.params }

// SetPresets replaces the preset catalog (normally with the gateway's). If
// the active speaker no longer exists the pointer resets to the preset's
// first character.
func (s *Session) SetPresets(presets []models.CharacterPreset) {
	s.presets = presets
	if _, ok := s.ActiveSpeaker(); !ok {
		s.resetActiveSpeaker()
	}
}

// Apply runs one mutation against the working copy, then recomputes the
// dirty flag (structural comparison against the snapshot) and the estimate.
// The snapshot is never touched.
func (s *Session) Apply(mutate func(models.TemplateParams)) error {
	if s.ReadOnly() {
		return ErrReadOnly
	}
	mutate(s.params)
	s.recompute()
	return nil
}

// ValidatedParams runs the template validator against the working copy. On
// failure it returns (nil, errors) and has no further side effect; the host
// surfaces every message and moves attention to the top of the form. On
// success it returns a detached copy for the host to save or submit.
func (s *Session) ValidatedParams() (models.TemplateParams, map[string]string) {
	errs := templates.ValidateWithPresets(s.params, s.presets)
	if len(errs) > 0 {
		return nil, errs
	}
	return s.params.Clone(), nil
}

// MarkSaved installs the server's response as the new record. The echoed
// params replace both the snapshot and the working copy, so the session
// reports Clean afterwards; edits made while the save was in flight are
// discarded in favour of what the server persisted.
func (s *Session) MarkSaved(saved *models.Content) {
	s.record = saved
	if saved.Params != nil {
		s.snapshot = saved.Params.Clone()
		s.params = saved.Params.Clone()
	} else {
		s.snapshot = s.params.Clone()
	}
	s.recompute()
}

// --- reddit story operations ---

// RedditParams type-asserts the working copy.
func (s *Session) RedditParams() (*models.RedditStoryParams, bool) {
	p, ok := s.params.(*models.RedditStoryParams)
	return p, ok
}

// AppendComment adds a narrated comment; blank text is a no-op, a blank
// author gets the stock name.
func (s *Session) AppendComment(author, text string) error {
	p, ok := s.params.(*models.RedditStoryParams)
	if !ok {
		return ErrWrongTemplate
	}
	if s.ReadOnly() {
		return ErrReadOnly
	}
	if trimmed := strings.TrimSpace(text); trimmed == "" {
		return nil
	}
	if strings.TrimSpace(author) == "" {
		author = "Commenter"
	}
	p.Comments = append(p.Comments, models.RedditComment{Author: author, Text: text})
	s.recompute()
	return nil
}

func (s *Session) RemoveComment(index int) error {
	p, ok := s.params.(*models.RedditStoryParams)
	if !ok {
		return ErrWrongTemplate
	}
	if s.ReadOnly() {
		return ErrReadOnly
	}
	if index < 0 || index >= len(p.Comments) {
		return nil
	}
	p.Comments = append(p.Comments[:index], p.Comments[index+1:]...)
	s.recompute()
	return nil
}

// --- character explains operations ---

func (s *Session) CharacterParams() (*models.CharacterExplainsParams, bool) {
	p, ok := s.params.(*models.CharacterExplainsParams)
	return p, ok
}

// SwitchPreset replaces the character preset, clears all dialogue (lines
// reference characters of the old preset and are never migrated) and resets
// the active speaker to the new preset's first character.
func (s *Session) SwitchPreset(presetID string) error {
	p, ok := s.params.(*models.CharacterExplainsParams)
	if !ok {
		return ErrWrongTemplate
	}
	if s.ReadOnly() {
		return ErrReadOnly
	}
	if _, ok := templates.PresetByID(s.presets, presetID); !ok {
		return ErrUnknownPreset
	}
	p.CharacterPresetID = presetID
	p.Dialogue = p.Dialogue[:0]
	s.activeSpeaker = 0
	s.recompute()
	return nil
}

// ActiveSpeaker is the character the next dialogue line is attributed to.
func (s *Session) ActiveSpeaker() (models.Character, bool) {
	p, ok := s.params.(*models.CharacterExplainsParams)
	if !ok {
		return models.Character{}, false
	}
	preset, ok := templates.PresetByID(s.presets, p.CharacterPresetID)
	if !ok || len(preset.Characters) == 0 {
		return models.Character{}, false
	}
	if s.activeSpeaker >= len(preset.Characters) {
		return models.Character{}, false
	}
	return preset.Characters[s.activeSpeaker], true
}

// SetActiveSpeaker moves the pointer manually (user tapped a speaker).
func (s *Session) SetActiveSpeaker(characterID string) error {
	p, ok := s.params.(*models.CharacterExplainsParams)
	if !ok {
		return ErrWrongTemplate
	}
	preset, ok := templates.PresetByID(s.presets, p.CharacterPresetID)
	if !ok {
		return ErrUnknownPreset
	}
	for i, c := range preset.Characters {
		if c.ID == characterID {
			s.activeSpeaker = i
			return nil
		}
	}
	return ErrUnknownSpeaker
}

// AppendDialogue appends {activeSpeaker, text} and advances the pointer to
// the next character round-robin, so consecutive turns alternate speakers by
// default. Blank text is a no-op.
func (s *Session) AppendDialogue(text string) error {
	p, ok := s.params.(*models.CharacterExplainsParams)
	if !ok {
		return ErrWrongTemplate
	}
	if s.ReadOnly() {
		return ErrReadOnly
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}
	speaker, ok := s.ActiveSpeaker()
	if !ok {
		return ErrUnknownSpeaker
	}
	p.Dialogue = append(p.Dialogue, models.DialogueLine{CharacterID: speaker.ID, Text: text})
	if preset, ok := templates.PresetByID(s.presets, p.CharacterPresetID); ok && len(preset.Characters) > 0 {
		s.activeSpeaker = (s.activeSpeaker + 1) % len(preset.Characters)
	}
	s.recompute()
	return nil
}

func (s *Session) RemoveDialogue(index int) error {
	p, ok := s.params.(*models.CharacterExplainsParams)
	if !ok {
		return ErrWrongTemplate
	}
	if s.ReadOnly() {
		return ErrReadOnly
	}
	if index < 0 || index >= len(p.Dialogue) {
		return nil
	}
	p.Dialogue = append(p.Dialogue[:index], p.Dialogue[index+1:]...)
	s.recompute()
	return nil
}

// --- internals ---

func (s *Session) recompute() {
	dirty := !reflect.DeepEqual(s.params, s.snapshot)
	if dirty != s.dirty {
		s.dirty = dirty
		if s.OnDirtyChange != nil {
			s.OnDirtyChange(dirty)
		}
	}
	estimate := pricing.EstimateForParams(s.params)
	if estimate != s.estimate {
		s.estimate = estimate
		if s.OnEstimateChange != nil {
			s.OnEstimateChange(estimate)
		}
	}
}

func (s *Session) resetActiveSpeaker() { s.activeSpeaker = 0 }

// mergeDefaults overlays loaded params on the template defaults so optional
// sections (subtitles, slices) are always fully formed.
func mergeDefaults(d *templates.Descriptor, loaded models.TemplateParams) models.TemplateParams {
	merged := loaded.Clone()
	switch p := merged.(type) {
	case *models.RedditStoryParams:
		def := d.NewParams().(*models.RedditStoryParams)
		if p.Comments == nil {
			p.Comments = []models.RedditComment{}
		}
		if p.BackgroundMusicID == "" {
			p.BackgroundMusicID = def.BackgroundMusicID
		}
		if p.AvatarImageURL == "" {
			p.AvatarImageURL = def.AvatarImageURL
		}
		if p.AspectRatio == "" {
			p.AspectRatio = def.AspectRatio
		}
		if p.Theme == "" {
			p.Theme = def.Theme
		}
		fillSubtitles(&p.Subtitles, def.Subtitles)
	case *models.CharacterExplainsParams:
		def := d.NewParams().(*models.CharacterExplainsParams)
		if p.Dialogue == nil {
			p.Dialogue = []models.DialogueLine{}
		}
		if p.CharacterPresetID == "" {
			p.CharacterPresetID = def.CharacterPresetID
		}
		if p.BackgroundVideoID == "" {
			p.BackgroundVideoID = def.BackgroundVideoID
		}
		if p.AspectRatio == "" {
			p.AspectRatio = def.AspectRatio
		}
		fillSubtitles(&p.Subtitles, def.Subtitles)
	}
	return merged
}

func fillSubtitles(dst *models.SubtitleOptions, def models.SubtitleOptions) {
	if dst.Color == "" {
		dst.Color = def.Color
	}
	if dst.Font == "" {
		dst.Font = def.Font
	}
	if dst.Position == "" {
		dst.Position = def.Position
	}
}
