// Package templates is the compile-time registry of content templates: the
// shape of each template's params, the defaults that seed a new draft, the
// ids the client accepts for selection fields, and the validators.
package templates

import "github.com/pedrops164/ShortsCreator/domain/models"

// Descriptor describes one template. The binding from template id to params
// type and validator is fixed at draft creation time and never changes.
type Descriptor struct {
	ID          string
	ContentType models.ContentType
	DisplayName string

	// AIAssist - template นี้มีปุ่ม AI ช่วยเขียนหรือไม่ (มีผลกับ estimate surcharge)
	AIAssist bool

	// NewParams returns a fresh params object seeded with defaults.
	NewParams func() models.TemplateParams
}

var registry = map[string]*Descriptor{
	models.TemplateRedditStory: {
		ID:          models.TemplateRedditStory,
		ContentType: models.TypeRedditStory,
		DisplayName: "Reddit Story",
		AIAssist:    true,
		NewParams:   defaultRedditStoryParams,
	},
	models.TemplateCharacterExplains: {
		ID:          models.TemplateCharacterExplains,
		ContentType: models.TypeCharacterExplains,
		DisplayName: "Character Explains",
		AIAssist:    true,
		NewParams:   defaultCharacterExplainsParams,
	},
}

// ByID looks a template up; ok is false for template ids this build does not
// know (the editor must refuse those).
func ByID(id string) (*Descriptor, bool) {
	d, ok := registry[id]
	return d, ok
}

func All() []*Descriptor {
	out := make([]*Descriptor, 0, len(registry))
	for _, id := range []string{models.TemplateRedditStory, models.TemplateCharacterExplains} {
		out = append(out, registry[id])
	}
	return out
}

func defaultRedditStoryParams() models.TemplateParams {
	return &models.RedditStoryParams{
		Comments:          []models.RedditComment{},
		BackgroundMusicID: "none",
		AvatarImageURL:    "assets/reddit/reddit_avatar_placeholder.png",
		AspectRatio:       "9:16",
		Subtitles: models.SubtitleOptions{
			Show:     true,
			Color:    "#FFFFFF",
			Font:     "Arial",
			Position: models.SubtitleBottom,
		},
		Theme: "dark",
	}
}

func defaultCharacterExplainsParams() models.TemplateParams {
	return &models.CharacterExplainsParams{
		CharacterPresetID: "peter_stewie",
		Dialogue:          []models.DialogueLine{},
		BackgroundVideoID: "minecraft1",
		AspectRatio:       "9:16",
		Subtitles: models.SubtitleOptions{
			Show:     true,
			Color:    "#FFFFFF",
			Font:     "Arial",
			Position: models.SubtitleBottom,
		},
	}
}

// Known selection ids. These mirror the asset catalog the gateway serves;
// the gateway remains the source of truth, this is the offline floor the
// pure validators check against.
var (
	KnownBackgroundVideos = []string{"minecraft1", "gta1"}

	KnownVoices = []string{
		"openai_alloy", "openai_ash", "openai_ballad", "openai_coral",
		"openai_echo", "openai_fable", "openai_onyx", "openai_nova",
		"openai_sage", "openai_shimmer", "openai_verse",
	}

	KnownBackgroundMusic = []string{"", "none", "fun_1", "mysterious_1"}
)

// DefaultPresets - preset catalog ที่ client มีติดตัว (refresh ได้จาก gateway)
func DefaultPresets() []models.CharacterPreset {
	return []models.CharacterPreset{
		{
			ID:   "peter_stewie",
			Name: "Peter & Stewie Griffin",
			Characters: []models.Character{
				{ID: "peter", Name: "Peter Griffin", ImageURL: "/character_images/peter.png"},
				{ID: "stewie", Name: "Stewie Griffin", ImageURL: "/character_images/stewie.png"},
			},
		},
		{
			ID:   "rick_morty",
			Name: "Rick Sanchez & Morty Smith",
			Characters: []models.Character{
				{ID: "rick", Name: "Rick Sanchez", ImageURL: "/character_images/rick.png"},
				{ID: "morty", Name: "Morty Smith", ImageURL: "/character_images/morty.png"},
			},
		},
		{
			ID:   "spongebob_patrick",
			Name: "SpongeBob & Patrick",
			Characters: []models.Character{
				{ID: "spongebob", Name: "SpongeBob", ImageURL: "/character_images/spongebob.png"},
				{ID: "patrick", Name: "Patrick", ImageURL: "/character_images/patrick.png"},
			},
		},
	}
}

// PresetByID searches presets; falls back to the default catalog when
// presets is nil.
func PresetByID(presets []models.CharacterPreset, id string) (*models.CharacterPreset, bool) {
	if presets == nil {
		presets = DefaultPresets()
	}
	for i := range presets {
		if presets[i].ID == id {
			return &presets[i], true
		}
	}
	return nil, false
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
