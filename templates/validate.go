package templates

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pedrops164/ShortsCreator/domain/models"
)

// validate is the shared engine. Field names in error paths come from json
// tags so the mapping keys match the wire/editor field names.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	// required_trimmed: ต้องไม่ว่างหลัง trim (ช่องว่างล้วนถือว่าว่าง)
	_ = v.RegisterValidation("required_trimmed", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// Validate runs the pure, synchronous validation for one params object and
// returns a fieldPath → human message mapping. Empty mapping iff the object
// is submittable. Save never requires this to pass; generate does.
func Validate(params models.TemplateParams) map[string]string {
	return ValidateWithPresets(params, nil)
}

// ValidateWithPresets is Validate with a live preset catalog (from the
// gateway) instead of the built-in one, so dialogue speaker membership is
// checked against what the user could actually select.
func ValidateWithPresets(params models.TemplateParams, presets []models.CharacterPreset) map[string]string {
	errs := map[string]string{}

	if err := validate.Struct(params); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			errs["_"] = err.Error()
			return errs
		}
		for _, fe := range verrs {
			path := fieldPath(fe)
			if _, dup := errs[path]; !dup {
				errs[path] = message(path, fe)
			}
		}
	}

	// Membership and conditional checks the tag engine cannot express.
	switch p := params.(type) {
	case *models.RedditStoryParams:
		if p.VoiceSelection != "" && !contains(KnownVoices, p.VoiceSelection) {
			errs["voiceSelection"] = "Unknown narration voice."
		}
		validateSubtitles(p.Subtitles, errs)
	case *models.CharacterExplainsParams:
		if p.BackgroundVideoID != "" && !contains(KnownBackgroundVideos, p.BackgroundVideoID) {
			errs["backgroundVideoId"] = "Unknown background video."
		}
		if p.CharacterPresetID != "" {
			preset, ok := PresetByID(presets, p.CharacterPresetID)
			if !ok {
				errs["characterPresetId"] = "Unknown character preset."
			} else {
				for i, line := range p.Dialogue {
					if line.CharacterID != "" && !preset.HasCharacter(line.CharacterID) {
						errs[fmt.Sprintf("dialogue[%d].characterId", i)] = "Speaker does not belong to the selected preset."
					}
				}
			}
		}
		validateSubtitles(p.Subtitles, errs)
	}

	return errs
}

// hexColorRe - รับเฉพาะ #RGB กับ #RRGGBB
var hexColorRe = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)

// validateSubtitles checks the styling fields only while subtitles are
// shown. Hidden subtitles keep whatever half-edited values they had without
// blocking submission.
func validateSubtitles(s models.SubtitleOptions, errs map[string]string) {
	if !s.Show {
		return
	}
	if !hexColorRe.MatchString(s.Color) {
		errs["subtitles.color"] = "Must be a valid hex color."
	}
	if strings.TrimSpace(s.Font) == "" {
		errs["subtitles.font"] = "Subtitle font is required."
	}
}

// fieldPath turns "RedditStoryParams.comments[2].text" into "comments[2].text".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

// message keeps the original editor wording per field, falling back to a
// generic line for anything new.
func message(path string, fe validator.FieldError) string {
	leaf := path
	if i := strings.LastIndex(leaf, "."); i >= 0 {
		leaf = leaf[i+1:]
	}
	if i := strings.Index(leaf, "["); i >= 0 {
		leaf = leaf[:i]
	}

	switch leaf {
	case "username":
		if fe.Tag() == "min" {
			return "Username must be at least 3 characters."
		}
		return "Username is required."
	case "subreddit":
		return "Subreddit is required."
	case "postTitle":
		if fe.Tag() == "min" {
			return "Post Title must be at least 5 characters."
		}
		return "Post Title is required."
	case "postDescription":
		if fe.Tag() == "min" {
			return "Post Description must be at least 10 characters."
		}
		return "Post Description is required."
	case "backgroundVideoId":
		return "Background video is required."
	case "voiceSelection":
		return "Narration voice is required."
	case "topicTitle":
		if fe.Tag() == "min" {
			return "Topic Title must be at least 3 characters."
		}
		return "Topic Title is required."
	case "characterPresetId":
		return "A character preset must be selected."
	case "dialogue":
		return "Dialogue cannot be empty."
	case "characterId", "text":
		if strings.HasPrefix(path, "comments") {
			return "Comment text is required."
		}
		return "Dialogue line is incomplete."
	case "position", "theme":
		return "Invalid selection."
	default:
		return fmt.Sprintf("Invalid value for %s.", path)
	}
}
