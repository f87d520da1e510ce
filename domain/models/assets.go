package models

// AssetType - ชนิดของ asset ที่ขอได้จาก GET /assets
type AssetType string

const (
	AssetVideo AssetType = "VIDEO"
	AssetVoice AssetType = "VOICE"
	AssetFont  AssetType = "FONT"
)

// Asset is one selectable backend asset (background video, narration voice,
// subtitle font). AssetID is the stable reference stored in templateParams;
// ID is the backend document id.
type Asset struct {
	ID           string    `json:"id"`
	AssetID      string    `json:"assetId"`
	Type         AssetType `json:"type,omitempty"`
	Name         string    `json:"name"`
	DisplayName  string    `json:"displayName,omitempty"`
	Description  string    `json:"description,omitempty"`
	Category     string    `json:"category,omitempty"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	SourceURL    string    `json:"sourceUrl,omitempty"`
}

// Character - หนึ่งตัวละครใน preset
type Character struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// CharacterPreset is an ordered pair-or-more of characters that perform a
// dialogue together. Order matters: the editor's round-robin speaker pointer
// walks Characters in this order.
type CharacterPreset struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Characters []Character `json:"characters"`
}

// HasCharacter reports whether id names a character of this preset.
func (p *CharacterPreset) HasCharacter(id string) bool {
	for _, c := range p.Characters {
		if c.ID == id {
			return true
		}
	}
	return false
}
