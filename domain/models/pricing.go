package models

// PriceQuote - ราคาจริงจาก backend สำหรับ draft หนึ่งรายการ
// Fetched fresh per generate attempt; never cached across edits and never
// substituted by the client-side estimate.
type PriceQuote struct {
	FinalPrice int    `json:"finalPrice"` // cents
	Currency   string `json:"currency"`
}

// GenerationType - ชนิดของ AI text assist
type GenerationType string

const (
	GenerateRedditPostDescription GenerationType = "REDDIT_POST_DESCRIPTION"
	GenerateRedditComment         GenerationType = "REDDIT_COMMENT"
	GenerateCharacterDialogue     GenerationType = "CHARACTER_DIALOGUE"
)

// GenerateTextRequest - payload ของ POST /generate/text (มีผลต่อ billing)
type GenerateTextRequest struct {
	GenerationType GenerationType    `json:"generationType"`
	Context        map[string]string `json:"context"`
}

// GeneratedDialogueLine - หนึ่งบรรทัดที่ AI เขียนให้
type GeneratedDialogueLine struct {
	Character string `json:"character"`
	Line      string `json:"line"`
}

// GeneratedContent - ผลลัพธ์ assist; field ไหนมีค่าขึ้นกับ GenerationType
type GeneratedContent struct {
	GenerationType GenerationType `json:"generationType"`
	Content        struct {
		Text     string                  `json:"text,omitempty"`
		Comments []string                `json:"comments,omitempty"`
		Dialogue []GeneratedDialogueLine `json:"dialogue,omitempty"`
	} `json:"content"`
}
