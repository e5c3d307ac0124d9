package models

// Badge colors. Accent purple for the live count, red for auth alerts.
const (
	BadgeColorAccent = "#772CE8"
	BadgeColorAlert  = "#FF0000"
)

// Badge is the short visual indicator: accent color with the live
// count, or alert red with "!" after an authorization failure.
type Badge struct {
	Color string `json:"color"`
	Text  string `json:"text"`
}
