package models

// LiveStream is the reduced public shape of a currently live followed
// channel. This is what gets persisted and served; everything else on
// StreamInfo is transient.
type LiveStream struct {
	UserName    string `json:"user_name"`
	UserLogin   string `json:"user_login"`
	UserID      string `json:"user_id"`
	GameName    string `json:"game_name"`
	Title       string `json:"title"`
	Type        string `json:"type"`
	ViewerCount int    `json:"viewer_count"`
}

// Snapshot is the complete set of live followed streams plus the
// RFC3339 timestamp of the cycle that produced it. It replaces the
// previous snapshot wholesale on every successful cycle.
type Snapshot struct {
	Streams   []LiveStream `json:"live_streams"`
	UpdatedAt string       `json:"updated_ts"`
}
