package response_models

type DownloadLinkResponse struct {
	Success            bool   `json:"success"`
	DownloadURL        string `json:"downloadUrl"`
	SongTitle          string `json:"songTitle"`
	SongArtist         string `json:"songArtist"`
	DownloadsRemaining int    `json:"downloadsRemaining"`
}

type WebhookAckResponse struct {
	EventType string `json:"event_type"`
	Outcome   string `json:"outcome"`
}
