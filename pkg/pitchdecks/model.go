package pitchdecks

import "time"

type PitchDeck struct {
	ID        int64     `json:"id"`
	StartupID int64     `json:"startup_id"`
	Title     string    `json:"title"`
	FileURL   string    `json:"file_url"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}
