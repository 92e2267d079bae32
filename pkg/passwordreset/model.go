package passwordreset

import "time"

const (
	CodeLength     = 6
	CodeTTL        = 10 * time.Minute
	MaxPerHour     = 3
	requestsWindow = time.Hour
)

type Reset struct {
	ID        int64
	Email     string
	CodeHash  string
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}
