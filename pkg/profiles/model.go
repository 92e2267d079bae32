package profiles

import "time"

type FounderProfile struct {
	UserUUID    string    `json:"user_uuid"`
	Skills      []string  `json:"skills"`
	Experience  string    `json:"experience"`
	LinkedInURL string    `json:"linkedin_url"`
	CreatedAt   time.Time `json:"created_at"`
}

type InvestorProfile struct {
	UserUUID        string    `json:"user_uuid"`
	FirmName        string    `json:"firm_name"`
	InvestmentFocus []string  `json:"investment_focus"`
	TicketMin       float64   `json:"ticket_min"`
	TicketMax       float64   `json:"ticket_max"`
	PortfolioURL    string    `json:"portfolio_url"`
	CreatedAt       time.Time `json:"created_at"`
}
