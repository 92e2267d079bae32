package startups

import "time"

const (
	HolderFounder  = "founder"
	HolderInvestor = "investor"
	HolderEmployee = "employee"
	HolderOther    = "other"
)

type Founder struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
}

// EquityHolder is one row of the cap table. UserID is set for holders with an account.
type EquityHolder struct {
	Type             string  `json:"type"`
	Name             string  `json:"name"`
	UserID           string  `json:"userId,omitempty"`
	EquityPercentage float64 `json:"equity_percentage"`
}

type RoundInvestor struct {
	InvestorID   string `json:"investorId"`
	InvestorName string `json:"investorName"`
}

type FundingRound struct {
	Stage     string          `json:"stage"`
	Amount    float64         `json:"amount"`
	Date      string          `json:"date"`
	Investors []RoundInvestor `json:"investors"`
}

type Startup struct {
	ID            int64          `json:"id"`
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	Industry      string         `json:"industry"`
	Website       string         `json:"website"`
	MarketSize    string         `json:"market_size"`
	RevenueModel  string         `json:"revenue_model"`
	LogoURL       string         `json:"logo_url"`
	OwnerUUID     string         `json:"owner_uuid"`
	Founders      []Founder      `json:"founders"`
	EquitySplit   []EquityHolder `json:"equity_split"`
	FundingRounds []FundingRound `json:"funding_rounds"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

type StartupList struct {
	Items []Startup `json:"items"`
	Total int64     `json:"total"`
	Page  int       `json:"page"`
	Limit int       `json:"limit"`
}

type ListFilter struct {
	Industry string
	Search   string
	Limit    int
	Offset   int
}
