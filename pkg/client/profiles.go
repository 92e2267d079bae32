package client

import (
	"context"
	"net/http"
	"net/url"

	"foundernet/pkg/profiles"
)

type FounderProfileRequest struct {
	UserUUID    string   `json:"user_uuid"`
	Skills      []string `json:"skills"`
	Experience  string   `json:"experience,omitempty"`
	LinkedInURL string   `json:"linkedin_url,omitempty"`
}

type InvestorProfileRequest struct {
	UserUUID        string   `json:"user_uuid"`
	FirmName        string   `json:"firm_name"`
	InvestmentFocus []string `json:"investment_focus"`
	TicketMin       float64  `json:"ticket_min"`
	TicketMax       float64  `json:"ticket_max"`
	PortfolioURL    string   `json:"portfolio_url,omitempty"`
}

func (c *Client) CreateFounderProfile(ctx context.Context, req FounderProfileRequest) (profiles.FounderProfile, error) {
	var p profiles.FounderProfile
	_, err := c.doJSON(ctx, http.MethodPost, "/founders", nil, req, &p)
	return p, err
}

func (c *Client) GetFounderProfile(ctx context.Context, userUUID string) (profiles.FounderProfile, error) {
	var p profiles.FounderProfile
	_, err := c.doJSON(ctx, http.MethodGet, "/founders/"+url.PathEscape(userUUID), nil, nil, &p)
	return p, err
}

func (c *Client) CreateInvestorProfile(ctx context.Context, req InvestorProfileRequest) (profiles.InvestorProfile, error) {
	var p profiles.InvestorProfile
	_, err := c.doJSON(ctx, http.MethodPost, "/investors", nil, req, &p)
	return p, err
}

func (c *Client) GetInvestorProfile(ctx context.Context, userUUID string) (profiles.InvestorProfile, error) {
	var p profiles.InvestorProfile
	_, err := c.doJSON(ctx, http.MethodGet, "/investors/"+url.PathEscape(userUUID), nil, nil, &p)
	return p, err
}
