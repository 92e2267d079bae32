package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"foundernet/pkg/pitchdecks"
	"foundernet/pkg/startups"
)

// StartupRequest mirrors the create and update payloads. OwnerUUID is honoured for admins only.
type StartupRequest struct {
	Name          string                  `json:"name"`
	Description   string                  `json:"description,omitempty"`
	Industry      string                  `json:"industry,omitempty"`
	Website       string                  `json:"website,omitempty"`
	MarketSize    string                  `json:"market_size,omitempty"`
	RevenueModel  string                  `json:"revenue_model,omitempty"`
	LogoURL       string                  `json:"logo_url,omitempty"`
	OwnerUUID     string                  `json:"owner_uuid,omitempty"`
	Founders      []startups.Founder      `json:"founders"`
	EquitySplit   []startups.EquityHolder `json:"equity_split"`
	FundingRounds []startups.FundingRound `json:"funding_rounds,omitempty"`
}

// Validate runs the same cap table check the server applies, so forms can
// reject a bad split before submitting.
func (r StartupRequest) Validate() error {
	return startups.ValidateEquitySplit(r.Founders, r.EquitySplit)
}

type StartupQuery struct {
	ListQuery
	Industry string
}

func startupPath(id int64) string {
	return fmt.Sprintf("/startups/%d", id)
}

func (c *Client) CreateStartup(ctx context.Context, req StartupRequest) (startups.Startup, error) {
	var s startups.Startup
	_, err := c.doJSON(ctx, http.MethodPost, "/startups", nil, req, &s)
	return s, err
}

func (c *Client) UpdateStartup(ctx context.Context, id int64, req StartupRequest) (startups.Startup, error) {
	var s startups.Startup
	_, err := c.doJSON(ctx, http.MethodPut, startupPath(id), nil, req, &s)
	return s, err
}

func (c *Client) DeleteStartup(ctx context.Context, id int64) error {
	_, err := c.doJSON(ctx, http.MethodDelete, startupPath(id), nil, nil, nil)
	return err
}

func (c *Client) GetStartup(ctx context.Context, id int64) (startups.Startup, error) {
	var s startups.Startup
	_, err := c.doJSON(ctx, http.MethodGet, startupPath(id), nil, nil, &s)
	return s, err
}

func (c *Client) ListStartups(ctx context.Context, q StartupQuery) (Page[startups.Startup], error) {
	v := q.values()
	if q.Industry != "" {
		v.Set("industry", q.Industry)
	}
	return getPage[startups.Startup](ctx, c, "/startups", v)
}

func (c *Client) ListStartupsByUser(ctx context.Context, userUUID string) ([]startups.Startup, error) {
	page, err := getPage[startups.Startup](ctx, c, "/startups/user/"+url.PathEscape(userUUID), nil)
	return page.Items, err
}

func (c *Client) AddFundingRound(ctx context.Context, id int64, round startups.FundingRound) (startups.Startup, error) {
	var s startups.Startup
	_, err := c.doJSON(ctx, http.MethodPost, startupPath(id)+"/rounds", nil, round, &s)
	return s, err
}

type PitchDeckRequest struct {
	Title    string `json:"title"`
	FileURL  string `json:"file_url"`
	IsActive bool   `json:"is_active"`
}

func (c *Client) CreatePitchDeck(ctx context.Context, startupID int64, req PitchDeckRequest) (pitchdecks.PitchDeck, error) {
	var d pitchdecks.PitchDeck
	_, err := c.doJSON(ctx, http.MethodPost, startupPath(startupID)+"/pitch-decks", nil, req, &d)
	return d, err
}

func (c *Client) ListPitchDecks(ctx context.Context, startupID int64) ([]pitchdecks.PitchDeck, error) {
	return getList[pitchdecks.PitchDeck](ctx, c, startupPath(startupID)+"/pitch-decks", nil)
}

// ActivePitchDeck returns (nil, nil) when the startup has no active deck. An
// unknown startup is still an error.
func (c *Client) ActivePitchDeck(ctx context.Context, startupID int64) (*pitchdecks.PitchDeck, error) {
	var d pitchdecks.PitchDeck
	present, err := c.doJSON(ctx, http.MethodGet, startupPath(startupID)+"/pitch-decks/active", nil, nil, &d)
	if err != nil {
		return nil, err
	}
	if !present {
		return nil, nil
	}
	return &d, nil
}

func (c *Client) ActivatePitchDeck(ctx context.Context, deckID int64) (pitchdecks.PitchDeck, error) {
	var d pitchdecks.PitchDeck
	_, err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/pitch-decks/%d/activate", deckID), nil, nil, &d)
	return d, err
}

func (c *Client) DeletePitchDeck(ctx context.Context, deckID int64) error {
	_, err := c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/pitch-decks/%d", deckID), nil, nil, nil)
	return err
}
