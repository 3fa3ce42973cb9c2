package cards

import (
	"errors"
	"strings"
)

// Sport identifies the sport the card is themed on.
type Sport struct {
	Type string `json:"type"`
}

// Team carries the team branding applied to a card.
type Team struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Logo  string `json:"logo,omitempty"` // base64
}

// Player carries the captured photo.
type Player struct {
	Photo string `json:"photo"` // base64
}

// GenerateCardRequest is the body accepted by POST /generate.
type GenerateCardRequest struct {
	Sport  Sport  `json:"sport"`
	Team   Team   `json:"team"`
	Player Player `json:"player"`
}

// GenerateCardResponse holds the generated image as base64.
type GenerateCardResponse struct {
	Image string `json:"image"`
}

var (
	ErrMissingSport = errors.New("sport type is required")
	ErrMissingTeam  = errors.New("team name is required")
	ErrMissingPhoto = errors.New("player photo is required")
)

// Validate checks that the fields used for prompt rendering and the model call are present.
func (r *GenerateCardRequest) Validate() error {
	if strings.TrimSpace(r.Sport.Type) == "" {
		return ErrMissingSport
	}
	if strings.TrimSpace(r.Team.Name) == "" {
		return ErrMissingTeam
	}
	if strings.TrimSpace(r.Player.Photo) == "" {
		return ErrMissingPhoto
	}
	return nil
}

// TeamInfo is one entry of the static team table.
type TeamInfo struct {
	Name  string `toml:"name" json:"name"`
	Logo  string `toml:"logo" json:"logo"`
	Group string `toml:"-" json:"group"`
	Color string `toml:"-" json:"color"`
}

// ColorGroup groups teams sharing a card color.
type ColorGroup struct {
	Key   string     `toml:"key" json:"key"`
	Color string     `toml:"color" json:"color"`
	Teams []TeamInfo `toml:"teams" json:"teams"`
}

// SpecialProperty is a badge that can be stamped on a card.
type SpecialProperty struct {
	ID          string `toml:"id" json:"id"`
	Name        string `toml:"name" json:"name"`
	Icon        string `toml:"icon" json:"icon"`
	Description string `toml:"description" json:"description"`
}

// HasImageIcon reports whether the icon refers to an image asset rather than an emoji.
func (p SpecialProperty) HasImageIcon() bool {
	return strings.HasSuffix(p.Icon, ".png")
}

// Catalog is the static reference data shipped with the service.
type Catalog struct {
	Groups            []ColorGroup      `toml:"groups" json:"groups"`
	Sports            []string          `toml:"sports" json:"sports"`
	LoadingMessages   []string          `toml:"loading_messages" json:"loadingMessages"`
	SpecialProperties []SpecialProperty `toml:"special_properties" json:"specialProperties"`
}

// DefaultColor is used when no team color group is selected.
const DefaultColor = "#174a6f"

// PlayerName formats the name printed on the card.
func PlayerName(first, last string) string {
	name := strings.ToUpper(strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last)))
	if name == "" {
		return "PLAYER NAME"
	}
	return name
}

// RenderCardRequest is the body accepted by POST /cards/render and
// POST /cards/print. PlayerName wins over FirstName and LastName.
type RenderCardRequest struct {
	Image           string `json:"image"` // base64 or data URL
	PlayerName      string `json:"playerName,omitempty"`
	FirstName       string `json:"firstName,omitempty"`
	LastName        string `json:"lastName,omitempty"`
	TeamColor       string `json:"teamColor,omitempty"`
	TeamLogo        string `json:"teamLogo,omitempty"` // URL, data URL, base64 or static file name
	SpecialProperty string `json:"specialProperty,omitempty"`
	Back            string `json:"back,omitempty"` // print only; defaults to the card back
}

// Name returns the name printed on the card.
func (r *RenderCardRequest) Name() string {
	if n := strings.TrimSpace(r.PlayerName); n != "" {
		return strings.ToUpper(n)
	}
	return PlayerName(r.FirstName, r.LastName)
}

// VIPResponse answers GET /vip.
type VIPResponse struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	VIP       bool   `json:"vip"`
}
