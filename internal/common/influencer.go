package common

import (
	"errors"
	"strings"
)

const (
	PlatformYouTube   = "youtube"
	PlatformInstagram = "instagram"
)

var (
	ErrNoName      = errors.New("Please provide a name")
	ErrNoPlatform  = errors.New("Please provide atleast one social media platform")
	ErrBadPlatform = errors.New("Please provide a valid platform (youtube or instagram)")
	ErrBadEmail    = errors.New("Please provide a valid email")
	ErrNoMobile    = errors.New("Please provide a mobile number")
	ErrNoLegalId   = errors.New("Please provide a legal identifier")
)

type Platform struct {
	Kind    string `json:"kind"` // youtube or instagram
	Channel string `json:"channel,omitempty"`
	Handle  string `json:"handle"`
}

func (p *Platform) Check() error {
	if p.Kind != PlatformYouTube && p.Kind != PlatformInstagram {
		return ErrBadPlatform
	}
	if p.Handle == "" {
		return ErrNoPlatform
	}
	return nil
}

type Agency struct {
	Name    string `json:"name"`
	Contact string `json:"contact,omitempty"`
}

type Influencer struct {
	Id   string `json:"id"`
	Name string `json:"name"`

	Platforms []Platform `json:"platforms"`

	Category string `json:"category,omitempty"`
	Language string `json:"language,omitempty"`
	Region   string `json:"region,omitempty"`

	Email   string `json:"email,omitempty"`
	Mobile  string `json:"mobile,omitempty"`
	LegalId string `json:"legalId,omitempty"`

	Agency *Agency `json:"agency,omitempty"`

	// Promotion history
	LastPromotionBy   string  `json:"lastPromotionBy,omitempty"`
	LastPromotionDate string  `json:"lastPromotionDate,omitempty"`
	LastPricePaid     float64 `json:"lastPricePaid,omitempty"`
	AverageViews      int64   `json:"averageViews,omitempty"`

	Avatar string `json:"avatar,omitempty"`
}

// Check validates an influencer coming in through the add flow. Ids are
// assigned by the store so a new influencer must not carry one.
func (inf *Influencer) Check(newInf bool) error {
	if newInf && inf.Id != "" {
		return ErrBadInfluencerId
	}
	inf.Name = strings.TrimSpace(inf.Name)
	if inf.Name == "" {
		return ErrNoName
	}
	if len(inf.Platforms) == 0 {
		return ErrNoPlatform
	}
	for i := range inf.Platforms {
		if err := inf.Platforms[i].Check(); err != nil {
			return err
		}
	}
	if inf.Email != "" && (len(inf.Email) < 6 || !strings.Contains(inf.Email, "@")) {
		return ErrBadEmail
	}
	return nil
}

var ErrBadInfluencerId = errors.New("invalid influencer id")

// ChannelLink returns the first platform's channel link, used as an
// advisory key for duplicate detection.
func (inf *Influencer) ChannelLink() string {
	if len(inf.Platforms) == 0 {
		return ""
	}
	p := inf.Platforms[0]
	switch p.Kind {
	case PlatformYouTube:
		return "https://youtube.com/" + p.Handle
	case PlatformInstagram:
		return "https://instagram.com/" + p.Handle
	}
	return p.Handle
}
