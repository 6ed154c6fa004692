package domain

import (
	"errors"
	"time"
)

// InfluencerStatus represents the review state of an influencer profile.
type InfluencerStatus string

const (
	InfluencerPending  InfluencerStatus = "pending"
	InfluencerApproved InfluencerStatus = "approved"
	InfluencerRejected InfluencerStatus = "rejected"
)

const (
	PlatformInstagram = "instagram"
	PlatformTikTok    = "tiktok"
	PlatformYouTube   = "youtube"
	PlatformSnapchat  = "snapchat"
	PlatformTwitter   = "twitter"
	PlatformOther     = "other"
)

// InfluencerPlatforms lists the accepted social platforms for registration.
var InfluencerPlatforms = []string{
	PlatformInstagram, PlatformTikTok, PlatformYouTube,
	PlatformSnapchat, PlatformTwitter, PlatformOther,
}

var ErrInfluencerNotFound = errors.New("influencer not found")
var ErrInfluencerNotActive = errors.New("influencer is not active")
var ErrInvalidPlatform = errors.New("unknown platform")
var ErrNoParticipants = errors.New("no participants registered yet")

// Influencer runs a giveaway wheel over registered participants rather than
// walk-in visitors: followers sign up first, then a draw picks one winner.
type Influencer struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Slug            string           `json:"slug"`
	Platform        string           `json:"platform"`
	CustomPlatform  string           `json:"custom_platform,omitempty"`
	Username        string           `json:"username"`
	ProfileURL      string           `json:"profile_url,omitempty"`
	FollowersCount  int              `json:"followers_count"`
	Email           string           `json:"email"`
	Phone           string           `json:"phone,omitempty"`
	Prizes          []string         `json:"prizes"`
	Colors          []string         `json:"colors"`
	Status          InfluencerStatus `json:"status"`
	IsActive        bool             `json:"is_active"`
	ProfileImageURL string           `json:"profile_image_url,omitempty"`
	Bio             string           `json:"bio,omitempty"`
	Notes           string           `json:"notes,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	ApprovedAt      *time.Time       `json:"approved_at,omitempty"`
}

// FinalPlatform returns the custom platform when registered as "other".
func (i *Influencer) FinalPlatform() string {
	if i.Platform == PlatformOther && i.CustomPlatform != "" {
		return i.CustomPlatform
	}
	return i.Platform
}

// Participant is a follower registered for an influencer's giveaway draw.
type Participant struct {
	ID            string    `json:"id"`
	InfluencerID  string    `json:"influencer_id"`
	Name          string    `json:"name"`
	Phone         string    `json:"phone"`
	SocialAccount string    `json:"social_media_account"`
	City          string    `json:"city"`
	CreatedAt     time.Time `json:"created_at"`
}

// MaskPhone hides the last four digits of a winner's phone for public
// announcement. Short values are masked entirely.
func MaskPhone(phone string) string {
	r := []rune(phone)
	if len(r) <= 4 {
		return "****"
	}
	return string(r[:len(r)-4]) + "****"
}

// MaskSocialAccount hides the last three characters of a social handle.
func MaskSocialAccount(account string) string {
	r := []rune(account)
	if len(r) <= 3 {
		return "***"
	}
	return string(r[:len(r)-3]) + "***"
}
