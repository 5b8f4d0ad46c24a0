package model

import "time"

// SubscriptionTier is the billing tier of a marketplace user
type SubscriptionTier string

const (
	TierCreator SubscriptionTier = "creator"
	TierUserPro SubscriptionTier = "user_pro"
	TierAgency  SubscriptionTier = "agency"
)

// User represents a wallet-identified marketplace user
// Users are created or refreshed on every login and never deleted
type User struct {
	// WalletAddress is the unique identifier for the user
	WalletAddress string `json:"walletAddress"`

	// SubscriptionTier is the billing tier (creator by default)
	SubscriptionTier SubscriptionTier `json:"subscriptionTier"`

	// SocialHandles holds optional social links (free-form, may be empty)
	SocialHandles string `json:"socialHandles,omitempty"`

	// Metadata
	CreatedAt time.Time `json:"createdAt"`
	LastLogin time.Time `json:"lastLogin"`
}

// NewUser creates a new user with the default subscription tier
func NewUser(walletAddress string) *User {
	now := time.Now()
	return &User{
		WalletAddress:    walletAddress,
		SubscriptionTier: TierCreator,
		CreatedAt:        now,
		LastLogin:        now,
	}
}
