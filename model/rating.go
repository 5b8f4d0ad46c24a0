package model

import (
	"fmt"
	"time"
)

// Rating is a single star rating of an agent, optionally tied to a wallet.
// At most one rating exists per (agent, wallet) pair; anonymous ratings are
// exempt because NULL wallets never compare equal under the constraint.
type Rating struct {
	ID      int64 `json:"id"`
	AgentID int64 `json:"agentId"`

	// WalletAddress is empty for anonymous ratings
	WalletAddress string `json:"walletAddress,omitempty"`

	// Stars is in [1,5]
	Stars int `json:"stars"`

	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ValidateStars checks the star range
func ValidateStars(stars int) error {
	if stars < 1 || stars > 5 {
		return fmt.Errorf("%w: stars must be between 1 and 5", ErrValidation)
	}
	return nil
}
