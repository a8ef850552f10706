package repository

import (
	"sync"
)

// DeviceToken is one registered push target for trading alerts.
type DeviceToken struct {
	Token     string
	Owner     string // wallet address the device wants alerts for
	Platform  string // "android" or "ios"
	CreatedAt int64
}

// TokenRepository manages device tokens for push notifications, keyed by
// token and filterable by owner.
type TokenRepository struct {
	tokens map[string]*DeviceToken
	mu     sync.RWMutex
}

func NewTokenRepository() *TokenRepository {
	return &TokenRepository{
		tokens: make(map[string]*DeviceToken),
	}
}

// RegisterToken adds or updates a device token.
func (r *TokenRepository) RegisterToken(token, owner, platform string, timestamp int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tokens[token] = &DeviceToken{
		Token:     token,
		Owner:     owner,
		Platform:  platform,
		CreatedAt: timestamp,
	}
}

// UnregisterToken removes a device token.
func (r *TokenRepository) UnregisterToken(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.tokens, token)
}

// GetTokensForOwner returns tokens registered for one owner, plus tokens
// registered without an owner (subscribe-to-everything devices).
func (r *TokenRepository) GetTokensForOwner(owner string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tokens := make([]string, 0, len(r.tokens))
	for _, dt := range r.tokens {
		if dt.Owner == owner || dt.Owner == "" {
			tokens = append(tokens, dt.Token)
		}
	}
	return tokens
}

// GetTokenCount returns the number of registered tokens.
func (r *TokenRepository) GetTokenCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.tokens)
}
