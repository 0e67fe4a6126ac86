// internal/dispatch/authorizer.go
package dispatch

import "context"

// IntentAllowlist authorizes only the intents named in configuration.
type IntentAllowlist struct {
	allowed map[string]struct{}
}

// NewIntentAllowlist builds an authorizer from the configured intent list.
// An empty list permits everything.
func NewIntentAllowlist(intents []string) Authorizer {
	if len(intents) == 0 {
		return AllowAll{}
	}
	allowed := make(map[string]struct{}, len(intents))
	for _, intent := range intents {
		allowed[intent] = struct{}{}
	}
	return &IntentAllowlist{allowed: allowed}
}

func (a *IntentAllowlist) Authorized(ctx context.Context, username, intent string) bool {
	_, ok := a.allowed[intent]
	return ok
}
