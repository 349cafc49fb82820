package v1

import (
	"context"

	"github.com/knova-ai/knova/pkg/security"
)

const (
	TOKEN_CONTEXT_KEY = "__knova.access_token"
)

// InjectTokenClaim gets the authenticated caller claims from context.
func InjectTokenClaim(ctx context.Context) (security.TokenClaims, bool) {
	val, ok := ctx.Value(TOKEN_CONTEXT_KEY).(security.TokenClaims)
	return val, ok
}
