package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/knova-ai/knova/pkg/errors"
	"github.com/knova-ai/knova/pkg/i18n"
	"github.com/knova-ai/knova/pkg/security"
	"github.com/knova-ai/knova/pkg/types"
	"github.com/knova-ai/knova/pkg/utils"
)

func tokenCacheKey(tokenValue string) string {
	return fmt.Sprintf("user:token:%s", utils.MD5(tokenValue))
}

// ValidateTokenFromCache returns the claims cached for a bearer token, or
// (nil, nil) on a cache miss so the caller falls back to full verification.
func ValidateTokenFromCache(ctx context.Context, tokenValue string, cache types.Cache) (*security.TokenClaims, error) {
	if tokenValue == "" {
		return nil, errors.New("auth.ValidateTokenFromCache.empty_token", i18n.ERROR_UNAUTHORIZED, nil).Code(http.StatusUnauthorized)
	}
	if cache == nil {
		return nil, nil
	}

	raw, err := cache.Get(ctx, tokenCacheKey(tokenValue))
	if err != nil {
		return nil, errors.New("auth.ValidateTokenFromCache.cache_get", i18n.ERROR_INTERNAL, err)
	}
	if raw == "" {
		return nil, nil
	}

	var claims security.TokenClaims
	if err := json.Unmarshal([]byte(raw), &claims); err != nil {
		return nil, errors.New("auth.ValidateTokenFromCache.unmarshal", i18n.ERROR_INTERNAL, err)
	}
	if err := claims.Valid(); err != nil {
		return nil, nil
	}

	return &claims, nil
}

func CacheTokenClaims(ctx context.Context, tokenValue string, claims security.TokenClaims, cache types.Cache, ttl time.Duration) error {
	if cache == nil {
		return nil
	}
	raw, _ := json.Marshal(claims)
	return cache.SetEx(ctx, tokenCacheKey(tokenValue), string(raw), ttl)
}
