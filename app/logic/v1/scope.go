package v1

import (
	"github.com/knova-ai/knova/pkg/security"
	"github.com/knova-ai/knova/pkg/types"
)

// ResolveAccessScope derives retrieval visibility from the caller identity.
// Pure function of role and department, no I/O:
//   - admin gets corpus-wide visibility (no filter at all)
//   - member with a department sees that department OR the global corpus
//   - member without a department sees the global corpus only
func ResolveAccessScope(claims security.TokenClaims) types.AccessScope {
	if claims.Role == types.USER_ROLE_ADMIN {
		return types.UnrestrictedScope()
	}
	if claims.Department != "" {
		return types.RestrictedScope(claims.Department)
	}
	return types.GlobalOnlyScope()
}
