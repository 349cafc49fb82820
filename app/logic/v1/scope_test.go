package v1_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	v1 "github.com/knova-ai/knova/app/logic/v1"
	"github.com/knova-ai/knova/pkg/security"
	"github.com/knova-ai/knova/pkg/types"
)

func TestResolveAccessScope(t *testing.T) {
	tests := []struct {
		name         string
		claims       security.TokenClaims
		wantTenants  []string
		unrestricted bool
	}{
		{
			name:         "admin sees everything",
			claims:       security.TokenClaims{User: "u1", Role: types.USER_ROLE_ADMIN, Department: "hr"},
			unrestricted: true,
		},
		{
			name:        "member with department",
			claims:      security.TokenClaims{User: "u2", Role: types.USER_ROLE_MEMBER, Department: "hr"},
			wantTenants: []string{"hr", types.GLOBAL_DEPARTMENT_ID},
		},
		{
			name:        "member without department",
			claims:      security.TokenClaims{User: "u3", Role: types.USER_ROLE_MEMBER},
			wantTenants: []string{types.GLOBAL_DEPARTMENT_ID},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scope := v1.ResolveAccessScope(tt.claims)
			tenants, restricted := scope.Tenants()
			if tt.unrestricted {
				assert.True(t, scope.IsUnrestricted())
				assert.False(t, restricted)
				assert.Nil(t, tenants)
				return
			}
			assert.True(t, restricted)
			assert.Equal(t, tt.wantTenants, tenants)
		})
	}
}
