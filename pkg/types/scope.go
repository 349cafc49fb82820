package types

// AccessScope is the retrieval visibility derived from the caller's role and
// department. It is computed per request and never cached.
type AccessScope struct {
	kind       scopeKind
	department string
}

type scopeKind int8

const (
	scopeUnrestricted scopeKind = iota + 1
	scopeRestricted
	scopeGlobalOnly
)

func UnrestrictedScope() AccessScope {
	return AccessScope{kind: scopeUnrestricted}
}

func RestrictedScope(departmentID string) AccessScope {
	return AccessScope{kind: scopeRestricted, department: departmentID}
}

func GlobalOnlyScope() AccessScope {
	return AccessScope{kind: scopeGlobalOnly}
}

func (s AccessScope) IsUnrestricted() bool {
	return s.kind == scopeUnrestricted
}

// Tenants translates the scope into the tenant ids retrieval may match,
// combined with OR. Unrestricted returns (nil, false): no filter at all,
// which is different from a filter listing every tenant.
func (s AccessScope) Tenants() ([]string, bool) {
	switch s.kind {
	case scopeUnrestricted:
		return nil, false
	case scopeRestricted:
		return []string{s.department, GLOBAL_DEPARTMENT_ID}, true
	case scopeGlobalOnly:
		return []string{GLOBAL_DEPARTMENT_ID}, true
	default:
		// zero value: treat as most restrictive
		return []string{GLOBAL_DEPARTMENT_ID}, true
	}
}
