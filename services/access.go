package services

import "sync"

type Role string

const (
	RoleOwner       Role = "owner"
	RoleOperator    Role = "operator"
	RoleDistributor Role = "distributor"
	RoleAdmin       Role = "admin"
)

// AccessControl maps principals to role sets. Every role-gated entry point
// checks here; there is no hierarchy, the owner simply holds every role.
type AccessControl struct {
	mu     sync.RWMutex
	grants map[string]map[Role]bool
}

func NewAccessControl(owner string) *AccessControl {
	ac := &AccessControl{grants: make(map[string]map[Role]bool)}
	for _, r := range []Role{RoleOwner, RoleOperator, RoleDistributor, RoleAdmin} {
		ac.set(owner, r, true)
	}
	return ac
}

func (ac *AccessControl) set(principal string, role Role, ok bool) {
	if ac.grants[principal] == nil {
		ac.grants[principal] = make(map[Role]bool)
	}
	ac.grants[principal][role] = ok
}

// Grant assigns a role. Only an owner may change grants.
func (ac *AccessControl) Grant(caller, principal string, role Role) error {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	if !ac.grants[caller][RoleOwner] {
		return ErrNotAuthorized
	}
	ac.set(principal, role, true)
	return nil
}

func (ac *AccessControl) Revoke(caller, principal string, role Role) error {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	if !ac.grants[caller][RoleOwner] {
		return ErrNotAuthorized
	}
	ac.set(principal, role, false)
	return nil
}

func (ac *AccessControl) Has(principal string, role Role) bool {
	ac.mu.RLock()
	defer ac.mu.RUnlock()
	return ac.grants[principal][role]
}

// Require returns ErrNotAuthorized unless principal holds role.
func (ac *AccessControl) Require(principal string, role Role) error {
	if !ac.Has(principal, role) {
		return ErrNotAuthorized
	}
	return nil
}
