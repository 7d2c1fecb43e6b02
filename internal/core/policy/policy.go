// Package policy decides whether a role may perform an operation category.
package policy

import (
	"fmt"

	"github.com/skroflin/workforce-api/internal/core/domain"
)

// Operation is a coarse class of action an endpoint performs.
type Operation string

const (
	ReadOwn          Operation = "read-own"
	Read             Operation = "read"
	Write            Operation = "write"
	DeleteAny        Operation = "delete-any"
	ManageIdentities Operation = "manage-identities"
)

// Decision is the outcome of Authorize.
type Decision bool

const (
	Deny  Decision = false
	Allow Decision = true
)

func (d Decision) String() string {
	if d {
		return "allow"
	}
	return "deny"
}

type opSet map[Operation]struct{}

func newOpSet(ops ...Operation) opSet {
	s := make(opSet, len(ops))
	for _, op := range ops {
		s[op] = struct{}{}
	}
	return s
}

// table is never written after package init.
var table = map[domain.Role]opSet{
	domain.RoleAdmin: newOpSet(ReadOwn, Read, Write, DeleteAny, ManageIdentities),
	domain.RoleUser:  newOpSet(ReadOwn, Read),
}

// Authorize reports whether role may perform op. Unknown roles and unknown
// operations are denied.
func Authorize(role domain.Role, op Operation) Decision {
	ops, ok := table[role]
	if !ok {
		return Deny
	}
	_, ok = ops[op]
	return Decision(ok)
}

// Check is Authorize as an error: nil on allow, domain.ErrPolicyDenied on deny.
func Check(role domain.Role, op Operation) error {
	if Authorize(role, op) == Deny {
		return fmt.Errorf("role %q cannot %s: %w", role, op, domain.ErrPolicyDenied)
	}
	return nil
}

// Roles lists the roles the table knows about.
func Roles() []domain.Role {
	return []domain.Role{domain.RoleAdmin, domain.RoleUser}
}

// Operations lists every operation category.
func Operations() []Operation {
	return []Operation{ReadOwn, Read, Write, DeleteAny, ManageIdentities}
}
