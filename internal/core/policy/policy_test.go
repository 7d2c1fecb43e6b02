package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skroflin/workforce-api/internal/core/domain"
)

func TestAuthorize_Table(t *testing.T) {
	testCases := []struct {
		role domain.Role
		op   Operation
		want Decision
	}{
		{domain.RoleAdmin, ReadOwn, Allow},
		{domain.RoleAdmin, Read, Allow},
		{domain.RoleAdmin, Write, Allow},
		{domain.RoleAdmin, DeleteAny, Allow},
		{domain.RoleAdmin, ManageIdentities, Allow},
		{domain.RoleUser, ReadOwn, Allow},
		{domain.RoleUser, Read, Allow},
		{domain.RoleUser, Write, Deny},
		{domain.RoleUser, DeleteAny, Deny},
		{domain.RoleUser, ManageIdentities, Deny},
		{domain.RoleAdmin, Operation("launch-missiles"), Deny},
	}

	for _, tc := range testCases {
		t.Run(string(tc.role)+"/"+string(tc.op), func(t *testing.T) {
			assert.Equal(t, tc.want, Authorize(tc.role, tc.op))
		})
	}
}

func TestAuthorize_UnknownRoleAlwaysDenied(t *testing.T) {
	for _, role := range []domain.Role{"", "ADMIN", "ROLE_ADMIN", "guest", "root"} {
		for _, op := range Operations() {
			assert.Equal(t, Deny, Authorize(role, op), "role %q op %q", role, op)
		}
	}
}

func TestEveryRoleHasAnEntry(t *testing.T) {
	for _, role := range Roles() {
		_, ok := table[role]
		assert.True(t, ok, "role %q missing from policy table", role)
	}
}

func TestCheck(t *testing.T) {
	require.NoError(t, Check(domain.RoleAdmin, DeleteAny))

	err := Check(domain.RoleUser, Write)
	require.ErrorIs(t, err, domain.ErrPolicyDenied)
}
