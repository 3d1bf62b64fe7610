package tenant

import (
	"context"
	"testing"

	"github.com/okboz/okboz-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContext_Validate(t *testing.T) {
	assert.ErrorIs(t, Context{Role: user.RoleCorporate}.Validate(), ErrTenantRequired)
	assert.ErrorIs(t, Context{CorporateID: "c1", Role: "ghost"}.Validate(), user.ErrInvalidRole)
	assert.NoError(t, Context{CorporateID: "c1", Role: user.RoleCorporate}.Validate())
}

func TestContext_ActingAs(t *testing.T) {
	admin := Context{CorporateID: HeadOfficeID, Role: user.RoleAdmin, IsSuperAdmin: true}
	assert.True(t, admin.IsHeadOffice())

	scoped, err := admin.ActingAs("corp-7")
	require.NoError(t, err)
	assert.Equal(t, "corp-7", scoped.CorporateID)
	assert.Equal(t, HeadOfficeID, admin.CorporateID)

	same, err := admin.ActingAs("")
	require.NoError(t, err)
	assert.Equal(t, HeadOfficeID, same.CorporateID)

	corp := Context{CorporateID: "corp-1", Role: user.RoleCorporate}
	_, err = corp.ActingAs("corp-2")
	assert.ErrorIs(t, err, ErrCrossTenantAccess)

	self, err := corp.ActingAs("corp-1")
	require.NoError(t, err)
	assert.Equal(t, "corp-1", self.CorporateID)
}

func TestFromContext(t *testing.T) {
	_, err := FromContext(context.Background())
	assert.ErrorIs(t, err, ErrTenantRequired)

	tc := Context{CorporateID: "corp-1", UserID: "u1", Role: user.RoleManager}
	got, err := FromContext(WithContext(context.Background(), tc))
	require.NoError(t, err)
	assert.Equal(t, tc, got)
}

func TestNewChange(t *testing.T) {
	ev := NewChange(Context{CorporateID: "corp-1"}, EntityAdvance, ActionUpdated, "adv-1")
	assert.Equal(t, "corp-1", ev.CorporateID)
	assert.Equal(t, EntityAdvance, ev.Entity)
	assert.Equal(t, ActionUpdated, ev.Action)
	assert.False(t, ev.At.IsZero())
	assert.NoError(t, NopPublisher().PublishChange(context.Background(), ev))
}
