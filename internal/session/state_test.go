package session

import (
	"testing"

	"github.com/angelmondragon/marketplace-backend/internal/users"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginTransitions(t *testing.T) {
	start := State{ID: "s1", Error: "old"}.LoginStart()
	assert.True(t, start.Loading)
	assert.Empty(t, start.Error)
	assert.False(t, start.Authenticated)

	ok := start.LoginSuccess(users.Profile{ID: "1", Role: enums.RoleBuyer})
	assert.True(t, ok.Authenticated)
	assert.False(t, ok.Loading)
	require.NotNil(t, ok.User)
	assert.Equal(t, "1", ok.UserID())

	failed := start.LoginFailure(MsgInvalidCredentials)
	assert.False(t, failed.Authenticated)
	assert.False(t, failed.Loading)
	assert.Nil(t, failed.User)
	assert.Equal(t, MsgInvalidCredentials, failed.Error)
	assert.Empty(t, failed.UserID())
}

func TestLogoutAndRegisterSuccess(t *testing.T) {
	authed := State{ID: "s1", ReturnTo: "/cart"}.LoginSuccess(users.Profile{ID: "1", Role: enums.RoleVendor})

	assert.Equal(t, authed, authed.RegisterSuccess())

	out := authed.Logout()
	assert.False(t, out.Authenticated)
	assert.Nil(t, out.User)
	assert.Empty(t, out.ReturnTo)
	assert.Equal(t, "s1", out.ID)
}

func TestTransitionsDoNotMutateReceiver(t *testing.T) {
	original := State{ID: "s1"}
	_ = original.LoginStart()
	assert.False(t, original.Loading)
}

func TestConsumeReturnToPrecedence(t *testing.T) {
	state := State{ReturnTo: "/orders"}

	next, target := state.ConsumeReturnTo("/cart")
	assert.Equal(t, "/cart", target)
	assert.Empty(t, next.ReturnTo)

	_, target = state.ConsumeReturnTo("")
	assert.Equal(t, "/orders", target)

	_, target = State{}.ConsumeReturnTo("")
	assert.Equal(t, "/dashboard", target)
}

func TestViewer(t *testing.T) {
	v := State{Authenticated: true, User: &users.Profile{Role: enums.RoleVendor}}.Viewer()
	assert.True(t, v.Authenticated)
	assert.Equal(t, enums.RoleVendor, v.Role)

	assert.True(t, State{Loading: true}.Viewer().Loading)
}
