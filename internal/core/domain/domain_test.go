package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLandingRoute(t *testing.T) {
	assert.Equal(t, RouteDashboard, LandingRoute(RoleAdmin))
	assert.Equal(t, RouteDashboard, LandingRoute(RoleManager))
	assert.Equal(t, RouteDriver, LandingRoute(RoleDriver))
	assert.Equal(t, RouteAccount, LandingRoute(RoleCustomer))
	assert.Equal(t, RouteLogin, LandingRoute(""))
	assert.Equal(t, RouteLogin, LandingRoute("admin"))
}

func TestSessionState_CanTransitionTo(t *testing.T) {
	assert.True(t, StateAnonymous.CanTransitionTo(StateAuthenticating))
	assert.True(t, StateAuthenticating.CanTransitionTo(StateAuthenticated))
	assert.True(t, StateAuthenticating.CanTransitionTo(StateAnonymous))
	assert.True(t, StateAuthenticated.CanTransitionTo(StateAnonymous))
	assert.False(t, StateAuthenticated.CanTransitionTo(StateAuthenticating))
}

func TestIdentityError(t *testing.T) {
	err := NewIdentityError(CodeWrongPassword, nil)
	assert.Equal(t, "Incorrect password", err.Message)
	assert.False(t, err.Silent())
	assert.Equal(t, "auth/wrong-password: Incorrect password", err.Error())

	closed := NewIdentityError(CodePopupClosed, nil)
	assert.True(t, closed.Silent())
	assert.Empty(t, closed.Message)

	assert.Equal(t, "Failed to sign in. Please try again", IdentityMessage("auth/unknown"))
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "300.00", (BaseFee + Dollars(250, 0)).String())
	assert.Equal(t, "-0.05", Money(-5).String())

	var q struct {
		Price Money `json:"price"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"price":"299.99"}`), &q))
	assert.Equal(t, Money(29999), q.Price)
	require.NoError(t, json.Unmarshal([]byte(`{"price":12.5}`), &q))
	assert.Equal(t, Money(1250), q.Price)

	out, err := json.Marshal(q)
	require.NoError(t, err)
	assert.JSONEq(t, `{"price":12.50}`, string(out))
}

func TestValidationErrors_Error(t *testing.T) {
	err := ValidationErrors{"b": "second", "a": "first"}
	assert.Equal(t, "first; second", err.Error())
}

func TestBookingForm_QuoteRequest(t *testing.T) {
	f := BookingForm{JobType: JobCommercial, ServiceType: ServicePalletDelivery, PickupCity: "A", DeliveryCity: "B", WeightLbs: 900, PalletCount: 4, RoomCount: 2}
	q := f.QuoteRequest()
	assert.Equal(t, 900.0, q.Weight)
	assert.Equal(t, 4, q.PalletCount)
	assert.Zero(t, q.RoomCount)
}

func TestTheme(t *testing.T) {
	assert.Equal(t, ThemeLight, ThemeDark.Toggle())
	assert.Equal(t, ThemeDark, ThemeLight.Toggle())
	_, err := ParseTheme("blue")
	assert.ErrorIs(t, err, ErrInvalidTheme)
}

func TestDecodeList(t *testing.T) {
	bare, err := DecodeList[Warehouse]([]byte(` [{"id":1,"name":"North"}]`))
	require.NoError(t, err)
	require.Len(t, bare, 1)
	assert.Equal(t, "North", bare[0].Name)

	paged, err := DecodeList[Warehouse]([]byte(`{"count":2,"next":null,"previous":null,"results":[{"id":1},{"id":2}]}`))
	require.NoError(t, err)
	assert.Len(t, paged, 2)

	_, err = DecodeList[Warehouse]([]byte(`"nope"`))
	assert.Error(t, err)
}

func TestSignUpError(t *testing.T) {
	err := NewSignUpError(CodeEmailInUse, nil)
	assert.Equal(t, "An account with this email already exists", err.Message)
	assert.Equal(t, "Failed to create account. Please try again", NewSignUpError("auth/unknown", nil).Message)
}

func TestRegistration_DisplayName(t *testing.T) {
	reg := Registration{FirstName: " Ana ", LastName: "Ruiz"}
	assert.Equal(t, "Ana Ruiz", reg.DisplayName())
}
