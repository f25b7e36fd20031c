package domain

const (
	RouteLogin     = "/login"
	RouteDashboard = "/dashboard"
	RouteDriver    = "/driver/jobs"
	RouteAccount   = "/account/orders"
)

var landingRoutes = map[Role]string{
	RoleAdmin:    RouteDashboard,
	RoleManager:  RouteDashboard,
	RoleDriver:   RouteDriver,
	RoleCustomer: RouteAccount,
}

// LandingRoute returns where a freshly authenticated user is sent.
// Unknown roles go back to the login page.
func LandingRoute(role Role) string {
	if r, ok := landingRoutes[role]; ok {
		return r
	}
	return RouteLogin
}
