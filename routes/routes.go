// Package routes holds the navigation targets shared by the HTTP client's
// terminal auth handling and the route guards.
package routes

const (
	SignIn           = "/auth/sign-in"
	SignUp           = "/auth/sign-up"
	Forbidden        = "/error/403"
	NotFound         = "/error/404"
	DefaultDashboard = "/dashboard/default"
)
