package apiclient

import "fmt"

// Backend endpoint paths, relative to the configured API base URL.
const (
	EndpointAuthLogin   = "/auth/login"
	EndpointAuthLogout  = "/auth/logout"
	EndpointAuthRefresh = "/auth/refresh"

	EndpointUsersRegister            = "/users/register"
	EndpointUsersList                = "/users"
	EndpointUsersValidateCredentials = "/users/validate-credentials"

	EndpointAdminPermissionsAvailable = "/admin/permissions/available"
	EndpointAdminPermissionsGrant     = "/admin/permissions/grant"
	EndpointAdminPermissionsRevoke    = "/admin/permissions/revoke"

	EndpointInvestments  = "/investments"
	EndpointTransactions = "/transactions"
)

// Pagination defaults shared by the list endpoints.
const (
	DefaultPage = 0
	DefaultSize = 20
)

func UserPath(userID int64) string {
	return fmt.Sprintf("/users/%d", userID)
}

func UserInfoPath(userID int64) string {
	return fmt.Sprintf("/users/%d/info", userID)
}

func UserRolesPath(userID int64) string {
	return fmt.Sprintf("/users/%d/roles", userID)
}

func AdminUserPermissionsPath(userID int64) string {
	return fmt.Sprintf("/admin/permissions/user/%d", userID)
}

func AdminUserHasPermissionPath(userID int64, permission string) string {
	return fmt.Sprintf("/admin/permissions/user/%d/has/%s", userID, permission)
}

func InvestmentPath(investmentID int64) string {
	return fmt.Sprintf("/investments/%d", investmentID)
}

func UserTransactionsPath(userID int64) string {
	return fmt.Sprintf("/transactions/user/%d", userID)
}

func UserPortfolioPath(userID int64) string {
	return fmt.Sprintf("/portfolio/user/%d", userID)
}
