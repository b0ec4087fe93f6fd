package api

// Route prefixes for the HTTP surface
const (
	AccountsPrefix     = "/api/accounts"
	ScholarshipsPrefix = "/api/scholarships"
	ApplicationsPrefix = "/api/applications"
	DocumentsPrefix    = "/api/documents"
	ReportsPrefix      = "/api/reports"
	MetricsPath        = "/metrics"
)

// Account endpoints
const (
	AccountCreate       = AccountsPrefix + "/create"
	AccountLogin        = AccountsPrefix + "/login"
	AccountLock         = AccountsPrefix + "/lock/:id"
	AccountUnlock       = AccountsPrefix + "/unlock/:id"
	AccountSetPassword  = AccountsPrefix + "/password/set"
	AccountChangePass   = AccountsPrefix + "/password/change"
	AccountRoleRequests = AccountsPrefix + "/role-requests"
	AccountRoleUpdate   = AccountsPrefix + "/role-update/:id"
	AccountRoleApprove  = AccountsPrefix + "/role-approve/:id"
	AccountPendingCount = AccountsPrefix + "/role-requests/count"
	AccountLockedCount  = AccountsPrefix + "/locked/count"
	AccountList         = AccountsPrefix + "/users"
	AccountDetail       = AccountsPrefix + "/users/:id"
	AccountHistory      = AccountsPrefix + "/users/:id/history"
	AccountMe           = AccountsPrefix + "/me"
)
