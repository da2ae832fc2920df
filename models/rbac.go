package models

type RbacFunc func(branchID, userID string, role UserRole, path string) bool

type Module string

const (
	ApprovalModule      Module = "APPROVAL"
	ApprovalStatsModule Module = "APPROVAL_STATS"
)

type Permission string

const (
	CreatePermission Permission = "CREATE"
	ViewPermission   Permission = "VIEW"
	FlowPermission   Permission = "FLOW"
)
