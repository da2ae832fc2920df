package rbac

import (
	"retail-ops-backend/models"
)

var (
	AllRoles = []models.UserRole{
		models.RoleCashier,
		models.RoleOperator,
		models.RoleStoreManager,
		models.RoleGeneralManager,
		models.RoleDirector,
		models.RoleAdmin,
	}
	// роли с уровнем согласования
	ApproverRoleSet = []models.UserRole{
		models.RoleStoreManager,
		models.RoleGeneralManager,
		models.RoleDirector,
		models.RoleAdmin,
	}
	ManagementRoleSet = []models.UserRole{
		models.RoleGeneralManager,
		models.RoleDirector,
		models.RoleAdmin,
	}
)

func (i *impl) initRules() {
	i.addApprovalRbac()
	i.addApprovalStatsRbac()
}

func (i *impl) addApprovalRbac() {
	//VIEW
	i.RegisterRule(models.ApprovalModule, models.ViewPermission, AllRoles, "/api/v1/ops/approval/list [post]", nil)
	i.RegisterRule(models.ApprovalModule, models.ViewPermission, AllRoles, "/api/v1/ops/approval/required_tier [post]", nil)
	i.RegisterRule(models.ApprovalModule, models.ViewPermission, AllRoles, "/api/v1/ops/approval/{id} [get]", nil)
	i.RegisterRule(models.ApprovalModule, models.ViewPermission, AllRoles, "/api/v1/ops/approval/{id}/history [get]", nil)
	i.RegisterRule(models.ApprovalModule, models.ViewPermission, ApproverRoleSet, "/api/v1/ops/approval/my_pending [get]", nil)
	//CREATE - заявку может подать любой сотрудник
	i.RegisterRule(models.ApprovalModule, models.CreatePermission, AllRoles, "/api/v1/ops/approval [post]", nil)
	//FLOW - решение требует уровня согласования; достаточность уровня проверяет движок
	i.RegisterRule(models.ApprovalModule, models.FlowPermission, ApproverRoleSet, "/api/v1/ops/approval/{id}/approve [put]", nil)
	i.RegisterRule(models.ApprovalModule, models.FlowPermission, ApproverRoleSet, "/api/v1/ops/approval/{id}/reject [put]", nil)
	i.RegisterRule(models.ApprovalModule, models.FlowPermission, ApproverRoleSet, "/api/v1/ops/approval/{id}/escalate [put]", nil)
	i.RegisterRule(models.ApprovalModule, models.FlowPermission, AllRoles, "/api/v1/ops/approval/{id}/comment [put]", nil)
}

func (i *impl) addApprovalStatsRbac() {
	// VIEW
	i.RegisterRule(models.ApprovalStatsModule, models.ViewPermission, ManagementRoleSet, "/api/v1/ops/approval/stats [post]", nil)
	i.RegisterRule(models.ApprovalStatsModule, models.ViewPermission, ManagementRoleSet, "/api/v1/ops/approval/stats_export [post]", nil)
}
