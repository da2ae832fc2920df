package models

type UserRole string

const (
	RoleCashier        UserRole = "CASHIER"
	RoleOperator       UserRole = "OPERATOR"
	RoleStoreManager   UserRole = "STORE_MANAGER"
	RoleGeneralManager UserRole = "GENERAL_MANAGER"
	RoleDirector       UserRole = "DIRECTOR"
	RoleAdmin          UserRole = "ADMIN"
)

var roleHumanName = map[UserRole]string{
	RoleCashier:        "Кассир",
	RoleOperator:       "Оператор цеха",
	RoleStoreManager:   "Менеджер точки",
	RoleGeneralManager: "Управляющий",
	RoleDirector:       "Директор сети",
	RoleAdmin:          "Администратор",
}

func (r UserRole) ToHuman() string {
	if human, exist := roleHumanName[r]; exist {
		return human
	}
	return string(r)
}

const SystemUser = "Система"

// roleTier - соответствие организационной роли уровню согласования.
// Роли без уровня (кассир, оператор) не могут принимать решения по заявкам.
var roleTier = map[UserRole]ApprovalTier{
	RoleStoreManager:   TierManager,
	RoleGeneralManager: TierGeneralManager,
	RoleDirector:       TierDirector,
	RoleAdmin:          TierAdmin,
}

// ResolveTier возвращает уровень согласования роли.
// Для неизвестной роли или роли без уровня возвращает false, никогда не паникует.
func ResolveTier(role UserRole) (ApprovalTier, bool) {
	tier, ok := roleTier[role]
	return tier, ok
}

type UserStatus string

const (
	EmployeeWorkingStatus   UserStatus = "WORKING"
	EmployeeDismissedStatus UserStatus = "DISMISSED"
)

var userStatusHumanName = map[UserStatus]string{
	EmployeeWorkingStatus:   "Работает",
	EmployeeDismissedStatus: "Уволен",
}

func (r UserStatus) ToHuman() string {
	if human, exist := userStatusHumanName[r]; exist {
		return human
	}
	return string(r)
}
