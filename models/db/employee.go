package dbmodels

import (
	"fmt"
	"strings"

	"retail-ops-backend/models"
)

type Employee struct {
	BaseBranchModel
	FirstName string `gorm:"type:varchar(255)"`
	LastName  string `gorm:"type:varchar(255)"`
	Email     string `gorm:"type:varchar(255);index"`
	Phone     string `gorm:"type:varchar(50)"`
	Role      models.UserRole
	Status    models.UserStatus
}

func (e Employee) GetFullName() string {
	return strings.TrimSpace(fmt.Sprintf("%v %v", e.FirstName, e.LastName))
}
