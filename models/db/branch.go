package dbmodels

type Branch struct {
	BaseModel
	Name     string `gorm:"type:varchar(255)"`
	Code     string `gorm:"type:varchar(50);index"`
	City     string `gorm:"type:varchar(255)"`
	Address  string `gorm:"type:varchar(255)"`
	Phone    string `gorm:"type:varchar(50)"`
	IsActive bool   `gorm:"default:true"`
}
