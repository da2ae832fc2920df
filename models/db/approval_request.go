package dbmodels

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"retail-ops-backend/models"
)

type ApprovalRequest struct {
	BaseBranchModel
	Number            string                 `gorm:"type:varchar(36);index"`
	Type              models.ApprovalType    `gorm:"type:varchar(100);index"`
	Status            models.ApprovalStatus  `gorm:"type:varchar(50);index"`
	CurrentTier       models.ApprovalTier    `gorm:"type:varchar(100)"`
	Amount            *float64
	EntityID          string `gorm:"type:varchar(36)"`
	EntityType        string `gorm:"type:varchar(100)"`
	Description       string
	Reason            string
	RequestedBy       string `gorm:"type:varchar(36);index"`
	RequestedByName   string `gorm:"type:varchar(255)"`
	Priority          models.ApprovalPriority `gorm:"type:varchar(50)"`
	ExpiresAt         *time.Time              `gorm:"index"`
	FinalApproverID   string                  `gorm:"type:varchar(36)"`
	FinalApproverName string                  `gorm:"type:varchar(255)"`
	FinalDecisionAt   *time.Time
	RejectionReason   string
	NotifyChannels    pq.StringArray `gorm:"type:text[]"`
	Metadata          Metadata       `gorm:"type:jsonb"`
	History           []ApprovalHistoryEntry `gorm:"foreignKey:RequestID"`
}

// ApprovalHistoryEntry - запись аудита решения по заявке.
// Записи только добавляются, методов изменения/удаления у хранилища нет.
type ApprovalHistoryEntry struct {
	BaseModel
	RequestID string              `gorm:"type:varchar(36);index"`
	Tier      models.ApprovalTier `gorm:"type:varchar(100)"`
	ActorID   string              `gorm:"type:varchar(36)"`
	ActorName string              `gorm:"type:varchar(255)"`
	Action    models.ApprovalAction `gorm:"type:varchar(50)"`
	Comment   string
}

type Metadata map[string]any

func (j Metadata) Value() (driver.Value, error) {
	if j == nil {
		return "{}", nil
	}
	valueString, err := json.Marshal(j)
	return string(valueString), err
}

func (j *Metadata) Scan(value any) error {
	if value == nil {
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.Errorf("неподдерживаемый тип jsonb: %T", value)
	}
	return json.Unmarshal(data, j)
}
