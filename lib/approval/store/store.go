package approvalstore

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"retail-ops-backend/models"
	approvalapimodels "retail-ops-backend/models/api/approval"
	dbmodels "retail-ops-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.ApprovalRequest) (id string, err error)
	GetByID(id string) (rec *dbmodels.ApprovalRequest, err error)
	ResolveIfPending(id string, updMap map[string]interface{}) (applied bool, err error)
	ResolveWithAudit(id string, updMap map[string]interface{}, entry dbmodels.ApprovalHistoryEntry) (applied bool, err error)
	EscalateWithAudit(id string, fromTier, toTier models.ApprovalTier, entry dbmodels.ApprovalHistoryEntry) (applied bool, err error)
	List(filter approvalapimodels.ApprovalFilter) (list []dbmodels.ApprovalRequest, err error)
	ListCount(filter approvalapimodels.ApprovalFilter) (rowCount int64, err error)
	ListPending(branchID string, tiers []models.ApprovalTier) (list []dbmodels.ApprovalRequest, err error)
	ListExpired(now time.Time) (list []dbmodels.ApprovalRequest, err error)
	AddHistory(entry dbmodels.ApprovalHistoryEntry) (id string, err error)
	ListForStats(filter approvalapimodels.StatsFilter) (list []dbmodels.ApprovalRequest, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.ApprovalRequest) (id string, err error) {
	err = i.db.
		Omit(clause.Associations).
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.ApprovalRequest, error) {
	rec := dbmodels.ApprovalRequest{}
	err := i.db.
		Where("id = ?", id).
		Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// ResolveIfPending - условное обновление, защищающее от гонки двух решений:
// статус меняется одним UPDATE c условием status = pending,
// проигравший гонку получает applied = false.
func (i impl) ResolveIfPending(id string, updMap map[string]interface{}) (applied bool, err error) {
	if len(updMap) == 0 {
		return false, nil
	}
	tx := i.db.
		Model(&dbmodels.ApprovalRequest{}).
		Where("id = ?", id).
		Where("status = ?", models.ApprovalStatusPending).
		Updates(updMap)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// ResolveWithAudit - решение и запись аудита одной транзакцией:
// заявка не может оказаться завершенной без следа в истории.
func (i impl) ResolveWithAudit(id string, updMap map[string]interface{}, entry dbmodels.ApprovalHistoryEntry) (applied bool, err error) {
	err = i.db.Transaction(func(tx *gorm.DB) error {
		res := tx.
			Model(&dbmodels.ApprovalRequest{}).
			Where("id = ?", id).
			Where("status = ?", models.ApprovalStatusPending).
			Updates(updMap)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		applied = true
		return tx.Save(&entry).Error
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}

// EscalateWithAudit - перевод заявки на следующий уровень, тем же условным
// UPDATE с записью аудита в одной транзакции
func (i impl) EscalateWithAudit(id string, fromTier, toTier models.ApprovalTier, entry dbmodels.ApprovalHistoryEntry) (applied bool, err error) {
	err = i.db.Transaction(func(tx *gorm.DB) error {
		res := tx.
			Model(&dbmodels.ApprovalRequest{}).
			Where("id = ?", id).
			Where("status = ?", models.ApprovalStatusPending).
			Where("current_tier = ?", fromTier).
			Updates(map[string]interface{}{
				"CurrentTier": toTier,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		applied = true
		return tx.Save(&entry).Error
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}

func (i impl) applyFilter(tx *gorm.DB, filter approvalapimodels.ApprovalFilter) *gorm.DB {
	if filter.Type != "" {
		tx = tx.Where("type = ?", filter.Type)
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", filter.Status)
	}
	if filter.BranchID != "" {
		tx = tx.Where("branch_id = ?", filter.BranchID)
	}
	return tx
}

func (i impl) List(filter approvalapimodels.ApprovalFilter) (list []dbmodels.ApprovalRequest, err error) {
	list = []dbmodels.ApprovalRequest{}
	page, limit := filter.GetPage()
	tx := i.applyFilter(i.db.Model(&dbmodels.ApprovalRequest{}), filter).
		Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit)
	err = tx.Find(&list).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return list, nil
}

func (i impl) ListCount(filter approvalapimodels.ApprovalFilter) (rowCount int64, err error) {
	tx := i.applyFilter(i.db.Model(&dbmodels.ApprovalRequest{}), filter)
	err = tx.Count(&rowCount).Error
	if err != nil {
		return 0, err
	}
	return rowCount, nil
}

// ListPending - ожидающие заявки, решение по которым доступно перечисленным уровням.
// Пустой branchID означает заявки всех филиалов.
func (i impl) ListPending(branchID string, tiers []models.ApprovalTier) (list []dbmodels.ApprovalRequest, err error) {
	list = []dbmodels.ApprovalRequest{}
	tx := i.db.
		Where("status = ?", models.ApprovalStatusPending).
		Where("current_tier IN ?", tiers)
	if branchID != "" {
		tx = tx.Where("branch_id = ?", branchID)
	}
	err = tx.
		Order("created_at ASC").
		Find(&list).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return list, nil
}

func (i impl) ListExpired(now time.Time) (list []dbmodels.ApprovalRequest, err error) {
	list = []dbmodels.ApprovalRequest{}
	err = i.db.
		Where("status = ?", models.ApprovalStatusPending).
		Where("expires_at IS NOT NULL").
		Where("expires_at <= ?", now).
		Find(&list).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return list, nil
}

func (i impl) AddHistory(entry dbmodels.ApprovalHistoryEntry) (id string, err error) {
	err = i.db.
		Save(&entry).
		Error
	if err != nil {
		return "", err
	}
	return entry.ID, nil
}

func (i impl) ListForStats(filter approvalapimodels.StatsFilter) (list []dbmodels.ApprovalRequest, err error) {
	list = []dbmodels.ApprovalRequest{}
	tx := i.db.Model(&dbmodels.ApprovalRequest{})
	if filter.BranchID != "" {
		tx = tx.Where("branch_id = ?", filter.BranchID)
	}
	if filter.DateFrom != nil {
		tx = tx.Where("created_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		tx = tx.Where("created_at <= ?", *filter.DateTo)
	}
	err = tx.Find(&list).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return list, nil
}
