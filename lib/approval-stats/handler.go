package approvalstats

import (
	"bytes"

	"github.com/pkg/errors"
	"retail-ops-backend/db"
	approvalstore "retail-ops-backend/lib/approval/store"
	xlsexport "retail-ops-backend/lib/export/xls"
	initchecker "retail-ops-backend/lib/utils/init-checker"
	"retail-ops-backend/models"
	approvalapimodels "retail-ops-backend/models/api/approval"
)

type Provider interface {
	Stats(filter approvalapimodels.StatsFilter) (approvalapimodels.ApprovalStatsView, error)
	StatsExportToXls(filter approvalapimodels.StatsFilter) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	instance := impl{
		store:     approvalstore.NewInstance(db.DB),
		xlsExport: xlsexport.Instance,
	}
	initchecker.CheckInit(
		"xlsExport", instance.xlsExport,
	)
	Instance = instance
}

// NewHandlerWithStore - сборка на подменяемом хранилище (для тестов)
func NewHandlerWithStore(store approvalstore.Provider) Provider {
	return impl{
		store:     store,
		xlsExport: xlsexport.Instance,
	}
}

type impl struct {
	store     approvalstore.Provider
	xlsExport xlsexport.Provider
}

func (i impl) Stats(filter approvalapimodels.StatsFilter) (approvalapimodels.ApprovalStatsView, error) {
	recList, err := i.store.ListForStats(filter)
	if err != nil {
		return approvalapimodels.ApprovalStatsView{}, errors.Wrap(err, "ошибка получения заявок для статистики")
	}
	result := approvalapimodels.ApprovalStatsView{
		ByType: map[models.ApprovalType]approvalapimodels.TypeStatsView{},
	}
	var approvalHoursSum float64
	for _, rec := range recList {
		result.Total++
		typeStats := result.ByType[rec.Type]
		switch rec.Status {
		case models.ApprovalStatusPending:
			result.Pending++
			typeStats.Pending++
		case models.ApprovalStatusApproved:
			result.Approved++
			typeStats.Approved++
			if rec.FinalDecisionAt != nil {
				approvalHoursSum += rec.FinalDecisionAt.Sub(rec.CreatedAt).Hours()
			}
		case models.ApprovalStatusRejected:
			result.Rejected++
			typeStats.Rejected++
		case models.ApprovalStatusExpired:
			result.Expired++
		}
		result.ByType[rec.Type] = typeStats
	}
	if result.Approved > 0 {
		result.AvgApprovalHours = approvalHoursSum / float64(result.Approved)
	}
	return result, nil
}

func (i impl) StatsExportToXls(filter approvalapimodels.StatsFilter) (*bytes.Buffer, error) {
	stats, err := i.Stats(filter)
	if err != nil {
		return nil, err
	}
	return i.xlsExport.ExportApprovalStats(stats)
}
