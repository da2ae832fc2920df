package approvalapimodels

import (
	"time"

	"retail-ops-backend/models"
)

type StatsFilter struct {
	BranchID string     `json:"branch_id,omitempty"`
	DateFrom *time.Time `json:"date_from,omitempty"`
	DateTo   *time.Time `json:"date_to,omitempty"`
}

type TypeStatsView struct {
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}

type ApprovalStatsView struct {
	Total            int64                                  `json:"total"`
	Pending          int64                                  `json:"pending"`
	Approved         int64                                  `json:"approved"`
	Rejected         int64                                  `json:"rejected"`
	Expired          int64                                  `json:"expired"`
	ByType           map[models.ApprovalType]TypeStatsView  `json:"by_type"`
	AvgApprovalHours float64                                `json:"avg_approval_hours"` // среднее время согласования по одобренным заявкам
}
