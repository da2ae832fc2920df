package approvalapimodels

import (
	"time"

	"github.com/pkg/errors"
	"retail-ops-backend/models"
	apimodels "retail-ops-backend/models/api"
	dbmodels "retail-ops-backend/models/db"
)

// Actor - сотрудник, выполняющий действие по заявке (из claims токена)
type Actor struct {
	ID   string          `json:"id"`
	Name string          `json:"name"`
	Role models.UserRole `json:"role"`
}

type ApprovalCreateData struct {
	Type        models.ApprovalType     `json:"type"`
	Amount      *float64                `json:"amount,omitempty"`
	EntityID    string                  `json:"entity_id,omitempty"`
	EntityType  string                  `json:"entity_type,omitempty"`
	Description string                  `json:"description"`
	Reason      string                  `json:"reason"`
	Priority    models.ApprovalPriority `json:"priority,omitempty"`
	Metadata    map[string]any          `json:"metadata,omitempty"`
}

func (d ApprovalCreateData) Validate() error {
	if !d.Type.IsValid() {
		return errors.Errorf("неизвестный тип заявки: %v", d.Type)
	}
	if d.Description == "" {
		return errors.New("отсутсвует описание заявки")
	}
	if d.Reason == "" {
		return errors.New("отсутсвует основание заявки")
	}
	if d.Amount != nil && *d.Amount < 0 {
		return errors.New("сумма заявки не может быть отрицательной")
	}
	return nil
}

type ApprovalActionData struct {
	Comment string `json:"comment,omitempty"`
}

type ApprovalRejectData struct {
	Reason string `json:"reason"`
}

func (d ApprovalRejectData) Validate() error {
	if d.Reason == "" {
		return errors.New("отсутсвует причина отклонения")
	}
	return nil
}

type ApprovalCommentData struct {
	Comment string `json:"comment"`
}

func (d ApprovalCommentData) Validate() error {
	if d.Comment == "" {
		return errors.New("отсутсвует комментарий")
	}
	return nil
}

type ApprovalFilter struct {
	apimodels.Pagination
	Type     models.ApprovalType   `json:"type,omitempty"`
	Status   models.ApprovalStatus `json:"status,omitempty"`
	BranchID string                `json:"branch_id,omitempty"`
}

type ApprovalView struct {
	ID                string                  `json:"id"`
	Number            string                  `json:"number"`
	Type              models.ApprovalType     `json:"type"`
	TypeName          string                  `json:"type_name"`
	Status            models.ApprovalStatus   `json:"status"`
	StatusName        string                  `json:"status_name"`
	CurrentTier       models.ApprovalTier     `json:"current_tier"`
	CurrentTierName   string                  `json:"current_tier_name"`
	Amount            *float64                `json:"amount,omitempty"`
	EntityID          string                  `json:"entity_id,omitempty"`
	EntityType        string                  `json:"entity_type,omitempty"`
	Description       string                  `json:"description"`
	Reason            string                  `json:"reason"`
	RequestedBy       string                  `json:"requested_by"`
	RequestedByName   string                  `json:"requested_by_name"`
	BranchID          string                  `json:"branch_id"`
	Priority          models.ApprovalPriority `json:"priority,omitempty"`
	ExpiresAt         *time.Time              `json:"expires_at,omitempty"`
	FinalApproverID   string                  `json:"final_approver_id,omitempty"`
	FinalApproverName string                  `json:"final_approver_name,omitempty"`
	FinalDecisionAt   *time.Time              `json:"final_decision_at,omitempty"`
	RejectionReason   string                  `json:"rejection_reason,omitempty"`
	Metadata          map[string]any          `json:"metadata,omitempty"`
	History           []ApprovalHistoryView   `json:"history"`
	CreatedAt         time.Time               `json:"created_at"`
	UpdatedAt         time.Time               `json:"updated_at"`
}

func ApprovalConvert(rec dbmodels.ApprovalRequest) ApprovalView {
	history := make([]ApprovalHistoryView, 0, len(rec.History))
	for _, entry := range rec.History {
		history = append(history, ApprovalHistoryConvert(entry))
	}
	return ApprovalView{
		ID:                rec.ID,
		Number:            rec.Number,
		Type:              rec.Type,
		TypeName:          rec.Type.ToHuman(),
		Status:            rec.Status,
		StatusName:        rec.Status.ToHuman(),
		CurrentTier:       rec.CurrentTier,
		CurrentTierName:   rec.CurrentTier.ToHuman(),
		Amount:            rec.Amount,
		EntityID:          rec.EntityID,
		EntityType:        rec.EntityType,
		Description:       rec.Description,
		Reason:            rec.Reason,
		RequestedBy:       rec.RequestedBy,
		RequestedByName:   rec.RequestedByName,
		BranchID:          rec.BranchID,
		Priority:          rec.Priority,
		ExpiresAt:         rec.ExpiresAt,
		FinalApproverID:   rec.FinalApproverID,
		FinalApproverName: rec.FinalApproverName,
		FinalDecisionAt:   rec.FinalDecisionAt,
		RejectionReason:   rec.RejectionReason,
		Metadata:          rec.Metadata,
		History:           history,
		CreatedAt:         rec.CreatedAt,
		UpdatedAt:         rec.UpdatedAt,
	}
}

type ApprovalHistoryView struct {
	ID        string                `json:"id"`
	Tier      models.ApprovalTier   `json:"tier"`
	TierName  string                `json:"tier_name"`
	ActorID   string                `json:"actor_id"`
	ActorName string                `json:"actor_name"`
	Action    models.ApprovalAction `json:"action"`
	Comment   string                `json:"comment,omitempty"`
	CreatedAt time.Time             `json:"created_at"`
}

func ApprovalHistoryConvert(rec dbmodels.ApprovalHistoryEntry) ApprovalHistoryView {
	return ApprovalHistoryView{
		ID:        rec.ID,
		Tier:      rec.Tier,
		TierName:  rec.Tier.ToHuman(),
		ActorID:   rec.ActorID,
		ActorName: rec.ActorName,
		Action:    rec.Action,
		Comment:   rec.Comment,
		CreatedAt: rec.CreatedAt,
	}
}
