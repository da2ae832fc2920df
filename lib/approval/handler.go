package approvalhandler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"retail-ops-backend/db"
	approvalstore "retail-ops-backend/lib/approval/store"
	approvalworkflow "retail-ops-backend/lib/approval/workflow"
	employeestore "retail-ops-backend/lib/employee/store"
	"retail-ops-backend/lib/notify"
	"retail-ops-backend/lib/utils/helpers"
	"retail-ops-backend/models"
	approvalapimodels "retail-ops-backend/models/api/approval"
	dbmodels "retail-ops-backend/models/db"
)

const minRejectReasonLen = 3

type Provider interface {
	Create(branchID string, actor approvalapimodels.Actor, data approvalapimodels.ApprovalCreateData) (id string, err error)
	GetByID(id string) (item approvalapimodels.ApprovalView, err error)
	RequiredTier(approvalType models.ApprovalType, amount *float64) models.ApprovalTier
	Approve(id string, actor approvalapimodels.Actor, comment string) error
	Reject(id string, actor approvalapimodels.Actor, reason string) error
	Escalate(id string, actor approvalapimodels.Actor, comment string) error
	Comment(id string, actor approvalapimodels.Actor, comment string) error
	List(filter approvalapimodels.ApprovalFilter) (list []approvalapimodels.ApprovalView, rowCount int64, err error)
	PendingForActor(branchID string, actor approvalapimodels.Actor) (list []approvalapimodels.ApprovalView, err error)
	SweepExpired(ctx context.Context, now time.Time) (expiredCount int)
}

var Instance Provider

func NewHandler(registry *approvalworkflow.Registry) {
	Instance = impl{
		registry:      registry,
		store:         approvalstore.NewInstance(db.DB),
		employeeStore: employeestore.NewInstance(db.DB),
		notifier:      notify.Instance,
	}
}

// NewHandlerWithDeps собирает движок на подменяемых зависимостях (для тестов)
func NewHandlerWithDeps(registry *approvalworkflow.Registry, store approvalstore.Provider, employeeStore employeestore.Provider, notifier notify.Provider) Provider {
	return impl{
		registry:      registry,
		store:         store,
		employeeStore: employeeStore,
		notifier:      notifier,
	}
}

type impl struct {
	registry      *approvalworkflow.Registry
	store         approvalstore.Provider
	employeeStore employeestore.Provider
	notifier      notify.Provider
}

func (i impl) GetLogger(id string) *log.Entry {
	return log.WithField("approval_id", id)
}

func (i impl) Create(branchID string, actor approvalapimodels.Actor, data approvalapimodels.ApprovalCreateData) (id string, err error) {
	logger := log.
		WithField("branch_id", branchID).
		WithField("approval_type", data.Type)
	if actor.Name == "" {
		emp, err := i.employeeStore.GetByID(actor.ID)
		if err != nil {
			logger.WithError(err).Error("Ошибка получения сотрудника из справочника")
		}
		if emp != nil {
			actor.Name = emp.GetFullName()
		}
	}
	now := time.Now()
	rec := dbmodels.ApprovalRequest{
		BaseBranchModel: dbmodels.BaseBranchModel{
			BranchID: branchID,
		},
		Number:          fmt.Sprintf("AP-%s", strings.ToUpper(uuid.New().String()[:8])),
		Type:            data.Type,
		Status:          models.ApprovalStatusPending,
		CurrentTier:     i.registry.RequiredTier(data.Type, data.Amount),
		Amount:          data.Amount,
		EntityID:        data.EntityID,
		EntityType:      data.EntityType,
		Description:     data.Description,
		Reason:          data.Reason,
		RequestedBy:     actor.ID,
		RequestedByName: actor.Name,
		Priority:        data.Priority,
		ExpiresAt:       i.registry.ExpiresAt(data.Type, now),
		NotifyChannels:  i.registry.NotifyChannels(data.Type),
		Metadata:        data.Metadata,
	}
	if rec.Priority == "" {
		rec.Priority = models.ApprovalPriorityNormal
	}
	id, err = i.store.Create(rec)
	if err != nil {
		logger.
			WithField("request", fmt.Sprintf("%+v", data)).
			WithError(err).
			Error("Ошибка создания заявки на согласование")
		return "", errors.Wrap(err, "ошибка сохранения заявки")
	}
	rec.ID = id
	go i.notifier.ApprovalEvent(rec, "created")
	logger.
		WithField("approval_id", id).
		WithField("current_tier", rec.CurrentTier).
		Info("Создана заявка на согласование")
	return id, nil
}

func (i impl) GetByID(id string) (approvalapimodels.ApprovalView, error) {
	rec, err := i.getRec(id)
	if err != nil {
		return approvalapimodels.ApprovalView{}, err
	}
	return approvalapimodels.ApprovalConvert(*rec), nil
}

// RequiredTier - предпросмотр требуемого уровня до подачи заявки
func (i impl) RequiredTier(approvalType models.ApprovalType, amount *float64) models.ApprovalTier {
	return i.registry.RequiredTier(approvalType, amount)
}

func (i impl) Approve(id string, actor approvalapimodels.Actor, comment string) error {
	logger := i.GetLogger(id).
		WithField("actor_id", actor.ID)
	rec, err := i.getRec(id)
	if err != nil {
		return err
	}
	if rec.Status != models.ApprovalStatusPending {
		return ErrNotPending
	}
	actorTier, err := i.requireTier(actor, rec.CurrentTier)
	if err != nil {
		return err
	}
	now := time.Now()
	applied, err := i.store.ResolveWithAudit(id, map[string]interface{}{
		"Status":            models.ApprovalStatusApproved,
		"FinalApproverID":   actor.ID,
		"FinalApproverName": actor.Name,
		"FinalDecisionAt":   &now,
	}, historyEntry(rec.ID, actorTier, actor, models.ApprovalActionApprove, comment))
	if err != nil {
		logger.WithError(err).Error("Ошибка согласования заявки")
		return errors.Wrap(err, "ошибка обновления заявки")
	}
	if !applied {
		return ErrNotPending
	}
	rec.Status = models.ApprovalStatusApproved
	go i.notifier.ApprovalEvent(*rec, "approved")
	logger.Info("Заявка согласована")
	return nil
}

func (i impl) Reject(id string, actor approvalapimodels.Actor, reason string) error {
	logger := i.GetLogger(id).
		WithField("actor_id", actor.ID)
	if len([]rune(strings.TrimSpace(reason))) < minRejectReasonLen {
		return ErrInvalidReason
	}
	rec, err := i.getRec(id)
	if err != nil {
		return err
	}
	if rec.Status != models.ApprovalStatusPending {
		return ErrNotPending
	}
	actorTier, err := i.requireTier(actor, rec.CurrentTier)
	if err != nil {
		return err
	}
	now := time.Now()
	applied, err := i.store.ResolveWithAudit(id, map[string]interface{}{
		"Status":            models.ApprovalStatusRejected,
		"FinalApproverID":   actor.ID,
		"FinalApproverName": actor.Name,
		"FinalDecisionAt":   &now,
		"RejectionReason":   reason,
	}, historyEntry(rec.ID, actorTier, actor, models.ApprovalActionReject, reason))
	if err != nil {
		logger.WithError(err).Error("Ошибка отклонения заявки")
		return errors.Wrap(err, "ошибка обновления заявки")
	}
	if !applied {
		return ErrNotPending
	}
	rec.Status = models.ApprovalStatusRejected
	go i.notifier.ApprovalEvent(*rec, "rejected")
	logger.Info("Заявка отклонена")
	return nil
}

// Escalate передает решение на следующий уровень единой иерархии.
// Достаточность уровня не проверяется: эскалация и есть способ
// передать наверх заявку, решить которую сотрудник не вправе.
func (i impl) Escalate(id string, actor approvalapimodels.Actor, comment string) error {
	logger := i.GetLogger(id).
		WithField("actor_id", actor.ID)
	rec, err := i.getRec(id)
	if err != nil {
		return err
	}
	if rec.Status != models.ApprovalStatusPending {
		return ErrNotPending
	}
	actorTier, ok := models.ResolveTier(actor.Role)
	if !ok {
		return ErrNoTierAssigned
	}
	nextTier, ok := models.NextTier(rec.CurrentTier)
	if !ok {
		return ErrCannotEscalateFurther
	}
	applied, err := i.store.EscalateWithAudit(id, rec.CurrentTier, nextTier,
		historyEntry(rec.ID, actorTier, actor, models.ApprovalActionEscalate, comment))
	if err != nil {
		logger.WithError(err).Error("Ошибка эскалации заявки")
		return errors.Wrap(err, "ошибка обновления заявки")
	}
	if !applied {
		return ErrNotPending
	}
	rec.CurrentTier = nextTier
	go i.notifier.ApprovalEvent(*rec, "escalated")
	logger.
		WithField("current_tier", nextTier).
		Info("Заявка передана на следующий уровень")
	return nil
}

// Comment допустим в любом статусе и никогда не меняет статус заявки
func (i impl) Comment(id string, actor approvalapimodels.Actor, comment string) error {
	rec, err := i.getRec(id)
	if err != nil {
		return err
	}
	actorTier, ok := models.ResolveTier(actor.Role)
	if !ok {
		actorTier = models.LowestTier()
	}
	i.audit(rec.ID, actorTier, actor, models.ApprovalActionComment, comment)
	return nil
}

func (i impl) List(filter approvalapimodels.ApprovalFilter) (list []approvalapimodels.ApprovalView, rowCount int64, err error) {
	rowCount, err = i.store.ListCount(filter)
	if err != nil {
		return nil, 0, errors.Wrap(err, "ошибка получения списка заявок")
	}
	recList, err := i.store.List(filter)
	if err != nil {
		return nil, 0, errors.Wrap(err, "ошибка получения списка заявок")
	}
	result := make([]approvalapimodels.ApprovalView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, approvalapimodels.ApprovalConvert(rec))
	}
	return result, rowCount, nil
}

// PendingForActor - ожидающие заявки, решение по которым доступно сотруднику.
// Уровни директора и выше видят заявки всех филиалов.
func (i impl) PendingForActor(branchID string, actor approvalapimodels.Actor) ([]approvalapimodels.ApprovalView, error) {
	actorTier, ok := models.ResolveTier(actor.Role)
	if !ok {
		return nil, ErrNoTierAssigned
	}
	actorLevel := models.TierLevel(actorTier)
	coveredTiers := make([]models.ApprovalTier, 0, actorLevel+1)
	for _, tier := range models.TierHierarchy[:actorLevel+1] {
		coveredTiers = append(coveredTiers, tier)
	}
	if actorTier.IsBranchAgnostic() {
		branchID = ""
	}
	recList, err := i.store.ListPending(branchID, coveredTiers)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения списка заявок")
	}
	result := make([]approvalapimodels.ApprovalView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, approvalapimodels.ApprovalConvert(rec))
	}
	return result, nil
}

// SweepExpired переводит просроченные ожидающие заявки в expired.
// Каждая заявка обрабатывается отдельно: сбой по одной не прерывает обход,
// условие status = pending делает повторный запуск безопасным.
func (i impl) SweepExpired(ctx context.Context, now time.Time) (expiredCount int) {
	logger := log.WithField("job", "approval_expire_sweep")
	recList, err := i.store.ListExpired(now)
	if err != nil {
		logger.WithError(err).Error("Ошибка получения списка просроченных заявок")
		return 0
	}
	for _, rec := range recList {
		if helpers.IsContextDone(ctx) {
			return expiredCount
		}
		applied, err := i.store.ResolveIfPending(rec.ID, map[string]interface{}{
			"Status": models.ApprovalStatusExpired,
		})
		if err != nil {
			logger.
				WithError(err).
				WithField("approval_id", rec.ID).
				Error("Ошибка перевода заявки в просроченные")
			continue
		}
		if !applied {
			// заявку успели решить между выборкой и обновлением
			continue
		}
		expiredCount++
		rec.Status = models.ApprovalStatusExpired
		go i.notifier.ApprovalEvent(rec, "expired")
	}
	return expiredCount
}

func (i impl) getRec(id string) (*dbmodels.ApprovalRequest, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		i.GetLogger(id).WithError(err).Error("Ошибка получения заявки")
		return nil, errors.Wrap(err, "ошибка получения заявки")
	}
	if rec == nil {
		return nil, ErrNotFound
	}
	return rec, nil
}

func (i impl) requireTier(actor approvalapimodels.Actor, requiredTier models.ApprovalTier) (models.ApprovalTier, error) {
	actorTier, ok := models.ResolveTier(actor.Role)
	if !ok {
		return "", ErrNoTierAssigned
	}
	if !models.TierCovers(actorTier, requiredTier) {
		return "", ErrUnauthorized
	}
	return actorTier, nil
}

func historyEntry(requestID string, tier models.ApprovalTier, actor approvalapimodels.Actor, action models.ApprovalAction, comment string) dbmodels.ApprovalHistoryEntry {
	return dbmodels.ApprovalHistoryEntry{
		RequestID: requestID,
		Tier:      tier,
		ActorID:   actor.ID,
		ActorName: actor.Name,
		Action:    action,
		Comment:   comment,
	}
}

// audit - запись истории вне смены статуса (комментарии);
// сбой записи логируется и не прерывает операцию
func (i impl) audit(requestID string, tier models.ApprovalTier, actor approvalapimodels.Actor, action models.ApprovalAction, comment string) {
	_, err := i.store.AddHistory(historyEntry(requestID, tier, actor, action, comment))
	if err != nil {
		i.GetLogger(requestID).WithError(err).Error("Ошибка добавления записи в историю согласования")
	}
}
