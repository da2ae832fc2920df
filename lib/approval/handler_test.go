package approvalhandler

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	approvalstore "retail-ops-backend/lib/approval/store"
	approvalworkflow "retail-ops-backend/lib/approval/workflow"
	"retail-ops-backend/models"
	approvalapimodels "retail-ops-backend/models/api/approval"
	dbmodels "retail-ops-backend/models/db"
)

type fakeStore struct {
	mx        sync.Mutex
	recs      map[string]*dbmodels.ApprovalRequest
	history   []dbmodels.ApprovalHistoryEntry
	failAudit bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		recs: map[string]*dbmodels.ApprovalRequest{},
	}
}

func (f *fakeStore) Create(rec dbmodels.ApprovalRequest) (string, error) {
	f.mx.Lock()
	defer f.mx.Unlock()
	rec.ID = uuid.New().String()
	rec.CreatedAt = time.Now()
	f.recs[rec.ID] = &rec
	return rec.ID, nil
}

func (f *fakeStore) GetByID(id string) (*dbmodels.ApprovalRequest, error) {
	f.mx.Lock()
	defer f.mx.Unlock()
	rec, ok := f.recs[id]
	if !ok {
		return nil, nil
	}
	clone := *rec
	clone.History = nil
	for _, entry := range f.history {
		if entry.RequestID == id {
			clone.History = append(clone.History, entry)
		}
	}
	return &clone, nil
}

func (f *fakeStore) ResolveIfPending(id string, updMap map[string]interface{}) (bool, error) {
	f.mx.Lock()
	defer f.mx.Unlock()
	rec, ok := f.recs[id]
	if !ok || rec.Status != models.ApprovalStatusPending {
		return false, nil
	}
	for field, value := range updMap {
		switch field {
		case "Status":
			rec.Status = value.(models.ApprovalStatus)
		case "FinalApproverID":
			rec.FinalApproverID = value.(string)
		case "FinalApproverName":
			rec.FinalApproverName = value.(string)
		case "FinalDecisionAt":
			rec.FinalDecisionAt = value.(*time.Time)
		case "RejectionReason":
			rec.RejectionReason = value.(string)
		default:
			return false, errors.Errorf("неизвестное поле: %s", field)
		}
	}
	return true, nil
}

func (f *fakeStore) ResolveWithAudit(id string, updMap map[string]interface{}, entry dbmodels.ApprovalHistoryEntry) (bool, error) {
	f.mx.Lock()
	if f.failAudit {
		f.mx.Unlock()
		return false, errors.New("ошибка записи истории")
	}
	f.mx.Unlock()
	applied, err := f.ResolveIfPending(id, updMap)
	if err != nil || !applied {
		return applied, err
	}
	_, err = f.AddHistory(entry)
	return true, err
}

func (f *fakeStore) EscalateWithAudit(id string, fromTier, toTier models.ApprovalTier, entry dbmodels.ApprovalHistoryEntry) (bool, error) {
	f.mx.Lock()
	rec, ok := f.recs[id]
	if !ok || rec.Status != models.ApprovalStatusPending || rec.CurrentTier != fromTier {
		f.mx.Unlock()
		return false, nil
	}
	rec.CurrentTier = toTier
	f.mx.Unlock()
	_, err := f.AddHistory(entry)
	return true, err
}

func (f *fakeStore) List(filter approvalapimodels.ApprovalFilter) ([]dbmodels.ApprovalRequest, error) {
	f.mx.Lock()
	defer f.mx.Unlock()
	list := []dbmodels.ApprovalRequest{}
	for _, rec := range f.recs {
		if filter.Type != "" && rec.Type != filter.Type {
			continue
		}
		if filter.Status != "" && rec.Status != filter.Status {
			continue
		}
		if filter.BranchID != "" && rec.BranchID != filter.BranchID {
			continue
		}
		list = append(list, *rec)
	}
	return list, nil
}

func (f *fakeStore) ListCount(filter approvalapimodels.ApprovalFilter) (int64, error) {
	list, err := f.List(filter)
	return int64(len(list)), err
}

func (f *fakeStore) ListPending(branchID string, tiers []models.ApprovalTier) ([]dbmodels.ApprovalRequest, error) {
	f.mx.Lock()
	defer f.mx.Unlock()
	list := []dbmodels.ApprovalRequest{}
	for _, rec := range f.recs {
		if rec.Status != models.ApprovalStatusPending {
			continue
		}
		if branchID != "" && rec.BranchID != branchID {
			continue
		}
		for _, tier := range tiers {
			if rec.CurrentTier == tier {
				list = append(list, *rec)
				break
			}
		}
	}
	return list, nil
}

func (f *fakeStore) ListExpired(now time.Time) ([]dbmodels.ApprovalRequest, error) {
	f.mx.Lock()
	defer f.mx.Unlock()
	list := []dbmodels.ApprovalRequest{}
	for _, rec := range f.recs {
		if rec.Status != models.ApprovalStatusPending || rec.ExpiresAt == nil {
			continue
		}
		if !rec.ExpiresAt.After(now) {
			list = append(list, *rec)
		}
	}
	return list, nil
}

func (f *fakeStore) AddHistory(entry dbmodels.ApprovalHistoryEntry) (string, error) {
	f.mx.Lock()
	defer f.mx.Unlock()
	entry.ID = uuid.New().String()
	entry.CreatedAt = time.Now()
	f.history = append(f.history, entry)
	return entry.ID, nil
}

func (f *fakeStore) ListForStats(filter approvalapimodels.StatsFilter) ([]dbmodels.ApprovalRequest, error) {
	f.mx.Lock()
	defer f.mx.Unlock()
	list := []dbmodels.ApprovalRequest{}
	for _, rec := range f.recs {
		list = append(list, *rec)
	}
	return list, nil
}

func (f *fakeStore) historyFor(id string) []dbmodels.ApprovalHistoryEntry {
	f.mx.Lock()
	defer f.mx.Unlock()
	list := []dbmodels.ApprovalHistoryEntry{}
	for _, entry := range f.history {
		if entry.RequestID == id {
			list = append(list, entry)
		}
	}
	return list
}

type fakeEmployeeStore struct {
	recs map[string]*dbmodels.Employee
}

func (f *fakeEmployeeStore) GetByID(id string) (*dbmodels.Employee, error) {
	return f.recs[id], nil
}

func (f *fakeEmployeeStore) ListByBranch(branchID string) ([]dbmodels.Employee, error) {
	return nil, nil
}

type fakeNotifier struct {
	mx     sync.Mutex
	events []string
}

func (f *fakeNotifier) ApprovalEvent(rec dbmodels.ApprovalRequest, event string) {
	f.mx.Lock()
	defer f.mx.Unlock()
	f.events = append(f.events, event)
}

var (
	cashier        = approvalapimodels.Actor{ID: "emp-1", Name: "Иванов Иван", Role: models.RoleCashier}
	storeManager   = approvalapimodels.Actor{ID: "emp-2", Name: "Петров Петр", Role: models.RoleStoreManager}
	generalManager = approvalapimodels.Actor{ID: "emp-3", Name: "Сидорова Анна", Role: models.RoleGeneralManager}
	director       = approvalapimodels.Actor{ID: "emp-4", Name: "Козлов Андрей", Role: models.RoleDirector}
	admin          = approvalapimodels.Actor{ID: "emp-5", Name: "Морозова Ольга", Role: models.RoleAdmin}
)

func newTestHandler() (Provider, *fakeStore) {
	store := newFakeStore()
	employeeStore := &fakeEmployeeStore{recs: map[string]*dbmodels.Employee{
		"emp-1": {FirstName: "Иван", LastName: "Иванов"},
	}}
	handler := NewHandlerWithDeps(approvalworkflow.Default(), store, employeeStore, &fakeNotifier{})
	return handler, store
}

func createCashOut(t *testing.T, handler Provider, branchID string, amount float64) string {
	t.Helper()
	id, err := handler.Create(branchID, cashier, approvalapimodels.ApprovalCreateData{
		Type:        models.ApprovalTypeCashOut,
		Amount:      &amount,
		Description: "Выдача наличных из кассы",
		Reason:      "Оплата поставщику",
	})
	require.Nil(t, err)
	return id
}

func TestCreate(t *testing.T) {
	handler, store := newTestHandler()

	t.Run(`создание заявки`, func(t *testing.T) {
		id := createCashOut(t, handler, "branch-1", 2500)
		rec, err := store.GetByID(id)
		require.Nil(t, err)
		require.NotNil(t, rec)
		require.Equal(t, models.ApprovalStatusPending, rec.Status)
		require.Equal(t, models.TierGeneralManager, rec.CurrentTier)
		require.Equal(t, "branch-1", rec.BranchID)
		require.Equal(t, models.ApprovalPriorityNormal, rec.Priority)
		require.Equal(t, true, strings.HasPrefix(rec.Number, "AP-"))
		require.NotNil(t, rec.ExpiresAt)
		require.Equal(t, []string(rec.NotifyChannels), []string{"email"})
	})

	t.Run(`малая сумма уходит на уровень менеджера`, func(t *testing.T) {
		id := createCashOut(t, handler, "branch-1", 500)
		rec, err := store.GetByID(id)
		require.Nil(t, err)
		require.Equal(t, models.TierManager, rec.CurrentTier)
	})

	t.Run(`имя подставляется из справочника сотрудников`, func(t *testing.T) {
		id, err := handler.Create("branch-1", approvalapimodels.Actor{ID: "emp-1", Role: models.RoleCashier},
			approvalapimodels.ApprovalCreateData{
				Type:        models.ApprovalTypeDisposal,
				Description: "Списание брака",
				Reason:      "Истек срок годности",
			})
		require.Nil(t, err)
		rec, err := store.GetByID(id)
		require.Nil(t, err)
		require.Equal(t, "Иван Иванов", rec.RequestedByName)
	})
}

func TestApprove(t *testing.T) {
	handler, store := newTestHandler()

	t.Run(`недостаточный уровень`, func(t *testing.T) {
		id := createCashOut(t, handler, "branch-1", 2500)
		err := handler.Approve(id, storeManager, "")
		require.Equal(t, ErrUnauthorized, errors.Cause(err))
	})

	t.Run(`роль без уровня согласования`, func(t *testing.T) {
		id := createCashOut(t, handler, "branch-1", 2500)
		err := handler.Approve(id, cashier, "")
		require.Equal(t, ErrNoTierAssigned, errors.Cause(err))
	})

	t.Run(`согласование достаточным уровнем`, func(t *testing.T) {
		id := createCashOut(t, handler, "branch-1", 2500)
		err := handler.Approve(id, generalManager, "подтверждаю")
		require.Nil(t, err)

		rec, err := store.GetByID(id)
		require.Nil(t, err)
		require.Equal(t, models.ApprovalStatusApproved, rec.Status)
		require.Equal(t, generalManager.ID, rec.FinalApproverID)
		require.Equal(t, generalManager.Name, rec.FinalApproverName)
		require.NotNil(t, rec.FinalDecisionAt)

		history := store.historyFor(id)
		require.Equal(t, 1, len(history))
		require.Equal(t, models.ApprovalActionApprove, history[0].Action)
		require.Equal(t, models.TierGeneralManager, history[0].Tier)
		require.Equal(t, "подтверждаю", history[0].Comment)
	})

	t.Run(`старший уровень покрывает младший`, func(t *testing.T) {
		id := createCashOut(t, handler, "branch-1", 500)
		err := handler.Approve(id, director, "")
		require.Nil(t, err)
	})

	t.Run(`повторное решение`, func(t *testing.T) {
		id := createCashOut(t, handler, "branch-1", 2500)
		require.Nil(t, handler.Approve(id, generalManager, ""))
		err := handler.Approve(id, director, "")
		require.Equal(t, ErrNotPending, errors.Cause(err))
	})

	t.Run(`заявка не найдена`, func(t *testing.T) {
		err := handler.Approve(uuid.New().String(), generalManager, "")
		require.Equal(t, ErrNotFound, errors.Cause(err))
	})

	t.Run(`решение без записи в историю не применяется`, func(t *testing.T) {
		id := createCashOut(t, handler, "branch-1", 2500)
		store.mx.Lock()
		store.failAudit = true
		store.mx.Unlock()
		defer func() {
			store.mx.Lock()
			store.failAudit = false
			store.mx.Unlock()
		}()

		err := handler.Approve(id, generalManager, "")
		require.NotNil(t, err)

		rec, err := store.GetByID(id)
		require.Nil(t, err)
		require.Equal(t, models.ApprovalStatusPending, rec.Status)
		require.Equal(t, 0, len(store.historyFor(id)))
	})
}

func TestReject(t *testing.T) {
	handler, store := newTestHandler()

	t.Run(`слишком короткая причина`, func(t *testing.T) {
		id := createCashOut(t, handler, "branch-1", 2500)
		err := handler.Reject(id, generalManager, "их")
		require.Equal(t, ErrInvalidReason, errors.Cause(err))
		err = handler.Reject(id, generalManager, "  а  ")
		require.Equal(t, ErrInvalidReason, errors.Cause(err))
	})

	t.Run(`отклонение с причиной`, func(t *testing.T) {
		id := createCashOut(t, handler, "branch-1", 2500)
		err := handler.Reject(id, generalManager, "недостаточно средств в кассе")
		require.Nil(t, err)

		rec, err := store.GetByID(id)
		require.Nil(t, err)
		require.Equal(t, models.ApprovalStatusRejected, rec.Status)
		require.Equal(t, "недостаточно средств в кассе", rec.RejectionReason)

		history := store.historyFor(id)
		require.Equal(t, 1, len(history))
		require.Equal(t, models.ApprovalActionReject, history[0].Action)
	})

	t.Run(`отклонение завершенной заявки`, func(t *testing.T) {
		id := createCashOut(t, handler, "branch-1", 2500)
		require.Nil(t, handler.Approve(id, generalManager, ""))
		err := handler.Reject(id, generalManager, "передумал согласовывать")
		require.Equal(t, ErrNotPending, errors.Cause(err))
	})
}

func TestEscalate(t *testing.T) {
	handler, store := newTestHandler()

	t.Run(`передача на следующий уровень`, func(t *testing.T) {
		id := createCashOut(t, handler, "branch-1", 500)
		err := handler.Escalate(id, storeManager, "нужно решение управляющего")
		require.Nil(t, err)

		rec, err := store.GetByID(id)
		require.Nil(t, err)
		require.Equal(t, models.ApprovalStatusPending, rec.Status)
		require.Equal(t, models.TierGeneralManager, rec.CurrentTier)

		history := store.historyFor(id)
		require.Equal(t, 1, len(history))
		require.Equal(t, models.ApprovalActionEscalate, history[0].Action)

		// после эскалации уровня менеджера уже недостаточно
		err = handler.Approve(id, storeManager, "")
		require.Equal(t, ErrUnauthorized, errors.Cause(err))
		require.Nil(t, handler.Approve(id, generalManager, ""))
	})

	t.Run(`эскалация с вершины иерархии`, func(t *testing.T) {
		id := createCashOut(t, handler, "branch-1", 500)
		require.Nil(t, handler.Escalate(id, storeManager, ""))
		require.Nil(t, handler.Escalate(id, generalManager, ""))
		require.Nil(t, handler.Escalate(id, director, ""))
		err := handler.Escalate(id, admin, "")
		require.Equal(t, ErrCannotEscalateFurther, errors.Cause(err))
	})

	t.Run(`роль без уровня согласования`, func(t *testing.T) {
		id := createCashOut(t, handler, "branch-1", 500)
		err := handler.Escalate(id, cashier, "")
		require.Equal(t, ErrNoTierAssigned, errors.Cause(err))
	})

	t.Run(`эскалация завершенной заявки`, func(t *testing.T) {
		id := createCashOut(t, handler, "branch-1", 500)
		require.Nil(t, handler.Approve(id, storeManager, ""))
		err := handler.Escalate(id, storeManager, "")
		require.Equal(t, ErrNotPending, errors.Cause(err))
	})
}

func TestComment(t *testing.T) {
	handler, store := newTestHandler()

	t.Run(`комментарий не меняет статус`, func(t *testing.T) {
		id := createCashOut(t, handler, "branch-1", 500)
		err := handler.Comment(id, storeManager, "уточните сумму")
		require.Nil(t, err)

		rec, err := store.GetByID(id)
		require.Nil(t, err)
		require.Equal(t, models.ApprovalStatusPending, rec.Status)
		require.Equal(t, models.TierManager, rec.CurrentTier)

		history := store.historyFor(id)
		require.Equal(t, 1, len(history))
		require.Equal(t, models.ApprovalActionComment, history[0].Action)
	})

	t.Run(`комментарий к завершенной заявке`, func(t *testing.T) {
		id := createCashOut(t, handler, "branch-1", 500)
		require.Nil(t, handler.Approve(id, storeManager, ""))
		err := handler.Comment(id, generalManager, "решение корректное")
		require.Nil(t, err)
		require.Equal(t, 2, len(store.historyFor(id)))
	})

	t.Run(`комментарий роли без уровня`, func(t *testing.T) {
		id := createCashOut(t, handler, "branch-1", 500)
		err := handler.Comment(id, cashier, "прошу ускорить")
		require.Nil(t, err)

		history := store.historyFor(id)
		require.Equal(t, models.LowestTier(), history[0].Tier)
	})
}

func TestPendingForActor(t *testing.T) {
	handler, _ := newTestHandler()

	branch1Manager := createCashOut(t, handler, "branch-1", 500)
	branch1GenManager := createCashOut(t, handler, "branch-1", 2500)
	branch2Manager := createCashOut(t, handler, "branch-2", 500)

	idSet := func(list []approvalapimodels.ApprovalView) map[string]bool {
		set := map[string]bool{}
		for _, item := range list {
			set[item.ID] = true
		}
		return set
	}

	t.Run(`менеджер видит только свой филиал и свой уровень`, func(t *testing.T) {
		list, err := handler.PendingForActor("branch-1", storeManager)
		require.Nil(t, err)
		require.Equal(t, map[string]bool{branch1Manager: true}, idSet(list))
	})

	t.Run(`управляющий видит свой и младший уровни`, func(t *testing.T) {
		list, err := handler.PendingForActor("branch-1", generalManager)
		require.Nil(t, err)
		require.Equal(t, map[string]bool{branch1Manager: true, branch1GenManager: true}, idSet(list))
	})

	t.Run(`директор видит все филиалы`, func(t *testing.T) {
		list, err := handler.PendingForActor("branch-1", director)
		require.Nil(t, err)
		require.Equal(t, map[string]bool{branch1Manager: true, branch1GenManager: true, branch2Manager: true}, idSet(list))
	})

	t.Run(`роль без уровня согласования`, func(t *testing.T) {
		_, err := handler.PendingForActor("branch-1", cashier)
		require.Equal(t, ErrNoTierAssigned, errors.Cause(err))
	})

	t.Run(`решенные заявки из выборки уходят`, func(t *testing.T) {
		require.Nil(t, handler.Approve(branch1Manager, storeManager, ""))
		list, err := handler.PendingForActor("branch-1", storeManager)
		require.Nil(t, err)
		require.Equal(t, 0, len(list))
	})
}

func TestSweepExpired(t *testing.T) {
	handler, store := newTestHandler()
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	expiredID := createCashOut(t, handler, "branch-1", 500)
	aliveID := createCashOut(t, handler, "branch-1", 500)
	approvedID := createCashOut(t, handler, "branch-1", 500)
	require.Nil(t, handler.Approve(approvedID, storeManager, ""))

	store.mx.Lock()
	store.recs[expiredID].ExpiresAt = &past
	store.recs[aliveID].ExpiresAt = &future
	store.recs[approvedID].ExpiresAt = &past
	store.mx.Unlock()

	t.Run(`просроченные заявки переводятся в expired`, func(t *testing.T) {
		count := handler.SweepExpired(context.Background(), now)
		require.Equal(t, 1, count)

		rec, err := store.GetByID(expiredID)
		require.Nil(t, err)
		require.Equal(t, models.ApprovalStatusExpired, rec.Status)

		rec, err = store.GetByID(aliveID)
		require.Nil(t, err)
		require.Equal(t, models.ApprovalStatusPending, rec.Status)

		rec, err = store.GetByID(approvedID)
		require.Nil(t, err)
		require.Equal(t, models.ApprovalStatusApproved, rec.Status)
	})

	t.Run(`повторный запуск безопасен`, func(t *testing.T) {
		require.Equal(t, 0, handler.SweepExpired(context.Background(), now))
	})

	t.Run(`решение по просроченной заявке`, func(t *testing.T) {
		err := handler.Approve(expiredID, storeManager, "")
		require.Equal(t, ErrNotPending, errors.Cause(err))
	})
}

var _ approvalstore.Provider = (*fakeStore)(nil)
