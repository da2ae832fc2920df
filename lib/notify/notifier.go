package notify

import (
	"fmt"
	"runtime/debug"

	log "github.com/sirupsen/logrus"
	"retail-ops-backend/lib/smtp"
	dbmodels "retail-ops-backend/models/db"
)

// Provider - диспетчер уведомлений по каналам заявки.
// Доставка (whatsapp/sms/push) выполняется внешней системой,
// здесь только передача события; сбой уведомления не влияет на статус заявки.
type Provider interface {
	ApprovalEvent(rec dbmodels.ApprovalRequest, event string)
}

var Instance Provider

func NewHandler(opsEmail string) {
	Instance = impl{
		opsEmail: opsEmail,
	}
}

type impl struct {
	opsEmail string
}

func (i impl) GetLogger(rec dbmodels.ApprovalRequest) *log.Entry {
	return log.
		WithField("approval_id", rec.ID).
		WithField("approval_type", rec.Type)
}

func (i impl) ApprovalEvent(rec dbmodels.ApprovalRequest, event string) {
	defer func() {
		if r := recover(); r != nil {
			i.GetLogger(rec).
				WithField("panic_stack", string(debug.Stack())).
				Errorf("panic: (%v)", r)
		}
	}()
	logger := i.GetLogger(rec).WithField("event", event)
	for _, channel := range rec.NotifyChannels {
		switch channel {
		case "email":
			if i.opsEmail == "" {
				logger.Warn("email уведомление не отправлено, не настроен почтовый ящик")
				continue
			}
			subject := fmt.Sprintf("%s: %s", rec.Type.ToHuman(), event)
			message := fmt.Sprintf("Заявка %s (%s), филиал %s. Статус: %s.",
				rec.Number, rec.Type.ToHuman(), rec.BranchID, rec.Status.ToHuman())
			err := smtp.Instance.SendEMail(rec.RequestedByName, i.opsEmail, message, subject)
			if err != nil {
				logger.WithError(err).Error("Ошибка отправки email уведомления по заявке")
			}
		default:
			// внешний диспетчер доставки забирает события из лога
			logger.WithField("channel", channel).Info("событие заявки передано каналу уведомлений")
		}
	}
}
