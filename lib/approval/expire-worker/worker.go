package approvalexpireworker

import (
	"context"
	"time"

	approvalhandler "retail-ops-backend/lib/approval"
	baseworker "retail-ops-backend/lib/utils/base-worker"
)

func StartWorker(ctx context.Context) {
	i := &impl{
		BaseImpl: *baseworker.NewInstance("ApprovalExpireWorker", 30*time.Second, 5*time.Minute),
	}
	go i.Run(ctx, i.handle)
}

type impl struct {
	baseworker.BaseImpl
}

func (i impl) handle(ctx context.Context) {
	expiredCount := approvalhandler.Instance.SweepExpired(ctx, time.Now())
	if expiredCount > 0 {
		i.GetLogger().
			WithField("expired_count", expiredCount).
			Info("Просроченные заявки переведены в expired")
	}
}
