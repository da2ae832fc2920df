package initializers

import (
	"context"

	"retail-ops-backend/config"
	"retail-ops-backend/fiberlog"
	approvalhandler "retail-ops-backend/lib/approval"
	approvalstats "retail-ops-backend/lib/approval-stats"
	approvalexpireworker "retail-ops-backend/lib/approval/expire-worker"
	approvalworkflow "retail-ops-backend/lib/approval/workflow"
	xlsexport "retail-ops-backend/lib/export/xls"
	"retail-ops-backend/lib/notify"
	"retail-ops-backend/lib/rbac"
)

var LoggerConfig *fiberlog.Config

func InitAllServices(ctx context.Context) {
	LoggerConfig = InitLogger()
	config.InitConfig()
	InitDBConnection()
	InitSmtp()
	notify.NewHandler(config.Conf.Notify.OpsEmail)
	xlsexport.NewHandler()
	approvalhandler.NewHandler(approvalworkflow.Default())
	approvalstats.NewHandler()
	rbac.NewHandler()
	go initWorkers(ctx)
}

func initWorkers(ctx context.Context) {
	// Задача перевода просроченных заявок в статус expired
	approvalexpireworker.StartWorker(ctx)
}
