package apiv1

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"retail-ops-backend/controllers"
	approvalstats "retail-ops-backend/lib/approval-stats"
	"retail-ops-backend/middleware"
	"retail-ops-backend/models"
	apimodels "retail-ops-backend/models/api"
	approvalapimodels "retail-ops-backend/models/api/approval"
)

type approvalStatsApiController struct {
	controllers.BaseAPIController
}

func InitApprovalStatsApiRouters(app *fiber.App) {
	controller := approvalStatsApiController{}
	app.Route("approval", func(router fiber.Router) {
		router.Post("stats", controller.stats)
		router.Post("stats_export", controller.statsExport)
	})
}

func (c *approvalStatsApiController) scopeFilter(ctx *fiber.Ctx, filter *approvalapimodels.StatsFilter) {
	role := middleware.GetUserRole(ctx)
	tier, ok := models.ResolveTier(role)
	if !ok || !tier.IsBranchAgnostic() {
		filter.BranchID = middleware.GetUserBranch(ctx)
	}
}

// @Summary Статистика согласований
// @Tags Статистика согласований
// @Description Сводная статистика заявок по фильтру
// @Param   Authorization		header	string									true	"Authorization token"
// @Param	body 				body	approvalapimodels.StatsFilter			true	"request body"
// @Success 200 {object} apimodels.Response{data=approvalapimodels.ApprovalStatsView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/ops/approval/stats [post]
func (c *approvalStatsApiController) stats(ctx *fiber.Ctx) error {
	var payload approvalapimodels.StatsFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	c.scopeFilter(ctx, &payload)
	result, err := approvalstats.Instance.Stats(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения статистики согласований")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Выгрузка статистики согласований в Excel
// @Tags Статистика согласований
// @Description Выгрузка сводной статистики заявок в Excel
// @Param   Authorization		header	string									true	"Authorization token"
// @Param	body 				body	approvalapimodels.StatsFilter			true	"request body"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/ops/approval/stats_export [post]
func (c *approvalStatsApiController) statsExport(ctx *fiber.Ctx) error {
	var payload approvalapimodels.StatsFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	c.scopeFilter(ctx, &payload)
	data, err := approvalstats.Instance.StatsExportToXls(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка выгрузки статистики согласований в Excel")
	}
	fileName := fmt.Sprintf("approval-stats-%v.xlsx", time.Now().Format("20060102-150405"))
	ctx.Set("Content-Type", "application/vnd.ms-excel")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="`+fileName+`"`)
	return ctx.SendStream(data)
}
