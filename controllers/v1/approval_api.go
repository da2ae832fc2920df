package apiv1

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"retail-ops-backend/controllers"
	approvalhandler "retail-ops-backend/lib/approval"
	"retail-ops-backend/middleware"
	"retail-ops-backend/models"
	apimodels "retail-ops-backend/models/api"
	approvalapimodels "retail-ops-backend/models/api/approval"
)

type approvalApiController struct {
	controllers.BaseAPIController
}

func InitApprovalApiRouters(app *fiber.App) {
	controller := approvalApiController{}
	app.Route("approval", func(router fiber.Router) {
		router.Post("list", controller.list)
		router.Post("required_tier", controller.requiredTier)
		router.Get("my_pending", controller.myPending)
		router.Post("", controller.create)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Get("history", controller.history)
			idRoute.Put("approve", controller.approve)
			idRoute.Put("reject", controller.reject)
			idRoute.Put("escalate", controller.escalate)
			idRoute.Put("comment", controller.comment)
		})
	})
}

func (c *approvalApiController) getActor(ctx *fiber.Ctx) approvalapimodels.Actor {
	return approvalapimodels.Actor{
		ID:   middleware.GetUserID(ctx),
		Name: middleware.GetUserName(ctx),
		Role: middleware.GetUserRole(ctx),
	}
}

// sendApprovalError сопоставляет исход операции движка с HTTP статусом
func (c *approvalApiController) sendApprovalError(ctx *fiber.Ctx, err error, hMsg string) error {
	switch {
	case errors.Is(err, approvalhandler.ErrNotFound):
		return ctx.Status(fiber.StatusNotFound).JSON(apimodels.NewError(err.Error()))
	case errors.Is(err, approvalhandler.ErrNoTierAssigned),
		errors.Is(err, approvalhandler.ErrUnauthorized):
		return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError(err.Error()))
	case errors.Is(err, approvalhandler.ErrNotPending),
		errors.Is(err, approvalhandler.ErrCannotEscalateFurther):
		return ctx.Status(fiber.StatusConflict).JSON(apimodels.NewError(err.Error()))
	case errors.Is(err, approvalhandler.ErrInvalidReason):
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	return c.SendError(ctx, c.GetLogger(ctx), err, hMsg)
}

// @Summary Создание заявки на согласование
// @Tags Согласование операций
// @Description Создание заявки на согласование
// @Param   Authorization		header	string										true	"Authorization token"
// @Param	body 				body	approvalapimodels.ApprovalCreateData		true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/ops/approval [post]
func (c *approvalApiController) create(ctx *fiber.Ctx) error {
	var payload approvalapimodels.ApprovalCreateData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	branchID := middleware.GetUserBranch(ctx)
	id, err := approvalhandler.Instance.Create(branchID, c.getActor(ctx), payload)
	if err != nil {
		return c.sendApprovalError(ctx, err, "Ошибка создания заявки на согласование")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary Требуемый уровень согласования
// @Tags Согласование операций
// @Description Предпросмотр требуемого уровня до подачи заявки
// @Param   Authorization		header	string										true	"Authorization token"
// @Param	body 				body	approvalapimodels.ApprovalCreateData		true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/ops/approval/required_tier [post]
func (c *approvalApiController) requiredTier(ctx *fiber.Ctx) error {
	var payload approvalapimodels.ApprovalCreateData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if !payload.Type.IsValid() {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("неизвестный тип заявки"))
	}
	tier := approvalhandler.Instance.RequiredTier(payload.Type, payload.Amount)
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(tier))
}

// @Summary Список заявок
// @Tags Согласование операций
// @Description Список заявок по фильтру
// @Param   Authorization		header	string										true	"Authorization token"
// @Param	body 				body	approvalapimodels.ApprovalFilter			true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]approvalapimodels.ApprovalView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/ops/approval/list [post]
func (c *approvalApiController) list(ctx *fiber.Ctx) error {
	var payload approvalapimodels.ApprovalFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	role := middleware.GetUserRole(ctx)
	tier, ok := models.ResolveTier(role)
	if !ok || !tier.IsBranchAgnostic() {
		// заявки чужих филиалов доступны только директору и выше
		payload.BranchID = middleware.GetUserBranch(ctx)
	}
	list, rowCount, err := approvalhandler.Instance.List(payload)
	if err != nil {
		return c.sendApprovalError(ctx, err, "Ошибка получения списка заявок")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}

// @Summary Заявки, ожидающие решения сотрудника
// @Tags Согласование операций
// @Description Ожидающие заявки, доступные уровню сотрудника
// @Param   Authorization		header	string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]approvalapimodels.ApprovalView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/ops/approval/my_pending [get]
func (c *approvalApiController) myPending(ctx *fiber.Ctx) error {
	branchID := middleware.GetUserBranch(ctx)
	list, err := approvalhandler.Instance.PendingForActor(branchID, c.getActor(ctx))
	if err != nil {
		return c.sendApprovalError(ctx, err, "Ошибка получения списка заявок")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Заявка
// @Tags Согласование операций
// @Description Заявка по идентификатору
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   id          		path    string	true    "rec ID"
// @Success 200 {object} apimodels.Response{data=approvalapimodels.ApprovalView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/ops/approval/{id} [get]
func (c *approvalApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	result, err := approvalhandler.Instance.GetByID(id)
	if err != nil {
		return c.sendApprovalError(ctx, err, "Ошибка получения заявки")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary История согласования
// @Tags Согласование операций
// @Description История решений по заявке
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   id          		path    string	true    "rec ID"
// @Success 200 {object} apimodels.Response{data=[]approvalapimodels.ApprovalHistoryView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/ops/approval/{id}/history [get]
func (c *approvalApiController) history(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	result, err := approvalhandler.Instance.GetByID(id)
	if err != nil {
		return c.sendApprovalError(ctx, err, "Ошибка получения истории согласования")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result.History))
}

// @Summary Согласовать
// @Tags Согласование операций
// @Description Согласовать заявку
// @Param   Authorization		header	string										true	"Authorization token"
// @Param	body 				body	approvalapimodels.ApprovalActionData		true	"request body"
// @Param   id          		path    string										true    "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/ops/approval/{id}/approve [put]
func (c *approvalApiController) approve(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload approvalapimodels.ApprovalActionData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	err = approvalhandler.Instance.Approve(id, c.getActor(ctx), payload.Comment)
	if err != nil {
		return c.sendApprovalError(ctx, err, "Ошибка согласования заявки")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Отклонить
// @Tags Согласование операций
// @Description Отклонить заявку
// @Param   Authorization		header	string										true	"Authorization token"
// @Param	body 				body	approvalapimodels.ApprovalRejectData		true	"request body"
// @Param   id          		path    string										true    "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/ops/approval/{id}/reject [put]
func (c *approvalApiController) reject(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload approvalapimodels.ApprovalRejectData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	err = approvalhandler.Instance.Reject(id, c.getActor(ctx), payload.Reason)
	if err != nil {
		return c.sendApprovalError(ctx, err, "Ошибка отклонения заявки")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Эскалация
// @Tags Согласование операций
// @Description Передать заявку на следующий уровень согласования
// @Param   Authorization		header	string										true	"Authorization token"
// @Param	body 				body	approvalapimodels.ApprovalActionData		true	"request body"
// @Param   id          		path    string										true    "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/ops/approval/{id}/escalate [put]
func (c *approvalApiController) escalate(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload approvalapimodels.ApprovalActionData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	err = approvalhandler.Instance.Escalate(id, c.getActor(ctx), payload.Comment)
	if err != nil {
		return c.sendApprovalError(ctx, err, "Ошибка эскалации заявки")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Комментарий
// @Tags Согласование операций
// @Description Добавить комментарий в историю согласования
// @Param   Authorization		header	string										true	"Authorization token"
// @Param	body 				body	approvalapimodels.ApprovalCommentData		true	"request body"
// @Param   id          		path    string										true    "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/ops/approval/{id}/comment [put]
func (c *approvalApiController) comment(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload approvalapimodels.ApprovalCommentData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	err = approvalhandler.Instance.Comment(id, c.getActor(ctx), payload.Comment)
	if err != nil {
		return c.sendApprovalError(ctx, err, "Ошибка добавления комментария")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
