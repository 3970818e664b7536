package controller

import (
	"course_platform_backend/internal/model"
	"course_platform_backend/internal/service"
	"course_platform_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type PaymentController struct {
	PaymentService *service.PaymentService
}

func NewPaymentController(paymentService *service.PaymentService) *PaymentController {
	return &PaymentController{PaymentService: paymentService}
}

func (c *PaymentController) CreatePayment(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var in service.PaymentInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	payment, err := c.PaymentService.CreatePayment(claims.UserID, in)
	if err != nil {
		var ve *util.ValidationError
		switch {
		case errors.Is(err, util.ErrCourseNotFound):
			util.NotFound(ctx)
		case errors.As(err, &ve):
			util.BadRequest(ctx, ve.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, payment)
}

func (c *PaymentController) ProcessPayment(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	if !c.ownsPayment(ctx, id) {
		return
	}

	payment, err := c.PaymentService.ProcessPayment(id)
	if err != nil {
		var ve *util.ValidationError
		if errors.As(err, &ve) {
			util.BadRequest(ctx, ve.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, payment)
}

func (c *PaymentController) RefundPayment(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	payment, err := c.PaymentService.Refund(id)
	if err != nil {
		var ve *util.ValidationError
		if errors.As(err, &ve) {
			util.BadRequest(ctx, ve.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, payment)
}

func (c *PaymentController) MyPayments(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	util.Success(ctx, c.PaymentService.UserPayments(claims.UserID))
}

func (c *PaymentController) ownsPayment(ctx *gin.Context, id int64) bool {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return false
	}
	if claims.Role == model.Admin {
		return true
	}
	payment, found := c.PaymentService.Payments.Get(id)
	if !found {
		util.NotFound(ctx)
		return false
	}
	if payment.UserID != claims.UserID {
		util.Forbidden(ctx)
		return false
	}
	return true
}
