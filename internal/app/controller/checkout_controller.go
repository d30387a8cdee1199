package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tkaraca/shopapp-backend/internal/app/service"
	apperrors "github.com/tkaraca/shopapp-backend/internal/errors"
	"github.com/tkaraca/shopapp-backend/internal/middleware"
)

type CheckoutController struct {
	checkoutService service.CheckoutService
	cartService     service.CartService
}

func NewCheckoutController(checkoutService service.CheckoutService, cartService service.CartService) *CheckoutController {
	return &CheckoutController{
		checkoutService: checkoutService,
		cartService:     cartService,
	}
}

type CheckoutPaymentRequest struct {
	CardHolderName string `json:"card_holder_name" binding:"required"`
	CardNumber     string `json:"card_number" binding:"required"`
	ExpireMonth    string `json:"expire_month" binding:"required"`
	ExpireYear     string `json:"expire_year" binding:"required"`
	CVC            string `json:"cvc" binding:"required"`

	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	Note    string `json:"note"`
}

// GetCheckout returns the order summary for the current cart
// GET /api/v1/checkout
func (ctrl *CheckoutController) GetCheckout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	cart, err := ctrl.cartService.GetCart(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.UserNotFound, "User not found")
			return
		}
		log.Error("Failed to build checkout summary", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	if len(cart.Items) == 0 {
		apperrors.BadRequest(c, apperrors.CartEmpty, "Cart is empty")
		return
	}

	c.JSON(http.StatusOK, cartResponse(cart))
}

// Checkout charges the cart and records the order
// POST /api/v1/checkout
func (ctrl *CheckoutController) Checkout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req CheckoutPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid checkout request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid checkout data")
		return
	}

	order, err := ctrl.checkoutService.Checkout(c.Request.Context(), userID, service.CheckoutRequest{
		CardHolderName: req.CardHolderName,
		CardNumber:     req.CardNumber,
		ExpireMonth:    req.ExpireMonth,
		ExpireYear:     req.ExpireYear,
		CVC:            req.CVC,
		Phone:          req.Phone,
		Address:        req.Address,
		City:           req.City,
		Note:           req.Note,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			apperrors.NotFound(c, apperrors.UserNotFound, "User not found")
		case errors.Is(err, service.ErrEmptyCart):
			apperrors.BadRequest(c, apperrors.CartEmpty, "Cart is empty")
		case errors.Is(err, service.ErrPaymentDeclined):
			apperrors.RespondWithError(c, http.StatusPaymentRequired, apperrors.PaymentDeclined, "Payment was declined")
		case errors.Is(err, service.ErrGatewayUnavailable):
			apperrors.RespondWithError(c, http.StatusServiceUnavailable, apperrors.PaymentGatewayUnavailable, "Payment gateway is unavailable, please try again")
		case errors.Is(err, service.ErrOrderNotRecorded):
			// The charge went through; support will finish the order
			apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.OrderNotRecorded, "Payment succeeded but the order could not be recorded; it will be completed automatically")
		default:
			log.Error("Checkout failed", err, map[string]interface{}{
				"user_id": userID,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"order": order,
	})
}
