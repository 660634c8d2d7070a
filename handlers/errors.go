package handlers

import (
	"errors"
	"net/http"

	"gamecentre/services/otp"
	"gamecentre/services/payment"
	"gamecentre/services/session"
	"gamecentre/utils"

	"github.com/gin-gonic/gin"
)

// respondError maps the engine's error taxonomy to HTTP responses. Code
// failures carry attempts-remaining context so the kiosk can show the
// countdown.
func respondError(c *gin.Context, err error) {
	var validationErr *session.ValidationError
	var stateErr *session.StateError
	var codeErr *otp.CodeError

	switch {
	case errors.As(err, &validationErr):
		utils.JSONError(c, http.StatusBadRequest, "invalid input", validationErr.Error())
	case errors.Is(err, session.ErrUnknownSession), errors.Is(err, session.ErrUnknownDevice):
		utils.JSONError(c, http.StatusNotFound, "not found", err.Error())
	case errors.As(err, &stateErr):
		utils.JSONError(c, http.StatusConflict, "invalid state", stateErr.Error())
	case errors.Is(err, session.ErrAlreadyHeld):
		utils.JSONError(c, http.StatusConflict, "device already held", err.Error())
	case errors.As(err, &codeErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"message":      codeErr.Error(),
			"reason":       string(codeErr.Reason),
			"attemptsLeft": codeErr.AttemptsLeft,
		})
	case errors.Is(err, payment.ErrDeclined):
		utils.JSONError(c, http.StatusPaymentRequired, "payment declined", err.Error())
	default:
		utils.JSONError(c, http.StatusInternalServerError, "internal error", err.Error())
	}
}
