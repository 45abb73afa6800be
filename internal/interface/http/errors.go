package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/storefront/internal/application"
	"github.com/oksasatya/storefront/internal/interface/middleware"
	"github.com/oksasatya/storefront/pkg/response"
	"github.com/oksasatya/storefront/pkg/validation"
)

// apiError is the error body of the response envelope.
type apiError struct {
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

type errMapping struct {
	target error
	status int
	code   string
}

var errTable = []errMapping{
	{app.ErrInvalidQuantity, http.StatusBadRequest, "invalid_quantity"},
	{app.ErrInsufficientStock, http.StatusConflict, "insufficient_stock"},
	{app.ErrCartEmpty, http.StatusBadRequest, "cart_empty"},
	{app.ErrItemNotInCart, http.StatusNotFound, "item_not_in_cart"},
	{app.ErrProductNotFound, http.StatusNotFound, "product_not_found"},
	{app.ErrMalformedCart, http.StatusBadRequest, "malformed_cart"},
	{app.ErrCheckoutFailed, http.StatusInternalServerError, "checkout_failed"},
	{app.ErrOrderNotFound, http.StatusNotFound, "order_not_found"},
	{app.ErrOrderAccessDenied, http.StatusForbidden, "access_denied"},
	{app.ErrEmailTaken, http.StatusConflict, "email_taken"},
	{app.ErrPasswordMismatch, http.StatusBadRequest, "password_mismatch"},
	{app.ErrInvalidResetToken, http.StatusBadRequest, "invalid_token"},
	{app.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
	{app.ErrUserNotFound, http.StatusNotFound, "user_not_found"},
	{app.ErrSessionExpired, http.StatusUnauthorized, "session_expired"},
}

// mapError resolves err to a status, a stable code, the user-facing message
// and optional details. Unknown errors become a generic 500.
func mapError(err error) (int, string, string, any) {
	var se *app.StockError
	if errors.As(err, &se) {
		return http.StatusConflict, "insufficient_stock", se.Error(), gin.H{
			"product_id": se.ProductID,
			"requested":  se.Requested,
			"available":  se.Available,
		}
	}
	var pe *app.PasswordPolicyError
	if errors.As(err, &pe) {
		return http.StatusBadRequest, "weak_password", pe.Error(), gin.H{"violations": pe.Violations}
	}
	for _, m := range errTable {
		if errors.Is(err, m.target) {
			return m.status, m.code, m.target.Error(), nil
		}
	}
	return http.StatusInternalServerError, "internal_error", "internal server error", nil
}

// fail writes err through the envelope. Server errors are logged with the
// underlying cause, which is never sent to the client.
func fail(c *gin.Context, logger *logrus.Logger, err error) {
	status, code, msg, details := mapError(err)
	if status >= http.StatusInternalServerError && logger != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.FullPath(),
			"user_id":    middleware.UserID(c),
		}).Error("request failed")
	}
	response.Error[any](c, status, msg, apiError{Code: code, Details: details})
}

func badRequest(c *gin.Context, err error) {
	response.Error[any](c, http.StatusBadRequest, "invalid payload", apiError{Code: "invalid_payload", Details: validation.ToDetails(err)})
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.Error[any](c, http.StatusBadRequest, "invalid "+name, apiError{Code: "invalid_id"})
		return 0, false
	}
	return id, true
}
