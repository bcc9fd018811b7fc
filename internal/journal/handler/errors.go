package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	pkgerrors "github.com/reeljournal/reeljournal/pkg/errors"
	"github.com/reeljournal/reeljournal/pkg/interfaces"
	"github.com/reeljournal/reeljournal/pkg/logger"
)

// ErrorBody is the error envelope of every failed request.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes one failure.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// respondError writes err with the status its type maps to. Internal
// errors are logged and reported without detail.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	errType := pkgerrors.TypeOf(err)
	detail := ErrorDetail{
		Code:  string(errType),
		Field: pkgerrors.FieldOf(err),
	}

	var appErr *pkgerrors.AppError
	if errType == pkgerrors.ErrorTypeInternal || !errors.As(err, &appErr) {
		detail.Message = "internal error"
		logger.FromContext(c.Request.Context()).Error("Request failed", interfaces.Error(err))
	} else {
		detail.Message = appErr.Message
	}

	c.AbortWithStatusJSON(pkgerrors.HTTPStatus(err), ErrorBody{Error: detail})
}
