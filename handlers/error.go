package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"arm-control/motion"
	"arm-control/utils"
)

var errorLogger *slog.Logger

// SetErrorLogger sets the logger for error handling.
func SetErrorLogger(logger *slog.Logger) {
	errorLogger = logger.With("component", "error_handler")
}

// CustomHTTPErrorHandler is the central error handler for the Echo
// application. It maps domain errors onto the response envelope: rejected
// motion requests are client errors, everything unexpected is a 500.
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	switch {
	case errors.Is(err, motion.ErrInvalidRequest),
		errors.Is(err, motion.ErrInvalidProfileParameters):
		errorLogger.Info("Motion request rejected", "error_message", err.Error())
		c.JSON(http.StatusBadRequest, utils.ErrorResponse(err.Error()))
		return
	}

	var appErr *utils.AppError
	if !errors.As(err, &appErr) {
		errorLogger.Error("Unhandled error occurred",
			"error_type", fmt.Sprintf("%T", err),
			"error_message", err.Error(),
			slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("An unexpected internal error occurred."))
		return
	}

	if internalErr := appErr.Unwrap(); internalErr != nil {
		errorLogger.Info("Error handled",
			"status_code", appErr.Code,
			"error_message", appErr.Message,
			slog.Any("internal_error", internalErr))
	}

	c.JSON(appErr.Code, utils.ErrorResponse(appErr.Message))
}
