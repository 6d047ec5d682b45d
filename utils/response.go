package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSONResponse is the uniform envelope for every API response.
type JSONResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Respond writes a JSON envelope with the given HTTP status.
func Respond(ctx *gin.Context, status int, code int, message string, data interface{}) {
	ctx.JSON(status, JSONResponse{
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// Success returns a standard 200 response.
func Success(ctx *gin.Context, data interface{}) {
	Respond(ctx, http.StatusOK, 0, "success", data)
}

// Created returns a 201 response with a user-facing notice.
func Created(ctx *gin.Context, message string, data interface{}) {
	Respond(ctx, http.StatusCreated, 0, message, data)
}

// Error returns a standard error response without data.
func Error(ctx *gin.Context, status int, code int, message string) {
	Respond(ctx, status, code, message, nil)
}
