package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/devboard/devboard/services"
	"github.com/devboard/devboard/utils"
)

// writeServiceError translates the rules-engine error taxonomy to HTTP.
// Validation -> 400 with a field-keyed message, permission -> 403,
// not-found -> 404, anything else -> opaque 500.
func writeServiceError(ctx *gin.Context, err error) {
	switch e := err.(type) {
	case *services.ValidationError:
		utils.Respond(ctx, http.StatusBadRequest, 40000, "validation failed", gin.H{e.Field: e.Message})
	case *services.PermissionError:
		utils.Error(ctx, http.StatusForbidden, 40300, e.Message)
	case *services.NotFoundError:
		utils.Error(ctx, http.StatusNotFound, 40400, e.Error())
	default:
		if utils.Sugar != nil {
			utils.Sugar.Errorf("unhandled service error: %v", err)
		}
		utils.Error(ctx, http.StatusInternalServerError, 50000, "internal server error")
	}
}

// pathID parses a numeric path parameter.
func pathID(ctx *gin.Context, name string) (uint, bool) {
	raw := strings.TrimSpace(ctx.Param(name))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// optionalUserID resolves the acting user on public routes that behave
// slightly differently when a valid bearer token is supplied (e.g. the
// is_liked flag on a post detail). Invalid tokens are treated as anonymous.
func optionalUserID(ctx *gin.Context) (uint, bool) {
	authHeader := ctx.GetHeader("Authorization")
	if authHeader == "" {
		return 0, false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return 0, false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" || utils.IsTokenBlacklisted(token) {
		return 0, false
	}
	claims, err := utils.ParseToken(token)
	if err != nil {
		return 0, false
	}
	return claims.UserID, true
}
