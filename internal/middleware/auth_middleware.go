package middleware

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/yuvrajkohlioffice/HRMS/internal/accesscontrol"
	autherrors "github.com/yuvrajkohlioffice/HRMS/internal/auth/errors"
	"github.com/yuvrajkohlioffice/HRMS/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const actorKey = "actor"

// AuthMiddleware verifies the bearer token and materializes the caller as
// an accesscontrol.Actor in the gin context. Tenant and employee linkage
// come from the token claims, never from the request body.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			tokenString = ""
		}

		if tokenString == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Token not found", nil)
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(os.Getenv("JWT_SECRET")), nil
		})

		if err != nil || !token.Valid {
			errObj := autherrors.ErrInvalidToken
			if err != nil && strings.Contains(err.Error(), "expired") {
				errObj = autherrors.ErrTokenExpired
			}
			response.Error(c, errObj.HTTPStatus, errObj.Code, errObj.Message, nil)
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid token claims", nil)
			c.Abort()
			return
		}

		actor, err := actorFromClaims(claims)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", err.Error(), nil)
			c.Abort()
			return
		}

		c.Set(actorKey, actor)
		c.Set("user_id", actor.UserID.String())
		c.Set("role", string(actor.Role))
		if actor.CompanyID != nil {
			c.Set("company_id", actor.CompanyID.String())
		}
		if actor.EmployeeID != nil {
			c.Set("employee_id", actor.EmployeeID.String())
		}

		c.Next()
	}
}

func actorFromClaims(claims jwt.MapClaims) (accesscontrol.Actor, error) {
	userIDStr, ok := claims["user_id"].(string)
	if !ok || userIDStr == "" {
		return accesscontrol.Actor{}, fmt.Errorf("user_id not found in token")
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return accesscontrol.Actor{}, fmt.Errorf("invalid user_id in token")
	}

	roleStr, _ := claims["role"].(string)
	role, err := accesscontrol.ParseRole(roleStr)
	if err != nil {
		return accesscontrol.Actor{}, fmt.Errorf("invalid role in token")
	}

	actor := accesscontrol.Actor{UserID: userID, Role: role}

	if companyIDStr, ok := claims["company_id"].(string); ok && companyIDStr != "" {
		companyID, err := uuid.Parse(companyIDStr)
		if err != nil {
			return accesscontrol.Actor{}, fmt.Errorf("invalid company_id in token")
		}
		actor.CompanyID = &companyID
	}

	if employeeIDStr, ok := claims["employee_id"].(string); ok && employeeIDStr != "" {
		employeeID, err := uuid.Parse(employeeIDStr)
		if err != nil {
			return accesscontrol.Actor{}, fmt.Errorf("invalid employee_id in token")
		}
		actor.EmployeeID = &employeeID
	}

	return actor, actor.Validate()
}

// ActorFromContext returns the actor stored by AuthMiddleware.
func ActorFromContext(c *gin.Context) (accesscontrol.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return accesscontrol.Actor{}, false
	}
	actor, ok := v.(accesscontrol.Actor)
	return actor, ok
}
