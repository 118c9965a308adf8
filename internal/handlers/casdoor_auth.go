package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/alumni-service/internal/config"
)

// Principal is the caller identified by a verified token
type Principal struct {
	ID    string
	Name  string
	Admin bool
}

// CasdoorAuthMiddleware guards directory writes with Casdoor issued tokens
type CasdoorAuthMiddleware struct {
	enabled bool
	verify  func(token string) (*Principal, error)
}

// NewCasdoorAuthMiddleware creates the write guard. With auth disabled every
// request passes.
func NewCasdoorAuthMiddleware(enabled bool, cfg config.CasdoorConfig) *CasdoorAuthMiddleware {
	cam := &CasdoorAuthMiddleware{enabled: enabled}
	if !enabled {
		return cam
	}

	client := casdoorsdk.NewClient(
		cfg.Endpoint,
		cfg.ClientID,
		cfg.ClientSecret,
		cfg.Cert,
		cfg.Organization,
		cfg.Application,
	)
	cam.verify = func(token string) (*Principal, error) {
		claims, err := client.ParseJwtToken(token)
		if err != nil {
			return nil, err
		}
		return principalFromClaims(claims)
	}
	return cam
}

// RequireAdminMiddleware rejects callers without an admin token
func (cam *CasdoorAuthMiddleware) RequireAdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cam.enabled {
			c.Next()
			return
		}

		token, err := bearerToken(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Authentication credentials were not provided.",
				Details: err.Error(),
			})
			return
		}

		principal, err := cam.verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Invalid token.",
				Details: err.Error(),
			})
			return
		}

		if !principal.Admin {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
				Message: "You do not have permission to perform this action.",
			})
			return
		}

		c.Set("user_id", principal.ID)
		c.Set("user_name", principal.Name)
		c.Next()
	}
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", fmt.Errorf("authorization header missing")
	}

	tokenParts := strings.Split(header, " ")
	if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" || tokenParts[1] == "" {
		return "", fmt.Errorf("invalid authorization header format")
	}
	return tokenParts[1], nil
}

// principalFromClaims maps Casdoor claims; admins are flagged either by
// IsAdmin or by user type
func principalFromClaims(claims *casdoorsdk.Claims) (*Principal, error) {
	if claims.User.Id == "" && claims.User.Name == "" {
		return nil, fmt.Errorf("invalid user in token")
	}

	return &Principal{
		ID:    claims.User.Id,
		Name:  claims.User.Name,
		Admin: claims.User.IsAdmin || strings.EqualFold(claims.User.Type, "admin"),
	}, nil
}

// GetUserIDFromContext extracts the authenticated user id set by the write guard
func GetUserIDFromContext(c *gin.Context) (string, error) {
	userID, exists := c.Get("user_id")
	if !exists {
		return "", fmt.Errorf("user ID not found in context")
	}

	id, ok := userID.(string)
	if !ok {
		return "", fmt.Errorf("invalid user ID type in context")
	}

	return id, nil
}
