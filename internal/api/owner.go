package api

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/north-cloud/job-tracker/infrastructure/jwt"
	"github.com/jonesrussell/north-cloud/job-tracker/internal/domain"
)

// OwnerResolver identifies the principal behind a request.
type OwnerResolver interface {
	ResolveOwner(c *gin.Context) (string, error)
}

// OwnerResolverFunc adapts a function to OwnerResolver.
type OwnerResolverFunc func(c *gin.Context) (string, error)

// ResolveOwner calls f.
func (f OwnerResolverFunc) ResolveOwner(c *gin.Context) (string, error) {
	return f(c)
}

// JWTOwnerResolver uses the subject of the token validated by jwt.Middleware.
type JWTOwnerResolver struct{}

// ResolveOwner returns domain.ErrUnauthenticated when the token carries no subject.
func (JWTOwnerResolver) ResolveOwner(c *gin.Context) (string, error) {
	subject := strings.TrimSpace(jwt.Subject(c))
	if subject == "" {
		return "", domain.ErrUnauthenticated
	}
	return subject, nil
}
