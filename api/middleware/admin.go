package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/fichajeapp/fichaje-backend/api/responses"
	"github.com/fichajeapp/fichaje-backend/pkg/enums"
	pkgerrors "github.com/fichajeapp/fichaje-backend/pkg/errors"
	"github.com/fichajeapp/fichaje-backend/pkg/logger"
)

// RoleChecker reports whether a user currently holds a role.
type RoleChecker interface {
	HasRole(ctx context.Context, userID uuid.UUID, role enums.Role) (bool, error)
}

// RequireAdmin gates a route on a live role lookup rather than the token
// claim, so revoking the admin role takes effect on the next request.
func RequireAdmin(checker RoleChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := uuid.Parse(UserIDFromContext(r.Context()))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			isAdmin, err := checker.HasRole(r.Context(), userID, enums.RoleAdmin)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check role"))
				return
			}
			if !isAdmin {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "admin role required"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
