package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/foodheaven/storefront-backend/api/responses"
	"github.com/foodheaven/storefront-backend/api/validators"
	"github.com/foodheaven/storefront-backend/pkg/auth/session"
	"github.com/foodheaven/storefront-backend/pkg/config"
	pkgerrors "github.com/foodheaven/storefront-backend/pkg/errors"
	"github.com/foodheaven/storefront-backend/pkg/logger"
)

const guestIDHeader = "X-Guest-Id"

const maxGuestIDLen = 64

// OwnerContext resolves the slot owner for cart, wishlist, checkout, and
// preference endpoints. A valid bearer token wins; otherwise the client
// supplies a stable guest identifier. Requests with neither are rejected
// because there would be no slot to operate on.
func OwnerContext(cfg config.JWTConfig, verifier session.AccessSessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if bearerToken(r) != "" {
				claims, err := claimsFromRequest(r, cfg, verifier)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, err)
					return
				}
				ctx := context.WithValue(r.Context(), ctxUserID, claims.UserID.String())
				ctx = context.WithValue(ctx, ctxRole, string(claims.Role))
				ctx = context.WithValue(ctx, ctxOwnerID, claims.UserID.String())
				if logg != nil {
					ctx = logg.WithOwnerID(ctx, claims.UserID.String())
				}
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			guestID := validators.SanitizeString(r.Header.Get(guestIDHeader), maxGuestIDLen)
			if guestID == "" || strings.ContainsAny(guestID, " \t") {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "guest id header required"))
				return
			}

			ownerID := "guest:" + guestID
			ctx := context.WithValue(r.Context(), ctxOwnerID, ownerID)
			if logg != nil {
				ctx = logg.WithOwnerID(ctx, ownerID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
