package middleware

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/stuapp/suggest-api/internal/database"
	"github.com/stuapp/suggest-api/internal/models"
	"github.com/stuapp/suggest-api/internal/request"
	"github.com/stuapp/suggest-api/internal/services/oidc"
	"github.com/stuapp/suggest-api/internal/suggest"
	"go.uber.org/zap"
)

// Auth creates authentication middleware that validates bearer tokens against
// the OIDC provider's key set and attaches the caller to the request context.
// Failed authentications emit an audit event fire-and-forget; audit may be
// nil.
func Auth(users database.UserRepositoryInterface, provider *oidc.Provider, jwksManager *oidc.JWKSManager, audit suggest.AuditPublisher, logger *zap.Logger) func(http.Handler) http.Handler {
	verifier := oidc.NewVerifier(jwksManager, provider.Issuer)

	reject := func(w http.ResponseWriter, r *http.Request, detail string) {
		if audit != nil {
			event := models.NewAuditEvent(models.AuditKindAuthentication, models.AuditSeverityMedium, detail)
			event.ClientIP = request.ClientIP(r)
			audit.Publish(r.Context(), event)
		}
		respondError(w, http.StatusUnauthorized, "Invalid or missing credentials")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				reject(w, r, "missing authorization header")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				reject(w, r, "malformed authorization header")
				return
			}

			ctx := r.Context()
			claims, err := verifier.Verify(ctx, parts[1], provider.JWKSURL)
			if err != nil {
				logger.Info("token_verification_failed",
					zap.String("issuer", provider.Issuer),
					zap.Error(err),
				)
				reject(w, r, "token verification failed")
				return
			}

			user, err := users.GetByProviderID(ctx, claims.Sub)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					// First sign-in: provision the user, seeding the tier
					// from the billing claim when present.
					user = &models.User{
						ID:            uuid.New(),
						Email:         claims.Email,
						ProviderID:    &claims.Sub,
						Name:          &claims.Name,
						Tier:          tierFromClaim(claims.Tier),
						EmailVerified: true,
					}
					if err := users.Create(ctx, user); err != nil {
						logger.Error("user_provisioning_failed", zap.Error(err))
						respondError(w, http.StatusInternalServerError, "Failed to create user")
						return
					}
				} else {
					logger.Error("user_lookup_failed", zap.Error(err))
					respondError(w, http.StatusInternalServerError, "Database error")
					return
				}
			} else {
				if syncUserFromClaims(user, claims) {
					if err := users.Update(ctx, user); err != nil {
						logger.Warn("user_sync_failed",
							zap.String("user_id", user.ID.String()),
							zap.Error(err),
						)
					}
				}
			}

			next.ServeHTTP(w, r.WithContext(request.WithUser(ctx, user)))
		})
	}
}

// tierFromClaim maps the optional token tier claim to a stored tier.
// Unknown or absent values land on free.
func tierFromClaim(claim string) models.SubscriptionTier {
	tier := models.SubscriptionTier(claim)
	if models.ValidTier(tier) {
		return tier
	}
	return models.TierFree
}

// syncUserFromClaims refreshes mutable profile fields from token claims and
// reports whether anything changed. The stored tier is authoritative once
// set; only an explicit valid tier claim moves it.
func syncUserFromClaims(user *models.User, claims *models.JWTClaims) bool {
	changed := false
	if user.Email != claims.Email && claims.Email != "" {
		user.Email = claims.Email
		changed = true
	}
	if claims.Name != "" && (user.Name == nil || *user.Name != claims.Name) {
		name := claims.Name
		user.Name = &name
		changed = true
	}
	if claims.Tier != "" {
		tier := models.SubscriptionTier(claims.Tier)
		if models.ValidTier(tier) && user.Tier != tier {
			user.Tier = tier
			changed = true
		}
	}
	return changed
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]any{
		"success": false,
		"error":   message,
	}

	_ = json.NewEncoder(w).Encode(response)
}
