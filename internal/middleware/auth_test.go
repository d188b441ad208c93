package middleware

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stuapp/suggest-api/internal/models"
)

func TestTierFromClaim(t *testing.T) {
	t.Parallel()

	tests := []struct {
		claim string
		want  models.SubscriptionTier
	}{
		{"", models.TierFree},
		{"free", models.TierFree},
		{"premium", models.TierPremium},
		{"premium_plus", models.TierPremiumPlus},
		{"enterprise", models.TierEnterprise},
		{"gold", models.TierFree},
	}

	for _, tt := range tests {
		if got := tierFromClaim(tt.claim); got != tt.want {
			t.Errorf("tierFromClaim(%q) = %q, want %q", tt.claim, got, tt.want)
		}
	}
}

func TestSyncUserFromClaims(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		user        *models.User
		claims      *models.JWTClaims
		wantChanged bool
		validate    func(t *testing.T, user *models.User)
	}{
		{
			name:        "no changes",
			user:        &models.User{Email: "a@example.com", Tier: models.TierFree},
			claims:      &models.JWTClaims{Email: "a@example.com"},
			wantChanged: false,
		},
		{
			name:        "email updated",
			user:        &models.User{Email: "old@example.com"},
			claims:      &models.JWTClaims{Email: "new@example.com"},
			wantChanged: true,
			validate: func(t *testing.T, user *models.User) {
				if user.Email != "new@example.com" {
					t.Errorf("expected email update, got %q", user.Email)
				}
			},
		},
		{
			name:        "empty claim email keeps stored value",
			user:        &models.User{Email: "keep@example.com"},
			claims:      &models.JWTClaims{},
			wantChanged: false,
			validate: func(t *testing.T, user *models.User) {
				if user.Email != "keep@example.com" {
					t.Errorf("expected stored email kept, got %q", user.Email)
				}
			},
		},
		{
			name:        "tier claim promotes user",
			user:        &models.User{Tier: models.TierFree},
			claims:      &models.JWTClaims{Tier: "premium"},
			wantChanged: true,
			validate: func(t *testing.T, user *models.User) {
				if user.Tier != models.TierPremium {
					t.Errorf("expected premium tier, got %q", user.Tier)
				}
			},
		},
		{
			name:        "invalid tier claim ignored",
			user:        &models.User{Tier: models.TierPremium},
			claims:      &models.JWTClaims{Tier: "platinum"},
			wantChanged: false,
			validate: func(t *testing.T, user *models.User) {
				if user.Tier != models.TierPremium {
					t.Errorf("expected tier untouched, got %q", user.Tier)
				}
			},
		},
		{
			name:        "name set on first claim",
			user:        &models.User{ID: uuid.New()},
			claims:      &models.JWTClaims{Name: "Sam"},
			wantChanged: true,
			validate: func(t *testing.T, user *models.User) {
				if user.Name == nil || *user.Name != "Sam" {
					t.Errorf("expected name set, got %v", user.Name)
				}
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			changed := syncUserFromClaims(tt.user, tt.claims)
			if changed != tt.wantChanged {
				t.Errorf("changed = %v, want %v", changed, tt.wantChanged)
			}
			if tt.validate != nil {
				tt.validate(t, tt.user)
			}
		})
	}
}
