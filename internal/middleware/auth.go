package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the access token claims issued by the hosted auth provider. The
// user id is the subject.
type Claims struct {
	Email        string         `json:"email,omitempty"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
	jwt.RegisteredClaims
}

// Identity is the authenticated caller.
type Identity struct {
	UserID    string
	Email     string
	FullName  string
	AvatarURL string
}

type identityKey struct{}

var ErrInvalidToken = errors.New("invalid token")

// SignToken issues an HS256 token for id, valid for ttl.
func SignToken(secret, audience string, id Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	meta := map[string]any{}
	if id.FullName != "" {
		meta["full_name"] = id.FullName
	}
	if id.AvatarURL != "" {
		meta["avatar_url"] = id.AvatarURL
	}
	claims := Claims{
		Email:        id.Email,
		UserMetadata: meta,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			Audience:  jwt.ClaimStrings{audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseToken verifies signature, expiry and audience.
func ParseToken(secret, audience, raw string) (Identity, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired()}
	if audience != "" {
		opts = append(opts, jwt.WithAudience(audience))
	}
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, opts...)
	if err != nil {
		return Identity{}, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || strings.TrimSpace(claims.Subject) == "" {
		return Identity{}, ErrInvalidToken
	}
	name, _ := claims.UserMetadata["full_name"].(string)
	avatar, _ := claims.UserMetadata["avatar_url"].(string)
	return Identity{UserID: claims.Subject, Email: claims.Email, FullName: name, AvatarURL: avatar}, nil
}

// Authenticate attaches the caller identity when a bearer token is present.
// Requests without a token continue anonymously; a bad token is rejected.
func Authenticate(secret, audience string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}
			scheme, raw, ok := strings.Cut(authHeader, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(raw) == "" {
				writeError(w, http.StatusUnauthorized, "unauthorized", "invalid authorization header")
				return
			}
			id, err := ParseToken(secret, audience, strings.TrimSpace(raw))
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized", "invalid token")
				return
			}
			annotateUser(r.Context(), id.UserID)
			next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), id)))
		})
	}
}

func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	if strings.TrimSpace(id.UserID) == "" {
		return ctx
	}
	return context.WithValue(ctx, identityKey{}, id)
}

func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return ContextWithIdentity(ctx, Identity{UserID: userID})
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

func UserIDFromContext(ctx context.Context) string {
	id, _ := IdentityFromContext(ctx)
	return id.UserID
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code, "message": message})
}
