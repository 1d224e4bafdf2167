package auth

import (
	"context"
	"os"

	"github.com/golang-jwt/jwt/v4"
)

const (
	XUserNameHeader = "X-User-Name"
	XUserRoleHeader = "X-User-Role"

	RoleAdmin  = "ADMIN"
	RoleMember = "MEMBER"
)

// JWTKey signs and verifies access tokens. The user service is the
// only issuer; every other service just verifies.
var JWTKey = []byte(getEnv("JWT_KEY", "super-secret-key"))

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

type Claims struct {
	Profile struct {
		Username string `json:"username"`
		Role     string `json:"role"`
	} `json:"profile"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type ctxKey int

const (
	userNameKey ctxKey = iota
	userRoleKey
	tokenKey
)

// SetAuthContext stores the authenticated principal on the context.
func SetAuthContext(ctx context.Context, username, role string) context.Context {
	ctx = context.WithValue(ctx, userNameKey, username)
	return context.WithValue(ctx, userRoleKey, role)
}

func Username(ctx context.Context) string {
	name, _ := ctx.Value(userNameKey).(string)
	return name
}

func Role(ctx context.Context) string {
	role, _ := ctx.Value(userRoleKey).(string)
	return role
}

func IsAdmin(ctx context.Context) bool {
	return Role(ctx) == RoleAdmin
}

// SetToken keeps the raw bearer token so outbound clients can forward
// it explicitly on every call.
func SetToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

func Token(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}
