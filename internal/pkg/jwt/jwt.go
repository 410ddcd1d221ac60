package jwt

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/branch-report-go/internal/domain/access"
	"github.com/cmlabs-hris/branch-report-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	TokenTypeAccess = "access"
	TokenTypeSSE    = "sse"

	sseTokenTTL = 5 * time.Minute
)

type Service interface {
	GenerateAccessToken(u user.User) (token string, expiresAt int64, err error)
	GenerateSSEToken(userID string) (token string, expiresIn int, err error)
	ValidateSSEToken(tokenString string) (userID string, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpiration time.Duration
	tokenAuth             *jwtauth.JWTAuth
	now                   func() time.Time
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) (Service, error) {
	exp, err := time.ParseDuration(accessTokenExpirationTime)
	if err != nil {
		return nil, fmt.Errorf("invalid access token expiration %q: %w", accessTokenExpirationTime, err)
	}
	return &JWTService{
		accessTokenExpiration: exp,
		tokenAuth:             jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:                   time.Now,
	}, nil
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateAccessToken(u user.User) (token string, expiresAt int64, err error) {
	expiresAt = j.now().Add(j.accessTokenExpiration).Unix()

	assigned := u.AssignedBranchIDs
	if assigned == nil {
		assigned = []string{}
	}

	claims := map[string]interface{}{
		"user_id":             u.ID,
		"email":               u.Email,
		"role":                string(u.Role),
		"branch_id":           returnValueOrNil(u.BranchID),
		"assigned_branch_ids": assigned,
		"type":                TokenTypeAccess,
		"exp":                 expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// GenerateSSEToken generates a short-lived token for SSE connections,
// which cannot carry an Authorization header.
func (j *JWTService) GenerateSSEToken(userID string) (token string, expiresIn int, err error) {
	expiresAt := j.now().Add(sseTokenTTL).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id": userID,
		"type":    TokenTypeSSE,
		"exp":     expiresAt,
	})
	if err != nil {
		return "", 0, err
	}

	return tokenString, int(sseTokenTTL.Seconds()), nil
}

// ValidateSSEToken validates an SSE token and returns the user ID
func (j *JWTService) ValidateSSEToken(tokenString string) (userID string, err error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return "", err
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != TokenTypeSSE {
		return "", jwt.ErrInvalidJWT()
	}

	userIDVal, ok := token.Get("user_id")
	if !ok {
		return "", jwt.ErrInvalidJWT()
	}

	userID, ok = userIDVal.(string)
	if !ok || userID == "" {
		return "", jwt.ErrInvalidJWT()
	}

	return userID, nil
}

// ActorFromClaims rebuilds the session actor from access token claims.
func ActorFromClaims(claims map[string]interface{}) (access.Actor, error) {
	if tokenType, _ := claims["type"].(string); tokenType != TokenTypeAccess {
		return access.Actor{}, fmt.Errorf("unexpected token type %q", claims["type"])
	}

	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return access.Actor{}, fmt.Errorf("user_id claim is missing")
	}

	roleStr, _ := claims["role"].(string)
	role, err := access.ParseRole(roleStr)
	if err != nil {
		return access.Actor{}, err
	}

	branchID, _ := claims["branch_id"].(string)

	assigned := []string{}
	switch v := claims["assigned_branch_ids"].(type) {
	case []interface{}:
		for _, item := range v {
			if id, ok := item.(string); ok && id != "" {
				assigned = append(assigned, id)
			}
		}
	case []string:
		assigned = append(assigned, v...)
	}

	return access.Actor{
		UserID:            userID,
		Role:              role,
		BranchID:          branchID,
		AssignedBranchIDs: assigned,
	}, nil
}

func returnValueOrNil(value *string) interface{} {
	if value == nil {
		return nil
	}
	return *value
}
