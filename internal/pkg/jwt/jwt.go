package jwt

import (
	"encoding/json"
	"math"
	"strconv"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Tokens are issued by the identity service; this service only verifies them.
// GenerateAccessToken mints tokens with the same claim layout for tooling and tests.
type Service interface {
	GenerateAccessToken(userID int64, employeeID *int64, companyID int64, role user.Role) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) Service {
	return &JWTService{
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) GenerateAccessToken(userID int64, employeeID *int64, companyID int64, role user.Role) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()

	claims := map[string]interface{}{
		"user_id":     userID,
		"employee_id": nil,
		"company_id":  companyID,
		"role":        string(role),
		"type":        "access",
		"exp":         expiresAt,
	}
	if employeeID != nil {
		claims["employee_id"] = *employeeID
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// ClaimInt64 reads a numeric id claim. Identity providers emit ids either as
// JSON numbers (decoded as float64) or as strings.
func ClaimInt64(claims map[string]interface{}, key string) (int64, bool) {
	var id int64
	switch v := claims[key].(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		id = int64(v)
	case int64:
		id = v
	case int:
		id = int64(v)
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		id = n
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, false
		}
		id = n
	default:
		return 0, false
	}
	return id, id > 0
}

// ClaimRole reads the role claim.
func ClaimRole(claims map[string]interface{}) (user.Role, bool) {
	role, ok := claims["role"].(string)
	if !ok || role == "" {
		return "", false
	}
	return user.Role(role), true
}
