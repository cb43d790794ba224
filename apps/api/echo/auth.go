package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/myday/core"
	"github.com/trezcool/myday/core/timetable"
)

const jwtContextKey = "userToken"

// Claims represents the authorization claims transmitted via a JWT.
// The issuing site (the LMS) is trusted to report the user's campus roles.
type Claims struct {
	jwt.StandardClaims
	Username    string   `json:"username,omitempty"`
	Email       string   `json:"email,omitempty"`
	CampusRoles []string `json:"campus_roles,omitempty"`
}

func (c Claims) Viewer() timetable.Viewer {
	return timetable.Viewer{Username: c.Username, CampusRoles: c.CampusRoles}
}

func (c Claims) PersonInfo() (id, username, email string) {
	return c.Subject, c.Username, c.Email
}

var _ core.Person = Claims{}

func newJWTConfig(secretKey string) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    []byte(secretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    jwtContextKey,
		Claims:        new(Claims),
	}
}

// NewClaims builds the claims of a token valid for conf.Server.JWTExpirationDelta.
func NewClaims(conf *core.Config, usr timetable.User) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   usr.Username,
			ExpiresAt: now.Add(conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Username:    usr.Username,
		Email:       usr.Email,
		CampusRoles: usr.CampusRoles,
	}
}

// GenerateToken generates a signed JWT token string representing the user Claims.
func GenerateToken(secretKey string, claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(middleware.AlgorithmHS256)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString([]byte(secretKey))
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(jwtContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok && claims.Username != "" {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}
