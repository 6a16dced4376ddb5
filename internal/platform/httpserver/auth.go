package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"deliverables/contexts/campaign-editorial/deliverable-review-service/domain/entities"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken = errors.New("bearer token is required")
	ErrInvalidToken = errors.New("bearer token is invalid")
)

const bearerPrefix = "Bearer "

type actorClaims struct {
	jwt.RegisteredClaims
	Role      string `json:"role"`
	AdminMode string `json:"admin_mode,omitempty"`
}

// Authenticator resolves the calling actor from an HS256 bearer token.
type Authenticator struct {
	secret []byte
	leeway time.Duration
	issuer string
}

func NewAuthenticator(secret string, leeway time.Duration) *Authenticator {
	if leeway < 0 {
		leeway = 0
	}
	return &Authenticator{
		secret: []byte(secret),
		leeway: leeway,
		issuer: "deliverables",
	}
}

func (a *Authenticator) Authenticate(r *http.Request) (entities.Actor, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return entities.Actor{}, ErrMissingToken
	}
	if !strings.HasPrefix(header, bearerPrefix) {
		return entities.Actor{}, ErrMissingToken
	}
	tokenString := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	if tokenString == "" {
		return entities.Actor{}, ErrMissingToken
	}
	return a.Parse(tokenString)
}

func (a *Authenticator) Parse(tokenString string) (entities.Actor, error) {
	if len(a.secret) == 0 {
		return entities.Actor{}, ErrInvalidToken
	}
	claims := &actorClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
		}
		return a.secret, nil
	}, jwt.WithLeeway(a.leeway), jwt.WithIssuer(a.issuer))
	if err != nil || !token.Valid {
		return entities.Actor{}, ErrInvalidToken
	}

	actor := entities.Actor{
		UserID:    strings.TrimSpace(claims.Subject),
		Role:      entities.ActorRole(strings.ToLower(strings.TrimSpace(claims.Role))),
		AdminMode: strings.TrimSpace(claims.AdminMode),
	}
	if !actor.Valid() {
		return entities.Actor{}, ErrInvalidToken
	}
	return actor, nil
}

// IssueToken signs a token for the actor. Used by deliverablectl and tests.
func (a *Authenticator) IssueToken(actor entities.Actor, ttl time.Duration, now time.Time) (string, error) {
	if len(a.secret) == 0 {
		return "", ErrInvalidToken
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	claims := actorClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.UserID,
			Issuer:    a.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role:      string(actor.Role),
		AdminMode: actor.AdminMode,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}
