package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/sumire/civic/internal/domain"
)

// ErrInvalidActionToken is returned when a confirmation does not carry a
// token issued by this server, or the token has expired.
var ErrInvalidActionToken = errors.New("invalid or expired action token")

// ErrActionTokenUsed is returned when an action token is redeemed twice.
var ErrActionTokenUsed = fmt.Errorf("%w: already used", ErrInvalidActionToken)

const (
	tokenTypeAccess = "access"
	tokenTypeAction = "action"

	// DefaultActionTokenTTL bounds how long a proposal can be confirmed.
	DefaultActionTokenTTL = 10 * time.Minute
)

// TokenConfig holds signing configuration.
type TokenConfig struct {
	// AccessSecret verifies staff bearer tokens. Empty disables access
	// token validation entirely.
	AccessSecret string
	// ActionSecret signs proposed actions.
	ActionSecret   string
	ActionTokenTTL time.Duration
}

// TokenService signs and validates the HS256 tokens used by the API: staff
// access tokens and proposed-action tokens.
type TokenService struct {
	accessSecret []byte
	actionSecret []byte
	actionTTL    time.Duration
	now          func() time.Time

	mu sync.Mutex
	// redeemed holds the ids of redeemed action tokens until they expire.
	// It is per process.
	redeemed map[string]time.Time
}

// NewTokenService creates a new TokenService.
func NewTokenService(cfg TokenConfig) *TokenService {
	ttl := cfg.ActionTokenTTL
	if ttl <= 0 {
		ttl = DefaultActionTokenTTL
	}
	return &TokenService{
		accessSecret: []byte(cfg.AccessSecret),
		actionSecret: []byte(cfg.ActionSecret),
		actionTTL:    ttl,
		now:          time.Now,
		redeemed:     make(map[string]time.Time),
	}
}

// AccessEnabled reports whether staff access tokens are required.
func (s *TokenService) AccessEnabled() bool {
	return len(s.accessSecret) > 0
}

// IssueAccessToken signs an access token for subject, valid for ttl.
func (s *TokenService) IssueAccessToken(subject string, ttl time.Duration) (string, error) {
	if !s.AccessEnabled() {
		return "", fmt.Errorf("access tokens are not configured")
	}
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  subject,
		"type": tokenTypeAccess,
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	})
	signed, err := token.SignedString(s.accessSecret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

// ValidateAccessToken validates a staff access token and returns its subject.
func (s *TokenService) ValidateAccessToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.accessSecret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", domain.ErrUnauthorized
	}

	tokenType, _ := claims["type"].(string)
	if tokenType != tokenTypeAccess {
		return "", domain.ErrUnauthorized
	}

	subject, _ := claims["sub"].(string)
	if subject == "" {
		return "", domain.ErrUnauthorized
	}
	return subject, nil
}

type actionClaims struct {
	Type       string               `json:"type"`
	Kind       domain.ActionKind    `json:"kind"`
	IssueID    string               `json:"issue_id"`
	IssueTitle string               `json:"issue_title"`
	Payload    domain.ActionPayload `json:"payload"`
	jwt.RegisteredClaims
}

// SignAction returns an opaque token binding every field of action.
func (s *TokenService) SignAction(action domain.ProposedAction) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, actionClaims{
		Type:       tokenTypeAction,
		Kind:       action.Kind,
		IssueID:    action.TargetIssueID,
		IssueTitle: action.TargetIssueTitle,
		Payload:    action.Payload,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.actionTTL)),
		},
	})
	signed, err := token.SignedString(s.actionSecret)
	if err != nil {
		return "", fmt.Errorf("sign action token: %w", err)
	}
	return signed, nil
}

// VerifyAction decodes a token issued by SignAction. The returned action is
// rebuilt from the token alone. Verifying does not use the token up.
func (s *TokenService) VerifyAction(tokenString string) (domain.ProposedAction, error) {
	action, _, err := s.parseAction(tokenString)
	return action, err
}

// RedeemAction verifies a token like VerifyAction and marks it used, so
// each proposal executes at most once.
func (s *TokenService) RedeemAction(tokenString string) (domain.ProposedAction, error) {
	action, claims, err := s.parseAction(tokenString)
	if err != nil {
		return domain.ProposedAction{}, err
	}
	if claims.ID == "" {
		return domain.ProposedAction{}, ErrInvalidActionToken
	}

	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, exp := range s.redeemed {
		if !exp.After(now) {
			delete(s.redeemed, id)
		}
	}
	if _, used := s.redeemed[claims.ID]; used {
		return domain.ProposedAction{}, ErrActionTokenUsed
	}
	s.redeemed[claims.ID] = claims.ExpiresAt.Time
	return action, nil
}

func (s *TokenService) parseAction(tokenString string) (domain.ProposedAction, *actionClaims, error) {
	if tokenString == "" {
		return domain.ProposedAction{}, nil, ErrInvalidActionToken
	}

	var claims actionClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return s.actionSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		return domain.ProposedAction{}, nil, fmt.Errorf("%w: %v", ErrInvalidActionToken, err)
	}
	if !token.Valid || claims.Type != tokenTypeAction || !claims.Kind.Valid() {
		return domain.ProposedAction{}, nil, ErrInvalidActionToken
	}

	return domain.ProposedAction{
		Kind:             claims.Kind,
		TargetIssueID:    claims.IssueID,
		TargetIssueTitle: claims.IssueTitle,
		Payload:          claims.Payload,
		Token:            tokenString,
	}, &claims, nil
}
