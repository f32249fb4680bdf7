package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/alenbi/worknest-clienthub-52-sub000/internal/errors"
	"github.com/alenbi/worknest-clienthub-52-sub000/internal/model"
)

// Stream tickets are short-lived signed tokens that authenticate one
// SSE/WebSocket dial. EventSource cannot set headers, so the browser
// trades its session for a ticket and passes it as a query parameter.

type TicketClaims struct {
	ClientID string     `json:"cid"`
	Role     model.Role `json:"role"`
	jwt.RegisteredClaims
}

type TicketIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTicketIssuer(secret string, ttl time.Duration) *TicketIssuer {
	return &TicketIssuer{secret: []byte(secret), ttl: ttl}
}

func (t *TicketIssuer) Issue(userID, clientID string, role model.Role) (string, error) {
	now := time.Now()
	claims := TicketClaims{
		ClientID: clientID,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign stream ticket: %w", err)
	}
	return signed, nil
}

func (t *TicketIssuer) Verify(ticket string) (*TicketClaims, error) {
	var claims TicketClaims
	token, err := jwt.ParseWithClaims(ticket, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperrors.InvalidToken("Invalid or expired stream ticket")
	}
	return &claims, nil
}
