package auth

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/example/todo-api/domain/user"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// VerifierPort is the identity-verification contract consumed by other
// modules: a bearer credential in, a verified subject out, or a failure.
type VerifierPort interface {
	ValidateToken(ctx context.Context, token string) (*domain.Claims, error)
}

// VerifierAdapter implements VerifierPort over the auth service container.
type VerifierAdapter struct {
	container mono.ServiceContainer
}

// NewVerifierAdapter creates a new VerifierAdapter.
func NewVerifierAdapter(container mono.ServiceContainer) *VerifierAdapter {
	return &VerifierAdapter{container: container}
}

// ValidateToken validates an access token and returns the subject claims.
func (a *VerifierAdapter) ValidateToken(ctx context.Context, token string) (*domain.Claims, error) {
	req := ValidateTokenRequest{Token: token}
	var resp ValidateTokenResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"validate-token",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("validate-token request failed: %w", err)
	}

	if !resp.Valid {
		return nil, fmt.Errorf("token validation failed: %s", resp.Error)
	}

	return &domain.Claims{
		UserID: resp.UserID,
		Email:  resp.Email,
	}, nil
}
