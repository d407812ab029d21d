package auth

import (
	"context"

	"github.com/go-openapi/strfmt"

	"github.com/victor-lby/sos-cidadao-sub000/configs"
	"github.com/victor-lby/sos-cidadao-sub000/internal/domain"
	roleDomain "github.com/victor-lby/sos-cidadao-sub000/internal/domain/role"
	models "github.com/victor-lby/sos-cidadao-sub000/internal/models/auth"
	"github.com/victor-lby/sos-cidadao-sub000/pkg/errors"
	"github.com/victor-lby/sos-cidadao-sub000/pkg/logger"
)

type AuthUsecaseHandler interface {
	Resolve(ctx context.Context, orgID, userID strfmt.UUID4) (*models.PermissionContext, error)
}

type AuthUsecase struct {
	cfg        *configs.AppConfig
	log        logger.Logger
	roleDomain roleDomain.RoleDomainReader
}

func NewAuthUsecase(cfg *configs.AppConfig, log logger.Logger, dom *domain.Domain) *AuthUsecase {
	return &AuthUsecase{
		cfg:        cfg,
		log:        log,
		roleDomain: dom.Role,
	}
}

// Resolve computes the caller's effective permission set: the union across all
// roles bound to them within the org. A caller with no binding in the org is
// rejected outright, so permissions can never leak across organizations. The
// result is derived fresh on every call and safe to recompute at any time.
func (u *AuthUsecase) Resolve(ctx context.Context, orgID, userID strfmt.UUID4) (*models.PermissionContext, error) {
	roles, err := u.roleDomain.ListForUser(ctx, orgID, userID)
	if err != nil {
		return nil, err
	}
	if len(roles) == 0 {
		return nil, errors.NewAuthorization("no role binding in organization")
	}

	var permissions []string
	for _, r := range roles {
		permissions = append(permissions, r.Permissions...)
	}

	return models.NewPermissionContext(userID, orgID, permissions), nil
}
