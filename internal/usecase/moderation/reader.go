package moderation

import (
	"context"

	"github.com/go-openapi/strfmt"

	authModels "github.com/victor-lby/sos-cidadao-sub000/internal/models/auth"
	notificationModels "github.com/victor-lby/sos-cidadao-sub000/internal/models/notification"
	"github.com/victor-lby/sos-cidadao-sub000/pkg/errors"
)

type ModerationUsecaseReader interface {
	Get(ctx context.Context, id strfmt.UUID4, pctx *authModels.PermissionContext) (*View, error)
	List(ctx context.Context, filter notificationModels.Filter, pctx *authModels.PermissionContext) ([]View, error)
}

// View is a notification annotated with the caller's affordances.
type View struct {
	Notification *notificationModels.Notification `json:"notification"`
	Links        Links                            `json:"_links"`
}

func (u *ModerationUsecase) Get(ctx context.Context, id strfmt.UUID4, pctx *authModels.PermissionContext) (*View, error) {
	if !pctx.Has(authModels.PermissionNotificationView) {
		return nil, errors.NewAuthorization("missing permission " + authModels.PermissionNotificationView)
	}

	n, err := u.notificationDomain.GetByID(ctx, pctx.OrgID, id)
	if err != nil {
		return nil, err
	}

	return &View{
		Notification: n,
		Links:        BuildLinks(n.ID, n.Status, pctx),
	}, nil
}

func (u *ModerationUsecase) List(ctx context.Context, filter notificationModels.Filter, pctx *authModels.PermissionContext) ([]View, error) {
	if !pctx.Has(authModels.PermissionNotificationView) {
		return nil, errors.NewAuthorization("missing permission " + authModels.PermissionNotificationView)
	}

	items, err := u.notificationDomain.Find(ctx, pctx.OrgID, filter)
	if err != nil {
		return nil, err
	}

	views := make([]View, len(items))
	for i := range items {
		views[i] = View{
			Notification: &items[i],
			Links:        BuildLinks(items[i].ID, items[i].Status, pctx),
		}
	}
	return views, nil
}
