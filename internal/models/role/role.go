package role

import (
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/lib/pq"
)

// Role carries a named permission set within one organization.
type Role struct {
	ID          strfmt.UUID4   `json:"id" gorm:"type:uuid;primaryKey;column:id"`
	OrgID       strfmt.UUID4   `json:"org_id" gorm:"type:uuid;not null;column:org_id"`
	Name        string         `json:"name" gorm:"not null;column:name"`
	Permissions pq.StringArray `json:"permissions" gorm:"type:text[];not null;column:permissions"`
	CreatedAt   time.Time      `json:"created_at" gorm:"autoCreateTime;column:created_at"`
	UpdatedAt   time.Time      `json:"updated_at" gorm:"autoUpdateTime;column:updated_at"`
}

func (r *Role) TableName() string {
	return "roles"
}

// Binding assigns a role to a user within one organization.
type Binding struct {
	ID        strfmt.UUID4 `json:"id" gorm:"type:uuid;primaryKey;column:id"`
	OrgID     strfmt.UUID4 `json:"org_id" gorm:"type:uuid;not null;column:org_id"`
	UserID    strfmt.UUID4 `json:"user_id" gorm:"type:uuid;not null;column:user_id"`
	RoleID    strfmt.UUID4 `json:"role_id" gorm:"type:uuid;not null;column:role_id"`
	CreatedAt time.Time    `json:"created_at" gorm:"autoCreateTime;column:created_at"`
}

func (b *Binding) TableName() string {
	return "role_bindings"
}
