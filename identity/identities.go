package identity

import (
	"docflow/persistence"

	"github.com/fundwit/go-commons/types"
)

// User and Group are opaque identity handles. Membership and account state
// live in the identity subsystem, the workflow engine only needs the id plus
// display fields for hydration.
type User struct {
	ID       types.ID `json:"id" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`
	Login    string   `json:"login"`
	FullName string   `json:"fullName"`
}

type Group struct {
	ID   types.ID `json:"id" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`
	Name string   `json:"name"`
}

type Resolver interface {
	ResolveUser(id types.ID) (*User, error)
	ResolveGroup(id types.ID) (*Group, error)
}

// DatabaseResolver resolves users and groups from the shared database.
type DatabaseResolver struct {
	DataSource *persistence.DataSourceManager
}

func NewDatabaseResolver(ds *persistence.DataSourceManager) *DatabaseResolver {
	return &DatabaseResolver{DataSource: ds}
}

func (r *DatabaseResolver) ResolveUser(id types.ID) (*User, error) {
	user := User{}
	if err := r.DataSource.GormDB().Where(&User{ID: id}).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *DatabaseResolver) ResolveGroup(id types.ID) (*Group, error) {
	group := Group{}
	if err := r.DataSource.GormDB().Where(&Group{ID: id}).First(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}
