package guard

import (
	"testing"

	"gaportal/internal/model"

	"github.com/stretchr/testify/require"
)

func TestDecide(t *testing.T) {
	admin := &model.User{ID: "1", Role: model.RoleAdmin}
	user := &model.User{ID: "2", Role: model.RoleUser}

	require.Equal(t, Decision{Redirect: LoginPath}, Decide(nil, []model.Role{model.RoleAdmin}))
	require.Equal(t, Decision{Redirect: LoginPath}, Decide(nil, nil))
	require.Equal(t, Decision{Allow: true}, Decide(admin, []model.Role{model.RoleAdmin}))
	require.Equal(t, Decision{Redirect: DashboardPath}, Decide(user, []model.Role{model.RoleAdmin}))
	require.Equal(t, Decision{Allow: true}, Decide(user, nil))
}

func TestNavigation(t *testing.T) {
	nav := Navigation(&model.User{Role: model.RoleProcurement})
	paths := make([]string, 0, len(nav))
	for _, r := range nav {
		paths = append(paths, r.Path)
	}
	require.Equal(t, []string{"/dashboard", "/procurement/requests", "/procurement/assets"}, paths)
	require.Empty(t, Navigation(nil))
}
