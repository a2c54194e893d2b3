package guard

import "gaportal/internal/model"

const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
)

// Decision is the outcome of a guard check. Redirect is set whenever Allow is false.
type Decision struct {
	Allow    bool
	Redirect string
}

// Decide lets user through when their role is in allowed. An empty allow-list admits any signed-in user.
func Decide(user *model.User, allowed []model.Role) Decision {
	if user == nil {
		return Decision{Redirect: LoginPath}
	}
	if len(allowed) == 0 {
		return Decision{Allow: true}
	}
	for _, role := range allowed {
		if user.Role == role {
			return Decision{Allow: true}
		}
	}
	return Decision{Redirect: DashboardPath}
}

// Route is one portal page and the roles that may open it.
type Route struct {
	Path  string       `json:"path"`
	Title string       `json:"title"`
	Roles []model.Role `json:"roles,omitempty"`
}

var userOnly = []model.Role{model.RoleUser}
var adminOnly = []model.Role{model.RoleAdmin}
var procurementOnly = []model.Role{model.RoleProcurement}

// Routes is the portal's page table in menu order.
var Routes = []Route{
	{Path: "/dashboard", Title: "Dashboard"},
	{Path: "/todos", Title: "To-Do List", Roles: userOnly},
	{Path: "/requests", Title: "Item Requests", Roles: userOnly},
	{Path: "/meetings", Title: "Meeting Rooms", Roles: userOnly},
	{Path: "/assets", Title: "My Assets", Roles: userOnly},
	{Path: "/admin/users", Title: "Users", Roles: adminOnly},
	{Path: "/admin/todos", Title: "To-Do Review", Roles: adminOnly},
	{Path: "/admin/requests", Title: "Item Requests", Roles: adminOnly},
	{Path: "/admin/assets", Title: "Assets", Roles: adminOnly},
	{Path: "/admin/meetings", Title: "Meetings", Roles: adminOnly},
	{Path: "/admin/visitors", Title: "Visitors", Roles: adminOnly},
	{Path: "/procurement/requests", Title: "Procurement", Roles: procurementOnly},
	{Path: "/procurement/assets", Title: "Asset Follow-up", Roles: procurementOnly},
}

// Navigation lists the pages a user may open, in menu order.
func Navigation(user *model.User) []Route {
	var out []Route
	for _, r := range Routes {
		if Decide(user, r.Roles).Allow {
			out = append(out, r)
		}
	}
	return out
}
