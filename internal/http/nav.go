package httpx

import domainauth "github.com/libamlakbirhanu/chapa-dashboard/internal/domain/auth"

// NavEntry is one sidebar item: static label, target path and the closed set
// of roles allowed to see it.
type NavEntry struct {
	Label   string
	Path    string
	Allowed domainauth.RoleSet
}

// navEntries is the full navigation table, defined once at build time.
var navEntries = []NavEntry{
	{Label: "Dashboard", Path: "/dashboard", Allowed: domainauth.NewRoleSet(domainauth.RoleUser)},
	{Label: "Users", Path: "/admin/users", Allowed: domainauth.NewRoleSet(domainauth.RoleAdmin, domainauth.RoleSuperAdmin)},
	{Label: "Payment Summary", Path: "/admin/payment-summary", Allowed: domainauth.NewRoleSet(domainauth.RoleAdmin, domainauth.RoleSuperAdmin)},
	{Label: "Employees", Path: "/admin/employees", Allowed: domainauth.NewRoleSet(domainauth.RoleSuperAdmin)},
	{Label: "Statistics", Path: "/admin/statistics", Allowed: domainauth.NewRoleSet(domainauth.RoleSuperAdmin)},
}

// VisibleNav returns the navigation entries the given role may see, in
// declaration order.
func VisibleNav(role domainauth.Role) []NavEntry {
	var out []NavEntry
	for _, e := range navEntries {
		if e.Allowed.Contains(role) {
			out = append(out, e)
		}
	}
	return out
}
