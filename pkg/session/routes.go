package session

import "slices"

// Route says which roles a cookie found in a response header is written to.
type Route struct {
	Name  string
	Roles []Role
}

// Routes is an ordered routing table.
type Routes []Route

// LoginRoutes routes the cookies of a login response. The device token is
// issued by the mirror host only and is never written to the primary host.
var LoginRoutes = Routes{
	{Name: MemberIDCookie, Roles: []Role{RolePrimary, RoleMirror}},
	{Name: PassHashCookie, Roles: []Role{RolePrimary, RoleMirror}},
	{Name: DeviceTokenCookie, Roles: []Role{RoleMirror}},
}

// AuxiliaryRoutes routes the cookie of an auxiliary token response.
var AuxiliaryRoutes = Routes{
	{Name: SkipServerCookie, Roles: []Role{RoleToken}},
}

// Names returns the cookie names of the table in order.
func (rs Routes) Names() []string {
	names := make([]string, len(rs))
	for i, r := range rs {
		names[i] = r.Name
	}
	return names
}

// Lookup returns the route for name.
func (rs Routes) Lookup(name string) (Route, bool) {
	for _, r := range rs {
		if r.Name == name {
			return r, true
		}
	}
	return Route{}, false
}

// Allows reports whether name may be written to role.
func (rs Routes) Allows(name string, role Role) bool {
	r, ok := rs.Lookup(name)
	return ok && slices.Contains(r.Roles, role)
}
