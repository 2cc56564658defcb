package domain

// Resolve decides whether user may perform action on module.
//
// The user's override for the pair wins when set, in either direction.
// Otherwise the decision comes from role, which must be the role the user
// references. Every missing piece of data resolves to false.
func Resolve(user *User, role *Role, module Module, action Action) bool {
	if user == nil || !module.Valid() || !action.Valid() {
		return false
	}
	if set, ok := user.CustomPermissions[module]; ok {
		if allowed, decided := set.Decision(action); decided {
			return allowed
		}
	}
	if role == nil || role.ID != user.RoleID {
		return false
	}
	return role.Permissions.Allows(module, action)
}

// Effective resolves every module and action for user and returns the
// dense result.
func Effective(user *User, role *Role) PermissionMatrix {
	out := make(PermissionMatrix, len(modules))
	for _, m := range modules {
		out[m] = PermissionSet{
			View:   Resolve(user, role, m, ActionView),
			Create: Resolve(user, role, m, ActionCreate),
			Edit:   Resolve(user, role, m, ActionEdit),
			Delete: Resolve(user, role, m, ActionDelete),
		}
	}
	return out
}
