package domain

import (
	"errors"
	"testing"
	"time"
)

func TestResolve_RoleGrantWithoutOverride(t *testing.T) {
	role := &Role{ID: "1", Name: "Admin", Permissions: PermissionMatrix{ModuleFinance: FullAccess()}}
	user := &User{ID: "u1", RoleID: "1"}

	for _, a := range AllActions() {
		if !Resolve(user, role, ModuleFinance, a) {
			t.Fatalf("expected finance:%s to be granted by role", a)
		}
	}
}

func TestResolve_DeniedWhenNeitherGrants(t *testing.T) {
	role := &Role{ID: "1", Permissions: PermissionMatrix{ModuleTasks: ReadOnly()}}
	user := &User{ID: "u1", RoleID: "1"}

	for _, m := range AllModules() {
		for _, a := range AllActions() {
			if m == ModuleTasks && a == ActionView {
				continue
			}
			if Resolve(user, role, m, a) {
				t.Fatalf("expected %s:%s to be denied", m, a)
			}
		}
	}
}

func TestResolve_OverrideAllowBeatsRoleDeny(t *testing.T) {
	role := &Role{ID: "A1", Permissions: PermissionMatrix{ModuleHR: {}}}
	user := &User{
		ID:                "u1",
		RoleID:            "A1",
		CustomPermissions: OverrideMatrix{ModuleHR: {View: Grant(true)}},
	}

	if !Resolve(user, role, ModuleHR, ActionView) {
		t.Fatalf("expected override to grant hr:view")
	}
	if Resolve(user, role, ModuleHR, ActionEdit) {
		t.Fatalf("expected hr:edit to stay denied")
	}
}

func TestResolve_OverrideDenyBeatsRoleAllow(t *testing.T) {
	role := &Role{ID: "1", Permissions: PermissionMatrix{ModuleFinance: FullAccess()}}
	user := &User{
		ID:                "u1",
		RoleID:            "1",
		CustomPermissions: OverrideMatrix{ModuleFinance: {Delete: Grant(false)}},
	}

	if Resolve(user, role, ModuleFinance, ActionDelete) {
		t.Fatalf("expected explicit deny to suppress role grant")
	}
	if !Resolve(user, role, ModuleFinance, ActionView) {
		t.Fatalf("unset override must fall through to the role")
	}
}

func TestResolve_MissingRole(t *testing.T) {
	user := &User{ID: "u1", RoleID: "999"}
	other := &Role{ID: "1", Permissions: PermissionMatrix{ModuleDashboard: FullAccess()}}

	for _, m := range AllModules() {
		for _, a := range AllActions() {
			if Resolve(user, nil, m, a) {
				t.Fatalf("expected %s:%s denied with no role", m, a)
			}
			if Resolve(user, other, m, a) {
				t.Fatalf("expected %s:%s denied for mismatched role", m, a)
			}
		}
	}
}

func TestResolve_MissingRoleKeepsOverrides(t *testing.T) {
	user := &User{
		ID:     "u1",
		RoleID: "999",
		CustomPermissions: OverrideMatrix{
			ModuleFinance: {View: Grant(true)},
		},
	}

	if !Resolve(user, nil, ModuleFinance, ActionView) {
		t.Fatalf("expected explicit allow to apply without a role")
	}
	if Resolve(user, nil, ModuleFinance, ActionEdit) {
		t.Fatalf("expected unset action to be denied without a role")
	}
}

func TestResolve_NoUser(t *testing.T) {
	role := &Role{ID: "1", Permissions: PermissionMatrix{ModuleDashboard: FullAccess()}}
	if Resolve(nil, role, ModuleDashboard, ActionView) {
		t.Fatalf("expected nil user to be denied")
	}
}

func TestResolve_UnknownModuleOrAction(t *testing.T) {
	role := &Role{ID: "1", Permissions: PermissionMatrix{"payroll": FullAccess()}}
	user := &User{ID: "u1", RoleID: "1", CustomPermissions: OverrideMatrix{"payroll": {View: Grant(true)}}}

	if Resolve(user, role, "payroll", ActionView) {
		t.Fatalf("expected unknown module to be denied")
	}
	if Resolve(user, role, ModuleDashboard, "approve") {
		t.Fatalf("expected unknown action to be denied")
	}
}

func TestEffective_IsDense(t *testing.T) {
	role := &Role{ID: "1", Permissions: PermissionMatrix{ModuleChat: ReadOnly()}}
	user := &User{ID: "u1", RoleID: "1", CustomPermissions: OverrideMatrix{ModuleChat: {Create: Grant(true)}}}

	got := Effective(user, role)
	if len(got) != len(AllModules()) {
		t.Fatalf("expected %d modules, got %d", len(AllModules()), len(got))
	}
	if want := (PermissionSet{View: true, Create: true}); got[ModuleChat] != want {
		t.Fatalf("unexpected chat set: %+v", got[ModuleChat])
	}
	if granted := got.Granted(); len(granted) != 1 {
		t.Fatalf("expected one granted module, got %v", granted)
	}
}

func TestOverrideMatrix_WithEmptyRemoves(t *testing.T) {
	m := OverrideMatrix{ModuleHR: {View: Grant(true)}}

	next := m.With(ModuleHR, OverrideSet{})
	if _, ok := next[ModuleHR]; ok {
		t.Fatalf("expected empty override to remove module")
	}
	if _, ok := m[ModuleHR]; !ok {
		t.Fatalf("With must not mutate the receiver")
	}
}

func TestOverrideSet_CloneDoesNotAlias(t *testing.T) {
	orig := OverrideSet{View: Grant(true)}
	c := orig.Clone()
	*c.View = false
	if !*orig.View {
		t.Fatalf("clone aliased the original pointer")
	}
}

func TestParseModuleAndAction(t *testing.T) {
	if m, err := ParseModule("finance"); err != nil || m != ModuleFinance {
		t.Fatalf("ParseModule(finance) = %q, %v", m, err)
	}
	if _, err := ParseModule("payroll"); !errors.Is(err, ErrUnknownModule) {
		t.Fatalf("expected ErrUnknownModule, got %v", err)
	}
	if a, err := ParseAction("delete"); err != nil || a != ActionDelete {
		t.Fatalf("ParseAction(delete) = %q, %v", a, err)
	}
	if _, err := ParseAction("approve"); !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("expected ErrUnknownAction, got %v", err)
	}
}

func TestDefaultRoles_AdminHasEverything(t *testing.T) {
	var admin *Role
	for _, r := range DefaultRoles(zeroTime) {
		if r.ID == RoleAdminID {
			admin = r
		}
	}
	if admin == nil {
		t.Fatalf("admin role missing from seed")
	}
	user := &User{ID: "1", RoleID: RoleAdminID}
	for _, m := range AllModules() {
		for _, a := range AllActions() {
			if !Resolve(user, admin, m, a) {
				t.Fatalf("admin denied %s:%s", m, a)
			}
		}
	}
}

func TestDefaultUsers_ReferenceSeededRoles(t *testing.T) {
	ids := map[string]bool{}
	for _, r := range DefaultRoles(zeroTime) {
		ids[r.ID] = true
	}
	for _, u := range DefaultUsers("hash", zeroTime) {
		if !ids[u.RoleID] {
			t.Fatalf("user %s references unknown role %s", u.ID, u.RoleID)
		}
	}
}

var zeroTime time.Time
