package domain

import "time"

// Seeded role ids.
const (
	RoleAdminID    = "1"
	RoleManagerID  = "2"
	RoleEmployeeID = "3"
	RoleViewerID   = "4"
)

// DefaultRoles is the catalog every fresh store starts from.
func DefaultRoles(now time.Time) []*Role {
	admin := make(PermissionMatrix, len(modules))
	for _, m := range modules {
		admin[m] = FullAccess()
	}

	noDelete := PermissionSet{View: true, Create: true, Edit: true}
	manager := PermissionMatrix{
		ModuleDashboard: FullAccess(),
		ModuleEvents:    FullAccess(),
		ModuleTasks:     FullAccess(),
		ModuleContacts:  FullAccess(),
		ModuleTickets:   FullAccess(),
		ModuleDocuments: FullAccess(),
		ModuleChat:      FullAccess(),
		ModuleHR:        noDelete,
		ModuleFinance:   noDelete,
		ModuleMarketing: FullAccess(),
		ModuleServices:  FullAccess(),
		ModuleSettings:  ReadOnly(),
	}

	employee := PermissionMatrix{
		ModuleDashboard: ReadOnly(),
		ModuleEvents:    noDelete,
		ModuleTasks:     noDelete,
		ModuleContacts:  ReadOnly(),
		ModuleTickets:   noDelete,
		ModuleDocuments: ReadOnly(),
		ModuleChat:      noDelete,
		ModuleHR:        PermissionSet{},
	}

	viewer := PermissionMatrix{
		ModuleDashboard: ReadOnly(),
		ModuleEvents:    ReadOnly(),
		ModuleTasks:     ReadOnly(),
		ModuleContacts:  ReadOnly(),
		ModuleDocuments: ReadOnly(),
	}

	return []*Role{
		{ID: RoleAdminID, Name: "Admin", Description: "Full access to every module", Permissions: admin, CreatedAt: now, UpdatedAt: now},
		{ID: RoleManagerID, Name: "Manager", Description: "Runs day-to-day operations, read-only settings", Permissions: manager, CreatedAt: now, UpdatedAt: now},
		{ID: RoleEmployeeID, Name: "Employee", Description: "Works on tasks, events, tickets and chat", Permissions: employee, CreatedAt: now, UpdatedAt: now},
		{ID: RoleViewerID, Name: "Viewer", Description: "Read-only access to shared areas", Permissions: viewer, CreatedAt: now, UpdatedAt: now},
	}
}

// DefaultUsers returns one seeded account per default role, all sharing
// passwordHash.
func DefaultUsers(passwordHash string, now time.Time) []*User {
	mk := func(id, name, email, roleID string) *User {
		return &User{
			ID:           id,
			Name:         name,
			Email:        email,
			PasswordHash: passwordHash,
			RoleID:       roleID,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
	}
	return []*User{
		mk("1", "Alex Morgan", "admin@example.com", RoleAdminID),
		mk("2", "Sam Rivera", "manager@example.com", RoleManagerID),
		mk("3", "Jordan Lee", "employee@example.com", RoleEmployeeID),
		mk("4", "Casey Kim", "viewer@example.com", RoleViewerID),
	}
}
