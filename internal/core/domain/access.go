package domain

import "fmt"

// Module is an administrative area of the dashboard.
type Module string

const (
	ModuleDashboard Module = "dashboard"
	ModuleEvents    Module = "events"
	ModuleTasks     Module = "tasks"
	ModuleContacts  Module = "contacts"
	ModuleTickets   Module = "tickets"
	ModuleDocuments Module = "documents"
	ModuleChat      Module = "chat"
	ModuleHR        Module = "hr"
	ModuleFinance   Module = "finance"
	ModuleMarketing Module = "marketing"
	ModuleServices  Module = "services"
	ModuleSettings  Module = "settings"
)

var modules = []Module{
	ModuleDashboard,
	ModuleEvents,
	ModuleTasks,
	ModuleContacts,
	ModuleTickets,
	ModuleDocuments,
	ModuleChat,
	ModuleHR,
	ModuleFinance,
	ModuleMarketing,
	ModuleServices,
	ModuleSettings,
}

// AllModules returns every module in display order.
func AllModules() []Module {
	out := make([]Module, len(modules))
	copy(out, modules)
	return out
}

// Valid reports whether m is one of the known modules.
func (m Module) Valid() bool {
	for _, known := range modules {
		if known == m {
			return true
		}
	}
	return false
}

// ParseModule converts a raw path or query value into a Module.
func ParseModule(s string) (Module, error) {
	m := Module(s)
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownModule, s)
	}
	return m, nil
}

// Action is one of the four CRUD-style permission flags.
type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

var actions = []Action{ActionView, ActionCreate, ActionEdit, ActionDelete}

// AllActions returns the four actions in canonical order.
func AllActions() []Action {
	out := make([]Action, len(actions))
	copy(out, actions)
	return out
}

func (a Action) Valid() bool {
	switch a {
	case ActionView, ActionCreate, ActionEdit, ActionDelete:
		return true
	}
	return false
}

// ParseAction converts a raw query value into an Action.
func ParseAction(s string) (Action, error) {
	a := Action(s)
	if !a.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
	}
	return a, nil
}
