package domain

// Operation names a class of protected actions checked by the role gate.
type Operation string

const (
	OpReadRecords   Operation = "records:read"
	OpWriteRecords  Operation = "records:write"
	OpDeleteRecords Operation = "records:delete"
	OpViewStats     Operation = "stats:view"
	OpViewUser      Operation = "users:view"
	OpManageUsers   Operation = "users:manage"
)

// Permissions is the single role table evaluated by the authorization gate.
// Admins cannot create or update collection records.
var Permissions = map[Operation][]Role{
	OpReadRecords:   {RoleAgent, RoleManager, RoleAdmin},
	OpWriteRecords:  {RoleAgent, RoleManager},
	OpDeleteRecords: {RoleManager, RoleAdmin},
	OpViewStats:     {RoleManager, RoleAdmin},
	OpViewUser:      {RoleManager, RoleAdmin},
	OpManageUsers:   {RoleAdmin},
}

// Can reports whether r is allowed to perform op. Unknown operations are denied.
func (r Role) Can(op Operation) bool {
	for _, allowed := range Permissions[op] {
		if allowed == r {
			return true
		}
	}
	return false
}
