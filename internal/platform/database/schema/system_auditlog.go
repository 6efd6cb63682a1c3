package schema

// SystemAuditLogTable represents the 'system.auditlog' table
type SystemAuditLogTable struct {
	Table     string
	ID        string
	UserID    string
	Action    string
	Success   string
	IPAddress string
	CreatedAt string
}

var SystemAuditLog = SystemAuditLogTable{
	Table:     "system.auditlog",
	ID:        "id",
	UserID:    "userid",
	Action:    "action",
	Success:   "success",
	IPAddress: "ipaddress",
	CreatedAt: "createdat",
}
