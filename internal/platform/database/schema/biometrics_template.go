package schema

// BiometricTemplateTable represents the 'biometrics.template' table
type BiometricTemplateTable struct {
	Table     string
	ID        string
	UserID    string
	Envelope  string
	Dim       string
	ModelName string
	CreatedAt string
	UpdatedAt string
}

// BiometricTemplate is the schema definition for biometrics.template
var BiometricTemplate = BiometricTemplateTable{
	Table:     "biometrics.template",
	ID:        "id",
	UserID:    "userid",
	Envelope:  "envelope",
	Dim:       "dim",
	ModelName: "modelname",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}
