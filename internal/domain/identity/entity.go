package identity

// Employee is one entry of the alias table.
type Employee struct {
	ID          string   `json:"id" yaml:"id"`
	DisplayName string   `json:"display_name" yaml:"display_name"`
	Aliases     []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
}
