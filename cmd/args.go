package cmd

// CommandArgs contains parsed command arguments
type CommandArgs struct {
	// Positional arguments (command-specific)
	Args []string

	// Parsed flags
	Flags map[string]any

	// Raw unparsed arguments (for custom parsing)
	Raw []string
}

// String returns a string flag value, falling back to def.
func (ca *CommandArgs) String(name, def string) string {
	if value, ok := ca.Flags[name].(string); ok {
		return value
	}
	return def
}

// Bool returns a bool flag value.
func (ca *CommandArgs) Bool(name string) bool {
	value, _ := ca.Flags[name].(bool)
	return value
}

// Float returns a float flag value, falling back to def.
func (ca *CommandArgs) Float(name string, def float64) float64 {
	if value, ok := ca.Flags[name].(float64); ok {
		return value
	}
	return def
}

// CommandFlagSet defines the expected flags for a command
type CommandFlagSet struct {
	Flags map[string]*CommandFlag
}

// CommandFlag represents a single command-line flag
type CommandFlag struct {
	Name        string `json:"name"`              // e.g., "value" or "v"
	Short       string `json:"short"`             // Single-char shorthand (e.g., "v")
	Type        string `json:"type"`              // "string", "bool", "float"
	Default     any    `json:"default,omitempty"` // Default value
	Required    bool   `json:"required"`          // Must be provided
	Description string `json:"description"`       // Help text
}
