// Package completion describes the codemedic command line for shell
// completion scripts.
package completion

import "github.com/chmouel/codemedic/internal/theme"

// FlagInfo contains metadata about a command-line flag for completion generation.
type FlagInfo struct {
	Name        string   // Flag name without dashes
	Short       string   // Single letter alias, if any
	Description string   // Human-readable description
	HasValue    bool     // true for string flags, false for bool flags
	ValueHint   string   // Hint for value type (e.g., "PATH", "NAME")
	Values      []string // Enumerated values for completion (e.g., theme names)
}

// CommandInfo names a subcommand.
type CommandInfo struct {
	Name        string
	Description string
}

// Shells lists the shells a script can be generated for.
var Shells = []string{"bash", "zsh", "fish"}

// GetFlags returns metadata for all codemedic global flags.
// This is the single source of truth for shell completion generation.
func GetFlags() []FlagInfo {
	return []FlagInfo{
		{
			Name:        "config-file",
			Description: "Path to configuration file",
			HasValue:    true,
			ValueHint:   "PATH",
		},
		{
			Name:        "debug-log",
			Description: "Path to debug log file, - for stderr",
			HasValue:    true,
			ValueHint:   "PATH",
		},
		{
			Name:        "theme",
			Short:       "t",
			Description: "Override UI theme",
			HasValue:    true,
			ValueHint:   "NAME",
			Values:      theme.AvailableThemes(),
		},
		{
			Name:        "token",
			Description: "GitHub token for API requests",
			HasValue:    true,
			ValueHint:   "TOKEN",
		},
		{
			Name:        "no-icons",
			Description: "Disable file icons",
		},
		{
			Name:        "config",
			Short:       "C",
			Description: "Override config values (cm.key=value)",
			HasValue:    true,
			ValueHint:   "KEY=VALUE",
		},
		{
			Name:        "version",
			Short:       "v",
			Description: "Print version information",
		},
	}
}

// GetCommands returns the codemedic subcommands.
func GetCommands() []CommandInfo {
	return []CommandInfo{
		{Name: "tree", Description: "Print the file tree of a repository or archive"},
		{Name: "show", Description: "Print a highlighted file"},
		{Name: "stats", Description: "Print project statistics"},
		{Name: "languages", Description: "List highlighted file extensions"},
		{Name: "completion", Description: "Generate shell completion scripts"},
	}
}
