package errors

import (
	"fmt"
	"strings"
)

// UserError represents an error that should be shown to the user with helpful context
type UserError struct {
	Message    string
	Suggestion string
	Details    string
	Err        error
}

func (e UserError) Error() string {
	var parts []string

	if e.Message != "" {
		parts = append(parts, e.Message)
	} else if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}

	if e.Details != "" {
		parts = append(parts, "\n  Details: "+e.Details)
	}

	if e.Suggestion != "" {
		parts = append(parts, "\n  💡 Try: "+e.Suggestion)
	}

	return strings.Join(parts, "")
}

func (e UserError) Unwrap() error {
	return e.Err
}

// ConfigError represents a configuration error with helpful context
type ConfigError struct {
	Field      string
	Value      interface{}
	Message    string
	Suggestion string
}

func (e ConfigError) Error() string {
	msg := "Configuration error"
	if e.Field != "" {
		msg += fmt.Sprintf(" in field '%s'", e.Field)
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	msg += ": " + e.Message

	if e.Suggestion != "" {
		msg += "\n  💡 " + e.Suggestion
	}

	return msg
}

// CommandError represents a vendor CLI execution error
type CommandError struct {
	Command    string
	ExitCode   int
	Message    string
	Suggestion string
}

func (e CommandError) Error() string {
	msg := fmt.Sprintf("Command '%s' failed", e.Command)
	if e.ExitCode != 0 {
		msg += fmt.Sprintf(" (exit code: %d)", e.ExitCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}

	if e.Suggestion != "" {
		msg += "\n  💡 " + e.Suggestion
	}

	return msg
}

// BackendError enhances backend-specific errors with context
func BackendError(backend string, operation string, err error) error {
	return UserError{
		Message:    fmt.Sprintf("%s backend error during %s", backend, operation),
		Suggestion: backendSuggestion(backend, err),
		Err:        err,
	}
}

// backendSuggestion returns a remediation hint based on the backend and error text
func backendSuggestion(backend string, err error) string {
	errStr := err.Error()

	switch backend {
	case "bitwarden":
		if strings.Contains(errStr, "not logged in") {
			return "Run 'bw login' to authenticate with Bitwarden"
		}
		if strings.Contains(errStr, "Vault is locked") || strings.Contains(errStr, "vault is locked") {
			return "Run 'bw unlock' and export the BW_SESSION environment variable"
		}
		if strings.Contains(errStr, "command not found") {
			return "Install Bitwarden CLI: https://bitwarden.com/help/cli/"
		}

	case "onepassword":
		if strings.Contains(errStr, "not signed in") || strings.Contains(errStr, "session expired") {
			return "Run 'op signin' to authenticate with 1Password"
		}
		if strings.Contains(errStr, "command not found") {
			return "Install 1Password CLI: https://developer.1password.com/docs/cli/get-started/"
		}

	case "pass":
		if strings.Contains(errStr, "gpg") {
			return "Check your GPG key setup and that the password store is initialized ('pass init <gpg-key-id>')"
		}
		if strings.Contains(errStr, "command not found") {
			return "Install pass: https://www.passwordstore.org/"
		}

	case "awssm":
		if strings.Contains(errStr, "credentials") || strings.Contains(errStr, "authorization") {
			return "Configure AWS credentials: 'aws configure' or set AWS_PROFILE"
		}
		if strings.Contains(errStr, "AccessDenied") {
			return "Check IAM permissions for secretsmanager:GetSecretValue and PutSecretValue"
		}

	case "keychain":
		if strings.Contains(errStr, "dbus") || strings.Contains(errStr, "secret service") {
			return "Ensure a Secret Service implementation (gnome-keyring, KWallet) is running"
		}
	}

	if strings.Contains(errStr, "timeout") {
		return "The operation timed out. Check your network connection and try again"
	}
	if strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "no such host") {
		return "Unable to connect. Check your network and backend configuration"
	}

	return ""
}

// WrapCommandNotFound wraps a missing vendor CLI with an install hint
func WrapCommandNotFound(command string, err error) error {
	suggestions := map[string]string{
		"op":        "Install 1Password CLI: https://developer.1password.com/docs/cli/get-started/",
		"bw":        "Install Bitwarden CLI: https://bitwarden.com/help/cli/",
		"pass":      "Install pass: https://www.passwordstore.org/",
		"security":  "The macOS 'security' tool ships with the OS; check your PATH",
		"systemctl": "systemd integration requires a systemd-based host",
	}

	suggestion := suggestions[command]
	if suggestion == "" {
		suggestion = fmt.Sprintf("Make sure '%s' is installed and in your PATH", command)
	}

	return CommandError{
		Command:    command,
		Message:    "command not found",
		Suggestion: suggestion,
	}
}
