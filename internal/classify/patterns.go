package classify

import "regexp"

// Placeholder is the reserved literal that stands in for a value managed
// by the secret backend. Anything equal to it is already externalized and
// must never be classified as a fresh secret; that rule is what makes
// store and scrub idempotent.
const Placeholder = "[STORED_IN_KEYCHAIN]"

// MinSecretLength is the minimum plausible length of a real credential.
// Shorter strings are never classified, regardless of field name.
const MinSecretLength = 16

// knownPaths are exact config paths that always hold secrets.
var knownPaths = map[string]struct{}{
	"gateway.auth.token":       {},
	"gateway.auth.password":    {},
	"webhook.signingSecret":    {},
	"channels.telegram.botToken": {},
	"channels.discord.botToken":  {},
	"channels.slack.botToken":    {},
	"channels.slack.appToken":    {},
}

// knownPathPatterns are path shapes that always hold secrets wherever the
// wildcard segments land.
var knownPathPatterns = []*regexp.Regexp{
	// Any channel's bot token, including per-account nesting.
	regexp.MustCompile(`^channels\.[^.]+\.botToken$`),
	regexp.MustCompile(`^channels\.[^.]+\.accounts\.[^.]+\.botToken$`),
	// Skill entries: declared API keys, every env var, and secret-shaped
	// config fields at any depth.
	regexp.MustCompile(`^skills\.entries\.[^.]+\.apiKey$`),
	regexp.MustCompile(`^skills\.entries\.[^.]+\.env\.[^.]+$`),
	regexp.MustCompile(`(?i)^skills\.entries\.[^.]+\.config\..*(token|apikey|secret|password|credential)$`),
	// Model provider credentials.
	regexp.MustCompile(`^models\.providers\.[^.]+\.apiKey$`),
	regexp.MustCompile(`^providers\.[^.]+\.apiKey$`),
}

// secretFieldNames are last segments that denote a secret by themselves.
var secretFieldNames = map[string]struct{}{
	"token":         {},
	"apiKey":        {},
	"secret":        {},
	"password":      {},
	"botToken":      {},
	"appToken":      {},
	"userToken":     {},
	"webhookSecret": {},
	"signingSecret": {},
}

// secretFieldSuffixes match case-insensitively against the end of a
// field name.
var secretFieldSuffixes = []string{
	"token",
	"apikey",
	"secret",
	"password",
	"credential",
}

// excludedFieldNames look secret-shaped but denote file paths, tokenizer
// literals, fingerprints, or prefix strings. Exclusion always wins.
var excludedFieldNames = map[string]struct{}{
	"tokenFile":         {},
	"tokenPath":         {},
	"secretFile":        {},
	"secretPath":        {},
	"passwordFile":      {},
	"credentialsFile":   {},
	"credentialsPath":   {},
	"tokenPrefix":       {},
	"passwordMode":      {},
	"secretFingerprint": {},
	"bosToken":          {},
	"eosToken":          {},
	"padToken":          {},
	"stopToken":         {},
}

// valueShapePatterns match well-known credential shapes. Lowest-confidence
// signal; only consulted when the caller opts in.
var valueShapePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^sk-[A-Za-z0-9_-]{16,}$`),                                    // OpenAI-style
	regexp.MustCompile(`^xox[baprs]-[A-Za-z0-9-]{10,}$`),                             // Slack
	regexp.MustCompile(`^gh[pousr]_[A-Za-z0-9]{20,}$`),                               // GitHub
	regexp.MustCompile(`^AKIA[0-9A-Z]{16}$`),                                         // AWS access key ID
	regexp.MustCompile(`^AIza[0-9A-Za-z_-]{35}$`),                                    // Google API key
	regexp.MustCompile(`^[0-9]{6,12}:[A-Za-z0-9_-]{20,}$`),                           // Telegram bot token
	regexp.MustCompile(`^eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+$`),        // JWT
	regexp.MustCompile(`^[0-9a-f]{32}$|^[0-9a-f]{40}$|^[0-9a-f]{64}$`),               // hex digest blobs
	regexp.MustCompile(`^[A-Za-z0-9+/]{40,}={0,2}$`),                                 // long base64 blobs
}
