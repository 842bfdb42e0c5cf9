package lifecycle

import "github.com/seomikewaltman/openclaw-secure/internal/discover"

// defaultPaths are the classic well-known secret locations, kept for
// callers that want the pre-discovery behavior (--defaults).
var defaultPaths = []string{
	"channels.telegram.botToken",
	"channels.discord.botToken",
	"channels.slack.botToken",
	"channels.slack.appToken",
	"gateway.auth.token",
	"gateway.auth.password",
	"webhook.signingSecret",
}

// DefaultMap returns the hand-authored static secret map. Key names are
// derived the same way discovery derives them so the two sources agree.
func DefaultMap() SecretMap {
	m := make(SecretMap, 0, len(defaultPaths))
	for _, p := range defaultPaths {
		m = append(m, Entry{ConfigPath: p, KeyName: discover.DeriveKeyName(p)})
	}
	return m
}

// MapFromDiscovered converts discovery output into a secret map.
func MapFromDiscovered(secrets []discover.Secret) SecretMap {
	m := make(SecretMap, 0, len(secrets))
	for _, s := range secrets {
		m = append(m, Entry{ConfigPath: s.ConfigPath, KeyName: s.KeyName})
	}
	return m
}
