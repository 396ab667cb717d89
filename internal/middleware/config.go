package middleware

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// TokenSetter applies a runtime credential replacement.
type TokenSetter interface {
	SetToken(token string)
}

// ConfigInjector handles the HTTP deployment variant where a client attaches
// a base64-encoded JSON configuration blob to the connection query string.
// A token found there replaces the process credential before the request is
// handled. The replacement is process-wide; concurrent connections carrying
// different tokens race, which is an accepted limitation of this variant.
type ConfigInjector struct {
	setter TokenSetter
	log    *zap.Logger
}

func NewConfigInjector(setter TokenSetter, log *zap.Logger) *ConfigInjector {
	if log == nil {
		log = zap.NewNop()
	}
	return &ConfigInjector{setter: setter, log: log}
}

// connectionConfig is the decoded shape of the config blob. Both the
// camelCase and the environment-variable spellings of the token are
// accepted.
type connectionConfig struct {
	MMAPIToken string `json:"mmApiToken"`
	EnvToken   string `json:"MM_API_TOKEN"`
}

// Middleware decodes ?config=... if present and applies it, then passes the
// request on. Malformed blobs are logged and ignored; they never fail the
// request.
func (ci *ConfigInjector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if encoded := r.URL.Query().Get("config"); encoded != "" {
			ci.apply(encoded)
		}
		next.ServeHTTP(w, r)
	})
}

func (ci *ConfigInjector) apply(encoded string) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		// Some clients URL-safe-encode the blob.
		raw, err = base64.URLEncoding.DecodeString(encoded)
	}
	if err != nil {
		ci.log.Warn("ignoring malformed config parameter", zap.Error(err))
		return
	}

	var cfg connectionConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		ci.log.Warn("ignoring undecodable config payload", zap.Error(err))
		return
	}

	token := cfg.MMAPIToken
	if token == "" {
		token = cfg.EnvToken
	}
	if token == "" {
		return
	}

	ci.setter.SetToken(token)
	ci.log.Info("credential replaced from connection config")
}
