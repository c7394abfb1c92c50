package resolver

import (
	"go.uber.org/zap"

	"github.com/eugenenazirov/cloudconfig/internal/options"
	"github.com/eugenenazirov/cloudconfig/internal/storage"
)

const redactedSecret = "*****"

// Source tells where Option found a value.
type Source string

const (
	SourceLocal   Source = "local"
	SourceConfig  Source = "config"
	SourceDefault Source = "default"
)

// Credentials are the account identifiers every API call is signed with.
type Credentials struct {
	CloudName string
	APIKey    string
	APISecret string
}

// Resolver owns the configuration entries of one client and resolves options
// against them. It is safe for concurrent use when its storage is.
type Resolver struct {
	store  storage.Storage
	logger *zap.Logger
}

// New creates a Resolver backed by store. A nil store gets a fresh
// MemoryStorage and a nil logger is replaced by a no-op logger.
func New(store storage.Storage, logger *zap.Logger) *Resolver {
	if store == nil {
		store = storage.NewMemoryStorage()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{store: store, logger: logger}
}

// FromURL parses a connection string and merges its entries into the
// configuration. Entries already present under the same top-level name are
// replaced. On error the configuration is left untouched.
func (r *Resolver) FromURL(raw string) error {
	values, err := ParseURL(raw)
	if err != nil {
		r.logger.Debug("rejected connection url", zap.Error(err))
		return err
	}

	r.store.Merge(values)
	r.logger.Debug("configuration loaded from url",
		zap.String("cloud_name", values[KeyCloudName].Str()),
		zap.Strings("keys", values.Names()),
	)
	return nil
}

// Add merges values into the configuration, top-level keys overwriting.
func (r *Resolver) Add(values options.Options) {
	r.store.Merge(values)
	r.logger.Debug("configuration values added", zap.Strings("keys", values.Names()))
}

// Set stores a single entry; an invalid value removes it.
func (r *Resolver) Set(name string, value options.Value) {
	r.store.Set(name, value)
}

// Get returns the configured value for name, or def when it is absent.
func (r *Resolver) Get(name string, def options.Value) options.Value {
	if v, ok := r.store.Get(name); ok {
		return v
	}
	return def
}

// GetString is Get for scalar entries.
func (r *Resolver) GetString(name, def string) string {
	v, ok := r.store.Get(name)
	if !ok || v.Kind() != options.KindString {
		return def
	}
	return v.Str()
}

// Option resolves name with call-site options taking precedence over the
// configuration, and the configuration over def.
func (r *Resolver) Option(local options.Options, name string, def options.Value) (options.Value, Source) {
	if v, ok := local.Get(name); ok {
		return v, SourceLocal
	}
	if v, ok := r.store.Get(name); ok {
		return v, SourceConfig
	}
	return def, SourceDefault
}

// OptionString is Option for scalar entries.
func (r *Resolver) OptionString(local options.Options, name, def string) string {
	v, _ := r.Option(local, name, options.String(def))
	if v.Kind() != options.KindString {
		return def
	}
	return v.Str()
}

// Credentials resolves the account identifiers through Option.
func (r *Resolver) Credentials(local options.Options) (Credentials, error) {
	creds := Credentials{
		CloudName: r.OptionString(local, KeyCloudName, ""),
		APIKey:    r.OptionString(local, KeyAPIKey, ""),
		APISecret: r.OptionString(local, KeyAPISecret, ""),
	}

	var missing []string
	if creds.CloudName == "" {
		missing = append(missing, KeyCloudName)
	}
	if creds.APIKey == "" {
		missing = append(missing, KeyAPIKey)
	}
	if creds.APISecret == "" {
		missing = append(missing, KeyAPISecret)
	}
	if len(missing) > 0 {
		return creds, &MissingCredentialsError{Keys: missing}
	}
	return creds, nil
}

// Snapshot copies the configuration. With redact set the API secret is masked.
func (r *Resolver) Snapshot(redact bool) options.Options {
	snap := r.store.Snapshot()
	if redact {
		if _, ok := snap[KeyAPISecret]; ok {
			snap[KeyAPISecret] = options.String(redactedSecret)
		}
	}
	return snap
}

// Reset drops every configuration entry.
func (r *Resolver) Reset() {
	r.store.Reset()
	r.logger.Debug("configuration reset")
}

// MaskSecret hides all but the last four characters of secret.
func MaskSecret(secret string) string {
	if len(secret) <= 4 {
		return redactedSecret
	}
	return redactedSecret + secret[len(secret)-4:]
}
