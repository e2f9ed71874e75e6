// Package config provides layered configuration loading for the ecos
// service: struct defaults overlaid with ECOS_* environment variables,
// then validated. Everything has a working default; a bare `ecos` binary
// serves from ./data on :3000.
package config

import (
	"net"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Config holds the merged runtime configuration for the ecos service.
type Config struct {
	Addr            string        `koanf:"addr" validate:"required,ip_port"`
	DataDir         string        `koanf:"data_dir" validate:"required,safe_dir"`
	Env             string        `koanf:"env" validate:"oneof=dev prod"`
	MaxUploadBytes  int64         `koanf:"max_upload_bytes" validate:"gt=0"`
	JanitorInterval time.Duration `koanf:"janitor_interval" validate:"min=0"` // 0 = startup sweep only
	MetricsFlush    time.Duration `koanf:"metrics_flush" validate:"gt=0"`
	MetricsToken    string        `koanf:"metrics_token"`
}

// DefaultAppConfig is the baseline configuration before environment overlay.
var DefaultAppConfig = Config{
	Addr:           ":3000",
	DataDir:        "./data",
	Env:            "prod",
	MaxUploadBytes: 64 << 20, // 64 MiB, generous for phone recordings
	MetricsFlush:   5 * time.Second,
}

// defaultLoader seeds the koanf tree from DefaultAppConfig. Swappable in tests.
var defaultLoader = func(k *koanf.Koanf) error {
	return k.Load(structs.Provider(DefaultAppConfig, "koanf"), nil)
}

// envLoader overlays ECOS_* environment variables. ECOS_DATA_DIR => data_dir.
var envLoader = func(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix: "ECOS_",
		TransformFunc: func(key, value string) (string, any) {
			return strings.ToLower(strings.TrimPrefix(key, "ECOS_")), value
		},
	}), nil)
}

// registerValidators installs the custom field validators. Swappable in tests.
var registerValidators = func(v *validator.Validate) error {
	if err := v.RegisterValidation("ip_port", validIPPort); err != nil {
		return err
	}
	return v.RegisterValidation("safe_dir", validSafeDir)
}

// Load builds the runtime configuration: defaults, then environment, then
// validation. Returns the first error encountered.
func Load() (*Config, error) {
	k := koanf.New(".")
	if err := defaultLoader(k); err != nil {
		return nil, err
	}
	if err := envLoader(k); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
			Result:           &cfg,
			WeaklyTypedInput: true,
		},
	}); err != nil {
		return nil, err
	}
	v := validator.New()
	if err := registerValidators(v); err != nil {
		return nil, err
	}
	if err := v.Struct(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SQLiteDSN returns the mattn/go-sqlite3 DSN for the journal database under
// DataDir, with WAL, foreign keys, a busy timeout for concurrent writers,
// and full synchronous durability.
func (c *Config) SQLiteDSN() string {
	dir := c.DataDir
	if dir != "" && dir[len(dir)-1] != '/' {
		dir += "/"
	}
	return "file:" + dir + "ecos.db?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000&_synchronous=FULL"
}

// validIPPort reports whether the value is a bindable "host:port" where host
// is empty or a literal IP and port is numeric 1-65535.
func validIPPort(fl validator.FieldLevel) bool {
	host, port, err := net.SplitHostPort(fl.Field().String())
	if err != nil {
		return false
	}
	n, err := strconv.Atoi(port)
	if err != nil || n < 1 || n > 65535 {
		return false
	}
	if host == "" {
		return true
	}
	return net.ParseIP(host) != nil
}

// validSafeDir rejects paths that are empty, the filesystem root, or escape
// upward via dot-dot elements.
func validSafeDir(fl validator.FieldLevel) bool {
	p := fl.Field().String()
	if p == "" {
		return false
	}
	clean := path.Clean(filepath.ToSlash(p))
	if clean == "." || clean == "/" {
		return false
	}
	for _, seg := range strings.Split(clean, "/") {
		if seg == ".." {
			return false
		}
	}
	return true
}
