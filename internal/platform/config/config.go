// internal/platform/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"redrecon/internal/core/domain"
	"redrecon/internal/core/ports"
)

// EnvPrefix prefijo de las variables de entorno (REDRECON_TARGET, ...).
const EnvPrefix = "REDRECON"

// Modos de UI soportados.
const (
	UIPterm = "pterm"
	UIRaw   = "raw"
	UIQuiet = "quiet"
)

type Config struct {
	// App
	Target      string        `mapstructure:"target" json:"target"`
	Workers     int           `mapstructure:"workers" json:"workers"`
	ScanTimeout time.Duration `mapstructure:"scan_timeout" json:"scan_timeout"` // 0 = sin límite
	UI          string        `mapstructure:"ui" json:"ui"`

	// IO
	OutputDir string   `mapstructure:"output_dir" json:"output_dir"`
	Formats   []string `mapstructure:"formats" json:"formats"`

	// Cliente de red compartido
	HTTP HTTP `mapstructure:"http" json:"http"`

	// Probes: mapa dinámico de configuraciones por probe
	// Key = clave de registro (ej: "crtsh", "portscan")
	Probes map[string]ports.ProbeConfig `mapstructure:"probes" json:"probes"`

	Log     Log     `mapstructure:"log" json:"log"`
	Metrics Metrics `mapstructure:"metrics" json:"metrics"`

	// ConfigFile ruta del YAML cargado (vacío si no hubo)
	ConfigFile string `mapstructure:"-" json:"config_file,omitempty"`
}

type HTTP struct {
	MaxConnections     int           `mapstructure:"max_connections" json:"max_connections"`
	Timeout            time.Duration `mapstructure:"timeout" json:"timeout"`
	UserAgent          string        `mapstructure:"user_agent" json:"user_agent"`
	Proxy              string        `mapstructure:"proxy" json:"proxy"`
	InsecureSkipVerify bool          `mapstructure:"insecure" json:"insecure"`
	RateLimit          float64       `mapstructure:"rate_limit" json:"rate_limit"`
	RateLimitBurst     int           `mapstructure:"rate_limit_burst" json:"rate_limit_burst"`
}

type Log struct {
	Level  string `mapstructure:"level" json:"level"`
	Format string `mapstructure:"format" json:"format"`
}

type Metrics struct {
	// File ruta del textfile de Prometheus (vacío = deshabilitado)
	File string `mapstructure:"file" json:"file"`
}

// DefaultConfig retorna una configuración por defecto.
func DefaultConfig() Config {
	return Config{
		Workers:   0, // 0 = min(32, NumCPU+4)
		UI:        UIPterm,
		OutputDir: "results",
		Formats:   []string{"html", "json", "yaml"},
		HTTP: HTTP{
			MaxConnections:     60,
			Timeout:            60 * time.Second,
			InsecureSkipVerify: true,
			RateLimitBurst:     1,
		},
		Probes: map[string]ports.ProbeConfig{},
		Log: Log{
			Level:  "warn",
			Format: "text",
		},
	}
}

// flagKeys vincula cada flag con su clave de configuración.
var flagKeys = map[string]string{
	"target":          "target",
	"workers":         "workers",
	"scan-timeout":    "scan_timeout",
	"ui":              "ui",
	"out":             "output_dir",
	"format":          "formats",
	"max-connections": "http.max_connections",
	"http-timeout":    "http.timeout",
	"user-agent":      "http.user_agent",
	"proxy":           "http.proxy",
	"insecure":        "http.insecure",
	"rate-limit":      "http.rate_limit",
	"log-level":       "log.level",
	"log-format":      "log.format",
	"metrics-file":    "metrics.file",
}

// BindFlags declara los flags de escaneo en fs.
func BindFlags(fs *pflag.FlagSet) {
	def := DefaultConfig()

	fs.StringP("config", "c", "", "YAML config file")
	fs.StringP("target", "t", "", "Target domain (e.g., example.com)")
	fs.IntP("workers", "w", def.Workers, "Blocking worker pool size (0 = auto)")
	fs.Duration("scan-timeout", def.ScanTimeout, "Stop waiting for probes after this long (0 = no limit)")
	fs.String("ui", def.UI, "Terminal UI: pterm|raw|quiet")

	fs.StringP("out", "o", def.OutputDir, "Report output directory")
	fs.StringSliceP("format", "f", def.Formats, "Report formats: html,json,yaml")

	fs.Int("max-connections", def.HTTP.MaxConnections, "Max concurrent HTTP connections")
	fs.Duration("http-timeout", def.HTTP.Timeout, "Default per-request HTTP timeout")
	fs.String("user-agent", "", "Override the User-Agent header")
	fs.StringP("proxy", "p", "", "HTTP(S) proxy URL for outbound requests")
	fs.Bool("insecure", def.HTTP.InsecureSkipVerify, "Skip TLS certificate verification")
	fs.Float64("rate-limit", 0, "Max HTTP requests per second (0 = unlimited)")

	fs.IntSlice("ports", nil, "Ports for the port scanner (overrides probes.portscan.settings.ports)")
	fs.StringSlice("disable", nil, "Probe keys to disable (e.g., portscan,whois)")

	fs.String("log-level", def.Log.Level, "Log level: debug|info|warn|error|silent")
	fs.String("log-format", def.Log.Format, "Log format: text|json")
	fs.String("metrics-file", "", "Write Prometheus metrics to this textfile")
}

// Load inicializa la configuración: defaults -> YAML -> ENV -> FLAGS.
func Load(v *viper.Viper, fs *pflag.FlagSet) (Config, error) {
	def := DefaultConfig()
	setDefaults(v, def)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for flagName, key := range flagKeys {
			if f := fs.Lookup(flagName); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("%w: bind flag %s: %v", domain.ErrInvalidConfig, flagName, err)
				}
			}
		}
	}

	var file string
	if fs != nil {
		file, _ = fs.GetString("config")
	}
	if file == "" {
		file = v.GetString("config")
	}
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("%w: read %s: %v", domain.ErrInvalidConfig, file, err)
		}
	}

	cfg := def
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
	}
	cfg.ConfigFile = file

	if fs != nil {
		applyProbeOverrides(&cfg, fs)
	}

	normalize(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, def Config) {
	v.SetDefault("target", def.Target)
	v.SetDefault("workers", def.Workers)
	v.SetDefault("scan_timeout", def.ScanTimeout)
	v.SetDefault("ui", def.UI)
	v.SetDefault("output_dir", def.OutputDir)
	v.SetDefault("formats", def.Formats)
	v.SetDefault("http.max_connections", def.HTTP.MaxConnections)
	v.SetDefault("http.timeout", def.HTTP.Timeout)
	v.SetDefault("http.user_agent", def.HTTP.UserAgent)
	v.SetDefault("http.proxy", def.HTTP.Proxy)
	v.SetDefault("http.insecure", def.HTTP.InsecureSkipVerify)
	v.SetDefault("http.rate_limit", def.HTTP.RateLimit)
	v.SetDefault("http.rate_limit_burst", def.HTTP.RateLimitBurst)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)
	v.SetDefault("metrics.file", def.Metrics.File)
}

// applyProbeOverrides aplica --ports y --disable sobre la sección probes.
func applyProbeOverrides(cfg *Config, fs *pflag.FlagSet) {
	if cfg.Probes == nil {
		cfg.Probes = map[string]ports.ProbeConfig{}
	}

	if fs.Changed("ports") {
		portList, _ := fs.GetIntSlice("ports")
		pc := cfg.Probes["portscan"]
		if pc.Settings == nil {
			pc.Settings = map[string]any{}
		}
		pc.Settings["ports"] = portList
		cfg.Probes["portscan"] = pc
	}

	if fs.Changed("disable") {
		keys, _ := fs.GetStringSlice("disable")
		for _, k := range keys {
			k = strings.ToLower(strings.TrimSpace(k))
			if k == "" {
				continue
			}
			disabled := false
			pc := cfg.Probes[k]
			pc.Enabled = &disabled
			cfg.Probes[k] = pc
		}
	}
}

// normalize limpia el target sin validarlo: no se comprueba que sea un dominio.
func normalize(c *Config) {
	c.Target = NormalizeTarget(c.Target)
	if c.Workers < 0 {
		c.Workers = 0
	}
	if c.ScanTimeout < 0 {
		c.ScanTimeout = 0
	}
	if c.OutputDir == "" {
		c.OutputDir = "results"
	}
	c.UI = strings.ToLower(strings.TrimSpace(c.UI))
	if c.UI == "" {
		c.UI = UIPterm
	}

	formats := make([]string, 0, len(c.Formats))
	seen := make(map[string]bool, len(c.Formats))
	for _, f := range c.Formats {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		formats = append(formats, f)
	}
	c.Formats = formats
}

// NormalizeTarget recorta, pasa a minúsculas y quita el punto final.
func NormalizeTarget(t string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(t)), ".")
}

// Validate rechaza valores que dejarían el cliente de red inutilizable.
func (c Config) Validate() error {
	if c.HTTP.MaxConnections <= 0 {
		return fmt.Errorf("%w: http.max_connections must be positive, got %d", domain.ErrInvalidConfig, c.HTTP.MaxConnections)
	}
	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("%w: http.timeout must be positive, got %v", domain.ErrInvalidConfig, c.HTTP.Timeout)
	}
	if c.HTTP.RateLimit < 0 {
		return fmt.Errorf("%w: http.rate_limit cannot be negative", domain.ErrInvalidConfig)
	}
	switch c.UI {
	case UIPterm, UIRaw, UIQuiet:
	default:
		return fmt.Errorf("%w: ui must be one of pterm|raw|quiet, got %q", domain.ErrInvalidConfig, c.UI)
	}
	return nil
}

// ToJSON serializa la configuración a JSON (útil para debugging).
func (c Config) ToJSON() (string, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
