package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

/**
 * Target application settings, the values every provisioning step derives from
 * @property {string} name - Application name, also the systemd unit and nginx site name
 * @property {string} dir - Application directory on the target host
 * @property {string} user - Runtime user the application runs as
 * @property {string} domain - Server name for the proxy site ("_" matches any host)
 * @property {int} port - Loopback port gunicorn binds to
 * @property {int} workers - gunicorn worker count
 * @property {int} timeout - gunicorn request timeout in seconds
 */
type AppTarget struct {
	Name    string `mapstructure:"name"`
	Dir     string `mapstructure:"dir"`
	User    string `mapstructure:"user"`
	Domain  string `mapstructure:"domain"`
	Port    int    `mapstructure:"port"`
	Workers int    `mapstructure:"workers"`
	Timeout int    `mapstructure:"timeout"`

	// 系统目录一般不用改，留出来是为了非标准布局的发行版
	SystemdDir        string `mapstructure:"systemd_dir"`
	NginxAvailableDir string `mapstructure:"nginx_available_dir"`
	NginxEnabledDir   string `mapstructure:"nginx_enabled_dir"`
}

/**
 * Server configuration parameters
 * @property {string} address - Server listening address (e.g. ":9444")
 * @property {string} mode - Application mode (debug/release/test)
 */
type ServerConfig struct {
	Address string `mapstructure:"address"`
	Mode    string `mapstructure:"mode"`
}

/**
 * Logging configuration
 * @property {string} level - Log level (debug/info/warn/error)
 * @property {string} path - Log file path
 */
type LogConfig struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

/**
 * Database backup configuration
 * @property {string} dir - Directory backup files are written to
 * @property {int} keep - Number of most recent backups retained after pruning
 */
type BackupConfig struct {
	Dir  string `mapstructure:"dir"`
	Keep int    `mapstructure:"keep"`
}

/**
 * Metrics configuration
 * @property {string} pushgateway - Pushgateway address for metrics
 */
type MetricsConfig struct {
	Pushgateway string `mapstructure:"pushgateway"`
}

var ErrInvalidTarget = errors.New("invalid provisioning target")

type AppConfig struct {
	App     AppTarget     `mapstructure:"app"`
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
	Backup  BackupConfig  `mapstructure:"backup"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

/**
 * Load application configuration from YAML file
 * @description
 * - Looks for config.yaml in the working directory and /etc/publisher-keeper
 * - Every key has a default, so a missing file is not an error
 */
func LoadConfig() (*AppConfig, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/publisher-keeper")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// 配置文件不存在时使用默认值
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg AppConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("app.name", "publisher")
	viper.SetDefault("app.dir", "/var/www/publisher_site")
	viper.SetDefault("app.user", "www-data")
	viper.SetDefault("app.domain", "_")
	viper.SetDefault("app.port", 8000)
	viper.SetDefault("app.workers", 3)
	viper.SetDefault("app.timeout", 120)
	viper.SetDefault("server.address", ":9444")
	viper.SetDefault("server.mode", "release")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.path", "")
	viper.SetDefault("backup.dir", "")
	viper.SetDefault("backup.keep", 10)
}

var Config AppConfig

func collectConfig(cfg *AppConfig) *AppConfig {
	if cfg.Backup.Dir == "" {
		// 默认备份目录放在应用目录下
		cfg.Backup.Dir = filepath.Join(cfg.App.Dir, "backups")
	}
	if cfg.Backup.Keep <= 0 {
		cfg.Backup.Keep = 10
	}
	return cfg
}

/**
 * Validate provisioning target before any step touches the host
 * @param {*AppTarget} t - Target application settings
 * @returns {error} ErrInvalidTarget-wrapped error describing the first bad field
 * @description
 * - Name must be a single path-safe token (it becomes a unit and site filename)
 * - Dir must be absolute
 * - Port must be a non-privileged TCP port; 80 is reserved for nginx itself
 */
func (t *AppTarget) Validate() error {
	if t.Name == "" || strings.ContainsAny(t.Name, "/ \t") {
		return fmt.Errorf("%w: app name %q is not a valid unit name", ErrInvalidTarget, t.Name)
	}
	if !filepath.IsAbs(t.Dir) {
		return fmt.Errorf("%w: app dir %q must be absolute", ErrInvalidTarget, t.Dir)
	}
	if t.User == "" {
		return fmt.Errorf("%w: runtime user is empty", ErrInvalidTarget)
	}
	if t.Domain == "" {
		return fmt.Errorf("%w: domain is empty (use \"_\" to match any host)", ErrInvalidTarget)
	}
	if t.Port <= 1024 || t.Port > 65535 {
		return fmt.Errorf("%w: port %d outside usable range (1025-65535)", ErrInvalidTarget, t.Port)
	}
	if t.Workers <= 0 {
		return fmt.Errorf("%w: worker count %d must be positive", ErrInvalidTarget, t.Workers)
	}
	if t.Timeout <= 0 {
		return fmt.Errorf("%w: request timeout %d must be positive", ErrInvalidTarget, t.Timeout)
	}
	return nil
}

// VenvDir 返回应用虚拟环境目录
func (t *AppTarget) VenvDir() string {
	return filepath.Join(t.Dir, "venv")
}

// UnitPath 返回systemd单元文件路径
func (t *AppTarget) UnitPath() string {
	dir := t.SystemdDir
	if dir == "" {
		dir = "/etc/systemd/system"
	}
	return filepath.Join(dir, t.Name+".service")
}

// SitePath 返回nginx站点配置路径
func (t *AppTarget) SitePath() string {
	dir := t.NginxAvailableDir
	if dir == "" {
		dir = "/etc/nginx/sites-available"
	}
	return filepath.Join(dir, t.Name)
}

// SiteLinkPath 返回nginx启用站点的符号链接路径
func (t *AppTarget) SiteLinkPath() string {
	return filepath.Join(t.enabledDir(), t.Name)
}

// DefaultSiteLink 返回发行版默认站点的符号链接路径
func (t *AppTarget) DefaultSiteLink() string {
	return filepath.Join(t.enabledDir(), "default")
}

func (t *AppTarget) enabledDir() string {
	if t.NginxEnabledDir != "" {
		return t.NginxEnabledDir
	}
	return "/etc/nginx/sites-enabled"
}

// DatabasePath 返回应用sqlite数据库文件路径
func (t *AppTarget) DatabasePath() string {
	return filepath.Join(t.Dir, "instance", "publisher.db")
}

func init() {
	cfg, err := LoadConfig()
	if err == nil {
		Config = *cfg
	}
	collectConfig(&Config)
}

/**
 * Reload configuration from disk
 * @returns {error} Returns error if reload fails, nil on success
 */
func ReloadConfig() error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	Config = *cfg
	collectConfig(&Config)
	return nil
}
