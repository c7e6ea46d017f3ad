package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"shift-guard/internal/shift"
)

// Config 应用全局配置结构体
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"db"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Log        LogConfig        `mapstructure:"log"`
	Compliance ComplianceConfig `mapstructure:"compliance"`
	Shift      ShiftConfig      `mapstructure:"shift"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Port      int             `mapstructure:"port"`
	CORS      CORSConfig      `mapstructure:"cors"`
	BodyLimit int64           `mapstructure:"body_limit"` // 请求体上限（字节）
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// RateLimitConfig 写接口限流，依赖 Redis
type RateLimitConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Limit   int           `mapstructure:"limit"`
	Window  time.Duration `mapstructure:"window"`
}

// 支持的数据库驱动
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	Path            string `mapstructure:"path"` // sqlite 文件路径，":memory:" 为内存库
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // 连接最大生命周期（分钟）
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // 空闲连接最大存活时间（分钟）
}

// DSN 按驱动生成连接字符串
func (c *DatabaseConfig) DSN() string {
	switch c.Driver {
	case DriverMySQL:
		return fmt.Sprintf(
			"%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			c.User, c.Password, c.Host, c.Port, c.Name,
		)
	case DriverSQLite:
		return c.Path
	default:
		return fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
			c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
		)
	}
}

// RedisConfig Redis 配置；Addr 为空时不启用（单实例部署）
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Enabled 是否配置了 Redis
func (c *RedisConfig) Enabled() bool {
	return c.Addr != ""
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ComplianceConfig 用餐合规策略初始值，数据库中尚无策略时使用
type ComplianceConfig struct {
	MealDeadlineHours float64 `mapstructure:"meal_deadline_hours"`
	WarningMinutes    float64 `mapstructure:"warning_minutes"`
	UrgentMinutes     float64 `mapstructure:"urgent_minutes"`
	CriticalMinutes   float64 `mapstructure:"critical_minutes"`
}

// Policy 转换为核心策略并校验
func (c *ComplianceConfig) Policy() (shift.Policy, error) {
	return shift.NewPolicy(c.MealDeadlineHours, c.WarningMinutes, c.UrgentMinutes, c.CriticalMinutes)
}

// ShiftConfig 班次运行参数
type ShiftConfig struct {
	UndoLimit  int           `mapstructure:"undo_limit"`
	Timezone   string        `mapstructure:"timezone"`    // 门店所在时区，决定 "today" 与 HH:mm 的锚定
	TimeFormat string        `mapstructure:"time_format"` // 12h | 24h
	LockTTL    time.Duration `mapstructure:"lock_ttl"`    // 班次分布式锁过期时间
	UndoTTL    time.Duration `mapstructure:"undo_ttl"`    // 撤销栈在 Redis 中的保留时间
}

// Location 解析门店时区
func (c *ShiftConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// Load 从配置文件与环境变量加载配置
// 优先级：环境变量 > 配置文件 > 默认值
func Load(path string) (*Config, error) {
	v := viper.New()

	// ── 默认值 ──
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:5173"})
	v.SetDefault("server.body_limit", 2<<20)
	v.SetDefault("server.rate_limit.enabled", true)
	v.SetDefault("server.rate_limit.limit", 120)
	v.SetDefault("server.rate_limit.window", "1m")

	v.SetDefault("db.driver", DriverPostgres)
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "shift_guard")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("db.path", "shift_guard.db")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", 60)  // 60分钟
	v.SetDefault("db.conn_max_idle_time", 30) // 30分钟

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	def := shift.DefaultPolicy()
	v.SetDefault("compliance.meal_deadline_hours", def.MealDeadlineHours)
	v.SetDefault("compliance.warning_minutes", def.WarningMinutes)
	v.SetDefault("compliance.urgent_minutes", def.UrgentMinutes)
	v.SetDefault("compliance.critical_minutes", def.CriticalMinutes)

	v.SetDefault("shift.undo_limit", shift.DefaultUndoLimit)
	v.SetDefault("shift.timezone", "")
	v.SetDefault("shift.time_format", string(shift.TimeFormat12h))
	v.SetDefault("shift.lock_ttl", "10s")
	v.SetDefault("shift.undo_ttl", "36h")

	// ── 配置文件 ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── 环境变量 ──
	v.SetEnvPrefix("SHIFT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		// 配置文件不存在时仅依赖默认值和环境变量
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	// ── 关键配置校验 ──
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 校验关键配置项
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("配置校验失败: server.port 必须在 1-65535 之间")
	}
	switch c.Database.Driver {
	case DriverPostgres, DriverMySQL, DriverSQLite:
	default:
		return fmt.Errorf("配置校验失败: 不支持的 db.driver %q", c.Database.Driver)
	}
	if c.Server.RateLimit.Enabled && (c.Server.RateLimit.Limit <= 0 || c.Server.RateLimit.Window <= 0) {
		return fmt.Errorf("配置校验失败: server.rate_limit 的 limit/window 必须大于 0")
	}
	if _, err := c.Compliance.Policy(); err != nil {
		return fmt.Errorf("配置校验失败: %w", err)
	}
	switch shift.TimeFormat(c.Shift.TimeFormat) {
	case shift.TimeFormat12h, shift.TimeFormat24h:
	default:
		return fmt.Errorf("配置校验失败: shift.time_format 只能是 12h 或 24h")
	}
	if _, err := c.Shift.Location(); err != nil {
		return fmt.Errorf("配置校验失败: shift.timezone 无效: %w", err)
	}
	return nil
}
