package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"shift-guard/internal/shift"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("显式指定不存在的配置文件应报错")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 9090\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load(path)
	if err != nil {
		t.Fatalf("Load 应成功: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("期望端口 9090，实际 %d", cfg.Server.Port)
	}
	if cfg.Database.Driver != DriverPostgres {
		t.Errorf("期望默认驱动 postgres，实际 %s", cfg.Database.Driver)
	}
	if cfg.Shift.UndoLimit != shift.DefaultUndoLimit {
		t.Errorf("期望撤销栈容量 %d，实际 %d", shift.DefaultUndoLimit, cfg.Shift.UndoLimit)
	}
	p, err := cfg.Compliance.Policy()
	if err != nil {
		t.Fatalf("默认策略应有效: %v", err)
	}
	if p != shift.DefaultPolicy() {
		t.Errorf("期望默认策略，实际 %+v", p)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("db:\n  driver: mysql\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SHIFT_DB_DRIVER", "sqlite")
	t.Setenv("SHIFT_SHIFT_TIME_FORMAT", "24h")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load 应成功: %v", err)
	}
	if cfg.Database.Driver != DriverSQLite {
		t.Errorf("环境变量应覆盖配置文件，实际 %s", cfg.Database.Driver)
	}
	if cfg.Shift.TimeFormat != "24h" {
		t.Errorf("期望 24h，实际 %s", cfg.Shift.TimeFormat)
	}
}

func validConfig() Config {
	def := shift.DefaultPolicy()
	return Config{
		Server:   ServerConfig{Port: 8080},
		Database: DatabaseConfig{Driver: DriverSQLite, Path: ":memory:"},
		Compliance: ComplianceConfig{
			MealDeadlineHours: def.MealDeadlineHours,
			WarningMinutes:    def.WarningMinutes,
			UrgentMinutes:     def.UrgentMinutes,
			CriticalMinutes:   def.CriticalMinutes,
		},
		Shift: ShiftConfig{TimeFormat: "12h"},
	}
}

func TestValidate(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("有效配置不应报错: %v", err)
	}

	cases := map[string]func(c *Config){
		"端口越界":   func(c *Config) { c.Server.Port = 70000 },
		"未知驱动":   func(c *Config) { c.Database.Driver = "oracle" },
		"阈值顺序错误": func(c *Config) { c.Compliance.UrgentMinutes = 90 },
		"时间格式错误": func(c *Config) { c.Shift.TimeFormat = "36h" },
		"时区无效":   func(c *Config) { c.Shift.Timezone = "Mars/Olympus" },
		"限流参数无效": func(c *Config) { c.Server.RateLimit = RateLimitConfig{Enabled: true} },
	}
	for name, mutate := range cases {
		c := validConfig()
		mutate(&c)
		if err := c.Validate(); err == nil {
			t.Errorf("%s: 期望校验失败", name)
		}
	}

	c := validConfig()
	c.Compliance.CriticalMinutes = -1
	if err := c.Validate(); !errors.Is(err, shift.ErrInvalidPolicy) {
		t.Errorf("期望 ErrInvalidPolicy，实际 %v", err)
	}
}

func TestDSN(t *testing.T) {
	c := DatabaseConfig{Driver: DriverMySQL, User: "u", Password: "p", Host: "h", Port: 3306, Name: "d"}
	if got := c.DSN(); got != "u:p@tcp(h:3306)/d?charset=utf8mb4&parseTime=True&loc=Local" {
		t.Errorf("mysql DSN 不符: %s", got)
	}
	c = DatabaseConfig{Driver: DriverSQLite, Path: ":memory:"}
	if got := c.DSN(); got != ":memory:" {
		t.Errorf("sqlite DSN 不符: %s", got)
	}
}
