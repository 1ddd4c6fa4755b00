package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 全局配置结构体（完全匹配config.yaml）
type Config struct {
	Server    ServerConfig              `mapstructure:"server"`    // 服务器配置
	Database  DatabaseConfig            `mapstructure:"database"`  // 数据库配置（sqlite/postgres 双模式）
	Queue     QueueConfig               `mapstructure:"queue"`     // 链接队列调度配置
	Cache     CacheConfig               `mapstructure:"cache"`     // 谜题详情缓存配置
	Index     IndexConfig               `mapstructure:"index"`     // 谜题目录检索配置
	Providers map[string]ProviderConfig `mapstructure:"providers"` // 远端谜题源独立配置
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port int    `mapstructure:"port"` // 服务端口
	Mode string `mapstructure:"mode"` // Gin运行模式：debug/release/test
}

// DatabaseConfig 数据库配置。driver=sqlite 时 DSN 为文件路径，driver=postgres 时为连接URL
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`            // sqlite/postgres
	DSN             string        `mapstructure:"dsn"`               // 连接DSN
	MaxOpenConns    int           `mapstructure:"max_open_conns"`    // 最大打开连接数
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`    // 最大空闲连接数
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"` // 连接最大存活时间
}

// QueueConfig 链接队列调度配置
type QueueConfig struct {
	BatchSize    int `mapstructure:"batch_size"`     // 每批排空的最大条数
	BatchDelayMS int `mapstructure:"batch_delay_ms"` // 批间暂停（毫秒）
	MaxResults   int `mapstructure:"max_results"`    // 每个失误最多落库的链接数
}

// BatchDelay 批间暂停时长
func (q *QueueConfig) BatchDelay() time.Duration {
	return time.Duration(q.BatchDelayMS) * time.Millisecond
}

// CacheConfig 谜题详情缓存配置
type CacheConfig struct {
	Capacity int `mapstructure:"capacity"`  // LRU 容量上限
	TTLHours int `mapstructure:"ttl_hours"` // 过期时长（小时）
}

// TTL 缓存过期时长
func (c *CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

// IndexConfig 谜题目录检索配置。目录约300万行，单次检索实测约7ms/条，
// 超时兜底防止目录慢查询拖垮整批。
type IndexConfig struct {
	SearchTimeoutMS int `mapstructure:"search_timeout_ms"` // 单次检索超时（毫秒）
	OverfetchFactor int `mapstructure:"overfetch_factor"`  // 超额拉取倍数（给排序留余量）
	RatingBand      int `mapstructure:"rating_band"`       // 难度分检索带宽（±）
	DefaultRating   int `mapstructure:"default_rating"`    // 未知难度时的目标分
}

// SearchTimeout 单次检索超时时长
func (i *IndexConfig) SearchTimeout() time.Duration {
	return time.Duration(i.SearchTimeoutMS) * time.Millisecond
}

// ProviderConfig 单个远端谜题源的独立配置
type ProviderConfig struct {
	BaseURL    string `mapstructure:"base_url"`    // API基础地址
	Timeout    int    `mapstructure:"timeout"`     // 请求超时（秒）
	RetryCount int    `mapstructure:"retry_count"` // 重试次数
	AuthToken  string `mapstructure:"auth_token"`  // 认证Token（可空）
	Proxy      string `mapstructure:"proxy"`       // 代理地址
}

// LoadConfig 加载配置文件（config/config.yaml），敏感项从 .env 覆盖（不提交 git）。
// 配置不合法时直接报错拒绝启动，不做静默兜底。
func LoadConfig() (*Config, error) {
	// 1. 加载 .env（若存在），env 中的值会覆盖 config.yaml 中同名字段
	_ = godotenv.Load() // 忽略错误（.env 可不存在）

	// 2. 读取 config.yaml
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	viper.SetTypeByDefaultValue(true)
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 3. 敏感字段：用 env 覆盖（优先级 env > yaml）
	overrideFromEnv(&cfg)

	// 4. 校验：错误配置必须在启动期暴露
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 校验调度与缓存参数。非正数一律拒绝，不回退默认值
func (c *Config) Validate() error {
	if c.Database.Driver != "sqlite" && c.Database.Driver != "postgres" {
		return fmt.Errorf("不支持的数据库驱动: %q（仅支持 sqlite/postgres）", c.Database.Driver)
	}
	if c.Queue.BatchSize <= 0 {
		return fmt.Errorf("queue.batch_size 必须为正数，当前: %d", c.Queue.BatchSize)
	}
	if c.Queue.BatchDelayMS <= 0 {
		return fmt.Errorf("queue.batch_delay_ms 必须为正数，当前: %d", c.Queue.BatchDelayMS)
	}
	if c.Queue.MaxResults <= 0 {
		return fmt.Errorf("queue.max_results 必须为正数，当前: %d", c.Queue.MaxResults)
	}
	if c.Cache.Capacity <= 0 {
		return fmt.Errorf("cache.capacity 必须为正数，当前: %d", c.Cache.Capacity)
	}
	if c.Cache.TTLHours <= 0 {
		return fmt.Errorf("cache.ttl_hours 必须为正数，当前: %d", c.Cache.TTLHours)
	}
	if c.Index.SearchTimeoutMS <= 0 {
		return fmt.Errorf("index.search_timeout_ms 必须为正数，当前: %d", c.Index.SearchTimeoutMS)
	}
	if c.Index.OverfetchFactor <= 0 {
		return fmt.Errorf("index.overfetch_factor 必须为正数，当前: %d", c.Index.OverfetchFactor)
	}
	return nil
}

// overrideFromEnv 用环境变量覆盖敏感配置
func overrideFromEnv(cfg *Config) {
	if l, ok := cfg.Providers["lichess"]; ok {
		if v := os.Getenv("LICHESS_AUTH_TOKEN"); v != "" {
			l.AuthToken = v
		}
		if v := os.Getenv("LICHESS_PROXY"); v != "" {
			l.Proxy = v
		}
		cfg.Providers["lichess"] = l
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}
}
