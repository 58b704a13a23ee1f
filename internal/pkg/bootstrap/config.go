// internal/pkg/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-sql-driver/mysql"
	"gopkg.in/yaml.v3"
)

// Config 是所有服务共享的配置结构，对应 configs/config.yaml
type Config struct {
	App        AppConfig        `yaml:"app"`
	Log        LogConfig        `yaml:"log"`
	Infra      InfraConfig      `yaml:"infra"`
	Shipping   ShippingConfig   `yaml:"shipping"`
	Payment    PaymentConfig    `yaml:"payment"`
	AI         AIConfig         `yaml:"ai"`
	Production ProductionConfig `yaml:"production"`
}

type AppConfig struct {
	PublicBaseURL string       `yaml:"publicBaseUrl"`
	FeatureFlags  FeatureFlags `yaml:"featureFlags"`
}

// FeatureFlags 可以通过 Nacos 远程配置热更新
type FeatureFlags struct {
	EnableStockLock   bool `yaml:"enableStockLock"`
	EnableAIAssistant bool `yaml:"enableAiAssistant"`
	EnableOrderEvents bool `yaml:"enableOrderEvents"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

type InfraConfig struct {
	Jaeger    JaegerConfig    `yaml:"jaeger"`
	MySQL     MySQLConfig     `yaml:"mysql"`
	Redis     RedisConfig     `yaml:"redis"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Zookeeper ZookeeperConfig `yaml:"zookeeper"`
	Nacos     NacosConfig     `yaml:"nacos"`
}

type JaegerConfig struct {
	Endpoint    string  `yaml:"endpoint"`
	SampleRatio float64 `yaml:"sampleRatio"`
}

type MySQLConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// DSN 使用驱动自带的 Config 组装连接串，避免手工拼接出错
func (m MySQLConfig) DSN() string {
	cfg := mysql.NewConfig()
	cfg.User = m.User
	cfg.Passwd = m.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(m.Host, strconv.Itoa(m.Port))
	cfg.DBName = m.Database
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	return cfg.FormatDSN()
}

type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	CartTTL  time.Duration `yaml:"cartTtl"`
}

type KafkaConfig struct {
	Brokers          []string `yaml:"brokers"`
	OrderEventsTopic string   `yaml:"orderEventsTopic"`
	ConsumerGroup    string   `yaml:"consumerGroup"`
}

type ZookeeperConfig struct {
	Servers        []string      `yaml:"servers"`
	SessionTimeout time.Duration `yaml:"sessionTimeout"`
}

type NacosConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServerAddrs string `yaml:"serverAddrs"`
	Namespace   string `yaml:"namespace"`
	Group       string `yaml:"group"`
	DataID      string `yaml:"dataId"`
}

// ShippingConfig 中的 Table 为空时使用内置运费表
// 结构: 发货区域 -> 目的区域 -> same|other -> 尺寸 -> 运费
type ShippingConfig struct {
	OriginRegion string                                             `yaml:"originRegion"`
	ServiceURL   string                                             `yaml:"serviceUrl"`
	Table        map[string]map[string]map[string]map[string]int64 `yaml:"table"`
}

type PaymentConfig struct {
	GatewayURL string        `yaml:"gatewayUrl"`
	ReturnURL  string        `yaml:"returnUrl"`
	Timeout    time.Duration `yaml:"timeout"`
}

type AIConfig struct {
	APIKey     string `yaml:"apiKey"`
	TextModel  string `yaml:"textModel"`
	ImageModel string `yaml:"imageModel"`
	TTSModel   string `yaml:"ttsModel"`
	Voice      string `yaml:"voice"`
}

type ProductionConfig struct {
	MoodRules []MoodRuleConfig `yaml:"moodRules"`
}

type MoodRuleConfig struct {
	Mood string `yaml:"mood"`
	Expr string `yaml:"expr"`
}

var currentConfig atomic.Pointer[Config]

// GetCurrentConfig 返回当前生效的配置快照，调用方不应修改返回值
func GetCurrentConfig() *Config {
	if cfg := currentConfig.Load(); cfg != nil {
		return cfg
	}
	cfg := DefaultConfig()
	return &cfg
}

func setCurrentConfig(cfg *Config) {
	currentConfig.Store(cfg)
}

// DefaultConfig 返回本地开发可直接使用的默认配置
func DefaultConfig() Config {
	return Config{
		App: AppConfig{
			PublicBaseURL: "http://localhost:8080",
			FeatureFlags: FeatureFlags{
				EnableStockLock:   false,
				EnableAIAssistant: true,
				EnableOrderEvents: true,
			},
		},
		Log: LogConfig{Level: "info"},
		Infra: InfraConfig{
			Jaeger: JaegerConfig{SampleRatio: 1},
			MySQL: MySQLConfig{
				Host:     "localhost",
				Port:     3306,
				User:     "root",
				Database: "mycelium",
			},
			Redis: RedisConfig{Addr: "localhost:6379", CartTTL: 72 * time.Hour},
			Kafka: KafkaConfig{
				Brokers:          []string{"localhost:9092"},
				OrderEventsTopic: "order-events",
				ConsumerGroup:    "notification-group",
			},
			Zookeeper: ZookeeperConfig{SessionTimeout: 5 * time.Second},
			Nacos:     NacosConfig{ServerAddrs: "localhost:8848", Group: "DEFAULT_GROUP", DataID: "mycelium.yaml"},
		},
		Shipping: ShippingConfig{
			OriginRegion: "Valparaíso",
			ServiceURL:   "http://localhost:8086",
		},
		Payment: PaymentConfig{Timeout: 10 * time.Second},
		AI: AIConfig{
			TextModel:  "gemini-2.0-flash",
			ImageModel: "imagen-3.0-generate-002",
			TTSModel:   "gemini-2.5-flash-preview-tts",
			Voice:      "Algenib",
		},
	}
}

// LoadConfig 读取 YAML 配置文件并叠加环境变量。
// 文件不存在时不报错，直接使用默认值。
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	applyEnv(&cfg)
	return &cfg, nil
}

// MergeYAML 把一段 YAML（例如 Nacos 下发的内容）覆盖到现有配置的副本上
func MergeYAML(base *Config, content string) (*Config, error) {
	// 先经过一次序列化做深拷贝，防止 map 字段被原地修改
	snapshot, err := yaml.Marshal(base)
	if err != nil {
		return nil, fmt.Errorf("snapshot config: %w", err)
	}
	var merged Config
	if err := yaml.Unmarshal(snapshot, &merged); err != nil {
		return nil, fmt.Errorf("snapshot config: %w", err)
	}
	if err := yaml.Unmarshal([]byte(content), &merged); err != nil {
		return nil, fmt.Errorf("parse remote config: %w", err)
	}
	return &merged, nil
}

func applyEnv(cfg *Config) {
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Infra.Jaeger.Endpoint = getEnv("JAEGER_ENDPOINT", cfg.Infra.Jaeger.Endpoint)
	cfg.Infra.MySQL.Host = getEnv("MYSQL_HOST", cfg.Infra.MySQL.Host)
	cfg.Infra.MySQL.User = getEnv("MYSQL_USER", cfg.Infra.MySQL.User)
	cfg.Infra.MySQL.Password = getEnv("MYSQL_PASSWORD", cfg.Infra.MySQL.Password)
	cfg.Infra.MySQL.Database = getEnv("MYSQL_DATABASE", cfg.Infra.MySQL.Database)
	if port, err := strconv.Atoi(getEnv("MYSQL_PORT", "")); err == nil {
		cfg.Infra.MySQL.Port = port
	}
	cfg.Infra.Redis.Addr = getEnv("REDIS_ADDR", cfg.Infra.Redis.Addr)
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		cfg.Infra.Kafka.Brokers = strings.Split(brokers, ",")
	}
	if servers := getEnv("ZOOKEEPER_SERVERS", ""); servers != "" {
		cfg.Infra.Zookeeper.Servers = strings.Split(servers, ",")
	}
	cfg.Infra.Nacos.ServerAddrs = getEnv("NACOS_SERVER_ADDRS", cfg.Infra.Nacos.ServerAddrs)
	cfg.Infra.Nacos.Namespace = getEnv("NACOS_NAMESPACE", cfg.Infra.Nacos.Namespace)
	cfg.Infra.Nacos.Group = getEnv("NACOS_GROUP", cfg.Infra.Nacos.Group)
	if getEnv("NACOS_ENABLED", "") == "true" {
		cfg.Infra.Nacos.Enabled = true
	}
	cfg.Shipping.OriginRegion = getEnv("SHIPPING_ORIGIN_REGION", cfg.Shipping.OriginRegion)
	cfg.Shipping.ServiceURL = getEnv("SHIPPING_SERVICE_URL", cfg.Shipping.ServiceURL)
	cfg.Payment.GatewayURL = getEnv("PAYMENT_GATEWAY_URL", cfg.Payment.GatewayURL)
	cfg.Payment.ReturnURL = getEnv("PAYMENT_RETURN_URL", cfg.Payment.ReturnURL)
	cfg.AI.APIKey = getEnv("GEMINI_API_KEY", cfg.AI.APIKey)
}

// getEnv 从环境变量中读取配置，不存在时返回默认值
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
