package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const ENV_FILE = ".env"
const CONFIG_FILE = "config.yaml"

type AppConfig struct {
	Logging  LoggingConfig  `yaml:"logging"`
	HTTP     HTTPConfig     `yaml:"http"`
	Mongo    MongoConfig    `yaml:"mongo"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Importer ImporterConfig `yaml:"importer"`
	Seed     SeedConfig     `yaml:"seed"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// HTTPConfig 는 API 서버 설정이다.
type HTTPConfig struct {
	Addr                   string   `yaml:"addr"`
	CORSAllowedOrigins     []string `yaml:"cors_allowed_origins"`
	ShutdownTimeoutSeconds int      `yaml:"shutdown_timeout_seconds"`
}

// ShutdownTimeout 은 graceful shutdown 대기 시간을 반환한다. 0 이하면 10초.
func (h HTTPConfig) ShutdownTimeout() time.Duration {
	if h.ShutdownTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(h.ShutdownTimeoutSeconds) * time.Second
}

type MongoConfig struct {
	URI            string `yaml:"uri"`
	DBName         string `yaml:"db_name"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// MemoryURI 를 mongo.uri 로 주면 API 가 Mongo 대신 프로세스 내 저장소를 쓴다.
const MemoryURI = "memory://"

// InMemory reports whether the posts store should live in process memory.
func (m MongoConfig) InMemory() bool {
	return m.URI == MemoryURI
}

// Timeout 은 연결/핑 타임아웃이다. 0 이하면 10초.
func (m MongoConfig) Timeout() time.Duration {
	if m.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(m.TimeoutSeconds) * time.Second
}

// KafkaConfig 는 포스트 이벤트 발행 설정이다.
// BootstrapServers 가 비어 있으면 이벤트 발행을 하지 않는다.
type KafkaConfig struct {
	BootstrapServers string `yaml:"bootstrap_servers"`
	Topic            string `yaml:"topic"`
	Partitions       int    `yaml:"partitions"`
	GroupID          string `yaml:"group_id"`
}

// ImporterConfig 는 RSS 피드에서 포스트를 가져오는 importer 설정이다.
type ImporterConfig struct {
	Limit                int          `yaml:"limit"`
	RenderMissingContent bool         `yaml:"render_missing_content"`
	Feeds                []FeedSource `yaml:"feeds"`
}

// FeedSource is a single feed configuration item
type FeedSource struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

type SeedConfig struct {
	Count int `yaml:"count"`
}

var config *AppConfig

func InitApp() {
	// load environment variables
	godotenv.Load(filepath.Join(GetBasePath(), ENV_FILE))

	// load configuration file
	data, err := os.ReadFile(filepath.Join(GetBasePath(), CONFIG_FILE))
	if err != nil {
		panic(err)
	}

	c, err := Parse(data)
	if err != nil {
		panic(err)
	}
	config = c
}

// Parse 는 yaml 설정을 읽고 기본값과 환경변수 override 를 적용한다.
func Parse(data []byte) (*AppConfig, error) {
	var c AppConfig
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	applyDefaults(&c)
	applyEnv(&c)
	return &c, nil
}

func applyDefaults(c *AppConfig) {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
	if c.Mongo.URI == "" {
		// Fallback for local docker-compose default
		c.Mongo.URI = "mongodb://localhost:27017"
	}
	if c.Mongo.DBName == "" {
		c.Mongo.DBName = "blog"
	}
	if c.Kafka.Topic == "" {
		c.Kafka.Topic = "post_events"
	}
	if c.Kafka.Partitions <= 0 {
		c.Kafka.Partitions = 3
	}
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = "blog-api-eventlog"
	}
	if c.Importer.Limit <= 0 {
		c.Importer.Limit = 10
	}
	if c.Seed.Count <= 0 {
		c.Seed.Count = 10
	}
}

func applyEnv(c *AppConfig) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		c.HTTP.Addr = v
	}
	if v := os.Getenv("MONGO_URI"); v != "" {
		c.Mongo.URI = v
	}
	if v := os.Getenv("MONGO_DB_NAME"); v != "" {
		c.Mongo.DBName = v
	}
	if v := os.Getenv("KAFKA_BOOTSTRAP_SERVERS"); v != "" {
		c.Kafka.BootstrapServers = v
	}
	if v := os.Getenv("KAFKA_GROUP_ID"); v != "" {
		c.Kafka.GroupID = v
	}
}

func GetConfig() AppConfig {
	if config == nil {
		InitApp()
	}

	return *config
}

func GetBasePath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		cfgPath := filepath.Join(dir, CONFIG_FILE)
		if info, err := os.Stat(cfgPath); err == nil && !info.IsDir() {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}
