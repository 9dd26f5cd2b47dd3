package config

import (
	"encoding/xml"
	"errors"
	"io"
	"os"
	"strings"
	"sync"
)

var (
	cfg  *APIConfig
	once sync.Once
)

// APIConfig represents the root element.
type APIConfig struct {
	XMLName     xml.Name        `xml:"API"`
	RequestDump bool            `xml:"REQUEST_DUMP,attr"`
	Context     ContextConfig   `xml:"CONTEXT"`
	DB          DBConfig        `xml:"DB"`
	RateLimit   RateLimitConfig `xml:"RATE_LIMIT"`
}

// ContextConfig holds basic server settings.
type ContextConfig struct {
	Port     int    `xml:"PORT"`
	Host     string `xml:"HOST"`
	Path     string `xml:"PATH"`
	TimeZone string `xml:"TIME_ZONE"`
}

// RateLimitConfig throttles the solution submission route.
type RateLimitConfig struct {
	RequestsPerSecond float64 `xml:"REQUESTS_PER_SECOND"`
	Burst             int     `xml:"BURST"`
}

// DBConfig holds database connection settings.
type DBConfig struct {
	Host     string       `xml:"HOST"`
	Port     int          `xml:"PORT"`
	Name     string       `xml:"NAME"`
	SSLMode  string       `xml:"SSL_MODE"`
	Username string       `xml:"USERNAME"`
	Password DBPassword   `xml:"PASSWORD"`
	Pool     DBPoolConfig `xml:"POOL"`
}

// DBPassword holds password details.
type DBPassword struct {
	Type  string `xml:"TYPE,attr"`
	Value string `xml:",chardata"`
}

// DBPoolConfig holds database connection pooling settings.
type DBPoolConfig struct {
	MaxOpenConns    int `xml:"MAX_OPEN_CONNS"`
	MaxIdleConns    int `xml:"MAX_IDLE_CONNS"`
	ConnMaxLifetime int `xml:"CONN_MAX_LIFETIME"`
}

// LoadConfig loads and parses the XML configuration from the given file.
func LoadConfig(xmlPath string) (*APIConfig, error) {
	once.Do(func() {
		f, err := os.Open(xmlPath)
		if err != nil {
			return
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			return
		}

		var newCfg APIConfig
		if err := xml.Unmarshal(data, &newCfg); err != nil {
			return
		}

		cfg = &newCfg
	})

	if cfg == nil {
		return nil, os.ErrInvalid
	}
	return cfg, nil
}

// GetConfig returns the loaded configuration.
func GetConfig() *APIConfig {
	return cfg
}

// MathpixConfig holds credentials for the stroke OCR service.
type MathpixConfig struct {
	AppID   string
	AppKey  string
	BaseURL string
}

// OpenAIConfig holds credentials for the evaluation LLM.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// OSSConfig holds credentials for the session archive bucket.
type OSSConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
}

// OperatorConfig holds the single operator account used for admin routes.
type OperatorConfig struct {
	Username     string
	PasswordHash string // bcrypt
}

// Secrets bundles everything read from the environment rather than the
// XML file. Third-party credentials never live in config.xml.
type Secrets struct {
	Mathpix  MathpixConfig
	OpenAI   OpenAIConfig
	OSS      OSSConfig
	Operator OperatorConfig

	JWTAccessSecret  string
	JWTRefreshSecret string
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// LoadSecrets reads third-party credentials from the environment. Call
// after godotenv has populated the process env.
func LoadSecrets() *Secrets {
	return &Secrets{
		Mathpix: MathpixConfig{
			AppID:   getenv("MATHPIX_APP_ID", ""),
			AppKey:  getenv("MATHPIX_APP_KEY", ""),
			BaseURL: getenv("MATHPIX_BASE_URL", "https://api.mathpix.com"),
		},
		OpenAI: OpenAIConfig{
			APIKey:  getenv("OPENAI_API_KEY", ""),
			BaseURL: getenv("OPENAI_BASE_URL", ""),
			Model:   getenv("OPENAI_MODEL", "gpt-4o-mini"),
		},
		OSS: OSSConfig{
			Endpoint:  getenv("OSS_ENDPOINT", ""),
			AccessKey: getenv("OSS_ACCESS_KEY", ""),
			SecretKey: getenv("OSS_SECRET_KEY", ""),
			Bucket:    getenv("OSS_BUCKET", ""),
			Prefix:    getenv("OSS_PREFIX", "sessions"),
		},
		Operator: OperatorConfig{
			Username:     getenv("OPERATOR_USERNAME", ""),
			PasswordHash: getenv("OPERATOR_PASSWORD_HASH", ""),
		},
		JWTAccessSecret:  getenv("JWT_ACCESS_SECRET", ""),
		JWTRefreshSecret: getenv("JWT_REFRESH_SECRET", ""),
	}
}

// Validate checks that the credential pair is complete.
func (m MathpixConfig) Validate() error {
	if m.AppID == "" || m.AppKey == "" {
		return errors.New("mathpix credentials are incomplete")
	}
	return nil
}

func (o OpenAIConfig) Validate() error {
	if o.APIKey == "" {
		return errors.New("openai API key is missing")
	}
	return nil
}

func (o OSSConfig) Validate() error {
	if o.Endpoint == "" || o.AccessKey == "" || o.SecretKey == "" || o.Bucket == "" {
		return errors.New("oss credentials are incomplete")
	}
	return nil
}
