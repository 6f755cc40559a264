package models

// Config represents the service configuration
type Config struct {
	// Server config
	Port int    `yaml:"port"`
	Host string `yaml:"host"`

	// Database config
	Database DatabaseConfig `yaml:"database"`

	// Storage source config
	Storage StorageConfig `yaml:"storage"`

	// OCR config
	OCR OCRConfig `yaml:"ocr"`
}

// DatabaseConfig holds the PostgreSQL connection settings
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// StorageConfig selects and configures the invoice source backend
type StorageConfig struct {
	Backend string `yaml:"backend"` // "minio" or "local"

	// MinIO / S3-compatible object storage
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`

	// Local directory backend
	Path string `yaml:"path"`
}

// OCRConfig represents OCR-specific configuration
type OCRConfig struct {
	Engine         string `yaml:"engine"`   // "tesseract", "openai" or "gemini"
	Language       string `yaml:"language"` // tesseract language (default: "eng")
	TimeoutSeconds int    `yaml:"timeout_seconds"`

	OpenAI OpenAIConfig `yaml:"openai"`
	Gemini GeminiConfig `yaml:"gemini"`
}

// OpenAIConfig for OpenAI-compatible vision endpoints
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url,omitempty"` // For custom endpoints
	Model   string `yaml:"model"`              // Default: "gpt-4o-mini"
}

// GeminiConfig for Google Gemini vision
type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"` // Default: "gemini-1.5-flash"
}
