package config

// Settings is built once at startup and passed by value afterwards.
type Settings struct {
	Backend           string  `toml:"backend" env:"CLASSIFIER_BACKEND"` // neva, openai or fake
	EndpointURL       string  `toml:"endpoint_url" env:"ENDPOINT_URL"`
	OpenAIBaseURL     string  `toml:"openai_base_url" env:"OPENAI_BASE_URL"`
	Model             string  `toml:"model" env:"MODEL"`
	AuthToken         string  `toml:"-" env:"AUTH_TOKEN"`
	FrameCount        int     `toml:"frame_count" env:"FRAME_COUNT"`
	MaxTokens         int     `toml:"max_tokens" env:"MAX_TOKENS"`
	Temperature       float32 `toml:"temperature" env:"TEMPERATURE"`
	TopP              float32 `toml:"top_p" env:"TOP_P"`
	RequestTimeout    int     `toml:"request_timeout" env:"REQUEST_TIMEOUT"` // seconds
	RequestsPerSecond float64 `toml:"requests_per_second" env:"REQUESTS_PER_SECOND"`
	AnswerMatch       string  `toml:"answer_match" env:"ANSWER_MATCH"` // substring or leading

	HTTPAddr            string `toml:"http_addr" env:"HTTP_ADDR"`
	MaxUploadMB         int64  `toml:"max_upload_mb" env:"MAX_UPLOAD_MB"`
	UploadsFolder       string `toml:"uploads_folder" env:"UPLOADS_FOLDER"`
	DataFolder          string `toml:"data_folder" env:"DATA_FOLDER"`
	LogsFolder          string `toml:"logs_folder" env:"LOGS_FOLDER"`
	ModeMaxShutdownTime int    `toml:"shutdown_time" env:"SHUTDOWN_TIME"` // seconds
}

type IService interface {
	GetSettings() Settings
	GetModeMaxShutdownTime() int
	GetFrameCount() int
	GetHTTPAddr() string
	GetUploadsFolder() string
	GetDataFolder() string
	GetLogsFolder() string
}
