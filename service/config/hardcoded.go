package config

const (
	NevaBackend   = "neva"
	OpenAIBackend = "openai"
	FakeBackend   = "fake"

	SubstringMatch = "substring"
	LeadingMatch   = "leading"

	DefaultFrameCount = 16
)

type staticService struct {
	settings Settings
}

// NewHardCoded returns the defaults. There is no default credential.
func NewHardCoded() IService {
	return &staticService{
		settings: Defaults(),
	}
}

func Defaults() Settings {
	return Settings{
		Backend:             NevaBackend,
		EndpointURL:         "https://ai.api.nvidia.com/v1/vlm/nvidia/neva-22b",
		OpenAIBaseURL:       "https://integrate.api.nvidia.com/v1",
		Model:               "nvidia/neva-22b",
		FrameCount:          DefaultFrameCount,
		MaxTokens:           512,
		Temperature:         0.7,
		TopP:                1.0,
		RequestTimeout:      30,
		RequestsPerSecond:   0,
		AnswerMatch:         SubstringMatch,
		HTTPAddr:            ":8080",
		MaxUploadMB:         512,
		UploadsFolder:       "./uploads",
		DataFolder:          "./data",
		LogsFolder:          "./logs",
		ModeMaxShutdownTime: 5,
	}
}

func (svc *staticService) GetSettings() Settings {
	return svc.settings
}

func (svc *staticService) GetModeMaxShutdownTime() int {
	return svc.settings.ModeMaxShutdownTime
}

func (svc *staticService) GetFrameCount() int {
	return svc.settings.FrameCount
}

func (svc *staticService) GetHTTPAddr() string {
	return svc.settings.HTTPAddr
}

func (svc *staticService) GetUploadsFolder() string {
	return svc.settings.UploadsFolder
}

func (svc *staticService) GetDataFolder() string {
	return svc.settings.DataFolder
}

func (svc *staticService) GetLogsFolder() string {
	return svc.settings.LogsFolder
}

// NewStatic wraps already-built settings, normalizing zero values to defaults.
func NewStatic(settings Settings) IService {
	return &staticService{
		settings: normalize(settings),
	}
}
