package models

// MConfig Structure
type MConfig struct {
	Name          string         `yaml:"name"`
	Host          string         `yaml:"host"`
	Port          int            `yaml:"port"`
	LogLevel      string         `yaml:"log_level"`
	GrpcHost      string         `yaml:"grpc_host"`
	GrpcPort      int            `yaml:"grpc_port"`
	Network       MNetworkConfig `yaml:"network"`
	Backend       MBackendConfig `yaml:"backend"`
	Polling       MPollingConfig `yaml:"polling"`
	Session       MSessionConfig `yaml:"session"`
	Entities      []MEntity      `yaml:"entities"`
	DefaultEntity string         `yaml:"default_entity"`
	Page          MPageConfig    `yaml:"page"`
	NATS          MNATSConfig    `yaml:"nats"`
	Metrics       MMetricsConfig `yaml:"metrics"`
}

type MNetworkConfig struct {
	RequestTimeout int    `yaml:"timeout"`
	MaxRetries     int    `yaml:"retries"`
	UserAgent      string `yaml:"user_agent"`
}

// MBackendConfig points at the dashboard backend serving the JSON feeds.
type MBackendConfig struct {
	BaseURL         string `yaml:"base_url"`
	LiveIndicesPath string `yaml:"live_indices_path"`
	NSEIndicesPath  string `yaml:"nse_indices_path"`
	NSEChartPath    string `yaml:"nse_chart_path"` // prefix, entity key is appended
	FIIDIIPath      string `yaml:"fii_dii_path"`
}

type MPollingConfig struct {
	FastIntervalMillis    int  `yaml:"fast_interval_ms"`
	MediumIntervalSeconds int  `yaml:"medium_interval_seconds"`
	SlowIntervalSeconds   int  `yaml:"slow_interval_seconds"`
	StartOnBoot           bool `yaml:"start_on_boot"`
}

type MSessionConfig struct {
	Timezone string `yaml:"timezone"`
	Start    string `yaml:"start"` // "HH:MM"
	End      string `yaml:"end"`   // "HH:MM"
	MIC      string `yaml:"mic"`
}

// MPageConfig describes which widgets the host page carries.
type MPageConfig struct {
	Cards   bool   `yaml:"cards"`
	Detail  bool   `yaml:"detail"`
	ChartID string `yaml:"chart_id"` // empty means the page has no chart
	Flows   bool   `yaml:"flows"`
}

type MNATSConfig struct {
	Enabled              bool              `yaml:"enabled"`
	URL                  string            `yaml:"url"`
	ClientID             string            `yaml:"client_id"`
	SubjectPrefix        string            `yaml:"subject_prefix"`
	MaxReconnects        int               `yaml:"max_reconnects"`
	ConnectTimeoutSecond int               `yaml:"connect_timeout_seconds"`
	ReconnectWaitSecond  int               `yaml:"reconnect_wait_seconds"`
	JetStream            *MJetStreamConfig `yaml:"jetstream"`
}

// MJetStreamConfig switches publishing to a persistent stream.
type MJetStreamConfig struct {
	Enabled     bool     `yaml:"enabled"`
	StreamName  string   `yaml:"stream_name"`
	Subjects    []string `yaml:"subjects"`
	MaxAgeHours int      `yaml:"max_age_hours"`
}

type MMetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
}
