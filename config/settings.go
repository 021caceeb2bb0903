package config

import (
	"time"

	"github.com/rely-go/rely/httpclient"
)

// Settings holds the process-wide defaults loaded from the environment
// and optional YAML files.
type Settings struct {
	HTTP HTTPSettings `koanf:"http"`
	Log  LogSettings  `koanf:"log"`
}

// HTTPSettings configures the resilient HTTP client.
type HTTPSettings struct {
	Retries RetrySettings   `koanf:"retries"`
	Timeout TimeoutSettings `koanf:"timeout"`
	Backoff BackoffSettings `koanf:"backoff"`
	Logging LogPolicy       `koanf:"logging"`
}

// RetrySettings configures the retry budget.
type RetrySettings struct {
	Max int `koanf:"max" validate:"gte=0"`
}

// TimeoutSettings configures the two timeout budgets.
type TimeoutSettings struct {
	Request time.Duration `koanf:"request" validate:"gte=0"`
	Global  time.Duration `koanf:"global" validate:"gte=0"`
}

// BackoffSettings configures the delay schedule between retries.
type BackoffSettings struct {
	Delay      BackoffDelay `koanf:"delay"`
	Multiplier float64      `koanf:"multiplier" validate:"gte=0"`
	Jitter     bool         `koanf:"jitter"`
}

// BackoffDelay holds the initial delay and its cap.
type BackoffDelay struct {
	Initial time.Duration `koanf:"initial" validate:"gte=0"`
	Max     time.Duration `koanf:"max" validate:"gte=0"`
}

// LogPolicy configures what the client logs per call.
type LogPolicy struct {
	Level   string `koanf:"level" validate:"omitempty,oneof=trace debug info warn error fatal panic disabled"`
	Retries bool   `koanf:"retries"`
}

// LogSettings configures the process logger.
type LogSettings struct {
	Level  string `koanf:"level" validate:"omitempty,oneof=trace debug info warn error fatal panic disabled"`
	Pretty bool   `koanf:"pretty"`
}

// Options converts the loaded HTTP settings into a configuration layer
// suitable for httpclient.SetGlobalConfig.
func (s *HTTPSettings) Options() httpclient.Options {
	return httpclient.Options{
		MaxRetries:     httpclient.Int(s.Retries.Max),
		RequestTimeout: httpclient.Duration(s.Timeout.Request),
		GlobalTimeout:  httpclient.Duration(s.Timeout.Global),
		Backoff: &httpclient.BackoffOptions{
			InitialDelay: httpclient.Duration(s.Backoff.Delay.Initial),
			Multiplier:   httpclient.Float64(s.Backoff.Multiplier),
			MaxDelay:     httpclient.Duration(s.Backoff.Delay.Max),
			Jitter:       httpclient.Bool(s.Backoff.Jitter),
		},
		Logging: &httpclient.LoggingOptions{
			Level:      httpclient.String(s.Logging.Level),
			LogRetries: httpclient.Bool(s.Logging.Retries),
		},
	}
}
