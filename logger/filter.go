package logger

import "strings"

// DefaultMaskValue replaces sensitive values in log output.
const DefaultMaskValue = "***"

// FilterConfig configures sensitive data masking.
type FilterConfig struct {
	// SensitiveFields are field-name fragments that trigger masking.
	// Matching is case-insensitive and matches substrings, so
	// "authorization" also covers "proxy-authorization".
	SensitiveFields []string
	// MaskValue replaces matched values (default "***").
	MaskValue string
}

// DefaultFilterConfig covers the credential-bearing keys that commonly
// appear in outbound request headers and metadata.
func DefaultFilterConfig() *FilterConfig {
	return &FilterConfig{
		SensitiveFields: []string{
			"password", "passwd", "pwd",
			"secret", "api_key", "apikey", "api-key",
			"token", "access_token", "refresh_token",
			"auth", "authorization",
			"credential", "credentials",
			"cookie", "set-cookie",
		},
		MaskValue: DefaultMaskValue,
	}
}

// SensitiveDataFilter masks values whose keys look credential-bearing.
type SensitiveDataFilter struct {
	config *FilterConfig
}

// NewSensitiveDataFilter creates a filter; nil config uses the defaults.
func NewSensitiveDataFilter(config *FilterConfig) *SensitiveDataFilter {
	if config == nil {
		config = DefaultFilterConfig()
	}
	if config.MaskValue == "" {
		config.MaskValue = DefaultMaskValue
	}
	return &SensitiveDataFilter{config: config}
}

// FilterString masks the value when the key is sensitive.
func (f *SensitiveDataFilter) FilterString(key, value string) string {
	if f.isSensitiveField(key) {
		return f.config.MaskValue
	}
	return value
}

// FilterValue masks scalar values and recurses into string maps, which
// is the shape request headers and query parameters are logged in.
func (f *SensitiveDataFilter) FilterValue(key string, value any) any {
	if f.isSensitiveField(key) {
		return f.config.MaskValue
	}
	switch v := value.(type) {
	case map[string]string:
		out := make(map[string]string, len(v))
		for k, val := range v {
			out[k] = f.FilterString(k, val)
		}
		return out
	case map[string]any:
		return f.FilterFields(v)
	default:
		return value
	}
}

// FilterFields returns a copy of fields with sensitive values masked.
func (f *SensitiveDataFilter) FilterFields(fields map[string]any) map[string]any {
	if fields == nil {
		return nil
	}
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = f.FilterValue(k, v)
	}
	return out
}

func (f *SensitiveDataFilter) isSensitiveField(key string) bool {
	lower := strings.ToLower(key)
	for _, field := range f.config.SensitiveFields {
		if strings.Contains(lower, field) {
			return true
		}
	}
	return false
}
