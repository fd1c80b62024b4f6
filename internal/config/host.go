package config

// HostConfig holds per-host overrides for a single hostname.
// This allows customizing request behavior for hosts that need it
// (API tokens in headers, a different User-Agent, and so on).
type HostConfig struct {
	// UserAgent overrides the global User-Agent for this host.
	UserAgent string `yaml:"userAgent,omitempty"`

	// Headers are extra HTTP headers to include in requests to this host.
	Headers map[string]string `yaml:"headers,omitempty"`
}

// File represents the structure of the .linkharvest configuration file.
type File struct {
	// Hosts maps hostnames to their overrides.
	// Keys are bare hostnames without a scheme (e.g., "example.com").
	Hosts map[string]HostConfig `yaml:"hosts,omitempty"`

	// Defaults contains overrides applied to every host unless a
	// host-specific entry overrides them again.
	Defaults HostConfig `yaml:"defaults,omitempty"`
}

// GetHostConfig returns the merged configuration for a hostname:
// file defaults first, then host-specific values on top.
func (cf *File) GetHostConfig(host string) HostConfig {
	result := cf.Defaults

	hc, ok := cf.Hosts[host]
	if !ok {
		return result
	}

	if hc.UserAgent != "" {
		result.UserAgent = hc.UserAgent
	}
	if len(hc.Headers) > 0 {
		if result.Headers == nil {
			result.Headers = make(map[string]string, len(hc.Headers))
		}
		for k, v := range hc.Headers {
			result.Headers[k] = v
		}
	}
	return result
}
