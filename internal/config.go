package internal

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
)

// Launch parameter keys, as they appear in a widget page's query string
const (
	ParamBusinessID = "businessId"
	ParamAPIBaseURL = "apiBaseUrl"
)

// Defaults applied when a launch parameter is absent or empty
const (
	DefaultBusinessID = "demo-business"
	DefaultAPIBaseURL = "http://127.0.0.1:8000/api"
)

// LaunchParams is the string-to-string mapping the widget is launched with.
// Keys are not guaranteed present.
type LaunchParams map[string]string

// Get returns the trimmed value for key, or "" when absent.
func (p LaunchParams) Get(key string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(p[key])
}

// Merge returns a copy of p overlaid with the non-empty values of other.
func (p LaunchParams) Merge(other LaunchParams) LaunchParams {
	merged := make(LaunchParams, len(p)+len(other))
	for k, v := range p {
		merged[k] = v
	}
	for k, v := range other {
		if strings.TrimSpace(v) == "" {
			continue
		}
		merged[k] = v
	}
	return merged
}

// ParseLaunchURL reads launch parameters from a widget page URL. Only the
// query string is used; a bare query ("businessId=acme") is accepted too.
// When a key repeats, the first value wins.
func ParseLaunchURL(raw string) (LaunchParams, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return LaunchParams{}, nil
	}

	query := strings.TrimPrefix(raw, "?")
	if hasScheme(raw) || strings.HasPrefix(raw, "/") {
		u, err := url.Parse(raw)
		if err != nil {
			return nil, &LaunchError{Source: "url", Value: raw, Err: err}
		}
		query = u.RawQuery
	}

	values, err := url.ParseQuery(query)
	if err != nil {
		return nil, &LaunchError{Source: "url", Value: raw, Err: err}
	}

	params := make(LaunchParams, len(values))
	for key, vals := range values {
		if len(vals) > 0 {
			params[key] = vals[0]
		}
	}
	return params, nil
}

var schemePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*://`)

// hasScheme reports whether raw starts like an absolute URL. A bare query
// may carry unescaped URLs in its values, so "://" anywhere else does not count.
func hasScheme(raw string) bool {
	return schemePattern.MatchString(raw)
}

// ParseParamFlags reads repeated key=value pairs.
func ParseParamFlags(pairs []string) (LaunchParams, error) {
	params := make(LaunchParams, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, &LaunchError{Source: "param", Value: pair, Err: fmt.Errorf("expected key=value")}
		}
		params[key] = value
	}
	return params, nil
}

// launchFile is the TOML shape of a launch file
type launchFile struct {
	BusinessID string `toml:"businessId"`
	APIBaseURL string `toml:"apiBaseUrl"`
}

// LoadLaunchFile reads launch parameters from a TOML file, expanding
// ${VAR} references from the environment.
func LoadLaunchFile(path string) (LaunchParams, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LaunchError{Source: "file", Value: path, Err: err}
	}

	var lf launchFile
	if _, err := toml.Decode(expandEnvVars(string(data)), &lf); err != nil {
		return nil, &LaunchError{Source: "file", Value: path, Err: err}
	}

	params := LaunchParams{}
	if lf.BusinessID != "" {
		params[ParamBusinessID] = lf.BusinessID
	}
	if lf.APIBaseURL != "" {
		params[ParamAPIBaseURL] = lf.APIBaseURL
	}
	return params, nil
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR} with environment variable values.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		return os.Getenv(varName)
	})
}

// Config is the resolved widget configuration. It is built once by
// ResolveConfig and never re-read.
type Config struct {
	BusinessID string `json:"businessId" yaml:"businessId"`
	APIBaseURL string `json:"apiBaseUrl" yaml:"apiBaseUrl"`
}

// ResolveConfig applies defaults to each field independently. It never fails.
func ResolveConfig(params LaunchParams) Config {
	cfg := Config{
		BusinessID: params.Get(ParamBusinessID),
		APIBaseURL: params.Get(ParamAPIBaseURL),
	}
	if cfg.BusinessID == "" {
		LogDebug("launch parameter %s absent, using %s", ParamBusinessID, DefaultBusinessID)
		cfg.BusinessID = DefaultBusinessID
	}
	if cfg.APIBaseURL == "" {
		LogDebug("launch parameter %s absent, using %s", ParamAPIBaseURL, DefaultAPIBaseURL)
		cfg.APIBaseURL = DefaultAPIBaseURL
	}
	return cfg
}

// Valid reports whether both fields are set.
func (c Config) Valid() bool {
	return c.BusinessID != "" && c.APIBaseURL != ""
}

// Endpoint returns the chat endpoint scoped to the business.
func (c Config) Endpoint() string {
	return c.APIBaseURL + "/chat/" + url.PathEscape(c.BusinessID)
}
