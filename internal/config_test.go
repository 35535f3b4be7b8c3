package internal

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iksnae/chat-widget/testutil"
)

func TestResolveConfig(t *testing.T) {
	tests := []struct {
		name   string
		params LaunchParams
		want   Config
	}{
		{
			name:   "no parameters",
			params: nil,
			want:   Config{BusinessID: "demo-business", APIBaseURL: "http://127.0.0.1:8000/api"},
		},
		{
			name:   "business only",
			params: LaunchParams{"businessId": "acme"},
			want:   Config{BusinessID: "acme", APIBaseURL: "http://127.0.0.1:8000/api"},
		},
		{
			name:   "api only",
			params: LaunchParams{"apiBaseUrl": "https://api.example.com"},
			want:   Config{BusinessID: "demo-business", APIBaseURL: "https://api.example.com"},
		},
		{
			name:   "both set",
			params: LaunchParams{"businessId": "acme", "apiBaseUrl": "https://api.example.com"},
			want:   Config{BusinessID: "acme", APIBaseURL: "https://api.example.com"},
		},
		{
			name:   "empty values fall back",
			params: LaunchParams{"businessId": "", "apiBaseUrl": "   "},
			want:   Config{BusinessID: "demo-business", APIBaseURL: "http://127.0.0.1:8000/api"},
		},
		{
			name:   "unrelated keys ignored",
			params: LaunchParams{"theme": "dark"},
			want:   Config{BusinessID: "demo-business", APIBaseURL: "http://127.0.0.1:8000/api"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveConfig(tt.params)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.Valid())
		})
	}
}

func TestConfig_Endpoint(t *testing.T) {
	cfg := Config{BusinessID: "demo-business", APIBaseURL: "http://127.0.0.1:8000/api"}
	assert.Equal(t, "http://127.0.0.1:8000/api/chat/demo-business", cfg.Endpoint())

	cfg = Config{BusinessID: "a b/c", APIBaseURL: "https://x"}
	assert.Equal(t, "https://x/chat/a%20b%2Fc", cfg.Endpoint())
}

func TestParseLaunchURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    LaunchParams
		wantErr bool
	}{
		{
			name: "empty",
			raw:  "",
			want: LaunchParams{},
		},
		{
			name: "full page url",
			raw:  "https://shop.example.com/widget?businessId=acme&apiBaseUrl=https%3A%2F%2Fapi.example.com",
			want: LaunchParams{"businessId": "acme", "apiBaseUrl": "https://api.example.com"},
		},
		{
			name: "query only with leading question mark",
			raw:  "?businessId=acme",
			want: LaunchParams{"businessId": "acme"},
		},
		{
			name: "bare query",
			raw:  "businessId=acme",
			want: LaunchParams{"businessId": "acme"},
		},
		{
			name: "repeated key keeps first",
			raw:  "?businessId=first&businessId=second",
			want: LaunchParams{"businessId": "first"},
		},
		{
			name: "bare query with unescaped url value",
			raw:  "businessId=acme&apiBaseUrl=http://127.0.0.1:9000/api",
			want: LaunchParams{"businessId": "acme", "apiBaseUrl": "http://127.0.0.1:9000/api"},
		},
		{
			name: "bare query with question mark in value",
			raw:  "businessId=a?b",
			want: LaunchParams{"businessId": "a?b"},
		},
		{
			name: "path with query",
			raw:  "/widget?businessId=acme",
			want: LaunchParams{"businessId": "acme"},
		},
		{
			name:    "malformed query",
			raw:     "?businessId=%zz",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLaunchURL(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				var launchErr *LaunchError
				assert.True(t, errors.As(err, &launchErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseParamFlags(t *testing.T) {
	got, err := ParseParamFlags([]string{"businessId=acme", "apiBaseUrl=http://h/api?x=1"})
	require.NoError(t, err)
	assert.Equal(t, LaunchParams{"businessId": "acme", "apiBaseUrl": "http://h/api?x=1"}, got)

	_, err = ParseParamFlags([]string{"businessId"})
	require.Error(t, err)

	_, err = ParseParamFlags([]string{"=acme"})
	require.Error(t, err)
}

func TestLaunchParams_Merge(t *testing.T) {
	base := LaunchParams{"businessId": "file-biz", "apiBaseUrl": "http://file/api"}
	merged := base.Merge(LaunchParams{"businessId": "url-biz", "apiBaseUrl": ""})

	assert.Equal(t, "url-biz", merged.Get(ParamBusinessID))
	assert.Equal(t, "http://file/api", merged.Get(ParamAPIBaseURL))
	assert.Equal(t, "file-biz", base.Get(ParamBusinessID), "merge must not modify the receiver")
}

func TestLoadLaunchFile(t *testing.T) {
	t.Setenv("WIDGET_API_HOST", "api.example.com")
	path := testutil.WriteLaunchFile(t, `
businessId = "acme"
apiBaseUrl = "https://${WIDGET_API_HOST}/api"
`)

	params, err := LoadLaunchFile(path)
	require.NoError(t, err)
	assert.Equal(t, "acme", params.Get(ParamBusinessID))
	assert.Equal(t, "https://api.example.com/api", params.Get(ParamAPIBaseURL))
}

func TestLoadLaunchFile_Errors(t *testing.T) {
	_, err := LoadLaunchFile("/nonexistent/widget.toml")
	require.Error(t, err)
	var launchErr *LaunchError
	require.True(t, errors.As(err, &launchErr))
	assert.Equal(t, "file", launchErr.Source)

	path := testutil.WriteLaunchFile(t, `businessId = `)
	_, err = LoadLaunchFile(path)
	require.Error(t, err)
}
