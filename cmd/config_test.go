package cmd

import (
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/iksnae/chat-widget/testutil"
)

func TestConfigCommand(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		wantBiz      string
		wantEndpoint string
	}{
		{
			name:         "defaults",
			args:         nil,
			wantBiz:      "demo-business",
			wantEndpoint: "http://127.0.0.1:8000/api/chat/demo-business",
		},
		{
			name:         "params",
			args:         []string{"--param", "businessId=acme", "--param", "apiBaseUrl=https://api.example.com"},
			wantBiz:      "acme",
			wantEndpoint: "https://api.example.com/chat/acme",
		},
		{
			name:         "launch url",
			args:         []string{"--launch-url", "https://shop.example.com/?businessId=shop&apiBaseUrl=https%3A%2F%2Fx%2Fapi"},
			wantBiz:      "shop",
			wantEndpoint: "https://x/api/chat/shop",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"config", "--output", "json"}, tt.args...)
			out, err := executeCommand(t, nil, args...)
			if err != nil {
				t.Fatalf("config error = %v", err)
			}

			var report configReport
			testutil.JSONUnmarshal(t, []byte(out), &report)
			if report.BusinessID != tt.wantBiz {
				t.Errorf("businessId = %q, want %q", report.BusinessID, tt.wantBiz)
			}
			if report.Endpoint != tt.wantEndpoint {
				t.Errorf("endpoint = %q, want %q", report.Endpoint, tt.wantEndpoint)
			}
		})
	}
}

func TestConfigCommand_LaunchFile(t *testing.T) {
	path := testutil.WriteLaunchFile(t, "businessId = \"toml-biz\"\n")

	out, err := executeCommand(t, nil, "config", "--launch-file", path, "--output", "yaml")
	if err != nil {
		t.Fatalf("config error = %v", err)
	}

	var report configReport
	if err := yaml.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, out)
	}
	if report.BusinessID != "toml-biz" {
		t.Errorf("businessId = %q, want toml-biz", report.BusinessID)
	}
}

func TestConfigCommand_Text(t *testing.T) {
	out, err := executeCommand(t, nil, "config")
	if err != nil {
		t.Fatalf("config error = %v", err)
	}
	for _, want := range []string{"Business:", "demo-business", "(default)", "Endpoint:", "/chat/demo-business"} {
		if !strings.Contains(out, want) {
			t.Errorf("output should contain %q, got:\n%s", want, out)
		}
	}
}

func TestConfigCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "unsupported output", args: []string{"config", "--output", "xml"}},
		{name: "missing launch file", args: []string{"config", "--launch-file", "/nonexistent/widget.toml"}},
		{name: "malformed launch url", args: []string{"config", "--launch-url", "?businessId=%zz"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := executeCommand(t, nil, tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestConfigReport_JSONKeys(t *testing.T) {
	data, err := json.Marshal(configReport{BusinessID: "a", APIBaseURL: "b", Endpoint: "c"})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"businessId":"a","apiBaseUrl":"b","endpoint":"c"}` {
		t.Errorf("json = %s", data)
	}
}
