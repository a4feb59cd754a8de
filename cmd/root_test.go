package cmd

import (
	"strings"
	"testing"
)

func TestRootCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
		wantOut string
	}{
		{
			name:    "version flag",
			args:    []string{"--version"},
			wantOut: "dev",
		},
		{
			name:    "help flag",
			args:    []string{"--help"},
			wantOut: "secpipe",
		},
		{
			name:    "unknown command",
			args:    []string{"explode"},
			wantErr: true,
		},
		{
			name:    "bad log format",
			args:    []string{"vocab", "--log-format", "xml"},
			wantErr: true,
		},
		{
			name:    "json log format",
			args:    []string{"vocab", "--log-format", "json"},
			wantOut: "critical",
		},
		{
			name:    "missing config file",
			args:    []string{"vocab", "--config", "does-not-exist.yaml"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := executeCommand(t, tt.args...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Execute(%v) error = %v, wantErr %v\n%s", tt.args, err, tt.wantErr, out)
			}
			if tt.wantOut != "" && !strings.Contains(out, tt.wantOut) {
				t.Errorf("output missing %q:\n%s", tt.wantOut, out)
			}
		})
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	want := map[string]bool{"run": false, "inspect": false, "check": false, "vocab": false}
	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q is not registered", name)
		}
	}
}
