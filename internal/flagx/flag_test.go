package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "separate value",
			args:    []string{"-a", "http://api.local", "-x", "1"},
			allowed: []string{"-a"},
			want:    []string{"-a", "http://api.local"},
		},
		{
			name:    "equals form",
			args:    []string{"-d=session.db", "-a", "http://api.local"},
			allowed: []string{"-d"},
			want:    []string{"-d=session.db"},
		},
		{
			name:    "unknown flags dropped",
			args:    []string{"--verbose", "positional", "-q=1"},
			allowed: []string{"-a", "-d"},
			want:    []string{},
		},
		{
			name:    "trailing flag without value",
			args:    []string{"-t"},
			allowed: []string{"-t"},
			want:    []string{"-t"},
		},
		{
			name:    "next token is a flag, not a value",
			args:    []string{"-c", "-a", "http://api.local"},
			allowed: []string{"-c"},
			want:    []string{"-c"},
		},
		{
			name:    "order preserved across several allowed flags",
			args:    []string{"-i", "30", "-l", "debug", "-z", "x", "-a", "http://h"},
			allowed: []string{"-a", "-i", "-l"},
			want:    []string{"-i", "30", "-l", "debug", "-a", "http://h"},
		},
		{
			name:    "nil args",
			args:    nil,
			allowed: []string{"-a"},
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestConfigFileFlag(t *testing.T) {
	orig := os.Args
	t.Cleanup(func() { os.Args = orig })

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "short", args: []string{"bin", "-c", "cli.yaml"}, want: "cli.yaml"},
		{name: "long with equals", args: []string{"bin", "-config=cli.json", "-a", "x"}, want: "cli.json"},
		{name: "absent", args: []string{"bin", "-a", "x"}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			assert.Equal(t, tt.want, ConfigFileFlag())
		})
	}
}
