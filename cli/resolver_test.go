package cli

import (
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mockFlag(name string) *kong.Flag {
	return &kong.Flag{Value: &kong.Value{Name: name}}
}

func TestResolve_ReadsNamedSection(t *testing.T) {
	const doc = `
config:
  log_level: debug
  log-format: json
  max-depth: 4096
  ratio: 0.5
  log-pretty: false
other:
  log-level: error
`
	resolver, err := resolve("config")(strings.NewReader(doc))
	require.NoError(t, err)
	require.NoError(t, resolver.Validate(nil))

	tests := []struct {
		flag string
		want any
	}{
		{"log-level", "debug"},
		{"log-format", "json"},
		{"max-depth", "4096"},
		{"ratio", "0.5"},
		{"log-pretty", false},
		{"missing", nil},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			got, err := resolver.Resolve(nil, nil, mockFlag(tt.flag))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_EmptyOnMissingSection(t *testing.T) {
	resolver, err := resolve("config")(strings.NewReader("other:\n  a: 1\n"))
	require.NoError(t, err)

	got, err := resolver.Resolve(nil, nil, mockFlag("a"))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestResolve_EmptyOnMalformedFile(t *testing.T) {
	for name, doc := range map[string]string{
		"empty":     "",
		"malformed": "config: [unclosed",
		"scalar":    "config: 3",
	} {
		t.Run(name, func(t *testing.T) {
			resolver, err := resolve("config")(strings.NewReader(doc))
			require.NoError(t, err)
			assert.Empty(t, resolver)
		})
	}
}

func TestFlagValue_Lists(t *testing.T) {
	got := flagValue([]any{uint64(1), "a", true})
	assert.Equal(t, []any{"1", "a", true}, got)
}
