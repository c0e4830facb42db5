package lang

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestCombinatorProgram runs a complete SK-calculus program covering
// Barendregt numerals, Y-combinator recursion, and lists, and compares its
// output line for line.
func TestCombinatorProgram(t *testing.T) {
	if testing.Short() {
		t.Skip("combinator program is slow")
	}

	source, err := os.ReadFile("testdata/sk.sk")
	require.NoError(t, err)

	want, err := os.ReadFile("testdata/sk.out")
	require.NoError(t, err)

	prog, err := ParseString(context.Background(), string(source))
	require.NoError(t, err)

	var got strings.Builder

	err = Interpret(context.Background(), prog, WithOutput(func(v Value) {
		got.WriteString(Display(v))
		got.WriteByte('\n')
	}))
	require.NoError(t, err)

	require.Equal(t, string(want), got.String())
}

func BenchmarkCombinatorProgram(b *testing.B) {
	source, err := os.ReadFile("testdata/sk.sk")
	require.NoError(b, err)

	prog, err := ParseString(context.Background(), string(source))
	require.NoError(b, err)

	discard := WithOutput(func(Value) {})

	for b.Loop() {
		if err := Interpret(context.Background(), prog, discard); err != nil {
			b.Fatal(err)
		}
	}
}
