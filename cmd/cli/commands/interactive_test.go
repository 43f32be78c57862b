package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommandLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected []string
		wantErr  bool
	}{
		{"simple", "generate --through vacations", []string{"generate", "--through", "vacations"}, false},
		{"extra whitespace", "  check   out.csv ", []string{"check", "out.csv"}, false},
		{"double quotes", `check "my schedule.csv"`, []string{"check", "my schedule.csv"}, false},
		{"single quotes", `generate -o 'final run.csv'`, []string{"generate", "-o", "final run.csv"}, false},
		{"quote inside other quote", `check "it's.csv"`, []string{"check", "it's.csv"}, false},
		{"empty", "", nil, false},
		{"unclosed quote", `check "out.csv`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args, err := parseCommandLine(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, args)
		})
	}
}

func TestRunSession(t *testing.T) {
	var calls []string
	echo := &cobra.Command{
		Use:   "echo <word>",
		Short: "Echo a word",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loud, _ := cmd.Flags().GetBool("loud")
			word := args[0]
			if loud {
				word = strings.ToUpper(word)
			}
			calls = append(calls, word)
			return nil
		},
	}
	echo.Flags().Bool("loud", false, "Shout")

	input := strings.Join([]string{
		"echo hello --loud",
		"echo 'quiet again'",
		"echo",
		"unknown",
		"help",
		"exit",
		"echo never",
	}, "\n")

	var out bytes.Buffer
	err := runSession(strings.NewReader(input), &out, map[string]*cobra.Command{"echo": echo})
	require.NoError(t, err)

	// Flags reset between runs
	assert.Equal(t, []string{"HELLO", "quiet again"}, calls)

	output := out.String()
	assert.Contains(t, output, "✗ Error: accepts 1 arg(s), received 0")
	assert.Contains(t, output, "Unknown command: unknown")
	assert.Contains(t, output, "echo <word>")
	assert.Contains(t, output, "Goodbye!")
}

func TestSiblingCommands(t *testing.T) {
	root := &cobra.Command{Use: "scheduler"}
	interactive := InteractiveCmd(&AppContext{})
	root.AddCommand(interactive, &cobra.Command{Use: "generate"}, &cobra.Command{Use: "check"})

	commands := siblingCommands(interactive)

	assert.Len(t, commands, 2)
	assert.Contains(t, commands, "generate")
	assert.Contains(t, commands, "check")
}
