package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"
)

// writeOutput renders v as YAML when --format yaml is set and calls text
// otherwise.
func writeOutput(w io.Writer, v any, text func()) error {
	switch format := strings.ToLower(viper.GetString("format")); format {
	case "", "text":
		text()
		return nil
	case "yaml":
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshaling output: %w", err)
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unknown output format %q (want text or yaml)", format)
	}
}

// printNumbered prints a titled, numbered list of names.
func printNumbered(w io.Writer, title string, names []string) {
	if len(names) == 0 {
		fmt.Fprintf(w, "No %s found.\n", strings.ToLower(title))
		return
	}
	fmt.Fprintf(w, "\n%s (%d files):\n", title, len(names))
	for i, name := range names {
		fmt.Fprintf(w, "%2d. %s\n", i+1, name)
	}
}

func yamlOutput() bool {
	return strings.EqualFold(viper.GetString("format"), "yaml")
}

// noticeWriter is where progress lines, prompts and notices go: stdout for
// text output, stderr when stdout carries YAML.
func noticeWriter(cmd *cobra.Command) io.Writer {
	if yamlOutput() {
		return cmd.ErrOrStderr()
	}
	return cmd.OutOrStdout()
}
