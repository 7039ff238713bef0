package main

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// outputJSON writes v as indented JSON to stdout.
func outputJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		FatalError("encoding JSON: %v", err)
	}
}

// outputYAML writes v as YAML to stdout.
func outputYAML(v any) {
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		FatalError("encoding YAML: %v", err)
	}
	_ = enc.Close()
}

// outputResult writes v in the machine format selected by flags.
// Returns false when no machine format is active, so the caller should
// render human output instead.
func outputResult(v any) bool {
	switch {
	case formatFlag == "yaml":
		outputYAML(v)
		return true
	case jsonOutput:
		outputJSON(v)
		return true
	}
	return false
}

// FatalError prints an error and exits. In JSON mode the error goes to
// stdout as a JSON object so scripted callers can parse failures too.
func FatalError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if jsonOutput {
		outputJSON(map[string]string{"error": msg})
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
	}
	os.Exit(1)
}

// warning prints a non-fatal notice to stderr.
func warning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
}
