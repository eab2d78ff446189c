// Command schema writes the JSON schema of the trendscope configuration.
// Pass an output path, or "-" to print to stdout.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/trendscope/pkg/config"
)

func main() {
	outputPath := "schema.json"
	if len(os.Args) > 1 {
		outputPath = os.Args[1]
	}

	if err := run(outputPath, os.Stdout); err != nil {
		lgr.Fatalf("[ERROR] %v", err)
	}
}

func run(outputPath string, stdout io.Writer) error {
	data, err := json.MarshalIndent(config.GenerateSchema(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	if outputPath == "-" {
		_, err = fmt.Fprintln(stdout, string(data))
		return err
	}

	if err := os.WriteFile(outputPath, data, 0o600); err != nil { //nolint:gosec // schema file is not sensitive
		return fmt.Errorf("write schema file: %w", err)
	}
	fmt.Fprintf(stdout, "schema generated at %s\n", outputPath)
	return nil
}
