// schema writes the JSON schema of newsdeck configuration, used by go:generate in pkg/config
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/umputun/newsdeck/pkg/config"
)

func main() {
	schema, err := config.GenerateSchema()
	if err != nil {
		log.Fatalf("failed to generate schema: %v", err)
	}

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		log.Fatalf("failed to marshal schema: %v", err)
	}

	outputPath := "schema.json"
	if len(os.Args) > 1 {
		outputPath = os.Args[1]
	}

	if err := os.WriteFile(outputPath, append(data, '\n'), 0o600); err != nil {
		log.Fatalf("failed to write schema file %s: %v", outputPath, err)
	}

	fmt.Printf("schema written to %s\n", outputPath)
}
