package main

import (
	"fmt"
	"log"
	"os"

	"github.com/dimitrije/projectboard/internal/services"
)

func main() {
	format := "yaml"
	if len(os.Args) > 1 {
		format = os.Args[1]
	}

	docs := services.NewAPIDocService(os.Getenv("APP_VERSION"))

	var (
		out []byte
		err error
	)
	switch format {
	case "yaml":
		out, err = docs.YAML()
	case "json":
		out, err = docs.JSON()
	default:
		fmt.Println("Usage: openapi [yaml|json]")
		os.Exit(1)
	}
	if err != nil {
		log.Fatalf("Failed to render API description: %v", err)
	}

	if _, err := os.Stdout.Write(out); err != nil {
		log.Fatalf("Failed to write API description: %v", err)
	}
}
