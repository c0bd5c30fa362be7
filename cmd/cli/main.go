// recdiff - key-based record reconciliation tool
//
// recdiff compares two large record-oriented text files (delimited or
// fixed-width) by key and reports exclusive records, field-level
// differences, and aggregate statistics.
package main

import (
	"os"

	_ "github.com/joho/godotenv/autoload"

	"recdiff/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
