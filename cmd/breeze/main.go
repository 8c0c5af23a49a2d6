// Command breeze renders, inspects and serves scene documents.
package main

import (
	"fmt"
	"os"

	"github.com/go-breeze/breeze/cmd/breeze/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
