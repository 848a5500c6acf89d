// Command mealquery runs the catalog pipeline against a meal feed or fixture
// file from the command line.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
