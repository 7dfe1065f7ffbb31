package main

import (
	"fmt"
	"os"
)

const version = "0.1.0"

func main() {
	if err := Execute(version); err != nil {
		fmt.Fprintf(os.Stderr, "ct: %v\n", err)
		os.Exit(1)
	}
}
