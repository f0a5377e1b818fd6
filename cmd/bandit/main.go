// Command bandit trains contextual bandit agents from JSON experiment
// configurations and plots the resulting learning curves
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
