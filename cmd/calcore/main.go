// Command calcore is a small CLI over the cal package: it tokenizes,
// parses, and reports diagnostics for C/AL object source files.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
