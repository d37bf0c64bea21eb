package cmd

import "fmt"

// version is overridden at build time via -ldflags
// "-X github.com/Smattr/execfs/cmd.version=...".
var version = "dev"

func printVersion() {
	fmt.Printf("execfs version %s\n", version)
}
