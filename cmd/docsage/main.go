package main

import (
	"os"

	"github.com/docsage/docsage-cli/internal/adapters/driving/cli"
)

// version is injected at build time:
//
//	go build -ldflags "-X main.version=v1.2.3" ./cmd/docsage
var version = "dev"

func main() {
	cli.SetVersion(version)
	os.Exit(cli.Execute())
}
