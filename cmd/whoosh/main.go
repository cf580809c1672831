// Command whoosh is a minimal interactive and batch shell.
package main

import (
	"os"

	"github.com/rcarmo/go-whoosh/pkg/applets/whoosh"
	"github.com/rcarmo/go-whoosh/pkg/core"
)

func main() {
	stdio := core.DefaultStdio()
	os.Exit(whoosh.Run(stdio, os.Args[1:]))
}
