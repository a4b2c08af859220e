package main

import (
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v2"

	"github.com/masmgr/graphlog-go/cmd"
)

func main() {
	app := cmd.App()
	if err := app.Run(expandShorthand(app, os.Args)); err != nil {
		log.Fatal(err)
	}
}

// expandShorthand rewrites `graphlog <repo> [flags]` into
// `graphlog log --repo <repo> [flags]`.
func expandShorthand(app *cli.App, args []string) []string {
	if len(args) < 2 {
		return args
	}
	first := args[1]
	if strings.HasPrefix(first, "-") || first == "help" || app.Command(first) != nil {
		return args
	}
	expanded := []string{args[0], "log", "--repo", first}
	return append(expanded, args[2:]...)
}
