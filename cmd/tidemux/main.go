package main

import (
	"os"

	"github.com/arloliu/tidemux/internal/cli"
)

func main() {
	root := cli.NewRootCommand()
	if err := root.Execute(); err != nil {
		format, _ := root.PersistentFlags().GetString("format")
		cli.WriteError(root.ErrOrStderr(), format, err)
		os.Exit(cli.GetExitCode(err))
	}
}
