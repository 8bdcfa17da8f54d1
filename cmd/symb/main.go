package main

import (
	"os"
	"path/filepath"

	"github.com/njchilds90/gosymbolic/cmd/symb/commands"
	"github.com/tendermint/tendermint/libs/cli"
)

func main() {
	commands.RootCmd.AddCommand(
		commands.NewSimplifyCmd(),
		commands.NewDiffCmd(),
		commands.NewEvalCmd(),
		commands.NewLatexCmd(),
		commands.NewJSONCmd(),
		commands.NewCompileCmd(),
		commands.VersionCmd,
	)

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	executor := cli.PrepareBaseCmd(commands.RootCmd, "SYMB", filepath.Join(home, ".symb"))
	if err := executor.Execute(); err != nil {
		os.Exit(1)
	}
}
