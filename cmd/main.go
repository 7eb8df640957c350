package main

import (
	"fmt"
	"os"

	"github.com/ncobase/keyset/cmd/commands"
	_ "github.com/ncobase/keyset/data/all"
)

func main() {
	rootCmd := commands.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
