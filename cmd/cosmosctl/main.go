package main

import (
	"os"

	"github.com/hashicorp-forge/cosmosrest/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}
