package main

import (
	"github.com/daoforge/daoforge/cmd"
)

func main() {
	cmd.Execute()
}
