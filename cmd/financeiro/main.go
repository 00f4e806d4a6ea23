package main

import "github.com/Wellerson-M/controle-financeiro/internal/cli"

func main() {
	cli.Execute()
}
