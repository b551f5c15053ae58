package main

import "github.com/urfave/cli/v2"

const (
	flagDir    = "dir"
	flagEmail  = "email"
	flagID     = "id"
	flagName   = "name"
	flagOutput = "output"
	flagPage   = "page"
	flagQuery  = "query"
	flagRole   = "role"
	flagServer = "server"
	flagSort   = "sort"
	flagYes    = "yes"
)

var cliFlagOutput = &cli.StringFlag{
	Name:    flagOutput,
	Aliases: []string{"o"},
	Usage:   "Return output in the specified format; supported formats: table, json, yaml",
	Value:   "table",
}
