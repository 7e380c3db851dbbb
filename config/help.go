package config

import "fmt"

const HelpMessage = `
citysim — discrete-event simulation of an on-demand ride-hailing fleet.

Usage:
  citysim run <replications> <output_folder> [flags]
  citysim schedule <output_file> [flags]
  citysim validate <input_folder> [flags]

Run 'citysim <command> --help' for flags specific to a command.
`

func PrintHelp() {
	fmt.Print(HelpMessage)
}
