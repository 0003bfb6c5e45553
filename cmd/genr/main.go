package main

import (
	"flag"
	"fmt"
	"os"

	genr "github.com/vaibhaw-/TriagR/internal/genr"
)

func main() {
	if len(os.Args) < 2 {
		printHelp()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "gen":
		genCmd := flag.NewFlagSet("gen", flag.ExitOnError)
		configPath := genCmd.String("config", "", "Path to config file")
		genCmd.Parse(os.Args[2:])
		if *configPath == "" {
			fmt.Println("Error: --config is required for 'gen'")
			genCmd.Usage()
			os.Exit(1)
		}
		genr.Generate(configPath)

	case "sample":
		fmt.Print(genr.SampleConfig)

	case "help", "--help", "-h":
		printHelp()
	default:
		fmt.Printf("Unknown subcommand: %s\n\n", os.Args[1])
		printHelp()
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println(`Usage: genr <subcommand> [flags]`)
	fmt.Println()
	fmt.Println("Subcommands:")
	fmt.Println("  gen     --config <path>   Generate a synthetic audit export")
	fmt.Println("  sample                    Print a sample config to stdout")
	fmt.Println("  help                      Show this help message")
}
