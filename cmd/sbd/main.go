package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"sbd/internal/di"
	"sbd/internal/structures"
)

func main() {
	configPath := flag.String("config", "./sbd.yaml", "path to config file")
	debug := flag.Bool("debug", false, "enable debug mode (console logging)")
	flag.Parse()

	// Optional .env next to the binary; real env always wins.
	_ = godotenv.Load()

	flags := &structures.CliFlags{
		ConfigPath: *configPath,
		DebugMode:  *debug,
	}

	if _, err := di.InitApp(flags); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
