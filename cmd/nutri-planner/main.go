package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"nutri-meal-planner/internal/app"
	"nutri-meal-planner/internal/config"
)

func main() {
	ctx := context.Background()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.NewClientFromEnv()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.ConfigureLogger(); err != nil {
		logrus.Fatalf("Failed to configure logger: %v", err)
	}

	if os.Args[1] == "health" {
		printHealth(cfg)
		return
	}

	application, err := app.Bootstrap(ctx, cfg)
	if err != nil {
		logrus.Fatalf("Failed to initialize application: %v", err)
	}
	defer application.Close()

	if os.Args[1] == "shell" {
		if err := runShell(ctx, application, os.Stdin, os.Stdout); err != nil {
			application.Close()
			logrus.Fatalf("shell failed: %v", err)
		}
		return
	}

	cmd, ok := commands[os.Args[1]]
	if !ok {
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
	if err := cmd.run(ctx, application, os.Args[2:]); err != nil {
		application.Close()
		logrus.Fatalf("%s failed: %v", os.Args[1], err)
	}
}

func printUsage() {
	fmt.Println("Usage: nutri-planner <command> [arguments]")
	fmt.Println("\nCommands:")
	for _, name := range commandOrder {
		fmt.Printf("  %-18s %s\n", name, commands[name].help)
	}
	fmt.Printf("  %-18s %s\n", "shell", "Run commands interactively in one session")
	fmt.Printf("  %-18s %s\n", "health", "Show process and data directory health")
}
