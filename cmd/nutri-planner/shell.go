package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"nutri-meal-planner/internal/app"
)

const shellPrompt = "nutri> "

// runShell runs one command per input line against a single App, so
// recommendations from generate-meals stay available to select, favorites
// and shopping-list for the rest of the session.
func runShell(ctx context.Context, a *app.App, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprint(out, shellPrompt)
	for scanner.Scan() {
		args, err := splitArgs(scanner.Text())
		switch {
		case err != nil:
			fmt.Fprintf(out, "error: %v\n", err)
		case len(args) == 0:
		case args[0] == "exit" || args[0] == "quit":
			return nil
		case args[0] == "help":
			printUsage()
		default:
			cmd, ok := commands[args[0]]
			if !ok {
				fmt.Fprintf(out, "Unknown command: %s\n", args[0])
				break
			}
			if err := cmd.run(ctx, a, args[1:]); err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
			}
		}
		fmt.Fprint(out, shellPrompt)
	}
	return scanner.Err()
}

// splitArgs splits a line on whitespace. Double quotes group words.
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		inArg   bool
		inQuote bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
			inArg = true
		case unicode.IsSpace(r) && !inQuote:
			if inArg {
				args = append(args, cur.String())
				cur.Reset()
				inArg = false
			}
		default:
			cur.WriteRune(r)
			inArg = true
		}
	}
	if inQuote {
		return nil, errors.New("unterminated quote")
	}
	if inArg {
		args = append(args, cur.String())
	}
	return args, nil
}
