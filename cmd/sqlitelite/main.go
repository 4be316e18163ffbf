// Command sqlitelite is the thin CLI wrapper: read a
// database path and a command string, hand them to the engine, and format
// whatever rows come back. It is deliberately not where the interesting
// work happens.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/relnoir/sqlitelite/internal/engine"
	"github.com/relnoir/sqlitelite/internal/record"
)

func main() {
	debug := flag.Bool("debug", false, "emit debug diagnostics to stderr")
	flag.Parse()

	args := flag.Args()
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: sqlitelite <database-path> <command-string>")
		os.Exit(1)
	}
	databasePath, command := args[0], args[1]

	var opts []engine.Option
	if *debug {
		logger := logrus.New()
		logger.SetLevel(logrus.DebugLevel)
		opts = append(opts, engine.WithDebugLog(logger))
	}

	e, err := engine.Open(databasePath, opts...)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer e.Close()

	if err := run(e, command); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(e *engine.Engine, command string) error {
	switch strings.TrimSpace(command) {
	case ".dbinfo":
		fmt.Printf("database page size|%d\n", e.PageSize())
		fmt.Printf("number of tables|%d\n", e.TableCount())
		return nil
	case ".tables":
		fmt.Println(strings.Join(e.TableNames(), " "))
		return nil
	default:
		rows, err := e.Query(command)
		if err != nil {
			return err
		}
		for _, row := range rows {
			fmt.Println(renderRow(row))
		}
		return nil
	}
}

func renderRow(row []record.Value) string {
	parts := make([]string, len(row))
	for i, v := range row {
		parts[i] = v.String()
	}
	return strings.Join(parts, "|")
}
