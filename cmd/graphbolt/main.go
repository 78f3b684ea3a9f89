package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mickamy/graphbolt"
	"github.com/mickamy/graphbolt/bolt"
)

var version = "dev"

func main() {
	fs := flag.NewFlagSet("graphbolt", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "graphbolt — run a query against a Bolt endpoint\n\nUsage:\n  graphbolt [flags] <query>\n\nFlags:\n")
		fs.PrintDefaults()
	}

	host := fs.String("host", "localhost", "server host")
	port := fs.Int("port", graphbolt.DefaultPort, "server port")
	user := fs.String("user", "", "principal for basic auth (empty for no auth)")
	password := fs.String("password", "", "credentials for basic auth")
	db := fs.String("db", "", "database to run against")
	fetch := fs.Int("fetch", graphbolt.DefaultFetchSize, "records per PULL")
	timeout := fs.Duration("timeout", 30*time.Second, "query timeout")
	verbose := fs.Bool("verbose", false, "trace protocol messages")
	showVersion := fs.Bool("version", false, "show version and exit")

	_ = fs.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("graphbolt %s\n", version)
		return
	}
	if fs.NArg() < 1 {
		fs.Usage()
		os.Exit(1)
	}

	cfg := graphbolt.Config{
		Host:      *host,
		Port:      *port,
		User:      *user,
		Password:  *password,
		DB:        *db,
		FetchSize: *fetch,
	}
	if *verbose {
		cfg.Logger = bolt.StdLogger{L: log.New(os.Stderr, "graphbolt ", log.LstdFlags)}
	}

	if err := run(cfg, strings.Join(fs.Args(), " "), *timeout); err != nil {
		log.Fatal(err)
	}
}

func run(cfg graphbolt.Config, query string, timeout time.Duration) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	d, err := graphbolt.Open(cfg)
	if err != nil {
		return err
	}
	defer d.Close()

	stream, err := d.Execute(ctx, query, nil)
	if err != nil {
		return err
	}
	defer func() { _, _ = stream.Close(context.Background()) }()

	fmt.Println(strings.Join(stream.Fields(), "\t"))
	count := 0
	for row, err := range stream.Rows(ctx) {
		if err != nil {
			return err
		}
		cells := make([]string, len(row.Values()))
		for i, v := range row.Values() {
			native, err := bolt.Materialize(v)
			if err != nil {
				return err
			}
			cells[i] = fmt.Sprint(native)
		}
		fmt.Println(strings.Join(cells, "\t"))
		count++
	}

	if summary := stream.Summary(); summary != nil {
		if t, ok := summary.QueryType(); ok {
			fmt.Fprintf(os.Stderr, "%d rows (type %s)\n", count, t)
			return nil
		}
	}
	fmt.Fprintf(os.Stderr, "%d rows\n", count)
	return nil
}
