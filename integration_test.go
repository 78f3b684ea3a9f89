package graphbolt_test

import (
	"context"
	"net/url"
	"strconv"
	"testing"

	"github.com/testcontainers/testcontainers-go/modules/neo4j"

	"github.com/mickamy/graphbolt"
)

const integrationPassword = "integration-pass"

// startNeo4j launches a Neo4j container and returns its Bolt host and port.
func startNeo4j(t *testing.T) (string, int) {
	t.Helper()

	ctx := t.Context()
	ctr, err := neo4j.Run(ctx, "neo4j:5",
		neo4j.WithAdminPassword(integrationPassword),
	)
	if err != nil {
		t.Fatalf("start neo4j container: %v", err)
	}
	t.Cleanup(func() {
		if err := ctr.Terminate(context.Background()); err != nil {
			t.Logf("terminate neo4j container: %v", err)
		}
	})

	boltURL, err := ctr.BoltUrl(ctx)
	if err != nil {
		t.Fatalf("bolt url: %v", err)
	}
	u, err := url.Parse(boltURL)
	if err != nil {
		t.Fatalf("parse bolt url %q: %v", boltURL, err)
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil {
		t.Fatalf("parse port %q: %v", u.Port(), err)
	}
	return u.Hostname(), port
}

func openIntegrationDriver(t *testing.T) *graphbolt.Driver {
	t.Helper()
	host, port := startNeo4j(t)
	d, err := graphbolt.Open(graphbolt.Config{
		Host:     host,
		Port:     port,
		User:     "neo4j",
		Password: integrationPassword,
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(d.Close)
	return d
}

func TestIntegrationRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test needs docker")
	}
	t.Parallel()

	d := openIntegrationDriver(t)
	ctx := t.Context()

	stream, err := d.Execute(ctx, "UNWIND range(1, 5) AS n RETURN n", nil)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	var got []int64
	for row, err := range stream.Rows(ctx) {
		if err != nil {
			t.Fatalf("rows: %v", err)
		}
		var n int64
		if err := row.Get("n", &n); err != nil {
			t.Fatalf("get: %v", err)
		}
		got = append(got, n)
	}
	if len(got) != 5 || got[0] != 1 || got[4] != 5 {
		t.Errorf("rows = %v", got)
	}
	if stream.Summary() == nil {
		t.Error("missing summary")
	}
}

func TestIntegrationNodeProperties(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test needs docker")
	}
	t.Parallel()

	d := openIntegrationDriver(t)
	ctx := t.Context()

	tx, err := d.BeginTx(ctx, graphbolt.TxConfig{})
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	defer func() { _ = tx.Close(context.Background()) }()

	stream, err := tx.Execute(ctx,
		"CREATE (p:Person {name: $name, age: $age}) RETURN p",
		map[string]any{"name": "alice", "age": 30},
	)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	row, err := stream.Next(ctx)
	if err != nil || row == nil {
		t.Fatalf("next: %v %v", row, err)
	}

	var node *graphbolt.Node
	if err := row.Get("p", &node); err != nil {
		t.Fatalf("get node: %v", err)
	}
	var name string
	if ok, err := node.Get("name", &name); err != nil || !ok || name != "alice" {
		t.Errorf("name: ok=%v err=%v name=%q", ok, err, name)
	}
	if node.ElementID == "" {
		t.Error("v5 server should assign an element id")
	}

	if err := tx.Rollback(ctx); err != nil {
		t.Fatalf("rollback: %v", err)
	}
}

func TestIntegrationServerFailureRecovers(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test needs docker")
	}
	t.Parallel()

	d := openIntegrationDriver(t)
	ctx := t.Context()

	if _, err := d.Run(ctx, "THIS IS NOT CYPHER", nil); err == nil {
		t.Fatal("expected a server failure")
	}
	if _, err := d.Run(ctx, "RETURN 1", nil); err != nil {
		t.Fatalf("query after failure: %v", err)
	}
}
