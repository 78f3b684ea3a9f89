// Package graphbolt is a client driver for graph databases speaking the
// Bolt protocol: a binary, length-prefixed, framed request/response protocol
// carrying PackStream-encoded values.
//
// The driver owns a connection pool; queries run through Execute (streamed
// rows), Run (summary only) or an explicit transaction from BeginTx:
//
//	d, err := graphbolt.Open(graphbolt.Config{
//		Host: "localhost",
//		User: "neo4j", Password: "secret",
//	})
//	if err != nil { ... }
//	defer d.Close()
//
//	stream, err := d.Execute(ctx, "MATCH (n:Person) RETURN n.name AS name", nil)
//	if err != nil { ... }
//	for row, err := range stream.Rows(ctx) {
//		if err != nil { ... }
//		var name string
//		_ = row.Get("name", &name)
//	}
//
// Records stream back in batches of Config.FetchSize; the summary the server
// sends at stream end is available from the stream once it is exhausted.
// Node and relationship properties decode lazily: they stay raw bytes until
// Keys, Get or Decode walks them.
package graphbolt
