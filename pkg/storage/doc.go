// Package storage exports fetched collections as JSON files.
//
// The Manager writes one file per collection, named after the collection,
// and remembers which collections were already exported so repeated batch
// runs can skip them.
//
// Features:
//   - Atomic writes using temporary files and rename
//   - Thread-safe operations with read-write mutex
//   - Scanning of existing exports on initialization
//
// Usage:
//
//	manager, err := storage.NewManager("exports")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if !manager.IsExported("followers_alice") {
//	    err = manager.Export("followers_alice", page)
//	}
package storage
