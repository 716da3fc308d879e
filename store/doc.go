// Package store defines the entity store contract used by the risk graph
// engine and provides an in-memory reference implementation.
//
// The engine treats persistence as a row-oriented table per entity kind:
// each row is a Record mapping field names to text values, and every row
// carries a unique "id" field within its kind. The store surface is
// deliberately small:
//
//   - ReadAll: full-table read, rows in insertion order
//   - Append: insert a new row with a caller-supplied id
//   - UpdateField: change exactly one field of an existing row
//   - DeleteByID: remove an existing row
//
// Backend adapters live in subpackages (redisstore, etcdstore, sqlitestore)
// and all satisfy the EntityStore interface. The MemoryStore in this package
// backs tests and the zero-configuration local setup.
//
// Example usage:
//
//	st := store.NewMemoryStore()
//
//	rec := store.Record{"id": "c1", "title": "Disk full"}
//	if err := st.Append(ctx, store.KindCause, rec); err != nil {
//	    log.Fatal(err)
//	}
//
//	rows, err := st.ReadAll(ctx, store.KindCause)
package store
