// Package client contains the client-side building blocks that talk to the
// outside world.
//
// # Overview
//
// The package provides:
//  1. The Store contract for the remote users collection: List with filter
//     and sort query parameters, Create, Delete and the fan-out DeleteMany.
//  2. HTTPStore, a REST implementation over net/http. Each request carries an
//     X-Request-ID, propagates the trace context and runs inside a client
//     span.
//  3. Local state bootstrap (InitDatabase) that opens the SQLite file used
//     for client-side flags and applies the embedded goose migrations.
//
// # Error Handling
//
// Every transport failure and every non-2xx response matches ErrNetwork
// with errors.Is. Non-2xx responses are also *StatusError. A partially
// failed DeleteMany returns *DeleteError listing the ids that failed.
//
// Concurrency & Contexts
//
// HTTPStore is safe for concurrent use. All operations accept a
// context.Context and abort when it is cancelled.
package client
