// Package tokenstore provides the persistent client-side storage the
// request pipeline reads the auth token from.
//
// Three drivers are available:
//
//   - memory: process-local, lost on exit.
//   - file: a JSON file guarded by an advisory lock, shared between
//     processes on one machine.
//   - redis: a Redis server, shared between machines.
//
// All stores are safe for concurrent use.
//
//	store, err := tokenstore.New(cfg, log)
//	client, err := httpclient.New(httpCfg, httpclient.WithTokenStore(store))
package tokenstore
