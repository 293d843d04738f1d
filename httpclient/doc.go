// Package httpclient is the shared request pipeline used by apiclient.
//
// A Client resolves its base URL from the deployment mode, encodes every
// request body as application/x-www-form-urlencoded, runs request
// middlewares (token injection, request id, tracing) around the transport,
// and settles each call into exactly one Outcome:
//
//   - StateSucceeded: the server answered 2xx; Payload holds the body.
//   - StateRejected: Err holds the failure, unchanged.
//   - StateSilentlyResolved: the failure was suppressed and there is no payload.
//
// # Basic Usage
//
//	client, err := httpclient.New(httpclient.DefaultConfig(httpclient.ModeProduction),
//	    httpclient.WithTokenStore(store),
//	    httpclient.WithConnectivity(checker),
//	)
//
//	out := client.Post(ctx, "/login", map[string]any{"user": "a", "pass": "b"})
//	payload, err := out.Result()
//
// # Failure statuses
//
// A server reply with a failure status (401, 403, 404, ...) is classified,
// handed to any registered StatusHook and then silently resolved, matching
// the behaviour existing callers depend on. WithRejectOnStatus(true) rejects
// such calls with the *Error instead.
package httpclient
