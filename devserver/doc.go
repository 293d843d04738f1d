// Package devserver is a small gin application that stands in for the
// remote API during local development and tests. It is served under /api,
// the base path the client resolves to outside production and test modes.
//
// Routes:
//
//	POST /api/login           issue a token and a session cookie
//	GET  /api/me              401 without a valid Authorization token
//	ANY  /api/echo            echo method, form fields, Authorization and cookies
//	ANY  /api/status/:code    answer with the given status code
//	GET  /api/health          service health
package devserver
