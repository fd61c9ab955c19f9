// Package api handles incoming HTTP requests, request validation and
// response formatting. It adapts the review, study and stats services to
// JSON over HTTP; authentication and tracing live in the middleware package.
package api
