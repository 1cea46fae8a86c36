// Package api implements the public HTTP endpoints: contact form submission,
// newsletter subscription and health probes.
//
// Every response is JSON with a boolean "success" field. Failures carry a
// client-safe "error" message; provider errors are never shown verbatim.
//
//	app := web.New(
//	    web.WithErrorHandler(api.ErrorHandler),
//	    web.WithNotFoundHandler(api.NotFound),
//	    web.WithMethodNotAllowedHandler(api.MethodNotAllowed),
//	    web.WithHandlers(
//	        api.NewContactHandler(svc),
//	        api.NewSubscriptionHandler(svc),
//	        api.NewHealthHandler(checks),
//	    ),
//	)
package api
