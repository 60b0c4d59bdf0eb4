// Package api handles incoming HTTP requests for the social media kit:
// the server-rendered page, the form submission and the JSON plan API.
// It adapts HTTP concerns to controller operations and maps controller
// errors to status codes and safe messages.
package api
