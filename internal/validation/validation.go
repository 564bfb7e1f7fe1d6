// Package validation contains the logic for validating
// request data.
//
// It uses the `validator` library to enforce rules (like
// required fields) defined in struct tags, extracts validation
// errors into a format the client can understand, and provides
// the UUID predicate used to gate project ids.
package validation
