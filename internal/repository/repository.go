// Package repository owns the data the API serves.
//
// Projects live in process memory only: there is no database and
// everything resets when the process restarts.
package repository
