// Package model holds the domain records shared by the repository,
// service and handler layers.
package model

// Project is the only resource managed by the API.
//
// ID is assigned by the store on creation and never changes afterwards.
type Project struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Owner string `json:"owner"`
}
