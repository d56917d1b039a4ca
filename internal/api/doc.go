// Package api defines the transfer objects crossing the HTTP boundary and
// the service layer mapping them onto the entity store. Transfer objects
// carry validation and default values only; business decisions stay in the
// store and lifecycle packages.
package api
