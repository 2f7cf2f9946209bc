// Package server holds the HTTP server configuration.
//
// The serve command starts a Fiber application exposing the realms API;
// this package only defines the settings it is started with: the listen
// port, the API key and the timeout applied to sync passes triggered over HTTP.
package server
