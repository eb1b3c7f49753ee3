// Package connectors fetches documents from external sources. Each
// subpackage implements the Connector port for one source kind
// (filesystem, github, googledrive); the Factory builds a connector
// from a stored Source, and the catalog describes the configuration
// each kind accepts.
package connectors
