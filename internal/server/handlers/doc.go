// Package handlers implements the docnav HTTP API over the current site snapshot.
package handlers
