// Package server exposes the tracker's health, metrics and latest
// analysis over HTTP.
package server
