// Package testutil provides scripted connectors and store fakes shared by
// package tests. It is internal; nothing here is part of the public API.
package testutil
