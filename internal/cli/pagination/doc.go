// Package pagination holds the paging and sorting flags shared by the list
// commands and the metadata printed alongside a page of results.
//
// Pages are 1-based on the command line and in the metadata, and 0-based on
// the wire; WirePage converts between the two.
package pagination
