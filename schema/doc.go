// Package schema defines the typed column model shared by the reader, the
// formatter and the command: a closed Type enum, Column and Schema
// descriptors, and the Record/Cursor interfaces through which decoded rows
// flow one at a time.
package schema
