// Package types defines the task entity, saved filters, row actions, the
// preferences interface, storage configuration, and the sentinel errors
// shared by the taskshelf storage and sync layers.
package types
