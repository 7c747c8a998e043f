// Package deps locates the external programs autonameow calls.
package deps
