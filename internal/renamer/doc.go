// Package renamer queues rename requests, tracks which need confirmation,
// and performs them. In dry-run mode the same events are produced but the
// file system is never touched.
package renamer
