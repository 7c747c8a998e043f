// Package producer defines the contract shared by extractors and
// analyzers.
package producer
