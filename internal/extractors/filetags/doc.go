// Package filetags extracts the date, description and tags encoded in
// basenames following the filetags convention
// ("2016-07-22 Descriptive name -- tag1 tag2.txt").
package filetags
