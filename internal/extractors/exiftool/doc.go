// Package exiftool extracts embedded metadata through a long-lived
// exiftool process speaking the -stay_open protocol. Tags are reported as
// "Group:Tag" leaves, for example PDF:CreateDate.
package exiftool
