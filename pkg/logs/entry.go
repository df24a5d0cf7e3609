// Package logs provides the event log entry model, the filter predicate and
// the reverse pagination engine shared by the live feed and the archive.
//
// Sources of entries implement Feed. The live host adapter lives in the live
// sub-package and dated archive files are read by pkg/archive.
package logs

// ArchiveSeverity is the severity assigned to every entry parsed from an
// archive file. The archive format carries no severity column.
const ArchiveSeverity = 8

// Entry is a single event log record. Entries are values and are never
// modified once built.
type Entry struct {
	Message   string `json:"message" yaml:"message"`
	Source    string `json:"source" yaml:"source"`
	Severity  int    `json:"typeVal" yaml:"typeVal"`
	Timestamp string `json:"timestamp" yaml:"timestamp"`
}
