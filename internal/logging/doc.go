// Package logging provides file-based structured logging with rotation for
// ytsearch. Logs are JSON lines written to ~/.ytsearch/logs/ytsearch.log.
//
// Interactive mode never writes log records to stderr because the terminal
// belongs to the search screen; one-shot commands may mirror them to stderr
// when --debug is set.
package logging
