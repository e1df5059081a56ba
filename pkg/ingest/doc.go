// Package ingest loads uploaded files into form values the way the browser
// runtime does: choosing a file records its display path under "<id>_dir"
// right away and fills "<id>" with the file contents once the read finishes.
// Reads run asynchronously, are never cancelled and the last one to complete
// wins.
package ingest
