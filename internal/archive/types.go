package archive

import "time"

// Mail is the unit produced by fetching one message page. (list, month, id)
// is globally unique and stable across re-crawls.
type Mail struct {
	List    string
	Month   string
	ID      string
	Subject string
	Author  string
	Email   string
	Date    time.Time
	Body    string
}

// Checkpoint marks the last successfully indexed message for a list. A zero
// value (empty Month and ID) means the list has never been crawled.
type Checkpoint struct {
	Month string
	ID    string
}

// MonthURL pairs a month bucket's archive URL with the identifier it was
// resolved from (the "date.html" URL's parent path segment).
type MonthURL struct {
	Month string
	URL   string
}

// MessageURL pairs a message page's archive URL with the id parsed from it.
type MessageURL struct {
	ID  string
	URL string
}
