package archive

import (
	"testing"
	"time"
)

const monthIndexHTML = `
<html><body>
<ul>
<li><a name="start"><a href="date.html">[ Date ]</a></li>
</ul>
</body></html>
`

func TestParseMonthLinks(t *testing.T) {
	months, err := parseMonthLinks("https://mail.openjdk.org/pipermail/loom-dev/2025-February/", monthIndexHTML)
	if err != nil {
		t.Fatalf("parseMonthLinks: %v", err)
	}
	if len(months) != 1 {
		t.Fatalf("len(months) = %d, want 1", len(months))
	}
	if months[0].Month != "2025-February" {
		t.Errorf("Month = %q, want 2025-February", months[0].Month)
	}
}

const messageListHTML = `
<html><body>
<ul>
<li><a href="025750.html">Some subject</a></li>
<li><a href="025751.html">Another subject</a></li>
<li><a href="025752.html">Third subject</a></li>
</ul>
</body></html>
`

func TestParseMessageLinks(t *testing.T) {
	msgs, err := parseMessageLinks("https://mail.openjdk.org/pipermail/loom-dev/2025-February/date.html", messageListHTML)
	if err != nil {
		t.Fatalf("parseMessageLinks: %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("len(msgs) = %d, want 3", len(msgs))
	}
	if msgs[0].ID != "025750" || msgs[2].ID != "025752" {
		t.Errorf("unexpected ids: %#v", msgs)
	}
}

const messagePageHTML = `
<html>
<head><title>[loom-dev] test</title></head>
<body>
<h1>Re: loom status update</h1>
<b>Duke Coder</b> <a href="mailto:duke%20at%20openjdk.org">duke at openjdk.org</a><br>
<i>Mon Feb 3 10:15:30 UTC 2025</i>
<p>
<pre>
Body text here.
</pre>
</body></html>
`

func TestParseMessage(t *testing.T) {
	mail, err := parseMessage("https://mail.openjdk.org/pipermail/loom-dev/2025-February/025752.html", messagePageHTML)
	if err != nil {
		t.Fatalf("parseMessage: %v", err)
	}
	if mail.List != "loom-dev" || mail.Month != "2025-February" || mail.ID != "025752" {
		t.Errorf("unexpected key: %+v", mail)
	}
	if mail.Subject != "Re: loom status update" {
		t.Errorf("Subject = %q", mail.Subject)
	}
	if mail.Author != "Duke Coder" {
		t.Errorf("Author = %q", mail.Author)
	}
	if mail.Email != "duke@openjdk.org" {
		t.Errorf("Email = %q", mail.Email)
	}
	want := time.Date(2025, time.February, 3, 10, 15, 30, 0, time.UTC)
	if !mail.Date.Equal(want) {
		t.Errorf("Date = %v, want %v", mail.Date, want)
	}
}

func TestParseMessageMissingPre(t *testing.T) {
	html := `<html><body><h1>S</h1><b>A</b><a href="mailto:a%20at%20b.com">a at b.com</a><i>Mon Feb 3 10:15:30 UTC 2025</i></body></html>`
	mail, err := parseMessage("https://mail.openjdk.org/pipermail/loom-dev/2025-February/000001.html", html)
	if err != nil {
		t.Fatalf("parseMessage: %v", err)
	}
	if mail.Body != "" {
		t.Errorf("Body = %q, want empty", mail.Body)
	}
}

func TestParseMessageMissingH1IsHardError(t *testing.T) {
	html := `<html><body><b>A</b><a href="mailto:a">a at b.com</a><i>Mon Feb 3 10:15:30 UTC 2025</i></body></html>`
	_, err := parseMessage("https://mail.openjdk.org/pipermail/loom-dev/2025-February/000001.html", html)
	if err == nil {
		t.Fatal("expected a ParseError for missing <h1>")
	}
}

func TestDecomposeMessageURL(t *testing.T) {
	list, month, id, err := decomposeMessageURL("https://mail.openjdk.org/pipermail/loom-dev/2025-February/025752.html")
	if err != nil {
		t.Fatalf("decomposeMessageURL: %v", err)
	}
	if list != "loom-dev" || month != "2025-February" || id != "025752" {
		t.Errorf("got (%q, %q, %q)", list, month, id)
	}
}
