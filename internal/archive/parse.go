package archive

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/mailarchive/indexer/internal/storekeys"
)

// archiveDateLayout is the format pipermail renders message dates in:
// "Day Mon DD HH:MM:SS TZ YYYY". A missing TZ token is a hard parse error,
// not a silent fallback to local time.
const archiveDateLayout = "Mon Jan 2 15:04:05 MST 2006"

var messageHrefPattern = regexp.MustCompile(`[0-9]+\.html$`)

// parseMonthLinks extracts every hyperlink whose visible text is "[ Date ]"
// from a list's root page, in the order the archive presents them, resolved
// against base.
func parseMonthLinks(base, html string) ([]MonthURL, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &ParseError{URL: base, Msg: err.Error()}
	}

	var months []MonthURL
	doc.Find("a").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.TrimSpace(s.Text()) != "[ Date ]" {
			return true
		}
		href, ok := s.Attr("href")
		if !ok {
			return true
		}
		resolved, err := resolveURL(base, href)
		if err != nil {
			return true
		}
		months = append(months, MonthURL{Month: monthFromURL(resolved), URL: resolved})
		return true
	})

	return months, nil
}

// parseMessageLinks extracts every hyperlink whose href matches [0-9]+.html
// from a month's index page, in the order the archive emits them
// (chronological within the month).
func parseMessageLinks(base, html string) ([]MessageURL, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &ParseError{URL: base, Msg: err.Error()}
	}

	var messages []MessageURL
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if !messageHrefPattern.MatchString(href) {
			return
		}
		resolved, err := resolveURL(base, href)
		if err != nil {
			return
		}
		_, _, id, err := decomposeMessageURL(resolved)
		if err != nil {
			return
		}
		messages = append(messages, MessageURL{ID: id, URL: resolved})
	})

	return messages, nil
}

// parseMessage parses one message page into a Mail record. list/month/id
// are derived from the URL's last three path components.
func parseMessage(messageURL, html string) (Mail, error) {
	list, month, id, err := decomposeMessageURL(messageURL)
	if err != nil {
		return Mail{}, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Mail{}, &ParseError{URL: messageURL, Msg: err.Error()}
	}

	h1 := doc.Find("h1").First()
	if h1.Length() == 0 {
		return Mail{}, &ParseError{URL: messageURL, Msg: "missing <h1> subject"}
	}
	b := doc.Find("b").First()
	if b.Length() == 0 {
		return Mail{}, &ParseError{URL: messageURL, Msg: "missing <b> author"}
	}
	a := doc.Find("a").First()
	if a.Length() == 0 {
		return Mail{}, &ParseError{URL: messageURL, Msg: "missing <a> email"}
	}
	i := doc.Find("i").First()
	if i.Length() == 0 {
		return Mail{}, &ParseError{URL: messageURL, Msg: "missing <i> date"}
	}

	subject := strings.TrimSpace(h1.Text())
	author := strings.TrimSpace(b.Text())
	email := strings.ReplaceAll(strings.TrimSpace(a.Text()), " at ", "@")

	date, err := time.Parse(archiveDateLayout, strings.TrimSpace(i.Text()))
	if err != nil {
		return Mail{}, &ParseError{URL: messageURL, Msg: fmt.Sprintf("unparseable date %q: %v", i.Text(), err)}
	}

	body := ""
	if pre := doc.Find("pre").First(); pre.Length() > 0 {
		body = pre.Text()
	}

	// Archive quirk: some messages render an empty or degenerate display
	// name ("-", "- -"). When that normalizes away to nothing, fall back to
	// the email address as the author.
	if storekeys.Normalize(author) == "" {
		author = email
	}

	return Mail{
		List:    list,
		Month:   month,
		ID:      id,
		Subject: subject,
		Author:  author,
		Email:   email,
		Date:    date.UTC(),
		Body:    body,
	}, nil
}

func resolveURL(base, href string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	rel, err := url.Parse(href)
	if err != nil {
		return "", err
	}
	return baseURL.ResolveReference(rel).String(), nil
}

// monthFromURL extracts the month bucket identifier (the path segment
// immediately before the trailing "date.html") from a resolved month URL.
func monthFromURL(monthURL string) string {
	u, err := url.Parse(monthURL)
	if err != nil {
		return monthURL
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 {
		return monthURL
	}
	return parts[len(parts)-2]
}

// decomposeMessageURL extracts list, month, id from a message URL of the
// form ".../{list}/{month}/{id}.html".
func decomposeMessageURL(messageURL string) (list, month, id string, err error) {
	u, perr := url.Parse(messageURL)
	if perr != nil {
		return "", "", "", &ParseError{URL: messageURL, Msg: perr.Error()}
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 3 {
		return "", "", "", &ParseError{URL: messageURL, Msg: "URL does not decompose into list/month/id"}
	}
	last := parts[len(parts)-1]
	id = strings.TrimSuffix(last, ".html")
	month = parts[len(parts)-2]
	list = parts[len(parts)-3]
	return list, month, id, nil
}
