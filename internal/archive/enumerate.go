package archive

import "context"

// QueueItem is one message URL yielded by Enumerate, already attributed to
// its month bucket.
type QueueItem struct {
	Month string
	ID    string
	URL   string
}

// Enumerate lazily yields message URLs for list in strict chronological
// order, starting strictly after checkpoint. It is implemented as a single
// producer goroutine feeding a bounded channel, so the orchestrator can
// batch-consume without materializing the whole archive up front. The
// returned error channel carries at most one error and is closed alongside
// the item channel; a consumer should drain items until the channel closes,
// then check the error channel.
func (c *Client) Enumerate(ctx context.Context, list string, checkpoint Checkpoint) (<-chan QueueItem, <-chan error) {
	items := make(chan QueueItem, 64)
	errs := make(chan error, 1)

	go func() {
		defer close(items)
		defer close(errs)

		months, err := c.fetchMonths(ctx, list)
		if err != nil {
			errs <- err
			return
		}

		months = orderChronologically(months, checkpoint)

		for i, m := range months {
			messages, err := c.fetchMessages(ctx, m.URL)
			if err != nil {
				errs <- err
				return
			}

			if i == 0 && m.Month == checkpoint.Month && checkpoint.ID != "" {
				messages = suffixAfter(messages, checkpoint.ID)
			}

			for _, msg := range messages {
				select {
				case items <- QueueItem{Month: m.Month, ID: msg.ID, URL: msg.URL}:
				case <-ctx.Done():
					errs <- ctx.Err()
					return
				}
			}
		}
	}()

	return items, errs
}

func (c *Client) fetchMonths(ctx context.Context, list string) ([]MonthURL, error) {
	body, err := c.get(ctx, c.listRootURL(list))
	if err != nil {
		return nil, err
	}
	return parseMonthLinks(c.listRootURL(list), string(body))
}

func (c *Client) fetchMessages(ctx context.Context, monthURL string) ([]MessageURL, error) {
	body, err := c.get(ctx, monthURL)
	if err != nil {
		return nil, err
	}
	return parseMessageLinks(monthURL, string(body))
}

// Fetch retrieves and parses a single message page.
func (c *Client) Fetch(ctx context.Context, messageURL string) (Mail, error) {
	body, err := c.get(ctx, messageURL)
	if err != nil {
		return Mail{}, err
	}
	return parseMessage(messageURL, string(body))
}

// orderChronologically applies the checkpoint-truncation rule and reverses
// the archive's newest-first month list into chronological order. If
// checkpoint.Month is empty or not found in months, the whole list is
// processed from the beginning.
func orderChronologically(months []MonthURL, checkpoint Checkpoint) []MonthURL {
	if checkpoint.Month != "" {
		if idx := indexOfMonth(months, checkpoint.Month); idx >= 0 {
			months = months[:idx+1]
		}
	}
	reversed := make([]MonthURL, len(months))
	for i, m := range months {
		reversed[len(months)-1-i] = m
	}
	return reversed
}

func indexOfMonth(months []MonthURL, month string) int {
	for i, m := range months {
		if m.Month == month {
			return i
		}
	}
	return -1
}

// suffixAfter returns the strict suffix of messages following the one with
// the given id. If id is not found, all messages are returned.
func suffixAfter(messages []MessageURL, id string) []MessageURL {
	for i, m := range messages {
		if m.ID == id {
			if i+1 >= len(messages) {
				return nil
			}
			return messages[i+1:]
		}
	}
	return messages
}
