package homeboxapi

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

const pageSize = 100

// Item is the subset of a HomeBox item summary this tool reads.
type Item struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	ImageID string `json:"imageId"`
}

// HasImage reports whether the item has a primary image attachment.
func (i Item) HasImage() bool {
	return i.ID != "" && i.ImageID != ""
}

type itemsPage struct {
	Items    []Item `json:"items"`
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
	Total    int    `json:"total"`
}

// Items returns every item, walking pages until total is reached or a page
// adds nothing new. Servers that ignore paging return everything at once.
func (c *Client) Items(ctx context.Context) ([]Item, error) {
	var all []Item
	seen := make(map[string]struct{})
	for page := 1; ; page++ {
		params := url.Values{}
		params.Set("page", strconv.Itoa(page))
		params.Set("pageSize", strconv.Itoa(pageSize))

		var p itemsPage
		if err := c.doJSON(ctx, "/items", params, &p); err != nil {
			return nil, fmt.Errorf("list items page %d: %w", page, err)
		}

		added := 0
		for _, it := range p.Items {
			if _, dup := seen[it.ID]; dup {
				continue
			}
			seen[it.ID] = struct{}{}
			all = append(all, it)
			added++
		}

		if added == 0 || p.Total == 0 || len(all) >= p.Total {
			return all, nil
		}
	}
}

// Attachment downloads an item attachment.
func (c *Client) Attachment(ctx context.Context, itemID, attachmentID string) ([]byte, error) {
	endpoint := "/items/" + url.PathEscape(itemID) + "/attachments/" + url.PathEscape(attachmentID)
	b, err := c.doBytes(ctx, endpoint, maxAttachmentBytes)
	if err != nil {
		return nil, fmt.Errorf("download attachment %s: %w", attachmentID, err)
	}
	return b, nil
}

// Ping checks that the API is reachable and the token is accepted.
func (c *Client) Ping(ctx context.Context) error {
	params := url.Values{}
	params.Set("pageSize", "1")

	var p itemsPage
	if err := c.doJSON(ctx, "/items", params, &p); err != nil {
		return fmt.Errorf("ping %s: %w", c.baseURL, err)
	}
	return nil
}
