package feed

import (
	"bytes"
	"encoding/xml"
	"io"

	"github.com/cockroachdb/errors"
	"golang.org/x/net/html/charset"

	"github.com/amishk599/jobscout/internal/model"
)

type rssItem struct {
	Title       string `xml:"title"`
	Region      string `xml:"region"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
}

type rssDocument struct {
	XMLName xml.Name
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
	// RSS 1.0 (RDF) places items next to the channel.
	Items []rssItem `xml:"item"`
}

// Decode parses an RSS document into feed items, in document order. Parsing is
// lax: HTML entities and missing end tags are tolerated, and non-UTF-8
// documents are transcoded using their declared encoding.
//
// AutoClose must stay unset: xml.HTMLAutoClose lists "link", which would
// close <link> before its text is read.
func Decode(body []byte) ([]model.FeedItem, error) {
	decoder := xml.NewDecoder(bytes.NewReader(body))
	decoder.Strict = false
	decoder.Entity = xml.HTMLEntity
	decoder.CharsetReader = charset.NewReaderLabel

	var doc rssDocument
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("empty document")
		}
		return nil, errors.Mark(errors.Wrap(err, "decode rss"), model.ErrDecode)
	}
	if doc.XMLName.Local != "rss" && doc.XMLName.Local != "RDF" {
		return nil, errors.Mark(errors.Newf("decode rss: unexpected root element <%s>", doc.XMLName.Local), model.ErrDecode)
	}

	raw := doc.Channel.Items
	if len(doc.Items) > 0 {
		raw = doc.Items
	}

	items := make([]model.FeedItem, 0, len(raw))
	for _, ri := range raw {
		items = append(items, model.FeedItem{
			Title:       ri.Title,
			Region:      ri.Region,
			Link:        ri.Link,
			Description: ri.Description,
		})
	}
	return items, nil
}
