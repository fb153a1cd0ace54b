package tlh

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/lutherald/hymnscan/internal/model"
	"golang.org/x/net/html"
)

// ErrNoLinks is returned when a listing page holds no usable recording links.
var ErrNoLinks = errors.New("no hymn recording links found on page")

// LinkStrategy selects how a recording link is tied to a hymn number.
type LinkStrategy int

const (
	// StrategySibling reads the number from the nearest preceding text
	// sibling of the link that consists of digits only.
	StrategySibling LinkStrategy = iota

	// StrategySuffix reads the number from the first run of digits in the
	// link's file name, e.g. "tlh045.mp3" is hymn 45.
	StrategySuffix
)

// String returns the strategy name as accepted by ParseLinkStrategy.
func (s LinkStrategy) String() string {
	switch s {
	case StrategySibling:
		return "sibling"
	case StrategySuffix:
		return "suffix"
	default:
		return "unknown"
	}
}

// ParseLinkStrategy converts "sibling" or "suffix" into a LinkStrategy.
func ParseLinkStrategy(name string) (LinkStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "sibling":
		return StrategySibling, nil
	case "suffix":
		return StrategySuffix, nil
	default:
		return 0, fmt.Errorf("unknown link strategy %q (want sibling or suffix)", name)
	}
}

var (
	bareNumber     = regexp.MustCompile(`^(\d+)$`)
	fileNameNumber = regexp.MustCompile(`(\d+)`)
)

// LinkIndex maps hymn numbers to recording URLs found on a listing page.
//
// Only links whose href ends in ".mp3" are considered. When several links
// resolve to the same number the last one wins.
//
// Returns ErrNoLinks if no link could be tied to a number.
//
// Example:
//
//	links, err := tlh.LinkIndex(listingHTML, tlh.StrategySibling)
//	fmt.Println(links[45]) // "https://example.org/audio/045.mp3"
func LinkIndex(page string, strategy LinkStrategy) (map[model.Number]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parse listing page: %w", err)
	}

	links := make(map[model.Number]string)
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if !strings.HasSuffix(strings.ToLower(href), ".mp3") {
			return
		}

		var (
			n  model.Number
			ok bool
		)
		switch strategy {
		case StrategySuffix:
			n, ok = numberFromFileName(href)
		default:
			n, ok = numberFromSiblings(a.Nodes[0])
		}
		if ok {
			links[n] = href
		}
	})

	if len(links) == 0 {
		return nil, ErrNoLinks
	}
	return links, nil
}

// numberFromSiblings walks backwards over the link's siblings and returns the
// first non-blank text node that holds only a number.
func numberFromSiblings(a *html.Node) (model.Number, bool) {
	for sib := a.PrevSibling; sib != nil; sib = sib.PrevSibling {
		if sib.Type != html.TextNode {
			continue
		}
		text := strings.TrimSpace(sib.Data)
		if text == "" {
			continue
		}
		if m := bareNumber.FindStringSubmatch(text); m != nil {
			n, err := strconv.Atoi(m[1])
			if err == nil && n > 0 {
				return model.Number(n), true
			}
		}
	}
	return 0, false
}

// numberFromFileName returns the first run of digits in the href's file name.
func numberFromFileName(href string) (model.Number, bool) {
	p := href
	if u, err := url.Parse(href); err == nil {
		p = u.Path
	}

	m := fileNameNumber.FindStringSubmatch(path.Base(p))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 {
		return 0, false
	}
	return model.Number(n), true
}

// DuplicateLinks returns every href that appears more than once on the page,
// in order of first appearance.
func DuplicateLinks(page string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parse listing page: %w", err)
	}

	counts := make(map[string]int)
	var order []string
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if href == "" {
			return
		}
		if counts[href] == 0 {
			order = append(order, href)
		}
		counts[href]++
	})

	duplicates := []string{}
	for _, href := range order {
		if counts[href] > 1 {
			duplicates = append(duplicates, href)
		}
	}
	return duplicates, nil
}

// ApplyAudioLinks sets the recording URL of every record whose title number
// has an entry in links. Records are replaced, not modified in place, so
// collections sharing them are unaffected.
//
// Returns the number of records that received a link.
func ApplyAudioLinks(c *model.Collection, links map[model.Number]string) int {
	updated := 0
	for _, key := range c.Numbers() {
		h, _ := c.Get(key)
		n, ok := h.TitleNumber()
		if !ok {
			continue
		}
		link, ok := links[n]
		if !ok {
			continue
		}

		next := *h
		next.AudioFile = link
		c.Set(key, &next)
		updated++
	}
	return updated
}
