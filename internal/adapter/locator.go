package adapter

import (
	"fmt"
	"time"
)

// Locator bundles the CSS selectors a scroll collector targets on one
// source's feed page. The values are the rendered markup of the live sites;
// when a site ships new markup the collector fails structurally and the
// selector is the single place to update.
type Locator struct {
	// PostSelector matches the elements whose innerText is one full post.
	PostSelector string
	// TimeSelector matches the rendered timestamp elements checked against
	// the termination markers.
	TimeSelector string
	// MoreSelector matches "load more" controls; empty disables clicking.
	MoreSelector string
}

// stocktwitsLocator targets the obfuscated but stable class names of the
// StockTwits symbol feed.
var stocktwitsLocator = Locator{
	PostSelector: `div[class='st_29E11sZ st_jGV698i st_1GuPg4J st_qEtgVMo st_2uhTU4W']`,
	TimeSelector: `a[class='st_28bQfzV st_1E79qOs st_3TuKxmZ st_1VMMH6S']`,
}

// twitterLocator targets the data-testid attributes of the live-search feed,
// which survive markup reshuffles better than class names.
var twitterLocator = Locator{
	PostSelector: `div[data-testid='tweetText']`,
	TimeSelector: `time`,
	MoreSelector: `div[role='button'] span`,
}

// DateMarker renders the window start day the way the StockTwits feed
// renders dates, M/D/YY with no zero padding.
func DateMarker(start time.Time) string {
	return fmt.Sprintf("%d/%d/%s", int(start.Month()), start.Day(), start.Format("06"))
}

// RelativeMarkers builds the set of rendered relative ages ("6h", "1d") that
// mean a post is at or past the window boundary. The feed may have no post
// exactly at the boundary age, so the set extends `buffer` steps further
// back: missing one exact value must not keep the loop scrolling forever.
func RelativeMarkers(lookbackHours uint, buffer int) []string {
	markers := make([]string, 0, buffer)
	hours := int(lookbackHours)
	for i := 0; i < buffer; i++ {
		age := hours + i
		if age < 24 {
			markers = append(markers, fmt.Sprintf("%dh", age))
		} else {
			markers = append(markers, fmt.Sprintf("%dd", age/24))
		}
	}
	return dedupStrings(markers)
}

// AbsoluteMarkers builds rendered absolute dates ("Nov 20") for the window
// start day and `buffer` days before it.
func AbsoluteMarkers(start time.Time, buffer int) []string {
	markers := make([]string, 0, buffer)
	for i := 0; i < buffer; i++ {
		markers = append(markers, start.AddDate(0, 0, -i).Format("Jan 2"))
	}
	return markers
}

func dedupStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
