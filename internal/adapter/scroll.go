package adapter

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"sentiment-scanner/internal/browser"
	"sentiment-scanner/internal/logger"
)

// scrollPolicy bounds one scroll collection pass.
type scrollPolicy struct {
	pause         time.Duration
	maxIterations int
	minReplies    int
	maxClicks     int
}

// collectScroll drives the shared scroll loop: extract rendered posts,
// expand allowed threads, scroll one viewport, and stop on the first of
// three conditions: a termination marker rendered in the timestamp column,
// the page height no longer growing with the bottom reached, or the
// iteration cap. The cap is a hard stop so a thin-volume ticker whose feed
// never reaches the marker cannot spin forever.
func collectScroll(ctx context.Context, sess browser.Session, loc Locator, markers []string, policy scrollPolicy) ([]string, error) {
	var offset int64
	var lastHeight int64 = -1
	clicks := 0

	for i := 0; i < policy.maxIterations; i++ {
		times, err := sess.TextsOf(ctx, loc.TimeSelector)
		if err != nil {
			return nil, fmt.Errorf("%w: timestamp column: %v", ErrStructural, err)
		}
		if containsMarker(times, markers) {
			break
		}

		if loc.MoreSelector != "" && clicks < policy.maxClicks {
			if expandAllowedThread(ctx, sess, loc, policy.minReplies) {
				clicks++
			}
		}

		height, err := sess.ScrollHeight(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: scroll height: %v", ErrStructural, err)
		}
		viewport, err := sess.ViewportHeight(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: viewport height: %v", ErrStructural, err)
		}
		if height == lastHeight && offset >= height {
			logger.Debug(ctx, "Feed exhausted before marker", "iterations", i)
			break
		}
		lastHeight = height

		offset += viewport
		if err := sess.ScrollTo(ctx, offset); err != nil {
			return nil, fmt.Errorf("%w: scroll: %v", ErrStructural, err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(policy.pause):
		}
	}

	posts, err := sess.TextsOf(ctx, loc.PostSelector)
	if err != nil {
		return nil, fmt.Errorf("%w: post elements: %v", ErrStructural, err)
	}
	return posts, nil
}

func containsMarker(times, markers []string) bool {
	for _, t := range times {
		for _, m := range markers {
			if strings.Contains(t, m) {
				return true
			}
		}
	}
	return false
}

// expandAllowedThread clicks one "load more" control when any rendered
// control promises at least minReplies replies. Small threads are left
// collapsed to bound total work.
func expandAllowedThread(ctx context.Context, sess browser.Session, loc Locator, minReplies int) bool {
	labels, err := sess.TextsOf(ctx, loc.MoreSelector)
	if err != nil {
		return false
	}
	for _, label := range labels {
		if replyCount(label) < minReplies {
			continue
		}
		if err := sess.ClickFirst(ctx, loc.MoreSelector); err != nil {
			return false
		}
		return true
	}
	return false
}

// replyCount parses the leading count from labels like "1 more reply" or
// "7,019 more replies". Anything else counts as zero.
func replyCount(label string) int {
	label = strings.TrimSpace(label)
	if !strings.HasSuffix(label, "more reply") && !strings.HasSuffix(label, "more replies") {
		return 0
	}
	head, _, ok := strings.Cut(label, " ")
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(strings.ReplaceAll(head, ",", ""))
	if err != nil {
		return 0
	}
	return n
}
