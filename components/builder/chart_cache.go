package builder

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"sync"
	"time"
)

// RenderCache keeps rendered chart HTML per chart element.
type RenderCache interface {
	Chart(elementID string, content ChartContent, render func() (string, error)) (string, error)
}

// ChartCache holds the last rendering of every chart element. An entry is
// reused while the element's chart kind and series are unchanged and its TTL
// has not run out; editing the chart replaces the entry.
type ChartCache struct {
	ttl    time.Duration
	now    func() time.Time
	mu     sync.Mutex
	charts map[string]renderedChart
}

type renderedChart struct {
	fingerprint string
	html        string
	renderedAt  time.Time
}

// NewChartCache builds a cache whose entries live for ttl. A non-positive TTL
// disables caching.
func NewChartCache(ttl time.Duration) *ChartCache {
	return &ChartCache{
		ttl:    ttl,
		now:    time.Now,
		charts: make(map[string]renderedChart),
	}
}

// Chart returns the cached HTML of elementID when content matches what was
// rendered last, and renders it otherwise.
func (c *ChartCache) Chart(elementID string, content ChartContent, render func() (string, error)) (string, error) {
	if c == nil || c.ttl <= 0 {
		return render()
	}
	fingerprint := ChartFingerprint(content)
	c.mu.Lock()
	entry, ok := c.charts[elementID]
	fresh := ok && entry.fingerprint == fingerprint && c.now().Sub(entry.renderedAt) < c.ttl
	c.mu.Unlock()
	if fresh {
		return entry.html, nil
	}

	html, err := render()
	if err != nil {
		return "", err
	}
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.charts[elementID] = renderedChart{fingerprint: fingerprint, html: html, renderedAt: now}
	for id, e := range c.charts {
		if now.Sub(e.renderedAt) >= c.ttl {
			delete(c.charts, id)
		}
	}
	return html, nil
}

// Len reports the number of chart elements held.
func (c *ChartCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.charts)
}

// ChartFingerprint identifies the chart kind and series of content. Series
// colors are part of it since they change the rendering.
func ChartFingerprint(content ChartContent) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(content.Kind))
	if content.Data != nil {
		b.WriteString("|")
		b.WriteString(strings.Join(content.Data.Labels, "\x1f"))
		for _, ds := range content.Data.Datasets {
			b.WriteString("|")
			b.WriteString(ds.Label)
			b.WriteString("\x1e")
			b.WriteString(ds.BackgroundColor)
			b.WriteString("\x1e")
			b.WriteString(ds.BorderColor)
			for _, v := range ds.Data {
				b.WriteString("\x1f")
				b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
			}
		}
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:12])
}
