package metrics

import (
	"time"

	"media-catalog/internal/logging"
)

// StatsProvider reports current catalog totals.
type StatsProvider interface {
	GetStats() Stats
}

// Stats holds the current catalog statistics.
type Stats struct {
	TotalFiles int
	TotalTags  int
}

// Collector periodically pulls catalog totals and publishes them as gauges.
type Collector struct {
	statsProvider StatsProvider
	interval      time.Duration
	stopChan      chan struct{}
}

// NewCollector creates a new metrics collector.
func NewCollector(provider StatsProvider, interval time.Duration) *Collector {
	return &Collector{
		statsProvider: provider,
		interval:      interval,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the metrics collection loop.
func (c *Collector) Start() {
	go c.collectLoop()
}

// Stop stops the metrics collection.
func (c *Collector) Stop() {
	close(c.stopChan)
}

func (c *Collector) collectLoop() {
	// Collect immediately on start
	c.collect()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.collect()
		case <-c.stopChan:
			logging.Debug("Metrics collector stopped")
			return
		}
	}
}

func (c *Collector) collect() {
	stats := c.statsProvider.GetStats()
	CatalogFilesTotal.Set(float64(stats.TotalFiles))
	CatalogTagsTotal.Set(float64(stats.TotalTags))
}
