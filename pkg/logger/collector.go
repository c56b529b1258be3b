package logger

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"
)

type CollectionConfig struct {
	TimeInterval   time.Duration // aggregation window flush interval (e.g., 30s)
	CountThreshold int           // max unique logs held before flush (e.g., 100)
	MaxRecent      int           // bounded history exposed to readers
}

type AggregatedLogEntry struct {
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields"`
	Caller    string                 `json:"caller"`
	Count     int                    `json:"count"`
	FirstSeen time.Time              `json:"first_seen"`
	LastSeen  time.Time              `json:"last_seen"`
}

// LogCollector aggregates duplicate error logs in-memory and keeps a bounded
// recent history. There is no log backend; readers pull via Recent().
type LogCollector struct {
	config *CollectionConfig
	logMap map[string]*AggregatedLogEntry
	recent []AggregatedLogEntry
	mutex  sync.RWMutex
	stopCh chan struct{}
	wg     sync.WaitGroup
}

func NewLogCollector(config *CollectionConfig) *LogCollector {
	if config.MaxRecent <= 0 {
		config.MaxRecent = 50
	}
	collector := &LogCollector{
		config: config,
		logMap: make(map[string]*AggregatedLogEntry),
		stopCh: make(chan struct{}),
	}

	// Start periodic flush goroutine
	collector.wg.Add(1)
	go collector.periodicFlush()

	return collector
}

func (d *LogCollector) AddLog(level, message string, fields map[string]interface{}, caller string) {
	now := time.Now()
	key := d.generateKey(level, message, fields, caller)

	d.mutex.Lock()
	defer d.mutex.Unlock()

	if entry, exists := d.logMap[key]; exists {
		entry.Count++
		entry.LastSeen = now
	} else {
		d.logMap[key] = &AggregatedLogEntry{
			Level:     level,
			Message:   message,
			Fields:    fields,
			Caller:    caller,
			Count:     1,
			FirstSeen: now,
			LastSeen:  now,
		}
	}

	if len(d.logMap) >= d.config.CountThreshold {
		d.flushLogs()
	}
}

// Recent returns the bounded history of aggregated entries, newest first.
func (d *LogCollector) Recent() []AggregatedLogEntry {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.flushLogs()

	out := make([]AggregatedLogEntry, len(d.recent))
	copy(out, d.recent)
	return out
}

func (d *LogCollector) generateKey(level, message string, fields map[string]interface{}, caller string) string {
	// Consistent hash from level + message + fields + caller
	data := struct {
		Level   string                 `json:"level"`
		Message string                 `json:"message"`
		Fields  map[string]interface{} `json:"fields"`
		Caller  string                 `json:"caller"`
	}{
		Level:   level,
		Message: message,
		Fields:  fields,
		Caller:  caller,
	}

	jsonData, _ := json.Marshal(data)
	hash := sha256.Sum256(jsonData)
	return fmt.Sprintf("%x", hash)
}

func (d *LogCollector) periodicFlush() {
	defer d.wg.Done()

	ticker := time.NewTicker(d.config.TimeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			d.mutex.Lock()
			d.flushLogs()
			d.mutex.Unlock()
		case <-d.stopCh:
			d.mutex.Lock()
			d.flushLogs()
			d.mutex.Unlock()
			return
		}
	}
}

// flushLogs moves aggregated entries into the recent history. Caller holds the lock.
func (d *LogCollector) flushLogs() {
	if len(d.logMap) == 0 {
		return
	}

	for _, entry := range d.logMap {
		d.recent = append(d.recent, *entry)
	}
	d.logMap = make(map[string]*AggregatedLogEntry)

	sort.Slice(d.recent, func(i, j int) bool { return d.recent[i].LastSeen.After(d.recent[j].LastSeen) })
	if len(d.recent) > d.config.MaxRecent {
		d.recent = d.recent[:d.config.MaxRecent]
	}
}

func (d *LogCollector) Close() {
	close(d.stopCh)
	d.wg.Wait()
}
