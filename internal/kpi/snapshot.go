// Package kpi models the dashboard endpoints of a SACS_BD server.
package kpi

import (
	"errors"
	"fmt"
	"sort"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var errNullSnapshot = errors.New("kpi snapshot: expected object, got null")

// Record is one KPI entry. Total is nil when the entry has no numeric total.
type Record struct {
	Total *float64
}

// Snapshot maps KPI keys to their records as returned by one fetch.
type Snapshot map[string]Record

// Keys returns the snapshot keys in sorted order.
func (s Snapshot) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// UnmarshalJSON decodes a KPI object. The top level must be an object; a
// value that is not an object, or whose total is not a number, yields a
// record with a nil Total instead of failing the whole snapshot.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var raw map[string]jsoniter.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("kpi snapshot: %w", err)
	}
	if raw == nil {
		return errNullSnapshot
	}
	out := make(Snapshot, len(raw))
	for key, msg := range raw {
		var rec struct {
			Total *float64 `json:"total"`
		}
		if err := json.Unmarshal(msg, &rec); err != nil {
			out[key] = Record{}
			continue
		}
		out[key] = Record{Total: rec.Total}
	}
	*s = out
	return nil
}

// DecodeSnapshot parses a KPI endpoint body.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if s == nil {
		return nil, errNullSnapshot
	}
	return s, nil
}

// Metrics is the payload of the system metrics endpoint.
type Metrics struct {
	CPUUsage          float64 `json:"cpu_usage"`
	MemoryUsage       float64 `json:"memory_usage"`
	DiskUsage         float64 `json:"disk_usage"`
	NetworkStatus     string  `json:"network_status"`
	ActiveConnections int64   `json:"active_connections"`
	BackupQueue       int64   `json:"backup_queue"`
	LastBackup        string  `json:"last_backup"`
	ServerUptime      string  `json:"server_uptime"`
}
