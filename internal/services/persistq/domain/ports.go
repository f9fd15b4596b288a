// Package domain defines the background persistence queue ports
package domain

import "context"

// Job is one unit of background work. Jobs sharing a non-empty Key are
// collapsed while queued
type Job struct {
	ID   string
	Name string
	Key  string
	Run  func(ctx context.Context) error
}

// EnqueuePort accepts background work without blocking; false means the job was dropped
type EnqueuePort interface {
	Enqueue(j Job) bool
	EnqueueResolve(clusterID, lang string) bool
}

// WorkerPort (run loop) is separate
type WorkerPort interface {
	Run(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// Stats is a point-in-time view of the queue
type Stats struct {
	Depth     int   `json:"depth"`
	Running   int64 `json:"running"`
	Processed int64 `json:"processed"`
	Failed    int64 `json:"failed"`
	Dropped   int64 `json:"dropped"`
}

// StatsPort reports queue activity
type StatsPort interface {
	Stats() Stats
}
