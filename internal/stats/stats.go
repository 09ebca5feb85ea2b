// Package stats reports worker pool statistics for observability.
package stats

import "github.com/google/uuid"

// Pool is the read-only view of the dispatcher that statistics are built from.
type Pool interface {
	QueueDepth() int
	PoolSize() int
}

// Statistics is one non-blocking snapshot of the pool.
type Statistics struct {
	// InstanceUUID disambiguates which pool instance reported the numbers
	// when several processes run behind a balancer.
	InstanceUUID string `json:"instance_uuid"`

	// QueueSize is the number of submitted conversions not yet started.
	QueueSize int `json:"queue_size"`

	// PoolSize is the number of OCR workers.
	PoolSize int `json:"ocr_pool_size"`
}

// Service snapshots pool statistics. The instance id is assigned once per
// process lifetime, at construction.
type Service struct {
	instanceUUID string
	pool         Pool
}

func NewService(pool Pool) *Service {
	return &Service{
		instanceUUID: uuid.NewString(),
		pool:         pool,
	}
}

// InstanceUUID returns the process-scoped instance identifier.
func (s *Service) InstanceUUID() string {
	return s.instanceUUID
}

// Snapshot reads the current pool statistics.
func (s *Service) Snapshot() Statistics {
	return Statistics{
		InstanceUUID: s.instanceUUID,
		QueueSize:    s.pool.QueueDepth(),
		PoolSize:     s.pool.PoolSize(),
	}
}
