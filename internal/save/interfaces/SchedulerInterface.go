package interfaces

// SchedulerInterface drives the periodic flush loop. Restore runs once at
// startup to warm the runtime cache from disk; Persist flushes dirty records
// and is also invoked on shutdown.
type SchedulerInterface interface {
	Init()
	Stop()
	Restore() error
	Persist() error
}
