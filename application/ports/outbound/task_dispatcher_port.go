package outbound

// TaskDispatcher runs tasks on a bounded pool. Submit fails when the pool
// cannot accept more work.
type TaskDispatcher interface {
	Submit(task func()) error
}
