package queue

// Queue represents a bounded queue of pending messages.
type Queue interface {
	// Enqueue adds an item without blocking, or returns ErrQueueFull.
	Enqueue(item interface{}) error
	Size() int
	ReadAllMessages() ([]interface{}, error)
	ClearQueue()
}

type ErrQueueFull struct{}

func (e *ErrQueueFull) Error() string {
	return "queue is full"
}

func IsQueueFull(err error) bool {
	_, ok := err.(*ErrQueueFull)
	return ok
}
