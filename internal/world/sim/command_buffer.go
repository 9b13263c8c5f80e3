package sim

import (
	"sync"

	"Settlers/internal/command"
)

// CommandBuffer 定长环形缓冲，暂存等待下一个 tick 的指令。多生产者、单消费者。
type CommandBuffer struct {
	mu       sync.Mutex
	data     []command.Envelope
	head     int
	tail     int
	count    int
	overflow uint64
}

func NewCommandBuffer(capacity int) *CommandBuffer {
	if capacity < 1 {
		capacity = 1
	}
	return &CommandBuffer{data: make([]command.Envelope, capacity)}
}

func (b *CommandBuffer) Capacity() int {
	if b == nil {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.data)
}

// Push 缓冲已满时返回 false，指令不入队。
func (b *CommandBuffer) Push(env command.Envelope) bool {
	if b == nil {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.count == len(b.data) {
		b.overflow++
		return false
	}
	b.data[b.tail] = env
	b.tail = (b.tail + 1) % len(b.data)
	b.count++
	return true
}

// Drain 按先进先出顺序取出全部指令并清空缓冲。
func (b *CommandBuffer) Drain() []command.Envelope {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.count == 0 {
		return nil
	}
	out := make([]command.Envelope, b.count)
	for i := 0; i < b.count; i++ {
		idx := (b.head + i) % len(b.data)
		out[i] = b.data[idx]
		b.data[idx] = command.Envelope{}
	}
	b.head = 0
	b.tail = 0
	b.count = 0
	return out
}

func (b *CommandBuffer) Len() int {
	if b == nil {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

// Overflow 因缓冲已满被拒绝的指令总数。
func (b *CommandBuffer) Overflow() uint64 {
	if b == nil {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.overflow
}
