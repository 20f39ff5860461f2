package voices

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueFIFO(t *testing.T) {
	q := NewQueue()
	_, ok := q.Pop()
	require.False(t, ok)

	for i := 0; i < 5; i++ {
		q.Push(NoteOnAction(i, 1))
	}
	var got []int
	n := q.Drain(func(a Action) { got = append(got, a.Note) })
	assert.Equal(t, 5, n)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)

	_, ok = q.Pop()
	assert.False(t, ok)
}

func TestQueueConcurrentProducersKeepPerProducerOrder(t *testing.T) {
	const producers = 8
	const perProducer = 1000

	q := NewQueue()
	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Push(Action{Tag: ActionNoteOn, Note: p, Value: float32(i)})
			}
		}(p)
	}

	next := make([]float32, producers)
	total := 0
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	consume := func() {
		q.Drain(func(a Action) {
			require.Equal(t, next[a.Note], a.Value, "producer %d out of order", a.Note)
			next[a.Note]++
			total++
		})
	}
	for {
		select {
		case <-done:
			consume()
			assert.Equal(t, producers*perProducer, total)
			return
		default:
			consume()
		}
	}
}
