package notifier

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/metrics"
)

const (
	DefaultBufferSize      = 256
	DefaultDeliveryTimeout = 5 * time.Second
)

// Dispatcher принимает намерения уведомить пользователя и доставляет их в sinks
// в фоне. Notify никогда не блокирует вызывающего: при переполненном буфере
// уведомление отбрасывается с предупреждением.
type Dispatcher struct {
	queue   chan domain.Notification
	sinks   []Sink
	log     Logger
	metrics *metrics.Metrics
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewDispatcher(bufferSize int, log Logger, m *metrics.Metrics, sinks ...Sink) *Dispatcher {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}

	d := &Dispatcher{
		queue:   make(chan domain.Notification, bufferSize),
		sinks:   sinks,
		log:     log,
		metrics: m,
		timeout: DefaultDeliveryTimeout,
	}

	d.wg.Add(1)
	go d.run()

	return d
}

// Notify ставит уведомление в очередь доставки
func (d *Dispatcher) Notify(n domain.Notification) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.log.Warn("Notifier: dispatcher is closed, dropping notification %s for %s", n.ID, n.RecipientID)
		d.metrics.IncNotification("dispatcher", "dropped")
		return
	}

	select {
	case d.queue <- n:
	default:
		d.log.Warn("Notifier: buffer is full, dropping notification %s for %s", n.ID, n.RecipientID)
		d.metrics.IncNotification("dispatcher", "dropped")
	}
}

// Close прекращает прием и дожидается доставки уже принятых уведомлений
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *Dispatcher) run() {
	defer d.wg.Done()

	for n := range d.queue {
		for _, sink := range d.sinks {
			d.deliver(sink, n)
		}
	}
}

func (d *Dispatcher) deliver(sink Sink, n domain.Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	if err := sink.Deliver(ctx, n); err != nil {
		d.log.Error("Notifier: sink %s failed to deliver notification %s: %v", sink.Name(), n.ID, err)
		d.metrics.IncNotification(sink.Name(), "failed")
		return
	}
	d.metrics.IncNotification(sink.Name(), "delivered")
}
