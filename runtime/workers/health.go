package workers

import (
	"chat-relay/contract"
	"chat-relay/observability"
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"
)

// HealthWorker periodically reports relay counters and process self-stats.
// Pure observability: it never touches connections or messages.
type HealthWorker struct {
	log      *slog.Logger
	registry contract.IRegistry
	monitor  *observability.Monitor
	interval time.Duration
}

func NewHealthWorker(log *slog.Logger, registry contract.IRegistry,
	monitor *observability.Monitor, interval time.Duration) *HealthWorker {
	return &HealthWorker{log: log, registry: registry, monitor: monitor, interval: interval}
}

// Run executes the main loop of the worker, logging health metrics
// (connections, broadcast counters, RAM, CPU) at each tick.
func (w *HealthWorker) Run(ctx context.Context) error {
	w.log.Info("Starting relay health worker", "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			rss, cpu, err := selfStats(p)
			if err != nil {
				w.log.Error("Failed to collect self stats", "err", err)
				continue
			}

			stats := w.monitor.GetLatest()
			w.log.Info("Relay health",
				"connections", w.registry.Len(),
				"messages_broadcast", stats.MessagesBroadcast,
				"messages_dropped", stats.MessagesDropped,
				"delivery_failures", stats.DeliveryFailures,
				"connections_opened", stats.ConnectionsOpened,
				"connections_closed", stats.ConnectionsClosed,
				"ram_mb", rss/1024/1024,
				"cpu_percent", cpu,
			)
		}
	}
}

// selfStats retrieves memory and CPU usage for the given process.
func selfStats(p *process.Process) (uint64, float64, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, err
	}

	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return 0, 0, err
	}
	return memInfo.RSS, cpuPercent, nil
}
