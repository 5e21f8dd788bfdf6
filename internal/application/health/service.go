package health

import (
	"context"
	"encoding/json"
	"runtime"
	"strconv"
	"time"

	"infera-console/internal/middleware"

	"github.com/redis/go-redis/v9"
)

const (
	StatusOK    = "ok"
	StatusIssue = "issue"
)

const (
	depConnected    = "connected"
	depDisconnected = "disconnected"
	depDisabled     = "disabled"
	depError        = "error"
)

// DBPinger is optional for health check. If nil, the database is reported as disabled.
type DBPinger interface {
	Ping() error
}

// Report is the /health/json payload.
type Report struct {
	Status       string                `json:"status"`
	Runtime      Runtime               `json:"runtime"`
	Traffic      Traffic               `json:"traffic"`
	Dependencies map[string]Dependency `json:"dependencies"`
}

type Runtime struct {
	UptimeSeconds int64  `json:"uptimeSeconds"`
	HeapMB        uint64 `json:"heapMb"`
	Goroutines    int    `json:"goroutines"`
	GoVersion     string `json:"goVersion"`
}

// Traffic summarizes the counters HealthMarker keeps in Redis.
type Traffic struct {
	TotalRequests   int             `json:"totalRequests"`
	SuccessCount    int             `json:"successCount"`
	FailedCount     int             `json:"failedCount"`
	SuccessRate     string          `json:"successRate"`
	AvgResponseTime string          `json:"avgResponseTime"`
	LastRequest     json.RawMessage `json:"lastRequest,omitempty"`
}

type Dependency struct {
	Status string `json:"status"`
	PingMs *int64 `json:"pingMs"`
}

func emptyTraffic() Traffic {
	return Traffic{SuccessRate: "100", AvgResponseTime: "0"}
}

func ping(fn func() error) Dependency {
	start := time.Now()
	if err := fn(); err != nil {
		return Dependency{Status: depError}
	}
	ms := time.Since(start).Milliseconds()
	return Dependency{Status: depConnected, PingMs: &ms}
}

// CollectHealth gathers health data from Redis and the optional DB.
// Status is "ok" when Redis is connected and the DB is connected or disabled.
func CollectHealth(ctx context.Context, rdb *redis.Client, db DBPinger) Report {
	report := Report{
		Traffic: emptyTraffic(),
		Dependencies: map[string]Dependency{
			"database": {Status: depDisabled},
			"redis":    {Status: depDisconnected},
		},
	}
	if db != nil {
		report.Dependencies["database"] = ping(db.Ping)
	}

	started := time.Now()
	if rdb != nil {
		dep := ping(func() error { return rdb.Ping(ctx).Err() })
		report.Dependencies["redis"] = dep
		if dep.Status == depConnected {
			report.Traffic, started = readTraffic(ctx, rdb)
		}
	}
	report.Runtime = readRuntime(started)

	if report.Dependencies["redis"].Status == depConnected && report.Dependencies["database"].Status != depError {
		report.Status = StatusOK
	} else {
		report.Status = StatusIssue
	}
	return report
}

// readTraffic loads the request counters in one round trip and returns the stats start time,
// seeding it on first read.
func readTraffic(ctx context.Context, rdb *redis.Client) (Traffic, time.Time) {
	tr := emptyTraffic()
	now := time.Now()
	vals, err := rdb.MGet(ctx,
		middleware.KeyReqTotal,
		middleware.KeyReqErrors,
		middleware.KeyResTime,
		middleware.KeyResCount,
		middleware.KeyStartTime,
		middleware.KeyLastReq,
	).Result()
	if err != nil {
		return tr, now
	}
	str := func(i int) string {
		s, _ := vals[i].(string)
		return s
	}

	tr.TotalRequests, _ = strconv.Atoi(str(0))
	tr.FailedCount, _ = strconv.Atoi(str(1))
	tr.SuccessCount = tr.TotalRequests - tr.FailedCount
	if tr.TotalRequests > 0 {
		tr.SuccessRate = strconv.FormatFloat(float64(tr.SuccessCount)/float64(tr.TotalRequests)*100, 'f', 1, 64)
	}
	if n, _ := strconv.Atoi(str(3)); n > 0 {
		sum, _ := strconv.ParseFloat(str(2), 64)
		tr.AvgResponseTime = strconv.FormatFloat(sum/float64(n), 'f', 2, 64)
	}
	if last := str(5); last != "" && json.Valid([]byte(last)) {
		tr.LastRequest = json.RawMessage(last)
	}

	if ms, err := strconv.ParseInt(str(4), 10, 64); err == nil {
		return tr, time.UnixMilli(ms)
	}
	rdb.Set(ctx, middleware.KeyStartTime, now.UnixMilli(), 0)
	return tr, now
}

func readRuntime(started time.Time) Runtime {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	uptime := int64(time.Since(started).Seconds())
	if uptime < 0 {
		uptime = 0
	}
	return Runtime{
		UptimeSeconds: uptime,
		HeapMB:        m.HeapInuse >> 20,
		Goroutines:    runtime.NumGoroutine(),
		GoVersion:     runtime.Version(),
	}
}
