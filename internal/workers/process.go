package workers

import (
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v3/process"
)

// ProcessStats — использование ресурсов текущим процессом
type ProcessStats struct {
	CPUPercent float64
	RSSMB      float64
	HeapMB     float64
	Goroutines int
}

// ReadProcessStats возвращает использование CPU и памяти процессом.
// Если gopsutil не смог прочитать данные процесса, заполняются только
// значения рантайма и возвращается ошибка.
func ReadProcessStats() (ProcessStats, error) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	stats := ProcessStats{
		HeapMB:     float64(m.HeapAlloc) / 1024 / 1024,
		Goroutines: runtime.NumGoroutine(),
	}

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return stats, err
	}

	if cpuPercent, err := proc.CPUPercent(); err == nil {
		stats.CPUPercent = cpuPercent
	}

	memInfo, err := proc.MemoryInfo()
	if err != nil {
		return stats, err
	}
	stats.RSSMB = float64(memInfo.RSS) / 1024 / 1024
	return stats, nil
}
