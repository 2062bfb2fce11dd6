package metrics

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/dustin/go-humanize"
)

// SysHealth represents real-time process metrics.
type SysHealth struct {
	Alloc        string `json:"alloc"`
	TotalAlloc   string `json:"totalAlloc"`
	Sys          string `json:"sys"`
	NumGC        uint32 `json:"numGC"`
	Goroutines   int    `json:"goroutines"`
	DataDiskSize string `json:"dataDiskSize"`
}

// GetSysHealth collects real-time health data. dataPath may be a file or a
// directory.
func GetSysHealth(dataPath string) SysHealth {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return SysHealth{
		Alloc:        humanize.Bytes(m.Alloc),
		TotalAlloc:   humanize.Bytes(m.TotalAlloc),
		Sys:          humanize.Bytes(m.Sys),
		NumGC:        m.NumGC,
		Goroutines:   runtime.NumGoroutine(),
		DataDiskSize: humanize.Bytes(diskUsage(dataPath)),
	}
}

func diskUsage(path string) uint64 {
	var size uint64
	_ = filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			size += uint64(info.Size())
		}
		return nil
	})
	return size
}
