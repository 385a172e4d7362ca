package data

import (
	"sync"
	"time"

	"github.com/khaledhikmat/vs-activity/model"
)

// MemoryService keeps entities in process. Used by tests and one-shot cli runs.
type MemoryService struct {
	mu     sync.Mutex
	stats  []model.AnalysisStats
	errors []interface{}
}

func NewMemory() *MemoryService {
	return &MemoryService{}
}

func (svc *MemoryService) NewAnalysisStats(stats model.AnalysisStats) error {
	stats.Timestamp = time.Now().Unix()
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.stats = append(svc.stats, stats)
	return nil
}

func (svc *MemoryService) RetrieveAnalysisStats() ([]model.AnalysisStats, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return append([]model.AnalysisStats{}, svc.stats...), nil
}

func (svc *MemoryService) NewError(err interface{}) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.errors = append(svc.errors, err)
	return nil
}

func (svc *MemoryService) Errors() []interface{} {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return append([]interface{}{}, svc.errors...)
}
