package data

import "github.com/khaledhikmat/vs-activity/model"

type IService interface {
	NewAnalysisStats(stats model.AnalysisStats) error
	RetrieveAnalysisStats() ([]model.AnalysisStats, error)
	NewError(err interface{}) error
}
