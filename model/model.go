package model

import (
	"fmt"
	"runtime/debug"
)

type CustomError struct {
	Processor  string                 `json:"processor"`
	Inner      error                  `json:"innerError"`
	Message    string                 `json:"message"`
	StackTrace string                 `json:"stackTrace"`
	Misc       map[string]interface{} `json:"misc"`
}

func (e CustomError) Error() string {
	if e.Inner == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Inner)
}

func GenError(proc string, err error, misc map[string]interface{}, messagef string, args ...interface{}) CustomError {
	return CustomError{
		Processor:  proc,
		Inner:      err,
		Message:    fmt.Sprintf(messagef, args...),
		StackTrace: string(debug.Stack()),
		Misc:       misc,
	}
}

// Stage of one analysis invocation.
// START -> TRIMMED -> SAMPLED -> AGGREGATED -> REPORTED, or FAILED from TRIMMED/SAMPLED,
// and from AGGREGATED when the analysis was cancelled.
type Stage string

const (
	StageStart      Stage = "START"
	StageTrimmed    Stage = "TRIMMED"
	StageSampled    Stage = "SAMPLED"
	StageAggregated Stage = "AGGREGATED"
	StageReported   Stage = "REPORTED"
	StageFailed     Stage = "FAILED"
)

type AnalysisRequest struct {
	VideoA     string   `json:"videoA"`
	VideoB     string   `json:"videoB"`
	Activity   string   `json:"activity"`
	TrimLength *float64 `json:"trimLength,omitempty"` // seconds, nil means "shorter of the two"
}

type AnalysisReport struct {
	ID           string  `json:"id"`
	VideoA       string  `json:"videoA"`
	VideoB       string  `json:"videoB"`
	RateA        float64 `json:"rateA"`
	RateB        float64 `json:"rateB"`
	TrimDuration float64 `json:"trimDuration"`
	Frames       int     `json:"frames"`
}

type DetectionStats struct {
	Frames    int     `json:"frames"`
	Positives int     `json:"positives"`
	Skipped   int     `json:"skipped"` // frames that could not be encoded
	Elapsed   float64 `json:"elapsed"` // seconds
}

type AnalysisStats struct {
	ID           string         `json:"id"`
	Activity     string         `json:"activity"`
	Classifier   string         `json:"classifier"`
	Stage        Stage          `json:"stage"`
	Error        string         `json:"error,omitempty"`
	TrimDuration float64        `json:"trimDuration"`
	RateA        float64        `json:"rateA"`
	RateB        float64        `json:"rateB"`
	DetectionA   DetectionStats `json:"detectionA"`
	DetectionB   DetectionStats `json:"detectionB"`
	Uptime       float64        `json:"uptime"` // seconds spent in the analysis
	Timestamp    int64          `json:"timestamp"`
}
