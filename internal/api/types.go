// File path: internal/api/types.go
package api

import "github.com/liveforge-ai/liveforge/internal/build"

type liveBuildRequest struct {
	Prompt string `json:"prompt"`
}

type buildsResponse struct {
	Builds     []build.Record `json:"builds"`
	Total      int            `json:"total"`
	Success    int            `json:"successCount"`
	Failed     int            `json:"failedCount"`
	InProgress int            `json:"inProgressCount"`
}

type statsResponse struct {
	TotalBuilds  int    `json:"totalBuilds"`
	SuccessRate  string `json:"successRate"`
	AvgBuildTime string `json:"avgBuildTime"`
	TotalProofs  int    `json:"totalProofs"`
}
