package model

type ParseResponse struct {
	BatchID     string      `json:"batchId"`
	TotalValid  int         `json:"totalValid"`
	TotalErrors int         `json:"totalErrors"`
	Echo        []ParsedRow `json:"echo"`
	Errors      []RowError  `json:"errors"`
}

type AnalyzeResponse struct {
	BatchID string `json:"batchId"`
	PairResult
}

type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}
