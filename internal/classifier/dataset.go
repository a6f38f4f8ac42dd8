package classifier

import (
	"github.com/yourusername/football-ml/internal/models"
)

// Partition names
const (
	PartitionTrain    = "train"
	PartitionEval     = "eval"
	PartitionUpcoming = "upcoming"
)

// DatasetRow is one fixed-width feature vector. Missing values encode as JSON null.
type DatasetRow struct {
	MatchKey string     `json:"match_key"`
	Season   int        `json:"season"`
	Label    int        `json:"label"`
	Features []*float64 `json:"features"`
}

// DatasetSubmission is the payload posted for one partition
type DatasetSubmission struct {
	RunID          string       `json:"run_id"`
	Partition      string       `json:"partition"`
	FeatureColumns []string     `json:"feature_columns"`
	LabelColumn    string       `json:"label_column"`
	Rows           []DatasetRow `json:"rows"`
}

// SubmissionResponse is the classifier's acknowledgement
type SubmissionResponse struct {
	DatasetID string `json:"dataset_id"`
	Status    string `json:"status"`
	Accepted  int    `json:"accepted"`
	Message   string `json:"message,omitempty"`
}

// NewDatasetSubmission lays rows out in column order
func NewDatasetSubmission(runID, partition string, rows []models.FeatureRow, columns []string) *DatasetSubmission {
	out := &DatasetSubmission{
		RunID:          runID,
		Partition:      partition,
		FeatureColumns: append([]string(nil), columns...),
		LabelColumn:    "label",
		Rows:           make([]DatasetRow, len(rows)),
	}
	for i := range rows {
		out.Rows[i] = DatasetRow{
			MatchKey: rows[i].MatchKey,
			Season:   rows[i].Season,
			Label:    int(rows[i].Label),
			Features: rows[i].Vector(columns),
		}
	}
	return out
}
