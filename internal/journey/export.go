package journey

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// csvHeader is the column layout of a journey export. One row per
// selection, so a journey with three picks contributes three rows.
var csvHeader = []string{
	"journey_id",
	"created_at",
	"algorithm_version",
	"query_name",
	"suggested_ids",
	"selected_profile_id",
	"raw_score",
	"final_score",
	"trust",
}

// ExportCSV writes all journeys as CSV, one row per selection. The format
// is what the offline weight analysis consumes.
func ExportCSV(ctx context.Context, repo Repository, w io.Writer) error {
	journeys, err := repo.List(ctx, 0)
	if err != nil {
		return fmt.Errorf("export journeys: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, j := range journeys {
		suggested := make([]string, len(j.SuggestedIDs))
		for i, id := range j.SuggestedIDs {
			suggested[i] = strconv.FormatInt(id, 10)
		}

		for _, s := range j.Selections {
			row := []string{
				j.ID,
				j.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
				j.AlgorithmVersion,
				j.Query.Name,
				strings.Join(suggested, ";"),
				strconv.FormatInt(s.ProfileID, 10),
				strconv.FormatFloat(s.RawScore, 'f', 4, 64),
				strconv.FormatFloat(s.FinalScore, 'f', 4, 64),
				strconv.FormatFloat(s.Trust, 'f', 4, 64),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("write csv row: %w", err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
