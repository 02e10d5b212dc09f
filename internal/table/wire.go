package table

import "encoding/json"

// Wire types mirror the stable JSON contract consumed by downstream systems.
// Field names and shapes here must not change without versioning.

type wireCell struct {
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
	Method     string  `json:"method"`
}

type wireRow struct {
	RowIndex   int                 `json:"row_index"`
	Confidence float64             `json:"confidence"`
	Cells      map[string]wireCell `json:"cells"`
}

type wireColumn struct {
	Index        int     `json:"index"`
	DetectedName string  `json:"detected_name"`
	StandardName string  `json:"standard_name"`
	Type         string  `json:"type"`
	Confidence   float64 `json:"confidence"`
}

type wireRegion struct {
	XMin float64 `json:"x_min"`
	YMin float64 `json:"y_min"`
	XMax float64 `json:"x_max"`
	YMax float64 `json:"y_max"`
}

type wireMetadata struct {
	NumRows    int      `json:"num_rows"`
	NumColumns int      `json:"num_columns"`
	NumCells   int      `json:"num_cells"`
	Errors     []string `json:"errors"`
}

type wireOutput struct {
	TableFound        bool         `json:"table_found"`
	TableRegion       *wireRegion  `json:"table_region"`
	Columns           []wireColumn `json:"columns"`
	Rows              []wireRow    `json:"rows"`
	OverallConfidence float64      `json:"overall_confidence"`
	TableConfidence   float64      `json:"table_confidence"`
	HeaderConfidence  float64      `json:"header_confidence"`
	Metadata          wireMetadata `json:"metadata"`
	ProcessingTimeMS  float64      `json:"processing_time_ms"`
}

type wireNotFound struct {
	TableFound bool   `json:"table_found"`
	Error      string `json:"error"`
}

// MarshalWire renders the extraction output in the stable JSON contract.
// A table that was not found serializes to a short error shape.
func MarshalWire(o *Output) ([]byte, error) {
	if !o.TableFound {
		return json.Marshal(wireNotFound{TableFound: false, Error: "No table detected"})
	}

	w := wireOutput{
		TableFound:        true,
		OverallConfidence: o.OverallConfidence,
		TableConfidence:   o.TableConfidence,
		HeaderConfidence:  o.HeaderConfidence,
		ProcessingTimeMS:  o.ProcessingTimeMS,
		Metadata: wireMetadata{
			NumRows:    o.Metadata.NumRows,
			NumColumns: o.Metadata.NumColumns,
			NumCells:   o.Metadata.NumCells,
			Errors:     emptyIfNil(o.Metadata.Errors),
		},
	}
	if o.Region != nil {
		w.TableRegion = &wireRegion{
			XMin: o.Region.XMin,
			YMin: o.Region.YMin,
			XMax: o.Region.XMax,
			YMax: o.Region.YMax,
		}
	}
	w.Columns = make([]wireColumn, 0, len(o.Columns))
	for _, c := range o.Columns {
		w.Columns = append(w.Columns, wireColumn{
			Index:        c.Index,
			DetectedName: c.Detected,
			StandardName: string(c.Standard),
			Type:         string(c.Type),
			Confidence:   c.Confidence,
		})
	}
	w.Rows = make([]wireRow, 0, len(o.Rows))
	for _, r := range o.Rows {
		cells := make(map[string]wireCell, len(r.Cells))
		for col, cell := range r.Cells {
			cells[string(col)] = wireCell{
				Value:      cell.Value,
				Confidence: cell.Confidence,
				Method:     string(cell.Method),
			}
		}
		w.Rows = append(w.Rows, wireRow{
			RowIndex:   r.Index,
			Confidence: r.Confidence,
			Cells:      cells,
		})
	}
	return json.Marshal(w)
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
