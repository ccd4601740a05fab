package sweep

import (
	"fmt"
	"io"
	"strconv"

	"github.com/gocarina/gocsv"
)

// WritePriceCurveCSV writes a price curve as CSV with a header row.
func WritePriceCurveCSV(w io.Writer, points []PricePoint) error {
	if err := gocsv.Marshal(&points, w); err != nil {
		return fmt.Errorf("failed to write price curve csv: %w", err)
	}
	return nil
}

// WriteGreekCurvesCSV writes Greek curves as CSV with a header row.
func WriteGreekCurvesCSV(w io.Writer, points []GreekPoint) error {
	if err := gocsv.Marshal(&points, w); err != nil {
		return fmt.Errorf("failed to write greek curves csv: %w", err)
	}
	return nil
}

// WriteHeatmapCSV writes a heatmap grid as CSV: one row per volatility, first
// column the vol value, remaining columns the prices per spot. The header
// carries the spot values.
func WriteHeatmapCSV(w io.Writer, grid HeatmapGrid) error {
	header := "sigma"
	for _, spot := range grid.Spots {
		header += "," + strconv.FormatFloat(spot, 'g', -1, 64)
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return fmt.Errorf("failed to write heatmap header: %w", err)
	}

	for i, vol := range grid.Vols {
		row := strconv.FormatFloat(vol, 'g', -1, 64)
		for _, price := range grid.Prices[i] {
			row += "," + strconv.FormatFloat(price, 'g', -1, 64)
		}
		if _, err := fmt.Fprintln(w, row); err != nil {
			return fmt.Errorf("failed to write heatmap row: %w", err)
		}
	}
	return nil
}
