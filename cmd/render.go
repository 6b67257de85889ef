package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/datasciencecampus/geosnap/internal/enrich"
	"github.com/datasciencecampus/geosnap/internal/geotable"
	"github.com/datasciencecampus/geosnap/internal/mapview"
)

var renderCmd = &cobra.Command{
	Use:   "render <enriched.geojson>",
	Short: "Render an enriched dataset as an interactive map",
	Long:  "Renders a three-layer Leaflet map: original points, snapped points, and the connecting lines.",
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().String("snapped-col", enrich.DefaultSnappedColumn, "Property column holding the snapped point geometry")
	renderCmd.Flags().String("line-col", enrich.DefaultLineColumn, "Property column holding the connecting line geometry")
	renderCmd.Flags().Float64("zoom", 0, "Initial zoom level (0 uses the configured default)")
	renderCmd.Flags().StringP("out", "o", "map.html", "Output HTML path")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	snappedCol, _ := cmd.Flags().GetString("snapped-col")
	lineCol, _ := cmd.Flags().GetString("line-col")
	zoom, _ := cmd.Flags().GetFloat64("zoom")
	out, _ := cmd.Flags().GetString("out")

	m, err := loadMap(args[0], snappedCol, lineCol, zoom)
	if err != nil {
		return err
	}

	if err := m.WriteFile(out); err != nil {
		return err
	}

	zap.L().Info("wrote map", zap.String("path", out))
	return nil
}

// loadMap reads an enriched dataset and builds the map object, applying the
// configured view defaults.
func loadMap(path, snappedCol, lineCol string, zoom float64) (*mapview.Map, error) {
	table, err := geotable.ReadFile(path, snappedCol, lineCol)
	if err != nil {
		return nil, err
	}

	if zoom == 0 {
		zoom = cfg.Render.Zoom
	}

	return mapview.New(table, mapview.Options{
		Zoom:          zoom,
		SnappedColumn: snappedCol,
		LineColumn:    lineCol,
		CenterLat:     cfg.Render.CenterLat,
		CenterLng:     cfg.Render.CenterLng,
	})
}
