package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/datasciencecampus/geosnap/internal/catalog"
	"github.com/datasciencecampus/geosnap/internal/geotable"
	"github.com/datasciencecampus/geosnap/pkg/arcgis"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch features from a paginated feature service",
	Long:  "Issues GET requests against a feature-service endpoint, following transfer-limit pagination, and writes the accumulated records to a GeoJSON file.",
	RunE:  runFetch,
}

func init() {
	fetchCmd.Flags().String("endpoint", "", "Feature service query endpoint URL")
	fetchCmd.Flags().StringArray("param", nil, "Query parameter as key=value (repeatable)")
	fetchCmd.Flags().String("params-file", "", "YAML file of query parameters")
	fetchCmd.Flags().Int("offset", 0, "Initial result offset")
	fetchCmd.Flags().Bool("single", false, "Fetch one page only, without pagination")
	fetchCmd.Flags().StringP("out", "o", "features.geojson", "Output GeoJSON path")
	fetchCmd.Flags().String("name", "", "Dataset name for the catalog (defaults to the output filename)")
	_ = fetchCmd.MarkFlagRequired("endpoint")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, _ []string) error {
	endpoint, _ := cmd.Flags().GetString("endpoint")
	rawParams, _ := cmd.Flags().GetStringArray("param")
	paramsFile, _ := cmd.Flags().GetString("params-file")
	offset, _ := cmd.Flags().GetInt("offset")
	single, _ := cmd.Flags().GetBool("single")
	out, _ := cmd.Flags().GetString("out")
	name, _ := cmd.Flags().GetString("name")
	if name == "" {
		name = out
	}

	params, err := buildParams(rawParams, paramsFile)
	if err != nil {
		return err
	}
	if !params.Has(arcgis.ResultOffsetKey) {
		params.Set(arcgis.ResultOffsetKey, strconv.Itoa(offset))
	}

	client := arcgis.NewClient(
		arcgis.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.Fetch.TimeoutSecs) * time.Second}),
		arcgis.WithRateLimit(cfg.Fetch.RateLimit),
		arcgis.WithUserAgent(cfg.Fetch.UserAgent),
	)

	ctx := cmd.Context()

	table, err := fetchTable(ctx, client, endpoint, params, single)
	if err != nil {
		return err
	}

	if err := table.WriteFile(out); err != nil {
		return err
	}
	zap.L().Info("wrote dataset",
		zap.String("path", out),
		zap.Int("records", table.Len()),
		zap.String("crs", table.CRS),
	)

	return recordDataset(cmd, name, endpoint, params, table.Len(), table.CRS, out)
}

// fetchTable runs either a single-page or a fully paginated fetch.
func fetchTable(ctx context.Context, client *arcgis.Client, endpoint string, params url.Values, single bool) (*geotable.Table, error) {
	if single {
		page, err := client.FetchPage(ctx, endpoint, params)
		if err != nil {
			return nil, err
		}
		return page.Table, nil
	}
	return client.FetchAll(ctx, endpoint, params)
}

// buildParams merges a YAML parameters file with key=value flags; flags win.
func buildParams(rawParams []string, paramsFile string) (url.Values, error) {
	params := url.Values{}

	if paramsFile != "" {
		data, err := os.ReadFile(paramsFile)
		if err != nil {
			return nil, eris.Wrapf(err, "fetch: read params file %s", paramsFile)
		}
		var fileParams map[string]string
		if err := yaml.Unmarshal(data, &fileParams); err != nil {
			return nil, eris.Wrapf(err, "fetch: parse params file %s", paramsFile)
		}
		for k, v := range fileParams {
			params.Set(k, v)
		}
	}

	for _, p := range rawParams {
		k, v, ok := strings.Cut(p, "=")
		if !ok {
			return nil, eris.Errorf("fetch: invalid param %q, want key=value", p)
		}
		params.Set(k, v)
	}

	return params, nil
}

// recordDataset writes the fetch to the local catalog. Catalog failures are
// logged, not fatal: the GeoJSON output already exists on disk.
func recordDataset(cmd *cobra.Command, name, endpoint string, params url.Values, records int, crs, path string) error {
	cat, err := catalog.NewSQLite(cfg.Catalog.Path)
	if err != nil {
		zap.L().Warn("catalog unavailable", zap.Error(err))
		return nil
	}
	defer cat.Close() //nolint:errcheck

	ctx := cmd.Context()
	if err := cat.Migrate(ctx); err != nil {
		zap.L().Warn("catalog migrate failed", zap.Error(err))
		return nil
	}

	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return eris.Wrap(err, "fetch: encode params")
	}

	d, err := cat.SaveDataset(ctx, catalog.Dataset{
		Name:     name,
		Endpoint: endpoint,
		Params:   string(paramsJSON),
		CRS:      crs,
		Records:  records,
		Path:     path,
	})
	if err != nil {
		zap.L().Warn("catalog save failed", zap.Error(err))
		return nil
	}

	zap.L().Info("cataloged dataset", zap.String("id", d.ID), zap.String("name", d.Name))
	return nil
}
