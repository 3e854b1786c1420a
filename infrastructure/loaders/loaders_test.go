package loaders

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"srm-backend/domain/core/valueobjects"
	pkgerrors "srm-backend/pkg/errors"
)

const scenarioRows = `[[1,1,1],[1,1,1],[0,1,1],[1,0,0],[0,0,1]]`

func assertScenario(t *testing.T, m *valueobjects.BinaryMatrix, users ...string) {
	t.Helper()
	require.NotNil(t, m)
	assert.Equal(t, 5, m.ItemCount())
	assert.Equal(t, 3, m.UserCount())
	assert.Equal(t, users, m.Users())
	assert.Equal(t, []int{1, 2, 4}, m.Collection(0).Values())
	assert.Equal(t, []int{1, 2, 3}, m.Collection(1).Values())
	assert.Equal(t, []int{1, 2, 3, 5}, m.Collection(2).Values())
}

func TestDecodeJSON_Rows(t *testing.T) {
	m, err := DecodeJSON(strings.NewReader(scenarioRows))
	require.NoError(t, err)
	assertScenario(t, m, "1", "2", "3")
}

func TestDecodeJSON_Envelope(t *testing.T) {
	payload := `{"users": ["A", "B", "C"], "rows": ` + scenarioRows + `}`
	m, err := DecodeJSON(strings.NewReader(payload))
	require.NoError(t, err)
	assertScenario(t, m, "A", "B", "C")
}

func TestDecodeJSON_RecordsKeepColumnOrder(t *testing.T) {
	payload := `[
		{"Unnamed: 0": 1, "C": 1, "A": 1, "B": 1},
		{"Unnamed: 0": 2, "C": 1, "A": 1, "B": 1},
		{"Unnamed: 0": 3, "C": 1, "A": 0, "B": 1},
		{"Unnamed: 0": 4, "C": 0, "A": 1, "B": 0},
		{"Unnamed: 0": 5, "C": 1, "A": 0, "B": 0}
	]`
	m, err := DecodeJSON(strings.NewReader(payload))
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "A", "B"}, m.Users())
	assert.Equal(t, []int{1, 2, 3, 5}, m.Collection(0).Values())
	assert.Equal(t, []int{1, 2, 4}, m.Collection(1).Values())
}

func TestDecodeJSON_IntegralFloatsAccepted(t *testing.T) {
	m, err := DecodeJSON(strings.NewReader(`[[1.0, 0.0], [0, 1]]`))
	require.NoError(t, err)
	assert.Equal(t, []int{1}, m.Collection(0).Values())
}

func TestDecodeJSON_Errors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		row     int
		column  int
	}{
		{name: "empty payload", payload: "  "},
		{name: "fractional cell", payload: `[[1, 0.5]]`, row: 1, column: 2},
		{name: "non binary cell", payload: `[[1, 0], [2, 1]]`, row: 2, column: 1},
		{name: "ragged rows", payload: `[[1, 0], [1]]`, row: 2},
		{name: "string cell", payload: `[[1, "x"]]`},
		{name: "unknown envelope field", payload: `{"users": [], "rows": [], "extra": 1}`},
		{name: "label count mismatch", payload: `{"users": ["a"], "rows": [[1, 0]]}`},
		{name: "records with differing columns", payload: `[{"i": 1, "a": 1}, {"i": 2, "b": 1}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeJSON(strings.NewReader(tt.payload))
			require.Error(t, err)
			assert.True(t, errors.Is(err, valueobjects.ErrInvalidMatrix), "got %v", err)

			var invalid *valueobjects.InvalidMatrixError
			require.True(t, errors.As(err, &invalid))
			if tt.row > 0 {
				assert.Equal(t, tt.row, invalid.Row)
				assert.Equal(t, tt.column, invalid.Column)
			}
		})
	}
}

func TestDecodeJSON_EmptyArray(t *testing.T) {
	m, err := DecodeJSON(strings.NewReader(`[]`))
	require.NoError(t, err)
	assert.True(t, m.IsEmpty())
}

func TestDecodeCSV(t *testing.T) {
	payload := ",A,B,C\n1,1,1,1\n2,1,1,1\n3,0,1,1\n4,1,0,0\n5,0,0,1\n"
	m, err := DecodeCSV(strings.NewReader(payload))
	require.NoError(t, err)
	assertScenario(t, m, "A", "B", "C")
}

func TestDecodeCSV_ShortRowIsRagged(t *testing.T) {
	_, err := DecodeCSV(strings.NewReader("idx,A,B\n1,1,1\n2,1\n"))

	var invalid *valueobjects.InvalidMatrixError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, 2, invalid.Row)
	assert.True(t, errors.Is(err, valueobjects.ErrInvalidMatrix))
}

func TestDecodeCSV_EmptyTrailingCellsReadAsZero(t *testing.T) {
	m, err := DecodeCSV(strings.NewReader("idx,A,B\n1,1,\n2,1,1\n"))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, m.Collection(0).Values())
	assert.Equal(t, []int{2}, m.Collection(1).Values())
}

func TestDecodeCSV_Errors(t *testing.T) {
	_, err := DecodeCSV(strings.NewReader("idx,A\n1,yes\n"))
	var invalid *valueobjects.InvalidMatrixError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, 1, invalid.Row)
	assert.Equal(t, 1, invalid.Column)

	_, err = DecodeCSV(strings.NewReader("idx,A\n1,1,1\n"))
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, 1, invalid.Row)
}

func scenarioWorkbook(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	rows := [][]interface{}{
		{"", "A", "B", "C"},
		{1, 1, 1, 1},
		{2, 1, 1, 1},
		{3, 0, 1, 1},
		{4, 1, 0, 0},
		{5, 0, 0, 1},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestDecodeSpreadsheet(t *testing.T) {
	m, err := DecodeSpreadsheet(bytes.NewReader(scenarioWorkbook(t)))
	require.NoError(t, err)
	assertScenario(t, m, "A", "B", "C")
}

func TestDecodeSpreadsheet_ShortRowsPadWithZero(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"", "A", "B"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{1, 1}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{2, 1, 1}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	m, err := DecodeSpreadsheet(bytes.NewReader(buf.Bytes()))

	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, m.Collection(0).Values())
	assert.Equal(t, []int{2}, m.Collection(1).Values())
}

func TestDecodeSpreadsheet_NotAWorkbook(t *testing.T) {
	_, err := DecodeSpreadsheet(strings.NewReader("not a zip"))
	assert.True(t, errors.Is(err, valueobjects.ErrInvalidMatrix))
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		contentType string
		want        Format
	}{
		{"xlsx extension", "data/membership.xlsx", "", FormatXLSX},
		{"csv extension", "m.CSV", "", FormatCSV},
		{"json extension", "data.json", "text/csv", FormatJSON},
		{"content type xlsx", "/export", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", FormatXLSX},
		{"content type csv", "/export", "text/csv; charset=utf-8", FormatCSV},
		{"fallback", "/export", "", FormatJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFormat(tt.file, tt.contentType))
		})
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("XLSX")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatAuto, f)

	_, err = ParseFormat("parquet")
	assert.Error(t, err)
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "matrix.xlsx")
	require.NoError(t, os.WriteFile(path, scenarioWorkbook(t), 0o600))

	src := NewFileSource(path, FormatAuto)
	assert.Equal(t, FormatXLSX, src.Format())
	assert.Equal(t, path, src.Path())
	assert.Equal(t, "file:"+path, src.Describe())

	m, err := src.Load(context.Background())
	require.NoError(t, err)
	assertScenario(t, m, "A", "B", "C")
}

func TestFileSource_Missing(t *testing.T) {
	src := NewFileSource(filepath.Join(t.TempDir(), "missing.json"), FormatAuto)
	_, err := src.Load(context.Background())
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestFileSource_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewFileSource("unused.json", FormatJSON).Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func testBreaker() BreakerConfig {
	cfg := DefaultBreakerConfig("test-source")
	cfg.MinRequests = 2
	cfg.FailureThreshold = 0.5
	cfg.Timeout = time.Minute
	return cfg
}

func TestHTTPSource_Load(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(",A,B,C\n1,1,1,1\n2,1,1,1\n3,0,1,1\n4,1,0,0\n5,0,0,1\n"))
	}))
	defer server.Close()

	src, err := NewHTTPSource(server.URL+"/export", FormatAuto, time.Second, testBreaker(), zap.NewNop())
	require.NoError(t, err)

	m, err := src.Load(context.Background())
	require.NoError(t, err)
	assertScenario(t, m, "A", "B", "C")
	assert.Equal(t, "closed", src.BreakerState())
}

func TestHTTPSource_BreakerOpensAfterFailures(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	src, err := NewHTTPSource(server.URL, FormatJSON, time.Second, testBreaker(), nil)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err = src.Load(context.Background())
		require.Error(t, err)
		assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeExternal))
	}

	_, err = src.Load(context.Background())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeUnavailable))
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, "open", src.BreakerState())
}

func TestHTTPSource_DecodeFailureDoesNotTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[[3]]`))
	}))
	defer server.Close()

	src, err := NewHTTPSource(server.URL+"/m.json", FormatAuto, time.Second, testBreaker(), nil)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = src.Load(context.Background())
		assert.True(t, errors.Is(err, valueobjects.ErrInvalidMatrix))
	}
	assert.Equal(t, "closed", src.BreakerState())
}

func TestNewHTTPSource_InvalidURL(t *testing.T) {
	_, err := NewHTTPSource("ftp://example.com/m.json", FormatJSON, time.Second, testBreaker(), nil)
	assert.Error(t, err)
}
