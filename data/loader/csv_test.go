package loader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ex "github.com/martinozimek/india-etf/data/extensions"
	m "github.com/martinozimek/india-etf/data/models"
)

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func Test_Load_EtfExportSkipsMetadataRowAndTrimsHeader(t *testing.T) {
	path := writeFixture(t, "INDA_daily.csv", " Date , Price ,Volume\n"+
		",INDA,INDA\n"+
		"2020-01-02,30.5,100\n"+
		"2020-01-03,31.5,200\n")

	obs, err := LoadEtfPrices(path, EtfMetadataRows)
	require.NoError(t, err)
	require.Len(t, obs, 2)

	ex.AssertAreEqual(t, "first timestamp", time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC), obs[0].Timestamp)
	ex.AssertAreEqual(t, "first value", 30.5, obs[0].Value)
	ex.AssertAreEqual(t, "second value", 31.5, obs[1].Value)
}

func Test_Load_DropsUnparseableRowsAndKeepsSourceOrder(t *testing.T) {
	path := writeFixture(t, "gdp.csv", "Date,GDP_USD\n"+
		"2021-06-30,300\n"+
		"not a date,100\n"+
		"2021-03-31,n/a\n"+
		"2020-12-31,\n"+
		"2021-03-31,200\n"+
		"2021-09-30,NaN\n"+
		"2021-12-31\n")

	obs, err := LoadGdp(path)
	require.NoError(t, err)
	require.Len(t, obs, 2)

	// file order, not date order
	assert.Equal(t, 300.0, obs[0].Value)
	assert.Equal(t, 200.0, obs[1].Value)
	assert.True(t, obs[0].Timestamp.After(obs[1].Timestamp))
}

func Test_Load_ParsesAlternateDateLayouts(t *testing.T) {
	path := writeFixture(t, "mixed.csv", "Date,Price\n"+
		"2020/02/03,1\n"+
		"02/04/2020,2\n"+
		"2020-02-05 16:00:00,3\n"+
		"2020-02-06T00:00:00Z,4\n")

	obs, err := Load(path, DateColumn, PriceColumn, 0)
	require.NoError(t, err)
	require.Len(t, obs, 4)

	for i, o := range obs {
		expected := time.Date(2020, 2, 3+i, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, expected, o.Timestamp, "row %d", i)
	}
}

func Test_Load_StripsByteOrderMark(t *testing.T) {
	path := writeFixture(t, "bom.csv", "\xEF\xBB\xBFDate,Price\n2020-01-02,10\n")

	obs, err := Load(path, DateColumn, PriceColumn, 0)
	require.NoError(t, err)
	assert.Len(t, obs, 1)
}

func Test_Load_MissingPriceColumnIsSchemaError(t *testing.T) {
	path := writeFixture(t, "EPI_daily.csv", "Date,Close\n,EPI\n2020-01-02,10\n")

	_, err := LoadEtfPrices(path, EtfMetadataRows)
	require.Error(t, err)

	var schemaErr *m.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, PriceColumn, schemaErr.Column)
	assert.Equal(t, []string{"Date", "Close"}, schemaErr.Found)
}

func Test_Load_EmptyFileIsSchemaError(t *testing.T) {
	path := writeFixture(t, "empty.csv", "")

	_, err := LoadGdp(path)

	var schemaErr *m.SchemaError
	assert.ErrorAs(t, err, &schemaErr)
}

func Test_Load_MissingFileIsNotFoundError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does_not_exist.csv")

	_, err := LoadGdp(path)

	var notFound *m.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, path, notFound.Path)
}

func Test_Load_HeaderOnlyReturnsNoObservations(t *testing.T) {
	path := writeFixture(t, "header.csv", "Date,Price\n")

	obs, err := Load(path, DateColumn, PriceColumn, 0)
	require.NoError(t, err)
	assert.Empty(t, obs)
}
