package writer

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type DuckDBWriterTestSuite struct {
	suite.Suite
}

func TestDuckDBWriterSuite(t *testing.T) {
	suite.Run(t, new(DuckDBWriterTestSuite))
}

func (suite *DuckDBWriterTestSuite) TestWriteAndFinalize() {
	outputPath := filepath.Join(suite.T().TempDir(), "out.parquet")
	w := NewDuckDBWriter(outputPath)
	suite.Equal(outputPath, w.GetOutputPath())

	suite.Require().NoError(w.Initialize())
	defer w.Close()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		record := Record{
			Symbol: "AAPL",
			Time:   base.AddDate(0, 0, i),
			Open:   100 + float64(i),
			High:   101 + float64(i),
			Low:    99 + float64(i),
			Close:  100.5 + float64(i),
			Volume: 1000,
		}
		suite.Require().NoError(w.Write(record))
	}

	path, err := w.Finalize()
	suite.Require().NoError(err)
	suite.Equal(outputPath, path)
	suite.FileExists(path)

	// Read the Parquet file back and check the schema round-trips.
	db, err := sql.Open("duckdb", ":memory:")
	suite.Require().NoError(err)
	defer db.Close()

	var count int
	row := db.QueryRow(fmt.Sprintf(`SELECT COUNT(*) FROM read_parquet('%s') WHERE symbol = 'AAPL'`, path))
	suite.Require().NoError(row.Scan(&count))
	suite.Equal(3, count)

	var closePrice float64
	row = db.QueryRow(fmt.Sprintf(`SELECT close FROM read_parquet('%s') ORDER BY time LIMIT 1`, path))
	suite.Require().NoError(row.Scan(&closePrice))
	suite.Equal(100.5, closePrice)
}

func (suite *DuckDBWriterTestSuite) TestWriteBeforeInitializeFails() {
	w := NewDuckDBWriter(filepath.Join(suite.T().TempDir(), "out.parquet"))

	err := w.Write(Record{Symbol: "AAPL", Time: time.Now()})
	suite.Error(err)

	_, err = w.Finalize()
	suite.Error(err)
}

func (suite *DuckDBWriterTestSuite) TestCloseWithoutFinalizeRollsBack() {
	outputPath := filepath.Join(suite.T().TempDir(), "out.parquet")
	w := NewDuckDBWriter(outputPath)
	suite.Require().NoError(w.Initialize())

	suite.Require().NoError(w.Write(Record{Symbol: "AAPL", Time: time.Now(), Open: 1, High: 1, Low: 1, Close: 1, Volume: 1}))
	suite.NoError(w.Close())
	suite.NoFileExists(outputPath)
}
