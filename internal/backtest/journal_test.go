package backtest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/quantor-lab/quantor/internal/types"
)

type JournalTestSuite struct {
	suite.Suite
	journal *Journal
}

func TestJournalSuite(t *testing.T) {
	suite.Run(t, new(JournalTestSuite))
}

func (suite *JournalTestSuite) SetupTest() {
	journal, err := NewJournal(nil)
	suite.Require().NoError(err)
	suite.Require().NoError(journal.Initialize())
	suite.journal = journal
}

func (suite *JournalTestSuite) TearDownTest() {
	suite.journal.Close()
}

func (suite *JournalTestSuite) runResult() *types.BacktestResult {
	cfg := crossoverConfig()
	strat, err := cfg.Strategy.NewStrategy()
	suite.Require().NoError(err)
	engine, err := NewEngine(cfg, strat, nil)
	suite.Require().NoError(err)

	result, err := engine.Execute(roundTripSeries())
	suite.Require().NoError(err)

	return result
}

func (suite *JournalTestSuite) TestRecordAndReadBack() {
	result := suite.runResult()

	runID, err := suite.journal.Record(result)
	suite.Require().NoError(err)
	suite.NotEmpty(runID)

	trades, err := suite.journal.Trades(runID)
	suite.Require().NoError(err)
	suite.Require().Len(trades, len(result.Trades))
	suite.Equal(result.Trades[0].EntryOrderID, trades[0].EntryOrderID)
	suite.InDelta(result.Trades[0].RealizedPnL, trades[0].RealizedPnL, 1e-9)

	equity, err := suite.journal.Equity(runID)
	suite.Require().NoError(err)
	suite.Require().Len(equity, len(result.Equity))
	suite.InDelta(result.Equity[len(equity)-1].Value, equity[len(equity)-1].Value, 1e-9)
}

func (suite *JournalTestSuite) TestRunsAreIsolated() {
	first, err := suite.journal.Record(suite.runResult())
	suite.Require().NoError(err)
	second, err := suite.journal.Record(suite.runResult())
	suite.Require().NoError(err)
	suite.NotEqual(first, second)

	trades, err := suite.journal.Trades(first)
	suite.Require().NoError(err)
	suite.Len(trades, 1)
}

func (suite *JournalTestSuite) TestExportParquet() {
	runID, err := suite.journal.Record(suite.runResult())
	suite.Require().NoError(err)
	suite.NotEmpty(runID)

	dir := suite.T().TempDir()
	suite.Require().NoError(suite.journal.Export(dir))

	for _, name := range []string{"runs", "orders", "trades", "equity"} {
		suite.FileExists(filepath.Join(dir, name+".parquet"))
	}
}

func (suite *JournalTestSuite) TestUnknownRunIsEmpty() {
	trades, err := suite.journal.Trades("no-such-run")
	suite.NoError(err)
	suite.Empty(trades)
}
