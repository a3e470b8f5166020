package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ErrorTestSuite struct {
	suite.Suite
}

func TestErrorSuite(t *testing.T) {
	suite.Run(t, new(ErrorTestSuite))
}

func (suite *ErrorTestSuite) TestNew() {
	err := New(ErrCodeInvalidConfig, "bad config")
	suite.Equal(ErrCodeInvalidConfig, err.Code)
	suite.Equal("bad config", err.Message)
	suite.Nil(err.Cause)
	suite.Equal("[101] bad config", err.Error())
}

func (suite *ErrorTestSuite) TestNewf() {
	err := Newf(ErrCodeInvalidSeries, "series too short: %d < %d", 1, 2)
	suite.Equal("[102] series too short: 1 < 2", err.Error())
}

func (suite *ErrorTestSuite) TestWrap() {
	cause := stderrors.New("boom")
	err := Wrap(ErrCodeStrategyFault, "strategy faulted", cause)
	suite.Equal("[401] strategy faulted: boom", err.Error())
	suite.Equal(cause, stderrors.Unwrap(err))
}

func (suite *ErrorTestSuite) TestWrapf() {
	cause := stderrors.New("boom")
	err := Wrapf(ErrCodeQueryFailed, cause, "query %q failed", "select")
	suite.Equal(ErrCodeQueryFailed, err.Code)
	suite.True(stderrors.Is(err, cause))
}

func (suite *ErrorTestSuite) TestGetCode() {
	suite.Equal(ErrCodeInvalidOrder, GetCode(New(ErrCodeInvalidOrder, "x")))
	suite.Equal(ErrCodeUnknown, GetCode(stderrors.New("plain")))
	suite.Equal(ErrCodeUnknown, GetCode(nil))
}

func (suite *ErrorTestSuite) TestGetCodeWrappedChain() {
	inner := New(ErrCodeInsufficientFunds, "not enough cash")
	outer := Wrap(ErrCodeBacktestFailed, "run failed", inner)
	// The outermost code wins.
	suite.Equal(ErrCodeBacktestFailed, GetCode(outer))
}

func (suite *ErrorTestSuite) TestHasCode() {
	err := New(ErrCodeDataNotFound, "missing")
	suite.True(HasCode(err, ErrCodeDataNotFound))
	suite.False(HasCode(err, ErrCodeDataReadFailed))
}
