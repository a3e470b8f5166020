package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter ErrorCode = 100
	ErrCodeInvalidConfig    ErrorCode = 101
	ErrCodeInvalidSeries    ErrorCode = 102
	ErrCodeInvalidBar       ErrorCode = 103
	ErrCodeInvalidOrder     ErrorCode = 104
	ErrCodeInvalidPeriod    ErrorCode = 105

	// Data/Resource errors (200-299)
	ErrCodeDataNotFound   ErrorCode = 200
	ErrCodeDataReadFailed ErrorCode = 201
	ErrCodeQueryFailed    ErrorCode = 202

	// Strategy errors (400-499)
	ErrCodeStrategyConfig ErrorCode = 400
	ErrCodeStrategyFault  ErrorCode = 401

	// Execution errors (500-599)
	ErrCodeOrderFailed       ErrorCode = 500
	ErrCodeInsufficientFunds ErrorCode = 501
	ErrCodePositionMismatch  ErrorCode = 502

	// Backtest errors (600-699)
	ErrCodeBacktestNotConfigured ErrorCode = 600
	ErrCodeBacktestAlreadyRun    ErrorCode = 601
	ErrCodeBacktestFailed        ErrorCode = 602
	ErrCodeJournalFailed         ErrorCode = 603

	// Market data errors (700-799)
	ErrCodeMarketDataFetchFailed ErrorCode = 700
	ErrCodeMarketDataWriteFailed ErrorCode = 701
	ErrCodeInvalidTimespan       ErrorCode = 702
	ErrCodeInvalidProvider       ErrorCode = 703
)
