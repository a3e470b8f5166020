package mocks

//go:generate mockgen -destination=./mock_strategy.go -package=mocks github.com/quantor-lab/quantor/internal/strategy Strategy
//go:generate mockgen -destination=./mock_loader.go -package=mocks github.com/quantor-lab/quantor/internal/datasource Loader
