package mocks

// gomock doubles for the core interfaces, used where a test needs to force
// a cache outage or assert on recorded metrics.

//go:generate go run go.uber.org/mock/mockgen -source=../core/cache.go -destination=mock_cache.go -package=mocks
//go:generate go run go.uber.org/mock/mockgen -source=../core/metrics.go -destination=mock_metrics.go -package=mocks
