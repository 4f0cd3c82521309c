// Package mocks contains generated mocks for the core interfaces.
package mocks

//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=job_repository_mock.go github.com/readykit/report-api/internal/core JobRepository
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=callback_repository_mock.go github.com/readykit/report-api/internal/core CallbackRepository
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=callback_view_repository_mock.go github.com/readykit/report-api/internal/core CallbackViewRepository
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=report_repository_mock.go github.com/readykit/report-api/internal/core ReportRepository
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=usage_repository_mock.go github.com/readykit/report-api/internal/core UsageRepository
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=cache_repository_mock.go github.com/readykit/report-api/internal/core CacheRepository
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=engine_client_mock.go github.com/readykit/report-api/internal/core EngineClient
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=content_generator_mock.go github.com/readykit/report-api/internal/core ContentGenerator
