// Package mocks provides mock implementations for testing the service layer.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for our repository interfaces.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockRepo := mocks.NewMockSpotRepository(ctrl)
//	mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(spot, nil)
package mocks

// Generate mock for SpotRepository interface from internal/core package.
// This creates MockSpotRepository with methods for all SpotRepository interface methods:
// Create, GetByID, List, Count, Update, Delete
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=spot_repository_mock.go github.com/parkease/parkeased/internal/core SpotRepository

// Generate mock for ReservationRepository interface from internal/core package.
// This creates MockReservationRepository with methods for all ReservationRepository interface methods:
// Create, GetByID, GetDetailByID, List, Count, SetStatus, SetVerified, HasOverlap
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=reservation_repository_mock.go github.com/parkease/parkeased/internal/core ReservationRepository

// Generate mock for ProfileRepository interface from internal/core package.
// This creates MockProfileRepository with methods for all ProfileRepository interface methods:
// Get, GetByEmail, Set, List, Count
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=profile_repository_mock.go github.com/parkease/parkeased/internal/core ProfileRepository
