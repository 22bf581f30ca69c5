// Package mocks provides generated mock implementations for testing.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for
// the port interfaces. The mocks are generated using go:generate directives
// and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	store := mocks.NewMockSessionStore(ctrl)
//	store.EXPECT().Get(gomock.Any(), "sess-1").Return(sess, nil)
package mocks

// Generate mock for SessionStore interface from internal/ports.
// This creates MockSessionStore with methods: Save, Get, Delete
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=session_store_mock.go github.com/aulaplus/aula-ui/internal/ports SessionStore

// Generate mock for SchoolQueries interface from internal/ports.
// This creates MockSchoolQueries with methods: Actividades, Tareas, Calificaciones
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=school_queries_mock.go github.com/aulaplus/aula-ui/internal/ports SchoolQueries
